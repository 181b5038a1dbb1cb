package schema

import "encoding/json"

// User is what /user/login and /user/signup return and what the session
// persists.
type User struct {
	ID       string `json:"_id" validate:"required"`
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Token    string `json:"token" validate:"required"`
	Admin    bool   `json:"admin,omitempty"`
}

type Signup struct {
	Username string `json:"username" validate:"min=2"`
	Email    string `json:"email" validate:"email"`
	Password string `json:"password" validate:"min=8"`
}

type Login struct {
	Email    string `json:"email" validate:"email"`
	Password string `json:"password" validate:"required"`
}

var signupMessages = messages{
	"username.min": "username must be at least 2 characters",
	"email.email":  "please enter a valid email address",
	"password.min": "password must be at least 8 characters",
}

var loginMessages = messages{
	"email.email":       "please enter a valid email address",
	"password.required": "password is required",
}

func ParseUser(raw []byte) (User, error) {
	var u User
	if err := decodeObject(raw, &u, "_id", "token"); err != nil {
		return User{}, err
	}
	if err := check(u, nil); err != nil {
		return User{}, err
	}
	return u, nil
}

func (s Signup) Validate() error {
	return check(s, signupMessages)
}

func (l Login) Validate() error {
	return check(l, loginMessages)
}

// Message is the {message} envelope mutations answer with.
type Message struct {
	Message string `json:"message"`
}

// ParseMessage accepts any JSON object; a missing message is left empty.
func ParseMessage(raw []byte) (Message, error) {
	var m Message
	if err := decodeObject(raw, &m); err != nil {
		return Message{}, err
	}
	return m, nil
}

// MessageOf pulls the message field out of an arbitrary error body,
// returning "" when there is none.
func MessageOf(raw []byte) string {
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return ""
	}
	return m.Message
}
