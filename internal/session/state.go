package session

import "storefront/internal/schema"

type Status int

const (
	Anonymous Status = iota
	Loading
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Loading:
		return "loading"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// State is exactly one of anonymous, loading or authenticated. User is set
// if and only if Status is Authenticated.
type State struct {
	Status Status
	User   *schema.User
}

func (s State) IsAuthenticated() bool {
	return s.Status == Authenticated && s.User != nil
}

func (s State) IsLoading() bool {
	return s.Status == Loading
}

// Event is one of the transitions Reduce understands.
type Event interface {
	event()
}

type (
	LoginStarted   struct{}
	LoginSucceeded struct{ User schema.User }
	LoginFailed    struct{}
	LoggedOut      struct{}
	UserLoaded     struct{ User schema.User }
	LoadFailed     struct{}
)

func (LoginStarted) event()   {}
func (LoginSucceeded) event() {}
func (LoginFailed) event()    {}
func (LoggedOut) event()      {}
func (UserLoaded) event()     {}
func (LoadFailed) event()     {}

// Initial is the state before the durable store has been read.
func Initial() State {
	return State{Status: Loading}
}

// Reduce applies e to s. It never mutates s, and an unknown event leaves s
// unchanged.
func Reduce(s State, e Event) State {
	switch ev := e.(type) {
	case LoginStarted:
		return State{Status: Loading}
	case LoginSucceeded:
		u := ev.User
		return State{Status: Authenticated, User: &u}
	case UserLoaded:
		u := ev.User
		return State{Status: Authenticated, User: &u}
	case LoginFailed, LoggedOut, LoadFailed:
		return State{Status: Anonymous}
	default:
		return s
	}
}
