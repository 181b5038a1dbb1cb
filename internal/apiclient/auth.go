package apiclient

import (
	"context"
	"net/http"

	"storefront/internal/schema"
)

func (c *Client) Signup(ctx context.Context, in schema.Signup) (schema.User, error) {
	if err := in.Validate(); err != nil {
		return schema.User{}, validationError("/user/signup", err)
	}

	return Request(ctx, c, Call{
		Method:   http.MethodPost,
		Endpoint: "/user/signup",
		Body:     in,
	}, schema.ParseUser)
}

func (c *Client) Login(ctx context.Context, in schema.Login) (schema.User, error) {
	if err := in.Validate(); err != nil {
		return schema.User{}, validationError("/user/login", err)
	}

	return Request(ctx, c, Call{
		Method:   http.MethodPost,
		Endpoint: "/user/login",
		Body:     in,
	}, schema.ParseUser)
}
