package service_interfaces

import "context"

type UserService interface {
	SignUp(ctx context.Context, req SignUpRequest) (SignUpResult, error)
	// Authenticate returns the actor id for valid credentials.
	Authenticate(ctx context.Context, username string, password string) (string, error)
}
