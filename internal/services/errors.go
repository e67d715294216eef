package services

import "github.com/pkg/errors"

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotEmployer      = errors.New("only employers may manage job listings")
	ErrNotOwner         = errors.New("job listing belongs to another employer")
	ErrJobNotFound      = errors.New("job listing not found")
	ErrEmptyContent     = errors.New("message content must not be blank")
	ErrRateLimited      = errors.New("message rate limit exceeded")
	ErrInvalidUserType  = errors.New("user type must be employer or candidate")
)
