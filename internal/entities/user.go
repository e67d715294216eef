package entities

import "time"

type UserType string

const (
	UserTypeEmployer  UserType = "employer"
	UserTypeCandidate UserType = "candidate"
)

func (t UserType) Valid() bool {
	return t == UserTypeEmployer || t == UserTypeCandidate
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Type      UserType  `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}
