package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// User models an account in the directory. Ids are numeric and assigned at
// creation; the email is the login identifier and unique across users.
type User struct {
	ID           int64     `json:"id"`
	FullName     string    `json:"full_name"`
	DOB          time.Time `json:"dob"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
