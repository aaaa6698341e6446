package server

import (
	"context"

	"golang.org/x/crypto/bcrypt"
)

// StaticCredentials validates the single admin account configured through
// the environment. An empty hash locks the mutating endpoints entirely.
type StaticCredentials struct {
	Username     string
	PasswordHash string
}

func (c StaticCredentials) Validate(_ context.Context, username, password string) (bool, error) {
	if c.Username == "" || c.PasswordHash == "" {
		return false, nil
	}
	if username != c.Username {
		return false, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}
