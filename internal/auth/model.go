package auth

import (
	"fmt"
	"regexp"
	"time"

	appErrors "github.com/veerababu-g/budget-planner/errors"
)

const (
	MAX_LENGTH_USERNAME = 255
	MAX_PASSWORD_LENGTH = 72 // bcrypt input limit
)

type User struct {
	ID             string
	Username       string
	PasswordHashed string
	CreatedAt      time.Time
}

type NewUser struct {
	Username      string
	PasswordPlain string
}

type Credentials struct {
	Username      string
	PasswordPlain string
}

// RefreshToken is the DB-backed long-lived token. Logout revokes it;
// a revoked token can no longer mint access tokens.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	Revoked   bool
}

// TokenPair is what login and registration hand back to the client.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

var usernameRegex = regexp.MustCompile(`^[a-z0-9_]{1,30}$`)

func (newUser NewUser) Validate() error {
	if newUser.Username == "" {
		return fmt.Errorf("%w: username cannot be empty", appErrors.ErrInvalidInput)
	}
	if !usernameRegex.MatchString(newUser.Username) {
		return fmt.Errorf("%w: username contains wrong characters, example username: john_doe", appErrors.ErrInvalidInput)
	}
	if len(newUser.Username) > MAX_LENGTH_USERNAME {
		return fmt.Errorf("%w: username so long, maximum length is %d", appErrors.ErrInvalidInput, MAX_LENGTH_USERNAME)
	}
	if newUser.PasswordPlain == "" {
		return fmt.Errorf("%w: password cannot be empty", appErrors.ErrInvalidInput)
	}
	if len(newUser.PasswordPlain) > MAX_PASSWORD_LENGTH {
		return fmt.Errorf("%w: password so long, maximum length is %d", appErrors.ErrInvalidInput, MAX_PASSWORD_LENGTH)
	}
	return nil
}
