package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type (
	// Workspace is a named grouping of forms. It is a pure label:
	// forms reference it by id, deleting a workspace does not cascade
	// to the forms in it.
	Workspace struct {
		ID   string `json:"id" bson:"id"`
		Name string `json:"name" bson:"name"`
	}

	// User is an account holder. Workspaces are embedded, not
	// independently persisted entities. PasswordHash never leaves the
	// server.
	User struct {
		ID           string      `json:"id" bson:"id"`
		Email        string      `json:"email" bson:"email"`
		PasswordHash string      `json:"-" bson:"password_hash"`
		Workspaces   []Workspace `json:"workspaces" bson:"workspaces"`
		CreatedAt    time.Time   `json:"createdAt" bson:"created_at"`
	}
)

// NewUser creates a user with the default first workspace every
// signup starts with.
func NewUser(email, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		Workspaces: []Workspace{
			NewWorkspace("My First Workspace"),
		},
		CreatedAt: time.Now().UTC(),
	}
}

func NewWorkspace(name string) Workspace {
	return Workspace{
		ID:   newID(),
		Name: name,
	}
}

func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("user ID can not be empty")
	}
	if u.Email == "" {
		return errors.New("email can not be empty")
	}
	if u.PasswordHash == "" {
		return errors.New("password hash can not be empty")
	}

	return nil
}
