package service

import (
	"context"

	"github.com/formforge/form-service/internal/entity"
)

type (
	// FormRepository is the form document store.
	FormRepository interface {
		Create(ctx context.Context, form *entity.Form) error
		Get(ctx context.Context, id, ownerID string) (*entity.Form, error)
		List(ctx context.Context, ownerID string) ([]entity.Form, error)
		Replace(ctx context.Context, id, ownerID string, form *entity.Form) (*entity.Form, error)
		Delete(ctx context.Context, id, ownerID string) error
		GetByShareableLink(ctx context.Context, link string) (*entity.Form, error)
	}

	// UserRepository is the user document store.
	UserRepository interface {
		Create(ctx context.Context, user *entity.User) error
		GetByEmail(ctx context.Context, email string) (*entity.User, error)
		GetByID(ctx context.Context, id string) (*entity.User, error)
	}

	// Casher caches published forms by shareable link.
	Casher interface {
		AddToCash(ctx context.Context, key string, payload any) error
		GetCashFor(ctx context.Context, key string) ([]byte, error)
		RemoveFromCash(ctx context.Context, key string) error
	}

	// Publisher emits form lifecycle events to the message broker.
	Publisher interface {
		Publish(payload any, routingKey string) error
	}

	// TokenIssuer mints and verifies bearer tokens.
	TokenIssuer interface {
		Issue(userID string) (string, error)
		Verify(token string) (string, error)
	}
)
