package storage

import (
	"context"

	"github.com/mcoot/stadiumdash/internal/model"
)

// IdentityStore persists identity-provider accounts and reset tokens
type IdentityStore interface {
	// Account operations
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, uid model.UserID) (*model.Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*model.Account, error)
	GetAccountByFederatedSubject(ctx context.Context, provider model.Provider, subject string) (*model.Account, error)

	// Password reset operations
	SaveResetToken(ctx context.Context, token *model.ResetToken) error
	GetResetToken(ctx context.Context, token string) (*model.ResetToken, error)
	// ConsumeResetToken atomically reads and deletes a reset token, so only
	// one caller can ever receive it
	ConsumeResetToken(ctx context.Context, token string) (*model.ResetToken, error)
}

// DocumentStore reads path-addressed profile documents
type DocumentStore interface {
	// GetManager reads managers/{uid}
	GetManager(ctx context.Context, uid model.UserID) (*model.Manager, error)
	// GetStadium reads stadiums/{id}
	GetStadium(ctx context.Context, id model.StadiumID) (*model.Stadium, error)
}

// DocumentWriter writes profile documents. Only seeding and tests use it;
// the documents are owned outside this service.
type DocumentWriter interface {
	SaveManager(ctx context.Context, manager *model.Manager) error
	SaveStadium(ctx context.Context, stadium *model.Stadium) error
}

// Storage defines the interface for data persistence
type Storage interface {
	IdentityStore
	DocumentStore
	DocumentWriter
}
