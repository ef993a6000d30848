package firestore

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mcoot/stadiumdash/internal/model"
	"github.com/mcoot/stadiumdash/internal/storage"
)

// Collection names. managers and stadiums are shared with the other
// applications that own those documents.
const (
	ManagersCollection    = "managers"
	StadiumsCollection    = "stadiums"
	AccountsCollection    = "accounts"
	ResetTokensCollection = "passwordResets"
)

// Storage is a Firestore-backed implementation of the storage interface
type Storage struct {
	client *firestore.Client
}

// New connects to Firestore for the given project
func New(ctx context.Context, projectID string) (*Storage, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &Storage{client: client}, nil
}

// NewWithClient wraps an existing client
func NewWithClient(client *firestore.Client) *Storage {
	return &Storage{client: client}
}

// Close closes the Firestore client
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	stored := *account
	stored.Email = strings.ToLower(account.Email)
	_, err := s.client.Collection(AccountsCollection).Doc(string(account.UID)).Set(ctx, stored)
	return err
}

func (s *Storage) GetAccount(ctx context.Context, uid model.UserID) (*model.Account, error) {
	var account model.Account
	if err := s.get(ctx, s.client.Collection(AccountsCollection).Doc(string(uid)), &account, model.ErrAccountNotFound); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	q := s.client.Collection(AccountsCollection).Where("email", "==", strings.ToLower(email)).Limit(1)
	return s.queryAccount(ctx, q)
}

func (s *Storage) GetAccountByFederatedSubject(ctx context.Context, provider model.Provider, subject string) (*model.Account, error) {
	q := s.client.Collection(AccountsCollection).
		Where("provider", "==", string(provider)).
		Where("federatedSubject", "==", subject).
		Limit(1)
	return s.queryAccount(ctx, q)
}

func (s *Storage) queryAccount(ctx context.Context, q firestore.Query) (*model.Account, error) {
	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, model.ErrAccountNotFound
	}
	var account model.Account
	if err := docs[0].DataTo(&account); err != nil {
		return nil, fmt.Errorf("decode account %s: %w", docs[0].Ref.ID, err)
	}
	return &account, nil
}

// Password reset operations

func (s *Storage) SaveResetToken(ctx context.Context, token *model.ResetToken) error {
	_, err := s.client.Collection(ResetTokensCollection).Doc(token.Token).Set(ctx, token)
	return err
}

func (s *Storage) GetResetToken(ctx context.Context, token string) (*model.ResetToken, error) {
	var rt model.ResetToken
	if err := s.get(ctx, s.client.Collection(ResetTokensCollection).Doc(token), &rt, model.ErrResetTokenNotFound); err != nil {
		return nil, err
	}
	return &rt, nil
}

func (s *Storage) ConsumeResetToken(ctx context.Context, token string) (*model.ResetToken, error) {
	ref := s.client.Collection(ResetTokensCollection).Doc(token)
	var rt model.ResetToken
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return model.ErrResetTokenNotFound
		}
		if err != nil {
			return fmt.Errorf("get %s: %w", ref.Path, err)
		}
		if err := snap.DataTo(&rt); err != nil {
			return fmt.Errorf("decode %s: %w", ref.Path, err)
		}
		return tx.Delete(ref)
	})
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// Document operations

func (s *Storage) GetManager(ctx context.Context, uid model.UserID) (*model.Manager, error) {
	var manager model.Manager
	if err := s.get(ctx, s.client.Collection(ManagersCollection).Doc(string(uid)), &manager, model.ErrManagerNotFound); err != nil {
		return nil, err
	}
	manager.UID = uid
	return &manager, nil
}

func (s *Storage) SaveManager(ctx context.Context, manager *model.Manager) error {
	_, err := s.client.Collection(ManagersCollection).Doc(string(manager.UID)).Set(ctx, manager)
	return err
}

func (s *Storage) GetStadium(ctx context.Context, id model.StadiumID) (*model.Stadium, error) {
	var stadium model.Stadium
	if err := s.get(ctx, s.client.Collection(StadiumsCollection).Doc(string(id)), &stadium, model.ErrStadiumNotFound); err != nil {
		return nil, err
	}
	stadium.ID = id
	return &stadium, nil
}

func (s *Storage) SaveStadium(ctx context.Context, stadium *model.Stadium) error {
	_, err := s.client.Collection(StadiumsCollection).Doc(string(stadium.ID)).Set(ctx, stadium)
	return err
}

// get reads ref into dst, mapping a missing document to notFound
func (s *Storage) get(ctx context.Context, ref *firestore.DocumentRef, dst any, notFound error) error {
	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return notFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", ref.Path, err)
	}
	if err := snap.DataTo(dst); err != nil {
		return fmt.Errorf("decode %s: %w", ref.Path, err)
	}
	return nil
}
