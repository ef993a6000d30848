package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/mcoot/stadiumdash/internal/model"
	"github.com/mcoot/stadiumdash/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	accounts       map[model.UserID]*model.Account
	emailIndex     map[string]model.UserID
	federatedIndex map[federatedKey]model.UserID
	resetTokens    map[string]*model.ResetToken
	managers       map[model.UserID]*model.Manager
	stadiums       map[model.StadiumID]*model.Stadium
}

type federatedKey struct {
	provider model.Provider
	subject  string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		accounts:       make(map[model.UserID]*model.Account),
		emailIndex:     make(map[string]model.UserID),
		federatedIndex: make(map[federatedKey]model.UserID),
		resetTokens:    make(map[string]*model.ResetToken),
		managers:       make(map[model.UserID]*model.Manager),
		stadiums:       make(map[model.StadiumID]*model.Stadium),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *account
	if prev, ok := s.accounts[account.UID]; ok {
		if prev.Email != account.Email {
			delete(s.emailIndex, strings.ToLower(prev.Email))
		}
		if prev.FederatedSubject != "" && (prev.Provider != account.Provider || prev.FederatedSubject != account.FederatedSubject) {
			delete(s.federatedIndex, federatedKey{prev.Provider, prev.FederatedSubject})
		}
	}
	s.accounts[account.UID] = &stored
	s.emailIndex[strings.ToLower(account.Email)] = account.UID
	if account.FederatedSubject != "" {
		s.federatedIndex[federatedKey{account.Provider, account.FederatedSubject}] = account.UID
	}
	return nil
}

func (s *Storage) GetAccount(ctx context.Context, uid model.UserID) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accountLocked(uid)
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uid, ok := s.emailIndex[strings.ToLower(email)]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return s.accountLocked(uid)
}

func (s *Storage) GetAccountByFederatedSubject(ctx context.Context, provider model.Provider, subject string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	uid, ok := s.federatedIndex[federatedKey{provider, subject}]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return s.accountLocked(uid)
}

func (s *Storage) accountLocked(uid model.UserID) (*model.Account, error) {
	account, ok := s.accounts[uid]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	result := *account
	return &result, nil
}

// Password reset operations

func (s *Storage) SaveResetToken(ctx context.Context, token *model.ResetToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *token
	s.resetTokens[token.Token] = &stored
	return nil
}

func (s *Storage) GetResetToken(ctx context.Context, token string) (*model.ResetToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rt, ok := s.resetTokens[token]
	if !ok {
		return nil, model.ErrResetTokenNotFound
	}
	result := *rt
	return &result, nil
}

func (s *Storage) ConsumeResetToken(ctx context.Context, token string) (*model.ResetToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rt, ok := s.resetTokens[token]
	if !ok {
		return nil, model.ErrResetTokenNotFound
	}
	delete(s.resetTokens, token)
	return rt, nil
}

// Document operations

func (s *Storage) GetManager(ctx context.Context, uid model.UserID) (*model.Manager, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	manager, ok := s.managers[uid]
	if !ok {
		return nil, model.ErrManagerNotFound
	}
	result := *manager
	return &result, nil
}

func (s *Storage) SaveManager(ctx context.Context, manager *model.Manager) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *manager
	s.managers[manager.UID] = &stored
	return nil
}

func (s *Storage) GetStadium(ctx context.Context, id model.StadiumID) (*model.Stadium, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stadium, ok := s.stadiums[id]
	if !ok {
		return nil, model.ErrStadiumNotFound
	}
	result := *stadium
	return &result, nil
}

func (s *Storage) SaveStadium(ctx context.Context, stadium *model.Stadium) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *stadium
	s.stadiums[stadium.ID] = &stored
	return nil
}
