// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/stadiumdash/internal/model"
	"github.com/mcoot/stadiumdash/internal/storage"
)

// Suite runs the shared storage contract. Backends embed it and set Store
// (and Ctx) in their SetupTest.
type Suite struct {
	suite.Suite
	Store storage.Storage
	Ctx   context.Context
}

func (s *Suite) account(uid, email string) *model.Account {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &model.Account{
		UID:          model.UserID(uid),
		Email:        email,
		PasswordHash: "hash123",
		Provider:     model.ProviderPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Account tests

func (s *Suite) TestSaveAndGetAccount() {
	s.Require().NoError(s.Store.SaveAccount(s.Ctx, s.account("u1", "alice@example.com")))

	retrieved, err := s.Store.GetAccount(s.Ctx, "u1")
	s.Require().NoError(err)
	s.Equal("alice@example.com", retrieved.Email)
	s.Equal("hash123", retrieved.PasswordHash)
	s.Equal(model.ProviderPassword, retrieved.Provider)
}

func (s *Suite) TestGetAccountNotFound() {
	_, err := s.Store.GetAccount(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *Suite) TestGetAccountByEmail() {
	s.Require().NoError(s.Store.SaveAccount(s.Ctx, s.account("u1", "alice@example.com")))

	retrieved, err := s.Store.GetAccountByEmail(s.Ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal(model.UserID("u1"), retrieved.UID)
}

func (s *Suite) TestGetAccountByEmailNotFound() {
	_, err := s.Store.GetAccountByEmail(s.Ctx, "nobody@example.com")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *Suite) TestGetAccountByFederatedSubject() {
	account := s.account("u2", "bob@example.com")
	account.PasswordHash = ""
	account.Provider = model.ProviderGoogle
	account.FederatedSubject = "google-sub-1"
	s.Require().NoError(s.Store.SaveAccount(s.Ctx, account))

	retrieved, err := s.Store.GetAccountByFederatedSubject(s.Ctx, model.ProviderGoogle, "google-sub-1")
	s.Require().NoError(err)
	s.Equal(model.UserID("u2"), retrieved.UID)

	_, err = s.Store.GetAccountByFederatedSubject(s.Ctx, model.ProviderGoogle, "other-sub")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *Suite) TestRelinkDropsPreviousFederatedSubject() {
	account := s.account("u2", "bob@example.com")
	account.Provider = model.ProviderGoogle
	account.FederatedSubject = "google-sub-old"
	s.Require().NoError(s.Store.SaveAccount(s.Ctx, account))

	account.FederatedSubject = "google-sub-new"
	s.Require().NoError(s.Store.SaveAccount(s.Ctx, account))

	retrieved, err := s.Store.GetAccountByFederatedSubject(s.Ctx, model.ProviderGoogle, "google-sub-new")
	s.Require().NoError(err)
	s.Equal(model.UserID("u2"), retrieved.UID)

	_, err = s.Store.GetAccountByFederatedSubject(s.Ctx, model.ProviderGoogle, "google-sub-old")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *Suite) TestSaveAccountOverwrites() {
	account := s.account("u1", "alice@example.com")
	s.Require().NoError(s.Store.SaveAccount(s.Ctx, account))

	account.PasswordHash = "newhash"
	s.Require().NoError(s.Store.SaveAccount(s.Ctx, account))

	retrieved, err := s.Store.GetAccountByEmail(s.Ctx, "alice@example.com")
	s.Require().NoError(err)
	s.Equal("newhash", retrieved.PasswordHash)
}

// Reset token tests

func (s *Suite) TestSaveGetAndConsumeResetToken() {
	now := time.Now().UTC().Truncate(time.Second)
	token := &model.ResetToken{
		Token:     "tok-1",
		UID:       "u1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	s.Require().NoError(s.Store.SaveResetToken(s.Ctx, token))

	retrieved, err := s.Store.GetResetToken(s.Ctx, "tok-1")
	s.Require().NoError(err)
	s.Equal(model.UserID("u1"), retrieved.UID)
	s.True(token.ExpiresAt.Equal(retrieved.ExpiresAt))

	consumed, err := s.Store.ConsumeResetToken(s.Ctx, "tok-1")
	s.Require().NoError(err)
	s.Equal(model.UserID("u1"), consumed.UID)

	_, err = s.Store.GetResetToken(s.Ctx, "tok-1")
	s.ErrorIs(err, model.ErrResetTokenNotFound)

	_, err = s.Store.ConsumeResetToken(s.Ctx, "tok-1")
	s.ErrorIs(err, model.ErrResetTokenNotFound)
}

func (s *Suite) TestConsumeResetTokenOnlyOnce() {
	now := time.Now().UTC().Truncate(time.Second)
	s.Require().NoError(s.Store.SaveResetToken(s.Ctx, &model.ResetToken{
		Token:     "tok-race",
		UID:       "u1",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}))

	const callers = 8
	var (
		wg  sync.WaitGroup
		won atomic.Int32
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Store.ConsumeResetToken(s.Ctx, "tok-race"); err == nil {
				won.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), won.Load())
}

func (s *Suite) TestGetResetTokenNotFound() {
	_, err := s.Store.GetResetToken(s.Ctx, "missing")
	s.ErrorIs(err, model.ErrResetTokenNotFound)
}

// Document tests

func (s *Suite) TestSaveAndGetManager() {
	s.Require().NoError(s.Store.SaveManager(s.Ctx, &model.Manager{UID: "u1", Name: "Alice", StadiumID: "s1"}))

	manager, err := s.Store.GetManager(s.Ctx, "u1")
	s.Require().NoError(err)
	s.Equal(model.UserID("u1"), manager.UID)
	s.Equal("Alice", manager.Name)
	s.Equal(model.StadiumID("s1"), manager.StadiumID)
}

func (s *Suite) TestManagerWithoutStadium() {
	s.Require().NoError(s.Store.SaveManager(s.Ctx, &model.Manager{UID: "u2", Name: "Bob"}))

	manager, err := s.Store.GetManager(s.Ctx, "u2")
	s.Require().NoError(err)
	s.False(manager.HasStadium())
}

func (s *Suite) TestGetManagerNotFound() {
	_, err := s.Store.GetManager(s.Ctx, "nobody")
	s.ErrorIs(err, model.ErrManagerNotFound)
}

func (s *Suite) TestSaveAndGetStadium() {
	s.Require().NoError(s.Store.SaveStadium(s.Ctx, &model.Stadium{ID: "s1", Name: "Court A"}))

	stadium, err := s.Store.GetStadium(s.Ctx, "s1")
	s.Require().NoError(err)
	s.Equal(model.StadiumID("s1"), stadium.ID)
	s.Equal("Court A", stadium.Name)
}

func (s *Suite) TestGetStadiumNotFound() {
	_, err := s.Store.GetStadium(s.Ctx, "nowhere")
	s.ErrorIs(err, model.ErrStadiumNotFound)
}
