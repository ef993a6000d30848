package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/stadiumdash/internal/model"
	"github.com/mcoot/stadiumdash/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini    *miniredis.Miniredis
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.ResetTokenTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.Store = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestResetTokenTTL() {
	token := &model.ResetToken{Token: "tok-1", UID: "u1"}
	_ = s.storage.SaveResetToken(s.Ctx, token)

	ttl := s.mini.TTL(resetTokenKey("tok-1"))
	s.True(ttl > 0, "Reset token should have TTL")
}

func (s *StorageSuite) TestResetTokenExpiresFromRedis() {
	token := &model.ResetToken{Token: "tok-1", UID: "u1"}
	_ = s.storage.SaveResetToken(s.Ctx, token)

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetResetToken(s.Ctx, "tok-1")
	s.ErrorIs(err, model.ErrResetTokenNotFound)
}

func (s *StorageSuite) TestAccountsHaveNoTTL() {
	_ = s.storage.SaveAccount(s.Ctx, &model.Account{UID: "u1", Email: "alice@example.com"})

	s.Equal(time.Duration(0), s.mini.TTL(accountKey("u1")))
	s.Equal(time.Duration(0), s.mini.TTL(emailIndexKey("alice@example.com")))
}

func (s *StorageSuite) TestManagerStoredAtDocumentPath() {
	_ = s.storage.SaveManager(s.Ctx, &model.Manager{UID: "u1", Name: "Alice", StadiumID: "s1"})

	s.True(s.mini.Exists("stadiumdash:managers:u1"))
}

func (s *StorageSuite) TestChangingEmailDropsOldIndex() {
	_ = s.storage.SaveAccount(s.Ctx, &model.Account{UID: "u1", Email: "old@example.com"})
	_ = s.storage.SaveAccount(s.Ctx, &model.Account{UID: "u1", Email: "new@example.com"})

	s.False(s.mini.Exists(emailIndexKey("old@example.com")))

	_, err := s.storage.GetAccountByEmail(s.Ctx, "old@example.com")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *StorageSuite) TestConnectionErrorIsNotMappedToNotFound() {
	s.mini.Close()

	_, err := s.storage.GetManager(s.Ctx, "u1")
	s.Require().Error(err)
	s.NotErrorIs(err, model.ErrManagerNotFound)
	s.mini = nil
}

func (s *StorageSuite) TestNewConnectsByURL() {
	cfg := DefaultConfig()
	cfg.URL = "redis://" + s.mini.Addr()

	store, err := New(s.Ctx, cfg)
	s.Require().NoError(err)
	defer func() { _ = store.Close() }()

	s.Require().NoError(store.SaveStadium(s.Ctx, &model.Stadium{ID: "s1", Name: "Court A"}))
	got, err := s.storage.GetStadium(s.Ctx, "s1")
	s.Require().NoError(err)
	s.Equal("Court A", got.Name)
}

func (s *StorageSuite) TestNewRejectsBadURL() {
	cfg := DefaultConfig()
	cfg.URL = "not-a-url"

	_, err := New(s.Ctx, cfg)
	s.ErrorContains(err, "parse redis url")
}

func (s *StorageSuite) TestNewFailsWhenUnreachable() {
	cfg := DefaultConfig()
	cfg.URL = "redis://" + s.mini.Addr()
	cfg.ConnectTimeout = 200 * time.Millisecond
	s.mini.Close()

	_, err := New(s.Ctx, cfg)
	s.ErrorContains(err, "ping redis")
}
