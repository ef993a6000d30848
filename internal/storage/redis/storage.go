package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/stadiumdash/internal/model"
	"github.com/mcoot/stadiumdash/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New connects to Redis and checks the connection with a ping
func New(ctx context.Context, cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().ConnectTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Account operations

func (s *Storage) SaveAccount(ctx context.Context, account *model.Account) error {
	data, err := json.Marshal(account)
	if err != nil {
		return err
	}

	// Drop stale index entries if the email or federated subject changed
	prev, err := s.GetAccount(ctx, account.UID)
	if err != nil && !errors.Is(err, model.ErrAccountNotFound) {
		return err
	}

	// Use pipeline for atomic save + index update
	pipe := s.client.TxPipeline()
	if prev != nil && emailIndexKey(prev.Email) != emailIndexKey(account.Email) {
		pipe.Del(ctx, emailIndexKey(prev.Email))
	}
	if prev != nil && prev.FederatedSubject != "" &&
		federatedIndexKey(prev.Provider, prev.FederatedSubject) != federatedIndexKey(account.Provider, account.FederatedSubject) {
		pipe.Del(ctx, federatedIndexKey(prev.Provider, prev.FederatedSubject))
	}
	pipe.Set(ctx, accountKey(account.UID), data, 0)
	pipe.Set(ctx, emailIndexKey(account.Email), string(account.UID), 0)
	if account.FederatedSubject != "" {
		pipe.Set(ctx, federatedIndexKey(account.Provider, account.FederatedSubject), string(account.UID), 0)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAccount(ctx context.Context, uid model.UserID) (*model.Account, error) {
	var account model.Account
	if err := s.getJSON(ctx, accountKey(uid), &account, model.ErrAccountNotFound); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *Storage) GetAccountByEmail(ctx context.Context, email string) (*model.Account, error) {
	return s.getAccountByIndex(ctx, emailIndexKey(email))
}

func (s *Storage) GetAccountByFederatedSubject(ctx context.Context, provider model.Provider, subject string) (*model.Account, error) {
	return s.getAccountByIndex(ctx, federatedIndexKey(provider, subject))
}

func (s *Storage) getAccountByIndex(ctx context.Context, indexKey string) (*model.Account, error) {
	uid, err := s.client.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrAccountNotFound
		}
		return nil, err
	}

	return s.GetAccount(ctx, model.UserID(uid))
}

// Password reset operations

func (s *Storage) SaveResetToken(ctx context.Context, token *model.ResetToken) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, resetTokenKey(token.Token), data, s.cfg.ResetTokenTTL).Err()
}

func (s *Storage) GetResetToken(ctx context.Context, token string) (*model.ResetToken, error) {
	var rt model.ResetToken
	if err := s.getJSON(ctx, resetTokenKey(token), &rt, model.ErrResetTokenNotFound); err != nil {
		return nil, err
	}
	return &rt, nil
}

func (s *Storage) ConsumeResetToken(ctx context.Context, token string) (*model.ResetToken, error) {
	data, err := s.client.GetDel(ctx, resetTokenKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrResetTokenNotFound
		}
		return nil, err
	}

	var rt model.ResetToken
	if err := json.Unmarshal(data, &rt); err != nil {
		return nil, fmt.Errorf("decode reset token: %w", err)
	}
	return &rt, nil
}

// Document operations

func (s *Storage) GetManager(ctx context.Context, uid model.UserID) (*model.Manager, error) {
	var manager model.Manager
	if err := s.getJSON(ctx, managerKey(uid), &manager, model.ErrManagerNotFound); err != nil {
		return nil, err
	}
	manager.UID = uid
	return &manager, nil
}

func (s *Storage) SaveManager(ctx context.Context, manager *model.Manager) error {
	data, err := json.Marshal(manager)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, managerKey(manager.UID), data, 0).Err()
}

func (s *Storage) GetStadium(ctx context.Context, id model.StadiumID) (*model.Stadium, error) {
	var stadium model.Stadium
	if err := s.getJSON(ctx, stadiumKey(id), &stadium, model.ErrStadiumNotFound); err != nil {
		return nil, err
	}
	stadium.ID = id
	return &stadium, nil
}

func (s *Storage) SaveStadium(ctx context.Context, stadium *model.Stadium) error {
	data, err := json.Marshal(stadium)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, stadiumKey(stadium.ID), data, 0).Err()
}

// getJSON loads key into dst, mapping a missing key to notFound
func (s *Storage) getJSON(ctx context.Context, key string, dst any, notFound error) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return notFound
		}
		return err
	}
	return json.Unmarshal(data, dst)
}
