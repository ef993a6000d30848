package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/stadiumdash/internal/email"
	"github.com/mcoot/stadiumdash/internal/model"
)

const (
	resetTokenLength   = 32
	resetTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// SendPasswordReset emails a single-use reset link to the account holder.
// Unknown addresses are accepted silently so the endpoint cannot be used
// to probe for accounts.
func (s *Service) SendPasswordReset(ctx context.Context, emailAddr string) error {
	emailAddr = normalizeEmail(emailAddr)
	if !validEmail(emailAddr) {
		return ErrInvalidEmail
	}

	account, err := s.store.GetAccountByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			s.logger.Info("password reset for unknown email")
			return nil
		}
		return fmt.Errorf("look up account: %w", err)
	}

	now := s.clock.Now()
	token := &model.ResetToken{
		Token:     s.random.String(resetTokenLength, resetTokenAlphabet),
		UID:       account.UID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.ResetTokenTTL),
	}
	if err := s.store.SaveResetToken(ctx, token); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}

	body, err := email.PasswordResetHTML(ctx, s.resetLink(token.Token))
	if err != nil {
		return err
	}

	if _, err := s.mailer.Send(ctx, email.SendRequest{
		To:      []string{account.Email},
		Subject: email.PasswordResetSubject,
		HTML:    body,
	}); err != nil {
		s.logger.Error("password reset delivery failed",
			slog.String("uid", string(account.UID)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("send reset email: %w", err)
	}

	s.logger.Info("password reset sent", slog.String("uid", string(account.UID)))
	return nil
}

// ResetPassword consumes a reset token and sets a new password.
// Existing sessions for the account are ended.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < s.cfg.MinPasswordLength {
		return ErrWeakPassword
	}

	// Consume before hashing so concurrent confirmations cannot both win
	rt, err := s.store.ConsumeResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrResetTokenNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("consume reset token: %w", err)
	}

	if rt.Expired(s.clock.Now()) {
		return ErrInvalidResetToken
	}

	account, err := s.store.GetAccount(ctx, rt.UID)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("look up account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	account.PasswordHash = string(hash)
	account.UpdatedAt = s.clock.Now()
	if err := s.store.SaveAccount(ctx, account); err != nil {
		return fmt.Errorf("save account: %w", err)
	}

	s.invalidateUser(account.UID)
	s.logger.Info("password reset completed", slog.String("uid", string(account.UID)))
	return nil
}

// CheckResetToken reports whether a reset token can still be used
func (s *Service) CheckResetToken(ctx context.Context, token string) error {
	rt, err := s.store.GetResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, model.ErrResetTokenNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if rt.Expired(s.clock.Now()) {
		return ErrInvalidResetToken
	}
	return nil
}

func (s *Service) resetLink(token string) string {
	u, err := url.Parse(s.cfg.ResetURL)
	if err != nil {
		return s.cfg.ResetURL + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
