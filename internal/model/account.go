package model

import "time"

// UserID uniquely identifies an identity account across the system
type UserID string

// Provider names the identity provider an account signs in with
type Provider string

const (
	ProviderPassword Provider = "password"
	ProviderGoogle   Provider = "google"
)

// Account is an identity-provider account
// PasswordHash is empty for accounts created through federated sign-in
type Account struct {
	UID              UserID    `json:"uid" firestore:"uid"`
	Email            string    `json:"email" firestore:"email"`
	PasswordHash     string    `json:"password_hash,omitempty" firestore:"passwordHash,omitempty"`
	Provider         Provider  `json:"provider" firestore:"provider"`
	FederatedSubject string    `json:"federated_subject,omitempty" firestore:"federatedSubject,omitempty"`
	CreatedAt        time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt        time.Time `json:"updated_at" firestore:"updatedAt"`
}

// User is the non-secret view of an account carried in session state
type User struct {
	UID      UserID
	Email    string
	Provider Provider
}

// User returns the session view of the account
func (a *Account) User() User {
	return User{
		UID:      a.UID,
		Email:    a.Email,
		Provider: a.Provider,
	}
}

// HasPassword reports whether the account can sign in with a password
func (a *Account) HasPassword() bool {
	return a.PasswordHash != ""
}

// ResetToken is a single-use password reset grant
type ResetToken struct {
	Token     string    `json:"token" firestore:"token"`
	UID       UserID    `json:"uid" firestore:"uid"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	ExpiresAt time.Time `json:"expires_at" firestore:"expiresAt"`
}

// Expired reports whether the token is no longer usable at the given time
func (t *ResetToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// FederatedIdentity is a verified assertion from an external identity provider
type FederatedIdentity struct {
	Provider      Provider
	Subject       string
	Email         string
	EmailVerified bool
}
