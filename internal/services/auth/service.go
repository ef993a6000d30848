package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/stadiumdash/internal/dependencies/clock"
	"github.com/mcoot/stadiumdash/internal/dependencies/random"
	"github.com/mcoot/stadiumdash/internal/email"
	"github.com/mcoot/stadiumdash/internal/model"
	"github.com/mcoot/stadiumdash/internal/services/profile"
	"github.com/mcoot/stadiumdash/internal/storage"
)

const sessionTokenBytes = 16

// Errors
var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidSession        = errors.New("invalid or expired session")
	ErrEmailExists           = errors.New("email already registered")
	ErrInvalidEmail          = errors.New("invalid email address")
	ErrWeakPassword          = errors.New("password too short")
	ErrInvalidResetToken     = errors.New("invalid or expired reset token")
	ErrFederatedDisabled     = errors.New("federated sign-in is not configured")
	ErrInvalidFederatedToken = errors.New("federated credential rejected")
)

// State is what the dashboard shows for a session
type State struct {
	User        *model.User
	ManagerName string
	StadiumName string
	Loading     bool
	Error       string
}

// SignedIn reports whether the state belongs to an authenticated user
func (st State) SignedIn() bool {
	return st.User != nil
}

// Session represents an authenticated session
type Session struct {
	Token     string
	State     State
	CreatedAt time.Time
	ExpiresAt time.Time
}

// FederatedVerifier checks a credential issued by an external identity provider
type FederatedVerifier interface {
	Verify(ctx context.Context, credential string) (*model.FederatedIdentity, error)
}

// Deps are the collaborators of the auth service
type Deps struct {
	Store    storage.IdentityStore
	Profiles *profile.Resolver
	// Verifier may be nil, which disables federated sign-in
	Verifier FederatedVerifier
	Mailer   email.Sender
	Clock    clock.Clock
	Random   random.Random
	Logger   *slog.Logger
}

// Service handles authentication, session management and the profile
// bootstrap that runs after every successful sign-in
type Service struct {
	store    storage.IdentityStore
	profiles *profile.Resolver
	verifier FederatedVerifier
	mailer   email.Sender
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	cfg Config
}

// Config holds configuration for the auth service
type Config struct {
	SessionDuration time.Duration
	ResetTokenTTL   time.Duration
	// ResetURL is the absolute URL of the reset confirmation page;
	// the token is appended as a query parameter
	ResetURL          string
	MinPasswordLength int
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration:   24 * time.Hour,
		ResetTokenTTL:     time.Hour,
		ResetURL:          "http://localhost:8080/auth/reset/confirm",
		MinPasswordLength: 6,
	}
}

// New creates a new auth Service
func New(deps Deps, cfg Config) *Service {
	def := DefaultConfig()
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = def.SessionDuration
	}
	if cfg.ResetTokenTTL == 0 {
		cfg.ResetTokenTTL = def.ResetTokenTTL
	}
	if cfg.ResetURL == "" {
		cfg.ResetURL = def.ResetURL
	}
	if cfg.MinPasswordLength == 0 {
		cfg.MinPasswordLength = def.MinPasswordLength
	}
	return &Service{
		store:    deps.Store,
		profiles: deps.Profiles,
		verifier: deps.Verifier,
		mailer:   deps.Mailer,
		clock:    deps.Clock,
		random:   deps.Random,
		logger:   deps.Logger,
		sessions: make(map[string]*Session),
		cfg:      cfg,
	}
}

// FederatedEnabled reports whether a federated verifier is configured
func (s *Service) FederatedEnabled() bool {
	return s.verifier != nil
}

// SignInWithPassword authenticates an email/password account and resolves its profile
func (s *Service) SignInWithPassword(ctx context.Context, emailAddr, password string) (*Session, error) {
	account, err := s.store.GetAccountByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up account: %w", err)
	}

	if !account.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.bootstrap(ctx, account)
}

// SignUp creates an email/password account and resolves its profile.
// A brand-new account normally has no manager document, so the returned
// session usually carries a "profile not found" error state.
func (s *Service) SignUp(ctx context.Context, emailAddr, password string) (*Session, error) {
	emailAddr = normalizeEmail(emailAddr)
	if !validEmail(emailAddr) {
		return nil, ErrInvalidEmail
	}
	if len(password) < s.cfg.MinPasswordLength {
		return nil, ErrWeakPassword
	}

	_, err := s.store.GetAccountByEmail(ctx, emailAddr)
	if err == nil {
		return nil, ErrEmailExists
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		return nil, fmt.Errorf("look up account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	account := &model.Account{
		UID:          model.UserID(uuid.NewString()),
		Email:        emailAddr,
		PasswordHash: string(hash),
		Provider:     model.ProviderPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}

	s.logger.Info("account created", slog.String("uid", string(account.UID)))
	return s.bootstrap(ctx, account)
}

// SignInWithFederated verifies an external identity credential, links or
// creates the matching account and resolves its profile
func (s *Service) SignInWithFederated(ctx context.Context, credential string) (*Session, error) {
	if s.verifier == nil {
		return nil, ErrFederatedDisabled
	}

	identity, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		s.logger.Warn("federated credential rejected", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", ErrInvalidFederatedToken, err)
	}

	account, err := s.findOrLinkFederated(ctx, identity)
	if err != nil {
		return nil, err
	}

	return s.bootstrap(ctx, account)
}

func (s *Service) findOrLinkFederated(ctx context.Context, identity *model.FederatedIdentity) (*model.Account, error) {
	account, err := s.store.GetAccountByFederatedSubject(ctx, identity.Provider, identity.Subject)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, model.ErrAccountNotFound) {
		return nil, fmt.Errorf("look up account: %w", err)
	}

	now := s.clock.Now()
	emailAddr := normalizeEmail(identity.Email)

	// An existing account with this email is linked only when the provider vouches for the address
	if emailAddr != "" {
		existing, err := s.store.GetAccountByEmail(ctx, emailAddr)
		switch {
		case err == nil && !identity.EmailVerified:
			return nil, ErrEmailExists
		case err == nil:
			existing.Provider = identity.Provider
			existing.FederatedSubject = identity.Subject
			existing.UpdatedAt = now
			if err := s.store.SaveAccount(ctx, existing); err != nil {
				return nil, fmt.Errorf("link account: %w", err)
			}
			s.logger.Info("federated identity linked",
				slog.String("uid", string(existing.UID)),
				slog.String("provider", string(identity.Provider)),
			)
			return existing, nil
		case !errors.Is(err, model.ErrAccountNotFound):
			return nil, fmt.Errorf("look up account: %w", err)
		}
	}

	account = &model.Account{
		UID:              model.UserID(uuid.NewString()),
		Email:            emailAddr,
		Provider:         identity.Provider,
		FederatedSubject: identity.Subject,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("save account: %w", err)
	}
	s.logger.Info("account created",
		slog.String("uid", string(account.UID)),
		slog.String("provider", string(identity.Provider)),
	)
	return account, nil
}

// SignOut ends the session and returns the cleared state
func (s *Service) SignOut(token string) State {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return State{}
}

// RefreshProfile re-runs profile resolution for an existing session
func (s *Service) RefreshProfile(ctx context.Context, token string) (*Session, error) {
	session, err := s.ValidateSession(token)
	if err != nil {
		return nil, err
	}
	s.resolve(ctx, token, session.State.User.UID)
	return s.ValidateSession(token)
}

// ValidateSession checks if a session token is valid and returns a snapshot of the session
func (s *Service) ValidateSession(token string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	var snapshot Session
	if ok {
		snapshot = *session
	}
	s.mu.RUnlock()

	if !ok {
		return nil, ErrInvalidSession
	}

	if s.clock.Now().After(snapshot.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrInvalidSession
	}

	return &snapshot, nil
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// bootstrap creates a session for the account and resolves its profile.
// The session is visible with Loading set while the lookups run.
func (s *Service) bootstrap(ctx context.Context, account *model.Account) (*Session, error) {
	token := s.generateToken("sess_")
	now := s.clock.Now()
	user := account.User()

	session := &Session{
		Token: token,
		State: State{
			User:    &user,
			Loading: true,
		},
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionDuration),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	s.resolve(ctx, token, user.UID)

	s.logger.Info("signed in",
		slog.String("uid", string(user.UID)),
		slog.String("provider", string(user.Provider)),
	)
	return s.ValidateSession(token)
}

// resolve runs profile resolution and stores the result on the session
func (s *Service) resolve(ctx context.Context, token string, uid model.UserID) {
	s.markLoading(token)
	p := s.profiles.Resolve(ctx, uid)

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[token]
	if !ok {
		// Signed out while the lookups ran
		return
	}
	session.State.ManagerName = p.ManagerName
	session.State.StadiumName = p.StadiumName
	session.State.Error = p.ErrorMessage()
	session.State.Loading = false
}

func (s *Service) markLoading(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[token]; ok {
		session.State.Loading = true
	}
}

// invalidateUser removes every session belonging to uid
func (s *Service) invalidateUser(uid model.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, session := range s.sessions {
		if session.State.User != nil && session.State.User.UID == uid {
			delete(s.sessions, token)
		}
	}
}

func (s *Service) generateToken(prefix string) string {
	return prefix + s.random.Token(sessionTokenBytes)
}

func normalizeEmail(emailAddr string) string {
	return strings.ToLower(strings.TrimSpace(emailAddr))
}

func validEmail(emailAddr string) bool {
	at := strings.Index(emailAddr, "@")
	return at > 0 && at < len(emailAddr)-1 && !strings.ContainsAny(emailAddr, " \t\r\n")
}

// ErrorMessage converts an auth error into the message shown to the user
func ErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ErrEmailExists):
		return "An account with this email already exists"
	case errors.Is(err, ErrInvalidEmail):
		return "Please enter a valid email address"
	case errors.Is(err, ErrWeakPassword):
		return "Password is too short"
	case errors.Is(err, ErrInvalidResetToken):
		return "This reset link is invalid or has expired"
	case errors.Is(err, ErrFederatedDisabled):
		return "Google sign-in is not available"
	case errors.Is(err, ErrInvalidFederatedToken):
		return "Google sign-in failed"
	case errors.Is(err, ErrInvalidSession):
		return "Your session has expired, please sign in again"
	default:
		return err.Error()
	}
}
