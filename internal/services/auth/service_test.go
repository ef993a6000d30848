package auth

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/stadiumdash/internal/dependencies/mocks"
	"github.com/mcoot/stadiumdash/internal/model"
	"github.com/mcoot/stadiumdash/internal/services/profile"
	"github.com/mcoot/stadiumdash/internal/storage/memory"
	"github.com/mcoot/stadiumdash/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage  *memory.Storage
	clock    *mocks.MockClock
	random   *mocks.MockRandom
	mailer   *mocks.MockSender
	verifier *mocks.MockVerifier
	service  *Service
	ctx      context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.mailer = mocks.NewMockSender()
	s.verifier = mocks.NewMockVerifier()
	s.ctx = context.Background()

	s.service = New(Deps{
		Store:    s.storage,
		Profiles: profile.New(s.storage, testutil.NopLogger()),
		Verifier: s.verifier,
		Mailer:   s.mailer,
		Clock:    s.clock,
		Random:   s.random,
		Logger:   testutil.NopLogger(),
	}, DefaultConfig())

	s.Require().NoError(s.storage.SaveStadium(s.ctx, &model.Stadium{ID: "s1", Name: "Court A"}))
}

// signUpWithProfile creates an account and gives it a manager document
func (s *ServiceSuite) signUpWithProfile(email, name string, stadiumID model.StadiumID) *Session {
	session, err := s.service.SignUp(s.ctx, email, "password123")
	s.Require().NoError(err)
	s.Require().NoError(s.storage.SaveManager(s.ctx, &model.Manager{
		UID:       session.State.User.UID,
		Name:      name,
		StadiumID: stadiumID,
	}))
	return session
}

// SignUp tests

func (s *ServiceSuite) TestSignUpSucceeds() {
	session, err := s.service.SignUp(s.ctx, "Alice@Example.com ", "password123")
	s.Require().NoError(err)

	s.NotEmpty(session.Token)
	s.Require().True(session.State.SignedIn())
	s.Equal("alice@example.com", session.State.User.Email)
	s.Equal(model.ProviderPassword, session.State.User.Provider)
}

func (s *ServiceSuite) TestSignUpWithoutProfileRecordsError() {
	session, err := s.service.SignUp(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)

	s.Equal(profile.UnknownManager, session.State.ManagerName)
	s.Equal(profile.UnknownStadium, session.State.StadiumName)
	s.Equal(profile.MsgManagerNotFound, session.State.Error)
	s.False(session.State.Loading)
}

func (s *ServiceSuite) TestSignUpPersistsHashedPassword() {
	session, _ := s.service.SignUp(s.ctx, "alice@example.com", "password123")

	account, err := s.storage.GetAccount(s.ctx, session.State.User.UID)
	s.Require().NoError(err)
	s.NotEmpty(account.PasswordHash)
	s.NotEqual("password123", account.PasswordHash)
}

func (s *ServiceSuite) TestSignUpFailsIfEmailExists() {
	_, _ = s.service.SignUp(s.ctx, "alice@example.com", "password123")

	_, err := s.service.SignUp(s.ctx, "ALICE@example.com", "different1")
	s.ErrorIs(err, ErrEmailExists)
}

func (s *ServiceSuite) TestSignUpFailsWithShortPassword() {
	_, err := s.service.SignUp(s.ctx, "alice@example.com", "12345")
	s.ErrorIs(err, ErrWeakPassword)
}

func (s *ServiceSuite) TestSignUpFailsWithInvalidEmail() {
	_, err := s.service.SignUp(s.ctx, "not-an-email", "password123")
	s.ErrorIs(err, ErrInvalidEmail)
}

// SignInWithPassword tests

func (s *ServiceSuite) TestSignInResolvesManagerAndStadium() {
	s.signUpWithProfile("alice@example.com", "Alice", "s1")

	session, err := s.service.SignInWithPassword(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)

	s.Equal("Alice", session.State.ManagerName)
	s.Equal("Court A", session.State.StadiumName)
	s.Empty(session.State.Error)
	s.False(session.State.Loading)
}

func (s *ServiceSuite) TestSignInWithoutStadiumShowsNoStadiumAssigned() {
	s.signUpWithProfile("bob@example.com", "Bob", "")

	session, err := s.service.SignInWithPassword(s.ctx, "bob@example.com", "password123")
	s.Require().NoError(err)

	s.Equal("Bob", session.State.ManagerName)
	s.Equal(profile.NoStadiumAssigned, session.State.StadiumName)
	s.Empty(session.State.Error)
}

func (s *ServiceSuite) TestSignInWithMissingStadiumShowsUnknownStadium() {
	s.signUpWithProfile("carol@example.com", "Carol", "gone")

	session, err := s.service.SignInWithPassword(s.ctx, "carol@example.com", "password123")
	s.Require().NoError(err)

	s.Equal("Carol", session.State.ManagerName)
	s.Equal(profile.UnknownStadium, session.State.StadiumName)
	s.Equal(profile.MsgStadiumNotFound, session.State.Error)
}

func (s *ServiceSuite) TestSignInFailsWithWrongPassword() {
	_, _ = s.service.SignUp(s.ctx, "alice@example.com", "password123")

	_, err := s.service.SignInWithPassword(s.ctx, "alice@example.com", "wrongpassword")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestSignInFailsWithUnknownEmail() {
	_, err := s.service.SignInWithPassword(s.ctx, "nobody@example.com", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestSignInFailsForFederatedOnlyAccount() {
	s.verifier.Add("cred", model.FederatedIdentity{
		Provider: model.ProviderGoogle, Subject: "g-1", Email: "dana@example.com", EmailVerified: true,
	})
	_, err := s.service.SignInWithFederated(s.ctx, "cred")
	s.Require().NoError(err)

	_, err = s.service.SignInWithPassword(s.ctx, "dana@example.com", "")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// SignInWithFederated tests

func (s *ServiceSuite) TestFederatedCreatesAccount() {
	s.verifier.Add("cred", model.FederatedIdentity{
		Provider: model.ProviderGoogle, Subject: "g-1", Email: "dana@example.com", EmailVerified: true,
	})

	session, err := s.service.SignInWithFederated(s.ctx, "cred")
	s.Require().NoError(err)
	s.Equal(model.ProviderGoogle, session.State.User.Provider)

	account, err := s.storage.GetAccountByFederatedSubject(s.ctx, model.ProviderGoogle, "g-1")
	s.Require().NoError(err)
	s.Equal(session.State.User.UID, account.UID)
	s.False(account.HasPassword())
}

func (s *ServiceSuite) TestFederatedReusesAccountOnSecondSignIn() {
	s.verifier.Add("cred", model.FederatedIdentity{
		Provider: model.ProviderGoogle, Subject: "g-1", Email: "dana@example.com", EmailVerified: true,
	})

	first, err := s.service.SignInWithFederated(s.ctx, "cred")
	s.Require().NoError(err)
	second, err := s.service.SignInWithFederated(s.ctx, "cred")
	s.Require().NoError(err)

	s.Equal(first.State.User.UID, second.State.User.UID)
	s.NotEqual(first.Token, second.Token)
}

func (s *ServiceSuite) TestFederatedLinksVerifiedEmailToPasswordAccount() {
	existing := s.signUpWithProfile("alice@example.com", "Alice", "s1")
	s.verifier.Add("cred", model.FederatedIdentity{
		Provider: model.ProviderGoogle, Subject: "g-alice", Email: "Alice@example.com", EmailVerified: true,
	})

	session, err := s.service.SignInWithFederated(s.ctx, "cred")
	s.Require().NoError(err)

	s.Equal(existing.State.User.UID, session.State.User.UID)
	s.Equal("Alice", session.State.ManagerName)
	s.Equal("Court A", session.State.StadiumName)

	// Password sign-in still works after linking
	_, err = s.service.SignInWithPassword(s.ctx, "alice@example.com", "password123")
	s.NoError(err)
}

func (s *ServiceSuite) TestFederatedDoesNotLinkUnverifiedEmail() {
	existing := s.signUpWithProfile("alice@example.com", "Alice", "s1")
	s.verifier.Add("cred", model.FederatedIdentity{
		Provider: model.ProviderGoogle, Subject: "g-mallory", Email: "alice@example.com", EmailVerified: false,
	})

	_, err := s.service.SignInWithFederated(s.ctx, "cred")
	s.ErrorIs(err, ErrEmailExists)

	// The password account is untouched
	session, err := s.service.SignInWithPassword(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)
	s.Equal(existing.State.User.UID, session.State.User.UID)

	_, err = s.storage.GetAccountByFederatedSubject(s.ctx, model.ProviderGoogle, "g-mallory")
	s.ErrorIs(err, model.ErrAccountNotFound)
}

func (s *ServiceSuite) TestFederatedRelinkDropsOldSubject() {
	existing := s.signUpWithProfile("alice@example.com", "Alice", "s1")
	s.verifier.Add("cred-old", model.FederatedIdentity{
		Provider: model.ProviderGoogle, Subject: "g-old", Email: "alice@example.com", EmailVerified: true,
	})
	s.verifier.Add("cred-new", model.FederatedIdentity{
		Provider: model.ProviderGoogle, Subject: "g-new", Email: "alice@example.com", EmailVerified: true,
	})

	_, err := s.service.SignInWithFederated(s.ctx, "cred-old")
	s.Require().NoError(err)
	session, err := s.service.SignInWithFederated(s.ctx, "cred-new")
	s.Require().NoError(err)
	s.Equal(existing.State.User.UID, session.State.User.UID)

	_, err = s.storage.GetAccountByFederatedSubject(s.ctx, model.ProviderGoogle, "g-old")
	s.ErrorIs(err, model.ErrAccountNotFound)
	account, err := s.storage.GetAccountByFederatedSubject(s.ctx, model.ProviderGoogle, "g-new")
	s.Require().NoError(err)
	s.Equal(existing.State.User.UID, account.UID)
}

func (s *ServiceSuite) TestFederatedFailsWithRejectedCredential() {
	_, err := s.service.SignInWithFederated(s.ctx, "forged")
	s.ErrorIs(err, ErrInvalidFederatedToken)
}

func (s *ServiceSuite) TestFederatedFailsWhenNotConfigured() {
	service := New(Deps{
		Store:    s.storage,
		Profiles: profile.New(s.storage, testutil.NopLogger()),
		Mailer:   s.mailer,
		Clock:    s.clock,
		Random:   s.random,
		Logger:   testutil.NopLogger(),
	}, DefaultConfig())

	s.False(service.FederatedEnabled())
	_, err := service.SignInWithFederated(s.ctx, "cred")
	s.ErrorIs(err, ErrFederatedDisabled)
}

// SignOut tests

func (s *ServiceSuite) TestSignOutClearsNames() {
	session := s.signUpWithProfile("alice@example.com", "Alice", "s1")
	session, _ = s.service.RefreshProfile(s.ctx, session.Token)
	s.Require().Equal("Alice", session.State.ManagerName)

	state := s.service.SignOut(session.Token)

	s.False(state.SignedIn())
	s.Empty(state.ManagerName)
	s.Empty(state.StadiumName)
	s.Empty(state.Error)
}

func (s *ServiceSuite) TestSignOutInvalidatesSession() {
	session, _ := s.service.SignUp(s.ctx, "alice@example.com", "password123")

	s.service.SignOut(session.Token)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestSignOutUnknownTokenIsHarmless() {
	state := s.service.SignOut("sess_unknown")
	s.False(state.SignedIn())
}

// RefreshProfile tests

func (s *ServiceSuite) TestRefreshProfilePicksUpNewManagerDocument() {
	session := s.signUpWithProfile("alice@example.com", "Alice", "s1")
	s.Equal(profile.MsgManagerNotFound, session.State.Error)

	refreshed, err := s.service.RefreshProfile(s.ctx, session.Token)
	s.Require().NoError(err)

	s.Equal("Alice", refreshed.State.ManagerName)
	s.Equal("Court A", refreshed.State.StadiumName)
	s.Empty(refreshed.State.Error)
}

func (s *ServiceSuite) TestRefreshProfileFailsWithInvalidToken() {
	_, err := s.service.RefreshProfile(s.ctx, "sess_unknown")
	s.ErrorIs(err, ErrInvalidSession)
}

// ValidateSession tests

func (s *ServiceSuite) TestValidateSessionSucceeds() {
	session, _ := s.service.SignUp(s.ctx, "alice@example.com", "password123")

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.Token, validated.Token)
	s.Equal(session.State.User.UID, validated.State.User.UID)
}

func (s *ServiceSuite) TestValidateSessionFailsWithInvalidToken() {
	_, err := s.service.ValidateSession("invalid_token")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionFailsWhenExpired() {
	session, _ := s.service.SignUp(s.ctx, "alice@example.com", "password123")

	// Advance time past expiration
	s.clock.Advance(25 * time.Hour)

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestValidateSessionReturnsSnapshot() {
	session, _ := s.service.SignUp(s.ctx, "alice@example.com", "password123")

	snapshot, _ := s.service.ValidateSession(session.Token)
	snapshot.State.ManagerName = "Changed"

	again, _ := s.service.ValidateSession(session.Token)
	s.Equal(profile.UnknownManager, again.State.ManagerName)
}

// CleanExpiredSessions tests

func (s *ServiceSuite) TestCleanExpiredSessionsRemovesOnlyExpired() {
	old, _ := s.service.SignUp(s.ctx, "old@example.com", "password123")
	s.clock.Advance(12 * time.Hour)
	fresh, _ := s.service.SignUp(s.ctx, "fresh@example.com", "password123")
	s.clock.Advance(13 * time.Hour)

	s.Equal(1, s.service.CleanExpiredSessions())

	_, err := s.service.ValidateSession(old.Token)
	s.ErrorIs(err, ErrInvalidSession)
	_, err = s.service.ValidateSession(fresh.Token)
	s.NoError(err)
}

// Password reset tests

func (s *ServiceSuite) TestSendPasswordResetEmailsLink() {
	_, _ = s.service.SignUp(s.ctx, "alice@example.com", "password123")
	s.random.QueueString("resettoken")

	err := s.service.SendPasswordReset(s.ctx, "alice@example.com")
	s.Require().NoError(err)

	sent := s.mailer.Last()
	s.Require().NotNil(sent)
	s.Equal([]string{"alice@example.com"}, sent.To)
	s.Contains(sent.HTML, "token=resettoken")

	rt, err := s.storage.GetResetToken(s.ctx, "resettoken")
	s.Require().NoError(err)
	s.Equal(s.clock.Now().Add(time.Hour), rt.ExpiresAt)
}

func (s *ServiceSuite) TestSendPasswordResetUnknownEmailSendsNothing() {
	err := s.service.SendPasswordReset(s.ctx, "nobody@example.com")
	s.NoError(err)
	s.Nil(s.mailer.Last())
}

func (s *ServiceSuite) TestSendPasswordResetRejectsInvalidEmail() {
	err := s.service.SendPasswordReset(s.ctx, "   ")
	s.ErrorIs(err, ErrInvalidEmail)
}

func (s *ServiceSuite) TestSendPasswordResetReturnsDeliveryError() {
	_, _ = s.service.SignUp(s.ctx, "alice@example.com", "password123")
	s.random.QueueString("resettoken")
	s.mailer.Err = errors.New("provider down")

	err := s.service.SendPasswordReset(s.ctx, "alice@example.com")
	s.Require().Error(err)
	s.Contains(ErrorMessage(err), "provider down")
}

func (s *ServiceSuite) TestResetPasswordChangesPassword() {
	_, _ = s.service.SignUp(s.ctx, "alice@example.com", "password123")
	s.random.QueueString("resettoken")
	s.Require().NoError(s.service.SendPasswordReset(s.ctx, "alice@example.com"))

	s.Require().NoError(s.service.CheckResetToken(s.ctx, "resettoken"))
	s.Require().NoError(s.service.ResetPassword(s.ctx, "resettoken", "newpassword"))

	_, err := s.service.SignInWithPassword(s.ctx, "alice@example.com", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
	_, err = s.service.SignInWithPassword(s.ctx, "alice@example.com", "newpassword")
	s.NoError(err)
}

func (s *ServiceSuite) TestResetPasswordTokenIsSingleUse() {
	_, _ = s.service.SignUp(s.ctx, "alice@example.com", "password123")
	s.random.QueueString("resettoken")
	s.Require().NoError(s.service.SendPasswordReset(s.ctx, "alice@example.com"))
	s.Require().NoError(s.service.ResetPassword(s.ctx, "resettoken", "newpassword"))

	err := s.service.ResetPassword(s.ctx, "resettoken", "another1")
	s.ErrorIs(err, ErrInvalidResetToken)
}

func (s *ServiceSuite) TestResetPasswordConcurrentConfirmationsOnlyOneWins() {
	_, _ = s.service.SignUp(s.ctx, "alice@example.com", "password123")
	s.random.QueueString("resettoken")
	s.Require().NoError(s.service.SendPasswordReset(s.ctx, "alice@example.com"))

	passwords := []string{"first-pass", "second-pass"}
	errs := make([]error, len(passwords))
	var wg sync.WaitGroup
	for i, pw := range passwords {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.service.ResetPassword(s.ctx, "resettoken", pw)
		}()
	}
	wg.Wait()

	winner := -1
	for i, err := range errs {
		if err == nil {
			s.Require().Equal(-1, winner, "both confirmations succeeded")
			winner = i
			continue
		}
		s.ErrorIs(err, ErrInvalidResetToken)
	}
	s.Require().NotEqual(-1, winner)

	_, err := s.service.SignInWithPassword(s.ctx, "alice@example.com", passwords[winner])
	s.NoError(err)
	_, err = s.service.SignInWithPassword(s.ctx, "alice@example.com", passwords[1-winner])
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestUnqueuedResetTokensAreDistinct() {
	_, _ = s.service.SignUp(s.ctx, "alice@example.com", "password123")
	_, _ = s.service.SignUp(s.ctx, "bob@example.com", "password123")

	s.Require().NoError(s.service.SendPasswordReset(s.ctx, "alice@example.com"))
	s.Require().NoError(s.service.SendPasswordReset(s.ctx, "bob@example.com"))
	s.Require().Len(s.mailer.Sent, 2)
	s.NotEqual(s.mailer.Sent[0].HTML, s.mailer.Sent[1].HTML)

	// Alice's reset still belongs to Alice
	s.Require().NoError(s.service.ResetPassword(s.ctx, "reset-1", "alice-new"))
	_, err := s.service.SignInWithPassword(s.ctx, "alice@example.com", "alice-new")
	s.NoError(err)
	_, err = s.service.SignInWithPassword(s.ctx, "bob@example.com", "password123")
	s.NoError(err)
}

func (s *ServiceSuite) TestResetPasswordFailsWhenExpired() {
	_, _ = s.service.SignUp(s.ctx, "alice@example.com", "password123")
	s.random.QueueString("resettoken")
	s.Require().NoError(s.service.SendPasswordReset(s.ctx, "alice@example.com"))

	s.clock.Advance(2 * time.Hour)

	s.ErrorIs(s.service.CheckResetToken(s.ctx, "resettoken"), ErrInvalidResetToken)
	s.ErrorIs(s.service.ResetPassword(s.ctx, "resettoken", "newpassword"), ErrInvalidResetToken)
}

func (s *ServiceSuite) TestResetPasswordRejectsShortPassword() {
	err := s.service.ResetPassword(s.ctx, "resettoken", "123")
	s.ErrorIs(err, ErrWeakPassword)
}

func (s *ServiceSuite) TestResetPasswordEndsExistingSessions() {
	session, _ := s.service.SignUp(s.ctx, "alice@example.com", "password123")
	s.random.QueueString("resettoken")
	s.Require().NoError(s.service.SendPasswordReset(s.ctx, "alice@example.com"))
	s.Require().NoError(s.service.ResetPassword(s.ctx, "resettoken", "newpassword"))

	_, err := s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestResetLinkKeepsExistingQuery() {
	service := New(Deps{Clock: s.clock, Logger: testutil.NopLogger()}, Config{
		ResetURL: "https://stadium.example.com/auth/reset/confirm?lang=en",
	})

	link, err := url.Parse(service.resetLink("abc"))
	s.Require().NoError(err)
	s.Equal("en", link.Query().Get("lang"))
	s.Equal("abc", link.Query().Get("token"))
}

// ErrorMessage tests

func (s *ServiceSuite) TestErrorMessage() {
	s.Empty(ErrorMessage(nil))
	s.Equal("Invalid email or password", ErrorMessage(ErrInvalidCredentials))
	s.Equal("Google sign-in failed", ErrorMessage(errors.Join(ErrInvalidFederatedToken, errors.New("bad sig"))))
	s.Equal("boom", ErrorMessage(errors.New("boom")))
}
