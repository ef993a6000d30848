package factory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/stadiumdash/internal/model"
	"github.com/mcoot/stadiumdash/internal/services/profile"
	redisstorage "github.com/mcoot/stadiumdash/internal/storage/redis"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
	s.Require().NoError(s.app.Storage.SaveStadium(s.ctx, &model.Stadium{ID: "s1", Name: "Court A"}))
}

// Test: sign up, get a manager profile assigned, sign in again, sign out
func (s *IntegrationSuite) TestFullSessionLifecycle() {
	// Step 1: Sign up; no manager document exists yet
	session, err := s.app.AuthService.SignUp(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)
	s.Equal(profile.UnknownManager, session.State.ManagerName)
	s.Equal(profile.UnknownStadium, session.State.StadiumName)
	s.Equal(profile.MsgManagerNotFound, session.State.Error)

	// Step 2: An administrator creates the manager profile
	uid := session.State.User.UID
	s.Require().NoError(s.app.Storage.SaveManager(s.ctx, &model.Manager{UID: uid, Name: "Alice", StadiumID: "s1"}))

	// Step 3: Sign in again and see the resolved names
	session, err = s.app.AuthService.SignInWithPassword(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)
	s.Equal("Alice", session.State.ManagerName)
	s.Equal("Court A", session.State.StadiumName)
	s.Empty(session.State.Error)

	// Step 4: Sign out clears the names
	state := s.app.AuthService.SignOut(session.Token)
	s.Empty(state.ManagerName)
	s.Empty(state.StadiumName)
	s.False(state.SignedIn())
}

// Test: password reset email flows through the configured sender
func (s *IntegrationSuite) TestPasswordResetFlow() {
	_, err := s.app.AuthService.SignUp(s.ctx, "bob@example.com", "password123")
	s.Require().NoError(err)

	s.app.MockRandom.QueueString("tok123")
	s.Require().NoError(s.app.AuthService.SendPasswordReset(s.ctx, "bob@example.com"))

	sent := s.app.MockSender.Last()
	s.Require().NotNil(sent)
	s.Contains(sent.HTML, "/auth/reset/confirm?token=tok123")

	s.Require().NoError(s.app.AuthService.ResetPassword(s.ctx, "tok123", "brandnew1"))
	_, err = s.app.AuthService.SignInWithPassword(s.ctx, "bob@example.com", "brandnew1")
	s.NoError(err)
}

// Test: federated sign-in for a known manager
func (s *IntegrationSuite) TestFederatedSignInResolvesProfile() {
	s.app.MockVerifier.Add("google-cred", model.FederatedIdentity{
		Provider: model.ProviderGoogle, Subject: "g-1", Email: "carol@example.com", EmailVerified: true,
	})

	session, err := s.app.AuthService.SignInWithFederated(s.ctx, "google-cred")
	s.Require().NoError(err)
	s.Equal(profile.UnknownManager, session.State.ManagerName)

	s.Require().NoError(s.app.Storage.SaveManager(s.ctx, &model.Manager{UID: session.State.User.UID, Name: "Carol"}))

	session, err = s.app.AuthService.RefreshProfile(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal("Carol", session.State.ManagerName)
	s.Equal(profile.NoStadiumAssigned, session.State.StadiumName)
}

func (s *IntegrationSuite) TestDashboardCards() {
	s.Len(s.app.DashboardService.Cards(), 5)
}

func writeSeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `stadiums:
  - id: s1
    name: Court A
managers:
  - uid: u1
    name: Alice
    stadiumID: s1
  - uid: u2
    name: Bob
accounts:
  - uid: u1
    email: alice@example.com
    password: secret123
  - uid: u2
    email: bob@example.com
    password: secret123
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewWithSeedFile(t *testing.T) {
	ctx := context.Background()
	app, err := New(ctx, Config{SeedFile: writeSeed(t)})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	session, err := app.AuthService.SignInWithPassword(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Alice", session.State.ManagerName)
	assert.Equal(t, "Court A", session.State.StadiumName)

	session, err = app.AuthService.SignInWithPassword(ctx, "bob@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Bob", session.State.ManagerName)
	assert.Equal(t, profile.NoStadiumAssigned, session.State.StadiumName)
}

func TestNewWithMissingSeedFile(t *testing.T) {
	_, err := New(context.Background(), Config{SeedFile: filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}

func TestNewWithRedisStorage(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	cfg := redisstorage.DefaultConfig()
	cfg.URL = "redis://" + mr.Addr()

	app, err := New(ctx, Config{StorageType: StorageTypeRedis, RedisConfig: &cfg, SeedFile: writeSeed(t)})
	require.NoError(t, err)
	defer func() { _ = app.Close() }()

	session, err := app.AuthService.SignInWithPassword(ctx, "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "Court A", session.State.StadiumName)
}

func TestNewRejectsIncompleteStorageConfig(t *testing.T) {
	ctx := context.Background()

	_, err := New(ctx, Config{StorageType: StorageTypeRedis})
	assert.Error(t, err)

	_, err = New(ctx, Config{StorageType: StorageTypeFirestore})
	assert.Error(t, err)

	_, err = New(ctx, Config{StorageType: "postgres"})
	assert.Error(t, err)
}

func TestNewEnablesGoogleWhenClientIDSet(t *testing.T) {
	app, err := New(context.Background(), Config{GoogleClientID: "client-123"})
	require.NoError(t, err)
	assert.True(t, app.AuthService.FederatedEnabled())

	app, err = New(context.Background(), Config{})
	require.NoError(t, err)
	assert.False(t, app.AuthService.FederatedEnabled())
}
