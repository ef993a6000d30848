package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/stadiumdash/internal/model"
	"github.com/mcoot/stadiumdash/internal/storage/memory"
	"github.com/mcoot/stadiumdash/internal/testutil"
)

type ResolverSuite struct {
	suite.Suite
	storage  *memory.Storage
	resolver *Resolver
	ctx      context.Context
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.storage = memory.New()
	s.resolver = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ResolverSuite) TestManagerWithStadium() {
	_ = s.storage.SaveManager(s.ctx, &model.Manager{UID: "u1", Name: "Alice", StadiumID: "s1"})
	_ = s.storage.SaveStadium(s.ctx, &model.Stadium{ID: "s1", Name: "Court A"})

	p := s.resolver.Resolve(s.ctx, "u1")

	s.Equal("Alice", p.ManagerName)
	s.Equal("Court A", p.StadiumName)
	s.Equal(model.StadiumID("s1"), p.StadiumID)
	s.NoError(p.Err)
	s.Empty(p.ErrorMessage())
}

func (s *ResolverSuite) TestManagerWithoutStadium() {
	_ = s.storage.SaveManager(s.ctx, &model.Manager{UID: "u2", Name: "Bob"})

	p := s.resolver.Resolve(s.ctx, "u2")

	s.Equal("Bob", p.ManagerName)
	s.Equal(NoStadiumAssigned, p.StadiumName)
	s.NoError(p.Err)
}

func (s *ResolverSuite) TestMissingManager() {
	p := s.resolver.Resolve(s.ctx, "nobody")

	s.Equal(UnknownManager, p.ManagerName)
	s.Equal(UnknownStadium, p.StadiumName)
	s.ErrorIs(p.Err, model.ErrManagerNotFound)
	s.Equal(MsgManagerNotFound, p.ErrorMessage())
}

func (s *ResolverSuite) TestMissingStadium() {
	_ = s.storage.SaveManager(s.ctx, &model.Manager{UID: "u3", Name: "Carol", StadiumID: "gone"})

	p := s.resolver.Resolve(s.ctx, "u3")

	s.Equal("Carol", p.ManagerName)
	s.Equal(UnknownStadium, p.StadiumName)
	s.ErrorIs(p.Err, model.ErrStadiumNotFound)
	s.Equal(MsgStadiumNotFound, p.ErrorMessage())
}

func (s *ResolverSuite) TestManagerBackendError() {
	resolver := New(&failingDocs{managerErr: errors.New("deadline exceeded")}, testutil.NopLogger())

	p := resolver.Resolve(s.ctx, "u1")

	s.Equal(UnknownManager, p.ManagerName)
	s.Equal(UnknownStadium, p.StadiumName)
	s.Equal("deadline exceeded", p.ErrorMessage())
}

func (s *ResolverSuite) TestStadiumBackendError() {
	docs := &failingDocs{
		manager:    &model.Manager{UID: "u1", Name: "Alice", StadiumID: "s1"},
		stadiumErr: errors.New("permission denied"),
	}
	resolver := New(docs, testutil.NopLogger())

	p := resolver.Resolve(s.ctx, "u1")

	s.Equal("Alice", p.ManagerName)
	s.Equal(UnknownStadium, p.StadiumName)
	s.Equal("permission denied", p.ErrorMessage())
}

func (s *ResolverSuite) TestStadiumLookupSkippedWithoutManager() {
	docs := &failingDocs{managerErr: model.ErrManagerNotFound}
	resolver := New(docs, testutil.NopLogger())

	_ = resolver.Resolve(s.ctx, "u1")

	s.Zero(docs.stadiumCalls)
}

// failingDocs is a DocumentStore with scripted results
type failingDocs struct {
	manager      *model.Manager
	managerErr   error
	stadiumErr   error
	stadiumCalls int
}

func (d *failingDocs) GetManager(_ context.Context, _ model.UserID) (*model.Manager, error) {
	if d.managerErr != nil {
		return nil, d.managerErr
	}
	return d.manager, nil
}

func (d *failingDocs) GetStadium(_ context.Context, _ model.StadiumID) (*model.Stadium, error) {
	d.stadiumCalls++
	return nil, d.stadiumErr
}
