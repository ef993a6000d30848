package auth

import (
	"context"
	"time"
)

func (s *ServiceSuite) TestJanitorSweepsExpiredSessions() {
	_, err := s.service.SignUp(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)
	s.Require().Equal(1, s.service.sessionCount())

	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})
	go func() {
		s.service.RunJanitor(ctx, s.clock.FakeClock, time.Minute)
		close(done)
	}()
	s.Require().NoError(s.clock.BlockUntilContext(ctx, 1))

	// A tick before expiry keeps the session
	s.clock.Advance(time.Minute)
	s.Never(func() bool { return s.service.sessionCount() == 0 }, 50*time.Millisecond, 10*time.Millisecond)

	s.clock.Advance(25 * time.Hour)
	s.Eventually(func() bool { return s.service.sessionCount() == 0 }, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func (s *ServiceSuite) TestSessionTokensComeFromRandom() {
	s.random.QueueToken("fixed")

	session, err := s.service.SignUp(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)
	s.Equal("sess_fixed", session.Token)
}
