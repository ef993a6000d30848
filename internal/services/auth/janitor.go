package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// RunJanitor removes expired sessions every interval until ctx is done.
// Expiry is judged by the service clock; clk only drives the ticker.
func (s *Service) RunJanitor(ctx context.Context, clk clockwork.Clock, interval time.Duration) {
	ticker := clk.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if n := s.CleanExpiredSessions(); n > 0 {
				s.logger.Info("expired sessions removed", slog.Int("count", n))
			}
		}
	}
}

func (s *Service) sessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
