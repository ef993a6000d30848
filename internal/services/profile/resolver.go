package profile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/stadiumdash/internal/model"
	"github.com/mcoot/stadiumdash/internal/storage"
)

// Placeholder display strings used when a lookup cannot produce a name
const (
	UnknownManager    = "Unknown"
	UnknownStadium    = "Unknown Stadium"
	NoStadiumAssigned = "No Stadium Assigned"
)

// Messages recorded when a document is absent
const (
	MsgManagerNotFound = "Manager profile not found"
	MsgStadiumNotFound = "Stadium not found"
)

// Profile is the display data resolved for a signed-in user.
// Err is set when any lookup failed; the names then hold placeholders.
type Profile struct {
	ManagerName string
	StadiumName string
	StadiumID   model.StadiumID
	Err         error
}

// ErrorMessage returns the message to show for Err, or "" when resolution succeeded
func (p Profile) ErrorMessage() string {
	switch {
	case p.Err == nil:
		return ""
	case errors.Is(p.Err, model.ErrManagerNotFound):
		return MsgManagerNotFound
	case errors.Is(p.Err, model.ErrStadiumNotFound):
		return MsgStadiumNotFound
	default:
		return p.Err.Error()
	}
}

// Resolver looks up managers/{uid} and then stadiums/{stadiumID}
type Resolver struct {
	docs   storage.DocumentStore
	logger *slog.Logger
}

// New creates a new Resolver
func New(docs storage.DocumentStore, logger *slog.Logger) *Resolver {
	return &Resolver{
		docs:   docs,
		logger: logger,
	}
}

// Resolve fetches the manager profile and then its stadium. It never
// fails outright: lookup errors degrade to placeholder names and are
// reported through Profile.Err.
func (r *Resolver) Resolve(ctx context.Context, uid model.UserID) Profile {
	manager, err := r.docs.GetManager(ctx, uid)
	if err != nil {
		r.logger.Warn("manager lookup failed",
			slog.String("uid", string(uid)),
			slog.String("error", err.Error()),
		)
		return Profile{
			ManagerName: UnknownManager,
			StadiumName: UnknownStadium,
			Err:         err,
		}
	}

	p := Profile{ManagerName: manager.Name}

	if !manager.HasStadium() {
		p.StadiumName = NoStadiumAssigned
		return p
	}

	p.StadiumID = manager.StadiumID
	stadium, err := r.docs.GetStadium(ctx, manager.StadiumID)
	if err != nil {
		r.logger.Warn("stadium lookup failed",
			slog.String("uid", string(uid)),
			slog.String("stadium_id", string(manager.StadiumID)),
			slog.String("error", err.Error()),
		)
		p.StadiumName = UnknownStadium
		p.Err = err
		return p
	}

	p.StadiumName = stadium.Name
	return p
}
