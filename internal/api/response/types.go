package response

import (
	"time"

	"github.com/mcoot/stadiumdash/internal/services/auth"
	"github.com/mcoot/stadiumdash/internal/services/dashboard"
)

// User represents the signed-in identity in API responses
type User struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
}

// State is the session's dashboard state
type State struct {
	User        *User  `json:"user"`
	ManagerName string `json:"manager_name"`
	StadiumName string `json:"stadium_name"`
	Loading     bool   `json:"loading"`
	Error       string `json:"error,omitempty"`
}

// StateFromAuth converts an auth.State
func StateFromAuth(st auth.State) State {
	out := State{
		ManagerName: st.ManagerName,
		StadiumName: st.StadiumName,
		Loading:     st.Loading,
		Error:       st.Error,
	}
	if st.User != nil {
		out.User = &User{
			UID:      string(st.User.UID),
			Email:    st.User.Email,
			Provider: string(st.User.Provider),
		}
	}
	return out
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	State        State     `json:"state"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
		State:        StateFromAuth(s.State),
	}
}

// Dashboard is the response for the dashboard endpoint
type Dashboard struct {
	Cards []dashboard.Card `json:"cards"`
}

// Message is a plain acknowledgement
type Message struct {
	Message string `json:"message"`
}

// Health is the response for the health endpoint
type Health struct {
	Status string `json:"status"`
}
