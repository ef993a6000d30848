package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// Output formats command results as text or JSON
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
		return
	}

	switch v := data.(type) {
	case AuthResult:
		o.printAuthResult(v)
	case State:
		o.printState(v)
	case Dashboard:
		o.printDashboard(v)
	case Message:
		fmt.Fprintln(o.w, v.Message)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s (%dms)\n", v.Status, v.LatencyMS)
	default:
		o.printJSON(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	o.Print(Message{Message: msg})
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

// User matches the API user object
type User struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Provider string `json:"provider"`
}

// State matches the API session state
type State struct {
	User        *User  `json:"user"`
	ManagerName string `json:"manager_name"`
	StadiumName string `json:"stadium_name"`
	Loading     bool   `json:"loading"`
	Error       string `json:"error,omitempty"`
}

// AuthResult is returned by the sign-in endpoints
type AuthResult struct {
	SessionToken string `json:"session_token"`
	ExpiresAt    string `json:"expires_at"`
	State        State  `json:"state"`
}

// Card is one dashboard summary tile
type Card struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Value string `json:"value"`
	Hint  string `json:"hint"`
}

// Dashboard is the dashboard response
type Dashboard struct {
	Cards []Card `json:"cards"`
}

// Message is a plain acknowledgement
type Message struct {
	Message string `json:"message"`
}

// HealthResult is the health response plus the measured round trip
type HealthResult struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
}

func (o *Output) printState(s State) {
	if s.User == nil {
		fmt.Fprintln(o.w, "Signed out")
		return
	}
	fmt.Fprintf(o.w, "User: %s (%s, %s)\n", s.User.Email, s.User.UID, s.User.Provider)
	fmt.Fprintf(o.w, "Manager: %s\n", s.ManagerName)
	fmt.Fprintf(o.w, "Stadium: %s\n", s.StadiumName)
	if s.Error != "" {
		fmt.Fprintf(o.w, "Warning: %s\n", s.Error)
	}
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printState(a.State)
	fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
	if a.ExpiresAt != "" {
		fmt.Fprintf(o.w, "Expires: %s\n", a.ExpiresAt)
	}
}

func (o *Output) printDashboard(d Dashboard) {
	width := 0
	for _, c := range d.Cards {
		width = max(width, len(c.Title))
	}
	for _, c := range d.Cards {
		fmt.Fprintf(o.w, "%-*s  %s", width, c.Title, c.Value)
		if c.Hint != "" {
			fmt.Fprintf(o.w, "  (%s)", c.Hint)
		}
		fmt.Fprintln(o.w)
	}
}
