package pages

import (
	"github.com/mcoot/stadiumdash/internal/web/templates/layout"
)

// Login form modes
const (
	ModeSignIn = "signin"
	ModeSignUp = "signup"
	ModeReset  = "reset"
)

// GoogleScriptURL is the Google Identity Services client library
const GoogleScriptURL = "https://accounts.google.com/gsi/client"

// LoginData contains data for the signed-out page
type LoginData struct {
	layout.PageData
	Mode  string
	Email string
	Error string
	// Info is shown instead of Error after a non-failing action, such as a reset request
	Info string
	// GoogleClientID enables the Google sign-in button when set
	GoogleClientID string
	// GoogleLoginURI is where Google posts the credential
	GoogleLoginURI string
}

// ParseMode maps a query value to a form mode, defaulting to sign-in
func ParseMode(v string) string {
	switch v {
	case ModeSignUp, ModeReset:
		return v
	default:
		return ModeSignIn
	}
}

func (d LoginData) showGoogle() bool {
	return d.GoogleClientID != "" && d.Mode != ModeReset
}

// page adds the Google client script when the button is shown
func (d LoginData) page() layout.PageData {
	p := d.PageData
	if d.showGoogle() {
		p.Scripts = append(append([]string(nil), p.Scripts...), GoogleScriptURL)
	}
	return p
}
