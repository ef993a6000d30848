package pages

import (
	"github.com/mcoot/stadiumdash/internal/web/templates/layout"
)

// ResetConfirmData contains data for the choose-new-password page
type ResetConfirmData struct {
	layout.PageData
	Token string
	// Invalid hides the form when the token can no longer be used
	Invalid bool
	Error   string
}
