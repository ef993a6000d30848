package pages

import (
	"github.com/mcoot/stadiumdash/internal/services/auth"
	"github.com/mcoot/stadiumdash/internal/services/dashboard"
	"github.com/mcoot/stadiumdash/internal/web/templates/layout"
)

// DashboardData contains data for the signed-in page
type DashboardData struct {
	layout.PageData
	State       auth.State
	Cards       []dashboard.Card
	SidebarOpen bool
}

type sidebarLink struct {
	Label  string
	Href   string
	Active bool
}

// text is the full label, or its initial when the sidebar is collapsed
func (l sidebarLink) text(open bool) string {
	if open {
		return l.Label
	}
	return l.Label[:1]
}

var sidebarLinks = []sidebarLink{
	{"Dashboard", "/", true},
	{"Bookings", "#bookings", false},
	{"Members", "#members", false},
	{"Courts", "#courts", false},
	{"Events", "#events", false},
	{"Settings", "#settings", false},
}
