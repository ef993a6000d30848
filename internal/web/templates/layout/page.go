package layout

// CSRFFieldName is the form field gorilla/csrf reads the token from
const CSRFFieldName = "gorilla.csrf.Token"

// FlashMessage represents a one-time message shown to the user
type FlashMessage struct {
	Type    string // "success", "error", "info"
	Message string
}

// PageData contains common data for all pages
type PageData struct {
	Title     string
	Flash     *FlashMessage
	CSRFToken string
	// Scripts are external script URLs loaded in the head
	Scripts []string
}

func documentTitle(title string) string {
	if title == "" {
		return "Stadium Dash"
	}
	return title + " | Stadium Dash"
}
