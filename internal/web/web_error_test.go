package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/stadiumdash/internal/model"
)

const testCSRFKey = "0123456789abcdef0123456789abcdef"

func TestFlashMessageShownOnce(t *testing.T) {
	ts := newWebTestServer(t)
	ts.signUp("alice@example.com", "password123")

	rr := ts.post("/auth/signout", nil)
	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash", "signed out")

	doc = parseHTML(ts.get("/").Body)
	assertNotContainsElement(t, doc, ".flash")
}

func TestUnknownRouteNotFound(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/reports/weekly")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestStaticFileServing(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/static/app.css")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), ".stat-card")
}

func TestCSRFRejectsPostWithoutToken(t *testing.T) {
	ts := newWebTestServer(t, withCSRF(testCSRFKey))

	rr := ts.post("/auth/signin", url.Values{"email": {"alice@example.com"}, "password": {"password123"}})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCSRFAcceptsTokenFromForm(t *testing.T) {
	ts := newWebTestServer(t, withCSRF(testCSRFKey))
	_, err := ts.app.AuthService.SignUp(t.Context(), "alice@example.com", "password123")
	require.NoError(t, err)

	doc := parseHTML(ts.get("/").Body)
	token := doc.Find("form[action='/auth/signin'] input[name='gorilla.csrf.Token']").AttrOr("value", "")
	require.NotEmpty(t, token)

	rr := ts.post("/auth/signin", url.Values{
		"email":              {"alice@example.com"},
		"password":           {"password123"},
		"gorilla.csrf.Token": {token},
	})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.True(t, ts.cookies.hasSession())
}

func TestCSRFDoesNotBlockGoogleCallback(t *testing.T) {
	ts := newWebTestServer(t, withCSRF(testCSRFKey))
	ts.app.MockVerifier.Add("google-cred", model.FederatedIdentity{
		Provider: model.ProviderGoogle, Subject: "g-1", Email: "dana@example.com", EmailVerified: true,
	})
	ts.cookies.set("g_csrf_token", "double-submit")

	rr := ts.post("/auth/federated", url.Values{
		"credential":   {"google-cred"},
		"g_csrf_token": {"double-submit"},
	})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
}

func TestNoCSRFFieldWhenDisabled(t *testing.T) {
	ts := newWebTestServer(t)

	doc := parseHTML(ts.get("/").Body)
	assertNotContainsElement(t, doc, "input[name='gorilla.csrf.Token']")
}
