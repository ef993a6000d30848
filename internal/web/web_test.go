package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/stadiumdash/internal/factory"
	"github.com/mcoot/stadiumdash/internal/model"
	"github.com/mcoot/stadiumdash/internal/testutil"
	"github.com/mcoot/stadiumdash/internal/web"
)

const testOrigin = "http://example.com"

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.TestApp
	cookies *cookieJar
}

type serverOption func(*web.RouterConfig)

func withCSRF(key string) serverOption {
	return func(cfg *web.RouterConfig) {
		cfg.CSRFKey = []byte(key)
	}
}

func withGoogle(clientID string) serverOption {
	return func(cfg *web.RouterConfig) {
		cfg.GoogleClientID = clientID
	}
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T, opts ...serverOption) *webTestServer {
	t.Helper()

	app := factory.NewTestApp()
	require.NoError(t, app.Storage.SaveStadium(t.Context(), &model.Stadium{ID: "s1", Name: "Court A"}))

	cfg := web.RouterConfig{
		Logger:           testutil.NopLogger(),
		AuthService:      app.AuthService,
		DashboardService: app.DashboardService,
		StaticDir:        "static",
		PublicURL:        testOrigin,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &webTestServer{
		t:       t,
		handler: web.NewRouter(cfg),
		app:     app,
		cookies: newCookieJar(),
	}
}

// request makes an HTTP request and returns the response
func (ts *webTestServer) request(method, path string, form url.Values) *httptest.ResponseRecorder {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	// Same-origin headers a browser would send
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Referer", testOrigin+"/")

	// Add cookies from jar
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	// Extract Set-Cookie headers into jar
	ts.cookies.extract(rr)

	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.request(http.MethodGet, path, nil)
}

// post makes a POST request with form data
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	return ts.request(http.MethodPost, path, form)
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			// Cookie being deleted
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// set stores a cookie as if the browser already had it
func (j *cookieJar) set(name, value string) {
	j.cookies[name] = &http.Cookie{Name: name, Value: value}
}

// hasSession returns true if the session cookie is set
func (j *cookieJar) hasSession() bool {
	_, ok := j.cookies["session"]
	return ok
}

// Helper functions for common test operations

// signUp creates an account through the form and leaves the browser signed in
func (ts *webTestServer) signUp(email, password string) model.UserID {
	ts.t.Helper()
	rr := ts.post("/auth/signup", url.Values{"email": {email}, "password": {password}})
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after sign-up")
	require.True(ts.t, ts.cookies.hasSession(), "Expected session cookie to be set")

	session, err := ts.app.AuthService.ValidateSession(ts.cookies.cookies["session"].Value)
	require.NoError(ts.t, err)
	return session.State.User.UID
}

// createManager signs up an account, gives it a manager profile and signs it out
func (ts *webTestServer) createManager(email, name string, stadiumID model.StadiumID) {
	ts.t.Helper()
	uid := ts.signUp(email, "password123")
	require.NoError(ts.t, ts.app.Storage.SaveManager(ts.t.Context(), &model.Manager{
		UID:       uid,
		Name:      name,
		StadiumID: stadiumID,
	}))
	rr := ts.post("/auth/signout", nil)
	require.Equal(ts.t, http.StatusSeeOther, rr.Code)
}

// signIn submits the sign-in form and follows the redirect to the dashboard
func (ts *webTestServer) signIn(email, password string) *goquery.Document {
	ts.t.Helper()
	rr := ts.post("/auth/signin", url.Values{"email": {email}, "password": {password}})
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "Expected redirect after sign-in")
	rr = ts.followRedirect(rr)
	require.Equal(ts.t, http.StatusOK, rr.Code)
	return parseHTML(rr.Body)
}

// followRedirect follows a redirect and returns the response
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	location := rr.Header().Get("Location")
	require.NotEmpty(ts.t, location, "Expected Location header for redirect")
	return ts.get(location)
}

// Assertion helpers

// assertContainsElement asserts that the document contains an element matching the selector
func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
	}
}

// assertNotContainsElement asserts that the document does not contain an element matching the selector
func assertNotContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	if doc.Find(selector).Length() > 0 {
		t.Errorf("Expected NOT to find element matching %q, but found %d", selector, doc.Find(selector).Length())
	}
}

// assertContainsText asserts that the element matching the selector contains the text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	el := doc.Find(selector)
	if el.Length() == 0 {
		t.Errorf("Expected to find element matching %q, but none found", selector)
		return
	}
	if !strings.Contains(el.Text(), text) {
		t.Errorf("Expected element %q to contain %q, but got %q", selector, text, el.Text())
	}
}
