package layout

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderDoc(t *testing.T, c templ.Component) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func withBody(c templ.Component, body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return c.Render(templ.WithChildren(ctx, templ.Raw(body)), w)
	})
}

func TestBaseWrapsChildren(t *testing.T) {
	doc := renderDoc(t, withBody(Base(PageData{Title: "Dashboard"}), `<p id="inner">hi</p>`))

	assert.Equal(t, "Dashboard | Stadium Dash", doc.Find("title").Text())
	assert.Equal(t, "hi", doc.Find("body #inner").Text())
	assert.Equal(t, 0, doc.Find(".flash").Length())
}

func TestBaseUntitledPage(t *testing.T) {
	doc := renderDoc(t, Base(PageData{}))

	assert.Equal(t, "Stadium Dash", doc.Find("title").Text())
}

func TestBaseFlashAndScripts(t *testing.T) {
	doc := renderDoc(t, Base(PageData{
		Flash:   &FlashMessage{Type: "error", Message: "<b>nope</b>"},
		Scripts: []string{"https://example.com/a.js"},
	}))

	flash := doc.Find("div.flash.flash-error[role='alert']")
	require.Equal(t, 1, flash.Length())
	assert.Equal(t, "<b>nope</b>", flash.Text())
	assert.Equal(t, 0, flash.Find("b").Length())
	assert.Equal(t, 1, doc.Find("head script[src='https://example.com/a.js']").Length())
}

func TestCSRFInputOmittedWithoutToken(t *testing.T) {
	doc := renderDoc(t, PostButton("/auth/signout", "Sign out", "btn", ""))

	assert.Equal(t, 0, doc.Find("input").Length())
	assert.Equal(t, "Sign out", doc.Find("form[action='/auth/signout'] button.btn").Text())
}

func TestPostButtonCarriesCSRFToken(t *testing.T) {
	doc := renderDoc(t, PostButton("/ui/sidebar", "Collapse sidebar", "sidebar-toggle", "tok"))

	val, ok := doc.Find("form[method='post'] input[type='hidden'][name='gorilla.csrf.Token']").Attr("value")
	require.True(t, ok)
	assert.Equal(t, "tok", val)
}
