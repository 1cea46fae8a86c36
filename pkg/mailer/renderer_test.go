package mailer_test

import (
	"html/template"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/postbox/pkg/cache"
	"github.com/dmitrymomot/postbox/pkg/mailer"
)

const testLayout = `<html><head><title>{{.Subject}}</title></head><body>{{.Content}}</body></html>`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(testLayout)},
		"notice.md": {Data: []byte(`---
Subject: New message from {{.Name}}
Tags: [contact]
---

**From:** {{.Name}}

{{.Message}}
`)},
		"broken.md": {Data: []byte("---\nSubject: x\n---\n{{.Name")},
		"plain.md":  {Data: []byte("Hello")},
	}
}

func TestRenderer_Render(t *testing.T) {
	t.Parallel()

	t.Run("renders subject, text and html", func(t *testing.T) {
		t.Parallel()

		r := mailer.NewRenderer(testFS())
		data := map[string]string{"Name": "Ann <b>", "Message": "1 < 2"}
		htmlData := map[string]any{
			"Name":    template.HTML("Ann &lt;b&gt;"),
			"Message": template.HTML("1 &lt; 2"),
		}

		res, err := r.Render("base.html", "notice.md", data, htmlData)
		require.NoError(t, err)

		assert.Equal(t, "New message from Ann <b>", res.Subject)
		assert.Contains(t, res.Text, "**From:** Ann <b>")
		assert.Contains(t, res.Text, "1 < 2")
		assert.Contains(t, res.HTML, "<strong>From:</strong> Ann &lt;b&gt;")
		assert.Contains(t, res.HTML, "<p>1 &lt; 2</p>")
		assert.Contains(t, res.HTML, "<title>New message from Ann &lt;b&gt;</title>")
		assert.Equal(t, []string{"contact"}, res.Metadata.Tags)
	})

	t.Run("escapes plain strings in html", func(t *testing.T) {
		t.Parallel()

		r := mailer.NewRenderer(testFS())
		res, err := r.Render("base.html", "notice.md", map[string]string{"Name": "x", "Message": "<script>"}, nil)
		require.NoError(t, err)

		assert.NotContains(t, res.HTML, "<script>")
		assert.Contains(t, res.HTML, "&lt;script&gt;")
	})

	t.Run("user data is not parsed as markdown", func(t *testing.T) {
		t.Parallel()

		r := mailer.NewRenderer(testFS())
		res, err := r.Render("base.html", "notice.md", map[string]string{"Name": "x", "Message": "# not a heading"}, nil)
		require.NoError(t, err)

		assert.NotContains(t, res.HTML, "<h1>")
		assert.Contains(t, res.HTML, "# not a heading")
	})

	t.Run("template without frontmatter has empty subject", func(t *testing.T) {
		t.Parallel()

		res, err := mailer.NewRenderer(testFS()).Render("base.html", "plain.md", nil, nil)
		require.NoError(t, err)
		assert.Empty(t, res.Subject)
		assert.Contains(t, res.HTML, "<p>Hello</p>")
	})

	t.Run("missing template", func(t *testing.T) {
		t.Parallel()

		_, err := mailer.NewRenderer(testFS()).Render("base.html", "nope.md", nil, nil)
		require.ErrorIs(t, err, mailer.ErrTemplateNotFound)
	})

	t.Run("missing layout", func(t *testing.T) {
		t.Parallel()

		_, err := mailer.NewRenderer(testFS()).Render("nope.html", "plain.md", nil, nil)
		require.ErrorIs(t, err, mailer.ErrLayoutNotFound)
	})

	t.Run("unparseable template", func(t *testing.T) {
		t.Parallel()

		_, err := mailer.NewRenderer(testFS()).Render("base.html", "broken.md", nil, nil)
		require.ErrorIs(t, err, mailer.ErrRenderFailed)
	})

	t.Run("custom directories", func(t *testing.T) {
		t.Parallel()

		fsys := fstest.MapFS{
			"emails/layouts/main.html": {Data: []byte(testLayout)},
			"emails/hi.md":             {Data: []byte("---\nSubject: Hi\n---\nHi")},
		}
		r := mailer.NewRendererWithConfig(fsys, mailer.RendererConfig{TemplateDir: "emails", LayoutDir: "emails/layouts"})

		res, err := r.Render("main.html", "hi.md", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "Hi", res.Subject)
	})
}

func TestMailer_Send(t *testing.T) {
	t.Parallel()

	t.Run("builds and dispatches", func(t *testing.T) {
		t.Parallel()

		s := &mockSender{}
		s.On("Send", mock.Anything, mock.Anything).Return(&mailer.Result{ID: "m-1", Status: mailer.StatusDelivered}, nil).Once()

		m := mailer.New(mailer.NewDispatcher(s), mailer.NewRenderer(testFS()), mailer.Config{})
		res, err := m.Send(t.Context(), mailer.SendParams{
			To:             "admin@example.com",
			From:           "site@example.com",
			ReplyTo:        "ann@example.com",
			Template:       "notice.md",
			Data:           map[string]string{"Name": "Ann", "Message": "Hi"},
			IdempotencyKey: "k",
		})
		require.NoError(t, err)
		assert.Equal(t, "m-1", res.ID)

		email := s.Calls[0].Arguments.Get(1).(*mailer.Email)
		assert.Equal(t, []string{"admin@example.com"}, email.To)
		assert.Equal(t, "site@example.com", email.From)
		assert.Equal(t, "ann@example.com", email.ReplyTo)
		assert.Equal(t, "New message from Ann", email.Subject)
		assert.Equal(t, "k", email.IdempotencyKey)
		assert.Contains(t, email.Tags, "contact")
	})

	t.Run("falls back to configured subject", func(t *testing.T) {
		t.Parallel()

		m := mailer.New(mailer.NewDispatcher(&mockSender{}), mailer.NewRenderer(testFS()), mailer.Config{FallbackSubject: "Update"})
		email, err := m.Build(mailer.SendParams{To: "a@example.com", Template: "plain.md"})
		require.NoError(t, err)
		assert.Equal(t, "Update", email.Subject)
	})

	t.Run("subject override wins", func(t *testing.T) {
		t.Parallel()

		m := mailer.New(mailer.NewDispatcher(&mockSender{}), mailer.NewRenderer(testFS()), mailer.Config{})
		email, err := m.Build(mailer.SendParams{To: "a@example.com", Template: "notice.md", Subject: "Custom"})
		require.NoError(t, err)
		assert.Equal(t, "Custom", email.Subject)
	})

	t.Run("requires recipient", func(t *testing.T) {
		t.Parallel()

		m := mailer.New(mailer.NewDispatcher(&mockSender{}), mailer.NewRenderer(testFS()), mailer.Config{})
		_, err := m.Send(t.Context(), mailer.SendParams{Template: "plain.md"})
		require.ErrorIs(t, err, mailer.ErrNoRecipient)
	})

	t.Run("dedupes through the dispatcher", func(t *testing.T) {
		t.Parallel()

		results := cache.NewMemory[mailer.Result](cache.WithCleanupInterval(0))
		defer results.Close()

		s := &mockSender{}
		s.On("Send", mock.Anything, mock.Anything).Return(&mailer.Result{ID: "m-1", Status: mailer.StatusSent}, nil).Once()

		m := mailer.New(mailer.NewDispatcher(s, mailer.WithDedupe(results, time.Hour)), mailer.NewRenderer(testFS()), mailer.Config{})
		params := mailer.SendParams{To: "a@example.com", Template: "plain.md", IdempotencyKey: "mailer-dedupe"}

		for range 2 {
			_, err := m.Send(t.Context(), params)
			require.NoError(t, err)
		}
		s.AssertNumberOfCalls(t, "Send", 1)
	})
}
