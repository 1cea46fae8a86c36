package mailer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTemplate_WithFrontmatter(t *testing.T) {
	t.Parallel()

	content := []byte(`---
Subject: "New subscriber: {{.Email}}"
Tags: [newsletter, admin]
---
# Hello World

This is the email body.
`)

	tmpl, err := ParseTemplate(content)
	require.NoError(t, err)
	require.Equal(t, "New subscriber: {{.Email}}", tmpl.Metadata.Subject)
	require.Equal(t, []string{"newsletter", "admin"}, tmpl.Metadata.Tags)
	require.Equal(t, "# Hello World\n\nThis is the email body.\n", tmpl.Body)
}

func TestParseTemplate_WithoutFrontmatter(t *testing.T) {
	t.Parallel()

	content := []byte("# Hello\n\nPlain markdown.")

	tmpl, err := ParseTemplate(content)
	require.NoError(t, err)
	require.Empty(t, tmpl.Metadata.Subject)
	require.Equal(t, string(content), tmpl.Body)
}

func TestParseTemplate_EmptyFrontmatter(t *testing.T) {
	t.Parallel()

	tmpl, err := ParseTemplate([]byte("---\n\n---\nBody content."))
	require.NoError(t, err)
	require.Empty(t, tmpl.Metadata.Subject)
	require.Equal(t, "Body content.", tmpl.Body)
}

func TestParseTemplate_CRLF(t *testing.T) {
	t.Parallel()

	tmpl, err := ParseTemplate([]byte("---\r\nSubject: Hi\r\n---\r\nBody"))
	require.NoError(t, err)
	require.Equal(t, "Hi", tmpl.Metadata.Subject)
	require.Equal(t, "Body", tmpl.Body)
}

func TestParseTemplate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "missing closing delimiter", content: "---\nSubject: Test\nBody"},
		{name: "only opening delimiter", content: "---\n"},
		{name: "invalid yaml", content: "---\nSubject: [unclosed\n---\nBody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseTemplate([]byte(tt.content))
			require.ErrorIs(t, err, ErrInvalidFrontmatter)
		})
	}
}
