package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// Metadata is the YAML frontmatter of an email template.
type Metadata struct {
	// Subject is a text/template executed with the plain-text data.
	Subject string `yaml:"Subject"`
	// Tags are attached to every email rendered from the template.
	Tags []string `yaml:"Tags"`
}

// Template is a parsed template file: frontmatter plus markdown body.
type Template struct {
	Metadata Metadata
	Body     string
}

// ParseTemplate splits a template file into frontmatter and markdown body.
// Files that do not start with "---" have no frontmatter.
func ParseTemplate(content []byte) (*Template, error) {
	if !bytes.HasPrefix(content, []byte(frontmatterDelimiter)) {
		return &Template{Body: string(content)}, nil
	}

	rest := bytes.TrimLeft(content[len(frontmatterDelimiter):], "\r\n")
	if len(rest) == 0 {
		return nil, fmt.Errorf("%w: no content after opening delimiter", ErrInvalidFrontmatter)
	}

	head, body, found := bytes.Cut(rest, []byte(frontmatterDelimiter))
	if !found {
		return nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}

	// Drop the line break that terminates the closing delimiter.
	body = bytes.TrimPrefix(body, []byte("\r"))
	body = bytes.TrimPrefix(body, []byte("\n"))

	tmpl := &Template{Body: string(body)}
	if len(bytes.TrimSpace(head)) == 0 {
		return tmpl, nil
	}

	if err := yaml.Unmarshal(head, &tmpl.Metadata); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
	}

	return tmpl, nil
}
