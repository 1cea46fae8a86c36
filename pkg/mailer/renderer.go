package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
)

// Renderer turns markdown templates with YAML frontmatter into a subject,
// a plain-text body and an HTML body wrapped in a layout.
//
// The markdown of each template is converted to HTML once, when the template
// is first loaded. Template actions ({{.Field}}) pass through the conversion
// untouched and are executed on every render, so user data is never parsed
// as markdown. Actions in the body must not contain string literals: quotes
// are HTML-escaped by the markdown converter.
type Renderer struct {
	fs fs.FS
	md goldmark.Markdown

	// Caches hold parsed templates, never rendered output.
	templateCache map[string]*compiledTemplate
	layoutCache   map[string]*template.Template
	templateDir   string
	layoutDir     string

	mu sync.RWMutex
}

// compiledTemplate holds the three executable parts of a template file.
type compiledTemplate struct {
	subject  *texttemplate.Template
	text     *texttemplate.Template
	html     *template.Template
	metadata Metadata
}

// RendererConfig configures the renderer.
type RendererConfig struct {
	TemplateDir string // Default: "."
	LayoutDir   string // Default: "layouts"
}

// NewRenderer creates a new renderer with default config.
func NewRenderer(filesystem fs.FS) *Renderer {
	return NewRendererWithConfig(filesystem, RendererConfig{})
}

// NewRendererWithConfig creates a new renderer with custom config.
func NewRendererWithConfig(filesystem fs.FS, opts RendererConfig) *Renderer {
	if opts.TemplateDir == "" {
		opts.TemplateDir = "."
	}
	if opts.LayoutDir == "" {
		opts.LayoutDir = "layouts"
	}

	return &Renderer{
		fs:            filesystem,
		templateDir:   opts.TemplateDir,
		layoutDir:     opts.LayoutDir,
		md:            goldmark.New(),
		templateCache: make(map[string]*compiledTemplate),
		layoutCache:   make(map[string]*template.Template),
	}
}

// RenderResult contains the rendered subject, bodies and template metadata.
type RenderResult struct {
	Subject  string
	HTML     string
	Text     string
	Metadata Metadata
}

// Render executes a template.
//
// data feeds the subject and the plain-text body. htmlData feeds the HTML
// body; when nil, data is used. The HTML body is an html/template, so plain
// strings are escaped automatically and values already escaped by the caller
// must be passed as template.HTML.
func (r *Renderer) Render(layout, templateName string, data, htmlData any) (*RenderResult, error) {
	if htmlData == nil {
		htmlData = data
	}

	compiled, err := r.getTemplate(templateName)
	if err != nil {
		return nil, err
	}

	var subject bytes.Buffer
	if err := compiled.subject.Execute(&subject, data); err != nil {
		return nil, fmt.Errorf("%w: failed to execute subject: %v", ErrRenderFailed, err)
	}

	var text bytes.Buffer
	if err := compiled.text.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("%w: failed to execute text body: %v", ErrRenderFailed, err)
	}

	var content bytes.Buffer
	if err := compiled.html.Execute(&content, htmlData); err != nil {
		return nil, fmt.Errorf("%w: failed to execute html body: %v", ErrRenderFailed, err)
	}

	layoutTmpl, err := r.getLayout(layout)
	if err != nil {
		return nil, err
	}

	var html bytes.Buffer
	layoutData := map[string]any{
		"Content": template.HTML(content.String()),
		"Subject": subject.String(),
	}
	if err := layoutTmpl.Execute(&html, layoutData); err != nil {
		return nil, fmt.Errorf("%w: failed to execute layout: %v", ErrRenderFailed, err)
	}

	return &RenderResult{
		Subject:  subject.String(),
		HTML:     html.String(),
		Text:     text.String(),
		Metadata: compiled.metadata,
	}, nil
}

// getTemplate returns a cached template or loads, converts and caches it.
func (r *Renderer) getTemplate(name string) (*compiledTemplate, error) {
	r.mu.RLock()
	if cached, ok := r.templateCache[name]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.templateCache[name]; ok {
		return cached, nil
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.templateDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	}

	compiled, err := r.compile(name, content)
	if err != nil {
		return nil, err
	}

	r.templateCache[name] = compiled
	return compiled, nil
}

func (r *Renderer) compile(name string, content []byte) (*compiledTemplate, error) {
	parsed, err := ParseTemplate(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	subject, err := texttemplate.New(name + ":subject").Parse(parsed.Metadata.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: failed to parse subject: %v", ErrRenderFailed, name, err)
	}

	text, err := texttemplate.New(name + ":text").Parse(parsed.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: failed to parse body: %v", ErrRenderFailed, name, err)
	}

	var converted bytes.Buffer
	if err := r.md.Convert([]byte(parsed.Body), &converted); err != nil {
		return nil, fmt.Errorf("%w: %s: failed to convert markdown: %v", ErrRenderFailed, name, err)
	}

	html, err := template.New(name + ":html").Parse(converted.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: failed to parse html body: %v", ErrRenderFailed, name, err)
	}

	return &compiledTemplate{
		subject:  subject,
		text:     text,
		html:     html,
		metadata: parsed.Metadata,
	}, nil
}

// getLayout returns a cached layout template or parses and caches it.
func (r *Renderer) getLayout(name string) (*template.Template, error) {
	r.mu.RLock()
	if cached, ok := r.layoutCache[name]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.layoutCache[name]; ok {
		return cached, nil
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.layoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
	}

	layoutTmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse layout: %v", ErrRenderFailed, err)
	}

	r.layoutCache[name] = layoutTmpl
	return layoutTmpl, nil
}
