package templates

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"regexp"
	"strings"
)

//go:embed files/*.html
var templateFS embed.FS

var (
	// ErrNoContent means neither raw HTML, a template, nor text was supplied.
	ErrNoContent = errors.New("templates.errors.no_content")

	// ErrUnknownTemplate means the requested template name is not registered.
	ErrUnknownTemplate = errors.New("templates.errors.unknown_template")
)

// Known template names.
const (
	TemplateGeneric       = "generic-template"
	TemplateResetPassword = "password"
)

// noContentPlaceholder is rendered when a template resolves to an empty body.
const noContentPlaceholder = "<p>(no content)</p>"

// recipientToken is replaced per physical send; it deliberately uses a
// non-Go-template syntax so it survives rendering and can be injected into
// raw HTML supplied by callers as well.
const recipientToken = "${recipientEmail}"

// Request carries the content candidates for one email.
// Exactly which candidate wins is decided by Resolve.
type Request struct {
	HTML      string         // raw HTML, passed through unmodified when set
	Template  string         // registered template name
	Text      string         // plain text, also used as the text alternative
	Variables map[string]any // template variables; merged over nothing, caller owns defaults
	CTALink   string         // call-to-action URL, injected as "ctaLink"
}

// Resolver renders registered HTML templates and derives plain-text
// fallbacks. Construct with NewResolver; the zero value is not usable.
type Resolver struct {
	templates *template.Template
}

// NewResolver parses the embedded template set.
func NewResolver() (*Resolver, error) {
	t, err := template.ParseFS(templateFS, "files/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse embedded templates: %w", err)
	}
	return &Resolver{templates: t}, nil
}

// MustNewResolver panics when the embedded templates fail to parse.
// Broken embedded assets are a build defect, not a runtime condition.
func MustNewResolver() *Resolver {
	r, err := NewResolver()
	if err != nil {
		panic(err)
	}
	return r
}

// Has reports whether a template name is registered.
func (r *Resolver) Has(name string) bool {
	return r.templates.Lookup(name+".html") != nil
}

// Resolve produces the HTML body and plain-text alternative for a request.
//
// HTML precedence: raw HTML if supplied, else the named template rendered
// with the variable map, else a <pre> wrapper around the escaped text.
// A template that renders to an empty body yields a fixed placeholder.
// When no candidate is available at all, Resolve fails with ErrNoContent.
//
// The text alternative is the explicit text when given, otherwise the
// resolved HTML with all markup tags stripped.
func (r *Resolver) Resolve(req Request) (html string, text string, err error) {
	html, err = r.resolveHTML(req)
	if err != nil {
		return "", "", err
	}
	return html, resolveText(req.Text, html), nil
}

func (r *Resolver) resolveHTML(req Request) (string, error) {
	if strings.TrimSpace(req.HTML) != "" {
		return req.HTML, nil
	}

	if req.Template != "" {
		if !r.Has(req.Template) {
			return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, req.Template)
		}

		vars := make(map[string]any, len(req.Variables)+1)
		for k, v := range req.Variables {
			vars[k] = v
		}
		if req.CTALink != "" {
			vars["ctaLink"] = req.CTALink
		}

		if !hasContent(vars) {
			return noContentPlaceholder, nil
		}

		var sb strings.Builder
		if err := r.templates.ExecuteTemplate(&sb, req.Template+".html", vars); err != nil {
			return "", fmt.Errorf("render template %q: %w", req.Template, err)
		}
		return sb.String(), nil
	}

	if strings.TrimSpace(req.Text) != "" {
		return "<pre>" + template.HTMLEscapeString(req.Text) + "</pre>", nil
	}

	return "", ErrNoContent
}

// contentVariables are the variable names carrying visible copy in the
// embedded templates; everything else in a rendered template is boilerplate.
var contentVariables = []string{"header", "preheader", "body", "note"}

// hasContent reports whether the variable map would produce a non-empty
// rendered body. A render without any content variable set is boilerplate
// only and gets the placeholder instead.
func hasContent(vars map[string]any) bool {
	for _, key := range contentVariables {
		switch v := vars[key].(type) {
		case nil:
		case string:
			if strings.TrimSpace(v) != "" {
				return true
			}
		case []string:
			if len(v) > 0 {
				return true
			}
		case []any:
			if len(v) > 0 {
				return true
			}
		default:
			return true
		}
	}
	return false
}

func resolveText(explicit, html string) string {
	if strings.TrimSpace(explicit) != "" {
		return explicit
	}
	return stripTags(html)
}

var tagRegex = regexp.MustCompile(`<[^>]+>`)

// stripTags removes markup with a simple tag-stripping pass. It is a
// fallback for the text alternative, not a sanitizer.
func stripTags(s string) string {
	return tagRegex.ReplaceAllString(s, "")
}

// InjectRecipient substitutes the per-recipient address token in resolved
// content. Content without the token is returned unchanged.
func InjectRecipient(content, recipientEmail string) string {
	return strings.ReplaceAll(content, recipientToken, recipientEmail)
}
