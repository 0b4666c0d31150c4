package templates

import (
	"regexp"
	"strings"
)

// Content describes the notification fields the default variable set is
// derived from. It is a plain value so this package stays independent of the
// notification domain types.
type Content struct {
	Title            string
	ShortDescription string
	Message          string
	Kind             string // notification classification: info, warning, congrats, none
}

// defaultHeaders maps a notification classification to the header used when
// the notification carries no title.
var defaultHeaders = map[string]string{
	"info":     "New notification",
	"warning":  "Important notice",
	"congrats": "Congratulations!",
	"none":     "Notification",
}

const (
	warningNote   = "Please review this notice carefully."
	defaultFooter = "You are receiving this email because of your account notification settings."
)

var paragraphSplit = regexp.MustCompile(`\n\s*\n`)

// DefaultVariables builds the variable map for template rendering from a
// notification's content. Caller-supplied variables are merged over the
// result by Merge, so every default here is overridable.
//
//   - header: the title, else a fixed label keyed by classification
//   - preheader: the short description, when present
//   - body: the message split on blank-line boundaries, when non-empty
//   - note: a fixed warning string, for the "warning" classification only
//   - footer: a fixed default string
func DefaultVariables(c Content) map[string]any {
	vars := make(map[string]any, 5)

	header := strings.TrimSpace(c.Title)
	if header == "" {
		header = defaultHeaders[c.Kind]
		if header == "" {
			header = defaultHeaders["none"]
		}
	}
	vars["header"] = header

	if pre := strings.TrimSpace(c.ShortDescription); pre != "" {
		vars["preheader"] = pre
	}

	if paragraphs := SplitParagraphs(c.Message); len(paragraphs) > 0 {
		vars["body"] = paragraphs
	}

	if c.Kind == "warning" {
		vars["note"] = warningNote
	}

	vars["footer"] = defaultFooter

	return vars
}

// Merge overlays the supplied variables onto the defaults; later keys win.
func Merge(defaults, overrides map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// SplitParagraphs splits free text on blank-line boundaries, dropping empty
// fragments.
func SplitParagraphs(message string) []string {
	var paragraphs []string
	for _, p := range paragraphSplit.Split(message, -1) {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}
