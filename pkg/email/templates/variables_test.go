package templates_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sauportal/notifier/pkg/email/templates"
)

func TestDefaultVariables(t *testing.T) {
	t.Parallel()

	t.Run("title becomes the header", func(t *testing.T) {
		t.Parallel()

		vars := templates.DefaultVariables(templates.Content{
			Title:   "Deploy finished",
			Message: "All good",
			Kind:    "info",
		})
		assert.Equal(t, "Deploy finished", vars["header"])
	})

	t.Run("header falls back to a label per kind", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			kind string
			want string
		}{
			{"info", "New notification"},
			{"warning", "Important notice"},
			{"congrats", "Congratulations!"},
			{"none", "Notification"},
			{"unknown-kind", "Notification"},
			{"", "Notification"},
		}
		for _, tt := range tests {
			vars := templates.DefaultVariables(templates.Content{Kind: tt.kind})
			assert.Equal(t, tt.want, vars["header"], "kind %q", tt.kind)
		}
	})

	t.Run("short description becomes the preheader", func(t *testing.T) {
		t.Parallel()

		vars := templates.DefaultVariables(templates.Content{ShortDescription: "tl;dr"})
		assert.Equal(t, "tl;dr", vars["preheader"])

		vars = templates.DefaultVariables(templates.Content{})
		_, ok := vars["preheader"]
		assert.False(t, ok)
	})

	t.Run("message splits into body paragraphs", func(t *testing.T) {
		t.Parallel()

		vars := templates.DefaultVariables(templates.Content{Message: "para one\n\npara two"})
		assert.Equal(t, []string{"para one", "para two"}, vars["body"])
	})

	t.Run("warning kind adds a note", func(t *testing.T) {
		t.Parallel()

		vars := templates.DefaultVariables(templates.Content{Kind: "warning"})
		assert.NotEmpty(t, vars["note"])

		vars = templates.DefaultVariables(templates.Content{Kind: "info"})
		_, ok := vars["note"]
		assert.False(t, ok)
	})

	t.Run("footer is always present", func(t *testing.T) {
		t.Parallel()

		vars := templates.DefaultVariables(templates.Content{})
		assert.NotEmpty(t, vars["footer"])
	})
}

func TestMerge(t *testing.T) {
	t.Parallel()

	defaults := map[string]any{"header": "default", "footer": "keep"}
	merged := templates.Merge(defaults, map[string]any{"header": "override", "extra": 1})

	assert.Equal(t, "override", merged["header"])
	assert.Equal(t, "keep", merged["footer"])
	assert.Equal(t, 1, merged["extra"])
	assert.Equal(t, "default", defaults["header"], "defaults are not mutated")
}

func TestSplitParagraphs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{"single paragraph", "just one", []string{"just one"}},
		{"blank line boundary", "one\n\ntwo", []string{"one", "two"}},
		{"whitespace-only boundary", "one\n  \t\ntwo", []string{"one", "two"}},
		{"empty fragments dropped", "\n\none\n\n\n\n", []string{"one"}},
		{"empty message", "", nil},
		{"whitespace only", "  \n\n  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, templates.SplitParagraphs(tt.message))
		})
	}
}
