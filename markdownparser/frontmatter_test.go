package markdownparser

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/walkthrough"
)

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name    string
		content string
		raw     string
		body    string
		found   bool
	}{
		{
			name:    "basic",
			content: "---\ntitle: a\n---\n## Step\n",
			raw:     "title: a\n",
			body:    "## Step\n",
			found:   true,
		},
		{
			name:    "empty block",
			content: "---\n---\nbody",
			raw:     "",
			body:    "body",
			found:   true,
		},
		{
			name:    "closing fence at end of input",
			content: "---\ntitle: a\n---",
			raw:     "title: a\n",
			body:    "",
			found:   true,
		},
		{
			name:    "trailing blanks on fences",
			content: "--- \ntitle: a\n---\t\nbody",
			raw:     "title: a\n",
			body:    "body",
			found:   true,
		},
		{
			name:    "unterminated",
			content: "---\ntitle: a\n## Step\n",
			raw:     "",
			body:    "---\ntitle: a\n## Step\n",
			found:   false,
		},
		{
			name:    "not at start",
			content: "\n---\ntitle: a\n---\n",
			raw:     "",
			body:    "\n---\ntitle: a\n---\n",
			found:   false,
		},
		{
			name:    "longer fence is not a delimiter",
			content: "----\ntitle: a\n----\n",
			raw:     "",
			body:    "----\ntitle: a\n----\n",
			found:   false,
		},
		{
			name:    "only a fence",
			content: "---",
			raw:     "",
			body:    "---",
			found:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, body, found := splitFrontMatter(tt.content)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.raw, raw)
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestParseMetadata(t *testing.T) {
	t.Run("empty uses defaults", func(t *testing.T) {
		metadata, err := parseMetadata("  \n")
		assert.NoError(t, err)
		assert.Equal(t, walkthrough.DefaultMetadata(), metadata)
	})

	t.Run("scalars become strings", func(t *testing.T) {
		metadata, err := parseMetadata("title: 42\nestimatedTime: 7.5\ndifficulty: beginner\n")
		assert.NoError(t, err)
		assert.Equal(t, "42", metadata.Title)
		assert.Equal(t, "7.5", metadata.EstimatedTime)
		assert.Equal(t, walkthrough.DifficultyBeginner, metadata.Difficulty)
	})

	t.Run("blank title keeps default", func(t *testing.T) {
		metadata, err := parseMetadata("title: \"  \"\n")
		assert.NoError(t, err)
		assert.Equal(t, walkthrough.DefaultTitle, metadata.Title)
	})

	t.Run("structured values are ignored", func(t *testing.T) {
		metadata, err := parseMetadata("title:\n  nested: true\ndescription: [a, b]\n")
		assert.NoError(t, err)
		assert.Equal(t, walkthrough.DefaultTitle, metadata.Title)
		assert.Equal(t, "", metadata.Description)
	})

	t.Run("unknown mode is separate", func(t *testing.T) {
		metadata, err := parseMetadata("mode: sideways\n")
		assert.NoError(t, err)
		assert.Equal(t, walkthrough.ModeSeparate, metadata.Mode)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := parseMetadata("title: [a\n")
		assert.IsError(t, err, walkthrough.ErrInvalidFrontMatter)
	})
}
