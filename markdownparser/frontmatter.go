package markdownparser

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/shibukawa/walkthrough"
)

const frontMatterFence = "---"

// splitFrontMatter separates a leading "---" delimited block from the body.
// An opening fence without a closing one is not front matter.
func splitFrontMatter(content string) (string, string, bool) {
	first, rest, ok := strings.Cut(content, "\n")
	if !ok || strings.TrimRight(first, " \t") != frontMatterFence {
		return "", content, false
	}

	offset := 0
	for offset <= len(rest) {
		line, _, _ := strings.Cut(rest[offset:], "\n")
		if strings.TrimRight(line, " \t") == frontMatterFence {
			raw := rest[:offset]

			body := ""
			if end := offset + len(line) + 1; end < len(rest) {
				body = rest[end:]
			}

			return raw, body, true
		}

		if offset+len(line) >= len(rest) {
			break
		}

		offset += len(line) + 1
	}

	return "", content, false
}

// parseMetadata decodes front matter YAML into walkthrough metadata.
// Unknown keys are ignored and missing ones receive the defaults.
func parseMetadata(raw string) (walkthrough.Metadata, error) {
	metadata := walkthrough.DefaultMetadata()

	if strings.TrimSpace(raw) == "" {
		return metadata, nil
	}

	var values map[string]any

	err := yaml.Unmarshal([]byte(raw), &values)
	if err != nil {
		return metadata, fmt.Errorf("%w: %w", walkthrough.ErrInvalidFrontMatter, err)
	}

	if title := stringValue(values["title"]); title != "" {
		metadata.Title = title
	}

	metadata.EstimatedTime = stringValue(values["estimatedTime"])
	metadata.Description = stringValue(values["description"])

	if difficulty, ok := walkthrough.ParseDifficulty(stringValue(values["difficulty"])); ok {
		metadata.Difficulty = difficulty
	}

	metadata.Mode = walkthrough.ParseMode(stringValue(values["mode"]))

	return metadata, nil
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
