package llmparser

import "strings"

const promptTemplate = `Extract a step-by-step walkthrough from this documentation. Analyze the content and create a structured walkthrough with clear steps.

IMPORTANT: Return ONLY valid JSON. Do not include any markdown formatting, code blocks, or explanatory text. Your entire response must be a single JSON object.

Required JSON structure:
{
  "metadata": {
    "title": "string (create a descriptive title)",
    "estimatedTime": "string (estimate like '5 minutes')",
    "difficulty": "beginner|intermediate|advanced",
    "mode": "separate|unified"
  },
  "steps": [
    {
      "number": 1,
      "title": "string (concise step title)",
      "description": "string (1-2 sentences explaining the step)",
      "code": {
        "language": "string (javascript, python, bash, etc)",
        "content": "string (the actual code)",
        "highlightLines": [array of line numbers to highlight, or empty array]
      },
      "notes": "string or null (additional context after code)"
    }
  ]
}

Guidelines:
- Identify distinct steps (look for numbered lists, sequential actions, or logical breakpoints)
- Extract code blocks exactly as written
- Infer language from context or code syntax
- Keep descriptions concise (1-2 sentences)
- Add notes only if there's important context after the code
- Use "separate" mode if steps have different, unrelated code snippets
- Use "unified" mode if walking through a single piece of code line by line
- For unified mode, include the full code in EVERY step, with different highlightLines per step

Documentation to analyze:

{{content}}

Remember: Return ONLY the JSON object, nothing else.`

// BuildPrompt returns the extraction prompt for content.
func BuildPrompt(content string) string {
	return strings.Replace(promptTemplate, "{{content}}", content, 1)
}
