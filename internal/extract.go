package internal

import (
	"strings"
)

// ExtractText returns the plain-text content of an input element using a
// layered strategy:
// 1. Value controls: the trimmed value.
// 2. Rich editors: block-level child texts joined by newline.
// 3. Fallback: the element's flattened visible text.
// 4. Last resort: text-only leaf nodes joined by spaces.
// The layering exists because chat platforms structure their editors
// differently: some wrap each line in a block element, some have no block
// children at all. Never fails; any internal problem yields an empty string
// and a debug log, which callers treat as "no input yet".
func ExtractText(el Element) string {
	if el == nil {
		return ""
	}

	defer func() {
		if r := recover(); r != nil {
			LogDebug("text extraction panicked: %v", r)
		}
	}()

	switch v := el.(type) {
	case ValueControl:
		return strings.TrimSpace(v.Value())
	case RichEditor:
		return extractRichText(v)
	}

	LogDebug("text extraction: element is neither value control nor rich editor")
	return ""
}

func extractRichText(ed RichEditor) string {
	if blocks := ed.BlockTexts(); len(blocks) > 0 {
		joined := strings.TrimSpace(strings.Join(blocks, "\n"))
		if joined != "" {
			return joined
		}
	}

	if flat := strings.TrimSpace(ed.FlatText()); flat != "" {
		return flat
	}

	var parts []string
	for _, leaf := range ed.TextLeaves() {
		leaf = strings.TrimSpace(leaf)
		if leaf != "" && leaf != "\n" {
			parts = append(parts, leaf)
		}
	}
	return strings.Join(parts, " ")
}
