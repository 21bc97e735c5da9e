package resolve

import (
	"encoding/json"
	"strings"
)

// ParsedAsset is the strict shape the LLM fallback must return.
type ParsedAsset struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}

// ParseAssetJSON defensively parses a model reply that should contain a
// {symbol, name, type} object, tolerating markdown code fences and
// surrounding prose. A missing or unparseable symbol returns ok=false.
func ParseAssetJSON(reply string) (ParsedAsset, bool) {
	text := strings.TrimSpace(reply)

	// Strip ```json ... ``` fences.
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	// Models sometimes wrap the object in prose; cut to the outermost braces.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ParsedAsset{}, false
	}
	text = text[start : end+1]

	var parsed ParsedAsset
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return ParsedAsset{}, false
	}
	parsed.Symbol = strings.ToUpper(strings.TrimSpace(parsed.Symbol))
	if parsed.Symbol == "" || parsed.Symbol == "NULL" || parsed.Symbol == "UNKNOWN" {
		return ParsedAsset{}, false
	}
	return parsed, true
}
