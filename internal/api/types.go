package api

import (
	"strings"

	"cramomatic"
)

type RecipeRequest struct {
	Items []string `json:"items"`
}

type RecipeResponse struct {
	Items   []string          `json:"items"`
	Output  string            `json:"output"`
	Special bool              `json:"special"`
	Type    string            `json:"type,omitempty"`
	Score   int               `json:"score,omitempty"`
	Range   *cramomatic.Range `json:"range,omitempty"`
	Text    string            `json:"text"`
}

type CheckRequest struct {
	Output string   `json:"output"`
	Items  []string `json:"items"`
}

type CheckResponse struct {
	Output   string   `json:"output"`
	Items    []string `json:"items"`
	Possible bool     `json:"possible"`
}

type OptionsRequest struct {
	Output string   `json:"output"`
	Items  []string `json:"items"`
	Slot   int      `json:"slot"`
}

type OptionsResponse struct {
	Output  string   `json:"output"`
	Slot    int      `json:"slot"`
	Options []string `json:"options"`
}

type OutputsResponse struct {
	Outputs []string `json:"outputs"`
}

type Item struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Score int    `json:"score"`
}

type ItemsResponse struct {
	Items []Item `json:"items"`
}

// ParsePartial turns up to four names into a partial recipe. Missing trailing
// slots, "" and "_" are unbound.
func ParsePartial(items []string) (cramomatic.PartialRecipe, error) {
	var p cramomatic.PartialRecipe
	if len(items) > len(p) {
		return p, badRequest("at most %d items, got %d", len(p), len(items))
	}
	for i, name := range items {
		name = strings.TrimSpace(name)
		if name == "_" {
			name = ""
		}
		p[i] = name
	}
	return p, nil
}

// slots renders a partial recipe back into the four-element wire form.
func slots(p cramomatic.PartialRecipe) []string {
	out := make([]string, len(p))
	copy(out, p[:])
	return out
}
