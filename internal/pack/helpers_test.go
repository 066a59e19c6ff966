package pack

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dshills/wimgen/internal/config/loader"
)

var gruvbox = map[string]string{
	"bg0": "#282828", "bg1": "#3c3836", "bg2": "#504945", "fg0": "#ebdbb2",
	"yellow": "#d79921", "blue": "#83a598", "pink": "#d3869b", "green": "#b9bb26",
	"aqua": "#8ec07c", "orange": "#fe8019", "red": "#fb4934", "gray": "#928374",
}

// themeJSON renders a theme object with the given colours. Slots are emitted
// in record order; entries in extra are appended as-is.
func themeJSON(colors map[string]string, extra ...string) string {
	var parts []string
	for _, name := range slotNames {
		if hex, ok := colors[name]; ok {
			parts = append(parts, fmt.Sprintf("%q: %q", name, hex))
		}
	}
	parts = append(parts, extra...)
	return "{" + strings.Join(parts, ", ") + "}"
}

// withColor returns a copy of colors with slot set to hex, or removed when
// hex is empty.
func withColor(colors map[string]string, slot, hex string) map[string]string {
	out := make(map[string]string, len(colors))
	for k, v := range colors {
		out[k] = v
	}
	if hex == "" {
		delete(out, slot)
	} else {
		out[slot] = hex
	}
	return out
}

func mustParse(t *testing.T, src string) *loader.Document {
	t.Helper()
	doc, err := loader.ParseDocument("test.json", []byte(src))
	if err != nil {
		t.Fatalf("ParseDocument(%s) error = %v", src, err)
	}
	return doc
}
