package pack

import (
	"bytes"
	"strings"

	"github.com/rivo/uniseg"
)

// Record layout of the files read by the editor at runtime.
const (
	// ThemeNameWidth is the width of the NUL-padded theme name field.
	ThemeNameWidth = 32

	// ColorFieldWidth is the width of one packed colour: "RRR;GGG;BBB" + NUL.
	ColorFieldWidth = 12

	// ThemeRecordSize is the size of one theme record.
	ThemeRecordSize = ThemeNameWidth + NumColorSlots*ColorFieldWidth

	// ConfigRecordSize is the size of the editor config record.
	ConfigRecordSize = 4

	// ExtensionWidth is the width of the NUL-padded extension field of a
	// syntax record.
	ExtensionWidth = 16

	// ListSentinel terminates the keyword and type lists of a syntax record.
	ListSentinel = '?'

	// ChannelSeparator joins the decimal channels of a packed colour.
	ChannelSeparator = ';'
)

// Output file extension.
const FileExtension = ".wim"

// padField truncates s to at most width bytes without splitting a grapheme
// cluster and pads the remainder with NUL bytes.
func padField(s string, width int) []byte {
	field := make([]byte, width)
	copy(field, truncate(s, width))
	return field
}

// truncate returns the longest prefix of s that is at most width bytes and
// ends on a grapheme cluster boundary.
func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}

	n := 0
	rest := s
	state := -1
	var cluster string
	for len(rest) > 0 {
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if n+len(cluster) > width {
			break
		}
		n += len(cluster)
	}
	return s[:n]
}

// unpadField returns the field contents up to the first NUL byte.
func unpadField(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return string(field)
}

// forbiddenListChars are the bytes that would break syntax record framing.
const forbiddenListChars = "\x00\n" + string(ListSentinel)

func hasForbiddenChar(s string) bool {
	return strings.ContainsAny(s, forbiddenListChars)
}
