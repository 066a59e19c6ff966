package pack

import (
	"bytes"
	"fmt"
)

// DecodeThemes parses a themes file back into themes.
func DecodeThemes(data []byte) ([]Theme, error) {
	if len(data)%ThemeRecordSize != 0 {
		return nil, fmt.Errorf("%w: themes file is %d bytes, not a multiple of %d",
			ErrMalformedRecord, len(data), ThemeRecordSize)
	}

	themes := make([]Theme, 0, len(data)/ThemeRecordSize)
	for off := 0; off < len(data); off += ThemeRecordSize {
		t, err := decodeTheme(data[off : off+ThemeRecordSize])
		if err != nil {
			return nil, fmt.Errorf("theme record %d: %w", off/ThemeRecordSize, err)
		}
		themes = append(themes, t)
	}
	return themes, nil
}

func decodeTheme(rec []byte) (Theme, error) {
	t := Theme{Name: unpadField(rec[:ThemeNameWidth])}
	for i := range t.Colors {
		off := ThemeNameWidth + i*ColorFieldWidth
		c, err := parseColorField(rec[off : off+ColorFieldWidth])
		if err != nil {
			return Theme{}, fmt.Errorf("slot %s: %w", ColorSlot(i), err)
		}
		t.Colors[i] = c
	}
	return t, nil
}

// LookupTheme finds the first theme whose name field matches name, the way
// the editor selects a theme at startup.
func LookupTheme(data []byte, name string) (Theme, error) {
	want := padField(name, ThemeNameWidth)
	for off := 0; off+ThemeRecordSize <= len(data); off += ThemeRecordSize {
		rec := data[off : off+ThemeRecordSize]
		if bytes.Equal(rec[:ThemeNameWidth], want) {
			return decodeTheme(rec)
		}
	}
	return Theme{}, fmt.Errorf("theme %q: %w", name, ErrNotFound)
}

// DecodeSyntax parses a syntax file back into rules.
func DecodeSyntax(data []byte) ([]SyntaxRule, error) {
	var rules []SyntaxRule
	for line := 0; len(data) > 0; line++ {
		r, n, err := decodeSyntaxRecord(data)
		if err != nil {
			return nil, fmt.Errorf("syntax record %d: %w", line, err)
		}
		rules = append(rules, r)
		data = data[n:]
	}
	return rules, nil
}

// decodeSyntaxRecord decodes the record at the start of data and returns the
// number of bytes consumed.
func decodeSyntaxRecord(data []byte) (SyntaxRule, int, error) {
	if len(data) < ExtensionWidth {
		return SyntaxRule{}, 0, fmt.Errorf("%w: truncated extension field", ErrMalformedRecord)
	}
	r := SyntaxRule{Extension: unpadField(data[:ExtensionWidth])}
	pos := ExtensionWidth

	var lists [2][]string
	for i := range lists {
		end := bytes.IndexByte(data[pos:], ListSentinel)
		if end < 0 {
			return SyntaxRule{}, 0, fmt.Errorf("%w: missing list sentinel", ErrMalformedRecord)
		}
		lists[i] = splitWords(data[pos : pos+end])
		pos += end + 1
	}
	if pos >= len(data) || data[pos] != '\n' {
		return SyntaxRule{}, 0, fmt.Errorf("%w: missing line terminator", ErrMalformedRecord)
	}

	r.Keywords, r.Types = lists[0], lists[1]
	return r, pos + 1, nil
}

// splitWords splits a list segment of NUL-terminated words.
func splitWords(seg []byte) []string {
	words := make([]string, 0)
	for len(seg) > 0 {
		i := bytes.IndexByte(seg, 0)
		if i < 0 {
			words = append(words, string(seg))
			break
		}
		words = append(words, string(seg[:i]))
		seg = seg[i+1:]
	}
	return words
}

// LookupSyntax finds the rule for ext, the way the editor loads highlighting
// for a file. The leading period must be omitted.
func LookupSyntax(data []byte, ext string) (SyntaxRule, error) {
	want := padField(ext, ExtensionWidth)
	for len(data) > 0 {
		r, n, err := decodeSyntaxRecord(data)
		if err != nil {
			return SyntaxRule{}, err
		}
		if bytes.Equal(data[:ExtensionWidth], want) {
			return r, nil
		}
		data = data[n:]
	}
	return SyntaxRule{}, fmt.Errorf("extension %q: %w", ext, ErrNotFound)
}
