package pack

import (
	"errors"
	"reflect"
	"testing"
)

func TestThemesRoundTrip(t *testing.T) {
	src := `{"gruvbox": ` + themeJSON(gruvbox) + `, "short": ` + themeJSON(withColor(gruvbox, "pink", "#f0c")) + `}`
	doc := mustParse(t, src)

	want, err := ParseThemes(doc)
	if err != nil {
		t.Fatalf("ParseThemes error = %v", err)
	}
	data, _, err := PackThemes(doc)
	if err != nil {
		t.Fatalf("PackThemes error = %v", err)
	}

	got, err := DecodeThemes(data)
	if err != nil {
		t.Fatalf("DecodeThemes error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeThemes = %+v, want %+v", got, want)
	}
	if got[1].Color(SlotPink).Hex() != "#ff00cc" {
		t.Errorf("pink = %s", got[1].Color(SlotPink).Hex())
	}
}

func TestDecodeThemesMalformed(t *testing.T) {
	if _, err := DecodeThemes(make([]byte, ThemeRecordSize-1)); !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("short record error = %v", err)
	}
	if _, err := DecodeThemes(make([]byte, ThemeRecordSize)); !errors.Is(err, ErrMalformedRecord) {
		t.Errorf("zero record error = %v", err)
	}
}

func TestLookupTheme(t *testing.T) {
	src := `{"gruvbox": ` + themeJSON(gruvbox) + `, "red": ` + themeJSON(withColor(gruvbox, "bg0", "#ff0000")) + `}`
	data, _, err := PackThemes(mustParse(t, src))
	if err != nil {
		t.Fatalf("PackThemes error = %v", err)
	}

	theme, err := LookupTheme(data, "red")
	if err != nil {
		t.Fatalf("LookupTheme error = %v", err)
	}
	if theme.Name != "red" || theme.Color(SlotBG0) != (RGB{R: 255}) {
		t.Errorf("LookupTheme = %+v", theme)
	}

	// A prefix of a stored name does not match.
	if _, err := LookupTheme(data, "gruv"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LookupTheme(gruv) error = %v, want ErrNotFound", err)
	}
}

func TestSyntaxRoundTrip(t *testing.T) {
	doc := mustParse(t, `{
		"c/h": {"keywords": ["if", "else", "while"], "types": ["int", "char"]},
		"py":  {"keywords": ["def"], "types": []},
		"txt": {"keywords": [], "types": []}
	}`)

	want, err := ParseSyntax(doc)
	if err != nil {
		t.Fatalf("ParseSyntax error = %v", err)
	}
	got, err := DecodeSyntax(EncodeSyntax(want))
	if err != nil {
		t.Fatalf("DecodeSyntax error = %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DecodeSyntax = %+v, want %+v", got, want)
	}
}

func TestDecodeSyntaxMalformed(t *testing.T) {
	tests := map[string][]byte{
		"short extension": []byte("py"),
		"no sentinel":     append(padField("py", ExtensionWidth), "def\x00"...),
		"one sentinel":    append(padField("py", ExtensionWidth), "def\x00?int\x00"...),
		"no newline":      append(padField("py", ExtensionWidth), "def\x00?int\x00?"...),
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeSyntax(data); !errors.Is(err, ErrMalformedRecord) {
				t.Errorf("DecodeSyntax error = %v, want ErrMalformedRecord", err)
			}
		})
	}
}

func TestLookupSyntax(t *testing.T) {
	data, _, err := PackSyntax(mustParse(t, `{
		"c/h": {"keywords": ["if"], "types": ["int"]},
		"py":  {"keywords": ["def", "return"], "types": ["str"]}
	}`))
	if err != nil {
		t.Fatalf("PackSyntax error = %v", err)
	}

	rule, err := LookupSyntax(data, "py")
	if err != nil {
		t.Fatalf("LookupSyntax error = %v", err)
	}
	want := SyntaxRule{Extension: "py", Keywords: []string{"def", "return"}, Types: []string{"str"}}
	if !reflect.DeepEqual(rule, want) {
		t.Errorf("LookupSyntax = %+v, want %+v", rule, want)
	}

	if rule, err := LookupSyntax(data, "h"); err != nil || rule.Keywords[0] != "if" {
		t.Errorf("LookupSyntax(h) = %+v, %v", rule, err)
	}
	if _, err := LookupSyntax(data, "go"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LookupSyntax(go) error = %v, want ErrNotFound", err)
	}
}
