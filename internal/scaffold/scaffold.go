// Package scaffold writes starter source documents for a new configuration
// directory.
package scaffold

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/dshills/wimgen/internal/pack"
)

// ErrExists indicates a starter document would overwrite an existing file.
var ErrExists = errors.New("file already exists")

// File is one generated source document.
type File struct {
	Stage pack.Stage
	Data  []byte
}

// palette is a named theme.
type palette struct {
	name   string
	colors map[pack.ColorSlot]string
}

var palettes = []palette{
	{"gruvbox", map[pack.ColorSlot]string{
		pack.SlotAqua: "#8ec07c", pack.SlotBG0: "#282828", pack.SlotBG1: "#3c3836",
		pack.SlotBG2: "#504945", pack.SlotBlue: "#83a598", pack.SlotFG0: "#ebdbb2",
		pack.SlotGray: "#928374", pack.SlotGreen: "#b9bb26", pack.SlotOrange: "#fe8019",
		pack.SlotPink: "#d3869b", pack.SlotRed: "#fb4934", pack.SlotYellow: "#d79921",
	}},
	{"dracula", map[pack.ColorSlot]string{
		pack.SlotAqua: "#8be9fd", pack.SlotBG0: "#282a36", pack.SlotBG1: "#44475a",
		pack.SlotBG2: "#6272a4", pack.SlotBlue: "#8be9fd", pack.SlotFG0: "#f8f8f2",
		pack.SlotGray: "#6272a4", pack.SlotGreen: "#50fa7b", pack.SlotOrange: "#ffb86c",
		pack.SlotPink: "#ff79c6", pack.SlotRed: "#ff5555", pack.SlotYellow: "#f1fa8c",
	}},
}

var editorDefaults = pack.EditorConfig{
	SyntaxEnabled: true,
	MatchParen:    true,
	UseCRLF:       false,
	TabSize:       4,
}

type language struct {
	extensions []string
	keywords   []string
	types      []string
}

var languages = []language{
	{
		extensions: []string{"c", "h"},
		keywords: []string{
			"auto", "break", "case", "continue", "default", "do", "else", "enum",
			"extern", "for", "goto", "if", "register", "return", "sizeof", "static",
			"struct", "switch", "typedef", "union", "volatile", "while", "NULL",
			"true", "false",
		},
		types: []string{
			"int", "long", "double", "float", "char", "unsigned", "signed", "void",
			"short", "auto", "const", "bool",
		},
	},
	{
		extensions: []string{"py"},
		keywords: []string{
			"False", "await", "else", "import", "pass", "True", "class", "finally",
			"is", "return", "and", "continue", "for", "lambda", "try", "as", "def",
			"from", "nonlocal", "while", "assert", "del", "global", "not", "with",
			"async", "elif", "if", "or", "yield", "break", "except", "in", "raise",
		},
		types: []string{
			"int", "float", "str", "dict", "list", "None", "bool", "complex",
			"tuple", "range", "set", "bytes",
		},
	},
}

var prettyOptions = &pretty.Options{Width: 80, Prefix: "", Indent: "  "}

// Documents returns the starter documents in stage order. Each document is
// checked to pack cleanly.
func Documents() ([]File, error) {
	builders := []struct {
		stage pack.Stage
		build func() ([]byte, error)
	}{
		{pack.StageThemes, themesDocument},
		{pack.StageConfig, configDocument},
		{pack.StageSyntax, syntaxDocument},
	}

	files := make([]File, 0, len(builders))
	for _, b := range builders {
		raw, err := b.build()
		if err != nil {
			return nil, fmt.Errorf("building %s: %w", b.stage.SourceFile(), err)
		}
		data := pretty.PrettyOptions(raw, prettyOptions)
		if _, err := pack.Pack(b.stage, data); err != nil {
			return nil, fmt.Errorf("starter %s does not pack: %w", b.stage.SourceFile(), err)
		}
		files = append(files, File{Stage: b.stage, Data: data})
	}
	return files, nil
}

func themesDocument() ([]byte, error) {
	doc := []byte("{}")
	var err error
	for _, p := range palettes {
		for _, slot := range pack.ColorSlots() {
			doc, err = sjson.SetBytes(doc, escapeKey(p.name)+"."+slot.String(), p.colors[slot])
			if err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

func configDocument() ([]byte, error) {
	values := []any{
		editorDefaults.SyntaxEnabled,
		editorDefaults.MatchParen,
		editorDefaults.UseCRLF,
		editorDefaults.TabSize,
	}

	doc := []byte("{}")
	var err error
	for i, name := range pack.ConfigFieldNames() {
		if doc, err = sjson.SetBytes(doc, name, values[i]); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func syntaxDocument() ([]byte, error) {
	doc := []byte("{}")
	var err error
	for _, lang := range languages {
		key := escapeKey(strings.Join(lang.extensions, pack.ExtensionSeparator))
		if doc, err = sjson.SetBytes(doc, key+".keywords", lang.keywords); err != nil {
			return nil, err
		}
		if doc, err = sjson.SetBytes(doc, key+".types", lang.types); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// escapeKey escapes characters with special meaning in sjson paths.
func escapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Write writes the starter documents into dir, creating it if needed, and
// returns the written paths. Unless force is set, nothing is written when any
// target already exists.
func Write(dir string, force bool) ([]string, error) {
	files, err := Documents()
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = filepath.Join(dir, f.Stage.SourceFile())
		if force {
			continue
		}
		if _, err := os.Stat(paths[i]); err == nil {
			return nil, fmt.Errorf("%s: %w (use --force to overwrite)", paths[i], ErrExists)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	for i, f := range files {
		if err := os.WriteFile(paths[i], f.Data, 0o644); err != nil {
			return paths[:i], err
		}
	}
	return paths, nil
}
