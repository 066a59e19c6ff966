package pack

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestStages(t *testing.T) {
	stages := Stages()
	want := []Stage{StageThemes, StageConfig, StageSyntax}
	if len(stages) != len(want) {
		t.Fatalf("Stages() = %v", stages)
	}
	for i := range want {
		if stages[i] != want[i] {
			t.Errorf("Stages()[%d] = %q, want %q", i, stages[i], want[i])
		}
	}

	if got := StageThemes.SourceFile(); got != "themes.json" {
		t.Errorf("SourceFile() = %q", got)
	}
	if got := StageSyntax.OutputFile(); got != "syntax.wim" {
		t.Errorf("OutputFile() = %q", got)
	}
}

func TestParseStage(t *testing.T) {
	s, err := ParseStage("config")
	if err != nil || s != StageConfig {
		t.Errorf("ParseStage(config) = %q, %v", s, err)
	}
	if _, err := ParseStage("keymap"); err == nil {
		t.Error("ParseStage(keymap) should fail")
	}
}

func TestPackInvalidJSON(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"truncated", `{"py": {"keywords": [`},
		{"trailing comma", `{"a": 1,}`},
		{"empty", ``},
		{"array root", `[1, 2]`},
		{"string root", `"themes"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, stage := range Stages() {
				out, err := Pack(stage, []byte(tt.src))
				if out != nil {
					t.Errorf("%s: output on error", stage)
				}
				if !errors.Is(err, ErrJSONParse) {
					t.Fatalf("%s: error = %v, want ErrJSONParse", stage, err)
				}
				prefix := "failed to load " + stage.SourceFile() + ", invalid json format"
				if !strings.HasPrefix(err.Error(), prefix) {
					t.Errorf("%s: Error() = %q, want prefix %q", stage, err.Error(), prefix)
				}
			}
		})
	}
}

func TestPack(t *testing.T) {
	out, err := Pack(StageConfig, []byte(`{"syntaxEnabled": true, "matchParen": true, "useCRLF": false, "tabSize": 2}`))
	if err != nil {
		t.Fatalf("Pack error = %v", err)
	}
	if out.Stage != StageConfig || out.Records != 1 {
		t.Errorf("Output = %+v", out)
	}
	if !bytes.Equal(out.Data, []byte{1, 1, 0, 2}) {
		t.Errorf("Data = %v", out.Data)
	}

	if _, err := PackDocument(Stage("keymap"), mustParse(t, `{}`)); err == nil {
		t.Error("PackDocument with unknown stage should fail")
	}
}

func TestPackIdempotent(t *testing.T) {
	inputs := map[Stage]string{
		StageThemes: `{"gruvbox": ` + themeJSON(gruvbox) + `, "short": ` + themeJSON(withColor(gruvbox, "bg0", "#123")) + `}`,
		StageConfig: `{"syntaxEnabled": true, "matchParen": false, "useCRLF": false, "tabSize": 4}`,
		StageSyntax: `{"c/h": {"keywords": ["if"], "types": ["int"]}, "py": {"keywords": ["def"], "types": []}}`,
	}

	for stage, src := range inputs {
		first, err := Pack(stage, []byte(src))
		if err != nil {
			t.Fatalf("%s: Pack error = %v", stage, err)
		}
		second, err := Pack(stage, []byte(src))
		if err != nil {
			t.Fatalf("%s: Pack error = %v", stage, err)
		}
		if !bytes.Equal(first.Data, second.Data) {
			t.Errorf("%s: output differs between runs", stage)
		}
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &Error{Stage: StageThemes, Kind: ErrInvalidColor, Message: "bad", Err: cause}
	if !errors.Is(err, ErrInvalidColor) || !errors.Is(err, cause) {
		t.Error("Error should unwrap to its kind and cause")
	}
	if errors.Is(err, ErrSchema) {
		t.Error("Error should not match other kinds")
	}
	if err.Error() != "bad" {
		t.Errorf("Error() = %q", err.Error())
	}
}
