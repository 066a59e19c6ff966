// Package inspect renders packed runtime files in human-readable form.
package inspect

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/dshills/wimgen/internal/pack"
)

// StageForFile infers the stage from a packed file name such as
// "themes.wim".
func StageForFile(path string) (pack.Stage, error) {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, pack.FileExtension)
	if name == base {
		return "", fmt.Errorf("%s: not a %s file", path, pack.FileExtension)
	}
	return pack.ParseStage(name)
}

// Printer renders decoded records.
type Printer struct {
	w        io.Writer
	r        *lipgloss.Renderer
	heading  lipgloss.Style
	label    lipgloss.Style
	muted    lipgloss.Style
	swatchOn bool

	themeName string
	extension string
}

// NewPrinter creates a printer writing to w. Swatch colours are emitted only
// when w is a terminal that supports them.
func NewPrinter(w io.Writer) *Printer {
	r := lipgloss.NewRenderer(w)
	return &Printer{
		w:        w,
		r:        r,
		heading:  r.NewStyle().Bold(true),
		label:    r.NewStyle().Width(8),
		muted:    r.NewStyle().Faint(true),
		swatchOn: true,
	}
}

// WithSwatches enables or disables colour swatches.
func (p *Printer) WithSwatches(on bool) *Printer {
	p.swatchOn = on
	return p
}

// WithTheme limits themes files to the theme called name, looked up the way
// the editor selects its theme.
func (p *Printer) WithTheme(name string) *Printer {
	p.themeName = name
	return p
}

// WithExtension limits syntax files to the rule for ext. A leading period is
// ignored.
func (p *Printer) WithExtension(ext string) *Printer {
	p.extension = strings.TrimPrefix(ext, ".")
	return p
}

// File decodes and renders the packed file at path.
func (p *Printer) File(path string) error {
	stage, err := StageForFile(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	fmt.Fprintln(p.w, p.heading.Render(path))
	return p.Render(stage, data)
}

// Render decodes data as the stage's packed format and writes it out.
func (p *Printer) Render(stage pack.Stage, data []byte) error {
	var (
		records int
		err     error
	)
	switch {
	case stage == pack.StageThemes && p.themeName != "":
		records, err = p.lookupTheme(data)
	case stage == pack.StageThemes:
		records, err = p.themes(data)
	case stage == pack.StageConfig:
		records, err = p.config(data)
	case stage == pack.StageSyntax && p.extension != "":
		records, err = p.lookupSyntax(data)
	case stage == pack.StageSyntax:
		records, err = p.syntax(data)
	default:
		err = fmt.Errorf("unknown stage %q", stage)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(p.w, p.muted.Render(fmt.Sprintf("%s, %s",
		plural(records, "record"), humanize.Bytes(uint64(len(data))))))
	return nil
}

func (p *Printer) themes(data []byte) (int, error) {
	themes, err := pack.DecodeThemes(data)
	if err != nil {
		return 0, err
	}
	for _, t := range themes {
		p.theme(t)
	}
	return len(themes), nil
}

func (p *Printer) lookupTheme(data []byte) (int, error) {
	t, err := pack.LookupTheme(data, p.themeName)
	if err != nil {
		return 0, err
	}
	p.theme(t)
	return 1, nil
}

func (p *Printer) theme(t pack.Theme) {
	fmt.Fprintln(p.w, p.heading.Render("theme "+t.Name))
	for _, slot := range pack.ColorSlots() {
		c := t.Color(slot)
		line := fmt.Sprintf("  %s %s  %s", p.label.Render(slot.String()), c.Hex(), c.Triplet())
		if p.swatchOn {
			line += "  " + p.r.NewStyle().Background(lipgloss.Color(c.Hex())).Render("    ")
		}
		fmt.Fprintln(p.w, line)
	}
}

func (p *Printer) config(data []byte) (int, error) {
	cfg, err := pack.DecodeConfig(data)
	if err != nil {
		return 0, err
	}
	values := []any{cfg.SyntaxEnabled, cfg.MatchParen, cfg.UseCRLF, cfg.TabSize}
	for i, name := range pack.ConfigFieldNames() {
		fmt.Fprintf(p.w, "  %s %v\n", p.r.NewStyle().Width(14).Render(name), values[i])
	}
	return 1, nil
}

func (p *Printer) syntax(data []byte) (int, error) {
	rules, err := pack.DecodeSyntax(data)
	if err != nil {
		return 0, err
	}
	for _, r := range rules {
		p.rule(r)
	}
	return len(rules), nil
}

func (p *Printer) lookupSyntax(data []byte) (int, error) {
	r, err := pack.LookupSyntax(data, p.extension)
	if err != nil {
		return 0, err
	}
	p.rule(r)
	return 1, nil
}

func (p *Printer) rule(r pack.SyntaxRule) {
	fmt.Fprintln(p.w, p.heading.Render("."+r.Extension))
	fmt.Fprintf(p.w, "  %s %s\n", p.label.Render("keywords"), joinWords(r.Keywords))
	fmt.Fprintf(p.w, "  %s %s\n", p.label.Render("types"), joinWords(r.Types))
}

func joinWords(words []string) string {
	if len(words) == 0 {
		return "-"
	}
	return strings.Join(words, " ")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
