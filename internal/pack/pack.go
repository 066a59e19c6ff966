// Package pack compiles the editor's JSON configuration into the fixed-layout
// files the editor reads at runtime, and decodes those files again.
//
// Three independent packers exist, one per stage. Each validates its whole
// document before producing output and stops at the first violation.
package pack

import (
	"errors"
	"fmt"

	"github.com/dshills/wimgen/internal/config/loader"
)

// Stage identifies one packer.
type Stage string

// Packing stages in run order.
const (
	StageThemes Stage = "themes"
	StageConfig Stage = "config"
	StageSyntax Stage = "syntax"
)

// Stages returns all stages in run order.
func Stages() []Stage {
	return []Stage{StageThemes, StageConfig, StageSyntax}
}

// ParseStage returns the stage with the given name.
func ParseStage(name string) (Stage, error) {
	for _, s := range Stages() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown stage %q (want themes, config or syntax)", name)
}

// SourceFile returns the name of the stage's input document.
func (s Stage) SourceFile() string {
	return string(s) + ".json"
}

// OutputFile returns the name of the stage's packed file.
func (s Stage) OutputFile() string {
	return string(s) + FileExtension
}

// Output is the result of packing one stage.
type Output struct {
	Stage   Stage
	Data    []byte
	Records int
}

// Pack parses src as the stage's source document and packs it.
func Pack(stage Stage, src []byte) (*Output, error) {
	doc, err := loader.ParseDocument(stage.SourceFile(), src)
	if err != nil {
		return nil, ParseFailure(stage, err)
	}
	return PackDocument(stage, doc)
}

// PackDocument packs an already parsed document.
func PackDocument(stage Stage, doc *loader.Document) (*Output, error) {
	var (
		data    []byte
		records int
		err     error
	)
	switch stage {
	case StageThemes:
		data, records, err = PackThemes(doc)
	case StageConfig:
		data, records, err = PackConfig(doc)
	case StageSyntax:
		data, records, err = PackSyntax(doc)
	default:
		return nil, fmt.Errorf("unknown stage %q", stage)
	}
	if err != nil {
		return nil, err
	}
	return &Output{Stage: stage, Data: data, Records: records}, nil
}

// ParseFailure wraps a document parse error as an ErrJSONParse packing error.
func ParseFailure(stage Stage, err error) *Error {
	msg := fmt.Sprintf("failed to load %s, invalid json format", stage.SourceFile())
	var perr *loader.ParseError
	if errors.As(err, &perr) {
		switch {
		case perr.Line > 0:
			msg = fmt.Sprintf("%s (line %d, column %d)", msg, perr.Line, perr.Column)
		case perr.Message != "":
			msg = fmt.Sprintf("%s: %s", msg, perr.Message)
		}
	}
	return &Error{
		Stage:   stage,
		Kind:    ErrJSONParse,
		Message: msg,
		Err:     err,
	}
}
