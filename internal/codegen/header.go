// Package codegen renders the C preprocessor headers consumed by the
// firmware build.
package codegen

import (
	"bytes"
	"fmt"

	fxterrors "github.com/colony-core/foxtail/internal/errors"
	"github.com/colony-core/foxtail/internal/linker"
	fxtstrings "github.com/colony-core/foxtail/internal/util/strings"
)

// DefaultPrefix is prepended to every point symbol
const DefaultPrefix = "FXT_PT_"

const (
	totalSlots = "TOTAL_NUM_PTS"
	totalNamed = "TOTAL_NAMED_PTS"
)

// HeaderOptions configures header generation
type HeaderOptions struct {
	Prefix string // macro prefix, DefaultPrefix when empty
	Source string // input file name recorded in the banner
}

// Define is one emitted '#define'
type Define struct {
	Name   string
	Value  int
	Symbol string
}

// PointDefines maps every named slot to a '#define' of its numeric ID. Two
// symbols producing the same macro name are rejected.
func PointDefines(table *linker.Table, prefix string) ([]Define, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	defines := make([]Define, 0, table.NamedCount())
	owners := map[string]Define{
		prefix + totalSlots: {Name: prefix + totalSlots, Value: -1, Symbol: "<total slot count>"},
		prefix + totalNamed: {Name: prefix + totalNamed, Value: -1, Symbol: "<named point count>"},
	}
	for _, slot := range table.Slots() {
		if !slot.Named() {
			continue
		}
		d := Define{
			Name:   prefix + fxtstrings.ToMacroName(slot.Name),
			Value:  slot.ID,
			Symbol: slot.Name,
		}
		if prev, ok := owners[d.Name]; ok {
			return nil, macroCollision(d, prev)
		}
		owners[d.Name] = d
		defines = append(defines, d)
	}
	return defines, nil
}

func macroCollision(d, prev Define) *fxterrors.ConvertError {
	msg := fmt.Sprintf("#define %s generated for both '%s' (id %d) and '%s' (id %d)",
		d.Name, prev.Symbol, prev.Value, d.Symbol, d.Value)
	switch {
	case prev.Value < 0:
		msg = fmt.Sprintf("#define %s for point '%s' (id %d) clashes with the %s summary macro",
			d.Name, d.Symbol, d.Value, prev.Symbol)
	case d.Symbol == prev.Symbol:
		msg = fmt.Sprintf("#define %s generated twice: point '%s' is defined at id %d and id %d",
			d.Name, d.Symbol, prev.Value, d.Value)
	}
	e := fxterrors.New(fxterrors.PhaseCodegen, fxterrors.ErrMacroCollision, msg)
	e.Symbol = d.Name
	return e
}

// RenderHeader renders one '#define' per named point, followed by the total
// slot count and the named point count.
func RenderHeader(table *linker.Table, opts HeaderOptions) ([]byte, error) {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	defines, err := PointDefines(table, prefix)
	if err != nil {
		return nil, err
	}

	g := &generator{}
	g.banner(opts.Source)
	width := 0
	for _, d := range defines {
		width = max(width, len(d.Name))
	}
	for _, d := range defines {
		g.printf("#define %-*s    %d\n", width, d.Name, d.Value)
	}
	g.printf("\n")
	g.printf("#define %s%s      %d\n", prefix, totalSlots, table.Len())
	g.printf("#define %s%s    %d\n", prefix, totalNamed, len(defines))

	return g.buf.Bytes(), nil
}

// generator accumulates generated C text
type generator struct {
	buf bytes.Buffer
}

func (g *generator) printf(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
}

func (g *generator) banner(source string) {
	g.printf("/* Generated by foxtail. DO NOT EDIT.")
	if source != "" {
		g.printf(" Source: %s", source)
	}
	g.printf(" */\n\n")
}
