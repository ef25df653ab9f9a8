// Package convert runs the full Node file conversion: point ID assignment,
// reference resolution, optional GUID substitution and field stripping, and
// the optional '#define' header. Nothing is written unless every pass
// succeeds.
package convert

import (
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/colony-core/foxtail/internal/codegen"
	"github.com/colony-core/foxtail/internal/linker"
	"github.com/colony-core/foxtail/internal/logging"
	"github.com/colony-core/foxtail/internal/node"
	"github.com/colony-core/foxtail/internal/typedict"
)

// Options configures one conversion
type Options struct {
	Input  string // Node file to convert
	Output string // converted file; DefaultOutput(Input) when empty

	Pretty bool // indent the converted JSON
	Strip  bool // remove fields the firmware does not use

	HeaderFile string // '#define' header to generate, none when empty
	Prefix     string // header macro prefix

	DictionaryFile string               // type dictionary to load when Dictionary is nil
	Dictionary     *typedict.Dictionary // enables GUID substitution when set

	DryRun bool // run every pass but write nothing
}

// Result describes a completed conversion
type Result struct {
	Output   string
	Document *node.Document
	Table    *linker.Table
	JSON     []byte
	Header   []byte
	Typed    int // objects given a 'type' GUID
	Stripped int // fields removed
	Duration time.Duration
}

// DefaultOutput derives the converted file name from the input file name:
// "node.json" becomes "node.id.json".
func DefaultOutput(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".id" + ext
}

// Run loads opts.Input, converts it and writes the results
func Run(opts Options, logger *zap.Logger) (*Result, error) {
	start := time.Now()
	logger = logging.OrNop(logger)

	doc, err := node.Load(opts.Input)
	if err != nil {
		return nil, err
	}

	if opts.Dictionary == nil && opts.DictionaryFile != "" {
		if opts.Dictionary, err = typedict.Load(opts.DictionaryFile); err != nil {
			return nil, err
		}
	}

	result, err := Transform(doc, opts, logger)
	if err != nil {
		return nil, err
	}

	result.Output = opts.Output
	if result.Output == "" {
		result.Output = DefaultOutput(opts.Input)
	}

	if !opts.DryRun {
		if err := node.WriteFile(result.Output, result.JSON); err != nil {
			return nil, err
		}
		logger.Info("Wrote converted node file", zap.String("file", result.Output))

		if opts.HeaderFile != "" {
			if err := node.WriteFile(opts.HeaderFile, result.Header); err != nil {
				return nil, err
			}
			logger.Info("Wrote point header", zap.String("file", opts.HeaderFile))
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// Transform applies every conversion pass to doc in memory and renders the
// outputs. doc is modified in place.
func Transform(doc *node.Document, opts Options, logger *zap.Logger) (*Result, error) {
	logger = logging.OrNop(logger)

	table, err := linker.Assign(doc, logger)
	if err != nil {
		return nil, err
	}
	if err := linker.Resolve(doc, table, logger); err != nil {
		return nil, err
	}

	result := &Result{Document: doc, Table: table}

	if opts.Dictionary != nil {
		if result.Typed, err = typedict.Substitute(doc, opts.Dictionary, logger); err != nil {
			return nil, err
		}
	}

	if opts.Strip {
		result.Stripped = node.Strip(doc)
	}

	if opts.HeaderFile != "" {
		result.Header, err = codegen.RenderHeader(table, codegen.HeaderOptions{
			Prefix: opts.Prefix,
			Source: filepath.Base(opts.Input),
		})
		if err != nil {
			return nil, err
		}
	}

	result.JSON = doc.Marshal(opts.Pretty)
	logger.Info("Converted node",
		zap.Int("slots", table.Len()),
		zap.Int("named", table.NamedCount()),
		zap.Int("typed", result.Typed),
		zap.Int("stripped", result.Stripped))
	return result, nil
}
