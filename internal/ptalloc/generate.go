package ptalloc

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"go.uber.org/zap"

	fxterrors "github.com/colony-core/foxtail/internal/errors"
	"github.com/colony-core/foxtail/internal/logging"
	fxtstrings "github.com/colony-core/foxtail/internal/util/strings"
)

// Options configures point identifier generation. Zero fields take the
// package defaults.
type Options struct {
	PkgRoot     string
	SrcRoot     string
	Macro       string
	Exclude     string
	BeginMarker string
	EndMarker   string
	Prefix      string
	Clean       bool // empty the generated block instead of filling it
}

func (o Options) withDefaults() Options {
	if o.PkgRoot == "" {
		o.PkgRoot = "."
	}
	if o.SrcRoot == "" {
		o.SrcRoot = DefaultSrcRoot
	}
	if o.Macro == "" {
		o.Macro = DefaultMacro
	}
	if o.Exclude == "" {
		o.Exclude = DefaultExclude
	}
	if o.BeginMarker == "" {
		o.BeginMarker = DefaultBeginMarker
	}
	if o.EndMarker == "" {
		o.EndMarker = DefaultEndMarker
	}
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	return o
}

// TypeGroup is the points sharing one point type
type TypeGroup struct {
	Type   string
	Points []Point
}

// GroupByType groups points by type, types in first-seen order
func GroupByType(points []Point) []TypeGroup {
	byType := orderedmap.New[string, []Point]()
	for _, pt := range points {
		group, _ := byType.Get(pt.Type)
		byType.Set(pt.Type, append(group, pt))
	}

	groups := make([]TypeGroup, 0, byType.Len())
	for pair := byType.Oldest(); pair != nil; pair = pair.Next() {
		groups = append(groups, TypeGroup{Type: pair.Key, Points: pair.Value})
	}
	return groups
}

// Render produces the identifier block: one '#define' per point grouped by
// type, then the total point count.
func Render(points []Point, prefix string) ([]byte, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	seen := make(map[string]Point, len(points))
	width := len(prefix + "TOTAL_NUM_PTS")
	for _, pt := range points {
		name := prefix + fxtstrings.ToMacroName(pt.Name)
		if prev, ok := seen[name]; ok {
			e := fxterrors.New(fxterrors.PhaseCodegen, fxterrors.ErrMacroCollision,
				fmt.Sprintf("#define %s generated for both '%s' (%s) and '%s' (%s)",
					name, prev.Name, prev.File, pt.Name, pt.File))
			e.Symbol = name
			return nil, e
		}
		seen[name] = pt
		width = max(width, len(name))
	}

	var buf bytes.Buffer
	for _, group := range GroupByType(points) {
		fmt.Fprintf(&buf, "\n// %s\n", group.Type)
		for _, pt := range group.Points {
			fmt.Fprintf(&buf, "#define %-*s  %d\n", width, prefix+fxtstrings.ToMacroName(pt.Name), pt.Index)
		}
	}
	fmt.Fprintf(&buf, "\n#define %-*s  %d\n\n", width, prefix+"TOTAL_NUM_PTS", len(points))
	return buf.Bytes(), nil
}

// Splice replaces everything between the line containing begin and the line
// containing end with generated. Both marker lines are kept.
func Splice(content, generated []byte, begin, end string) ([]byte, error) {
	lines := bytes.SplitAfter(content, []byte("\n"))
	var out bytes.Buffer
	out.Grow(len(content) + len(generated))

	state := 0 // 0: before begin, 1: inside block, 2: after end
	for _, line := range lines {
		switch state {
		case 0:
			out.Write(line)
			if bytes.Contains(line, []byte(begin)) {
				if !bytes.HasSuffix(line, []byte("\n")) {
					out.WriteString("\n")
				}
				out.Write(generated)
				state = 1
			}
		case 1:
			if bytes.Contains(line, []byte(end)) {
				out.Write(line)
				state = 2
			}
		default:
			out.Write(line)
		}
	}

	switch state {
	case 0:
		return nil, missingMarker(begin)
	case 1:
		return nil, missingMarker(end)
	}
	return out.Bytes(), nil
}

func missingMarker(marker string) *fxterrors.ConvertError {
	e := fxterrors.New(fxterrors.PhaseCodegen, fxterrors.ErrMissingMarker,
		fmt.Sprintf("Auto-generation marker not found: %s", marker))
	e.Symbol = marker
	return e
}

// Result summarises one Generate run
type Result struct {
	Points  []Point
	Groups  []TypeGroup
	Changed bool
}

// Generate regenerates the identifier block of allocHeader in place. The
// file is only replaced when its content changes.
func Generate(allocHeader string, opts Options, logger *zap.Logger) (*Result, error) {
	opts = opts.withDefaults()
	logger = logging.OrNop(logger)

	var (
		points    []Point
		generated []byte
	)
	if !opts.Clean {
		var err error
		if points, err = Collect(allocHeader, opts, logger); err != nil {
			return nil, err
		}
		if generated, err = Render(points, opts.Prefix); err != nil {
			return nil, err
		}
	}

	content, err := os.ReadFile(allocHeader)
	if err != nil {
		return nil, fxterrors.IO(fxterrors.ErrUnreadableInput, allocHeader, err)
	}
	updated, err := Splice(content, generated, opts.BeginMarker, opts.EndMarker)
	if err != nil {
		if ce, ok := fxterrors.AsConvertError(err); ok {
			ce.Path = allocHeader
		}
		return nil, err
	}

	result := &Result{Points: points, Groups: GroupByType(points)}
	if bytes.Equal(content, updated) {
		logger.Info("Allocation header is up to date", zap.String("file", allocHeader))
		return result, nil
	}
	if err := replaceFile(allocHeader, updated); err != nil {
		return nil, err
	}
	result.Changed = true
	logger.Info("Updated allocation header", zap.String("file", allocHeader), zap.Int("points", len(points)))
	return result, nil
}

// replaceFile writes data next to path and renames it over path
func replaceFile(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fxterrors.IO(fxterrors.ErrWriteFailed, path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fxterrors.IO(fxterrors.ErrWriteFailed, path, err)
	}
	if err := tmp.Close(); err != nil {
		return fxterrors.IO(fxterrors.ErrWriteFailed, path, err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fxterrors.IO(fxterrors.ErrWriteFailed, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fxterrors.IO(fxterrors.ErrWriteFailed, path, err)
	}
	return nil
}
