// Package ptalloc regenerates the point identifier block of a point
// allocation header. Points are declared with FXT_POINT_DEFINE( name type )
// in the headers the allocation header includes and in the allocation header
// itself; every point gets a sequential FXT_PTID_<NAME> identifier.
package ptalloc

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	fxterrors "github.com/colony-core/foxtail/internal/errors"
	"github.com/colony-core/foxtail/internal/logging"
)

// Defaults matching the Colony.Core source tree
const (
	DefaultMacro       = "FXT_POINT_DEFINE"
	DefaultExclude     = "Fxt/Point/AutoGen.h"
	DefaultBeginMarker = "MARKER_FXT_BEGIN_AUTO_GENERATION"
	DefaultEndMarker   = "MARKER_FXT_END_AUTO_GENERATION"
	DefaultSrcRoot     = "src"
	DefaultPrefix      = "FXT_PTID_"
)

var includePattern = regexp.MustCompile(`^\s*#\s*include\s+"([^"]+)"`)

// Point is one FXT_POINT_DEFINE declaration
type Point struct {
	Name  string
	Type  string
	Index int
	File  string
}

// Includes returns the quoted includes of headerFile that live in a
// directory (e.g. "Fxt/Point/Bool.h" but not "colony_config.h"), in file
// order, minus exclude.
func Includes(headerFile, exclude string) ([]string, error) {
	f, err := os.Open(headerFile)
	if err != nil {
		return nil, fxterrors.IO(fxterrors.ErrUnreadableInput, headerFile, err)
	}
	defer f.Close()

	exclude = normalize(exclude)
	var includes []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		m := includePattern.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		inc := normalize(m[1])
		if strings.Contains(inc, "/") && inc != exclude {
			includes = append(includes, inc)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fxterrors.IO(fxterrors.ErrUnreadableInput, headerFile, err)
	}
	return includes, nil
}

func normalize(p string) string {
	if p == "" {
		return ""
	}
	return path.Clean(strings.ReplaceAll(p, `\`, "/"))
}

// pointScanner finds point declarations for one macro name
type pointScanner struct {
	pattern *regexp.Regexp
	next    int
	logger  *zap.Logger
}

func newPointScanner(macro string, logger *zap.Logger) *pointScanner {
	return &pointScanner{
		pattern: regexp.MustCompile(regexp.QuoteMeta(macro) + `\s*\(\s*([^\s(),]+)\s*,?\s*([^\s(),]+)\s*\)`),
		logger:  logger,
	}
}

// scan appends the declarations found in file. Macro definitions and line
// comments are skipped.
func (s *pointScanner) scan(file string, points []Point) ([]Point, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fxterrors.IO(fxterrors.ErrUnreadableInput, file, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "//") || strings.HasPrefix(line, "#") {
			continue
		}
		m := s.pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		pt := Point{Name: m[1], Type: m[2], Index: s.next, File: file}
		s.next++
		s.logger.Debug("Found point", zap.String("name", pt.Name), zap.String("type", pt.Type),
			zap.Int("index", pt.Index))
		points = append(points, pt)
	}
	if err := scanner.Err(); err != nil {
		return nil, fxterrors.IO(fxterrors.ErrUnreadableInput, file, err)
	}
	return points, nil
}

// Collect gathers the points declared by the allocation header's includes
// (resolved under <PkgRoot>/<SrcRoot>) followed by those declared in the
// allocation header itself. Indices are assigned in that order.
func Collect(allocHeader string, opts Options, logger *zap.Logger) ([]Point, error) {
	opts = opts.withDefaults()
	logger = logging.OrNop(logger)

	includes, err := Includes(allocHeader, opts.Exclude)
	if err != nil {
		return nil, err
	}

	s := newPointScanner(opts.Macro, logger)
	var points []Point
	for _, inc := range includes {
		file := filepath.Join(opts.PkgRoot, opts.SrcRoot, filepath.FromSlash(inc))
		logger.Info("Scanning header", zap.String("file", file))
		if points, err = s.scan(file, points); err != nil {
			return nil, fmt.Errorf("included from %s: %w", allocHeader, err)
		}
	}
	logger.Info("Scanning allocation header", zap.String("file", allocHeader))
	return s.scan(allocHeader, points)
}
