package typedict

import (
	"bufio"
	"fmt"
	"os"
	"regexp"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/colony-core/foxtail/internal/logging"
	"github.com/colony-core/foxtail/internal/utils"
)

// DefaultPattern selects the files scanned for type declarations
const DefaultPattern = "*.h"

var (
	guidPattern = regexp.MustCompile(`\bGUID_STRING\s*=\s*"([^"]*)"`)
	typePattern = regexp.MustCompile(`\bTYPE_NAME\s*=\s*"([^"]*)"`)
)

// Declaration is a type name / GUID pair found in a header file
type Declaration struct {
	TypeName string
	GUID     string
	File     string
}

// ScanFile extracts the GUID_STRING and TYPE_NAME string literals declared
// in a header. The two may appear in any order; for each, the last match in
// the file wins. guidFound and typeFound report which were present.
func ScanFile(path string) (decl Declaration, guidFound, typeFound bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return Declaration{}, false, false, err
	}
	defer f.Close()

	decl.File = path
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if m := guidPattern.FindStringSubmatch(line); m != nil {
			decl.GUID = m[1]
			guidFound = true
		}
		if m := typePattern.FindStringSubmatch(line); m != nil {
			decl.TypeName = m[1]
			typeFound = true
		}
	}
	if err := scanner.Err(); err != nil {
		return Declaration{}, false, false, fmt.Errorf("failed to scan %s: %w", path, err)
	}
	return decl, guidFound, typeFound, nil
}

// ScanTree scans every file under root matching pattern, in lexical order.
func ScanTree(root, pattern string, logger *zap.Logger) ([]Declaration, error) {
	logger = logging.OrNop(logger)
	if pattern == "" {
		pattern = DefaultPattern
	}

	files, err := utils.FindFiles(root, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search %s: %w", root, err)
	}

	var decls []Declaration
	for _, file := range files {
		decl, guidFound, typeFound, err := ScanFile(file)
		if err != nil {
			return nil, err
		}

		switch {
		case guidFound && typeFound:
			if _, err := uuid.Parse(decl.GUID); err != nil {
				logger.Warn("GUID_STRING is not a valid GUID",
					zap.String("file", file), zap.String("guid", decl.GUID), zap.Error(err))
			}
			logger.Info("Found type", zap.String("type", decl.TypeName), zap.String("guid", decl.GUID))
			decls = append(decls, decl)
		case guidFound:
			logger.Warn("GUID_STRING without TYPE_NAME", zap.String("file", file))
		case typeFound:
			logger.Warn("TYPE_NAME without GUID_STRING", zap.String("file", file))
		}
	}
	return decls, nil
}

// Collect scans root and adds every declaration to dict (a new dictionary
// when dict is nil). Entries already present keep their position and GUID; a
// conflicting GUID is reported as a warning.
func Collect(root, pattern string, dict *Dictionary, logger *zap.Logger) (*Dictionary, error) {
	logger = logging.OrNop(logger)
	if dict == nil {
		dict = New()
	}

	decls, err := ScanTree(root, pattern, logger)
	if err != nil {
		return nil, err
	}

	for _, decl := range decls {
		if existing, exists := dict.Add(decl.TypeName, decl.GUID); exists && existing != decl.GUID {
			logger.Warn("Type already in the dictionary with a different GUID; keeping the existing entry",
				zap.String("type", decl.TypeName),
				zap.String("existing", existing),
				zap.String("ignored", decl.GUID),
				zap.String("file", decl.File))
		}
	}
	return dict, nil
}
