package typedict

import (
	"go.uber.org/zap"

	fxterrors "github.com/colony-core/foxtail/internal/errors"
	"github.com/colony-core/foxtail/internal/logging"
	"github.com/colony-core/foxtail/internal/node"
	"github.com/colony-core/foxtail/internal/util/strings"
)

// Substitute injects a 'type' GUID into every object that declares a
// 'typeName': the node root, shared points, cards, card channels,
// components, connection points and auto points. It returns the number of
// objects updated. A type name missing from dict is fatal.
func Substitute(doc *node.Document, dict *Dictionary, logger *zap.Logger) (int, error) {
	logger = logging.OrNop(logger)
	count := 0

	for _, sel := range node.Typed {
		for _, obj := range sel.Select(doc.Root()) {
			raw, ok := obj[node.FieldTypeName]
			if !ok {
				continue
			}
			typeName, ok := raw.(string)
			if !ok {
				return count, fxterrors.WrongType(fxterrors.PhaseTypes, node.FieldTypeName, "a string", obj).
					WithPath(sel.Path)
			}

			guid, ok := dict.Lookup(typeName)
			if !ok {
				return count, fxterrors.UnknownType(typeName, sel.Path).
					WithObject(obj).
					WithSuggestions(strings.FindSimilar(typeName, dict.TypeNames(), nil))
			}

			obj[node.FieldType] = guid
			count++
			logger.Debug("Mapped type", zap.String("class", string(sel.Class)),
				zap.String("type", typeName), zap.String("guid", guid))
		}
	}
	return count, nil
}
