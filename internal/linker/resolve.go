package linker

import (
	"go.uber.org/zap"

	fxterrors "github.com/colony-core/foxtail/internal/errors"
	"github.com/colony-core/foxtail/internal/logging"
	"github.com/colony-core/foxtail/internal/node"
	fxtstrings "github.com/colony-core/foxtail/internal/util/strings"
)

// Resolve rewrites every component input and output reference: the symbolic
// 'idRef' is replaced by the ID the table holds for it and the symbol is kept
// in a new 'idRefName' field. The table is only read.
//
// Resolve must run after Assign has completed on the same document; a symbol
// missing from the table is reported as an unresolved reference.
func Resolve(doc *node.Document, table *Table, logger *zap.Logger) error {
	logger = logging.OrNop(logger)

	chassisList, err := doc.Chassis(fxterrors.PhaseResolve)
	if err != nil {
		return err
	}

	for _, c := range chassisList {
		logger.Info("Resolving Chassis References", zap.String("chassis", c.Name()))

		sets, err := c.ExecutionSets(fxterrors.PhaseResolve)
		if err != nil {
			return err
		}
		for _, es := range sets {
			logger.Info("Resolving ExecutionSet References", zap.String("executionSet", es.Name()))

			chains, err := es.LogicChains(fxterrors.PhaseResolve)
			if err != nil {
				return err
			}
			for _, lc := range chains {
				logger.Info("Resolving Logic Chain references", zap.String("logicChain", lc.Name()))
				if err := resolveChain(lc, table, logger); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func resolveChain(lc node.LogicChain, table *Table, logger *zap.Logger) error {
	components, err := lc.Components(fxterrors.PhaseResolve)
	if err != nil {
		return err
	}

	for _, comp := range components {
		logger.Debug("Resolving Components Points", zap.String("component", comp.Name()))

		inputs, err := comp.Inputs(fxterrors.PhaseResolve)
		if err != nil {
			return err
		}
		for _, ref := range inputs {
			if err := resolveRef(ref, table); err != nil {
				return err
			}
		}

		outputs, err := comp.Outputs(fxterrors.PhaseResolve)
		if err != nil {
			return err
		}
		for _, ref := range outputs {
			if err := resolveRef(ref, table); err != nil {
				return err
			}
		}
	}
	return nil
}

func resolveRef(ref node.Object, table *Table) error {
	raw, ok := ref[node.FieldIDRef]
	if !ok {
		return fxterrors.MissingPointField(fxterrors.PhaseResolve, node.FieldIDRef, ref)
	}
	symbol, ok := raw.(string)
	if !ok {
		return fxterrors.WrongType(fxterrors.PhaseResolve, node.FieldIDRef, "a symbolic name (string)", ref)
	}

	id, ok := table.Lookup(symbol)
	if !ok {
		return fxterrors.Unresolved(symbol).
			WithObject(ref).
			WithSuggestions(fxtstrings.FindSimilar(symbol, table.Symbols(), nil))
	}

	ref[node.FieldIDRef] = int64(id)
	ref[node.FieldIDRefName] = symbol
	return nil
}
