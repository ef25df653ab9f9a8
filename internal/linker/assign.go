package linker

import (
	"go.uber.org/zap"

	fxterrors "github.com/colony-core/foxtail/internal/errors"
	"github.com/colony-core/foxtail/internal/logging"
	"github.com/colony-core/foxtail/internal/node"
)

// assigner carries the traversal state of the assignment pass
type assigner struct {
	table  *Table
	logger *zap.Logger
}

// Assign walks the document and replaces every point's symbolic 'id' with
// the next sequential integer, starting at zero. Traversal order is fixed:
// per chassis the shared points, then scanners → cards → input channels,
// output channels, then execution sets → logic chains → connection points,
// auto points.
//
// Each point gains a 'name' field holding its symbol. Card channels also get
// an 'ioRegId', and a point with an 'initial' setter object gets an id for
// that object; both are allocated right after the point itself.
//
// The document is modified in place. The first malformed object aborts the
// pass; the document is then partially rewritten and must be discarded.
func Assign(doc *node.Document, logger *zap.Logger) (*Table, error) {
	a := &assigner{table: NewTable(), logger: logging.OrNop(logger)}
	if err := a.document(doc); err != nil {
		return nil, err
	}
	return a.table, nil
}

func (a *assigner) document(doc *node.Document) error {
	chassisList, err := doc.Chassis(fxterrors.PhaseAssign)
	if err != nil {
		return err
	}

	for _, c := range chassisList {
		a.logger.Info("Processing Chassis", zap.String("chassis", c.Name()))

		shared, err := c.SharedPoints(fxterrors.PhaseAssign)
		if err != nil {
			return err
		}
		for _, pt := range shared {
			if err := a.point(pt, false); err != nil {
				return err
			}
		}

		scanners, err := c.Scanners(fxterrors.PhaseAssign)
		if err != nil {
			return err
		}
		for _, s := range scanners {
			a.logger.Info("Processing Scanner", zap.String("scanner", s.Name()))
			if err := a.scanner(s); err != nil {
				return err
			}
		}

		sets, err := c.ExecutionSets(fxterrors.PhaseAssign)
		if err != nil {
			return err
		}
		for _, es := range sets {
			a.logger.Info("Processing Execution Set", zap.String("executionSet", es.Name()))
			if err := a.executionSet(es); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *assigner) scanner(s node.Scanner) error {
	cards, err := s.Cards(fxterrors.PhaseAssign)
	if err != nil {
		return err
	}

	for _, card := range cards {
		a.logger.Info("Processing Card", zap.String("card", card.Name()))
		inputs, outputs, err := card.Channels(fxterrors.PhaseAssign)
		if err != nil {
			return err
		}
		for _, ch := range inputs {
			a.logger.Debug("Processing Card Channel", zap.String("direction", "input"), zap.Any("channel", ch[node.FieldChannel]))
			if err := a.point(ch, true); err != nil {
				return err
			}
		}
		for _, ch := range outputs {
			a.logger.Debug("Processing Card Channel", zap.String("direction", "output"), zap.Any("channel", ch[node.FieldChannel]))
			if err := a.point(ch, true); err != nil {
				return err
			}
		}
	}
	return nil
}

func (a *assigner) executionSet(es node.ExecutionSet) error {
	chains, err := es.LogicChains(fxterrors.PhaseAssign)
	if err != nil {
		return err
	}

	for _, lc := range chains {
		a.logger.Info("Processing Logic Chain", zap.String("logicChain", lc.Name()))

		conn, err := lc.ConnectionPoints(fxterrors.PhaseAssign)
		if err != nil {
			return err
		}
		for _, pt := range conn {
			if err := a.point(pt, false); err != nil {
				return err
			}
		}

		auto, err := lc.AutoPoints(fxterrors.PhaseAssign)
		if err != nil {
			return err
		}
		for _, pt := range auto {
			if err := a.point(pt, false); err != nil {
				return err
			}
		}
	}
	return nil
}

// point assigns IDs to a single point object
func (a *assigner) point(pt node.Object, cardChannel bool) error {
	raw, ok := pt[node.FieldID]
	if !ok {
		return fxterrors.MissingPointField(fxterrors.PhaseAssign, node.FieldID, pt)
	}
	symbol, ok := raw.(string)
	if !ok {
		return fxterrors.WrongType(fxterrors.PhaseAssign, node.FieldID, "a symbolic name (string)", pt)
	}

	id, previous, redefined := a.table.define(symbol)
	if redefined {
		a.logger.Warn("Point symbol defined more than once; references resolve to the last definition",
			zap.String("symbol", symbol), zap.Int("previousId", previous), zap.Int("id", id))
	}
	pt[node.FieldID] = int64(id)
	pt[node.FieldName] = symbol

	if cardChannel {
		pt[node.FieldIORegID] = int64(a.table.synthetic(SlotIORegister, symbol))
	}

	if rawInitial, ok := pt[node.FieldInitial]; ok {
		setter, ok := rawInitial.(node.Object)
		if !ok {
			return fxterrors.WrongType(fxterrors.PhaseAssign, node.FieldInitial, "an object", pt)
		}
		setter[node.FieldID] = int64(a.table.synthetic(SlotInitial, symbol))
	}

	a.logger.Debug("Assigned point", zap.String("symbol", symbol), zap.Int("id", id))
	return nil
}
