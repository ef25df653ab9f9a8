// Package node models a Foxtail Node document.
//
// The document is held as a generic JSON tree (map[string]any / []any) so
// that fields the tooling does not understand pass through untouched. The
// typed views below give the fixed topology its shape:
//
//	Node
//	└── chassis[]
//	    ├── sharedPts[]            (points)
//	    ├── scanners[]
//	    │   └── cards[]
//	    │       └── points
//	    │           ├── inputs[]   (channel points)
//	    │           └── outputs[]  (channel points)
//	    └── executionSets[]
//	        └── logicChains[]
//	            ├── connectionPts[] (points)
//	            ├── autoPts[]       (points)
//	            └── components[]
//	                ├── inputs[]    (references)
//	                └── outputs[]   (references)
package node

import (
	"fmt"

	fxterrors "github.com/colony-core/foxtail/internal/errors"
)

// Object is a JSON object within the document
type Object = map[string]any

// Field names shared by the passes
const (
	FieldID        = "id"
	FieldName      = "name"
	FieldIDRef     = "idRef"
	FieldIDRefName = "idRefName"
	FieldIORegID   = "ioRegId"
	FieldInitial   = "initial"
	FieldType      = "type"
	FieldTypeName  = "typeName"
	FieldChannel   = "channel"
)

type (
	Chassis      Object
	Scanner      Object
	Card         Object
	ExecutionSet Object
	LogicChain   Object
	Component    Object
)

// Document is a parsed Node file
type Document struct {
	root Object
}

// NewDocument wraps an already decoded root object
func NewDocument(root Object) *Document {
	return &Document{root: root}
}

// Root returns the root object
func (d *Document) Root() Object {
	return d.root
}

// Chassis returns the required 'chassis' list
func (d *Document) Chassis(phase string) ([]Chassis, error) {
	objs, err := requiredList(phase, d.root, "chassis", "Node")
	if err != nil {
		return nil, err
	}
	return convertList[Chassis](objs), nil
}

// Name returns the chassis label, used only for diagnostics
func (c Chassis) Name() string { return label(Object(c)) }

// SharedPoints returns the optional 'sharedPts' list
func (c Chassis) SharedPoints(phase string) ([]Object, error) {
	return optionalList(phase, Object(c), "sharedPts")
}

// Scanners returns the required 'scanners' list
func (c Chassis) Scanners(phase string) ([]Scanner, error) {
	objs, err := requiredList(phase, Object(c), "scanners", "Chassis")
	if err != nil {
		return nil, err
	}
	return convertList[Scanner](objs), nil
}

// ExecutionSets returns the required 'executionSets' list
func (c Chassis) ExecutionSets(phase string) ([]ExecutionSet, error) {
	objs, err := requiredList(phase, Object(c), "executionSets", "Chassis")
	if err != nil {
		return nil, err
	}
	return convertList[ExecutionSet](objs), nil
}

func (s Scanner) Name() string { return label(Object(s)) }

// Cards returns the required 'cards' list
func (s Scanner) Cards(phase string) ([]Card, error) {
	objs, err := requiredList(phase, Object(s), "cards", "Scanner")
	if err != nil {
		return nil, err
	}
	return convertList[Card](objs), nil
}

func (c Card) Name() string { return label(Object(c)) }

// Channels returns the card's input and output channel points. The 'points'
// object is required; its 'inputs' and 'outputs' lists are optional.
func (c Card) Channels(phase string) (inputs, outputs []Object, err error) {
	raw, ok := c["points"]
	if !ok {
		return nil, nil, fxterrors.MissingField(phase, "points", "Card", Object(c))
	}
	points, ok := raw.(Object)
	if !ok {
		return nil, nil, fxterrors.WrongType(phase, "points", "an object", Object(c))
	}
	if inputs, err = optionalList(phase, points, "inputs"); err != nil {
		return nil, nil, err
	}
	if outputs, err = optionalList(phase, points, "outputs"); err != nil {
		return nil, nil, err
	}
	return inputs, outputs, nil
}

func (e ExecutionSet) Name() string { return label(Object(e)) }

// LogicChains returns the required 'logicChains' list
func (e ExecutionSet) LogicChains(phase string) ([]LogicChain, error) {
	objs, err := requiredList(phase, Object(e), "logicChains", "Execution Set")
	if err != nil {
		return nil, err
	}
	return convertList[LogicChain](objs), nil
}

func (l LogicChain) Name() string { return label(Object(l)) }

// ConnectionPoints returns the optional 'connectionPts' list
func (l LogicChain) ConnectionPoints(phase string) ([]Object, error) {
	return optionalList(phase, Object(l), "connectionPts")
}

// AutoPoints returns the optional 'autoPts' list
func (l LogicChain) AutoPoints(phase string) ([]Object, error) {
	return optionalList(phase, Object(l), "autoPts")
}

// Components returns the required 'components' list
func (l LogicChain) Components(phase string) ([]Component, error) {
	objs, err := requiredList(phase, Object(l), "components", "LogicChain")
	if err != nil {
		return nil, err
	}
	return convertList[Component](objs), nil
}

func (c Component) Name() string { return label(Object(c)) }

// Inputs returns the required 'inputs' reference list
func (c Component) Inputs(phase string) ([]Object, error) {
	return requiredList(phase, Object(c), "inputs", "Components")
}

// Outputs returns the required 'outputs' reference list
func (c Component) Outputs(phase string) ([]Object, error) {
	return requiredList(phase, Object(c), "outputs", "Components")
}

// requiredList returns obj[key] as a list of objects, failing if absent.
func requiredList(phase string, obj Object, key, owner string) ([]Object, error) {
	if _, ok := obj[key]; !ok {
		return nil, fxterrors.MissingField(phase, key, owner, obj)
	}
	return optionalList(phase, obj, key)
}

// optionalList returns obj[key] as a list of objects, or nil if absent.
func optionalList(phase string, obj Object, key string) ([]Object, error) {
	raw, ok := obj[key]
	if !ok || raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fxterrors.WrongType(phase, key, "an array", obj)
	}
	result := make([]Object, 0, len(items))
	for _, item := range items {
		o, ok := item.(Object)
		if !ok {
			return nil, fxterrors.WrongType(phase, key, "an array of objects", obj)
		}
		result = append(result, o)
	}
	return result, nil
}

func convertList[T ~map[string]any](objs []Object) []T {
	result := make([]T, len(objs))
	for i, o := range objs {
		result[i] = T(o)
	}
	return result
}

// label returns the object's 'name' for log output, falling back to '?'.
func label(obj Object) string {
	if v, ok := obj[FieldName]; ok {
		return fmt.Sprint(v)
	}
	return "?"
}
