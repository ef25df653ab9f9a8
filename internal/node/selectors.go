package node

import (
	"github.com/ohler55/ojg/jp"
)

// Class names an object class within the fixed topology
type Class string

const (
	ClassNode         Class = "node"
	ClassChassis      Class = "chassis"
	ClassScanner      Class = "scanner"
	ClassCard         Class = "card"
	ClassExecutionSet Class = "executionSet"
	ClassLogicChain   Class = "logicChain"
	ClassComponent    Class = "component"
	ClassSharedPoint  Class = "sharedPoint"
	ClassChannel      Class = "channel"
	ClassConnector    Class = "connectionPoint"
	ClassAutoPoint    Class = "autoPoint"
	ClassReference    Class = "reference"
)

// Selector locates every object of one class with a JSONPath expression
type Selector struct {
	Class Class
	Path  string
	expr  jp.Expr
}

func newSelector(class Class, path string) Selector {
	return Selector{Class: class, Path: path, expr: jp.MustParseString(path)}
}

// Select returns the objects matched by the selector. Non-object matches are
// skipped.
func (s Selector) Select(root Object) []Object {
	var result []Object
	for _, v := range s.expr.Get(root) {
		if obj, ok := v.(Object); ok {
			result = append(result, obj)
		}
	}
	return result
}

const (
	chassisPath = "$.chassis[*]"
	cardPath    = chassisPath + ".scanners[*].cards[*]"
	chainPath   = chassisPath + ".executionSets[*].logicChains[*]"
)

// Containers are the structural objects whose bookkeeping fields the firmware
// ignores.
var Containers = []Selector{
	newSelector(ClassChassis, chassisPath),
	newSelector(ClassScanner, chassisPath+".scanners[*]"),
	newSelector(ClassCard, cardPath),
	newSelector(ClassExecutionSet, chassisPath+".executionSets[*]"),
	newSelector(ClassLogicChain, chainPath),
	newSelector(ClassComponent, chainPath+".components[*]"),
}

// Points are the point and point-reference objects.
var Points = []Selector{
	newSelector(ClassSharedPoint, chassisPath+".sharedPts[*]"),
	newSelector(ClassChannel, cardPath+".points.inputs[*]"),
	newSelector(ClassChannel, cardPath+".points.outputs[*]"),
	newSelector(ClassConnector, chainPath+".connectionPts[*]"),
	newSelector(ClassAutoPoint, chainPath+".autoPts[*]"),
	newSelector(ClassReference, chainPath+".components[*].inputs[*]"),
	newSelector(ClassReference, chainPath+".components[*].outputs[*]"),
}

// Typed are the objects that may declare a 'typeName' to be mapped to a GUID.
var Typed = []Selector{
	newSelector(ClassNode, "$"),
	newSelector(ClassSharedPoint, chassisPath+".sharedPts[*]"),
	newSelector(ClassCard, cardPath),
	newSelector(ClassChannel, cardPath+".points.inputs[*]"),
	newSelector(ClassChannel, cardPath+".points.outputs[*]"),
	newSelector(ClassComponent, chainPath+".components[*]"),
	newSelector(ClassConnector, chainPath+".connectionPts[*]"),
	newSelector(ClassAutoPoint, chainPath+".autoPts[*]"),
}
