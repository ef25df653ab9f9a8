package node

var (
	pointBookkeeping     = []string{FieldName, FieldTypeName, FieldIDRefName}
	containerBookkeeping = []string{FieldID, FieldName, FieldTypeName}
)

// Strip deletes the fields the firmware does not parse: names, type names
// and reference names on points, and ids, names and type names on container
// objects. Stripping an already stripped document changes nothing.
//
// It returns the number of fields removed.
func Strip(doc *Document) int {
	removed := 0
	for _, sel := range Points {
		for _, obj := range sel.Select(doc.root) {
			removed += deleteFields(obj, pointBookkeeping)
		}
	}
	for _, sel := range Containers {
		for _, obj := range sel.Select(doc.root) {
			removed += deleteFields(obj, containerBookkeeping)
		}
	}
	return removed
}

func deleteFields(obj Object, fields []string) int {
	n := 0
	for _, f := range fields {
		if _, ok := obj[f]; ok {
			delete(obj, f)
			n++
		}
	}
	return n
}
