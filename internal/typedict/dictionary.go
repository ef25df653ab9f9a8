// Package typedict maintains the type dictionary: the mapping from a
// human-readable firmware type name (e.g. "Fxt::Point::Bool") to the GUID
// the firmware uses to identify the type.
package typedict

import (
	"bytes"
	"os"

	"github.com/ohler55/ojg/oj"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	fxterrors "github.com/colony-core/foxtail/internal/errors"
)

// Dictionary is an insertion-ordered type-name to GUID table
type Dictionary struct {
	entries *orderedmap.OrderedMap[string, string]
}

// New creates an empty dictionary
func New() *Dictionary {
	return &Dictionary{entries: orderedmap.New[string, string]()}
}

// Lookup returns the GUID for typeName
func (d *Dictionary) Lookup(typeName string) (string, bool) {
	return d.entries.Get(typeName)
}

// Add inserts typeName at the end of the dictionary. An existing entry is
// left untouched; its GUID is returned with exists set.
func (d *Dictionary) Add(typeName, guid string) (existing string, exists bool) {
	if existing, exists = d.entries.Get(typeName); exists {
		return existing, true
	}
	d.entries.Set(typeName, guid)
	return "", false
}

// Len returns the number of entries
func (d *Dictionary) Len() int {
	return d.entries.Len()
}

// TypeNames returns the type names in insertion order
func (d *Dictionary) TypeNames() []string {
	names := make([]string, 0, d.entries.Len())
	for pair := d.entries.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Parse decodes a dictionary file. Entry order is preserved.
func Parse(data []byte) (*Dictionary, error) {
	d := New()
	if len(bytes.TrimSpace(data)) == 0 {
		return d, nil
	}
	if err := d.entries.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return d, nil
}

// Load reads a dictionary file
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fxterrors.IO(fxterrors.ErrUnreadableDictionary, path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fxterrors.IO(fxterrors.ErrUnreadableDictionary, path, err)
	}
	return d, nil
}

// LoadOrEmpty reads a dictionary file, returning an empty dictionary when
// the file does not exist yet.
func LoadOrEmpty(path string) (*Dictionary, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return New(), nil
	}
	return Load(path)
}

// Render serialises the dictionary as a static table: one entry per line in
// insertion order, the last entry without a trailing separator.
func (d *Dictionary) Render() []byte {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for pair := d.entries.Oldest(); pair != nil; pair = pair.Next() {
		buf.WriteString("  ")
		buf.WriteString(oj.JSON(pair.Key))
		buf.WriteString(": ")
		buf.WriteString(oj.JSON(pair.Value))
		if pair.Next() != nil {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes()
}

// Save writes the rendered dictionary to path
func (d *Dictionary) Save(path string) error {
	if err := os.WriteFile(path, d.Render(), 0644); err != nil {
		return fxterrors.IO(fxterrors.ErrWriteFailed, path, err)
	}
	return nil
}
