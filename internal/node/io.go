package node

import (
	"fmt"
	"os"

	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"

	fxterrors "github.com/colony-core/foxtail/internal/errors"
)

// Parse decodes a Node document. The root must be a JSON object.
func Parse(data []byte) (*Document, error) {
	v, err := oj.Parse(data)
	if err != nil {
		return nil, fxterrors.New(fxterrors.PhaseIO, fxterrors.ErrInvalidJSON,
			fxterrors.GetErrorMessage(fxterrors.ErrInvalidJSON)).WithCause(err)
	}
	root, ok := v.(Object)
	if !ok {
		return nil, fxterrors.New(fxterrors.PhaseIO, fxterrors.ErrInvalidJSON,
			fmt.Sprintf("Node document must be a JSON object, got %T", v))
	}
	return NewDocument(root), nil
}

// Load reads and parses a Node file
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fxterrors.IO(fxterrors.ErrUnreadableInput, path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		if ce, ok := fxterrors.AsConvertError(err); ok {
			ce.Path = path
			ce.Message = fmt.Sprintf("Can not open file: %s, OR invalid JSON syntax", path)
		}
		return nil, err
	}
	return doc, nil
}

// Marshal renders the document. Pretty output uses a two space indent; keys
// are always sorted so regenerated files diff cleanly.
func (d *Document) Marshal(pretty bool) []byte {
	indent := 0
	if pretty {
		indent = 2
	}
	return []byte(oj.JSON(d.root, &ojg.Options{Indent: indent, Sort: true}))
}

// Write renders the document to path
func (d *Document) Write(path string, pretty bool) error {
	return WriteFile(path, d.Marshal(pretty))
}

// WriteFile writes generated content, wrapping failures as ConvertErrors.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fxterrors.IO(fxterrors.ErrWriteFailed, path, err)
	}
	return nil
}
