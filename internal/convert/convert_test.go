package convert

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fxterrors "github.com/colony-core/foxtail/internal/errors"
	"github.com/colony-core/foxtail/internal/typedict"
)

const nodeFile = `{
  "name": "Kestrel",
  "typeName": "Fxt::Node::Mock::Kestrel",
  "chassis": [{
    "name": "Chassis 1",
    "typeName": "Fxt::Chassis",
    "scanners": [{
      "name": "Scanner 1",
      "cards": [{
        "name": "Card 1",
        "typeName": "Fxt::Card::Mock::Digital8",
        "points": {
          "inputs":  [{ "channel": 1, "id": "TempIn", "typeName": "Fxt::Point::Bool" }],
          "outputs": [{ "channel": 2, "id": "RelayOut", "typeName": "Fxt::Point::Bool", "initial": { "val": false } }]
        }
      }]
    }],
    "executionSets": [{
      "name": "ES 1",
      "logicChains": [{
        "name": "LC 1",
        "components": [{
          "name": "Wire",
          "typeName": "Fxt::Component::Basic::Wire64Bool",
          "inputs":  [{ "idRef": "TempIn" }],
          "outputs": [{ "idRef": "RelayOut" }]
        }]
      }]
    }]
  }]
}`

func dictionary() *typedict.Dictionary {
	d := typedict.New()
	d.Add("Fxt::Node::Mock::Kestrel", "node-guid")
	d.Add("Fxt::Card::Mock::Digital8", "card-guid")
	d.Add("Fxt::Point::Bool", "bool-guid")
	d.Add("Fxt::Component::Basic::Wire64Bool", "wire-guid")
	return d
}

func writeInput(t *testing.T, content string) (dir, input string) {
	t.Helper()
	dir = t.TempDir()
	input = filepath.Join(dir, "node.json")
	require.NoError(t, os.WriteFile(input, []byte(content), 0644))
	return dir, input
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	v, err := oj.Parse(data)
	require.NoError(t, err)
	return v.(map[string]any)
}

func TestDefaultOutput(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"node.json", "node.id.json"},
		{filepath.Join("dir", "node.json"), filepath.Join("dir", "node.id.json")},
		{"node", "node.id"},
		{"a.b.json", "a.b.id.json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DefaultOutput(tt.input), tt.input)
	}
}

func TestRun(t *testing.T) {
	dir, input := writeInput(t, nodeFile)
	header := filepath.Join(dir, "points.h")

	result, err := Run(Options{Input: input, HeaderFile: header}, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "node.id.json"), result.Output)
	assert.Equal(t, 5, result.Table.Len())
	assert.Equal(t, 2, result.Table.NamedCount())

	out := readJSON(t, result.Output)
	card := out["chassis"].([]any)[0].(map[string]any)["scanners"].([]any)[0].(map[string]any)["cards"].([]any)[0].(map[string]any)
	in := card["points"].(map[string]any)["inputs"].([]any)[0].(map[string]any)
	assert.Equal(t, int64(0), in["id"])
	assert.Equal(t, "TempIn", in["name"])
	assert.Equal(t, int64(1), in["ioRegId"])

	data, err := os.ReadFile(header)
	require.NoError(t, err)
	assert.Contains(t, string(data), "FXT_PT_TEMPIN")
	assert.Contains(t, string(data), "FXT_PT_RELAYOUT")
	assert.Contains(t, string(data), "Source: node.json")
}

func TestRun_PrettyIsIndented(t *testing.T) {
	dir, input := writeInput(t, nodeFile)
	output := filepath.Join(dir, "out.json")

	_, err := Run(Options{Input: input, Output: output, Pretty: true}, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "\n  \""), "expected indented output")

	_, err = Run(Options{Input: input, Output: output}, nil)
	require.NoError(t, err)
	data, err = os.ReadFile(output)
	require.NoError(t, err)
	assert.NotContains(t, strings.TrimSpace(string(data)), "\n")
}

func TestRun_TypesAndStrip(t *testing.T) {
	dir, input := writeInput(t, nodeFile)
	dictFile := filepath.Join(dir, "types.json")
	require.NoError(t, dictionary().Save(dictFile))

	result, err := Run(Options{Input: input, DictionaryFile: dictFile, Strip: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Typed)
	assert.Positive(t, result.Stripped)

	data, err := os.ReadFile(result.Output)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `"bool-guid"`)
	assert.Contains(t, text, `"card-guid"`)
	assert.NotContains(t, text, "idRefName")
	assert.NotContains(t, text, "TempIn")
	assert.NotContains(t, text, "Fxt::Point::Bool")
}

func TestRun_FailureWritesNothing(t *testing.T) {
	tests := []struct {
		name    string
		content string
		dict    *typedict.Dictionary
		code    string
	}{
		{
			name:    "unresolved reference",
			content: strings.Replace(nodeFile, `"idRef": "RelayOut"`, `"idRef": "RelayOt"`, 1),
			code:    fxterrors.ErrUnresolvedReference,
		},
		{
			name:    "missing point id",
			content: strings.Replace(nodeFile, `"id": "TempIn", `, ``, 1),
			code:    fxterrors.ErrMissingField,
		},
		{
			name:    "unknown type",
			content: strings.Replace(nodeFile, `"Fxt::Component::Basic::Wire64Bool"`, `"Fxt::Component::Nope"`, 1),
			dict:    dictionary(),
			code:    fxterrors.ErrUnknownType,
		},
		{
			name:    "invalid json",
			content: `{ "chassis": [`,
			code:    fxterrors.ErrInvalidJSON,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, input := writeInput(t, tt.content)
			header := filepath.Join(dir, "points.h")

			_, err := Run(Options{Input: input, HeaderFile: header, Dictionary: tt.dict}, nil)
			require.Error(t, err)
			assert.True(t, fxterrors.HasCode(err, tt.code), "got %v", err)

			assert.NoFileExists(t, DefaultOutput(input))
			assert.NoFileExists(t, header)
		})
	}
}

func TestRun_MissingInputAndDictionary(t *testing.T) {
	dir := t.TempDir()

	_, err := Run(Options{Input: filepath.Join(dir, "missing.json")}, nil)
	assert.True(t, fxterrors.HasCode(err, fxterrors.ErrUnreadableInput))

	_, input := writeInput(t, nodeFile)
	_, err = Run(Options{Input: input, DictionaryFile: filepath.Join(dir, "missing-types.json")}, nil)
	assert.True(t, fxterrors.HasCode(err, fxterrors.ErrUnreadableDictionary))
	assert.NoFileExists(t, DefaultOutput(input))
}

func TestRun_DryRun(t *testing.T) {
	dir, input := writeInput(t, nodeFile)
	header := filepath.Join(dir, "points.h")

	result, err := Run(Options{Input: input, HeaderFile: header, DryRun: true}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, result.JSON)
	assert.NotEmpty(t, result.Header)
	assert.NoFileExists(t, result.Output)
	assert.NoFileExists(t, header)
}
