package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/ohler55/ojg/oj"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testNode = `{
  "name": "Kestrel",
  "typeName": "Fxt::Node::Mock::Kestrel",
  "chassis": [{
    "name": "Chassis 1",
    "sharedPts": [{ "id": "Setpoint", "typeName": "Fxt::Point::Int32", "initial": { "val": 20 } }],
    "scanners": [{
      "name": "Scanner 1",
      "cards": [{
        "name": "Card 1",
        "typeName": "Fxt::Card::Mock::Digital8",
        "points": {
          "inputs":  [{ "channel": 1, "id": "TempIn", "typeName": "Fxt::Point::Bool" }],
          "outputs": [{ "channel": 2, "id": "RelayOut", "typeName": "Fxt::Point::Bool" }]
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

// inTempDir runs the test from a fresh directory holding files
func inTempDir(t *testing.T, files map[string]string) string {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	oldWd, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(oldWd) })
	return dir
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return executeContext(context.Background(), args...)
}

func executeContext(ctx context.Context, args ...string) (stdout, stderr string, err error) {
	var outBuf, errBuf bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(ctx)
	return outBuf.String(), errBuf.String(), err
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()

	if cmd.Use != "foxtail" {
		t.Errorf("expected Use to be 'foxtail', got %s", cmd.Use)
	}

	if cmd.Short == "" || cmd.Long == "" {
		t.Error("expected descriptions to be set")
	}

	for _, name := range []string{"verbose", "no-warnings", "no-color"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("expected persistent flag --%s", name)
		}
	}

	expectedCommands := []string{"version", "convert", "collect-guids", "points", "watch", "init"}
	for _, expected := range expectedCommands {
		found := false
		for _, sub := range cmd.Commands() {
			if sub.Name() == expected {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected command %s to be registered", expected)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	defer func() { Version, GitCommit = "dev", "unknown" }()

	inTempDir(t, nil)
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "foxtail version: 1.0.0-test")
	assert.Contains(t, stdout, "Git commit: abc123")
}

func TestConvertCommand(t *testing.T) {
	dir := inTempDir(t, map[string]string{"node.json": testNode})

	stdout, _, err := execute(t, "convert", "node.json", "-c", "points.h", "--list")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Wrote node.id.json")
	assert.Contains(t, stdout, "Wrote points.h")
	assert.Contains(t, stdout, "Point IDs")
	assert.Contains(t, stdout, "ioRegister")

	v, err := oj.ParseString(readFile(t, filepath.Join(dir, "node.id.json")))
	require.NoError(t, err)
	shared := v.(map[string]any)["chassis"].([]any)[0].(map[string]any)["sharedPts"].([]any)[0].(map[string]any)
	assert.Equal(t, int64(0), shared["id"])
	assert.Equal(t, int64(1), shared["initial"].(map[string]any)["id"])

	header := readFile(t, filepath.Join(dir, "points.h"))
	assert.Contains(t, header, "FXT_PT_SETPOINT")
	assert.Contains(t, header, "FXT_PT_TOTAL_NUM_PTS")
}

func TestConvertCommand_Echo(t *testing.T) {
	inTempDir(t, map[string]string{"node.json": testNode})

	stdout, stderr, err := execute(t, "convert", "node.json", "out.json", "--echo", "--strip")
	require.NoError(t, err)

	_, err = oj.ParseString(stdout)
	require.NoError(t, err, "stdout should hold only the converted document")
	assert.NotContains(t, stdout, "Setpoint")
	assert.Contains(t, stderr, "Wrote out.json")
	assert.FileExists(t, "out.json")
}

func TestConvertCommand_ConfigFile(t *testing.T) {
	dir := inTempDir(t, map[string]string{
		"node.json":   testNode,
		"foxtail.yml": "convert:\n  pretty: true\n  header: gen/points.h\nheader:\n  prefix: KESTREL_\n",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "gen"), 0755))

	_, _, err := execute(t, "convert", "node.json")
	require.NoError(t, err)

	assert.Contains(t, readFile(t, "gen/points.h"), "KESTREL_TEMPIN")
	assert.Contains(t, readFile(t, "node.id.json"), "\n  ")

	// Flags override the file
	_, _, err = execute(t, "convert", "node.json", "--prefix", "CLI_", "-c", "cli.h")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, "cli.h"), "CLI_TEMPIN")
}

func TestConvertCommand_WithTypes(t *testing.T) {
	inTempDir(t, map[string]string{
		"node.json": testNode,
		"types.json": `{
  "Fxt::Node::Mock::Kestrel": "n-guid",
  "Fxt::Card::Mock::Digital8": "c-guid",
  "Fxt::Point::Bool": "b-guid",
  "Fxt::Point::Int32": "i-guid",
  "Fxt::Component::Basic::Wire64Bool": "w-guid"
}
`,
	})

	_, _, err := execute(t, "convert", "node.json", "-t", "types.json")
	require.NoError(t, err)
	assert.Contains(t, readFile(t, "node.id.json"), `"i-guid"`)
}

func TestConvertCommand_Failure(t *testing.T) {
	inTempDir(t, map[string]string{
		"node.json": strings.Replace(testNode, `"idRef": "TempIn"`, `"idRef": "TempInn"`, 1),
	})

	_, stderr, err := execute(t, "convert", "node.json", "-c", "points.h")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E200")
	assert.Contains(t, stderr, "Missing point reference: TempInn")
	assert.Contains(t, stderr, "Did you mean: TempIn?")
	assert.NoFileExists(t, "node.id.json")
	assert.NoFileExists(t, "points.h")
}

func TestConvertCommand_JSONErrors(t *testing.T) {
	inTempDir(t, map[string]string{
		"node.json": strings.Replace(testNode, `"Fxt::Point::Bool"`, `"Fxt::Point::Bol"`, 1),
		"types.json": `{
  "Fxt::Point::Bool": "b-guid"
}
`,
	})

	stdout, _, err := execute(t, "convert", "node.json", "-t", "types.json", "--json")
	require.Error(t, err)

	v, perr := oj.ParseString(stdout)
	require.NoError(t, perr)
	doc := v.(map[string]any)
	assert.Equal(t, "error", doc["status"])
	first := doc["errors"].([]any)[0].(map[string]any)
	assert.Equal(t, "E300", first["code"])
}

func TestConvertCommand_Args(t *testing.T) {
	inTempDir(t, nil)

	_, _, err := execute(t, "convert")
	assert.Error(t, err)

	_, _, err = execute(t, "convert", "missing.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E001")
}

const boolHeader = `namespace Fxt { namespace Point {
class Bool {
public:
    static constexpr const char* GUID_STRING = "f574ca64-b5f2-41ae-bdbf-d7cb7d52aeb0";
    static constexpr const char* TYPE_NAME   = "Fxt::Point::Bool";
};
} }
`

func TestCollectGUIDsCommand(t *testing.T) {
	inTempDir(t, map[string]string{
		"src/Fxt/Point/Bool.h": boolHeader,
		"src/Fxt/Point/Int32.h": strings.NewReplacer(
			"f574ca64-b5f2-41ae-bdbf-d7cb7d52aeb0", "17b49a44-2b2e-4d4a-8a0f-0c3ff6a2f0e1",
			"Fxt::Point::Bool", "Fxt::Point::Int32").Replace(boolHeader),
	})

	stdout, _, err := execute(t, "collect-guids", "src", "-o", "types.json", "--list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 2 type(s) to types.json")
	assert.Contains(t, stdout, "Fxt::Point::Int32")

	want := "{\n" +
		"  \"Fxt::Point::Bool\": \"f574ca64-b5f2-41ae-bdbf-d7cb7d52aeb0\",\n" +
		"  \"Fxt::Point::Int32\": \"17b49a44-2b2e-4d4a-8a0f-0c3ff6a2f0e1\"\n" +
		"}\n"
	assert.Equal(t, want, readFile(t, "types.json"))
}

func TestCollectGUIDsCommand_Append(t *testing.T) {
	inTempDir(t, map[string]string{
		"src/Fxt/Point/Bool.h": boolHeader,
		"types.json":           "{\n  \"Legacy\": \"0000\"\n}\n",
	})

	_, _, err := execute(t, "collect-guids", "src", "-o", "types.json", "--append")
	require.NoError(t, err)

	content := readFile(t, "types.json")
	assert.Less(t, strings.Index(content, "Legacy"), strings.Index(content, "Fxt::Point::Bool"))

	_, _, err = execute(t, "collect-guids", "src", "--append")
	assert.Error(t, err, "append without an output file")
}

func TestCollectGUIDsCommand_Stdout(t *testing.T) {
	inTempDir(t, map[string]string{"src/Bool.h": boolHeader})

	stdout, _, err := execute(t, "collect-guids", "src")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"Fxt::Point::Bool": "f574ca64-b5f2-41ae-bdbf-d7cb7d52aeb0"`)
}

func TestPointsCommand(t *testing.T) {
	inTempDir(t, map[string]string{
		"src/App/Io.h": "FXT_POINT_DEFINE( enable Fxt::Point::Bool )\n",
		"Points.h": "#include \"App/Io.h\"\n" +
			"FXT_POINT_DEFINE( count Fxt::Point::Int32 )\n" +
			"// MARKER_FXT_BEGIN_AUTO_GENERATION\n" +
			"// MARKER_FXT_END_AUTO_GENERATION\n",
	})

	stdout, _, err := execute(t, "points", "Points.h", "--list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Updated Points.h: 2 point(s) in 2 type(s)")
	assert.Contains(t, stdout, "enable")

	header := readFile(t, "Points.h")
	assert.Contains(t, header, "FXT_PTID_ENABLE")
	assert.Contains(t, header, "FXT_PTID_COUNT")
	assert.Contains(t, header, "FXT_PTID_TOTAL_NUM_PTS")

	stdout, _, err = execute(t, "points", "Points.h")
	require.NoError(t, err)
	assert.Contains(t, stdout, "up to date")
}

func TestPointsCommand_MissingMarker(t *testing.T) {
	inTempDir(t, map[string]string{"Points.h": "FXT_POINT_DEFINE( count Fxt::Point::Int32 )\n"})

	_, stderr, err := execute(t, "points", "Points.h")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E401")
	assert.Contains(t, stderr, "MARKER_FXT_BEGIN_AUTO_GENERATION")
}

func TestInitCommand(t *testing.T) {
	inTempDir(t, nil)

	stdout, _, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created foxtail.yml")
	assert.Contains(t, readFile(t, "foxtail.yml"), "FXT_PT_")

	_, _, err = execute(t, "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = execute(t, "init", "--force")
	assert.NoError(t, err)
}

func TestWatchCommand(t *testing.T) {
	inTempDir(t, map[string]string{"node.json": testNode})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, _, err := executeContext(ctx, "watch", "node.json")
		done <- err
	}()

	require.Eventually(t, func() bool {
		_, err := os.Stat("node.id.json")
		return err == nil
	}, 5*time.Second, 20*time.Millisecond, "initial conversion")

	// Give the watcher time to register before editing
	time.Sleep(300 * time.Millisecond)
	edited := strings.Replace(testNode, `"id": "RelayOut"`, `"id": "Relay2"`, 1)
	edited = strings.Replace(edited, `"idRef": "RelayOut"`, `"idRef": "Relay2"`, 1)
	require.NoError(t, os.WriteFile("node.json", []byte(edited), 0644))

	require.Eventually(t, func() bool {
		data, err := os.ReadFile("node.id.json")
		return err == nil && strings.Contains(string(data), "Relay2")
	}, 5*time.Second, 20*time.Millisecond, "conversion after change")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
