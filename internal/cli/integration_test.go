package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCLI_FileInputOutput tests the CLI with file input and output
func TestCLI_FileInputOutput(t *testing.T) {
	tempDir := t.TempDir()

	jsonContent := `{
		"name": "John Doe",
		"age": 30,
		"address": {"street": "123 Main St", "zip": "12345"},
		"phones": [{"type": "home", "number": "555-1234"}],
		"active": true
	}`
	jsonFile := filepath.Join(tempDir, "test.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(jsonContent), 0644))

	outputFile := filepath.Join(tempDir, "output.json")

	cmd := exec.Command("go", "run", "../../main.go", "-i", jsonFile, "-o", outputFile)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "CLI command failed: %s", string(output))
	assert.Contains(t, string(output), "JSON written to")

	written, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	assert.Equal(t,
		`{"active":true,"address":{"street":"123 Main St","zip":"12345"},"age":30,"name":"John Doe","phones":[{"number":"555-1234","type":"home"}]}`+"\n",
		string(written))

	// The output is itself valid JSON equal to the input
	var in, out any
	require.NoError(t, json.Unmarshal([]byte(jsonContent), &in))
	require.NoError(t, json.Unmarshal(written, &out))
	assert.Equal(t, in, out)
}

// TestCLI_StdinStdout tests the CLI with stdin input and stdout output
func TestCLI_StdinStdout(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go")
	cmd.Stdin = strings.NewReader(`{"name": "Jane Smith", "age": 25, "active": true}`)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	require.NoError(t, err, "CLI command failed: %s", stderr.String())
	assert.Equal(t, `{"active":true,"age":25,"name":"Jane Smith"}`+"\n", stdout.String())
}

// TestCLI_Indent tests indented output
func TestCLI_Indent(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "--indent", "2")
	cmd.Stdin = strings.NewReader(`[{"id": 1}]`)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	require.NoError(t, cmd.Run())
	assert.Equal(t, "[\n  {\n    \"id\": 1\n  }\n]\n", stdout.String())
}

// TestCLI_KeyCase tests key rewriting and null dropping
func TestCLI_KeyCase(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "--key-case", "snake", "--drop-nulls")
	cmd.Stdin = strings.NewReader(`{"firstName": "Ada", "middleName": null, "lastName": "Lovelace"}`)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	require.NoError(t, cmd.Run(), stderr.String())
	assert.Equal(t, `{"first_name":"Ada","last_name":"Lovelace"}`+"\n", stdout.String())
}

// TestCLI_AllowList tests the repeatable --allow flag
func TestCLI_AllowList(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "--allow", "b", "--allow", "a")
	cmd.Stdin = strings.NewReader(`{"a": 1, "b": 2, "c": 3}`)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	require.NoError(t, cmd.Run())
	assert.Equal(t, `{"b":2,"a":1}`+"\n", stdout.String())
}

// TestCLI_InvalidJSON tests the CLI with invalid JSON input
func TestCLI_InvalidJSON(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go")
	cmd.Stdin = strings.NewReader(`{"name": "Invalid JSON, "age": 30}`)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	assert.Error(t, err, "CLI should fail with invalid JSON")
	assert.Contains(t, stderr.String(), "JSON parsing error")
}

// TestCLI_MultipleValues tests the CLI with more than one root value
func TestCLI_MultipleValues(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go")
	cmd.Stdin = strings.NewReader(`{"a": 1} {"b": 2}`)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	assert.Error(t, err)
	assert.Contains(t, stderr.String(), "multiple JSON values")
}

// TestCLI_EmptyInput tests the CLI with empty input
func TestCLI_EmptyInput(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go")
	cmd.Stdin = strings.NewReader("")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	assert.Error(t, err, "CLI should fail with empty input")
	assert.Contains(t, stderr.String(), "empty input")
}

// TestCLI_BadKeyCase tests that config errors are reported
func TestCLI_BadKeyCase(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "--key-case", "shouting")
	cmd.Stdin = strings.NewReader(`{}`)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	assert.Error(t, err)
	assert.Contains(t, stderr.String(), "Configuration error")
	assert.Contains(t, stderr.String(), "shouting")
}

// TestCLI_ConfigFile tests that a config file passed with -c is applied
func TestCLI_ConfigFile(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), ".jsontyped.yml")
	require.NoError(t, os.WriteFile(configFile, []byte(`
naming:
  key_case: kebab
filter:
  drop_keys:
    - pattern: "^internal"
      comment: internal bookkeeping
`), 0644))

	cmd := exec.Command("go", "run", "../../main.go", "-c", configFile)
	cmd.Stdin = strings.NewReader(`{"userName": "x", "internalRev": 3}`)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	require.NoError(t, cmd.Run(), stderr.String())
	assert.Equal(t, `{"user-name":"x"}`+"\n", stdout.String())
}

// TestCLI_SampleConfig runs the checked in sample through the sample config
func TestCLI_SampleConfig(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go",
		"-i", "../../testdata/samples/user.json",
		"-c", "../../testdata/samples/jsontyped.yml")
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	require.NoError(t, cmd.Run(), stderr.String())

	expected, err := os.ReadFile("../../testdata/samples/user.expected.json")
	require.NoError(t, err)
	assert.Equal(t, string(expected), stdout.String())
}

// TestCLI_Version tests the version flag
func TestCLI_Version(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "-v")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)
	assert.Contains(t, string(output), "jsontyped version")
}

// TestCLI_Help tests the help output
func TestCLI_Help(t *testing.T) {
	cmd := exec.Command("go", "run", "../../main.go", "--help")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err)

	helpOutput := string(output)
	assert.Contains(t, helpOutput, "Usage:")
	assert.Contains(t, helpOutput, "-i, --input")
	assert.Contains(t, helpOutput, "-o, --output")
	assert.Contains(t, helpOutput, "-c, --config")
	assert.Contains(t, helpOutput, "--indent")
	assert.Contains(t, helpOutput, "--key-case")
	assert.Contains(t, helpOutput, "--drop-nulls")
}
