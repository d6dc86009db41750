package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formschema/pkg/prompt"
	"github.com/goliatone/go-formschema/pkg/schemamodel"
)

const personSchema = `{
  "type": "object",
  "properties": {
    "name": {"title": "Name", "type": "string", "description": ""},
    "age": {"title": "Age", "type": "integer", "description": ""},
    "height": {"title": "Height", "type": "number", "description": ""},
    "is_active": {"title": "Is Active", "type": "boolean", "description": ""}
  },
  "required": ["name", "age"]
}`

type scriptedDriver struct {
	inputs  []string
	selects []int
}

func (d *scriptedDriver) Input(_ context.Context, _ prompt.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := d.inputs[0]
	d.inputs = d.inputs[1:]
	return val, nil
}

func (d *scriptedDriver) Select(_ context.Context, _ prompt.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	val := d.selects[0]
	d.selects = d.selects[1:]
	return val, nil
}

func (d *scriptedDriver) Info(context.Context, string) error { return nil }

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	app.out = out
	if app.errOut == nil {
		app.errOut = &bytes.Buffer{}
	}
	cmd := app.Command()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func testConfig() Config {
	return Config{LogLevel: "error", LogFormat: "text"}
}

func TestCoerceCommand(t *testing.T) {
	path := writeFixture(t, "person.json", personSchema)

	out, err := run(t, &App{cfg: testConfig()}, "coerce", path, "name=John Doe", "age=30", "height=1.75", "is_active=true")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]any{"name": "John Doe", "age": 30.0, "height": 1.75, "is_active": true}, got)
}

func TestCoerceCommand_Rejects(t *testing.T) {
	path := writeFixture(t, "person.json", personSchema)

	_, err := run(t, &App{cfg: testConfig()}, "coerce", path, "name=John", "age=not a number", "unknown_prop=x")
	var verr *schemamodel.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Details, 3)
}

func TestCoerceCommand_EmptyOptionalPolicy(t *testing.T) {
	path := writeFixture(t, "person.json", personSchema)

	_, err := run(t, &App{cfg: testConfig()}, "coerce", path, "name=John", "age=3", "height=")
	require.Error(t, err)

	out, err := run(t, &App{cfg: testConfig()}, "--omit-empty-optional", "coerce", path, "name=John", "age=3", "height=")
	require.NoError(t, err)
	assert.NotContains(t, out, "height")
}

func TestModelCommand_YAML(t *testing.T) {
	path := writeFixture(t, "person.yaml", `type: object
properties:
  second:
    title: Second
    type: string
  first:
    title: First
    type: number
required: [first]
`)
	out, err := run(t, &App{cfg: testConfig()}, "model", path)
	require.NoError(t, err)

	var m schemamodel.SchemaModel
	require.NoError(t, json.Unmarshal([]byte(out), &m))
	require.Len(t, m.Properties, 2)
	assert.Equal(t, "second", m.Properties[0].ID)
	assert.True(t, m.Properties[1].Required)
}

func TestSchemaCommand(t *testing.T) {
	path := writeFixture(t, "model.json", `{"properties":[{"title":"Hello World","type":"string","required":true,"description":"greeting"}]}`)

	out, err := run(t, &App{cfg: testConfig()}, "schema", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"hello_world"`)
	assert.Contains(t, out, `"required": [`)

	bad := writeFixture(t, "bad.json", `{"properties":[{"title":"@#$","type":"string"}]}`)
	_, err = run(t, &App{cfg: testConfig()}, "schema", bad)
	var verr *schemamodel.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCheckCommand(t *testing.T) {
	good := writeFixture(t, "good.json", personSchema)
	out, err := run(t, &App{cfg: testConfig()}, "check", good)
	require.NoError(t, err)
	assert.Contains(t, out, `"valid": true`)

	bad := writeFixture(t, "bad.json", `{"type":"object","properties":{"tags":{"type":"array"}}}`)
	out, err = run(t, &App{cfg: testConfig()}, "check", bad)
	require.Error(t, err)
	assert.Contains(t, out, `"valid": false`)
}

func TestFillCommand(t *testing.T) {
	path := writeFixture(t, "person.json", personSchema)
	app := &App{
		cfg:    testConfig(),
		driver: &scriptedDriver{inputs: []string{"Jane", "41", ""}, selects: []int{2}},
	}

	out, err := run(t, app, "fill", path)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, map[string]any{"name": "Jane", "age": 41.0, "is_active": false}, got)
}

func TestParseAssignments(t *testing.T) {
	got, err := parseAssignments([]string{"a=1", "b=", "c=x=y"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "", "c": "x=y"}, got)

	_, err = parseAssignments([]string{"novalue"})
	assert.Error(t, err)
	_, err = parseAssignments([]string{"a=1", "a=2"})
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger(Config{LogLevel: "loud", LogFormat: "text"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = newLogger(Config{LogLevel: "info", LogFormat: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)

	buf := &bytes.Buffer{}
	logger, err := newLogger(Config{LogLevel: "info", LogFormat: "json"}, buf)
	require.NoError(t, err)
	logger.WithField("k", "v").Info("hello")
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("FORMSCHEMA_LOG_LEVEL", "debug")
	t.Setenv("FORMSCHEMA_OMIT_EMPTY_OPTIONAL", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.OmitEmptyOptional)
	assert.Len(t, cfg.coerceOptions(), 1)
	assert.Empty(t, cfg.loaderOptions())
}
