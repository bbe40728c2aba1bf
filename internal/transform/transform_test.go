package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsontyped/internal/config"
	"github.com/mcncl/jsontyped/jsonvalue"
)

func TestRenameKeys(t *testing.T) {
	v := jsonvalue.Object{
		"a": jsonvalue.Array{jsonvalue.Object{"b": jsonvalue.True}},
		"c": jsonvalue.String("unchanged value"),
	}

	out, err := RenameKeys(v, strings.ToUpper)
	require.NoError(t, err)
	assert.Equal(t, jsonvalue.Object{
		"A": jsonvalue.Array{jsonvalue.Object{"B": jsonvalue.True}},
		"C": jsonvalue.String("unchanged value"),
	}, out)

	// The input is left alone
	assert.Contains(t, v, "a")
}

func TestRenameKeys_Collision(t *testing.T) {
	v := jsonvalue.Object{"user_name": jsonvalue.True, "userName": jsonvalue.False}

	cfg := config.NewConfig()
	cfg.Naming.KeyCase = config.KeyCaseSnake

	_, err := Apply(cfg, v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `both become "user_name"`)
}

func TestApply(t *testing.T) {
	v := jsonvalue.Object{
		"userName": jsonvalue.String("jane"),
		"userID":   jsonvalue.Number(7),
		"meta":     jsonvalue.Object{"createdAt": jsonvalue.Null{}},
	}

	cfg := config.NewConfig()
	cfg.Naming.KeyCase = config.KeyCaseSnake
	cfg.Naming.KeyMappings["userID"] = "uid"

	out, err := Apply(cfg, v)
	require.NoError(t, err)
	assert.Equal(t, jsonvalue.Object{
		"user_name": jsonvalue.String("jane"),
		"uid":       jsonvalue.Number(7),
		"meta":      jsonvalue.Object{"created_at": jsonvalue.Null{}},
	}, out)
}

func TestApply_PreserveIsNoop(t *testing.T) {
	v := jsonvalue.Object{"camelCase": jsonvalue.True}
	out, err := Apply(config.NewConfig(), v)
	require.NoError(t, err)
	assert.Equal(t, v, out)
}

func TestReplacer(t *testing.T) {
	cfg := config.NewConfig()
	assert.Nil(t, Replacer(cfg))

	cfg.Filter.DropNulls = true
	cfg.Filter.DropKeys = []config.KeyRule{{Pattern: "^_"}}
	require.NoError(t, cfg.Compile())

	opts, err := EncodeOptions(cfg)
	require.NoError(t, err)

	v := jsonvalue.Object{
		"_private": jsonvalue.String("hidden"),
		"gone":     jsonvalue.Null{},
		"kept":     jsonvalue.Array{jsonvalue.Null{}, jsonvalue.Number(1)},
	}
	text, err := jsonvalue.Encode(v, opts...)
	require.NoError(t, err)
	assert.Equal(t, `{"kept":[null,1]}`, text)

	// A null root is still written
	text, err = jsonvalue.Encode(jsonvalue.Null{}, opts...)
	require.NoError(t, err)
	assert.Equal(t, `null`, text)
}

func TestReplacer_EmptyKeyMember(t *testing.T) {
	v := jsonvalue.Object{"": jsonvalue.Null{}, "a": jsonvalue.Null{}, "b": jsonvalue.True}

	cfg := config.NewConfig()
	cfg.Filter.DropNulls = true
	require.NoError(t, cfg.Compile())

	opts, err := EncodeOptions(cfg)
	require.NoError(t, err)

	// Each Encode starts with a fresh filter, so repeated calls agree.
	for range 2 {
		text, err := jsonvalue.Encode(v, opts...)
		require.NoError(t, err)
		assert.Equal(t, `{"b":true}`, text)
	}

	cfg = config.NewConfig()
	cfg.Filter.DropKeys = []config.KeyRule{{Pattern: "^$"}}
	require.NoError(t, cfg.Compile())

	opts, err = EncodeOptions(cfg)
	require.NoError(t, err)

	text, err := jsonvalue.Encode(jsonvalue.Object{"": jsonvalue.String("x"), "a": jsonvalue.Number(1)}, opts...)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, text)

	// A nested empty key is dropped too.
	text, err = jsonvalue.Encode(jsonvalue.Array{jsonvalue.Object{"": jsonvalue.True}}, opts...)
	require.NoError(t, err)
	assert.Equal(t, `[{}]`, text)
}

func TestEncodeOptions(t *testing.T) {
	v := jsonvalue.Object{"id": jsonvalue.Number(1), "name": jsonvalue.String("x")}

	tests := []struct {
		name      string
		indent    string
		allowList []string
		expected  string
	}{
		{name: "compact", expected: `{"id":1,"name":"x"}`},
		{name: "spaces", indent: "2", expected: "{\n  \"id\": 1,\n  \"name\": \"x\"\n}"},
		{name: "tab", indent: "tab", expected: "{\n\t\"id\": 1,\n\t\"name\": \"x\"\n}"},
		{name: "allow list", allowList: []string{"name"}, expected: `{"name":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.NewConfig()
			cfg.Output.Indent = tt.indent
			cfg.Output.AllowList = tt.allowList

			opts, err := EncodeOptions(cfg)
			require.NoError(t, err)

			text, err := jsonvalue.Encode(v, opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, text)
		})
	}
}

func TestEncodeOptions_InvalidIndent(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Output.Indent = "wide"
	_, err := EncodeOptions(cfg)
	assert.Error(t, err)
}
