// Package transform turns a loaded config into the rewrites and encode
// options applied between decoding and encoding.
package transform

import (
	"fmt"

	"github.com/mcncl/jsontyped/internal/config"
	"github.com/mcncl/jsontyped/jsonvalue"
)

// RenameKeys returns a copy of v with every object key passed through rename.
// Two keys that end up with the same name are an error, since one would
// silently overwrite the other.
func RenameKeys(v jsonvalue.Value, rename func(string) string) (jsonvalue.Value, error) {
	return renameKeys(v, rename, "")
}

func renameKeys(v jsonvalue.Value, rename func(string) string, path string) (jsonvalue.Value, error) {
	switch x := v.(type) {
	case jsonvalue.Array:
		out := make(jsonvalue.Array, len(x))
		for i, elem := range x {
			renamed, err := renameKeys(elem, rename, fmt.Sprintf("%s/%d", path, i))
			if err != nil {
				return nil, err
			}
			out[i] = renamed
		}
		return out, nil
	case jsonvalue.Object:
		out := make(jsonvalue.Object, len(x))
		origin := make(map[string]string, len(x))
		for _, key := range x.Keys() {
			name := rename(key)
			if prev, clash := origin[name]; clash {
				return nil, fmt.Errorf("keys %q and %q at %q both become %q", prev, key, path, name)
			}
			origin[name] = key
			renamed, err := renameKeys(x[key], rename, path+"/"+key)
			if err != nil {
				return nil, err
			}
			out[name] = renamed
		}
		return out, nil
	}
	return v, nil
}

// Replacer builds the member filter described by cfg.Filter, or nil when the
// config drops nothing. The filter serves a single Encode call: Encode hands
// it the root first, and the root is never dropped. A member keyed "" is
// filtered like any other.
func Replacer(cfg *config.Config) jsonvalue.ReplacerFunc {
	if !filters(cfg) {
		return nil
	}
	root := true
	return func(key string, v jsonvalue.Value) jsonvalue.Value {
		if root {
			root = false
			return v
		}
		if cfg.ShouldDropKey(key) {
			return nil
		}
		if _, isNull := v.(jsonvalue.Null); isNull && cfg.Filter.DropNulls {
			return nil
		}
		return v
	}
}

func filters(cfg *config.Config) bool {
	return cfg.Filter.DropNulls || len(cfg.Filter.DropKeys) > 0
}

// EncodeOptions translates the output and filter sections of cfg.
func EncodeOptions(cfg *config.Config) ([]jsonvalue.EncodeOption, error) {
	var opts []jsonvalue.EncodeOption

	count, literal, err := cfg.ParseIndent()
	if err != nil {
		return nil, err
	}
	switch {
	case literal != "":
		opts = append(opts, jsonvalue.WithIndentString(literal))
	case count > 0:
		opts = append(opts, jsonvalue.WithIndent(count))
	}

	if cfg.Output.AllowList != nil {
		opts = append(opts, jsonvalue.WithAllowList(cfg.Output.AllowList...))
	}
	if filters(cfg) {
		opts = append(opts, jsonvalue.WithNewReplacer(func() jsonvalue.ReplacerFunc {
			return Replacer(cfg)
		}))
	}
	return opts, nil
}

// Apply runs the key rewrites configured in cfg over v.
func Apply(cfg *config.Config, v jsonvalue.Value) (jsonvalue.Value, error) {
	if !cfg.RewritesKeys() {
		return v, nil
	}
	return RenameKeys(v, cfg.GetKeyName)
}
