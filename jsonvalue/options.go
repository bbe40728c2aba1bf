package jsonvalue

import "strings"

// maxIndent caps indentation width, matching the usual JSON stringify limit.
const maxIndent = 10

// ReviverFunc post-processes each decoded member. It sees children before
// their parents and the root last, with key "". Returning nil removes an
// object member or leaves an absent slot in an array.
type ReviverFunc func(key string, value Value) Value

// ReplacerFunc rewrites each member before it is encoded. It sees the root
// first, with key "", then parents before their children. Returning nil omits
// an object member or writes null in an array.
type ReplacerFunc func(key string, value Value) Value

// DecodeOption configures Decode.
type DecodeOption func(*decodeOptions)

type decodeOptions struct {
	reviver ReviverFunc
}

// WithReviver installs a reviver.
func WithReviver(fn ReviverFunc) DecodeOption {
	return func(o *decodeOptions) {
		o.reviver = fn
	}
}

// EncodeOption configures Encode.
type EncodeOption func(*encodeOptions)

type encodeOptions struct {
	replacer ReplacerFunc
	allow    []string
	indent   string
}

// WithReplacer installs a replacer.
func WithReplacer(fn ReplacerFunc) EncodeOption {
	return func(o *encodeOptions) {
		o.replacer = fn
	}
}

// WithNewReplacer installs the replacer returned by newFn, which is called
// once per Encode. Use it for replacers that keep state across calls, such as
// one that tells the root apart from a member with the empty key.
func WithNewReplacer(newFn func() ReplacerFunc) EncodeOption {
	return func(o *encodeOptions) {
		o.replacer = newFn()
	}
}

// WithAllowList restricts every object to the listed keys, written in the
// order given. Use IndexKey for integer keys. Calling it with no keys writes
// every object as {}.
func WithAllowList(keys ...string) EncodeOption {
	return func(o *encodeOptions) {
		seen := make(map[string]struct{}, len(keys))
		allow := make([]string, 0, len(keys))
		for _, k := range keys {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			allow = append(allow, k)
		}
		o.allow = allow
	}
}

// WithIndent indents nested output by n spaces. n is clamped to [0, 10]; zero
// means compact output.
func WithIndent(n int) EncodeOption {
	return func(o *encodeOptions) {
		n = max(0, min(n, maxIndent))
		o.indent = strings.Repeat(" ", n)
	}
}

// WithIndentString indents nested output with the first ten characters of s.
// An empty s means compact output.
func WithIndentString(s string) EncodeOption {
	return func(o *encodeOptions) {
		if r := []rune(s); len(r) > maxIndent {
			s = string(r[:maxIndent])
		}
		o.indent = s
	}
}
