// Copyright 2026 The Ares Authors
// SPDX-License-Identifier: MIT

// Package jsattr turns nested attribute structures into JavaScript literal
// source text.
//
// Values are JSON-encoded unless wrapped in Raw, in which case the text is
// emitted verbatim. Maps are emitted with sorted keys; use Object when the
// key order matters. The resolver performs no cycle detection: a
// self-referential structure recurses until the stack is exhausted.
package jsattr

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Value is either a Literal or a Raw JavaScript expression.
type Value interface {
	isValue()
}

// Literal is a value that is JSON-encoded on output.
type Literal struct {
	V any
}

// Raw is JavaScript source emitted without quoting.
type Raw string

func (Literal) isValue() {}
func (Raw) isValue()     {}

// Auto maps a string to Raw when it starts with "function" or
// "JSON.stringify", and to a Literal otherwise.
func Auto(s string) Value {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "function") || strings.HasPrefix(trimmed, "JSON.stringify") {
		return Raw(s)
	}
	return Literal{V: s}
}

// Pair is one key of an Object.
type Pair struct {
	Key   string
	Value any
}

// Object is an ordered set of key/value pairs.
type Object []Pair

// Set replaces the value for key, or appends a new pair.
func (o Object) Set(key string, v any) Object {
	for i := range o {
		if o[i].Key == key {
			o[i].Value = v
			return o
		}
	}
	return append(o, Pair{Key: key, Value: v})
}

// AppendObject appends one "key: value" fragment per entry of src to dst.
// src must be an Object or a map with string keys. Keys that are not plain
// identifiers, such as column names with spaces, are quoted.
func AppendObject(dst []string, src any) ([]string, error) {
	pairs, err := toPairs(src)
	if err != nil {
		return dst, err
	}
	for _, p := range pairs {
		v, err := Encode(p.Value)
		if err != nil {
			return dst, fmt.Errorf("key %q: %w", p.Key, err)
		}
		dst = append(dst, objectKey(p.Key)+": "+v)
	}
	return dst, nil
}

// AppendArray appends one positional fragment per item to dst.
func AppendArray(dst []string, items []any) ([]string, error) {
	for i, item := range items {
		v, err := Encode(item)
		if err != nil {
			return dst, fmt.Errorf("index %d: %w", i, err)
		}
		dst = append(dst, v)
	}
	return dst, nil
}

// Encode returns the JavaScript literal for v.
func Encode(v any) (string, error) {
	switch t := v.(type) {
	case Raw:
		return string(t), nil
	case Literal:
		return marshal(t.V)
	case Object:
		return encodeObject(t)
	case map[string]any:
		return encodeObject(t)
	case []any:
		return encodeArray(t)
	case nil:
		return "null", nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return encodeObject(v)
		}
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() != reflect.Uint8 {
			items := make([]any, rv.Len())
			for i := range items {
				items[i] = rv.Index(i).Interface()
			}
			return encodeArray(items)
		}
	}
	return marshal(v)
}

// MustEncode is like Encode but panics on error.
func MustEncode(v any) string {
	s, err := Encode(v)
	if err != nil {
		panic(err)
	}
	return s
}

func encodeObject(src any) (string, error) {
	frags, err := AppendObject(nil, src)
	if err != nil {
		return "", err
	}
	return "{" + strings.Join(frags, ", ") + "}", nil
}

func encodeArray(items []any) (string, error) {
	frags, err := AppendArray(nil, items)
	if err != nil {
		return "", err
	}
	return "[" + strings.Join(frags, ", ") + "]", nil
}

func toPairs(src any) ([]Pair, error) {
	switch t := src.(type) {
	case Object:
		return t, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		pairs := make([]Pair, len(keys))
		for i, k := range keys {
			pairs[i] = Pair{Key: k, Value: t[k]}
		}
		return pairs, nil
	}

	rv := reflect.ValueOf(src)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("jsattr: cannot build an object from %T", src)
	}
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	pairs := make([]Pair, len(keys))
	for i, k := range keys {
		pairs[i] = Pair{Key: k.String(), Value: rv.MapIndex(k).Interface()}
	}
	return pairs, nil
}

// marshal JSON-encodes v without HTML escaping. "</" is written as "<\/"
// so the literal cannot close an enclosing script element.
func marshal(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("jsattr: encode %T: %w", v, err)
	}
	out := strings.TrimSuffix(buf.String(), "\n")
	return strings.ReplaceAll(out, "</", `<\/`), nil
}

// objectKey returns k bare when it is an identifier, otherwise quoted.
func objectKey(k string) string {
	if isIdentifier(k) {
		return k
	}
	s, _ := marshal(k)
	return s
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// AutoTree returns a copy of v in which every string leaf that Auto
// classifies as code is replaced by Raw. Other strings are kept as plain
// strings. It is used for attribute trees read from definition files, where
// raw code cannot be marked explicitly.
func AutoTree(v any) any {
	switch t := v.(type) {
	case string:
		if raw, ok := Auto(t).(Raw); ok {
			return raw
		}
		return t
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = AutoTree(x)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = AutoTree(x)
		}
		return out
	case Object:
		out := make(Object, len(t))
		for i, p := range t {
			out[i] = Pair{Key: p.Key, Value: AutoTree(p.Value)}
		}
		return out
	}
	return v
}
