// Package jsonpath walks decoded JSON values by fixed paths.
//
// A path is an ordered sequence of steps, each either an object key or an
// array index. Lookup is a pure function of (document, path): it either
// returns the exact value at the path or fails, never a partial result.
package jsonpath

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrPathNotFound means an intermediate step named a missing key or an
	// index beyond the sequence length.
	ErrPathNotFound = errors.New("path not found")

	// ErrTypeMismatch means a step expected an object or array but the
	// current value is something else.
	ErrTypeMismatch = errors.New("type mismatch")
)

// Step is one path element: an object key or an array index.
type Step struct {
	key   string
	index int
	isKey bool
}

// Key builds an object-key step.
func Key(k string) Step { return Step{key: k, isKey: true} }

// Index builds an array-index step.
func Index(i int) Step { return Step{index: i} }

func (s Step) String() string {
	if s.isKey {
		return s.key
	}
	return "[" + strconv.Itoa(s.index) + "]"
}

// Path is an ordered sequence of steps applied from the document root.
type Path []Step

func (p Path) String() string {
	var b strings.Builder
	for i, s := range p {
		if s.isKey && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// PathError reports a failed lookup. Path holds the prefix up to and
// including the failing step. It unwraps to ErrPathNotFound or
// ErrTypeMismatch so callers can branch with errors.Is.
type PathError struct {
	Path Path
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("jsonpath %q: %v", e.Path.String(), e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// Decode unmarshals a JSON body into a navigable value (objects become
// map[string]any, arrays []any).
func Decode(body []byte) (any, error) {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return doc, nil
}

// Get applies the path steps in order and returns the value reached.
func Get(doc any, path Path) (any, error) {
	cur := doc
	for i, step := range path {
		if step.isKey {
			obj, ok := cur.(map[string]any)
			if !ok {
				return nil, &PathError{Path: path[:i+1], Err: ErrTypeMismatch}
			}
			v, ok := obj[step.key]
			if !ok {
				return nil, &PathError{Path: path[:i+1], Err: ErrPathNotFound}
			}
			cur = v
			continue
		}

		arr, ok := cur.([]any)
		if !ok {
			return nil, &PathError{Path: path[:i+1], Err: ErrTypeMismatch}
		}
		if step.index < 0 || step.index >= len(arr) {
			return nil, &PathError{Path: path[:i+1], Err: ErrPathNotFound}
		}
		cur = arr[step.index]
	}
	return cur, nil
}

// GetString is Get constrained to a string value.
func GetString(doc any, path Path) (string, error) {
	v, err := Get(doc, path)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", &PathError{Path: path, Err: ErrTypeMismatch}
	}
	return s, nil
}

// GetNumber is Get constrained to a number. encoding/json decodes all JSON
// numbers to float64.
func GetNumber(doc any, path Path) (float64, error) {
	v, err := Get(doc, path)
	if err != nil {
		return 0, err
	}
	n, ok := v.(float64)
	if !ok {
		return 0, &PathError{Path: path, Err: ErrTypeMismatch}
	}
	return n, nil
}

// GetInt is GetNumber truncated to an int64.
func GetInt(doc any, path Path) (int64, error) {
	n, err := GetNumber(doc, path)
	if err != nil {
		return 0, err
	}
	return int64(n), nil
}

// GetArray is Get constrained to an array value.
func GetArray(doc any, path Path) ([]any, error) {
	v, err := Get(doc, path)
	if err != nil {
		return nil, err
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, &PathError{Path: path, Err: ErrTypeMismatch}
	}
	return arr, nil
}
