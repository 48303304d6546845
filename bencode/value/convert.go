package value

import (
	"errors"
	"fmt"
	"strconv"
	"unicode/utf8"
)

var ErrInvalidText = errors.New("byte string is not valid UTF-8")
var ErrNotFound = errors.New("no such element")

type TypeMismatchError struct {
	Expected Kind
	Actual   Kind
}

func (err *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: expected %s, got %s", err.Expected, err.Actual)
}

func mismatch(expected Kind, actual Value) error {
	if actual == nil {
		return fmt.Errorf("type mismatch: expected %s, got nil value", expected)
	}

	return &TypeMismatchError{Expected: expected, Actual: actual.Kind()}
}

func AsInteger(v Value) (int64, error) {
	integer, ok := v.(Integer)
	if !ok {
		return 0, mismatch(IntegerKind, v)
	}

	return int64(integer), nil
}

// AsBytes returns the raw payload of a byte string without copying it.
func AsBytes(v Value) ([]byte, error) {
	byteString, ok := v.(ByteString)
	if !ok {
		return nil, mismatch(ByteStringKind, v)
	}

	return byteString, nil
}

func AsText(v Value) (string, error) {
	byteString, ok := v.(ByteString)
	if !ok {
		return "", mismatch(ByteStringKind, v)
	}

	text, ok := byteString.Text()
	if !ok {
		return "", ErrInvalidText
	}

	return text, nil
}

func AsList(v Value) (List, error) {
	list, ok := v.(List)
	if !ok {
		return nil, mismatch(ListKind, v)
	}

	return list, nil
}

func AsDict(v Value) (Dict, error) {
	dict, ok := v.(Dict)
	if !ok {
		return Dict{}, mismatch(DictKind, v)
	}

	return dict, nil
}

// Text returns the payload as a string if it is valid UTF-8.
func (byteString ByteString) Text() (string, bool) {
	if !utf8.Valid(byteString) {
		return "", false
	}

	return string(byteString), true
}

// Lossy renders the payload as text, replacing invalid sequences with U+FFFD.
func (byteString ByteString) Lossy() string {
	return toValidUTF8(byteString)
}

// Lookup walks a path of dict keys and list indices starting at root.
func Lookup(root Value, path ...string) (Value, error) {
	current := root
	for depth, segment := range path {
		switch container := current.(type) {
		case Dict:
			next, ok := container.GetString(segment)
			if !ok {
				return nil, fmt.Errorf("failed to find key %q at depth %d: %w", segment, depth, ErrNotFound)
			}

			current = next
		case List:
			index, err := strconv.Atoi(segment)
			if err != nil {
				return nil, fmt.Errorf("failed to parse list index %q at depth %d: %w", segment, depth, err)
			}

			if index < 0 || index >= len(container) {
				return nil, fmt.Errorf(
					"failed to find index %d at depth %d, list has %d elements: %w",
					index, depth, len(container), ErrNotFound,
				)
			}

			current = container[index]
		default:
			expected := DictKind
			if _, err := strconv.Atoi(segment); err == nil {
				expected = ListKind
			}

			return nil, fmt.Errorf("failed to descend into %q at depth %d: %w", segment, depth, mismatch(expected, current))
		}
	}

	return current, nil
}
