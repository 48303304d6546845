// Package value holds the in-memory representation of decoded bencode elements.
package value

import (
	"bytes"
)

type Kind int

const (
	IntegerKind Kind = iota
	ByteStringKind
	ListKind
	DictKind
)

func (kind Kind) String() string {
	switch kind {
	case IntegerKind:
		return "integer"
	case ByteStringKind:
		return "byte string"
	case ListKind:
		return "list"
	case DictKind:
		return "dictionary"
	default:
		return "unknown"
	}
}

// Value is one of Integer, ByteString, List or Dict.
type Value interface {
	Kind() Kind
	String() string

	bencodeValue()
}

type Integer int64

// ByteString is a length-prefixed byte sequence. It is not guaranteed to be valid UTF-8.
type ByteString []byte

type List []Value

func (Integer) Kind() Kind    { return IntegerKind }
func (ByteString) Kind() Kind { return ByteStringKind }
func (List) Kind() Kind       { return ListKind }
func (Dict) Kind() Kind       { return DictKind }

func (Integer) bencodeValue()    {}
func (ByteString) bencodeValue() {}
func (List) bencodeValue()       {}
func (Dict) bencodeValue()       {}

// Equal reports whether two trees hold the same data. Nil and empty byte strings
// (and lists) are equal, dict insertion order is irrelevant.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch a := a.(type) {
	case Integer:
		b, ok := b.(Integer)
		return ok && a == b
	case ByteString:
		b, ok := b.(ByteString)
		return ok && bytes.Equal(a, b)
	case List:
		b, ok := b.(List)
		if !ok || len(a) != len(b) {
			return false
		}

		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}

		return true
	case Dict:
		b, ok := b.(Dict)
		return ok && a.Equal(b)
	}

	return false
}
