package deserialize

import (
	"fmt"
	"strings"
)

const nearContextLength = 24

// ErrorKind classifies decode failures. It implements error so that
// errors.Is(err, deserialize.MalformedInteger) can be used on returned errors.
type ErrorKind int

const (
	UnterminatedInteger ErrorKind = iota + 1
	MalformedInteger
	UnterminatedString
	MalformedStringLength
	UnterminatedList
	UnterminatedDict
	NonStringDictKey
	OddDictEntryCount
	UnknownTag
	TrailingBytes
	RecursionLimitExceeded
)

func (kind ErrorKind) String() string {
	switch kind {
	case UnterminatedInteger:
		return "unterminated integer"
	case MalformedInteger:
		return "malformed integer"
	case UnterminatedString:
		return "unterminated string"
	case MalformedStringLength:
		return "malformed string length"
	case UnterminatedList:
		return "unterminated list"
	case UnterminatedDict:
		return "unterminated dictionary"
	case NonStringDictKey:
		return "non-string dictionary key"
	case OddDictEntryCount:
		return "odd dictionary entry count"
	case UnknownTag:
		return "unknown tag"
	case TrailingBytes:
		return "trailing bytes"
	case RecursionLimitExceeded:
		return "recursion limit exceeded"
	default:
		return fmt.Sprintf("error kind %d", int(kind))
	}
}

func (kind ErrorKind) Error() string {
	return kind.String()
}

// Element names the sub-parser that failed.
type Element string

const (
	IntegerElement Element = "integer"
	StringElement  Element = "string"
	ListElement    Element = "list"
	DictElement    Element = "dictionary"
	TagElement     Element = "tag"
)

type DecodeError struct {
	Kind    ErrorKind
	Element Element
	Offset  int
	Reason  string
	// Near is a lossy rendering of the input starting at Offset.
	Near string
}

func (err *DecodeError) Error() string {
	return fmt.Sprintf(
		"failed to parse %s at offset %d: %s: %s (near %q)",
		err.Element, err.Offset, err.Kind, err.Reason, err.Near,
	)
}

func (err *DecodeError) Is(target error) bool {
	kind, ok := target.(ErrorKind)
	return ok && kind == err.Kind
}

func newDecodeError(data []byte, offset int, kind ErrorKind, element Element, reason string) *DecodeError {
	return &DecodeError{
		Kind:    kind,
		Element: element,
		Offset:  offset,
		Reason:  reason,
		Near:    near(data, offset),
	}
}

func near(data []byte, offset int) string {
	if offset >= len(data) {
		return ""
	}

	end := min(offset+nearContextLength, len(data))

	return strings.ToValidUTF8(string(data[offset:end]), "�")
}
