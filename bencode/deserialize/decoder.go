package deserialize

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/mertwole/bencode-inspect/bencode/value"
)

const DefaultMaxDepth = 512

type options struct {
	maxDepth int
}

type Option func(*options)

// WithMaxDepth limits how deeply lists and dictionaries may nest. Values below 1 are ignored.
func WithMaxDepth(depth int) Option {
	return func(opts *options) {
		if depth >= 1 {
			opts.maxDepth = depth
		}
	}
}

type decoder struct {
	data     []byte
	maxDepth int
}

func newDecoder(data []byte, opts []Option) *decoder {
	config := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&config)
	}

	return &decoder{data: data, maxDepth: config.maxDepth}
}

// Decode parses data as exactly one bencoded value. Bytes left after it are an error.
func Decode(data []byte, opts ...Option) (value.Value, error) {
	decoded, consumed, err := DecodeOne(data, opts...)
	if err != nil {
		return nil, err
	}

	if consumed != len(data) {
		return nil, newDecodeError(
			data, consumed, TrailingBytes, TagElement,
			fmt.Sprintf("%d bytes left after the top-level value", len(data)-consumed),
		)
	}

	return decoded, nil
}

// DecodeOne parses the value at the start of data and reports how many bytes it occupies.
func DecodeOne(data []byte, opts ...Option) (value.Value, int, error) {
	decoder := newDecoder(data, opts)

	decoded, end, err := decoder.decodeAt(0, 0)
	if err != nil {
		return nil, 0, err
	}

	return decoded, end, nil
}

func (decoder *decoder) decodeAt(offset int, depth int) (value.Value, int, error) {
	if offset >= len(decoder.data) {
		return nil, offset, decoder.fail(offset, UnknownTag, TagElement, "unexpected end of input")
	}

	tag := decoder.data[offset]
	switch {
	case tag == 'i':
		return decoder.decodeInteger(offset)
	case tag == 'l':
		return decoder.decodeList(offset, depth+1)
	case tag == 'd':
		return decoder.decodeDict(offset, depth+1)
	case isDigit(tag):
		raw, end, err := decoder.readString(offset)
		if err != nil {
			return nil, offset, err
		}

		return value.ByteString(bytes.Clone(raw)), end, nil
	default:
		return nil, offset, decoder.fail(
			offset, UnknownTag, TagElement,
			fmt.Sprintf("unexpected character %q, expected one of `i`, `l`, `d`, `0-9`", tag),
		)
	}
}

func (decoder *decoder) decodeInteger(offset int) (value.Value, int, error) {
	start := offset + 1

	terminator := bytes.IndexByte(decoder.data[start:], 'e')
	if terminator < 0 {
		return nil, offset, decoder.fail(offset, UnterminatedInteger, IntegerElement, "missing `e` terminator")
	}
	terminator += start

	integer, err := parseInteger(decoder.data[start:terminator])
	if err != nil {
		return nil, offset, decoder.fail(offset, MalformedInteger, IntegerElement, err.Error())
	}

	return value.Integer(integer), terminator + 1, nil
}

// readString returns the payload of the byte string at offset without copying it.
func (decoder *decoder) readString(offset int) ([]byte, int, error) {
	colon := bytes.IndexByte(decoder.data[offset:], ':')
	if colon < 0 {
		return nil, offset, decoder.fail(offset, UnterminatedString, StringElement, "missing `:` after length")
	}
	colon += offset

	length, err := parseLength(decoder.data[offset:colon])
	if err != nil {
		return nil, offset, decoder.fail(offset, MalformedStringLength, StringElement, err.Error())
	}

	start := colon + 1
	remaining := uint64(len(decoder.data) - start)
	if length > remaining {
		return nil, offset, decoder.fail(
			offset, UnterminatedString, StringElement,
			fmt.Sprintf("declared length %d exceeds the %d remaining bytes", length, remaining),
		)
	}

	end := start + int(length)

	return decoder.data[start:end], end, nil
}

func (decoder *decoder) decodeList(offset int, depth int) (value.Value, int, error) {
	if depth > decoder.maxDepth {
		return nil, offset, decoder.fail(
			offset, RecursionLimitExceeded, ListElement,
			fmt.Sprintf("nesting is deeper than %d levels", decoder.maxDepth),
		)
	}

	list := make(value.List, 0)

	cursor := offset + 1
	for {
		if cursor >= len(decoder.data) {
			return nil, offset, decoder.fail(offset, UnterminatedList, ListElement, "missing `e` terminator")
		}

		if decoder.data[cursor] == 'e' {
			return list, cursor + 1, nil
		}

		item, next, err := decoder.decodeAt(cursor, depth)
		if err != nil {
			return nil, offset, err
		}

		list = append(list, item)
		cursor = next
	}
}

func (decoder *decoder) decodeDict(offset int, depth int) (value.Value, int, error) {
	if depth > decoder.maxDepth {
		return nil, offset, decoder.fail(
			offset, RecursionLimitExceeded, DictElement,
			fmt.Sprintf("nesting is deeper than %d levels", decoder.maxDepth),
		)
	}

	builder := value.NewDictBuilder()

	cursor := offset + 1
	for {
		if cursor >= len(decoder.data) {
			return nil, offset, decoder.fail(offset, UnterminatedDict, DictElement, "missing `e` terminator")
		}

		tag := decoder.data[cursor]
		switch {
		case tag == 'e':
			return builder.Dict(), cursor + 1, nil
		case tag == 'i' || tag == 'l' || tag == 'd':
			return nil, offset, decoder.fail(
				cursor, NonStringDictKey, DictElement,
				fmt.Sprintf("keys must be byte strings, found %s", tagName(tag)),
			)
		case !isDigit(tag):
			_, _, err := decoder.decodeAt(cursor, depth)
			return nil, offset, err
		}

		key, next, err := decoder.readString(cursor)
		if err != nil {
			return nil, offset, err
		}
		cursor = next

		if cursor >= len(decoder.data) {
			return nil, offset, decoder.fail(
				offset, UnterminatedDict, DictElement,
				fmt.Sprintf("input ends before the value of key %q", value.ByteString(key).Lossy()),
			)
		}

		if decoder.data[cursor] == 'e' {
			return nil, offset, decoder.fail(
				cursor, OddDictEntryCount, DictElement,
				fmt.Sprintf("key %q has no value", value.ByteString(key).Lossy()),
			)
		}

		entry, next, err := decoder.decodeAt(cursor, depth)
		if err != nil {
			return nil, offset, err
		}

		// Duplicate keys: the last one wins.
		builder.Set(key, entry)
		cursor = next
	}
}

func (decoder *decoder) fail(offset int, kind ErrorKind, element Element, reason string) error {
	return newDecodeError(decoder.data, offset, kind, element, reason)
}

func parseInteger(literal []byte) (int64, error) {
	if len(literal) == 0 {
		return 0, errors.New("empty integer")
	}

	negative := literal[0] == '-'
	digits := literal
	if negative {
		digits = literal[1:]
	}

	if len(digits) == 0 {
		return 0, errors.New("missing digits after `-`")
	}

	if !allDigits(digits) {
		return 0, fmt.Errorf("non-numeric content %q", literal)
	}

	if digits[0] == '0' {
		if len(digits) > 1 {
			return 0, errors.New("leading zeros are not allowed")
		}

		if negative {
			return 0, errors.New("negative zero is not allowed")
		}
	}

	integer, err := strconv.ParseInt(string(literal), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s does not fit in 64 bits", literal)
	}

	return integer, nil
}

func parseLength(literal []byte) (uint64, error) {
	if len(literal) == 0 || !allDigits(literal) {
		return 0, fmt.Errorf("non-numeric length %q", literal)
	}

	if literal[0] == '0' && len(literal) > 1 {
		return 0, errors.New("leading zeros are not allowed")
	}

	length, err := strconv.ParseUint(string(literal), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("length %s is too large", literal)
	}

	return length, nil
}

func allDigits(literal []byte) bool {
	for _, char := range literal {
		if !isDigit(char) {
			return false
		}
	}

	return true
}

func isDigit(char byte) bool {
	return char >= '0' && char <= '9'
}

func tagName(tag byte) string {
	switch tag {
	case 'i':
		return "an integer"
	case 'l':
		return "a list"
	default:
		return "a dictionary"
	}
}
