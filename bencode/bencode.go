package bencode

import (
	"bytes"
	"io"
	"math"

	"github.com/mertwole/bencode-inspect/bencode/deserialize"
	"github.com/mertwole/bencode-inspect/bencode/serialize"
	"github.com/mertwole/bencode-inspect/bencode/value"
)

type DecodeError = deserialize.DecodeError
type TypeMismatchError = value.TypeMismatchError

func Decode(data []byte, opts ...deserialize.Option) (value.Value, error) {
	return deserialize.Decode(data, opts...)
}

func DecodeOne(data []byte, opts ...deserialize.Option) (value.Value, int, error) {
	return deserialize.DecodeOne(data, opts...)
}

// Encode returns the canonical encoding of v. Trees decoded with a raised depth limit
// need the same limit here.
func Encode(v value.Value, opts ...serialize.Option) ([]byte, error) {
	return serialize.EncodeBytes(v, opts...)
}

func Deserialize(reader io.Reader, value any) error {
	return deserialize.Deserialize(reader, value)
}

func Serialize(writer io.Writer, value any) error {
	return serialize.Serialize(writer, value)
}

func Unmarshal(data []byte, value any) error {
	return deserialize.Unmarshal(data, value)
}

func Marshal(value any) ([]byte, error) {
	return serialize.Marshal(value)
}

// IsCanonical reports whether data decodes and re-encodes to the very same bytes.
func IsCanonical(data []byte, opts ...deserialize.Option) (bool, error) {
	decoded, err := deserialize.Decode(data, opts...)
	if err != nil {
		return false, err
	}

	// Decoding already bounded the depth.
	encoded, err := serialize.EncodeBytes(decoded, serialize.WithMaxDepth(math.MaxInt))
	if err != nil {
		return false, err
	}

	return bytes.Equal(encoded, data), nil
}
