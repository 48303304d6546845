package serialize

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mertwole/bencode-inspect/bencode/value"
)

const DefaultMaxDepth = 512

var ErrNilValue = errors.New("cannot encode nil value")
var ErrDepthExceeded = errors.New("value nests too deeply")

type options struct {
	maxDepth int
}

type Option func(*options)

// WithMaxDepth limits nesting on encode. It guards against lists that contain themselves.
func WithMaxDepth(depth int) Option {
	return func(opts *options) {
		if depth >= 1 {
			opts.maxDepth = depth
		}
	}
}

func Encode(writer io.Writer, v value.Value, opts ...Option) error {
	encoded, err := EncodeBytes(v, opts...)
	if err != nil {
		return err
	}

	_, err = writer.Write(encoded)
	if err != nil {
		return fmt.Errorf("failed to write encoded value: %w", err)
	}

	return nil
}

func EncodeBytes(v value.Value, opts ...Option) ([]byte, error) {
	return Append(nil, v, opts...)
}

// Append appends the canonical encoding of v to dst.
func Append(dst []byte, v value.Value, opts ...Option) ([]byte, error) {
	config := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&config)
	}

	encoder := &encoder{maxDepth: config.maxDepth}

	encoded, err := encoder.appendValue(dst, v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value at %s: %w", encoder.location(), err)
	}

	return encoded, nil
}

// pathSegment is a list index, or a dictionary key when inDict is set.
type pathSegment struct {
	index  int
	key    []byte
	inDict bool
}

type encoder struct {
	maxDepth int
	// path leads from the root to the element being encoded. On error it is left
	// pointing at the element that failed.
	path []pathSegment
}

func (encoder *encoder) appendValue(dst []byte, v value.Value) ([]byte, error) {
	switch v := v.(type) {
	case value.Integer:
		dst = append(dst, 'i')
		dst = strconv.AppendInt(dst, int64(v), 10)
		return append(dst, 'e'), nil
	case value.ByteString:
		return appendString(dst, v), nil
	case value.List:
		if len(encoder.path)+1 > encoder.maxDepth {
			return nil, ErrDepthExceeded
		}

		dst = append(dst, 'l')
		for i, item := range v {
			encoder.path = append(encoder.path, pathSegment{index: i})

			var err error
			dst, err = encoder.appendValue(dst, item)
			if err != nil {
				return nil, err
			}

			encoder.path = encoder.path[:len(encoder.path)-1]
		}

		return append(dst, 'e'), nil
	case value.Dict:
		if len(encoder.path)+1 > encoder.maxDepth {
			return nil, ErrDepthExceeded
		}

		dst = append(dst, 'd')
		// The dictionary iterates in ascending byte order already.
		for key, entry := range v.All() {
			dst = appendString(dst, key)

			encoder.path = append(encoder.path, pathSegment{key: key, inDict: true})

			var err error
			dst, err = encoder.appendValue(dst, entry)
			if err != nil {
				return nil, err
			}

			encoder.path = encoder.path[:len(encoder.path)-1]
		}

		return append(dst, 'e'), nil
	case nil:
		return nil, ErrNilValue
	}

	return nil, fmt.Errorf("unserializable value type: %T", v)
}

// location renders the current path like root["info"][0].
func (encoder *encoder) location() string {
	var builder strings.Builder
	builder.WriteString("root")

	for _, segment := range encoder.path {
		if segment.inDict {
			fmt.Fprintf(&builder, "[%s]", value.ByteString(segment.key))
		} else {
			fmt.Fprintf(&builder, "[%d]", segment.index)
		}
	}

	return builder.String()
}

func appendString(dst []byte, raw []byte) []byte {
	dst = strconv.AppendInt(dst, int64(len(raw)), 10)
	dst = append(dst, ':')

	return append(dst, raw...)
}
