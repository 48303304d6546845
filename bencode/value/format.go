package value

import (
	"fmt"
	"strconv"
	"strings"
)

const maxRenderedBinaryBytes = 16

func (integer Integer) String() string {
	return strconv.FormatInt(int64(integer), 10)
}

func (byteString ByteString) String() string {
	if text, ok := byteString.Text(); ok {
		return strconv.Quote(text)
	}

	var builder strings.Builder
	builder.WriteString("<")

	shown := min(len(byteString), maxRenderedBinaryBytes)
	for i, b := range byteString[:shown] {
		if i > 0 {
			builder.WriteString(" ")
		}
		fmt.Fprintf(&builder, "%02x", b)
	}

	if shown < len(byteString) {
		fmt.Fprintf(&builder, " ... (%d bytes)", len(byteString))
	}

	builder.WriteString(">")

	return builder.String()
}

func (list List) String() string {
	items := make([]string, 0, len(list))
	for _, item := range list {
		items = append(items, render(item))
	}

	return "[" + strings.Join(items, ", ") + "]"
}

func (dict Dict) String() string {
	if dict.Len() == 0 {
		return "{}"
	}

	entries := make([]string, 0, dict.Len())
	for key, entry := range dict.All() {
		entries = append(entries, ByteString(key).String()+": "+render(entry))
	}

	return "{ " + strings.Join(entries, ", ") + " }"
}

func render(v Value) string {
	if v == nil {
		return "<nil>"
	}

	return v.String()
}

func toValidUTF8(data []byte) string {
	return strings.ToValidUTF8(string(data), "�")
}
