package bencode

import (
	"bytes"
	"testing"

	fuzz "github.com/AdaLogics/go-fuzz-headers"

	"github.com/mertwole/bencode-inspect/bencode/value"
)

const maxFuzzDepth = 6

func FuzzDecode(f *testing.F) {
	for _, seed := range []string{
		"i0e", "i-5e", "i-0e", "i05e", "10:hi", "4:spam", "le", "li1ei2eli3ei4eee",
		"d3:bbi1e3:aai2ee", "di1ei2ee", "d1:ae", "lllleeee", "2:\xff\xfe",
	} {
		f.Add([]byte(seed))
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		decoded, err := Decode(data)
		if err != nil {
			return
		}

		encoded, err := Encode(decoded)
		if err != nil {
			t.Fatalf("failed to encode decoded value %v: %v", decoded, err)
		}

		again, err := Decode(encoded)
		if err != nil {
			t.Fatalf("failed to decode canonical encoding %q: %v", encoded, err)
		}

		if !value.Equal(decoded, again) {
			t.Fatalf("round trip changed %v into %v", decoded, again)
		}
	})
}

func FuzzEncodeGeneratedTree(f *testing.F) {
	f.Fuzz(func(t *testing.T, data []byte) {
		consumer := fuzz.NewConsumer(data)

		tree, err := generateValue(consumer, maxFuzzDepth)
		if err != nil {
			return
		}

		encoded, err := Encode(tree)
		if err != nil {
			t.Fatalf("failed to encode %v: %v", tree, err)
		}

		decoded, err := Decode(encoded)
		if err != nil {
			t.Fatalf("failed to decode %q: %v", encoded, err)
		}

		if !value.Equal(tree, decoded) {
			t.Fatalf("round trip changed %v into %v", tree, decoded)
		}

		reencoded, err := Encode(decoded)
		if err != nil || !bytes.Equal(encoded, reencoded) {
			t.Fatalf("re-encoding is not idempotent: %q and %q (%v)", encoded, reencoded, err)
		}
	})
}

func generateValue(consumer *fuzz.ConsumeFuzzer, depth int) (value.Value, error) {
	kind, err := consumer.GetInt()
	if err != nil {
		return nil, err
	}

	if depth == 0 {
		kind %= 2
	}

	switch abs(kind) % 4 {
	case 0:
		integer, err := consumer.GetInt()
		if err != nil {
			return nil, err
		}

		return value.Integer(integer), nil
	case 1:
		raw, err := consumer.GetBytes()
		if err != nil {
			return nil, err
		}

		return value.ByteString(raw), nil
	case 2:
		count, err := consumer.GetInt()
		if err != nil {
			return nil, err
		}

		list := make(value.List, 0)
		for range abs(count) % 5 {
			item, err := generateValue(consumer, depth-1)
			if err != nil {
				return nil, err
			}

			list = append(list, item)
		}

		return list, nil
	default:
		count, err := consumer.GetInt()
		if err != nil {
			return nil, err
		}

		dict := value.NewDict()
		for range abs(count) % 5 {
			key, err := consumer.GetBytes()
			if err != nil {
				return nil, err
			}

			entry, err := generateValue(consumer, depth-1)
			if err != nil {
				return nil, err
			}

			dict = dict.Set(key, entry)
		}

		return dict, nil
	}
}

func abs(integer int) int {
	if integer < 0 {
		return -integer
	}

	return integer
}
