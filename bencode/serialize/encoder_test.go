package serialize

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/mertwole/bencode-inspect/bencode/value"
)

func TestIntegerEncode(t *testing.T) {
	testEncode(value.Integer(0), "i0e", t)
	testEncode(value.Integer(-5), "i-5e", t)
	testEncode(value.Integer(1234567890), "i1234567890e", t)
	testEncode(value.Integer(-9223372036854775808), "i-9223372036854775808e", t)
}

func TestStringEncode(t *testing.T) {
	testEncode(value.ByteString(nil), "0:", t)
	testEncode(value.ByteString("spam"), "4:spam", t)
	testEncode(value.ByteString{0xff, 0xfe}, "2:\xff\xfe", t)
	testEncode(value.ByteString("with:colon e"), "12:with:colon e", t)
}

func TestListEncode(t *testing.T) {
	testEncode(value.List{}, "le", t)
	testEncode(
		value.List{value.Integer(1), value.Integer(2), value.List{value.Integer(3), value.Integer(4)}},
		"li1ei2eli3ei4eee",
		t,
	)
}

func TestDictEncodeSortsKeys(t *testing.T) {
	testEncode(value.NewDict(), "de", t)
	testEncode(
		value.DictOf(map[string]value.Value{"bb": value.Integer(1), "aa": value.Integer(2)}),
		"d2:aai2e2:bbi1ee",
		t,
	)

	dict := value.NewDict().
		Set([]byte{0xff}, value.Integer(1)).
		Set([]byte("b"), value.Integer(2)).
		Set([]byte("ab"), value.Integer(3)).
		Set([]byte("a"), value.Integer(4)).
		Set([]byte("B"), value.Integer(5))
	testEncode(dict, "d1:Bi5e1:ai4e2:abi3e1:bi2e1:\xffi1ee", t)
}

func TestEncodeIsDeterministic(t *testing.T) {
	entries := make(map[string]value.Value)
	for _, key := range strings.Split("announce info comment created by encoding url-list", " ") {
		entries[key] = value.ByteString(key)
	}

	first, err := EncodeBytes(value.DictOf(entries))
	if err != nil {
		t.Fatal(err)
	}

	for range 20 {
		again, err := EncodeBytes(value.DictOf(entries))
		if err != nil {
			t.Fatal(err)
		}

		if !bytes.Equal(first, again) {
			t.Fatalf("encoding differs between runs: %q and %q", first, again)
		}
	}
}

func TestEncodeErrors(t *testing.T) {
	_, err := EncodeBytes(nil)
	if !errors.Is(err, ErrNilValue) {
		t.Errorf("expected nil value error, got %v", err)
	}

	_, err = EncodeBytes(value.List{value.Integer(1), nil})
	if !errors.Is(err, ErrNilValue) {
		t.Errorf("expected nil value error, got %v", err)
	}

	selfReferencing := value.List{nil}
	selfReferencing[0] = selfReferencing
	_, err = EncodeBytes(selfReferencing)
	if !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("expected depth error, got %v", err)
	}

	nested := value.List{value.List{value.List{}}}
	_, err = EncodeBytes(nested, WithMaxDepth(2))
	if !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("expected depth error, got %v", err)
	}

	testEncode(nested, "llleee", t)
}

func TestEncodeErrorLocation(t *testing.T) {
	tree := value.DictOf(map[string]value.Value{
		"info": value.DictOf(map[string]value.Value{
			"files": value.List{value.Integer(1), nil},
		}),
	})

	_, err := EncodeBytes(tree)
	expected := `failed to encode value at root["info"]["files"][1]: cannot encode nil value`
	if err == nil || err.Error() != expected {
		t.Errorf("got unexpected error. expected %q, got %v", expected, err)
	}

	deep := value.Value(value.List{})
	for range 600 {
		deep = value.List{deep}
	}

	_, err = EncodeBytes(deep)
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("expected depth error, got %v", err)
	}

	if count := strings.Count(err.Error(), "failed to encode"); count != 1 {
		t.Errorf("expected the error to be wrapped once, got %d times: %v", count, err)
	}

	if !strings.HasPrefix(err.Error(), "failed to encode value at root[0][0]") {
		t.Errorf("got unexpected error: %v", err)
	}

	_, err = EncodeBytes(deep, WithMaxDepth(601))
	if err != nil {
		t.Errorf("unexpected error with a raised limit: %v", err)
	}
}

func TestEncodeToWriter(t *testing.T) {
	result := bytes.NewBufferString("prefix:")

	err := Encode(result, value.List{value.ByteString("a")})
	if err != nil {
		t.Fatal(err)
	}

	if result.String() != "prefix:l1:ae" {
		t.Errorf("got unexpected value: %s", result.String())
	}

	appended, err := Append([]byte("x"), value.Integer(7))
	if err != nil || string(appended) != "xi7e" {
		t.Errorf("got unexpected value: %s, %v", appended, err)
	}
}

func testEncode(v value.Value, expected string, t *testing.T) {
	t.Helper()

	result, err := EncodeBytes(v)
	if err != nil {
		t.Error(err)
	}

	if expected != string(result) {
		t.Errorf("got unexpected value. expected %q, got %q", expected, result)
	}
}
