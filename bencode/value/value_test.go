package value

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDictKeepsKeysSorted(t *testing.T) {
	dict := NewDict().
		Set([]byte("bb"), Integer(1)).
		Set([]byte("a"), Integer(2)).
		Set([]byte("aa"), Integer(3)).
		Set([]byte{0xff}, Integer(4)).
		Set([]byte(""), Integer(5))

	var keys []string
	for key := range dict.All() {
		keys = append(keys, string(key))
	}

	expected := []string{"", "a", "aa", "bb", "\xff"}
	if diff := cmp.Diff(expected, keys); diff != "" {
		t.Errorf("keys are not in byte order (-expected +got):\n%s", diff)
	}
}

func TestDictSetIsPersistent(t *testing.T) {
	original := NewDict().Set([]byte("key"), Integer(1))
	updated := original.Set([]byte("key"), Integer(2))

	testGetInteger(original, "key", 1, t)
	testGetInteger(updated, "key", 2, t)

	removed := updated.Delete([]byte("key"))
	if removed.Len() != 0 || updated.Len() != 1 {
		t.Errorf("unexpected lengths after delete: %d, %d", removed.Len(), updated.Len())
	}
}

func TestDictBuilderLastKeyWins(t *testing.T) {
	builder := NewDictBuilder()
	builder.Set([]byte("key"), Integer(1))
	builder.Set([]byte("key"), Integer(2))

	dict := builder.Dict()
	if dict.Len() != 1 {
		t.Errorf("expected a single entry, got %d", dict.Len())
	}

	testGetInteger(dict, "key", 2, t)
}

func TestZeroDict(t *testing.T) {
	var dict Dict

	if dict.Len() != 0 {
		t.Errorf("zero dict is not empty")
	}

	if _, ok := dict.GetString("missing"); ok {
		t.Errorf("zero dict returned an entry")
	}

	if !dict.Equal(NewDict()) {
		t.Errorf("zero dict differs from an empty one")
	}

	dict = dict.Set([]byte("key"), ByteString("value"))
	if dict.Len() != 1 {
		t.Errorf("set on zero dict did not add an entry")
	}
}

func TestEqual(t *testing.T) {
	first := DictOf(map[string]Value{
		"list":   List{Integer(1), ByteString("x")},
		"binary": ByteString{0xff, 0xfe},
	})
	second := NewDict().
		Set([]byte("binary"), ByteString{0xff, 0xfe}).
		Set([]byte("list"), List{Integer(1), ByteString("x")})

	testEqual(first, second, true, t)
	testEqual(ByteString(nil), ByteString{}, true, t)
	testEqual(List(nil), List{}, true, t)
	testEqual(Integer(1), Integer(2), false, t)
	testEqual(Integer(1), ByteString("1"), false, t)
	testEqual(first, second.Set([]byte("extra"), Integer(0)), false, t)
	testEqual(nil, nil, true, t)
	testEqual(nil, Integer(0), false, t)
}

func TestConversions(t *testing.T) {
	integer, err := AsInteger(Integer(-5))
	if err != nil || integer != -5 {
		t.Errorf("failed to extract integer: %v, %v", integer, err)
	}

	text, err := AsText(ByteString("text"))
	if err != nil || text != "text" {
		t.Errorf("failed to extract text: %v, %v", text, err)
	}

	raw, err := AsBytes(ByteString{0xff, 0xfe})
	if err != nil || len(raw) != 2 {
		t.Errorf("failed to extract bytes: %v, %v", raw, err)
	}

	_, err = AsText(ByteString{0xff, 0xfe})
	if !errors.Is(err, ErrInvalidText) {
		t.Errorf("expected invalid text error, got %v", err)
	}

	testMismatch(AsInteger, ByteString("1"), IntegerKind, ByteStringKind, t)
	testMismatch(AsBytes, Integer(1), ByteStringKind, IntegerKind, t)
	testMismatch(AsText, List{}, ByteStringKind, ListKind, t)
	testMismatch(AsList, NewDict(), ListKind, DictKind, t)
	testMismatch(AsDict, List{}, DictKind, ListKind, t)
}

func TestLookup(t *testing.T) {
	root := DictOf(map[string]Value{
		"info": DictOf(map[string]Value{
			"files": List{
				DictOf(map[string]Value{"length": Integer(10)}),
				DictOf(map[string]Value{"length": Integer(20)}),
			},
		}),
	})

	found, err := Lookup(root, "info", "files", "1", "length")
	if err != nil {
		t.Fatalf("failed to look up path: %v", err)
	}

	if !Equal(found, Integer(20)) {
		t.Errorf("unexpected value: %v", found)
	}

	_, err = Lookup(root, "info", "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	_, err = Lookup(root, "info", "files", "2")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}

	var mismatchErr *TypeMismatchError
	_, err = Lookup(root, "info", "files", "0", "length", "deeper")
	if !errors.As(err, &mismatchErr) || mismatchErr.Expected != DictKind || mismatchErr.Actual != IntegerKind {
		t.Errorf("expected dictionary type mismatch, got %v", err)
	}

	_, err = Lookup(root, "info", "files", "0", "length", "0")
	if !errors.As(err, &mismatchErr) || mismatchErr.Expected != ListKind || mismatchErr.Actual != IntegerKind {
		t.Errorf("expected list type mismatch, got %v", err)
	}
}

func TestString(t *testing.T) {
	tree := List{
		Integer(-3),
		ByteString("spam"),
		ByteString{0xff, 0xfe},
		DictOf(map[string]Value{"b": List{}, "a": NewDict()}),
	}

	expected := `[-3, "spam", <ff fe>, { "a": {}, "b": [] }]`
	if tree.String() != expected {
		t.Errorf("values don't match: expected %v, got %v", expected, tree.String())
	}

	long := make(ByteString, 20)
	long[0] = 0x80
	expected = "<80 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00 ... (20 bytes)>"
	if long.String() != expected {
		t.Errorf("values don't match: expected %v, got %v", expected, long.String())
	}

	if lossy := (ByteString{'o', 'k', 0xff}).Lossy(); lossy != "ok�" {
		t.Errorf("unexpected lossy rendering: %q", lossy)
	}
}

func testGetInteger(dict Dict, key string, expected int64, t *testing.T) {
	t.Helper()

	found, ok := dict.GetString(key)
	if !ok {
		t.Fatalf("key %s not found", key)
	}

	integer, err := AsInteger(found)
	if err != nil {
		t.Fatal(err)
	}

	if integer != expected {
		t.Errorf("values don't match: expected %v, got %v", expected, integer)
	}
}

func testEqual(a, b Value, expected bool, t *testing.T) {
	t.Helper()

	if Equal(a, b) != expected || Equal(b, a) != expected {
		t.Errorf("Equal(%v, %v) should be %v", a, b, expected)
	}
}

func testMismatch[T any](extract func(Value) (T, error), v Value, expected, actual Kind, t *testing.T) {
	t.Helper()

	_, err := extract(v)

	var mismatchErr *TypeMismatchError
	if !errors.As(err, &mismatchErr) {
		t.Fatalf("expected type mismatch, got %v", err)
	}

	if mismatchErr.Expected != expected || mismatchErr.Actual != actual {
		t.Errorf("unexpected mismatch: %v", mismatchErr)
	}
}
