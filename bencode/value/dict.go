package value

import (
	"bytes"
	"iter"

	iradix "github.com/hashicorp/go-immutable-radix/v2"
)

// Dict maps byte-string keys to values. It is immutable: Set returns a new Dict
// sharing structure with the old one. Keys are always kept in ascending byte order,
// which is the order bencode requires on encode.
type Dict struct {
	tree *iradix.Tree[Value]
}

func NewDict() Dict {
	return Dict{tree: iradix.New[Value]()}
}

// DictOf builds a Dict from a Go map. Handy for literals in code and tests.
func DictOf(entries map[string]Value) Dict {
	builder := NewDictBuilder()
	for key, entry := range entries {
		builder.Set([]byte(key), entry)
	}

	return builder.Dict()
}

func (dict Dict) Len() int {
	if dict.tree == nil {
		return 0
	}

	return dict.tree.Len()
}

func (dict Dict) Get(key []byte) (Value, bool) {
	if dict.tree == nil {
		return nil, false
	}

	return dict.tree.Get(key)
}

func (dict Dict) GetString(key string) (Value, bool) {
	return dict.Get([]byte(key))
}

// Set returns a copy of dict with key bound to entry, replacing any previous binding.
func (dict Dict) Set(key []byte, entry Value) Dict {
	tree := dict.tree
	if tree == nil {
		tree = iradix.New[Value]()
	}

	tree, _, _ = tree.Insert(bytes.Clone(key), entry)

	return Dict{tree: tree}
}

func (dict Dict) Delete(key []byte) Dict {
	if dict.tree == nil {
		return dict
	}

	tree, _, _ := dict.tree.Delete(key)

	return Dict{tree: tree}
}

// All iterates entries in ascending key order. Yielded keys must not be modified.
func (dict Dict) All() iter.Seq2[[]byte, Value] {
	return func(yield func([]byte, Value) bool) {
		if dict.tree == nil {
			return
		}

		dict.tree.Root().Walk(func(key []byte, entry Value) bool {
			return !yield(key, entry)
		})
	}
}

func (dict Dict) Keys() [][]byte {
	keys := make([][]byte, 0, dict.Len())
	for key := range dict.All() {
		keys = append(keys, bytes.Clone(key))
	}

	return keys
}

func (dict Dict) Equal(other Dict) bool {
	if dict.Len() != other.Len() {
		return false
	}

	for key, entry := range dict.All() {
		otherEntry, ok := other.Get(key)
		if !ok || !Equal(entry, otherEntry) {
			return false
		}
	}

	return true
}

// DictBuilder collects entries in a single radix tree transaction. Later Set calls
// for the same key overwrite earlier ones.
type DictBuilder struct {
	txn *iradix.Txn[Value]
}

func NewDictBuilder() *DictBuilder {
	return &DictBuilder{txn: iradix.New[Value]().Txn()}
}

func (builder *DictBuilder) Set(key []byte, entry Value) {
	builder.txn.Insert(bytes.Clone(key), entry)
}

func (builder *DictBuilder) Dict() Dict {
	return Dict{tree: builder.txn.Commit()}
}
