package deserialize

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/mertwole/bencode-inspect/bencode/value"
)

const fieldTag = "bencode"

var valueInterface = reflect.TypeFor[value.Value]()

// BindError reports a decoded value that does not fit the Go type it is bound to.
type BindError struct {
	Value  value.Kind
	Type   reflect.Type
	Reason string
}

func (err *BindError) Error() string {
	if err.Reason != "" {
		return fmt.Sprintf("cannot bind %s to %s: %s", err.Value, err.Type, err.Reason)
	}

	return fmt.Sprintf("cannot bind %s to %s", err.Value, err.Type)
}

// Deserialize reads everything from reader and binds the decoded value to entity.
func Deserialize(reader io.Reader, entity any, opts ...Option) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read bencoded data: %w", err)
	}

	return Unmarshal(data, entity, opts...)
}

func Unmarshal(data []byte, entity any, opts ...Option) error {
	decoded, err := Decode(data, opts...)
	if err != nil {
		return err
	}

	return Bind(decoded, entity)
}

// Bind stores source into the value entity points to.
func Bind(source value.Value, entity any) error {
	entityValue := reflect.ValueOf(entity)
	if entityValue.Kind() != reflect.Pointer || entityValue.IsNil() {
		return fmt.Errorf("wrong entity type: expected non-nil pointer, got %T", entity)
	}

	return bind(source, entityValue.Elem())
}

func bind(source value.Value, entity reflect.Value) error {
	if source == nil {
		return fmt.Errorf("cannot bind nil value to %s", entity.Type())
	}

	if entity.Type() == valueInterface {
		entity.Set(reflect.ValueOf(source))
		return nil
	}

	switch entity.Kind() {
	case reflect.Pointer:
		if entity.IsNil() {
			entity.Set(reflect.New(entity.Type().Elem()))
		}

		return bind(source, entity.Elem())
	case reflect.Interface:
		if entity.NumMethod() != 0 {
			return &BindError{Value: source.Kind(), Type: entity.Type()}
		}

		entity.Set(reflect.ValueOf(natural(source)))

		return nil
	}

	// Concrete value types such as value.Dict take the decoded subtree as is.
	if entity.Type().Implements(valueInterface) {
		sourceValue := reflect.ValueOf(source)
		if !sourceValue.Type().AssignableTo(entity.Type()) {
			return &BindError{Value: source.Kind(), Type: entity.Type()}
		}

		entity.Set(sourceValue)

		return nil
	}

	switch source := source.(type) {
	case value.Integer:
		return bindInteger(source, entity)
	case value.ByteString:
		return bindString(source, entity)
	case value.List:
		return bindList(source, entity)
	case value.Dict:
		return bindDict(source, entity)
	}

	return &BindError{Value: source.Kind(), Type: entity.Type()}
}

func bindInteger(source value.Integer, entity reflect.Value) error {
	integer := int64(source)

	switch entity.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if entity.OverflowInt(integer) {
			return &BindError{Value: value.IntegerKind, Type: entity.Type(), Reason: fmt.Sprintf("%d overflows", integer)}
		}

		entity.SetInt(integer)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if integer < 0 || entity.OverflowUint(uint64(integer)) {
			return &BindError{Value: value.IntegerKind, Type: entity.Type(), Reason: fmt.Sprintf("%d overflows", integer)}
		}

		entity.SetUint(uint64(integer))
	default:
		return &BindError{Value: value.IntegerKind, Type: entity.Type()}
	}

	return nil
}

func bindString(source value.ByteString, entity reflect.Value) error {
	switch {
	case entity.Kind() == reflect.String:
		entity.SetString(string(source))
	case entity.Kind() == reflect.Slice && entity.Type().Elem().Kind() == reflect.Uint8:
		entity.SetBytes(bytes.Clone(source))
	case entity.Kind() == reflect.Array && entity.Type().Elem().Kind() == reflect.Uint8:
		if entity.Len() != len(source) {
			return &BindError{
				Value:  value.ByteStringKind,
				Type:   entity.Type(),
				Reason: fmt.Sprintf("expected %d bytes, got %d", entity.Len(), len(source)),
			}
		}

		reflect.Copy(entity, reflect.ValueOf([]byte(source)))
	default:
		return &BindError{Value: value.ByteStringKind, Type: entity.Type()}
	}

	return nil
}

func bindList(source value.List, entity reflect.Value) error {
	if entity.Kind() != reflect.Slice {
		return &BindError{Value: value.ListKind, Type: entity.Type()}
	}

	list := reflect.MakeSlice(entity.Type(), len(source), len(source))
	for i, item := range source {
		err := bind(item, list.Index(i))
		if err != nil {
			return fmt.Errorf("failed to deserialize list element %d: %w", i, err)
		}
	}

	entity.Set(list)

	return nil
}

func bindDict(source value.Dict, entity reflect.Value) error {
	switch entity.Kind() {
	case reflect.Struct:
		return bindStruct(source, entity)
	case reflect.Map:
		return bindMap(source, entity)
	default:
		return &BindError{Value: value.DictKind, Type: entity.Type()}
	}
}

func bindStruct(source value.Dict, entity reflect.Value) error {
	nameMapping := make(map[string]int)
	for i := range entity.NumField() {
		field := entity.Type().Field(i)
		if !field.IsExported() {
			continue
		}

		mapKey, skip := fieldKey(field)
		if skip {
			continue
		}

		_, keyAlreadyExists := nameMapping[mapKey]
		if keyAlreadyExists {
			return fmt.Errorf("duplicate field names in a dictionary: %s", mapKey)
		}
		nameMapping[mapKey] = i
	}

	for key, entry := range source.All() {
		fieldIndex, fieldPresent := nameMapping[string(key)]
		if !fieldPresent {
			continue
		}

		err := bind(entry, entity.Field(fieldIndex))
		if err != nil {
			return fmt.Errorf("failed to deserialize dictionary value %q: %w", key, err)
		}
	}

	return nil
}

func bindMap(source value.Dict, entity reflect.Value) error {
	mapType := entity.Type()
	if mapType.Key().Kind() != reflect.String {
		return &BindError{Value: value.DictKind, Type: mapType, Reason: "only string keys are supported"}
	}

	result := reflect.MakeMapWithSize(mapType, source.Len())
	for key, entry := range source.All() {
		element := reflect.New(mapType.Elem()).Elem()

		err := bind(entry, element)
		if err != nil {
			return fmt.Errorf("failed to deserialize dictionary value %q: %w", key, err)
		}

		result.SetMapIndex(reflect.ValueOf(string(key)).Convert(mapType.Key()), element)
	}

	entity.Set(result)

	return nil
}

// natural converts a tree into plain Go values: int64, string, []any and map[string]any.
func natural(source value.Value) any {
	switch source := source.(type) {
	case value.Integer:
		return int64(source)
	case value.ByteString:
		return string(source)
	case value.List:
		list := make([]any, 0, len(source))
		for _, item := range source {
			list = append(list, natural(item))
		}

		return list
	case value.Dict:
		dict := make(map[string]any, source.Len())
		for key, entry := range source.All() {
			dict[string(key)] = natural(entry)
		}

		return dict
	}

	return nil
}

func fieldKey(field reflect.StructField) (string, bool) {
	tag := field.Tag.Get(fieldTag)
	if tag == "-" {
		return "", true
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name, false
	}

	return name, false
}
