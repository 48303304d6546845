package serialize

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/mertwole/bencode-inspect/bencode/value"
)

const fieldTag = "bencode"

var valueInterface = reflect.TypeFor[value.Value]()

// Serialize writes the canonical encoding of an arbitrary Go value.
func Serialize(writer io.Writer, entity any, opts ...Option) error {
	converted, err := ToValue(entity)
	if err != nil {
		return err
	}

	return Encode(writer, converted, opts...)
}

func Marshal(entity any, opts ...Option) ([]byte, error) {
	converted, err := ToValue(entity)
	if err != nil {
		return nil, err
	}

	return EncodeBytes(converted, opts...)
}

// ToValue converts integers, strings, byte slices, slices, arrays, string-keyed maps
// and structs into a value tree. Nil pointers in struct fields are treated as absent.
func ToValue(entity any) (value.Value, error) {
	if entity == nil {
		return nil, ErrNilValue
	}

	return toValue(reflect.ValueOf(entity), 0)
}

func toValue(entity reflect.Value, depth int) (value.Value, error) {
	if depth > DefaultMaxDepth {
		return nil, fmt.Errorf("failed to convert %s: %w", entity.Type(), ErrDepthExceeded)
	}

	if entity.Kind() != reflect.Pointer && entity.Type().Implements(valueInterface) {
		if entity.Kind() == reflect.Interface && entity.IsNil() {
			return nil, ErrNilValue
		}

		return entity.Interface().(value.Value), nil
	}

	switch entity.Kind() {
	case reflect.Pointer, reflect.Interface:
		if entity.IsNil() {
			return nil, ErrNilValue
		}

		return toValue(entity.Elem(), depth+1)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Integer(entity.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		unsigned := entity.Uint()
		if unsigned > 1<<63-1 {
			return nil, fmt.Errorf("unsigned value %d does not fit in a bencode integer", unsigned)
		}

		return value.Integer(int64(unsigned)), nil
	case reflect.String:
		return value.ByteString(entity.String()), nil
	case reflect.Array, reflect.Slice:
		if entity.Type().Elem().Kind() == reflect.Uint8 {
			raw := make([]byte, entity.Len())
			for i := range raw {
				raw[i] = byte(entity.Index(i).Uint())
			}

			return value.ByteString(raw), nil
		}

		list := make(value.List, 0, entity.Len())
		for i := range entity.Len() {
			item, err := toValue(entity.Index(i), depth+1)
			if err != nil {
				return nil, fmt.Errorf("failed to serialize list element %d: %w", i, err)
			}

			list = append(list, item)
		}

		return list, nil
	case reflect.Map:
		if entity.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("invalid map key type: %s, only string keys are supported", entity.Type().Key())
		}

		builder := value.NewDictBuilder()

		entries := entity.MapRange()
		for entries.Next() {
			mapKey := entries.Key().String()

			entry, err := toValue(entries.Value(), depth+1)
			if err != nil {
				return nil, fmt.Errorf("failed to serialize map value %q: %w", mapKey, err)
			}

			builder.Set([]byte(mapKey), entry)
		}

		return builder.Dict(), nil
	case reflect.Struct:
		return structToValue(entity, depth)
	}

	return nil, fmt.Errorf("unserializable type: %v", entity.Kind())
}

func structToValue(entity reflect.Value, depth int) (value.Value, error) {
	builder := value.NewDictBuilder()

	fields := make(map[string]struct{})
	for i := range entity.NumField() {
		fieldType := entity.Type().Field(i)
		if !fieldType.IsExported() {
			continue
		}

		fieldTagValue := fieldType.Tag.Get(fieldTag)
		if fieldTagValue == "-" {
			continue
		}

		fieldTagValue, _, _ = strings.Cut(fieldTagValue, ",")
		if fieldTagValue == "" {
			fieldTagValue = fieldType.Name
		}

		if _, ok := fields[fieldTagValue]; ok {
			return nil, fmt.Errorf("fields with duplicate name found: %s", fieldTagValue)
		}
		fields[fieldTagValue] = struct{}{}

		field := entity.Field(i)
		if (field.Kind() == reflect.Pointer || field.Kind() == reflect.Interface) && field.IsNil() {
			// Optional field.
			continue
		}

		entry, err := toValue(field, depth+1)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize field %s: %w", fieldType.Name, err)
		}

		builder.Set([]byte(fieldTagValue), entry)
	}

	return builder.Dict(), nil
}
