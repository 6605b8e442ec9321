package models

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// StringList holds a field the collection stores either as a single string or
// as an array of strings. A single value encodes back to a plain string so
// clients keep seeing the stored shape.
type StringList []string

// UnmarshalBSONValue accepts a string, an array of strings, or null.
// Non-string array elements are skipped.
func (l *StringList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*l = nil
	case bsontype.String:
		*l = StringList{rv.StringValue()}
	case bsontype.Array:
		values, err := rv.Array().Values()
		if err != nil {
			return fmt.Errorf("decode string list: %w", err)
		}
		out := make(StringList, 0, len(values))
		for _, v := range values {
			if s, ok := v.StringValueOK(); ok {
				out = append(out, s)
			}
		}
		*l = out
	default:
		return fmt.Errorf("cannot decode %s into a string list", t)
	}
	return nil
}

func (l StringList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if len(l) == 1 {
		return bson.MarshalValue(l[0])
	}
	return bson.MarshalValue([]string(l))
}

func (l StringList) MarshalJSON() ([]byte, error) {
	switch len(l) {
	case 0:
		if l == nil {
			return []byte("null"), nil
		}
		return []byte("[]"), nil
	case 1:
		return json.Marshal(l[0])
	default:
		return json.Marshal([]string(l))
	}
}

func (l *StringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = StringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("decode string list: %w", err)
	}
	*l = many
	return nil
}
