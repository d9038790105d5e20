package meta

import (
	"fmt"
	"strings"
)

// DataType is the storage type of a metadata field.
type DataType string

const (
	DataTypeString  DataType = "string"
	DataTypeInteger DataType = "integer"
	DataTypeNumber  DataType = "number"
	DataTypeBoolean DataType = "boolean"
	DataTypeArray   DataType = "array"
)

// DataTypes lists the recognised data types in declaration order.
func DataTypes() []DataType {
	return []DataType{DataTypeString, DataTypeInteger, DataTypeNumber, DataTypeBoolean, DataTypeArray}
}

// Valid reports whether t is one of the recognised data types.
func (t DataType) Valid() bool {
	switch t {
	case DataTypeString, DataTypeInteger, DataTypeNumber, DataTypeBoolean, DataTypeArray:
		return true
	default:
		return false
	}
}

func (t DataType) String() string { return string(t) }

// ObjectType classifies the content entity a field attaches to.
type ObjectType string

const (
	ObjectTypePost ObjectType = "post"
	ObjectTypeTerm ObjectType = "term"
	ObjectTypeUser ObjectType = "user"
)

// ObjectTypes lists the recognised object types.
func ObjectTypes() []ObjectType {
	return []ObjectType{ObjectTypePost, ObjectTypeTerm, ObjectTypeUser}
}

// Valid reports whether t is one of the recognised object types.
func (t ObjectType) Valid() bool {
	switch t {
	case ObjectTypePost, ObjectTypeTerm, ObjectTypeUser:
		return true
	default:
		return false
	}
}

func (t ObjectType) String() string { return string(t) }

// Scope identifies a field within the host framework: keys are unique per
// (ObjectType, ObjectSubtype). An empty subtype applies to every subtype.
type Scope struct {
	ObjectType    ObjectType
	ObjectSubtype string
	Key           string
}

// String renders the scope as "objectType/subtype:key", using "*" for the
// all-subtypes case.
func (s Scope) String() string {
	subtype := s.ObjectSubtype
	if subtype == "" {
		subtype = "*"
	}
	return fmt.Sprintf("%s/%s:%s", s.ObjectType, subtype, s.Key)
}

// ParseDataType normalises raw (case/space insensitive) into a DataType. An
// empty input yields DataTypeString.
func ParseDataType(raw string) (DataType, error) {
	trimmed := DataType(strings.ToLower(strings.TrimSpace(raw)))
	if trimmed == "" {
		return DataTypeString, nil
	}
	if !trimmed.Valid() {
		return "", &ValidationError{Field: "dataType", Value: raw, Reason: "must be one of string, integer, number, boolean, array"}
	}
	return trimmed, nil
}

// ParseObjectType normalises raw into an ObjectType. An empty input yields
// ObjectTypePost.
func ParseObjectType(raw string) (ObjectType, error) {
	trimmed := ObjectType(strings.ToLower(strings.TrimSpace(raw)))
	if trimmed == "" {
		return ObjectTypePost, nil
	}
	if !trimmed.Valid() {
		return "", &ValidationError{Field: "objectType", Value: raw, Reason: "must be one of post, term, user"}
	}
	return trimmed, nil
}
