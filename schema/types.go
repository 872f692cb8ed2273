package schema

import "fmt"

// Type is the closed set of value types a column can carry.
type Type uint8

const (
	TypeBoolean Type = iota + 1
	TypeInteger
	TypeFloat
	TypeString
	TypeTimestamp
	TypeJSON
)

// String returns the lowercase type name.
func (t Type) String() string {
	switch t {
	case TypeBoolean:
		return "boolean"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeTimestamp:
		return "timestamp"
	case TypeJSON:
		return "json"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}
