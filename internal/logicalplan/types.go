package logicalplan

import (
	"fmt"
	"strings"
)

type FieldType uint8

const (
	TypeInt32 FieldType = iota
	TypeInt64
	TypeBool
	TypeFloat64
	TypeDecimal
	TypeText  // UTF-8
	TypeBytes // opaque bytes
	TypeDate
	TypeTimestamp
	TypeJSON

	// NumFieldTypes sizes per-type lookup tables.
	NumFieldTypes
)

var fieldTypeNames = [NumFieldTypes]string{
	TypeInt32:     "INT32",
	TypeInt64:     "INT64",
	TypeBool:      "BOOL",
	TypeFloat64:   "FLOAT64",
	TypeDecimal:   "DECIMAL",
	TypeText:      "TEXT",
	TypeBytes:     "BYTES",
	TypeDate:      "DATE",
	TypeTimestamp: "TIMESTAMP",
	TypeJSON:      "JSON",
}

func (t FieldType) String() string {
	if t < NumFieldTypes {
		return fieldTypeNames[t]
	}
	return fmt.Sprintf("FieldType(%d)", uint8(t))
}

// ParseFieldType maps common SQL spellings onto a FieldType.
func ParseFieldType(s string) (FieldType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INT", "INT32", "INTEGER":
		return TypeInt32, nil
	case "BIGINT", "INT64", "LONG":
		return TypeInt64, nil
	case "BOOL", "BOOLEAN":
		return TypeBool, nil
	case "FLOAT", "FLOAT64", "DOUBLE", "REAL":
		return TypeFloat64, nil
	case "DECIMAL", "NUMERIC":
		return TypeDecimal, nil
	case "TEXT", "STRING", "VARCHAR":
		return TypeText, nil
	case "BYTES", "BINARY", "BLOB":
		return TypeBytes, nil
	case "DATE":
		return TypeDate, nil
	case "TIMESTAMP", "DATETIME":
		return TypeTimestamp, nil
	case "JSON", "VARIANT":
		return TypeJSON, nil
	default:
		return 0, fmt.Errorf("logicalplan: unsupported field type: %s", s)
	}
}
