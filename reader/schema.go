package reader

import (
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"

	"github.com/vegasq/pqline/internal/errors"
	"github.com/vegasq/pqline/schema"
)

// SchemaInfo represents metadata about a single column in a Parquet file.
type SchemaInfo struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	ColumnType   string `json:"column_type"`
	PhysicalType string `json:"physical_type"`
	LogicalType  string `json:"logical_type"`
	Required     bool   `json:"required"`
	Optional     bool   `json:"optional"`
	Repeated     bool   `json:"repeated"`
}

// unsupportedColumn is reported as ColumnType for leaves that cannot be
// selected for formatting.
const unsupportedColumn = "unsupported"

// ExtractSchemaInfo extracts schema information from a Parquet file.
//
// Unlike NewReader it accepts files with nested or repeated columns; those
// leaves are listed with dot-notation names (e.g. "address.street") and a
// ColumnType of "unsupported".
func ExtractSchemaInfo(path string) ([]SchemaInfo, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open file")
	}
	defer func() { _ = file.Close() }()

	stat, err := file.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "failed to stat file")
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		return nil, errors.Wrap(err, "failed to open parquet file")
	}

	var infos []SchemaInfo
	for _, field := range pqFile.Schema().Fields() {
		infos = append(infos, extractFieldInfo(field, "", false, true)...)
	}
	return infos, nil
}

// extractFieldInfo recursively extracts schema information from a field,
// tracking whether any parent is repeated and whether the field sits at
// the top level.
func extractFieldInfo(field parquet.Field, prefix string, parentRepeated, topLevel bool) []SchemaInfo {
	fieldName := field.Name()
	if prefix != "" {
		fieldName = prefix + "." + fieldName
	}
	isRepeated := parentRepeated || field.Repeated()

	if children := field.Fields(); len(children) > 0 {
		var infos []SchemaInfo
		for _, child := range children {
			infos = append(infos, extractFieldInfo(child, fieldName, isRepeated, false)...)
		}
		return infos
	}

	colType := unsupportedColumn
	if topLevel && !isRepeated {
		if t, _, err := columnType(field); err == nil {
			colType = t.String()
		}
	}

	return []SchemaInfo{{
		Name:         fieldName,
		Type:         getUserFriendlyType(field),
		ColumnType:   colType,
		PhysicalType: getPhysicalType(field),
		LogicalType:  getLogicalType(field),
		Required:     field.Required(),
		Optional:     field.Optional(),
		Repeated:     isRepeated,
	}}
}

// valueDecoder converts a non-null parquet value into the Go value a
// schema.Row stores for the column's type.
type valueDecoder func(parquet.Value) any

// buildSchema maps the top-level leaf fields of a parquet schema onto
// column types.
func buildSchema(ps *parquet.Schema) (schema.Schema, []valueDecoder, error) {
	fields := ps.Fields()
	cols := make([]schema.Column, 0, len(fields))
	decoders := make([]valueDecoder, 0, len(fields))

	for _, field := range fields {
		if len(field.Fields()) > 0 {
			return schema.Schema{}, nil, errors.Mark(
				errors.Newf("column %q: nested groups are not supported", field.Name()),
				errors.ErrUnsupportedSchema)
		}
		if field.Repeated() {
			return schema.Schema{}, nil, errors.Mark(
				errors.Newf("column %q: repeated columns are not supported", field.Name()),
				errors.ErrUnsupportedSchema)
		}
		t, dec, err := columnType(field)
		if err != nil {
			return schema.Schema{}, nil, errors.Wrapf(err, "column %q", field.Name())
		}
		cols = append(cols, schema.Column{Name: field.Name(), Type: t})
		decoders = append(decoders, dec)
	}

	return schema.New(cols...), decoders, nil
}

// julianUnixEpoch is the Julian day number of 1970-01-01.
const julianUnixEpoch = 2440588

const secondsPerDay = 86400

// columnType picks the column type and decoder for a leaf field. Logical
// annotations take precedence over the physical type.
func columnType(field parquet.Field) (schema.Type, valueDecoder, error) {
	typ := field.Type()
	kind := typ.Kind()

	if lt := typ.LogicalType(); lt != nil {
		switch {
		case lt.UTF8 != nil, lt.Enum != nil:
			if kind == parquet.ByteArray {
				return schema.TypeString, decodeString, nil
			}
		case lt.Json != nil:
			return schema.TypeJSON, decodeJSON, nil
		case lt.UUID != nil:
			return schema.TypeString, decodeUUID, nil
		case lt.Timestamp != nil:
			return timestampType(lt.Timestamp)
		case lt.Date != nil:
			return schema.TypeTimestamp, decodeDate, nil
		case lt.Integer != nil:
			if kind == parquet.Int64 && !lt.Integer.IsSigned {
				return 0, nil, unsupported("unsigned 64-bit integers")
			}
			if kind == parquet.Int32 && !lt.Integer.IsSigned {
				return schema.TypeInteger, decodeUint32, nil
			}
		case lt.Decimal != nil:
			return 0, nil, unsupported("DECIMAL")
		case lt.Bson != nil:
			return 0, nil, unsupported("BSON")
		case lt.Time != nil:
			return 0, nil, unsupported("TIME")
		}
	}

	switch kind {
	case parquet.Boolean:
		return schema.TypeBoolean, decodeBoolean, nil
	case parquet.Int32:
		return schema.TypeInteger, decodeInt32, nil
	case parquet.Int64:
		return schema.TypeInteger, decodeInt64, nil
	case parquet.Float:
		return schema.TypeFloat, decodeFloat, nil
	case parquet.Double:
		return schema.TypeFloat, decodeDouble, nil
	case parquet.ByteArray:
		return schema.TypeString, decodeString, nil
	case parquet.Int96:
		return schema.TypeTimestamp, decodeInt96, nil
	default:
		return 0, nil, unsupported(getPhysicalType(field))
	}
}

func unsupported(what string) error {
	return errors.Mark(errors.Newf("%s is not supported", what), errors.ErrUnsupportedSchema)
}

func timestampType(ts *format.TimestampType) (schema.Type, valueDecoder, error) {
	switch {
	case ts.Unit.Millis != nil:
		return schema.TypeTimestamp, decodeMillis, nil
	case ts.Unit.Micros != nil:
		return schema.TypeTimestamp, decodeMicros, nil
	case ts.Unit.Nanos != nil:
		return schema.TypeTimestamp, decodeNanos, nil
	default:
		return 0, nil, unsupported("timestamp without unit")
	}
}

func decodeBoolean(v parquet.Value) any { return v.Boolean() }
func decodeInt32(v parquet.Value) any   { return int64(v.Int32()) }
func decodeUint32(v parquet.Value) any  { return int64(uint32(v.Int32())) }
func decodeInt64(v parquet.Value) any   { return v.Int64() }
func decodeDouble(v parquet.Value) any  { return v.Double() }

// decodeString copies; the row buffer is reused between reads.
func decodeString(v parquet.Value) any { return string(v.ByteArray()) }

func decodeJSON(v parquet.Value) any {
	return append([]byte(nil), v.ByteArray()...)
}

// decodeFloat widens through the shortest 32-bit representation so that
// 0.1f renders as 0.1 rather than 0.10000000149011612.
func decodeFloat(v parquet.Value) any {
	return widenFloat32(v.Float())
}

func widenFloat32(f float32) float64 {
	d, err := strconv.ParseFloat(strconv.FormatFloat(float64(f), 'g', -1, 32), 64)
	if err != nil {
		return float64(f)
	}
	return d
}

func decodeUUID(v parquet.Value) any {
	id, err := uuid.FromBytes(v.ByteArray())
	if err != nil {
		return string(v.ByteArray())
	}
	return id.String()
}

func decodeMillis(v parquet.Value) any { return time.UnixMilli(v.Int64()).UTC() }
func decodeMicros(v parquet.Value) any { return time.UnixMicro(v.Int64()).UTC() }
func decodeNanos(v parquet.Value) any  { return time.Unix(0, v.Int64()).UTC() }

func decodeDate(v parquet.Value) any {
	return time.Unix(int64(v.Int32())*secondsPerDay, 0).UTC()
}

// decodeInt96 reads the legacy Impala timestamp layout: nanoseconds of the
// day in the low 64 bits, Julian day number in the high 32.
func decodeInt96(v parquet.Value) any {
	i96 := v.Int96()
	nanos := int64(uint64(i96[1])<<32 | uint64(i96[0]))
	days := int64(i96[2]) - julianUnixEpoch
	return time.Unix(days*secondsPerDay, nanos).UTC()
}

// getPhysicalType returns the physical type name of a Parquet field.
func getPhysicalType(field parquet.Field) string {
	if field.Type() == nil {
		return "GROUP"
	}

	switch field.Type().Kind() {
	case parquet.Boolean:
		return "BOOLEAN"
	case parquet.Int32:
		return "INT32"
	case parquet.Int64:
		return "INT64"
	case parquet.Int96:
		return "INT96"
	case parquet.Float:
		return "FLOAT"
	case parquet.Double:
		return "DOUBLE"
	case parquet.ByteArray:
		return "BYTE_ARRAY"
	case parquet.FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// getLogicalType returns the logical type name of a Parquet field.
func getLogicalType(field parquet.Field) string {
	if field.Type() == nil {
		return ""
	}
	logicalType := field.Type().LogicalType()
	if logicalType == nil {
		return ""
	}
	return logicalType.String()
}

// getUserFriendlyType returns a user-friendly type name for a Parquet field.
//
// This converts Parquet's physical and logical types into simpler, more
// recognizable type names for end users.
func getUserFriendlyType(field parquet.Field) string {
	if field.Type() == nil {
		return "GROUP"
	}

	if lt := field.Type().LogicalType(); lt != nil {
		switch {
		case lt.UTF8 != nil:
			return "STRING"
		case lt.Enum != nil:
			return "ENUM"
		case lt.UUID != nil:
			return "UUID"
		case lt.Date != nil:
			return "DATE"
		case lt.Time != nil:
			return "TIME"
		case lt.Timestamp != nil:
			return "TIMESTAMP"
		case lt.Decimal != nil:
			return "DECIMAL"
		case lt.Json != nil:
			return "JSON"
		case lt.Bson != nil:
			return "BSON"
		}
	}

	switch field.Type().Kind() {
	case parquet.Float:
		return "FLOAT32"
	case parquet.Double:
		return "FLOAT64"
	default:
		return getPhysicalType(field)
	}
}
