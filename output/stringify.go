package output

import (
	"bytes"
	"strconv"

	"github.com/segmentio/encoding/json"

	"github.com/vegasq/pqline/internal/errors"
	"github.com/vegasq/pqline/schema"
)

// stringifyFunc renders the non-null value at column i of r.
type stringifyFunc func(r schema.Record, i int) (string, error)

// compileStringifier picks the rendering function for a column type. Every
// declared type has its own case; anything else is an invariant violation.
func compileStringifier(t schema.Type, ts *TimestampFormatter) (stringifyFunc, error) {
	switch t {
	case schema.TypeBoolean:
		return stringifyBoolean, nil
	case schema.TypeInteger:
		return stringifyInteger, nil
	case schema.TypeFloat:
		return stringifyFloat, nil
	case schema.TypeString:
		return stringifyString, nil
	case schema.TypeTimestamp:
		return func(r schema.Record, i int) (string, error) {
			return ts.Format(r.Timestamp(i)), nil
		}, nil
	case schema.TypeJSON:
		return stringifyJSON, nil
	default:
		return nil, errors.AssertionFailedf("unhandled column type %s", t)
	}
}

func stringifyBoolean(r schema.Record, i int) (string, error) {
	return strconv.FormatBool(r.Boolean(i)), nil
}

func stringifyInteger(r schema.Record, i int) (string, error) {
	return strconv.FormatInt(r.Long(i), 10), nil
}

// stringifyFloat emits the shortest representation that parses back to the
// same float64.
func stringifyFloat(r schema.Record, i int) (string, error) {
	return strconv.FormatFloat(r.Double(i), 'g', -1, 64), nil
}

func stringifyString(r schema.Record, i int) (string, error) {
	return r.String(i), nil
}

// stringifyJSON renders a structured value as compact JSON. Raw JSON text
// ([]byte, json.RawMessage or string) keeps its key order; other values are
// encoded, with map keys sorted.
func stringifyJSON(r schema.Record, i int) (string, error) {
	switch v := r.JSON(i).(type) {
	case json.RawMessage:
		return compactJSON(v)
	case []byte:
		return compactJSON(v)
	case string:
		return compactJSON([]byte(v))
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetSortMapKeys(true)
		if err := enc.Encode(v); err != nil {
			return "", errors.Wrap(err, "encode json value")
		}
		return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
	}
}

func compactJSON(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, src); err != nil {
		return "", errors.Wrap(err, "invalid json value")
	}
	return buf.String(), nil
}
