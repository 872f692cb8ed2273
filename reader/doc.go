// Package reader opens Apache Parquet files as typed record streams.
//
// A Reader maps the file's top-level columns onto schema types and hands
// out a Cursor that decodes rows one at a time. Nested groups, repeated
// fields, DECIMAL, TIME and BSON columns are rejected with
// errors.ErrUnsupportedSchema when the file is opened.
//
// # Basic Usage
//
//	r, err := reader.NewReader("data.parquet")
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//
//	cur := r.Cursor()
//	defer cur.Close()
//	for cur.Next() {
//	    rec := cur.Record()
//	    // ...
//	}
//	if err := cur.Err(); err != nil {
//	    return err
//	}
//
// # Type Mapping
//
//	BOOLEAN                     boolean
//	INT32, INT64                integer
//	FLOAT, DOUBLE               float
//	BYTE_ARRAY (STRING, ENUM)   string
//	FIXED_LEN_BYTE_ARRAY (UUID) string
//	TIMESTAMP, DATE, INT96      timestamp
//	BYTE_ARRAY (JSON)           json
//
// # Multi-file Operations
//
// ExpandPattern turns a glob into the sorted list of matching files:
//
//	files, err := reader.ExpandPattern("data/*.parquet")
//
// # Schema Introspection
//
// ExtractSchemaInfo lists every leaf column, including the ones NewReader
// would reject, with its physical, logical and column type.
package reader
