// Package engine defines the neutral boundary between the scan operator
// and the embedded analytics engine that hosts it. The real engine
// (typed value constructors, vectorised batch buffers, table-function
// registration) is an external collaborator outside this repo's scope;
// extension-loader glue would translate the types here into that
// engine's native column vectors.
package engine

import "time"

// Kind identifies the logical column type of a value, mirroring the
// host engine's type system as far as this scan needs it.
type Kind int

const (
	KindVarChar Kind = iota
	KindBlob
	KindI32
	KindI64
	KindU32
	KindU64
	KindF32
	KindF64
	KindBool
	KindTimestampMicros
)

// Column describes one output column: its name and logical type.
type Column struct {
	Name string
	Type Kind
}

// Value is a single cell. Null is true when the value is SQL NULL,
// in which case the payload fields are meaningless.
type Value struct {
	Null bool
	Kind Kind

	Str   string
	Bytes []byte
	I32   int32
	I64   int64
	U32   uint32
	U64   uint64
	F32   float32
	F64   float64
	Bool  bool
	TS    time.Time
}

// NullValue returns a null cell of the given kind.
func NullValue(k Kind) Value { return Value{Null: true, Kind: k} }

func VarChar(s string) Value { return Value{Kind: KindVarChar, Str: s} }
func Blob(b []byte) Value    { return Value{Kind: KindBlob, Bytes: b} }
func I32(v int32) Value      { return Value{Kind: KindI32, I32: v} }
func I64(v int64) Value      { return Value{Kind: KindI64, I64: v} }
func U32(v uint32) Value     { return Value{Kind: KindU32, U32: v} }
func U64(v uint64) Value     { return Value{Kind: KindU64, U64: v} }
func F32(v float32) Value    { return Value{Kind: KindF32, F32: v} }
func F64(v float64) Value    { return Value{Kind: KindF64, F64: v} }
func Bool(v bool) Value      { return Value{Kind: KindBool, Bool: v} }

// TimestampMicros constructs a timestamp(us) cell from microseconds
// since the Unix epoch, the engine's native timestamp resolution.
func TimestampMicros(us int64) Value {
	return Value{Kind: KindTimestampMicros, TS: time.UnixMicro(us)}
}

// Row is one emitted record, column-ordered to match the OutputSchema.
type Row []Value

// Batch is the fixed-size unit the engine pulls per execution call.
type Batch struct {
	Rows []Row
}

// Schema is the column list produced once during binding: fixed
// metadata columns followed by extraction columns.
type Schema struct {
	Columns []Column
}
