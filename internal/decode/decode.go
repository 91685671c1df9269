// Package decode implements the two payload decoders: JSON field
// extraction and protobuf field extraction. Both share the property
// that a decode failure never aborts the row. It nulls the extraction
// columns instead and the row is still emitted, with ok reporting the
// failure so the caller can count it.
package decode

import "github.com/shubhamrasal/natscan/internal/engine"

// Decoder extracts a row's extraction columns from a raw payload.
// Decode always returns len(columns) values; it never returns an error
// for a malformed payload. ok is false when the payload could not be
// parsed at all, in which case every returned value is null (see
// json_decoder.go / proto_decoder.go).
type Decoder interface {
	Decode(payload []byte) (values []engine.Value, ok bool)
}
