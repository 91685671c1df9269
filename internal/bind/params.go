package bind

import "math"

// Args is the raw, already-type-checked argument bag the caller (the
// excluded extension-loader glue, or this repo's own CLI) hands to
// Bind. It carries the named parameters one field at a time rather than
// as an engine-specific named-argument map, since the engine's argument
// representation is outside this repo's scope.
type Args struct {
	StreamName string

	Subject string
	URL     string

	StartSeq    uint64
	EndSeq      uint64
	HasStartSeq bool
	HasEndSeq   bool

	StartTimeNs int64
	EndTimeNs   int64

	JSONExtract []string

	ProtoFile    string
	ProtoMessage string
	ProtoExtract []string
}

// DefaultURL is the broker endpoint used when url is not supplied.
const DefaultURL = "nats://localhost:4222"

// DefaultEndSeq is the sentinel meaning "through the last sequence in
// the stream", resolved once the stream's actual last sequence is
// known.
const DefaultEndSeq uint64 = math.MaxUint64
