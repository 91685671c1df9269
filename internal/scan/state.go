package scan

import (
	"math"

	"github.com/shubhamrasal/natscan/internal/broker"
)

// Phase is the scan's monotone lifecycle state.
type Phase int

const (
	PhaseUninitialised Phase = iota
	PhaseConnected
	PhaseResolved
	PhaseScanning
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialised:
		return "uninitialised"
	case PhaseConnected:
		return "connected"
	case PhaseResolved:
		return "resolved"
	case PhaseScanning:
		return "scanning"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}

// State is the per-query mutable scan state. The five long-lived
// native handles the original tracks separately (connection, JetStream
// context, stream-info, protobuf factory, protobuf prototype) collapse
// here to *broker.Conn (nats.go folds connection and JetStream context
// into one handle with no separate destroy step) plus the bounds
// snapshot; the protobuf factory/prototype is held by the
// decode.ProtoDecoder the Driver owns instead, since in Go a
// descriptor-backed dynamicpb message carries no separate "factory"
// allocation to release.

// connection is the narrow surface Driver needs from a live broker
// handle. *broker.Conn satisfies it; tests substitute an in-memory fake
// so the state machine can be exercised without a real NATS server.
type connection interface {
	broker.Fetcher
	StreamBounds(streamName string) (broker.StreamBounds, error)
	Close()
}

type State struct {
	Phase Phase

	Conn   connection
	Bounds broker.StreamBounds

	CurrentSeq      uint64
	EffectiveEndSeq uint64

	Done                bool
	TimestampsResolved bool
}

// NewState seeds CurrentSeq/EffectiveEndSeq from the bind-time sequence
// bounds: current_seq starts at max(start_seq, 1).
func NewState(startSeq, endSeq uint64) *State {
	cur := startSeq
	if cur < 1 {
		cur = 1
	}
	return &State{
		Phase:           PhaseUninitialised,
		CurrentSeq:      cur,
		EffectiveEndSeq: endSeq,
	}
}

// sentinelEndSeq is the "unset" marker for end_seq.
const sentinelEndSeq = math.MaxUint64

// Close releases the long-lived handles in reverse acquisition order.
// Safe to call on a State that never reached PhaseConnected.
func (s *State) Close() {
	if s.Conn != nil {
		s.Conn.Close()
		s.Conn = nil
	}
	s.Phase = PhaseDone
}
