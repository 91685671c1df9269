package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubhamrasal/natscan/internal/bind"
	"github.com/shubhamrasal/natscan/internal/broker"
)

// fakeConn is an in-memory broker.Conn stand-in: no network I/O, just a
// sequence->message map plus a fixed bounds snapshot.
type fakeConn struct {
	messages map[uint64]broker.Message
	bounds   broker.StreamBounds
	closed   bool
}

func (f *fakeConn) DirectGet(streamName string, seq uint64) (broker.Message, error) {
	msg, ok := f.messages[seq]
	if !ok {
		return broker.Message{}, broker.ErrNotFound
	}
	return msg, nil
}

func (f *fakeConn) StreamBounds(streamName string) (broker.StreamBounds, error) {
	return f.bounds, nil
}

func (f *fakeConn) Close() { f.closed = true }

// newConnectedDriver builds a Driver already past the UNINITIALISED ->
// CONNECTED transition, so Execute never touches the network.
func newConnectedDriver(rec *bind.Record, conn *fakeConn) *Driver {
	st := NewState(rec.StartSeq, rec.EndSeq)
	st.Conn = conn
	st.Bounds = conn.bounds
	if st.EffectiveEndSeq == sentinelEndSeq {
		st.EffectiveEndSeq = conn.bounds.LastSeq
	}
	st.Phase = PhaseConnected
	return &Driver{rec: rec, state: st}
}

func TestDriverExecute_EmptyWindow(t *testing.T) {
	rec := &bind.Record{StreamName: "orders", StartSeq: 5, EndSeq: 3}
	conn := &fakeConn{bounds: broker.StreamBounds{FirstSeq: 1, LastSeq: 10}}
	d := newConnectedDriver(rec, conn)

	batch, err := d.Execute(100)
	require.NoError(t, err)
	assert.Empty(t, batch.Rows)
	assert.True(t, d.state.Done)
}

func TestDriverExecute_SequenceGap(t *testing.T) {
	rec := &bind.Record{StreamName: "orders", StartSeq: 1, EndSeq: 5}
	conn := &fakeConn{
		bounds: broker.StreamBounds{FirstSeq: 1, LastSeq: 5},
		messages: map[uint64]broker.Message{
			1: {Subject: "a.1", TimestampNs: 1000, Payload: []byte("m1")},
			2: {Subject: "a.2", TimestampNs: 2000, Payload: []byte("m2")},
			// seq 3 purged
			4: {Subject: "a.4", TimestampNs: 4000, Payload: []byte("m4")},
			5: {Subject: "a.5", TimestampNs: 5000, Payload: []byte("m5")},
		},
	}
	d := newConnectedDriver(rec, conn)

	batch, err := d.Execute(100)
	require.NoError(t, err)
	require.Len(t, batch.Rows, 4)

	var seqs []uint64
	for _, row := range batch.Rows {
		seqs = append(seqs, row[2].U64)
	}
	assert.Equal(t, []uint64{1, 2, 4, 5}, seqs)
	assert.True(t, d.state.Done)

	next, err := d.Execute(100)
	require.NoError(t, err)
	assert.Empty(t, next.Rows)
}

func TestDriverExecute_SubjectFilter(t *testing.T) {
	rec := &bind.Record{StreamName: "events", SubjectFilter: "a.", StartSeq: 1, EndSeq: 4}
	conn := &fakeConn{
		bounds: broker.StreamBounds{FirstSeq: 1, LastSeq: 4},
		messages: map[uint64]broker.Message{
			1: {Subject: "a.orders", TimestampNs: 1000, Payload: []byte("m1")},
			2: {Subject: "b.orders", TimestampNs: 2000, Payload: []byte("m2")},
			3: {Subject: "a.shipping", TimestampNs: 3000, Payload: []byte("m3")},
			4: {Subject: "c.returns", TimestampNs: 4000, Payload: []byte("m4")},
		},
	}
	d := newConnectedDriver(rec, conn)

	batch, err := d.Execute(100)
	require.NoError(t, err)
	require.Len(t, batch.Rows, 2)
	assert.Equal(t, "a.orders", batch.Rows[0][1].Str)
	assert.Equal(t, "a.shipping", batch.Rows[1][1].Str)
}

func TestDriverExecute_BatchCapacitySpansMultipleCalls(t *testing.T) {
	rec := &bind.Record{StreamName: "orders", StartSeq: 1, EndSeq: 5}
	conn := &fakeConn{
		bounds:   broker.StreamBounds{FirstSeq: 1, LastSeq: 5},
		messages: map[uint64]broker.Message{},
	}
	for i := uint64(1); i <= 5; i++ {
		conn.messages[i] = broker.Message{Subject: "a", TimestampNs: int64(i * 1000), Payload: []byte("x")}
	}
	d := newConnectedDriver(rec, conn)

	first, err := d.Execute(2)
	require.NoError(t, err)
	assert.Len(t, first.Rows, 2)
	assert.False(t, d.state.Done)

	second, err := d.Execute(2)
	require.NoError(t, err)
	assert.Len(t, second.Rows, 2)
	assert.False(t, d.state.Done)

	third, err := d.Execute(2)
	require.NoError(t, err)
	assert.Len(t, third.Rows, 1)
	assert.True(t, d.state.Done)
}

func TestDriverClose_IsIdempotent(t *testing.T) {
	rec := &bind.Record{StreamName: "orders", StartSeq: 1, EndSeq: 1}
	conn := &fakeConn{bounds: broker.StreamBounds{FirstSeq: 1, LastSeq: 1}}
	d := newConnectedDriver(rec, conn)

	d.Close()
	assert.True(t, conn.closed)
	assert.NotPanics(t, func() { d.Close() })
}
