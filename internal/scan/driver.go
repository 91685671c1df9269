// Package scan implements the Scan Driver: the long-lived
// connection/context lifecycle, the per-batch fetch loop, and row
// emission. It is deliberately single-threaded, matching the
// original's MaxThreads==1 contract, so there is no internal
// synchronization here.
package scan

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shubhamrasal/natscan/internal/bind"
	"github.com/shubhamrasal/natscan/internal/broker"
	"github.com/shubhamrasal/natscan/internal/decode"
	"github.com/shubhamrasal/natscan/internal/engine"
	"github.com/shubhamrasal/natscan/internal/rangeresolve"
)

// Driver executes one query's worth of batches against a BindRecord.
// It carries the long-lived resources across many Execute calls.
type Driver struct {
	rec            *bind.Record
	connectTimeout time.Duration
	fetchTimeout   time.Duration
	decoder        decode.Decoder
	decoderName    string
	state          *State
}

// New constructs a Driver for rec. The broker connection is not opened
// yet (UNINITIALISED); it is acquired lazily on the first Execute call.
// connectTimeout bounds the initial connect, fetchTimeout bounds each
// subsequent direct-get call.
func New(rec *bind.Record, connectTimeout, fetchTimeout time.Duration) *Driver {
	var dec decode.Decoder
	var decoderName string
	switch {
	case rec.UsesJSON():
		dec = decode.NewJSONDecoder(rec.JSONFieldNames)
		decoderName = "json"
	case rec.UsesProto():
		dec = decode.NewProtoDecoder(rec.ProtoSchema)
		decoderName = "proto"
	}

	return &Driver{
		rec:            rec,
		connectTimeout: connectTimeout,
		fetchTimeout:   fetchTimeout,
		decoder:        dec,
		decoderName:    decoderName,
		state:          NewState(rec.StartSeq, rec.EndSeq),
	}
}

// Close releases the driver's long-lived resources. Safe to call
// multiple times and safe to call before any Execute.
func (d *Driver) Close() {
	d.state.Close()
}

// Execute emits up to batchCapacity rows per call, advancing the
// scan's state machine as needed. An empty batch with no error signals
// DONE.
func (d *Driver) Execute(batchCapacity int) (engine.Batch, error) {
	st := d.state

	if st.Done {
		return engine.Batch{}, nil
	}

	if st.Phase == PhaseUninitialised {
		if err := d.connect(); err != nil {
			return engine.Batch{}, err
		}
	}

	if st.Phase == PhaseConnected {
		if err := d.resolveTimestamps(); err != nil {
			return engine.Batch{}, err
		}
		st.Phase = PhaseResolved
	}

	if st.Done {
		return engine.Batch{}, nil
	}

	if st.CurrentSeq > st.EffectiveEndSeq {
		st.Done = true
		return engine.Batch{}, nil
	}

	st.Phase = PhaseScanning
	return d.fillBatch(batchCapacity)
}

// connect performs the UNINITIALISED -> CONNECTED transition: opens
// the broker connection with a bounded timeout, snapshots stream info,
// and clamps EffectiveEndSeq to the stream's last sequence if it was
// left at its sentinel.
func (d *Driver) connect() error {
	conn, err := broker.Connect(d.rec.BrokerURL, d.connectTimeout, d.fetchTimeout)
	if err != nil {
		return ErrConnection{Reason: "failed to connect to NATS", Err: err}
	}

	bounds, err := conn.StreamBounds(d.rec.StreamName)
	if err != nil {
		conn.Close()
		return ErrConnection{Reason: "failed to get stream info", Err: err}
	}

	d.state.Conn = conn
	d.state.Bounds = bounds
	if d.state.EffectiveEndSeq == sentinelEndSeq {
		d.state.EffectiveEndSeq = bounds.LastSeq
	}
	d.state.Phase = PhaseConnected

	log.Debug().Str("stream", d.rec.StreamName).Uint64("first_seq", bounds.FirstSeq).Uint64("last_seq", bounds.LastSeq).Msg("scan connected")
	return nil
}

// resolveTimestamps performs the CONNECTED -> RESOLVED transition.
// It is vacuous unless a time bound was requested.
func (d *Driver) resolveTimestamps() error {
	st := d.state
	if st.TimestampsResolved {
		return nil
	}

	if d.rec.StartTimeNs == 0 && d.rec.EndTimeNs == 0 {
		st.TimestampsResolved = true
		return nil
	}

	if d.rec.StartTimeNs != 0 {
		seq, found, err := rangeresolve.Resolve(st.Conn, d.rec.StreamName, d.rec.StartTimeNs, st.Bounds.FirstSeq, st.Bounds.LastSeq)
		if err != nil {
			return err
		}
		if !found {
			st.Done = true
			st.TimestampsResolved = true
			return nil
		}
		st.CurrentSeq = seq
	}

	if d.rec.EndTimeNs != 0 {
		seq, found, err := rangeresolve.Resolve(st.Conn, d.rec.StreamName, d.rec.EndTimeNs, st.Bounds.FirstSeq, st.Bounds.LastSeq)
		if err != nil {
			return err
		}
		if found {
			st.EffectiveEndSeq = seq
		}
		// Else keep the existing EffectiveEndSeq.
	}

	st.TimestampsResolved = true
	return nil
}

// fillBatch is the per-batch fill loop: fetch by sequence, skip absent
// sequences and subject mismatches, decode, emit.
func (d *Driver) fillBatch(capacity int) (engine.Batch, error) {
	st := d.state
	batch := engine.Batch{Rows: make([]engine.Row, 0, capacity)}

	for len(batch.Rows) < capacity && st.CurrentSeq <= st.EffectiveEndSeq {
		msg, err := st.Conn.DirectGet(d.rec.StreamName, st.CurrentSeq)
		if err != nil {
			if err == broker.ErrNotFound {
				probesTotal.WithLabelValues(d.rec.StreamName, "not_found").Inc()
				st.CurrentSeq++
				continue
			}
			probesTotal.WithLabelValues(d.rec.StreamName, "error").Inc()
			return engine.Batch{}, ErrFetch{Seq: st.CurrentSeq, Err: err}
		}
		probesTotal.WithLabelValues(d.rec.StreamName, "ok").Inc()

		if d.rec.SubjectFilter != "" && !strings.Contains(msg.Subject, d.rec.SubjectFilter) {
			st.CurrentSeq++
			continue
		}

		row := d.buildRow(st.CurrentSeq, msg)
		batch.Rows = append(batch.Rows, row)
		rowsEmitted.WithLabelValues(d.rec.StreamName).Inc()

		st.CurrentSeq++
	}

	if st.CurrentSeq > st.EffectiveEndSeq {
		st.Done = true
	}

	return batch, nil
}

// buildRow writes the fixed metadata columns and, when requested, runs
// the selected decoder to populate extraction columns.
func (d *Driver) buildRow(seq uint64, msg broker.Message) engine.Row {
	var payload engine.Value
	if d.rec.UsesProto() {
		payload = engine.Blob(msg.Payload)
	} else {
		payload = engine.VarChar(string(msg.Payload))
	}

	row := engine.Row{
		engine.VarChar(d.rec.StreamName),
		engine.VarChar(msg.Subject),
		engine.U64(seq),
		engine.TimestampMicros(msg.TimestampNs / 1000),
		payload,
	}

	if d.decoder != nil {
		extracted, ok := d.decoder.Decode(msg.Payload)
		if !ok {
			decodeFailuresTotal.WithLabelValues(d.rec.StreamName, d.decoderName).Inc()
		}
		row = append(row, extracted...)
	}

	return row
}
