// Package broker wraps the nats.go connection and JetStream context the
// scan driver needs: connect-with-timeout, stream-info, and
// direct-get-by-sequence. It owns the long-lived native handles and
// releases them in reverse order.
package broker

import (
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// StreamBounds is the first/last sequence snapshot taken once per query.
type StreamBounds struct {
	FirstSeq uint64
	LastSeq  uint64
}

// Message is the subset of a fetched NATS message the decoders and scan
// driver read. It is released (by going out of scope) before the cursor
// advances; nothing here retains a reference to nats.go internals.
type Message struct {
	Subject     string
	TimestampNs int64
	Payload     []byte
}

// Fetcher is the narrow surface the Range Resolver and Scan Driver
// consume, satisfied by *Conn. Tests substitute an in-memory fake
// implementing this interface instead of a real NATS server.
type Fetcher interface {
	DirectGet(streamName string, seq uint64) (Message, error)
}

// Conn owns the connection and JetStream context for one query.
type Conn struct {
	nc           *nats.Conn
	js           nats.JetStreamContext
	fetchTimeout time.Duration
}

// Connect opens a connection to url with the given connect timeout and
// creates a JetStream context. fetchTimeout bounds each subsequent
// DirectGet call. Mirrors the teacher's nats.Connect(url, opts...)
// sequencing in the old internal/nats/client.go, minus the
// reconnect/durable-consumer concerns an interactive browser needs but
// a single-pass scan does not (no automatic reconnection).
func Connect(url string, connectTimeout, fetchTimeout time.Duration) (*Conn, error) {
	nc, err := nats.Connect(url, nats.Timeout(connectTimeout), nats.MaxReconnects(0))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	log.Debug().Str("url", url).Msg("nats connection established")
	return &Conn{nc: nc, js: js, fetchTimeout: fetchTimeout}, nil
}

// StreamBounds fetches stream info and returns the first/last sequence.
func (c *Conn) StreamBounds(streamName string) (StreamBounds, error) {
	info, err := c.js.StreamInfo(streamName)
	if err != nil {
		return StreamBounds{}, fmt.Errorf("failed to get stream info for %s: %w", streamName, err)
	}
	return StreamBounds{FirstSeq: info.State.FirstSeq, LastSeq: info.State.LastSeq}, nil
}

// ErrNotFound is returned by DirectGet when no message exists at seq,
// distinct from any other fetch failure.
var ErrNotFound = errors.New("sequence not found")

// DirectGet fetches the message at seq without consumer state, bounded
// by the connection's fetch timeout. Absent sequences (purged/deleted)
// return ErrNotFound, a normal condition never itself reported to the
// caller.
func (c *Conn) DirectGet(streamName string, seq uint64) (Message, error) {
	msg, err := c.js.GetMsg(streamName, seq, nats.MaxWait(c.fetchTimeout))
	if err != nil {
		if errors.Is(err, nats.ErrMsgNotFound) {
			return Message{}, ErrNotFound
		}
		return Message{}, fmt.Errorf("failed to fetch message at sequence %d: %w", seq, err)
	}

	return Message{
		Subject:     msg.Subject,
		TimestampNs: msg.Time.UnixNano(),
		Payload:     msg.Data,
	}, nil
}

// Close releases the JetStream context (no explicit handle in nats.go)
// and the connection, in that order: the reverse of acquisition.
func (c *Conn) Close() {
	c.js = nil
	if c.nc != nil {
		c.nc.Close()
		c.nc = nil
	}
	log.Debug().Msg("nats connection closed")
}
