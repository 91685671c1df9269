// Command natscan-seed populates a JetStream stream with synthetic JSON
// messages so nats_scan can be exercised against real sequence numbers,
// timestamps, and subjects without a production broker. The
// stream provisioning and publish loop survive from the
// original demo-data generator; the metrics simulation and query-API
// server do not, since nothing here queries metrics back out.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type demoMessage struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Data      string    `json:"data"`
	Priority  int       `json:"priority"`
}

func main() {
	url := flag.String("url", "nats://localhost:4222", "NATS server URL")
	stream := flag.String("stream", "demo-events", "Stream name to create and populate")
	subject := flag.String("subject", "demo.events", "Subject to publish under")
	count := flag.Int("count", 200, "Number of messages to publish")
	gapEvery := flag.Int("gap-every", 0, "Leave a purge gap every N sequences (0 disables)")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	nc, err := nats.Connect(*url, nats.Timeout(5*time.Second))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to NATS")
	}
	defer nc.Close()

	js, err := nc.JetStream()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create JetStream context")
	}

	if _, err := js.AddStream(&nats.StreamConfig{
		Name:      *stream,
		Subjects:  []string{*subject + ".>"},
		Retention: nats.LimitsPolicy,
		Storage:   nats.FileStorage,
		MaxAge:    24 * time.Hour,
	}); err != nil {
		log.Info().Err(err).Str("stream", *stream).Msg("stream may already exist")
	}

	publishDemoMessages(js, *subject, *stream, *count, *gapEvery)

	log.Info().Int("count", *count).Str("stream", *stream).Msg("demo data populated")
}

// publishDemoMessages publishes count messages and, when gapEvery is
// positive, deletes every gapEvery-th message immediately after
// publishing it so the resulting stream has purge gaps for exercising
// the range resolver's skip-forward behavior.
func publishDemoMessages(js nats.JetStreamContext, subject, source string, count, gapEvery int) {
	messageTypes := []string{"info", "warning", "error", "debug", "trace"}

	for i := 0; i < count; i++ {
		msg := demoMessage{
			ID:        fmt.Sprintf("%s-%d", source, i+1),
			Timestamp: time.Now().Add(-time.Duration(rand.Intn(3600)) * time.Second),
			Type:      messageTypes[rand.Intn(len(messageTypes))],
			Source:    source,
			Data:      fmt.Sprintf("synthetic event %d", i+1),
			Priority:  rand.Intn(10),
		}

		body, err := json.Marshal(msg)
		if err != nil {
			log.Warn().Err(err).Msg("failed to marshal demo message")
			continue
		}

		ack, err := js.Publish(fmt.Sprintf("%s.%s", subject, msg.Type), body)
		if err != nil {
			log.Warn().Err(err).Msg("failed to publish demo message")
			continue
		}

		if gapEvery > 0 && int(ack.Sequence)%gapEvery == 0 {
			if err := js.DeleteMsg(source, ack.Sequence); err != nil {
				log.Warn().Err(err).Uint64("seq", ack.Sequence).Msg("failed to punch purge gap")
			}
		}
	}
}
