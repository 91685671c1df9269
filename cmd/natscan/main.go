// Command natscan drives a nats_scan query end-to-end from the command
// line. It stands in for the embedded-engine extension-loader glue:
// instead of registering a table function with an embedded engine, it
// prints the resulting rows, which is enough to exercise the binder,
// schema compiler, range resolver, and scan driver manually.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/shubhamrasal/natscan/internal/bind"
	"github.com/shubhamrasal/natscan/internal/config"
	"github.com/shubhamrasal/natscan/internal/engine"
	"github.com/shubhamrasal/natscan/internal/scan"
)

var (
	configPath string

	url          string
	subject      string
	startSeq     uint64
	endSeq       uint64
	hasStartSeq  bool
	hasEndSeq    bool
	startTimeUs  int64
	endTimeUs    int64
	jsonExtract  []string
	protoFile    string
	protoMessage string
	protoExtract []string
	batchSize    int
)

var rootCmd = &cobra.Command{
	Use:   "natscan [stream_name]",
	Short: "Scan a NATS JetStream stream as table rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		setupLogging(cfg.LogLevel)

		effectiveURL := url
		if effectiveURL == "" {
			effectiveURL = cfg.BrokerURL
		}

		hasStartSeq = cmd.Flags().Changed("start-seq")
		hasEndSeq = cmd.Flags().Changed("end-seq")

		rec, err := bind.Bind(bind.Args{
			StreamName:   args[0],
			Subject:      subject,
			URL:          effectiveURL,
			StartSeq:     startSeq,
			EndSeq:       endSeq,
			HasStartSeq:  hasStartSeq,
			HasEndSeq:    hasEndSeq,
			StartTimeNs:  startTimeUs * 1000,
			EndTimeNs:    endTimeUs * 1000,
			JSONExtract:  jsonExtract,
			ProtoFile:    protoFile,
			ProtoMessage: protoMessage,
			ProtoExtract: protoExtract,
		})
		if err != nil {
			return err
		}

		driver := scan.New(rec, cfg.ConnectTimeout, cfg.FetchTimeout)
		defer driver.Close()

		printHeader(rec)
		total := 0
		for {
			batch, err := driver.Execute(batchSize)
			if err != nil {
				return err
			}
			if len(batch.Rows) == 0 {
				break
			}
			for _, row := range batch.Rows {
				printRow(row)
			}
			total += len(batch.Rows)
		}

		fmt.Fprintf(os.Stderr, "%d rows\n", total)
		return nil
	},
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

func printHeader(rec *bind.Record) {
	names := make([]string, len(rec.Schema.Columns))
	for i, c := range rec.Schema.Columns {
		names[i] = c.Name
	}
	fmt.Println(strings.Join(names, "\t"))
}

func printRow(row engine.Row) {
	cells := make([]string, len(row))
	for i, v := range row {
		cells[i] = formatValue(v)
	}
	fmt.Println(strings.Join(cells, "\t"))
}

func formatValue(v engine.Value) string {
	if v.Null {
		return "NULL"
	}
	switch v.Kind {
	case engine.KindVarChar:
		return v.Str
	case engine.KindBlob:
		return fmt.Sprintf("<%d bytes>", len(v.Bytes))
	case engine.KindI32:
		return fmt.Sprintf("%d", v.I32)
	case engine.KindI64:
		return fmt.Sprintf("%d", v.I64)
	case engine.KindU32:
		return fmt.Sprintf("%d", v.U32)
	case engine.KindU64:
		return fmt.Sprintf("%d", v.U64)
	case engine.KindF32:
		return fmt.Sprintf("%g", v.F32)
	case engine.KindF64:
		return fmt.Sprintf("%g", v.F64)
	case engine.KindBool:
		return fmt.Sprintf("%t", v.Bool)
	case engine.KindTimestampMicros:
		return v.TS.UTC().Format(time.RFC3339Nano)
	default:
		return ""
	}
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path")
	rootCmd.Flags().StringVar(&url, "url", "", "NATS server URL (overrides config file)")
	rootCmd.Flags().StringVar(&subject, "subject", "", "Substring filter applied to message subjects")
	rootCmd.Flags().Uint64Var(&startSeq, "start-seq", 0, "Inclusive start sequence")
	rootCmd.Flags().Uint64Var(&endSeq, "end-seq", 0, "Inclusive end sequence")
	rootCmd.Flags().Int64Var(&startTimeUs, "start-time", 0, "Inclusive start time, microseconds since the Unix epoch")
	rootCmd.Flags().Int64Var(&endTimeUs, "end-time", 0, "Inclusive end time, microseconds since the Unix epoch")
	rootCmd.Flags().StringSliceVar(&jsonExtract, "json-extract", nil, "Top-level JSON fields to project")
	rootCmd.Flags().StringVar(&protoFile, "proto-file", "", "Path to a .proto schema file")
	rootCmd.Flags().StringVar(&protoMessage, "proto-message", "", "Protobuf message type name")
	rootCmd.Flags().StringSliceVar(&protoExtract, "proto-extract", nil, "Dotted protobuf field paths to project")
	rootCmd.Flags().IntVar(&batchSize, "batch-size", 2048, "Rows requested per execution call")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
