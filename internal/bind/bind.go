// Package bind implements the parameter binder: it validates a table
// function call's arguments, rejects mutually exclusive modes, invokes
// the schema compiler when protobuf extraction is requested, and
// produces the immutable Record plus the output Schema the engine will
// use to declare result columns.
package bind

import (
	"github.com/rs/zerolog/log"
	"github.com/shubhamrasal/natscan/internal/engine"
	"github.com/shubhamrasal/natscan/internal/schema"
)

// Record is the immutable-after-binding result of a successful Bind.
type Record struct {
	StreamName     string
	SubjectFilter  string
	BrokerURL      string
	StartSeq       uint64
	EndSeq         uint64
	StartTimeNs    int64
	EndTimeNs      int64
	JSONFieldNames []string

	ProtoFilePath    string
	ProtoMessageName string
	ProtoFieldPaths  []string
	ProtoSchema      *schema.Compiled

	Schema engine.Schema
}

// UsesJSON reports whether JSON field extraction is active.
func (r *Record) UsesJSON() bool { return len(r.JSONFieldNames) > 0 }

// UsesProto reports whether protobuf field extraction is active.
func (r *Record) UsesProto() bool { return len(r.ProtoFieldPaths) > 0 }

// Bind validates args and produces a Record, or an ErrArgument
// describing the first validation failure found.
func Bind(args Args) (*Record, error) {
	if args.StreamName == "" {
		return nil, ErrArgument{Reason: "stream_name is required"}
	}

	hasSeqBound := args.HasStartSeq || args.HasEndSeq
	hasTimeBound := args.StartTimeNs != 0 || args.EndTimeNs != 0
	if hasSeqBound && hasTimeBound {
		return nil, ErrArgument{Reason: "cannot mix sequence-based (start_seq/end_seq) and time-based (start_time/end_time) parameters"}
	}

	if len(args.JSONExtract) > 0 && len(args.ProtoExtract) > 0 {
		return nil, ErrArgument{Reason: "cannot use both json_extract and proto_extract parameters"}
	}

	if len(args.ProtoExtract) > 0 {
		if args.ProtoFile == "" {
			return nil, ErrArgument{Reason: "proto_file parameter is required when using proto_extract"}
		}
		if args.ProtoMessage == "" {
			return nil, ErrArgument{Reason: "proto_message parameter is required when using proto_extract"}
		}
	}

	url := args.URL
	if url == "" {
		url = DefaultURL
	}

	startSeq := args.StartSeq
	endSeq := DefaultEndSeq
	if args.HasEndSeq {
		endSeq = args.EndSeq
	}

	rec := &Record{
		StreamName:       args.StreamName,
		SubjectFilter:    args.Subject,
		BrokerURL:        url,
		StartSeq:         startSeq,
		EndSeq:           endSeq,
		StartTimeNs:      args.StartTimeNs,
		EndTimeNs:        args.EndTimeNs,
		JSONFieldNames:   args.JSONExtract,
		ProtoFilePath:    args.ProtoFile,
		ProtoMessageName: args.ProtoMessage,
		ProtoFieldPaths:  args.ProtoExtract,
	}

	if rec.UsesProto() {
		compiled, err := schema.Compile(rec.ProtoFilePath, rec.ProtoMessageName, rec.ProtoFieldPaths)
		if err != nil {
			return nil, err
		}
		rec.ProtoSchema = compiled
	}

	rec.Schema = buildOutputSchema(rec)

	log.Debug().
		Str("stream", rec.StreamName).
		Bool("json", rec.UsesJSON()).
		Bool("proto", rec.UsesProto()).
		Int("columns", len(rec.Schema.Columns)).
		Msg("bind complete")

	return rec, nil
}

// buildOutputSchema produces the output schema: fixed metadata columns
// followed by one column per extraction field.
func buildOutputSchema(rec *Record) engine.Schema {
	payloadKind := engine.KindVarChar
	if rec.UsesProto() {
		payloadKind = engine.KindBlob
	}

	cols := []engine.Column{
		{Name: "stream", Type: engine.KindVarChar},
		{Name: "subject", Type: engine.KindVarChar},
		{Name: "seq", Type: engine.KindU64},
		{Name: "ts_nats", Type: engine.KindTimestampMicros},
		{Name: "payload", Type: payloadKind},
	}

	for _, name := range rec.JSONFieldNames {
		cols = append(cols, engine.Column{Name: name, Type: engine.KindVarChar})
	}

	if rec.ProtoSchema != nil {
		for _, f := range rec.ProtoSchema.Fields {
			cols = append(cols, engine.Column{Name: f.ColumnName, Type: schema.EngineKindFor(f.Leaf())})
		}
	}

	return engine.Schema{Columns: cols}
}
