package decode

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shubhamrasal/natscan/internal/engine"
)

// JSONDecoder extracts a fixed ordered set of top-level field names from
// a JSON payload. It is the teacher's own JSON tool (encoding/json, as
// used throughout the config loader) applied to payload bytes rather
// than config files.
type JSONDecoder struct {
	Fields []string
}

func NewJSONDecoder(fields []string) *JSONDecoder {
	return &JSONDecoder{Fields: fields}
}

func (d *JSONDecoder) Decode(payload []byte) ([]engine.Value, bool) {
	out := make([]engine.Value, len(d.Fields))

	var top map[string]json.RawMessage
	if err := json.Unmarshal(payload, &top); err != nil {
		log.Debug().Err(err).Msg("json payload parse failed, nulling extraction columns")
		for i := range out {
			out[i] = engine.NullValue(engine.KindVarChar)
		}
		return out, false
	}

	for i, field := range d.Fields {
		raw, ok := top[field]
		if !ok {
			out[i] = engine.NullValue(engine.KindVarChar)
			continue
		}
		out[i] = jsonValueToColumn(raw)
	}
	return out, true
}

// jsonValueToColumn converts one JSON value's raw bytes to the varchar
// extraction-column rule: string becomes the literal, number becomes a
// fixed-precision decimal stringification (lossy for large integers,
// an open question preserved faithfully from the original), bool
// becomes "true"/"false", null becomes NULL, and object/array become
// the serialised JSON form.
func jsonValueToColumn(raw json.RawMessage) engine.Value {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return engine.NullValue(engine.KindVarChar)
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return engine.NullValue(engine.KindVarChar)
		}
		return engine.VarChar(s)
	case 'n':
		return engine.NullValue(engine.KindVarChar)
	case 't', 'f':
		return engine.VarChar(string(trimmed))
	case '{', '[':
		return engine.VarChar(string(trimmed))
	default:
		var num float64
		if err := json.Unmarshal(trimmed, &num); err != nil {
			return engine.NullValue(engine.KindVarChar)
		}
		return engine.VarChar(fmt.Sprintf("%f", num))
	}
}
