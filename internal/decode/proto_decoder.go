package decode

import (
	"github.com/rs/zerolog/log"
	"github.com/shubhamrasal/natscan/internal/engine"
	"github.com/shubhamrasal/natscan/internal/schema"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// ProtoDecoder extracts resolved dotted field paths from a protobuf
// payload using reflection over a runtime-compiled descriptor. A fresh
// dynamic message is constructed per payload from the message
// descriptor, the Go equivalent of cloning the original's
// factory-owned prototype, since dynamicpb.NewMessage(md) is itself a
// cheap, descriptor-driven allocation rather than a real deep clone.
//
// Unlike the C++ original, Go's protobuf reflection API has no method
// named GetMessage that a platform header macro could hijack, so the
// Windows header name collision hazard the original guards against
// does not exist in this port.
type ProtoDecoder struct {
	MessageDescriptor protoreflect.MessageDescriptor
	Fields            []schema.FieldPath
}

func NewProtoDecoder(compiled *schema.Compiled) *ProtoDecoder {
	return &ProtoDecoder{MessageDescriptor: compiled.MessageDescriptor, Fields: compiled.Fields}
}

func (d *ProtoDecoder) Decode(payload []byte) ([]engine.Value, bool) {
	out := make([]engine.Value, len(d.Fields))

	msg := dynamicpb.NewMessage(d.MessageDescriptor)
	if err := proto.Unmarshal(payload, msg); err != nil {
		log.Debug().Err(err).Msg("protobuf payload parse failed, nulling extraction columns")
		for i, f := range d.Fields {
			out[i] = engine.NullValue(schema.EngineKindFor(f.Leaf()))
		}
		return out, false
	}

	for i, f := range d.Fields {
		out[i] = extractPath(msg, f)
	}
	return out, true
}

// extractPath walks the nested messages of a dotted field path and
// reads the leaf value. Any unset intermediate message field yields
// NULL.
func extractPath(msg protoreflect.Message, f schema.FieldPath) engine.Value {
	current := msg
	for i, fd := range f.Components {
		isLast := i == len(f.Components)-1
		if !isLast {
			if !current.Has(fd) {
				return engine.NullValue(schema.EngineKindFor(f.Leaf()))
			}
			current = current.Get(fd).Message()
			continue
		}
		return schema.ValueFromLeaf(current, fd)
	}
	return engine.NullValue(schema.EngineKindFor(f.Leaf()))
}
