package schema

import (
	"github.com/shubhamrasal/natscan/internal/engine"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// EngineKindFor is a pure function from a protobuf leaf field's kind to
// the engine's logical column type.
func EngineKindFor(fd protoreflect.FieldDescriptor) engine.Kind {
	switch fd.Kind() {
	case protoreflect.StringKind:
		return engine.KindVarChar
	case protoreflect.BytesKind:
		return engine.KindBlob
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return engine.KindI32
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return engine.KindI64
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return engine.KindU32
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return engine.KindU64
	case protoreflect.FloatKind:
		return engine.KindF32
	case protoreflect.DoubleKind:
		return engine.KindF64
	case protoreflect.BoolKind:
		return engine.KindBool
	case protoreflect.EnumKind:
		return engine.KindVarChar
	case protoreflect.MessageKind, protoreflect.GroupKind:
		// Nested message as a leaf column is always null; nested fields
		// are only reachable by further dotted leaf paths.
		return engine.KindVarChar
	default:
		return engine.KindVarChar
	}
}

// ValueFromLeaf reads a single leaf field's value off msg via reflection
// and converts it per the Type Mapper table. Proto3 scalar semantics
// apply: scalars are always "present" with their default value, so this
// is only called once HasField has already been checked for message
// kinds by the caller.
func ValueFromLeaf(msg protoreflect.Message, fd protoreflect.FieldDescriptor) engine.Value {
	switch fd.Kind() {
	case protoreflect.StringKind:
		return engine.VarChar(msg.Get(fd).String())
	case protoreflect.BytesKind:
		return engine.Blob(msg.Get(fd).Bytes())
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return engine.I32(int32(msg.Get(fd).Int()))
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return engine.I64(msg.Get(fd).Int())
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return engine.U32(uint32(msg.Get(fd).Uint()))
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return engine.U64(msg.Get(fd).Uint())
	case protoreflect.FloatKind:
		return engine.F32(float32(msg.Get(fd).Float()))
	case protoreflect.DoubleKind:
		return engine.F64(msg.Get(fd).Float())
	case protoreflect.BoolKind:
		return engine.Bool(msg.Get(fd).Bool())
	case protoreflect.EnumKind:
		num := msg.Get(fd).Enum()
		ev := fd.Enum().Values().ByNumber(num)
		if ev == nil {
			return engine.NullValue(engine.KindVarChar)
		}
		return engine.VarChar(string(ev.Name()))
	case protoreflect.MessageKind, protoreflect.GroupKind:
		return engine.NullValue(engine.KindVarChar)
	default:
		return engine.NullValue(engine.KindVarChar)
	}
}
