package schema

import "fmt"

// ErrImport is returned when the .proto file (or one of its imports)
// fails to parse. Detail carries the concatenated "<file>:<line>:<col>:
// <text>" diagnostics the way the original collector accumulates them.
type ErrImport struct {
	ProtoFile string
	Detail    string
}

func (e ErrImport) Error() string {
	return fmt.Sprintf("failed to import protobuf schema file: %s\n%s", e.ProtoFile, e.Detail)
}

// ErrMessageNotFound is returned when proto_message names no type in
// the imported file.
type ErrMessageNotFound struct {
	MessageName string
	ProtoFile   string
}

func (e ErrMessageNotFound) Error() string {
	return fmt.Sprintf("message type %q not found in %s", e.MessageName, e.ProtoFile)
}

// ErrFieldPath is returned when a dotted field path cannot be resolved
// against the loaded schema: an unknown component, or traversal into a
// non-message field.
type ErrFieldPath struct {
	Path   string
	Reason string
}

func (e ErrFieldPath) Error() string {
	return fmt.Sprintf("field path %q: %s", e.Path, e.Reason)
}
