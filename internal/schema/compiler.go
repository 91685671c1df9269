// Package schema compiles a .proto file into resolved field paths and
// engine column types. protocompile plays the role of the
// importer/source-tree/error-collector, and
// google.golang.org/protobuf's protoreflect descriptors play the role
// of the descriptor pool. Go's garbage collector keeps the
// FileDescriptor alive for as long as anything (a FieldPath, a dynamic
// message) still references it, so there is no separate "outlives"
// bookkeeping to do.
package schema

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bufbuild/protocompile"
	"github.com/bufbuild/protocompile/reporter"
	"github.com/rs/zerolog/log"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// FieldPath is a dotted leaf path resolved against a message
// descriptor: the chain of field descriptors to walk (all but the last
// are message-typed), and the leaf's protobuf kind and descriptor
// (EngineKindFor maps the leaf to its engine column type).
type FieldPath struct {
	Path       string
	Components []protoreflect.FieldDescriptor
	ColumnName string
	ColumnType FieldColumnType
}

// FieldColumnType bundles the leaf's protobuf kind with its descriptor,
// since enum/message leaves need the descriptor at decode time too.
type FieldColumnType struct {
	Kind protoreflect.Kind
	Leaf protoreflect.FieldDescriptor
}

// Leaf returns the terminal field descriptor of the path.
func (p FieldPath) Leaf() protoreflect.FieldDescriptor {
	return p.Components[len(p.Components)-1]
}

// Compiled holds everything decode-time reflection needs for one query:
// the resolved message descriptor and the pre-resolved field paths.
type Compiled struct {
	MessageDescriptor protoreflect.MessageDescriptor
	Fields            []FieldPath
}

// Compile imports protoFile, locates messageName within it, and resolves
// each dotted entry in fieldPaths against that message. Field-path
// validation is pure and fails on the first bad path.
func Compile(protoFile, messageName string, fieldPaths []string) (*Compiled, error) {
	dir := filepath.Dir(protoFile)
	if dir == "" {
		dir = "."
	}
	filename := filepath.Base(protoFile)

	var diagnostics []string
	rep := reporter.NewReporter(
		func(err reporter.ErrorWithPos) error {
			pos := err.GetPosition()
			diagnostics = append(diagnostics, fmt.Sprintf("%s:%d:%d: %s", pos.Filename, pos.Line, pos.Col, err.Unwrap()))
			return nil
		},
		nil,
	)

	compiler := protocompile.Compiler{
		Resolver: protocompile.WithStandardImports(&protocompile.SourceResolver{
			ImportPaths: []string{dir},
		}),
		Reporter: rep,
	}

	files, err := compiler.Compile(context.Background(), filename)
	if err != nil || len(files) == 0 {
		if len(diagnostics) > 0 {
			return nil, ErrImport{ProtoFile: protoFile, Detail: strings.Join(diagnostics, "\n")}
		}
		return nil, ErrImport{ProtoFile: protoFile, Detail: errString(err)}
	}

	fd := files[0]
	md := fd.Messages().ByName(protoreflect.Name(messageName))
	if md == nil {
		return nil, ErrMessageNotFound{MessageName: messageName, ProtoFile: protoFile}
	}

	resolved := make([]FieldPath, 0, len(fieldPaths))
	for _, path := range fieldPaths {
		fp, err := resolveFieldPath(md, path)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, fp)
	}

	log.Debug().Str("proto_file", protoFile).Str("message", messageName).Int("fields", len(resolved)).Msg("protobuf schema compiled")

	return &Compiled{MessageDescriptor: md, Fields: resolved}, nil
}

func resolveFieldPath(root protoreflect.MessageDescriptor, path string) (FieldPath, error) {
	parts := strings.Split(path, ".")
	components := make([]protoreflect.FieldDescriptor, 0, len(parts))
	current := root

	for i, part := range parts {
		fd := current.Fields().ByName(protoreflect.Name(part))
		if fd == nil {
			return FieldPath{}, ErrFieldPath{Path: path, Reason: fmt.Sprintf("field %q not found in message %q", part, current.Name())}
		}
		components = append(components, fd)

		if i < len(parts)-1 {
			if fd.Kind() != protoreflect.MessageKind && fd.Kind() != protoreflect.GroupKind {
				return FieldPath{}, ErrFieldPath{Path: path, Reason: fmt.Sprintf("field %q is not a message type, cannot traverse into %q", part, parts[i+1])}
			}
			current = fd.Message()
		}
	}

	leaf := components[len(components)-1]
	return FieldPath{
		Path:       path,
		Components: components,
		ColumnName: strings.ReplaceAll(path, ".", "_"),
		ColumnType: FieldColumnType{Kind: leaf.Kind(), Leaf: leaf},
	}, nil
}

func errString(err error) string {
	if err == nil {
		return "unknown import failure"
	}
	return err.Error()
}
