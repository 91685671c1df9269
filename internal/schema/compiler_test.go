package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/reflect/protoreflect"

	"github.com/shubhamrasal/natscan/internal/engine"
)

func TestCompile_ResolvesTopLevelAndNestedPaths(t *testing.T) {
	compiled, err := Compile("testdata/telemetry.proto", "Telemetry", []string{"id", "location.zone", "reading", "alert"})
	require.NoError(t, err)
	require.Len(t, compiled.Fields, 4)

	assert.Equal(t, "id", compiled.Fields[0].ColumnName)
	assert.Equal(t, "location_zone", compiled.Fields[1].ColumnName)
	assert.Equal(t, protoreflect.StringKind, compiled.Fields[1].Leaf().Kind())
	assert.Equal(t, protoreflect.DoubleKind, compiled.Fields[2].Leaf().Kind())
	assert.Equal(t, protoreflect.BoolKind, compiled.Fields[3].Leaf().Kind())
}

func TestCompile_UnknownMessageName(t *testing.T) {
	_, err := Compile("testdata/telemetry.proto", "DoesNotExist", nil)
	require.Error(t, err)
	var notFound ErrMessageNotFound
	require.ErrorAs(t, err, &notFound)
}

func TestCompile_UnknownFieldPath(t *testing.T) {
	_, err := Compile("testdata/telemetry.proto", "Telemetry", []string{"nope"})
	require.Error(t, err)
	var fieldErr ErrFieldPath
	require.ErrorAs(t, err, &fieldErr)
}

func TestCompile_CannotTraverseScalarField(t *testing.T) {
	_, err := Compile("testdata/telemetry.proto", "Telemetry", []string{"id.sub"})
	require.Error(t, err)
	var fieldErr ErrFieldPath
	require.ErrorAs(t, err, &fieldErr)
}

func TestCompile_MissingProtoFile(t *testing.T) {
	_, err := Compile("testdata/does-not-exist.proto", "Telemetry", nil)
	require.Error(t, err)
	var importErr ErrImport
	require.ErrorAs(t, err, &importErr)
}

func TestEngineKindFor_MapsProtoKinds(t *testing.T) {
	compiled, err := Compile("testdata/telemetry.proto", "Telemetry", []string{"id", "reading", "alert", "location.zone"})
	require.NoError(t, err)

	assert.Equal(t, engine.KindI64, EngineKindFor(compiled.Fields[0].Leaf()))
	assert.Equal(t, engine.KindF64, EngineKindFor(compiled.Fields[1].Leaf()))
	assert.Equal(t, engine.KindBool, EngineKindFor(compiled.Fields[2].Leaf()))
	assert.Equal(t, engine.KindVarChar, EngineKindFor(compiled.Fields[3].Leaf()))
}
