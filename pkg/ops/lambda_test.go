// pkg/ops/lambda_test.go
package ops

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashank3959/NVTabular/pkg/model"
)

func TestLambdaTransform(t *testing.T) {
	RegisterLambda("upper", func(v interface{}) (interface{}, error) {
		return strings.ToUpper(model.ToString(v)), nil
	})

	op, err := NewLambda("upper")
	require.NoError(t, err)
	assert.Equal(t, "upper", op.FuncName())

	in := model.MustColumnSet("s")
	out, err := op.Transform(in, nil, mustChunk(t, []string{"s"}, map[string][]interface{}{
		"s": {"hello", nil, "World"},
	}))
	require.NoError(t, err)

	values, _ := out.Column("s")
	assert.Equal(t, []interface{}{"HELLO", nil, "WORLD"}, values)
}

func TestLambdaUnregistered(t *testing.T) {
	_, err := NewLambda("no_such_lambda")
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestLambdaFunctionError(t *testing.T) {
	RegisterLambda("always_fails", func(v interface{}) (interface{}, error) {
		return nil, fmt.Errorf("boom")
	})

	op, err := NewLambda("always_fails")
	require.NoError(t, err)

	in := model.MustColumnSet("s")
	_, err = op.Transform(in, nil, mustChunk(t, []string{"s"}, map[string][]interface{}{
		"s": {"x"},
	}))
	var tfErr *TransformError
	require.ErrorAs(t, err, &tfErr)
}

func TestLambdaConfigRoundTrip(t *testing.T) {
	RegisterLambda("identity", func(v interface{}) (interface{}, error) {
		return v, nil
	})

	op, err := NewLambda("identity")
	require.NoError(t, err)

	cfg, err := op.ConfigMap()
	require.NoError(t, err)

	rebuilt, err := NewFromConfig("lambda", cfg)
	require.NoError(t, err)
	assert.Equal(t, "identity", rebuilt.(*LambdaOp).FuncName())
}
