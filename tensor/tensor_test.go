package tensor_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/graphgrad/tensor"
)

func TestPublicAPI(t *testing.T) {
	x, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	require.NoError(t, err)
	assert.Equal(t, 6.0, x.At(1, 2))

	var buf bytes.Buffer
	require.NoError(t, tensor.WriteText(&buf, x))
	assert.Equal(t, "2 3\n1 2 3 4 5 6\n", buf.String())

	y, err := tensor.ReadText(&buf)
	require.NoError(t, err)
	assert.True(t, x.Equal(y, 0))

	buf.Reset()
	require.NoError(t, tensor.FormatMatrix(&buf, x, true))
	assert.Equal(t, "1 4 \n2 5 \n3 6 \n", buf.String())

	_, err = tensor.New(tensor.Shape{0, 2})
	assert.Error(t, err)
}
