package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	from, limit := Calculate(1, 10)
	require.Equal(t, 0, from)
	require.Equal(t, 10, limit)

	from, limit = Calculate(3, 25)
	require.Equal(t, 50, from)
	require.Equal(t, 25, limit)

	from, limit = Calculate(0, 0)
	require.Equal(t, 0, from)
	require.Equal(t, DefaultPageSize, limit)

	_, limit = Calculate(2, 1000)
	require.Equal(t, DefaultPageSize, limit)
}
