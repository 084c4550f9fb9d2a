package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/colegioing/go-portal-client/internal/utils"
)

func TestPtrValueRoundTrip(t *testing.T) {
	require.Equal(t, "borrador", utils.Value(utils.Ptr("borrador")))
	require.Equal(t, 42, utils.Value(utils.Ptr(42)))
}

func TestValueNilPointer(t *testing.T) {
	var s *string
	require.Equal(t, "", utils.Value(s))

	var n *int64
	require.Equal(t, int64(0), utils.Value(n))
}
