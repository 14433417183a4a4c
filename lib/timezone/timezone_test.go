package timezone

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocation(t *testing.T) {
	require.NotNil(t, Location)

	name, offset := Now().Zone()
	require.Equal(t, 8*60*60, offset, "zone %s", name)
}
