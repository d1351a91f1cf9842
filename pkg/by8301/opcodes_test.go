package by8301

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCatalogArity(t *testing.T) {
	expect := map[Opcode]int{
		Play: 0, Pause: 0, Next: 0, Previous: 0, VolumeUp: 0, VolumeDown: 0,
		StandbyToggle: 0, Reset: 0, Stop: 0,
		QueryPlayState: 0, QueryVolume: 0, QueryMusicQuantity: 0,
		SetVolume: 1, SetLoopMode: 1, SelectTrack: 2,
	}
	ops := Catalog()
	require.Len(t, ops, len(expect))
	for i, op := range ops {
		if i > 0 {
			require.Less(t, ops[i-1], op)
		}
		n, ok := expect[op]
		require.True(t, ok, op.String())
		require.Equal(t, n, op.ParamLen(), op.String())
		require.True(t, op.Known())
	}
	require.Equal(t, KindGet, QueryMusicQuantity.Kind())
	require.Equal(t, KindSet, SelectTrack.Kind())
	require.Equal(t, "play (0x01)", Play.String())
}
