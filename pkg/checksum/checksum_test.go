package checksum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestXOR(t *testing.T) {
	require.Equal(t, byte(0x00), XOR(nil))
	require.Equal(t, byte(0x02), XOR([]byte{0x03, 0x01}))
	require.Equal(t, byte(0x3A), XOR([]byte{0x04, 0x31, 0x0F}))
}

func TestAdditive(t *testing.T) {
	require.Equal(t, byte(0x00), Additive(nil))
	require.Equal(t, byte(0x03), Additive([]byte{0x01, 0x01, 0x01}))
	require.Equal(t, byte(0x93), Additive([]byte{0x01, 0x01, 0x08, 0x41, 0x48, 0x00, 0x00}))
	// wraps around
	require.Equal(t, byte(0x01), Additive([]byte{0xFF, 0x02}))
}

func TestVerify(t *testing.T) {
	require.True(t, Verify([]byte{0x01, 0x01, 0x01}, 0x03, StrategyAdditive))
	require.False(t, Verify([]byte{0x01, 0x01, 0x01}, 0x04, StrategyAdditive))
	require.True(t, Verify([]byte{0x05, 0x41, 0x00, 0x07}, 0x43, StrategyXOR))
}

func TestVerifySingleBitFlip(t *testing.T) {
	inputs := [][]byte{
		{0x03, 0x01},
		{0x04, 0x31, 0x0F},
		{0x05, 0x41, 0x12, 0x34},
		{0x00},
		{0xFF, 0xFF, 0xFF},
	}
	for _, strategy := range []Strategy{StrategyXOR, StrategyAdditive} {
		for _, in := range inputs {
			sum := Compute(in, strategy)
			require.True(t, Verify(in, sum, strategy))
			for i := range in {
				for bit := 0; bit < 8; bit++ {
					corrupted := append([]byte(nil), in...)
					corrupted[i] ^= 1 << bit
					require.Falsef(t, Verify(corrupted, sum, strategy), "strategy %d input % X byte %d bit %d", strategy, in, i, bit)
				}
			}
		}
	}
}
