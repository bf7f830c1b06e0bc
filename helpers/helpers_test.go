package helpers

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShortenAddr(t *testing.T) {
	assert.Equal(t, "0xd8dA…6045", ShortenAddr("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"))
	assert.Equal(t, "addr-X", ShortenAddr("addr-X"))
}

func TestIsValidEthAddress(t *testing.T) {
	assert.True(t, IsValidEthAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"))
	assert.False(t, IsValidEthAddress("d8dA6BF26964aF9D7eEd9e03E53415D37aA96045"))
	assert.False(t, IsValidEthAddress("0x123"))
}

func TestToBaseUnits(t *testing.T) {
	cases := []struct {
		amount   float64
		decimals uint8
		want     string
	}{
		{1, 6, "1000000"},
		{2.3, 6, "2300000"},
		{0, 18, "0"},
		{0.1, 18, "100000000000000000"},
		{42, 0, "42"},
	}
	for _, tc := range cases {
		got, err := ToBaseUnits(tc.amount, tc.decimals)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got.String(), "amount %v decimals %d", tc.amount, tc.decimals)
	}

	_, err := ToBaseUnits(-1, 6)
	assert.Error(t, err)
	_, err = ToBaseUnits(math.NaN(), 6)
	assert.Error(t, err)
}

func TestFormatToken(t *testing.T) {
	assert.Equal(t, "1.5000 RWD", FormatToken(big.NewInt(1_500_000), 6, "RWD"))
	assert.Equal(t, "0 RWD", FormatToken(nil, 6, "RWD"))
	assert.Equal(t, "2.5 RWD", FormatAmount(2.5, "RWD"))
	assert.Equal(t, "3", FormatAmount(3, ""))
}

func TestLoadedAt(t *testing.T) {
	assert.Equal(t, "loading…", LoadedAt(time.Now(), true))
	assert.Equal(t, "never", LoadedAt(time.Time{}, false))
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, 3, Max(1, 3))
	assert.Equal(t, 1, Min(1, 3))
}
