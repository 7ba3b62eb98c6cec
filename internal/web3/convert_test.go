package web3

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEthToWei(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1", "1000000000000000000"},
		{"0.01", "10000000000000000"},
		{"2.5", "2500000000000000000"},
		{"0.000000000000000001", "1"},
		{"1000", "1000000000000000000000"},
		{"0", "0"},
	}
	for _, tc := range cases {
		wei, err := EthToWei(tc.in)
		require.NoError(t, err, "EthToWei(%q)", tc.in)
		assert.Equal(t, tc.want, wei.String(), "EthToWei(%q)", tc.in)
	}
}

func TestEthToWeiRejectsBadInput(t *testing.T) {
	for _, in := range []string{
		"", "-1", "abc", "1.2.3", "0.0000000000000000001", "1,5",
		// sign characters hidden inside a part must not reach the parser
		"0.-5", "1.-5", "1.+5", "-0.5", "+1", "1.-",
	} {
		_, err := EthToWei(in)
		assert.Error(t, err, "EthToWei(%q)", in)
	}
}

func TestWeiToEth(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1000000000000000000", "1.0"},
		{"2500000000000000000", "2.5"},
		{"10000000000000000", "0.01"},
		{"1", "0.000000000000000001"},
		{"0", "0.0"},
		{"1100000000000000000000", "1100.0"},
	}
	for _, tc := range cases {
		wei, ok := new(big.Int).SetString(tc.in, 10)
		require.True(t, ok)
		assert.Equal(t, tc.want, WeiToEth(wei), "WeiToEth(%s)", tc.in)
	}
}

func TestWeiRoundTrip(t *testing.T) {
	for _, in := range []string{"0.01", "1.0", "2.5", "999.999999999999999999"} {
		wei, err := EthToWei(in)
		require.NoError(t, err)
		back, err := EthToWei(WeiToEth(wei))
		require.NoError(t, err)
		assert.Zero(t, wei.Cmp(back), "round trip of %q changed the amount", in)
	}
}

func TestWeiToEthFloat(t *testing.T) {
	wei, err := EthToWei("2.5")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, WeiToEthFloat(wei), 1e-9)
	assert.Zero(t, WeiToEthFloat(nil))
}
