package coin

import (
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineCoins(t *testing.T) {
	cs, err := CombineCoins(
		NewCoin(1, 0, "IOV"),
		NewCoin(2, 0, "BTC"),
		NewCoin(3, 0, "IOV"),
	)
	require.NoError(t, err)
	require.Len(t, cs, 2)
	assert.Equal(t, NewCoin(2, 0, "BTC"), *cs[0])
	assert.Equal(t, NewCoin(4, 0, "IOV"), *cs[1])
	assert.NoError(t, cs.Validate())

	_, err = CombineCoins(NewCoin(1, 0, "bad"))
	assert.True(t, errors.ErrCurrency.Is(err))
}

func TestCoinsAddSubtract(t *testing.T) {
	var cs Coins
	cs, err := cs.Add(NewCoin(5, 0, "ETH"))
	require.NoError(t, err)
	cs, err = cs.Add(Coin{Ticker: "BTC"})
	require.NoError(t, err)
	assert.Len(t, cs, 1)

	assert.True(t, cs.Contains(NewCoin(5, 0, "ETH")))
	assert.False(t, cs.Contains(NewCoin(6, 0, "ETH")))
	assert.False(t, cs.Contains(NewCoin(1, 0, "BTC")))

	cs, err = cs.Subtract(NewCoin(5, 0, "ETH"))
	require.NoError(t, err)
	assert.True(t, cs.IsEmpty())
}
