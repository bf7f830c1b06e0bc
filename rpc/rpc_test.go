package rpc

import (
	"context"
	"errors"
	"math/big"
	"os"
	"strings"
	"testing"
	"time"

	"allocation-wallet-tui/config"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Hardhat's first development key
const devKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

type staticNetwork config.Network

func (n staticNetwork) ActiveNetwork() config.Network { return config.Network(n) }

func TestConnect(t *testing.T) {
	rpcURL := os.Getenv("ETH_RPC_URL")
	if rpcURL == "" {
		t.Skip("ETH_RPC_URL not set, skipping connection test")
	}

	t.Run("successful connection", func(t *testing.T) {
		result := Connect(rpcURL)
		require.NoError(t, result.Error)
		require.NotNil(t, result.Client)
		assert.Equal(t, rpcURL, result.Client.URL)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		st, err := NetworkStatus(ctx, result.Client)
		require.NoError(t, err)
		t.Logf("Connected to chain ID %s at block %d", st.ChainID, st.Block)
	})

	t.Run("ledger status and balance", func(t *testing.T) {
		l, err := NewLedger(staticNetwork{Name: "env", URL: rpcURL}, "", "", "")
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		bal, err := l.Balance(ctx, "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
		require.NoError(t, err)
		t.Logf("Native balance (wei): %s", bal)
	})
}

func TestNewLedger(t *testing.T) {
	_, err := NewLedger(staticNetwork{}, "not-an-address", "", "")
	assert.Error(t, err)

	_, err = NewLedger(staticNetwork{}, "", "", "zz")
	assert.ErrorContains(t, err, "signer key")

	l, err := NewLedger(staticNetwork{}, "", "", "0x"+devKey)
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", l.Signer())
}

func TestTransactPreconditions(t *testing.T) {
	ctx := context.Background()
	contract := "0x5FbDB2315678afecb367f032d93F642f64180aa3"

	t.Run("no signer", func(t *testing.T) {
		l, err := NewLedger(staticNetwork{}, contract, "", "")
		require.NoError(t, err)
		_, err = l.Claim(ctx, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
		assert.True(t, errors.Is(err, ErrNoSigner))
	})

	t.Run("no contract", func(t *testing.T) {
		l, err := NewLedger(staticNetwork{}, "", "", devKey)
		require.NoError(t, err)
		_, err = l.Claim(ctx, l.Signer())
		assert.ErrorIs(t, err, ErrNoContract)
	})

	t.Run("signer mismatch", func(t *testing.T) {
		l, err := NewLedger(staticNetwork{}, contract, "", devKey)
		require.NoError(t, err)
		_, err = l.Claim(ctx, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
		assert.ErrorContains(t, err, "not the configured signer")
	})

	t.Run("no network", func(t *testing.T) {
		l, err := NewLedger(staticNetwork{}, contract, "", devKey)
		require.NoError(t, err)
		_, err = l.Claim(ctx, strings.ToLower(l.Signer()))
		assert.ErrorIs(t, err, ErrNoNetwork)
	})

	t.Run("invalid reclaim recipient", func(t *testing.T) {
		l, err := NewLedger(staticNetwork{}, contract, "", devKey)
		require.NoError(t, err)
		_, err = l.Reclaim(ctx, l.Signer(), "bob")
		assert.ErrorContains(t, err, "invalid recipient")
	})
}

func TestAllocateCalldata(t *testing.T) {
	a := "0x1111111111111111111111111111111111111111"
	b := "0x2222222222222222222222222222222222222222"

	data, err := allocateCalldata([]string{a, b}, []float64{1, 2.5}, 6)
	require.NoError(t, err)

	selector := crypto.Keccak256([]byte("allocate(address[],uint256[])"))[:4]
	assert.Equal(t, selector, data[:4])

	args, err := rewards.Methods["allocate"].Inputs.Unpack(data[4:])
	require.NoError(t, err)
	assert.Equal(t, []common.Address{common.HexToAddress(a), common.HexToAddress(b)}, args[0])
	units, ok := args[1].([]*big.Int)
	require.True(t, ok)
	require.Len(t, units, 2)
	assert.Equal(t, "1000000", units[0].String())
	assert.Equal(t, "2500000", units[1].String())

	_, err = allocateCalldata([]string{a}, []float64{1, 2}, 6)
	assert.Error(t, err)

	_, err = allocateCalldata([]string{"alice"}, []float64{1}, 6)
	assert.ErrorContains(t, err, "invalid recipient")
}

func TestBalanceOfCalldata(t *testing.T) {
	owner := common.HexToAddress("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045")
	data := balanceOfCalldata(owner)
	require.Len(t, data, 36)
	assert.Equal(t, balanceOfSelector, data[:4])
	assert.Equal(t, owner.Bytes(), data[16:])
}

func TestExplorerTxURL(t *testing.T) {
	assert.Equal(t, "https://sepolia.etherscan.io/tx/0xabc", ExplorerTxURL("https://sepolia.etherscan.io/", "0xabc"))
	assert.Equal(t, "", ExplorerTxURL("", "0xabc"))
	assert.Equal(t, "", GenerateQRCode(""))
	assert.NotEmpty(t, GenerateQRCode("https://sepolia.etherscan.io/tx/0xabc"))
}
