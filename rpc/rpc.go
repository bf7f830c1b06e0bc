package rpc

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/sync/errgroup"
)

// Client wraps an Ethereum RPC client
type Client struct {
	*ethclient.Client
	URL string
}

// ConnectResult holds the result of an RPC connection attempt
type ConnectResult struct {
	Client *Client
	Error  error
}

// Connect attempts to connect to an Ethereum RPC endpoint
func Connect(url string) ConnectResult {
	return ConnectWithTimeout(url, 8*time.Second)
}

// ConnectWithTimeout attempts to connect with a custom timeout
func ConnectWithTimeout(url string, timeout time.Duration) ConnectResult {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return ConnectResult{Client: nil, Error: err}
	}

	return ConnectResult{
		Client: &Client{
			Client: client,
			URL:    url,
		},
		Error: nil,
	}
}

// Status is a snapshot of the connected chain
type Status struct {
	ChainID *big.Int
	Block   uint64
}

// NetworkStatus reads chain id and head block in parallel
func NetworkStatus(ctx context.Context, client *Client) (Status, error) {
	var st Status
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		id, err := client.ChainID(gctx)
		st.ChainID = id
		return err
	})
	g.Go(func() error {
		n, err := client.BlockNumber(gctx)
		st.Block = n
		return err
	})
	if err := g.Wait(); err != nil {
		return Status{}, err
	}
	return st, nil
}

// TokenBalance returns the ERC20 balance of owner, or the native balance
// when token is the zero address.
func TokenBalance(ctx context.Context, client *Client, token, owner common.Address) (*big.Int, error) {
	if token == (common.Address{}) {
		return client.BalanceAt(ctx, owner, nil)
	}
	return erc20BalanceOf(ctx, client.Client, token, owner)
}

// Minimal ERC20 balanceOf via eth_call.
var (
	// balanceOf(address) methodID = keccak256("balanceOf(address)")[:4]
	balanceOfSelector = []byte{0x70, 0xa0, 0x82, 0x31}
)

func balanceOfCalldata(owner common.Address) []byte {
	// calldata = selector + 32-byte left-padded address
	padded := common.LeftPadBytes(owner.Bytes(), 32)
	data := make([]byte, 0, len(balanceOfSelector)+len(padded))
	data = append(data, balanceOfSelector...)
	return append(data, padded...)
}

func erc20BalanceOf(ctx context.Context, client *ethclient.Client, token common.Address, owner common.Address) (*big.Int, error) {
	msg := ethereum.CallMsg{
		To:   &token,
		Data: balanceOfCalldata(owner),
	}
	out, err := client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return big.NewInt(0), nil
	}
	return new(big.Int).SetBytes(out), nil
}
