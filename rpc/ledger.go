package rpc

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"allocation-wallet-tui/config"
	"allocation-wallet-tui/helpers"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	ErrNoSigner   = errors.New("no signer key configured (set REWARDS_SIGNER_KEY)")
	ErrNoContract = errors.New("no rewards contract configured")
	ErrNoNetwork  = errors.New("no active network")
)

// rewards contract surface used by the client
const rewardsABI = `[
  {"type":"function","name":"allocate","stateMutability":"nonpayable","inputs":[{"name":"recipients","type":"address[]"},{"name":"amounts","type":"uint256[]"}],"outputs":[]},
  {"type":"function","name":"reclaim","stateMutability":"nonpayable","inputs":[{"name":"recipient","type":"address"}],"outputs":[]},
  {"type":"function","name":"claim","stateMutability":"nonpayable","inputs":[],"outputs":[]}
]`

var rewards = mustParseABI(rewardsABI)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(err)
	}
	return parsed
}

// Receipt is the confirmation of a submitted transaction group
type Receipt struct {
	Round uint64
	TxIDs []string
}

// NetworkSource yields the network transactions target
type NetworkSource interface {
	ActiveNetwork() config.Network
}

// Ledger composes, signs and submits rewards contract transactions on the
// active network.
type Ledger struct {
	networks NetworkSource
	contract common.Address
	token    common.Address
	key      *ecdsa.PrivateKey

	mu     sync.Mutex
	client *Client
}

// NewLedger creates a ledger client. keyHex may be empty, in which case
// reads work and every write fails with ErrNoSigner.
func NewLedger(networks NetworkSource, contract, token, keyHex string) (*Ledger, error) {
	l := &Ledger{networks: networks}

	if contract != "" {
		if !common.IsHexAddress(contract) {
			return nil, fmt.Errorf("invalid rewards contract address %q", contract)
		}
		l.contract = common.HexToAddress(contract)
	}
	if token != "" {
		if !common.IsHexAddress(token) {
			return nil, fmt.Errorf("invalid token address %q", token)
		}
		l.token = common.HexToAddress(token)
	}

	if keyHex = strings.TrimPrefix(strings.TrimSpace(keyHex), "0x"); keyHex != "" {
		key, err := crypto.HexToECDSA(keyHex)
		if err != nil {
			return nil, fmt.Errorf("parse signer key: %w", err)
		}
		l.key = key
	}
	return l, nil
}

// Signer returns the operator address, or "" without a key
func (l *Ledger) Signer() string {
	if l.key == nil {
		return ""
	}
	return crypto.PubkeyToAddress(l.key.PublicKey).Hex()
}

// conn returns a client for the active network, redialing after a switch
func (l *Ledger) conn(ctx context.Context) (*Client, error) {
	n := l.networks.ActiveNetwork()
	if n.URL == "" {
		return nil, ErrNoNetwork
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.client != nil && l.client.URL == n.URL {
		return l.client, nil
	}

	deadline := 8 * time.Second
	if d, ok := ctx.Deadline(); ok {
		deadline = time.Until(d)
	}
	res := ConnectWithTimeout(n.URL, deadline)
	if res.Error != nil {
		return nil, fmt.Errorf("connect %s: %w", n.Name, res.Error)
	}
	if l.client != nil {
		l.client.Close()
	}
	l.client = res.Client
	return l.client, nil
}

// Status reads chain id and head block of the active network
func (l *Ledger) Status(ctx context.Context) (Status, error) {
	c, err := l.conn(ctx)
	if err != nil {
		return Status{}, err
	}
	return NetworkStatus(ctx, c)
}

// Balance returns the reward token balance of owner
func (l *Ledger) Balance(ctx context.Context, owner string) (*big.Int, error) {
	if !common.IsHexAddress(owner) {
		return nil, fmt.Errorf("invalid address %q", owner)
	}
	c, err := l.conn(ctx)
	if err != nil {
		return nil, err
	}
	return TokenBalance(ctx, c, l.token, common.HexToAddress(owner))
}

// Allocate records amounts owed to recipients in one atomic transaction.
// Amounts are whole-token values scaled by decimals.
func (l *Ledger) Allocate(ctx context.Context, from string, recipients []string, amounts []float64, decimals uint8) (Receipt, error) {
	data, err := allocateCalldata(recipients, amounts, decimals)
	if err != nil {
		return Receipt{}, err
	}
	return l.transact(ctx, from, data)
}

// Reclaim revokes the allocation of recipient back to the issuer
func (l *Ledger) Reclaim(ctx context.Context, from, recipient string) (Receipt, error) {
	if !common.IsHexAddress(recipient) {
		return Receipt{}, fmt.Errorf("invalid recipient %q", recipient)
	}
	data, err := rewards.Pack("reclaim", common.HexToAddress(recipient))
	if err != nil {
		return Receipt{}, err
	}
	return l.transact(ctx, from, data)
}

// Claim transfers the allocation owed to from into its account
func (l *Ledger) Claim(ctx context.Context, from string) (Receipt, error) {
	data, err := rewards.Pack("claim")
	if err != nil {
		return Receipt{}, err
	}
	return l.transact(ctx, from, data)
}

func allocateCalldata(recipients []string, amounts []float64, decimals uint8) ([]byte, error) {
	if len(recipients) != len(amounts) {
		return nil, fmt.Errorf("%d recipients but %d amounts", len(recipients), len(amounts))
	}
	addrs := make([]common.Address, len(recipients))
	units := make([]*big.Int, len(amounts))
	for i, r := range recipients {
		if !common.IsHexAddress(r) {
			return nil, fmt.Errorf("invalid recipient %q", r)
		}
		addrs[i] = common.HexToAddress(r)

		u, err := helpers.ToBaseUnits(amounts[i], decimals)
		if err != nil {
			return nil, fmt.Errorf("amount for %s: %w", r, err)
		}
		units[i] = u
	}
	return rewards.Pack("allocate", addrs, units)
}

// transact signs data as an EIP-1559 call to the rewards contract, sends
// it and waits for the receipt.
func (l *Ledger) transact(ctx context.Context, from string, data []byte) (Receipt, error) {
	if l.key == nil {
		return Receipt{}, ErrNoSigner
	}
	if l.contract == (common.Address{}) {
		return Receipt{}, ErrNoContract
	}
	signer := crypto.PubkeyToAddress(l.key.PublicKey)
	if !strings.EqualFold(signer.Hex(), from) {
		return Receipt{}, fmt.Errorf("active account %s is not the configured signer %s", helpers.ShortenAddr(from), helpers.ShortenAddr(signer.Hex()))
	}

	c, err := l.conn(ctx)
	if err != nil {
		return Receipt{}, err
	}

	chainID, err := c.ChainID(ctx)
	if err != nil {
		return Receipt{}, fmt.Errorf("chain id: %w", err)
	}
	nonce, err := c.PendingNonceAt(ctx, signer)
	if err != nil {
		return Receipt{}, fmt.Errorf("nonce: %w", err)
	}
	tip, err := c.SuggestGasTipCap(ctx)
	if err != nil {
		return Receipt{}, fmt.Errorf("gas tip: %w", err)
	}
	head, err := c.HeaderByNumber(ctx, nil)
	if err != nil {
		return Receipt{}, fmt.Errorf("head: %w", err)
	}
	feeCap := new(big.Int).Set(tip)
	if head.BaseFee != nil {
		feeCap.Add(feeCap, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
	}

	gas, err := c.EstimateGas(ctx, ethereum.CallMsg{From: signer, To: &l.contract, Data: data})
	if err != nil {
		return Receipt{}, fmt.Errorf("estimate gas: %w", err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gas,
		To:        &l.contract,
		Data:      data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), l.key)
	if err != nil {
		return Receipt{}, fmt.Errorf("sign: %w", err)
	}
	if err := c.SendTransaction(ctx, signed); err != nil {
		return Receipt{}, fmt.Errorf("send: %w", err)
	}

	rcpt, err := bind.WaitMined(ctx, c.Client, signed)
	if err != nil {
		return Receipt{}, fmt.Errorf("wait for %s: %w", signed.Hash().Hex(), err)
	}
	if rcpt.Status != types.ReceiptStatusSuccessful {
		return Receipt{}, fmt.Errorf("transaction %s reverted", signed.Hash().Hex())
	}

	return Receipt{Round: rcpt.BlockNumber.Uint64(), TxIDs: []string{signed.Hash().Hex()}}, nil
}
