package api

import (
	"context"
	"fmt"
)

// Allocations is a pending allocation batch. Addresses and Amounts are
// zipped index-wise.
type Allocations struct {
	Addresses []string  `json:"addresses"`
	Amounts   []float64 `json:"amounts"`
}

type addressRequest struct {
	Address string `json:"address"`
}

type txRequest struct {
	Address string `json:"address"`
	TxID    string `json:"txID"`
}

type batchTxRequest struct {
	Addresses []string `json:"addresses"`
	TxIDs     []string `json:"txIDs"`
}

type successResponse struct {
	Success bool `json:"success"`
}

// ClaimAllocation reports whether address has an allocation to claim
func (c *Client) ClaimAllocation(ctx context.Context, address string) (bool, error) {
	var resp struct {
		Claimable bool `json:"claimable"`
	}
	if err := c.post(ctx, PathClaimAllocation, addressRequest{Address: address}, &resp); err != nil {
		return false, err
	}
	return resp.Claimable, nil
}

// AddAllocations fetches the allocation batch pending for the issuer address
func (c *Client) AddAllocations(ctx context.Context, address string) (Allocations, error) {
	var resp Allocations
	if err := c.post(ctx, PathAddAllocations, addressRequest{Address: address}, &resp); err != nil {
		return Allocations{}, err
	}
	if len(resp.Addresses) != len(resp.Amounts) {
		return Allocations{}, fmt.Errorf("%s: %d addresses but %d amounts", PathAddAllocations, len(resp.Addresses), len(resp.Amounts))
	}
	for i, amt := range resp.Amounts {
		if amt < 0 {
			return Allocations{}, fmt.Errorf("%s: negative amount %v for %s", PathAddAllocations, amt, resp.Addresses[i])
		}
	}
	return resp, nil
}

// ReclaimAllocations fetches the addresses whose allocations can be reclaimed
func (c *Client) ReclaimAllocations(ctx context.Context, address string) ([]string, error) {
	var resp struct {
		Addresses []string `json:"addresses"`
	}
	if err := c.post(ctx, PathReclaimAllocations, addressRequest{Address: address}, &resp); err != nil {
		return nil, err
	}
	return resp.Addresses, nil
}

// AllocationsSuccessful records a confirmed allocation batch
func (c *Client) AllocationsSuccessful(ctx context.Context, addresses, txIDs []string) (bool, error) {
	var resp successResponse
	err := c.post(ctx, PathAllocationsSuccessful, batchTxRequest{Addresses: addresses, TxIDs: txIDs}, &resp)
	return resp.Success, err
}

// ClaimSuccessful records a confirmed claim
func (c *Client) ClaimSuccessful(ctx context.Context, address, txID string) (bool, error) {
	var resp successResponse
	err := c.post(ctx, PathClaimSuccessful, txRequest{Address: address, TxID: txID}, &resp)
	return resp.Success, err
}

// ReclaimSuccessful records a confirmed reclaim
func (c *Client) ReclaimSuccessful(ctx context.Context, address, txID string) (bool, error) {
	var resp successResponse
	err := c.post(ctx, PathReclaimSuccessful, txRequest{Address: address, TxID: txID}, &resp)
	return resp.Success, err
}
