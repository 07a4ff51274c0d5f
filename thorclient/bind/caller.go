// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bind

import (
	"context"
	"errors"
	"fmt"

	"github.com/betcoin/pollbet/abi"
	"github.com/betcoin/pollbet/api/types"
	"github.com/betcoin/pollbet/thor"
	"github.com/betcoin/pollbet/thorclient"
	"github.com/betcoin/pollbet/thorclient/common"
	"github.com/betcoin/pollbet/tx"
)

// Caller is a generic contract wrapper that allows calling methods.
type Caller struct {
	client *thorclient.Client
	abi    *abi.ABI
	addr   thor.Address
	rev    string
}

func NewCaller(client *thorclient.Client, abiData []byte, address thor.Address) (*Caller, error) {
	contractABI, err := abi.New(abiData)
	if err != nil {
		return nil, err
	}

	return &Caller{
		client: client,
		abi:    contractABI,
		addr:   address,
		rev:    common.BestRevision,
	}, nil
}

func (w *Caller) Address() thor.Address {
	return w.addr
}

func (w *Caller) ABI() *abi.ABI {
	return w.abi
}

// Attach creates a new Transactor instance with the provided signer.
func (w *Caller) Attach(signer Signer) *Transactor {
	return NewTransactor(signer, w)
}

// Client returns the underlying node client used by the Caller.
func (w *Caller) Client() *thorclient.Client {
	return w.client
}

// Simulate a contract call from the caller address.
// It can be used to estimate gas or check the result of a call without sending a transaction.
// A reverted call yields a *RevertError.
func (w *Caller) Simulate(ctx context.Context, caller thor.Address, methodName string, args ...any) (*types.CallResult, error) {
	clause, err := w.Clause(methodName, args...)
	if err != nil {
		return nil, err
	}

	res, err := w.Batch(ctx, caller, clause)
	if err != nil {
		return nil, err
	}
	if err := CheckResult(methodName, res[0]); err != nil {
		return nil, err
	}
	return res[0], nil
}

// Batch inspects all clauses in a single request against the same state.
// Results are returned as is, reverted or not. The node stops at the first
// reverted clause, so fewer results than clauses are returned in that case.
func (w *Caller) Batch(ctx context.Context, caller thor.Address, clauses ...*tx.Clause) ([]*types.CallResult, error) {
	if len(clauses) == 0 {
		return nil, errors.New("no clauses to inspect")
	}
	body := &types.BatchCallData{
		Caller:  &caller,
		Clauses: make(types.Clauses, 0, len(clauses)),
	}
	for _, c := range clauses {
		body.Clauses = append(body.Clauses, types.ConvertClause(c))
	}

	res, err := w.client.InspectClauses(ctx, body, thorclient.Revision(w.rev))
	if err != nil {
		return nil, err
	}
	switch {
	case len(res) == len(clauses):
	case len(res) > 0 && len(res) < len(clauses) && res[len(res)-1].Reverted:
	default:
		return nil, fmt.Errorf("expected %d results, got %d", len(clauses), len(res))
	}
	return res, nil
}

// Clause encodes a call of methodName as a clause carrying no value.
func (w *Caller) Clause(methodName string, args ...any) (*tx.Clause, error) {
	method, ok := w.abi.MethodByName(methodName)
	if !ok {
		return nil, errors.New("method not found: " + methodName)
	}
	data, err := method.EncodeInput(args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack method (%s): %w", methodName, err)
	}

	addr := w.addr
	return tx.NewClause(&addr).WithData(data), nil
}
