// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bind

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/betcoin/pollbet/api/types"
	"github.com/betcoin/pollbet/thorclient/common"
	"github.com/betcoin/pollbet/tx"
)

// DefaultExpiration is the number of blocks a tx stays valid, 60 blocks ~10 minutes.
const DefaultExpiration = uint32(60)

// ErrSignTransaction is wrapped by build errors caused by the signer.
var ErrSignTransaction = errors.New("failed to sign transaction")

// Sender is a transaction sender that builds, signs and/ or sends transactions to the VeChain network.
type Sender struct {
	contract   *Transactor
	methodName string
	args       []any
	mu         sync.Mutex
	tx         atomic.Pointer[tx.Transaction]
}

// Options to override default transaction parameters when building or sending a transaction.
// See Sender.Build for more details.
type Options struct {
	Gas          *uint64
	GasPriceCoef *uint8
	Expiration   *uint32
	BlockRef     *tx.BlockRef
	Nonce        *uint64
}

func (o *Options) Clone() *Options {
	opts := *o
	return &opts
}

// Simulate simulates the method call without sending the transaction to the network.
func (s *Sender) Simulate(ctx context.Context) (*types.CallResult, error) {
	return s.contract.Simulate(ctx, s.contract.signer.Address(), s.methodName, s.args...)
}

// Build and sign the transaction without sending it to the network.
// A simulation that reverts fails the build with a *RevertError.
func (s *Sender) Build(ctx context.Context, opts *Options) (*tx.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if previous := s.tx.Load(); previous != nil {
		return previous, nil
	}

	if opts == nil {
		opts = &Options{}
	} else {
		opts = opts.Clone()
	}

	clause, err := s.contract.Clause(s.methodName, s.args...)
	if err != nil {
		return nil, err
	}

	client := s.contract.client
	best, err := client.Block(ctx, common.BestRevision)
	if err != nil {
		return nil, fmt.Errorf("failed to get best block: %w", err)
	}

	chainTag, err := client.ChainTag(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain tag: %w", err)
	}

	if opts.Gas == nil {
		gas, err := tx.IntrinsicGas(clause)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate intrinsic gas: %w", err)
		}
		simulation, err := s.Simulate(ctx)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("simulation failed: %w", err), s.errorContext())
		}
		gas += simulation.GasUsed
		opts.Gas = &gas
	}

	if opts.Expiration == nil {
		expiration := DefaultExpiration
		opts.Expiration = &expiration
	}

	if opts.BlockRef == nil {
		ref := tx.NewBlockRefFromID(best.ID)
		opts.BlockRef = &ref
	}

	if opts.Nonce == nil {
		nonce := rand.Uint64() //#nosec G404
		opts.Nonce = &nonce
	}

	var coef uint8
	if opts.GasPriceCoef != nil {
		coef = *opts.GasPriceCoef
	}

	transaction := tx.NewBuilder().
		Clause(clause).
		Gas(*opts.Gas).
		GasPriceCoef(coef).
		ChainTag(chainTag).
		Expiration(*opts.Expiration).
		BlockRef(*opts.BlockRef).
		Nonce(*opts.Nonce).
		Build()

	transaction, err = s.contract.signer.SignTransaction(transaction)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSignTransaction, err)
	}

	return transaction, nil
}

// Send sends the transaction to the network. Does not wait for the receipt.
func (s *Sender) Send(ctx context.Context, opts *Options) (*tx.Transaction, error) {
	transaction, err := s.Build(ctx, opts)
	if err != nil {
		return nil, err
	}

	if _, err = s.contract.client.SendTransaction(ctx, transaction); err != nil {
		return nil, err
	}
	s.tx.Store(transaction)

	return transaction, nil
}

func (s *Sender) errorContext() error {
	method, ok := s.contract.abi.MethodByName(s.methodName)
	if !ok {
		return errors.New("method not found: " + s.methodName)
	}

	errBuilder := strings.Builder{}
	errBuilder.WriteString("transaction failed")
	errBuilder.WriteString("\nmethod=")
	errBuilder.WriteString(method.Name())
	errBuilder.WriteString("\nsender=")
	errBuilder.WriteString(s.contract.signer.Address().String())
	for i, arg := range s.args {
		errBuilder.WriteString(fmt.Sprintf("\narg%d=", i))
		errBuilder.WriteString(fmt.Sprintf("%v", arg))
	}

	return errors.New(errBuilder.String())
}
