// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package abi

import (
	"errors"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/betcoin/pollbet/thor"
)

// Event see abi.Event in go-ethereum.
type Event struct {
	id    thor.Bytes32
	event *ethabi.Event
}

// ID returns event id.
func (e *Event) ID() thor.Bytes32 {
	return e.id
}

// Name returns event name.
func (e *Event) Name() string {
	return e.event.Name
}

// Encode encodes the event into topics and data, in the layout a log carries it.
func (e *Event) Encode(args ...any) (topics []thor.Bytes32, data []byte, err error) {
	if len(args) != len(e.event.Inputs) {
		return nil, nil, errors.New("argument count mismatch")
	}
	topics = append(topics, e.id)
	var nonIndexed []any
	for i, input := range e.event.Inputs {
		if !input.Indexed {
			nonIndexed = append(nonIndexed, args[i])
			continue
		}
		packed, err := ethabi.Arguments{{Type: input.Type}}.Pack(args[i])
		if err != nil {
			return nil, nil, err
		}
		topics = append(topics, thor.BytesToBytes32(packed))
	}
	data, err = e.event.Inputs.NonIndexed().Pack(nonIndexed...)
	if err != nil {
		return nil, nil, err
	}
	return topics, data, nil
}

// Decode decodes non-indexed fields of event log data into v.
func (e *Event) Decode(data []byte, v any) error {
	if len(data)%32 != 0 {
		return errors.New("data has incorrect length")
	}
	args := e.event.Inputs.NonIndexed()
	vals, err := args.Unpack(data)
	if err != nil {
		return err
	}
	return args.Copy(v, vals)
}

// DecodeTopics decodes indexed fields of event log topics into v.
// The first topic must be the event id.
func (e *Event) DecodeTopics(topics []thor.Bytes32, v any) error {
	if len(topics) == 0 || topics[0] != e.id {
		return errors.New("topics do not match event")
	}
	var indexed ethabi.Arguments
	for _, input := range e.event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	hashes := make([]common.Hash, 0, len(topics)-1)
	for _, t := range topics[1:] {
		hashes = append(hashes, common.Hash(t))
	}
	return ethabi.ParseTopics(v, indexed, hashes)
}
