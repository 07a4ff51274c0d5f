// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gen holds the compiled artifacts of the PollBet contract.
package gen

import (
	_ "embed"
)

//go:generate rm -rf ./compiled/
//go:generate docker run -v ./:/solidity ethereum/solc:0.8.24 --optimize-runs 200 --overwrite --abi -o /solidity/compiled /solidity/PollBet.sol

// ABIVersion is bumped whenever compiled/PollBet.abi changes shape.
const ABIVersion = "1"

//go:embed compiled/PollBet.abi
var pollBetABI []byte

// PollBetABI returns a copy of the contract ABI json.
func PollBetABI() []byte {
	return append([]byte(nil), pollBetABI...)
}
