// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bind

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/betcoin/pollbet/abi"
	"github.com/betcoin/pollbet/api/types"
)

// RevertError reports a call the contract refused to execute.
type RevertError struct {
	Method string
	Reason string
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("contract call reverted (method: %s)", e.Method)
	}
	return fmt.Sprintf("contract call reverted (method: %s): %s", e.Method, e.Reason)
}

// VMError reports a call that failed inside the virtual machine without a revert.
type VMError struct {
	Method string
	Msg    string
}

func (e *VMError) Error() string {
	return fmt.Sprintf("VM error (method: %s): %s", e.Method, e.Msg)
}

// UnpackRevert decodes the reason of an Error(string) revert payload.
func UnpackRevert(data []byte) (string, error) {
	return abi.UnpackRevert(data)
}

// RevertReason extracts the revert reason of a reverted call result.
// It returns an empty string when the payload carries no reason.
func RevertReason(res *types.CallResult) string {
	if res == nil || res.Data == "" || res.Data == "0x" {
		return ""
	}
	decoded, err := hexutil.Decode(res.Data)
	if err != nil {
		return ""
	}
	reason, err := UnpackRevert(decoded)
	if err != nil {
		return ""
	}
	return reason
}

// CheckResult turns a reverted or failed call result into an error.
func CheckResult(method string, res *types.CallResult) error {
	if res.Reverted {
		return &RevertError{Method: method, Reason: RevertReason(res)}
	}
	if res.VMError != "" {
		return &VMError{Method: method, Msg: res.VMError}
	}
	return nil
}
