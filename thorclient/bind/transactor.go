// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package bind

// Transactor is a generic contract wrapper to build and send transactions.
// It also allows calling methods since it embeds a Caller.
type Transactor struct {
	*Caller
	signer Signer
}

func NewTransactor(signer Signer, caller *Caller) *Transactor {
	return &Transactor{
		Caller: caller,
		signer: signer,
	}
}

// Sender prepares a transaction calling methodName with args.
func (w *Transactor) Sender(methodName string, args ...any) *Sender {
	return &Sender{
		contract:   w,
		methodName: methodName,
		args:       args,
	}
}
