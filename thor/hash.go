// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"hash"
	"io"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// Blake2b computes the blake2b-256 checksum of the concatenated data.
func Blake2b(data ...[]byte) Bytes32 {
	return Blake2bFn(func(w io.Writer) {
		for _, b := range data {
			w.Write(b)
		}
	})
}

// Blake2bFn computes the blake2b-256 checksum of what fn writes.
func Blake2bFn(fn func(w io.Writer)) (h Bytes32) {
	w := hashers.Get().(hash.Hash)
	defer hashers.Put(w)

	w.Reset()
	fn(w)
	w.Sum(h[:0])
	return
}

var hashers = sync.Pool{
	New: func() any {
		w, _ := blake2b.New256(nil)
		return w
	},
}
