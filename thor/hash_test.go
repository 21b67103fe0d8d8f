// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
)

func TestKeccak256(t *testing.T) {
	data := []byte("devnode")

	assert.Equal(t, Bytes32(crypto.Keccak256Hash(data)), Keccak256(data))
	assert.Equal(t, Bytes32(crypto.Keccak256Hash([]byte("dev"), []byte("node"))), Keccak256([]byte("dev"), []byte("node")))
	assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", EmptyCodeHash.String())
}

func BenchmarkKeccak256(b *testing.B) {
	data := make([]byte, 10)
	for b.Loop() {
		Keccak256(data)
	}
}
