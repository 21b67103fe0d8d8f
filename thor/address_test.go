// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	testCases := []struct {
		input string
		err   string
	}{
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", ""},
		{"7567d83b7b8d80addcb281a71d54fc7b3364ffed", ""},
		{"1x7567d83b7b8d80addcb281a71d54fc7b3364ffed", "invalid prefix"},
		{"0x7567d83b", "invalid length"},
		{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffzz", "encoding/hex: invalid byte: U+007A 'z'"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			addr, err := ParseAddress(tc.input)
			if tc.err != "" {
				assert.EqualError(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "0x7567d83b7b8d80addcb281a71d54fc7b3364ffed", addr.String())
		})
	}
}

func TestAddressJSON(t *testing.T) {
	addr := MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")

	data, err := json.Marshal(map[Address]uint64{addr: 1})
	require.NoError(t, err)
	assert.Equal(t, `{"0x7567d83b7b8d80addcb281a71d54fc7b3364ffed":1}`, string(data))

	var decoded map[Address]uint64
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, uint64(1), decoded[addr])

	var ptr *Address
	data, err = json.Marshal(struct {
		To *Address `json:"to"`
	}{ptr})
	require.NoError(t, err)
	assert.Equal(t, `{"to":null}`, string(data))
}

func TestCreateContractAddress(t *testing.T) {
	// well known vectors for sender 0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0
	sender := MustParseAddress("0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0")

	assert.Equal(t, "0xcd234a471b72ba2f1ccf0a70fcaba648a5eecd8d", CreateContractAddress(sender, 0).String())
	assert.Equal(t, "0x343c43a37d37dff08ae8c4a11544c718abb4fcf8", CreateContractAddress(sender, 1).String())
}
