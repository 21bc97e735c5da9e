package resolve

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"
)

// IsEVMAddress reports whether s has the 0x-prefixed hex-40 shape of an
// EVM contract address.
func IsEVMAddress(s string) bool {
	return common.IsHexAddress(s)
}

// IsSolanaAddress reports whether s has the base58 shape of a Solana
// account: 32-44 characters decoding to a 32-byte key.
func IsSolanaAddress(s string) bool {
	if len(s) < 32 || len(s) > 44 {
		return false
	}
	decoded, err := base58.Decode(s)
	if err != nil {
		return false
	}
	return len(decoded) == 32
}

// IsContractAddress reports whether the query looks like an on-chain
// address of any supported chain.
func IsContractAddress(s string) bool {
	return IsEVMAddress(s) || IsSolanaAddress(s)
}
