package keychain

import (
	"crypto/sha256"
	"math/big"
)

// c32Alphabet is the Crockford base32 alphabet used by STX addresses; it
// omits I, L, O, and U.
const c32Alphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// c32CheckEncode renders a (version, payload) pair as an STX address:
// an 'S' sigil, the version character, then the payload and a 4-byte
// double-sha256 checksum in c32.
func c32CheckEncode(version byte, payload []byte) string {
	versioned := make([]byte, 0, len(payload)+1)
	versioned = append(versioned, version)
	versioned = append(versioned, payload...)

	first := sha256.Sum256(versioned)
	second := sha256.Sum256(first[:])
	checksum := second[:4]

	data := make([]byte, 0, len(payload)+4)
	data = append(data, payload...)
	data = append(data, checksum...)

	return "S" + string(c32Alphabet[version]) + c32Encode(data)
}

// c32Encode converts a byte string to c32, preserving leading zero bytes as
// leading zero characters.
func c32Encode(data []byte) string {
	n := new(big.Int).SetBytes(data)
	base := big.NewInt(32)
	mod := new(big.Int)

	var out []byte
	for n.Sign() > 0 {
		n.DivMod(n, base, mod)
		out = append(out, c32Alphabet[mod.Int64()])
	}
	for _, b := range data {
		if b != 0 {
			break
		}
		out = append(out, c32Alphabet[0])
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}
