package keychain

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	bip39 "github.com/tyler-smith/go-bip39"
)

// addressVersion is the c32check version byte for single-sig testnet
// addresses; every devnet account address carries it.
const addressVersion = 26

// KeyInfo is the key material derived from an account mnemonic: the node seed
// (compressed secret key hex) and the STX address of the account.
type KeyInfo struct {
	SecretKeyHex string
	StxAddress   string
}

// Derive resolves a BIP39 mnemonic and a BIP32 derivation path into the key
// info the rendered node configuration needs. The mnemonic is checksummed;
// an invalid phrase or path is an error, never a silent fallback.
func Derive(mnemonic, derivationPath string) (*KeyInfo, error) {
	seed, err := bip39.NewSeedWithErrorChecking(strings.TrimSpace(mnemonic), "")
	if err != nil {
		return nil, fmt.Errorf("invalid mnemonic: %w", err)
	}

	steps, err := parsePath(derivationPath)
	if err != nil {
		return nil, err
	}

	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("failed to derive master key: %w", err)
	}
	for _, step := range steps {
		key, err = key.Derive(step)
		if err != nil {
			return nil, fmt.Errorf("failed to derive path %s: %w", derivationPath, err)
		}
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("failed to extract private key: %w", err)
	}

	// The trailing 01 marks a compressed public key, matching the seed
	// format the stacks node expects.
	secret := hex.EncodeToString(priv.Serialize()) + "01"

	addr, err := stxAddress(priv.PubKey().SerializeCompressed())
	if err != nil {
		return nil, err
	}

	return &KeyInfo{SecretKeyHex: secret, StxAddress: addr}, nil
}

// stxAddress computes the c32check address for a compressed public key.
func stxAddress(compressedPubKey []byte) (string, error) {
	if len(compressedPubKey) != 33 {
		return "", fmt.Errorf("expected compressed public key, got %d bytes", len(compressedPubKey))
	}
	return c32CheckEncode(addressVersion, btcutil.Hash160(compressedPubKey)), nil
}

// parsePath splits a derivation path like m/44'/5757'/0'/0/0 into hardened
// and normal child indices.
func parsePath(path string) ([]uint32, error) {
	parts := strings.Split(strings.TrimSpace(path), "/")
	if len(parts) == 0 || parts[0] != "m" {
		return nil, fmt.Errorf("invalid derivation path %q", path)
	}
	steps := make([]uint32, 0, len(parts)-1)
	for _, part := range parts[1:] {
		hardened := false
		if strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h") {
			hardened = true
			part = part[:len(part)-1]
		}
		idx, err := strconv.ParseUint(part, 10, 32)
		if err != nil || idx >= hdkeychain.HardenedKeyStart {
			return nil, fmt.Errorf("invalid derivation path %q", path)
		}
		step := uint32(idx)
		if hardened {
			step += hdkeychain.HardenedKeyStart
		}
		steps = append(steps, step)
	}
	return steps, nil
}
