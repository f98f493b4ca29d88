package signing

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// SoftwareSigner implements Signer by signing in process with the
// secp256k1 private key passed to each Sign call; it holds no key itself.
// For tests and local, non-HSM use.
type SoftwareSigner struct{}

// NewSoftwareSigner returns a Signer that expects the private key as a
// per-call hex string, matching the contract every Signer implementation in
// this library must honor.
func NewSoftwareSigner() *SoftwareSigner {
	return &SoftwareSigner{}
}

// Sign implements Signer.
func (s *SoftwareSigner) Sign(messageHex string, privateKeyHex string) ([65]byte, error) {
	var out [65]byte

	digest, err := hexDecode(messageHex)
	if err != nil {
		return out, fmt.Errorf("decode message: %w", err)
	}
	if len(digest) != 32 {
		return out, fmt.Errorf("message must be a 32-byte digest, got %d bytes", len(digest))
	}

	keyBytes, err := hexDecode(privateKeyHex)
	if err != nil {
		return out, fmt.Errorf("decode private key: %w", err)
	}

	privKey := secp256k1.PrivKeyFromBytes(keyBytes)
	// decred's compact signature places the recovery byte first, followed
	// by r and s; our wire format wants r||s||v, so the bytes are rotated.
	compact := ecdsa.SignCompact(privKey, digest, false)
	if len(compact) != 65 {
		return out, fmt.Errorf("unexpected signature length %d", len(compact))
	}

	recoveryID := compact[0]
	copy(out[0:64], compact[1:65])
	out[64] = normalizeRecoveryID(recoveryID)

	return out, nil
}

// normalizeRecoveryID converts decred's compact-signature header byte
// (27/28/31/32, optionally offset for compression) down to the 0/1 the
// ES256K-R wire format expects.
func normalizeRecoveryID(header byte) byte {
	v := header
	if v >= 31 {
		v -= 31
	} else if v >= 27 {
		v -= 27
	}
	return v
}

func hexDecode(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	return hex.DecodeString(s)
}
