// Package identity builds the optional miner-identity attestation
// output: a provably unspendable OP_RETURN carrying a JSON envelope
// that ties a mined transaction back to a persistent identity key,
// independent of the ephemeral keys used to solve the puzzle itself.
package identity

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/bytedance/sonic"

	"github.com/21e8/miner/internal/bsvtx"
	"github.com/21e8/miner/internal/script"
	"github.com/21e8/miner/internal/txbuilder"
)

// ErrInvalidInput is returned when the configured identity WIF cannot
// be decoded.
var ErrInvalidInput = errors.New("identity: invalid WIF private key")

// attestation is the JSON payload embedded in the OP_RETURN output.
type attestation struct {
	ID      string `json:"id"`
	Sig     string `json:"sig"`
	Message string `json:"message"`
}

// Attach appends the identity attestation output to s if wifKey is
// non-empty, signing the source transaction's id bytes (s.SourceID)
// with a deterministic nonce. It must be called before
// s.SighashPreimage, since the OP_RETURN output's bytes participate
// in the preimage. A no-op when wifKey is empty.
func Attach(s *txbuilder.Spender, wifKey, message string) error {
	if wifKey == "" {
		return nil
	}

	wif, err := btcutil.DecodeWIF(wifKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	priv := wif.PrivKey
	sig := ecdsa.Sign(priv, s.SourceID[:])

	payload := attestation{
		ID:      hex.EncodeToString(priv.PubKey().SerializeCompressed()),
		Sig:     hex.EncodeToString(sig.Serialize()),
		Message: message,
	}
	body, err := sonic.Marshal(&payload)
	if err != nil {
		return fmt.Errorf("identity: encode attestation: %w", err)
	}

	s.AddOutput(bsvtx.TxOut{
		Value:  0,
		Script: script.BuildOpReturn(body),
	})
	return nil
}
