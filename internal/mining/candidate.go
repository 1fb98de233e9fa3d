package mining

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/21e8/miner/internal/txbuilder"
)

// Candidate is a winning ephemeral key together with the tagged
// signature that matched the target prefix, and the hash that was
// judged against it (reported to the TTY and dashboard progress
// outlets as the winning line). Once handed to the finalizer the key
// is never reused.
type Candidate struct {
	Key       *btcec.PrivateKey
	SigTagged []byte
	Hash      []byte
}

// sign produces the tagged signature and its verification hash for a
// single attempt: a fresh ephemeral key, a deterministic-k ECDSA
// signature over the double-SHA256 digest of preimage (the standard
// Bitcoin signing hash), with the SIGHASH_ALL|FORKID flag byte
// appended before computing the single-SHA256 a candidate is judged
// by.
func sign(preimage []byte) (key *btcec.PrivateKey, tagged []byte, hash []byte, err error) {
	key, err = btcec.NewPrivateKey()
	if err != nil {
		return nil, nil, nil, err
	}

	digest := chainhash.DoubleHashB(preimage)
	sig := ecdsa.Sign(key, digest)
	tagged = append(sig.Serialize(), txbuilder.SighashFlag)
	hash = chainhash.HashB(tagged)
	return key, tagged, hash, nil
}

// matches reports whether hash starts with target.
func matches(hash, target []byte) bool {
	if len(hash) < len(target) {
		return false
	}
	for i, b := range target {
		if hash[i] != b {
			return false
		}
	}
	return true
}
