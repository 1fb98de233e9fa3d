// Package finalize assembles the final signed transaction once the
// mining coordinator has produced a winning candidate.
package finalize

import (
	"github.com/21e8/miner/internal/mining"
	"github.com/21e8/miner/internal/script"
	"github.com/21e8/miner/internal/txbuilder"
)

// Finalize replaces input 0's script with the unlock script derived
// from the winning candidate and returns the transaction's standard
// BSV wire encoding, hex-encoded for transport.
func Finalize(s *txbuilder.Spender, c mining.Candidate) string {
	pubKey := c.Key.PubKey().SerializeCompressed()
	s.Tx.Inputs[0].Script = script.BuildUnlockScript(c.SigTagged, pubKey)
	return s.Tx.ToHex()
}
