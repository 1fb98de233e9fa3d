package txbuilder

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/21e8/miner/internal/bsvtx"
	"github.com/21e8/miner/internal/script"
)

// Fee constants. These used to be module-level magic numbers in the
// original implementation; naming them makes the core testable without
// chasing down every call site if the fee schedule ever changes.
const (
	FeeNoIdentity   uint64 = 218
	FeeWithIdentity uint64 = 300
)

var (
	// ErrMissingOutput is returned when the requested output index does
	// not exist on the source transaction.
	ErrMissingOutput = errors.New("txbuilder: output index out of range")
	// ErrNotAPuzzle is returned when the selected output does not match
	// the 21e8 locking script template, including on the defensive
	// recheck performed right before computing the sighash preimage.
	ErrNotAPuzzle = errors.New("txbuilder: selected output is not a 21e8 puzzle")
	// ErrInsufficientValue guards the fee subtraction against
	// underflowing an unsigned amount on a dust-sized puzzle output.
	ErrInsufficientValue = errors.New("txbuilder: output value does not cover the spend fee")
)

// Spender is a single-input transaction under construction. Once
// mining begins it must not be mutated further; identity.Attach (if
// used at all) must run before SighashPreimage is called.
type Spender struct {
	Tx          *bsvtx.Transaction
	SourceID    chainhash.Hash
	OutputIndex int
}

// NewSpender builds the unsigned spending transaction for the 21e8
// output at outputIndex on source: one input carrying that output's
// locking script and value, one payout output sized by the applicable
// fee. Version 1, locktime 0, per the wire format this engine targets.
func NewSpender(source *bsvtx.Transaction, outputIndex int, payToScript []byte, identityEnabled bool) (*Spender, error) {
	out, ok := source.Output(outputIndex)
	if !ok {
		return nil, ErrMissingOutput
	}
	if !script.Is21e8Output(out.Script) {
		return nil, ErrNotAPuzzle
	}

	fee := FeeNoIdentity
	if identityEnabled {
		fee = FeeWithIdentity
	}
	if out.Value < fee {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientValue, out.Value, fee)
	}

	sourceID := source.ID()

	tx := bsvtx.New(1, 0)
	tx.AddInput(bsvtx.TxIn{
		PrevTxID:      sourceID,
		PrevIndex:     uint32(outputIndex),
		LockingScript: out.Script,
		Value:         out.Value,
		Sequence:      bsvtx.DefaultSequence,
	})
	tx.AddOutput(bsvtx.TxOut{
		Value:  out.Value - fee,
		Script: payToScript,
	})

	return &Spender{
		Tx:          tx,
		SourceID:    sourceID,
		OutputIndex: outputIndex,
	}, nil
}

// AddOutput appends an additional output to the spender — used by the
// identity attestor to append the MinerID OP_RETURN output before
// mining begins, since it must be covered by the sighash preimage.
func (s *Spender) AddOutput(out bsvtx.TxOut) {
	s.Tx.AddOutput(out)
}

func (s *Spender) verifyInputZeroIsPuzzle() error {
	if len(s.Tx.Inputs) == 0 {
		return ErrMissingOutput
	}
	if !script.Is21e8Output(s.Tx.Inputs[0].LockingScript) {
		return ErrNotAPuzzle
	}
	return nil
}
