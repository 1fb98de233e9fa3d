package txbuilder

import (
	"bytes"
	"encoding/binary"

	"github.com/btcsuite/btcd/chaincfg/chainhash"

	"github.com/21e8/miner/internal/bsvtx"
)

// SighashFlag is the one-byte suffix appended to a DER signature
// indicating which parts of the transaction it commits to. This engine
// only ever uses SIGHASH_ALL with the BSV/BCH FORKID bit set.
const SighashFlag byte = 0x41 // SIGHASH_ALL | SIGHASH_FORKID

// SighashPreimage computes the exact byte string that the BSV
// SIGHASH_ALL|FORKID rule (BIP143-style digest, as specified by the
// UAHF/FORKID sighash algorithm) prescribes for input 0 of the
// spender's transaction. It must be recomputed whenever inputs or
// outputs change, and is fixed for the duration of a mining run since
// the spender is complete (identity output, if any, already attached)
// before mining starts.
func (s *Spender) SighashPreimage() ([]byte, error) {
	if err := s.verifyInputZeroIsPuzzle(); err != nil {
		return nil, err
	}

	in := s.Tx.Inputs[0]

	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, s.Tx.Version)

	buf.Write(hashPrevOuts(s.Tx))
	buf.Write(hashSequence(s.Tx))

	buf.Write(in.PrevTxID[:])
	_ = binary.Write(&buf, binary.LittleEndian, in.PrevIndex)

	writeVarBytes(&buf, in.LockingScript)
	_ = binary.Write(&buf, binary.LittleEndian, in.Value)
	_ = binary.Write(&buf, binary.LittleEndian, in.Sequence)

	buf.Write(hashOutputs(s.Tx))

	_ = binary.Write(&buf, binary.LittleEndian, s.Tx.LockTime)
	_ = binary.Write(&buf, binary.LittleEndian, uint32(SighashFlag))

	return buf.Bytes(), nil
}

// hashPrevOuts, hashSequence and hashOutputs compute the three digests
// BIP143 folds into every input's preimage so that signing cost is
// O(n) rather than O(n^2) across inputs. This engine only ever builds
// single-input spenders, so the saving is nominal, but keeping the
// same three-hash shape as multi-input signers makes the preimage
// format trivially extensible if that ever changes.
func hashPrevOuts(tx *bsvtx.Transaction) []byte {
	var buf bytes.Buffer
	for _, in := range tx.Inputs {
		buf.Write(in.PrevTxID[:])
		_ = binary.Write(&buf, binary.LittleEndian, in.PrevIndex)
	}
	return chainhash.DoubleHashB(buf.Bytes())
}

func hashSequence(tx *bsvtx.Transaction) []byte {
	var buf bytes.Buffer
	for _, in := range tx.Inputs {
		_ = binary.Write(&buf, binary.LittleEndian, in.Sequence)
	}
	return chainhash.DoubleHashB(buf.Bytes())
}

func hashOutputs(tx *bsvtx.Transaction) []byte {
	var buf bytes.Buffer
	for _, out := range tx.Outputs {
		_ = binary.Write(&buf, binary.LittleEndian, out.Value)
		writeVarBytes(&buf, out.Script)
	}
	return chainhash.DoubleHashB(buf.Bytes())
}

func writeVarBytes(buf *bytes.Buffer, b []byte) {
	n := uint64(len(b))
	switch {
	case n < 0xfd:
		buf.WriteByte(byte(n))
	case n <= 0xffff:
		buf.WriteByte(0xfd)
		_ = binary.Write(buf, binary.LittleEndian, uint16(n))
	case n <= 0xffffffff:
		buf.WriteByte(0xfe)
		_ = binary.Write(buf, binary.LittleEndian, uint32(n))
	default:
		buf.WriteByte(0xff)
		_ = binary.Write(buf, binary.LittleEndian, n)
	}
	buf.Write(b)
}
