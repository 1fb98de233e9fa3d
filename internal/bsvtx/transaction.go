// Package bsvtx implements the minimal BSV transaction wire format this
// engine needs: decode a fetched source transaction, and encode a
// spender back to hex for broadcast. It deliberately does not depend on
// btcsuite/btcd's wire package — that encoder assumes the post-segwit
// Bitcoin Core wire format, while BSV never adopted segwit and keeps the
// original pre-fork layout (version, inputs, outputs, locktime, no
// marker/flag bytes, no witness stack).
package bsvtx

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// DefaultSequence is the sequence number used for inputs that do not
// opt into relative locktime or RBF-style signaling.
const DefaultSequence uint32 = 0xffffffff

// TxIn is a transaction input.
type TxIn struct {
	PrevTxID  chainhash.Hash // internal byte order, as produced by DoubleHashH
	PrevIndex uint32
	Script    []byte // scriptSig once signed; empty while unsigned
	Sequence  uint32

	// LockingScript and Value describe the output being spent. They are
	// not part of the wire encoding of the input itself (the prevout's
	// script and value live in the transaction it came from) but the
	// sighash preimage needs both, so the builder carries them alongside
	// the input for the lifetime of a mining run.
	LockingScript []byte
	Value         uint64
}

// TxOut is a transaction output.
type TxOut struct {
	Value  uint64
	Script []byte
}

// Transaction is a BSV transaction under construction or decoded from
// the network.
type Transaction struct {
	Version  int32
	Inputs   []TxIn
	Outputs  []TxOut
	LockTime uint32
}

// New returns an empty transaction with the given version and locktime.
func New(version int32, lockTime uint32) *Transaction {
	return &Transaction{Version: version, LockTime: lockTime}
}

// Output returns the output at index, or false if out of range.
func (tx *Transaction) Output(index int) (TxOut, bool) {
	if index < 0 || index >= len(tx.Outputs) {
		return TxOut{}, false
	}
	return tx.Outputs[index], true
}

// AddInput appends an input.
func (tx *Transaction) AddInput(in TxIn) {
	tx.Inputs = append(tx.Inputs, in)
}

// AddOutput appends an output.
func (tx *Transaction) AddOutput(out TxOut) {
	tx.Outputs = append(tx.Outputs, out)
}

// ID returns the double-SHA256 of the serialized transaction, in the
// internal (non-reversed) byte order used inside outpoints.
func (tx *Transaction) ID() chainhash.Hash {
	return chainhash.DoubleHashH(tx.serializeBytes())
}

// IDHex returns the conventional, byte-reversed display form of ID().
func (tx *Transaction) IDHex() string {
	id := tx.ID()
	return id.String()
}

func writeVarInt(w io.Writer, n uint64) error {
	switch {
	case n < 0xfd:
		_, err := w.Write([]byte{byte(n)})
		return err
	case n <= 0xffff:
		buf := make([]byte, 3)
		buf[0] = 0xfd
		binary.LittleEndian.PutUint16(buf[1:], uint16(n))
		_, err := w.Write(buf)
		return err
	case n <= 0xffffffff:
		buf := make([]byte, 5)
		buf[0] = 0xfe
		binary.LittleEndian.PutUint32(buf[1:], uint32(n))
		_, err := w.Write(buf)
		return err
	default:
		buf := make([]byte, 9)
		buf[0] = 0xff
		binary.LittleEndian.PutUint64(buf[1:], n)
		_, err := w.Write(buf)
		return err
	}
}

func readVarInt(r *bytes.Reader) (uint64, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	switch b {
	case 0xfd:
		var v uint16
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, err
		}
		return uint64(v), nil
	case 0xfe:
		var v uint32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, err
		}
		return uint64(v), nil
	case 0xff:
		var v uint64
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return 0, err
		}
		return v, nil
	default:
		return uint64(b), nil
	}
}

func writeVarBytes(w io.Writer, b []byte) error {
	if err := writeVarInt(w, uint64(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readVarBytes(r *bytes.Reader) ([]byte, error) {
	n, err := readVarInt(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// serializeBytes is the wire encoding used both for ID computation and
// for the final broadcast payload. Inputs serialize their current
// Script field as scriptSig (empty until the finalizer fills it in).
func (tx *Transaction) serializeBytes() []byte {
	var buf bytes.Buffer
	_ = tx.Serialize(&buf)
	return buf.Bytes()
}

// Serialize writes the standard pre-segwit transaction encoding.
func (tx *Transaction) Serialize(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, tx.Version); err != nil {
		return err
	}
	if err := writeVarInt(w, uint64(len(tx.Inputs))); err != nil {
		return err
	}
	for _, in := range tx.Inputs {
		if _, err := w.Write(in.PrevTxID[:]); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, in.PrevIndex); err != nil {
			return err
		}
		if err := writeVarBytes(w, in.Script); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, in.Sequence); err != nil {
			return err
		}
	}
	if err := writeVarInt(w, uint64(len(tx.Outputs))); err != nil {
		return err
	}
	for _, out := range tx.Outputs {
		if err := binary.Write(w, binary.LittleEndian, out.Value); err != nil {
			return err
		}
		if err := writeVarBytes(w, out.Script); err != nil {
			return err
		}
	}
	return binary.Write(w, binary.LittleEndian, tx.LockTime)
}

// ToHex hex-encodes the serialized transaction for broadcast/storage.
func (tx *Transaction) ToHex() string {
	return hex.EncodeToString(tx.serializeBytes())
}

// FromHex decodes a raw transaction from its hex wire encoding.
func FromHex(s string) (*Transaction, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode tx hex: %w", err)
	}
	return Decode(raw)
}

// Decode parses a raw transaction from its wire encoding.
func Decode(raw []byte) (*Transaction, error) {
	r := bytes.NewReader(raw)
	tx := &Transaction{}

	if err := binary.Read(r, binary.LittleEndian, &tx.Version); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}

	nIn, err := readVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("read input count: %w", err)
	}
	tx.Inputs = make([]TxIn, nIn)
	for i := range tx.Inputs {
		in := &tx.Inputs[i]
		if _, err := io.ReadFull(r, in.PrevTxID[:]); err != nil {
			return nil, fmt.Errorf("read input %d prev id: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &in.PrevIndex); err != nil {
			return nil, fmt.Errorf("read input %d prev index: %w", i, err)
		}
		in.Script, err = readVarBytes(r)
		if err != nil {
			return nil, fmt.Errorf("read input %d script: %w", i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &in.Sequence); err != nil {
			return nil, fmt.Errorf("read input %d sequence: %w", i, err)
		}
	}

	nOut, err := readVarInt(r)
	if err != nil {
		return nil, fmt.Errorf("read output count: %w", err)
	}
	tx.Outputs = make([]TxOut, nOut)
	for i := range tx.Outputs {
		out := &tx.Outputs[i]
		if err := binary.Read(r, binary.LittleEndian, &out.Value); err != nil {
			return nil, fmt.Errorf("read output %d value: %w", i, err)
		}
		out.Script, err = readVarBytes(r)
		if err != nil {
			return nil, fmt.Errorf("read output %d script: %w", i, err)
		}
	}

	if err := binary.Read(r, binary.LittleEndian, &tx.LockTime); err != nil {
		return nil, fmt.Errorf("read locktime: %w", err)
	}

	return tx, nil
}
