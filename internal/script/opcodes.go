// Package script recognizes and builds the small set of Bitcoin script
// shapes this engine cares about: 21e8 puzzle locking scripts, P2PKH
// locking scripts, OP_RETURN data outputs, and the two-push unlocking
// script that spends a solved puzzle. It is not a script interpreter —
// 21e8 outputs are classified by structural pattern match, never
// executed.
package script

// Opcode is a single Bitcoin script opcode.
type Opcode byte

const (
	OP_0     Opcode = 0x00
	OP_PUSHDATA1 Opcode = 0x4c
	OP_PUSHDATA2 Opcode = 0x4d
	OP_PUSHDATA4 Opcode = 0x4e

	OP_1  Opcode = 0x51
	OP_4  Opcode = 0x54

	OP_RETURN Opcode = 0x6a

	OP_DUP  Opcode = 0x76
	OP_DROP Opcode = 0x75
	OP_SWAP Opcode = 0x7c
	OP_PICK Opcode = 0x79

	// OP_SPLIT reuses the byte once assigned to OP_SUBSTR in the
	// original Satoshi client and later disabled; BSV's 2018 Genesis
	// upgrade restored it to split a byte string at a stack-supplied
	// index. btcsuite/btcd, a BTC-only client, never reintroduced it,
	// so it isn't available from that dependency's opcode table.
	OP_SPLIT Opcode = 0x7f

	OP_SIZE Opcode = 0x82

	OP_EQUAL       Opcode = 0x87
	OP_EQUALVERIFY Opcode = 0x88

	OP_SHA256   Opcode = 0xa8
	OP_HASH160  Opcode = 0xa9

	OP_CHECKSIG Opcode = 0xac
)

// isPushPrefixLen reports whether op, as the first byte of a script element,
// denotes a push-data operation rather than a plain opcode, and returns
// the number of additional length-prefix bytes that follow the opcode
// byte before the pushed data itself (0 for direct pushes where the
// opcode byte IS the length).
func isPushPrefixLen(op byte) (lenBytes int, isPush bool) {
	switch {
	case op >= 0x01 && op <= 0x4b:
		return 0, true
	case Opcode(op) == OP_PUSHDATA1:
		return 1, true
	case Opcode(op) == OP_PUSHDATA2:
		return 2, true
	case Opcode(op) == OP_PUSHDATA4:
		return 4, true
	default:
		return 0, false
	}
}
