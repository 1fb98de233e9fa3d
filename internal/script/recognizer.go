package script

import "errors"

// ErrMalformedScript is returned by Parse when the byte stream ends in
// the middle of a push-data element. It is never returned by
// Is21e8Output — a malformed script there just classifies as false.
var ErrMalformedScript = errors.New("script: truncated push-data element")

// Element is one decoded unit of a script: either a single opcode, or a
// length-prefixed data push.
type Element struct {
	IsPush bool
	Data   []byte // valid when IsPush
	Op     byte   // valid when !IsPush
}

// Parse decodes a raw script into its sequence of elements. It returns
// ErrMalformedScript if a push-data element's declared length runs past
// the end of the script.
func Parse(raw []byte) ([]Element, error) {
	var elems []Element
	i := 0
	for i < len(raw) {
		b := raw[i]
		lenBytes, isPush := isPushPrefixLen(b)
		if !isPush {
			elems = append(elems, Element{Op: b})
			i++
			continue
		}

		i++
		var dataLen int
		if lenBytes == 0 {
			dataLen = int(b)
		} else {
			if i+lenBytes > len(raw) {
				return nil, ErrMalformedScript
			}
			dataLen = 0
			for j := 0; j < lenBytes; j++ {
				dataLen |= int(raw[i+j]) << (8 * j)
			}
			i += lenBytes
		}

		if i+dataLen > len(raw) {
			return nil, ErrMalformedScript
		}
		elems = append(elems, Element{IsPush: true, Data: raw[i : i+dataLen]})
		i += dataLen
	}
	return elems, nil
}

// puzzleTemplate is the fixed opcode tail of a 21e8 locking script,
// following its two data pushes (the sha256 check value and the target
// prefix).
var puzzleTemplate = []byte{
	byte(OP_SIZE),
	byte(OP_4),
	byte(OP_PICK),
	byte(OP_SHA256),
	byte(OP_SWAP),
	byte(OP_SPLIT),
	byte(OP_DROP),
	byte(OP_EQUALVERIFY),
	byte(OP_DROP),
	byte(OP_CHECKSIG),
}

// magicPrefix is the byte pair that distinguishes a 21e8 puzzle's target
// push from any other script matching the same opcode shape.
var magicPrefix = [2]byte{0x21, 0xe8}

// Is21e8Output reports whether script matches the 21e8 puzzle template:
// a 32-byte push, a push of at least 2 bytes beginning 0x21 0xE8, and
// the fixed ten-opcode tail. A script of the wrong shape, or whose
// second push doesn't start with the magic bytes, is not an error — it
// simply isn't a 21e8 output.
func Is21e8Output(raw []byte) bool {
	_, ok := extractTarget(raw)
	return ok
}

// ExtractTarget returns the target prefix P of a 21e8 output, i.e. the
// second push in the template (which by construction begins 0x21 0xE8).
// ok is false if raw does not match the template.
func ExtractTarget(raw []byte) ([]byte, bool) {
	return extractTarget(raw)
}

func extractTarget(raw []byte) ([]byte, bool) {
	elems, err := Parse(raw)
	if err != nil {
		return nil, false
	}
	if len(elems) != 2+len(puzzleTemplate) {
		return nil, false
	}

	checkValue, target := elems[0], elems[1]
	if !checkValue.IsPush || len(checkValue.Data) != 32 {
		return nil, false
	}
	if !target.IsPush || len(target.Data) < 2 {
		return nil, false
	}

	for i, wantOp := range puzzleTemplate {
		e := elems[2+i]
		if e.IsPush || e.Op != wantOp {
			return nil, false
		}
	}

	if target.Data[0] != magicPrefix[0] || target.Data[1] != magicPrefix[1] {
		return nil, false
	}
	return target.Data, true
}
