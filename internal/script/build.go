package script

// PushData returns the minimal push-data encoding of data: a direct
// length byte for data up to 75 bytes, otherwise OP_PUSHDATA1/2/4 with
// the appropriate length prefix.
func PushData(data []byte) []byte {
	n := len(data)
	switch {
	case n <= 0x4b:
		out := make([]byte, 0, 1+n)
		out = append(out, byte(n))
		return append(out, data...)
	case n <= 0xff:
		out := make([]byte, 0, 2+n)
		out = append(out, byte(OP_PUSHDATA1), byte(n))
		return append(out, data...)
	case n <= 0xffff:
		out := make([]byte, 0, 3+n)
		out = append(out, byte(OP_PUSHDATA2), byte(n), byte(n>>8))
		return append(out, data...)
	default:
		out := make([]byte, 0, 5+n)
		out = append(out, byte(OP_PUSHDATA4), byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
		return append(out, data...)
	}
}

// BuildP2PKH returns the standard pay-to-public-key-hash locking
// script for a 20-byte HASH160 value.
func BuildP2PKH(pubKeyHash []byte) []byte {
	out := make([]byte, 0, 25)
	out = append(out, byte(OP_DUP), byte(OP_HASH160))
	out = append(out, PushData(pubKeyHash)...)
	out = append(out, byte(OP_EQUALVERIFY), byte(OP_CHECKSIG))
	return out
}

// BuildOpReturn returns an OP_FALSE OP_RETURN <data> output script —
// provably unspendable, conventionally used to carry arbitrary data.
func BuildOpReturn(data []byte) []byte {
	out := make([]byte, 0, 2+len(data)+5)
	out = append(out, byte(OP_0), byte(OP_RETURN))
	out = append(out, PushData(data)...)
	return out
}

// BuildUnlockScript returns the scriptSig that spends a solved 21e8
// output: the tagged signature followed by the compressed public key.
func BuildUnlockScript(sigTagged, pubKey []byte) []byte {
	out := make([]byte, 0, len(sigTagged)+len(pubKey)+10)
	out = append(out, PushData(sigTagged)...)
	out = append(out, PushData(pubKey)...)
	return out
}
