package script

import "testing"

func puzzleScript(checkValue [32]byte, target []byte) []byte {
	var out []byte
	out = append(out, PushData(checkValue[:])...)
	out = append(out, PushData(target)...)
	out = append(out, puzzleTemplate...)
	return out
}

// S1 — Recognition.
func TestIs21e8Output_Recognizes(t *testing.T) {
	var check [32]byte
	s := puzzleScript(check, []byte{0x21, 0xe8})

	if !Is21e8Output(s) {
		t.Fatalf("expected script to be recognized as a 21e8 output")
	}
	target, ok := ExtractTarget(s)
	if !ok {
		t.Fatalf("ExtractTarget failed on a recognized 21e8 output")
	}
	if len(target) != 2 || target[0] != 0x21 || target[1] != 0xe8 {
		t.Fatalf("unexpected target: %x", target)
	}
}

// S2 — Rejection by magic.
func TestIs21e8Output_RejectsWrongMagic(t *testing.T) {
	var check [32]byte
	s := puzzleScript(check, []byte{0x21, 0xe9})

	if Is21e8Output(s) {
		t.Fatalf("script with wrong magic bytes should not be recognized")
	}
}

// S3 — Rejection by shape.
func TestIs21e8Output_RejectsWrongShape(t *testing.T) {
	var check [32]byte
	var out []byte
	out = append(out, PushData(check[:])...)
	out = append(out, PushData([]byte{0x21, 0xe8})...)
	out = append(out, puzzleTemplate[:len(puzzleTemplate)-1]...) // drop OP_CHECKSIG

	if Is21e8Output(out) {
		t.Fatalf("script missing OP_CHECKSIG should not be recognized")
	}
}

func TestIs21e8Output_RejectsShortChecksumPush(t *testing.T) {
	var short [16]byte
	s := puzzleScript([32]byte{}, []byte{0x21, 0xe8})
	// Replace the first push with a too-short one to prove the 32-byte
	// constraint is enforced, not just assumed from a well-formed fixture.
	s2 := append(PushData(short[:]), s[33:]...)
	if Is21e8Output(s2) {
		t.Fatalf("32-byte check-value constraint was not enforced")
	}
}

func TestIs21e8Output_RejectsTargetTooShort(t *testing.T) {
	var check [32]byte
	s := puzzleScript(check, []byte{0x21})
	if Is21e8Output(s) {
		t.Fatalf("single-byte target push should be rejected (min length 2)")
	}
}

func TestIs21e8Output_MalformedScriptIsFalseNotError(t *testing.T) {
	// A push-data opcode declaring more bytes than are present.
	truncated := []byte{0x20, 0x01, 0x02} // claims 32 bytes, has 2
	if Is21e8Output(truncated) {
		t.Fatalf("truncated script must not be recognized")
	}
}

func TestBuildUnlockScript_RoundTrips(t *testing.T) {
	sig := []byte{0xde, 0xad, 0xbe, 0xef}
	pub := make([]byte, 33)
	pub[0] = 0x02

	unlock := BuildUnlockScript(sig, pub)
	elems, err := Parse(unlock)
	if err != nil {
		t.Fatalf("parse unlock script: %v", err)
	}
	if len(elems) != 2 || !elems[0].IsPush || !elems[1].IsPush {
		t.Fatalf("expected two pushes, got %+v", elems)
	}
	if string(elems[0].Data) != string(sig) {
		t.Fatalf("signature push mismatch")
	}
	if string(elems[1].Data) != string(pub) {
		t.Fatalf("pubkey push mismatch")
	}
}
