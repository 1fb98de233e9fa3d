package identity

import (
	"encoding/hex"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/bytedance/sonic"

	"github.com/21e8/miner/internal/bsvtx"
	"github.com/21e8/miner/internal/script"
	"github.com/21e8/miner/internal/txbuilder"
)

func puzzleLockingScript() []byte {
	var check [32]byte
	var out []byte
	out = append(out, script.PushData(check[:])...)
	out = append(out, script.PushData([]byte{0x21, 0xe8})...)
	out = append(out, 0x82, 0x54, 0x79, 0xa8, 0x7c, 0x7f, 0x75, 0x88, 0x75, 0xac)
	return out
}

func testWIF(t *testing.T) string {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("generate private key: %v", err)
	}
	wif, err := btcutil.NewWIF(priv, &chaincfg.MainNetParams, true)
	if err != nil {
		t.Fatalf("encode WIF: %v", err)
	}
	return wif.String()
}

func newTestSpender(t *testing.T) *txbuilder.Spender {
	t.Helper()
	source := bsvtx.New(1, 0)
	source.AddOutput(bsvtx.TxOut{Value: 10_000, Script: puzzleLockingScript()})
	s, err := txbuilder.NewSpender(source, 0, script.BuildP2PKH(make([]byte, 20)), true)
	if err != nil {
		t.Fatalf("NewSpender: %v", err)
	}
	return s
}

func TestAttach_NoopWhenDisabled(t *testing.T) {
	s := newTestSpender(t)
	before := len(s.Tx.Outputs)

	if err := Attach(s, "", "hello"); err != nil {
		t.Fatalf("Attach with empty key: %v", err)
	}
	if len(s.Tx.Outputs) != before {
		t.Fatalf("Attach with empty key must not append an output")
	}
}

func TestAttach_InvalidWIF(t *testing.T) {
	s := newTestSpender(t)
	err := Attach(s, "not-a-valid-wif", "hello")
	if err == nil {
		t.Fatalf("expected an error for a malformed WIF")
	}
}

func TestAttach_AppendsZeroValueOpReturn(t *testing.T) {
	s := newTestSpender(t)
	wif := testWIF(t)

	if err := Attach(s, wif, "mined with pride"); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	last := s.Tx.Outputs[len(s.Tx.Outputs)-1]
	if last.Value != 0 {
		t.Fatalf("identity output must carry zero value, got %d", last.Value)
	}
	if last.Script[0] != 0x00 || last.Script[1] != 0x6a {
		t.Fatalf("identity output must start with OP_0 OP_RETURN, got %x", last.Script[:2])
	}
}

func TestAttach_SignatureVerifies(t *testing.T) {
	s := newTestSpender(t)
	wif, err := btcutil.DecodeWIF(testWIF(t))
	if err != nil {
		t.Fatalf("decode fixture WIF: %v", err)
	}

	if err := Attach(s, wif.String(), "verify me"); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	last := s.Tx.Outputs[len(s.Tx.Outputs)-1]
	elems, err := script.Parse(last.Script)
	if err != nil {
		t.Fatalf("parse identity output: %v", err)
	}
	if len(elems) != 3 || !elems[2].IsPush {
		t.Fatalf("expected OP_0, OP_RETURN, PUSH<json>, got %+v", elems)
	}

	var payload attestation
	if err := sonic.Unmarshal(elems[2].Data, &payload); err != nil {
		t.Fatalf("unmarshal attestation json: %v", err)
	}

	sigBytes, err := hex.DecodeString(payload.Sig)
	if err != nil {
		t.Fatalf("decode sig hex: %v", err)
	}
	sig, err := ecdsa.ParseDERSignature(sigBytes)
	if err != nil {
		t.Fatalf("parse DER signature: %v", err)
	}
	if !sig.Verify(s.SourceID[:], wif.PrivKey.PubKey()) {
		t.Fatalf("attestation signature does not verify over the source id")
	}

	idBytes, err := hex.DecodeString(payload.ID)
	if err != nil {
		t.Fatalf("decode id hex: %v", err)
	}
	if string(idBytes) != string(wif.PrivKey.PubKey().SerializeCompressed()) {
		t.Fatalf("attestation id does not match the signing key's compressed pubkey")
	}
}
