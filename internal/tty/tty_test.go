package tty

import (
	"bytes"
	"strings"
	"testing"

	"github.com/21e8/miner/internal/mining"
)

func TestFprintThreads_PlainAndColor(t *testing.T) {
	var plain bytes.Buffer
	FprintThreads(&plain, false, 4)
	if plain.String() != "[4 threads]\n\n" {
		t.Fatalf("plain output = %q", plain.String())
	}

	var colored bytes.Buffer
	FprintThreads(&colored, true, 4)
	if !strings.Contains(colored.String(), "[4 threads]") || !strings.Contains(colored.String(), cyan) {
		t.Fatalf("colored output missing thread count or color escape: %q", colored.String())
	}
}

func TestFprintAttempt_OverwritesLine(t *testing.T) {
	var buf bytes.Buffer
	FprintAttempt(&buf, false, mining.Attempt{Hash: []byte{0xde, 0xad}})
	if buf.String() != "\rdead" {
		t.Fatalf("got %q", buf.String())
	}
}

func TestFprintWinner_IncludesHash(t *testing.T) {
	var buf bytes.Buffer
	FprintWinner(&buf, false, []byte{0x21, 0xe8})
	if !strings.Contains(buf.String(), "21e8") {
		t.Fatalf("winner line missing hash: %q", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Fatalf("winner line should end with a newline: %q", buf.String())
	}
}

func TestFprintPayTo_PlainHasNoEscapes(t *testing.T) {
	var buf bytes.Buffer
	FprintPayTo(&buf, false, "1BoatSLRHtKNngkdXEeobR76b53LETtpyT")
	if strings.Contains(buf.String(), "\x1b") {
		t.Fatalf("plain output should carry no ANSI escapes: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "1BoatSLRHtKNngkdXEeobR76b53LETtpyT") {
		t.Fatalf("expected address in output: %q", buf.String())
	}
}

func TestFprintTxHex_ColorWrapsInYellow(t *testing.T) {
	var buf bytes.Buffer
	FprintTxHex(&buf, true, "deadbeef")
	if !strings.Contains(buf.String(), yellow) || !strings.Contains(buf.String(), "deadbeef") {
		t.Fatalf("expected yellow-wrapped hex: %q", buf.String())
	}
}
