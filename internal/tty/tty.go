// Package tty prints mining progress directly to the terminal, the
// second of the two progress outlets alongside the websocket
// dashboard (internal/dashboard). ANSI colors are emitted only when
// standard output is attached to a real terminal, detected once at
// startup via isatty rather than assumed.
package tty

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/21e8/miner/internal/mining"
)

const (
	red        = "\x1b[31m"
	green      = "\x1b[32m"
	yellow     = "\x1b[33m"
	purple     = "\x1b[35m"
	cyan       = "\x1b[36m"
	resetColor = "\x1b[0m"
)

// ColorEnabled reports whether stdout is a real terminal, decided
// once at process startup.
var ColorEnabled = isatty.IsTerminal(os.Stdout.Fd())

// PrintThreads announces the worker count at the start of a run.
func PrintThreads(n int) {
	FprintThreads(os.Stdout, ColorEnabled, n)
}

// FprintThreads is the writer-parameterized form of PrintThreads, kept
// separate so it can be exercised without depending on stdout being a
// terminal.
func FprintThreads(w io.Writer, color bool, n int) {
	if color {
		fmt.Fprintf(w, "%s[%d threads]%s\n\n", cyan, n, resetColor)
		return
	}
	fmt.Fprintf(w, "[%d threads]\n\n", n)
}

// PrintAttempt overwrites the current line with a losing attempt's hash.
func PrintAttempt(a mining.Attempt) {
	FprintAttempt(os.Stdout, ColorEnabled, a)
}

// FprintAttempt is the writer-parameterized form of PrintAttempt.
func FprintAttempt(w io.Writer, color bool, a mining.Attempt) {
	if color {
		fmt.Fprintf(w, "\r%s%s", red, hex.EncodeToString(a.Hash))
		return
	}
	fmt.Fprintf(w, "\r%s", hex.EncodeToString(a.Hash))
}

// PrintWinner overwrites the current line with the winning hash.
func PrintWinner(hash []byte) {
	FprintWinner(os.Stdout, ColorEnabled, hash)
}

// FprintWinner is the writer-parameterized form of PrintWinner.
func FprintWinner(w io.Writer, color bool, hash []byte) {
	if color {
		fmt.Fprintf(w, "\r\U0001FA84 %s%s%s\n", green, hex.EncodeToString(hash), resetColor)
		return
	}
	fmt.Fprintf(w, "\r\U0001FA84 %s\n", hex.EncodeToString(hash))
}

// PrintPayTo announces the resolved payout address.
func PrintPayTo(addr string) {
	FprintPayTo(os.Stdout, ColorEnabled, addr)
}

// FprintPayTo is the writer-parameterized form of PrintPayTo.
func FprintPayTo(w io.Writer, color bool, addr string) {
	if color {
		fmt.Fprintf(w, "%s■%s Paying to: %s%s%s\n", green, resetColor, purple, addr, resetColor)
		return
	}
	fmt.Fprintf(w, "Paying to: %s\n", addr)
}

// PrintTxHex prints the finalized transaction's hex encoding.
func PrintTxHex(txHex string) {
	FprintTxHex(os.Stdout, ColorEnabled, txHex)
}

// FprintTxHex is the writer-parameterized form of PrintTxHex.
func FprintTxHex(w io.Writer, color bool, txHex string) {
	if color {
		fmt.Fprintf(w, "%s%s%s\n\n", yellow, txHex, resetColor)
		return
	}
	fmt.Fprintf(w, "%s\n\n", txHex)
}
