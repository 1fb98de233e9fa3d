// Package puzzle orchestrates one end-to-end mining run: fetch the
// source transaction, find its 21e8 output, build and sign the
// spending transaction, and optionally broadcast and save the result.
package puzzle

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/google/uuid"

	"github.com/21e8/miner/internal/bsvtx"
	"github.com/21e8/miner/internal/config"
	"github.com/21e8/miner/internal/dashboard"
	"github.com/21e8/miner/internal/explorer"
	"github.com/21e8/miner/internal/finalize"
	"github.com/21e8/miner/internal/identity"
	"github.com/21e8/miner/internal/mining"
	"github.com/21e8/miner/internal/script"
	"github.com/21e8/miner/internal/sink"
	"github.com/21e8/miner/internal/tty"
	"github.com/21e8/miner/internal/txbuilder"
)

// ErrNoPuzzleFound is returned when a source transaction has no
// output matching the 21e8 locking-script template. Its user-visible
// rendering is the literal line "No 21e8 scripts found."
var ErrNoPuzzleFound = errors.New("puzzle: no 21e8 outputs found")

var txidPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// ValidTXID reports whether s is a syntactically well-formed
// transaction id: exactly 64 hex characters.
func ValidTXID(s string) bool {
	return txidPattern.MatchString(s)
}

// Result summarizes a completed mining run. RunID is a fresh UUID that
// identifies this run in the dashboard's solved frame and the CLI's
// completion line, independent of the eventual transaction id. Results
// are returned to the caller only; they are not recorded anywhere else.
type Result struct {
	RunID         string
	TxID          string
	TxHex         string
	Broadcast     string
	SavedPath     string
	WinningKeyWIF string
}

// Options carries the optional side channels a run can be wired to: a
// progress outlet for sampled mining attempts (forwarded to the
// dashboard; the terminal outlet is always active), a dashboard to
// notify when the run completes, and the reader/writer a manual
// payout-address reprompt falls back to when alias resolution fails.
// Explorer is required; all other fields may be left zero.
type Options struct {
	Explorer     *explorer.Client
	Progress     chan<- mining.Attempt
	Dash         *dashboard.Server
	PromptReader io.Reader
	PromptWriter io.Writer
}

// FindPuzzleOutput scans source's outputs in ascending index order
// and returns the first one matching the 21e8 template.
func FindPuzzleOutput(source *bsvtx.Transaction) (index int, target []byte, ok bool) {
	for i := 0; ; i++ {
		out, exists := source.Output(i)
		if !exists {
			return 0, nil, false
		}
		if t, matched := script.ExtractTarget(out.Script); matched {
			return i, t, true
		}
	}
}

// Run fetches txid from the explorer, locates its 21e8 output, mines
// a qualifying signature, finalizes the spend, and performs the
// configured autopublish/autosave side effects.
func Run(ctx context.Context, txid string, cfg config.Config, opts Options) (Result, error) {
	runID := uuid.NewString()
	if !ValidTXID(txid) {
		return Result{}, fmt.Errorf("puzzle: %q is not a valid transaction id", txid)
	}

	rawTx, err := opts.Explorer.GetTx(ctx, txid)
	if err != nil {
		return Result{}, err
	}
	source, err := bsvtx.FromHex(rawTx)
	if err != nil {
		return Result{}, fmt.Errorf("puzzle: decode source transaction: %w", err)
	}

	outputIndex, target, ok := FindPuzzleOutput(source)
	if !ok {
		return Result{}, ErrNoPuzzleFound
	}

	promptReader := opts.PromptReader
	if promptReader == nil {
		promptReader = strings.NewReader("")
	}
	promptWriter := opts.PromptWriter
	if promptWriter == nil {
		promptWriter = io.Discard
	}

	payToScript, payToAddr, err := resolvePayToScript(ctx, cfg.PayTo, opts.Explorer.ResolveAlias, promptReader, promptWriter)
	if err != nil {
		return Result{}, err
	}
	tty.PrintPayTo(payToAddr)

	spender, err := txbuilder.NewSpender(source, outputIndex, payToScript, cfg.MinerID.Enabled)
	if err != nil {
		return Result{}, err
	}

	if cfg.MinerID.Enabled {
		if err := identity.Attach(spender, cfg.MinerID.PrivKey, cfg.MinerID.Message); err != nil {
			return Result{}, err
		}
	}

	preimage, err := spender.SighashPreimage()
	if err != nil {
		return Result{}, err
	}

	tty.PrintThreads(mining.Threads())

	internalProgress := make(chan mining.Attempt, 16)
	forwardDone := make(chan struct{})
	go func() {
		defer close(forwardDone)
		for a := range internalProgress {
			tty.PrintAttempt(a)
			if opts.Progress != nil {
				select {
				case opts.Progress <- a:
				default:
				}
			}
		}
	}()

	candidate, err := mining.Coordinate(ctx, mining.Job{
		Preimage: preimage,
		Target:   target,
		Progress: internalProgress,
	})
	close(internalProgress)
	<-forwardDone
	if opts.Progress != nil {
		close(opts.Progress)
	}
	if err != nil {
		return Result{}, err
	}
	tty.PrintWinner(candidate.Hash)

	txHex := finalize.Finalize(spender, candidate)
	tty.PrintTxHex(txHex)
	winningWIF, err := encodeWIF(candidate)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		RunID:         runID,
		TxID:          source.IDHex(),
		TxHex:         txHex,
		WinningKeyWIF: winningWIF,
	}

	if cfg.Autopublish {
		resp, err := opts.Explorer.Broadcast(ctx, txHex)
		if err != nil {
			return result, fmt.Errorf("puzzle: broadcast failed: %w", err)
		}
		result.Broadcast = resp
	}

	if cfg.Autosave {
		path, err := sink.Save(result.TxID, txHex)
		if err != nil {
			return result, fmt.Errorf("puzzle: save failed: %w", err)
		}
		result.SavedPath = path
	}

	if opts.Dash != nil {
		opts.Dash.BroadcastSolved(result.RunID, result.TxID, result.SavedPath)
	}

	return result, nil
}

// aliasResolver matches (*explorer.Client).ResolveAlias's signature,
// taken as a plain function value so the reprompt loop below can be
// exercised without a live alias-resolution service.
type aliasResolver func(ctx context.Context, input string) (string, error)

// resolvePayToScript turns a configured pay_to field into a P2PKH
// locking script, matching the retry policy of the original setup:
// try the value as a bare address first; on failure, try resolving it
// as an alias; on alias-resolution failure too, reprompt on w/r for a
// manual P2PKH address and retry the whole loop. It keeps retrying
// until a valid address is produced or the reader is exhausted.
func resolvePayToScript(ctx context.Context, payTo string, resolve aliasResolver, r io.Reader, w io.Writer) (lockingScript []byte, addr string, err error) {
	scanner := bufio.NewScanner(r)
	candidate := payTo

	for {
		lockScript, decodeErr := p2pkhLockingScript(candidate)
		if decodeErr == nil {
			return lockScript, candidate, nil
		}
		if candidate != "" {
			fmt.Fprintf(w, "%v\n", decodeErr)
		}

		resolved, rerr := resolve(ctx, candidate)
		if rerr == nil {
			fmt.Fprintf(w, "Polynym address found: %s\n", resolved)
			candidate = resolved
			continue
		}
		fmt.Fprintf(w, "Could not fetch address from Polynym: %v\n", rerr)

		fmt.Fprint(w, "Pay solved puzzle out to (P2PKH address): ")
		if !scanner.Scan() {
			return nil, "", fmt.Errorf("puzzle: no valid payout address provided")
		}
		candidate = strings.TrimSpace(scanner.Text())
	}
}

func p2pkhLockingScript(addr string) ([]byte, error) {
	if addr == "" {
		return nil, fmt.Errorf("puzzle: payout address is empty")
	}
	decoded, err := btcutil.DecodeAddress(addr, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("puzzle: %q is not a valid P2PKH address: %w", addr, err)
	}
	p2pkh, ok := decoded.(*btcutil.AddressPubKeyHash)
	if !ok {
		return nil, fmt.Errorf("puzzle: %q is not a P2PKH address", addr)
	}
	return script.BuildP2PKH(p2pkh.Hash160()[:]), nil
}

func encodeWIF(c mining.Candidate) (string, error) {
	wif, err := btcutil.NewWIF(c.Key, &chaincfg.MainNetParams, true)
	if err != nil {
		return "", fmt.Errorf("puzzle: encode winning key WIF: %w", err)
	}
	return wif.String(), nil
}
