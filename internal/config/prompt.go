package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// RunSetup interactively builds a Config by prompting on r and writing
// progress/questions to w, re-asking until the WIF decodes (or is left
// empty to generate one) and until the payout field is non-empty, before
// persisting the result. The payout value's address syntax is not
// checked here.
func RunSetup(r io.Reader, w io.Writer) (Config, error) {
	scanner := bufio.NewScanner(r)

	enabled := promptConfirm(scanner, w, "Enable miner identity?")

	privKey := ""
	for {
		fmt.Fprint(w, "Identity private key in WIF format (Enter to generate a new one): ")
		privKey = readLine(scanner)
		if privKey == "" {
			key, err := btcec.NewPrivateKey()
			if err != nil {
				return Config{}, fmt.Errorf("config: generate identity key: %w", err)
			}
			wif, err := btcutil.NewWIF(key, &chaincfg.MainNetParams, true)
			if err != nil {
				return Config{}, fmt.Errorf("config: encode identity WIF: %w", err)
			}
			privKey = wif.String()
			break
		}
		if _, err := btcutil.DecodeWIF(privKey); err == nil {
			break
		}
		fmt.Fprintln(w, "that doesn't look like a valid WIF key, try again")
	}

	fmt.Fprint(w, "Message to embed in the identity attestation: ")
	message := readLine(scanner)

	payTo := ""
	for payTo == "" {
		fmt.Fprint(w, "Pay solved puzzles out to (address, $handle, or PayMail): ")
		payTo = readLine(scanner)
	}

	autopublish := promptConfirm(scanner, w, "Automatically broadcast solved puzzles?")
	autosave := promptConfirm(scanner, w, "Automatically save solved puzzles to disk?")

	cfg := Config{
		PayTo:       payTo,
		Autopublish: autopublish,
		Autosave:    autosave,
		MinerID: MinerID{
			Enabled: enabled,
			PrivKey: privKey,
			Message: message,
		},
		Dashboard: Dashboard{
			ListenAddr: "127.0.0.1:4218",
		},
	}

	if err := Save(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func promptConfirm(scanner *bufio.Scanner, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	answer := strings.ToLower(readLine(scanner))
	return answer == "y" || answer == "yes"
}

func readLine(scanner *bufio.Scanner) string {
	if !scanner.Scan() {
		return ""
	}
	return strings.TrimSpace(scanner.Text())
}
