// Package sink writes a finalized transaction's hex encoding to disk
// under a deduplicated filename — the only persistence this program
// performs beyond its own config file.
package sink

import (
	"fmt"
	"os"
	"path/filepath"
)

const solvedDir = "solved"

// Save writes txHex (no trailing newline) to the first non-conflicting
// path among solved/{txid}.txt, solved/{txid}_1.txt, solved/{txid}_2.txt,
// … and returns that path. It creates solved/ if it does not exist.
func Save(txid, txHex string) (string, error) {
	if err := os.MkdirAll(solvedDir, 0o755); err != nil {
		return "", fmt.Errorf("sink: create %s: %w", solvedDir, err)
	}

	path := filepath.Join(solvedDir, txid+".txt")
	for n := 1; fileExists(path); n++ {
		path = filepath.Join(solvedDir, fmt.Sprintf("%s_%d.txt", txid, n))
	}

	if err := os.WriteFile(path, []byte(txHex), 0o644); err != nil {
		return "", fmt.Errorf("sink: write %s: %w", path, err)
	}
	return path, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
