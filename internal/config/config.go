// Package config reads and writes the miner's TOML settings file: the
// payout address, the autopublish/autosave flags, and the optional
// persistent miner identity.
package config

import (
	"fmt"
	"os"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/pelletier/go-toml/v2"
)

const path = "Config.toml"

// MinerID holds the optional identity attestation settings.
type MinerID struct {
	Enabled bool   `toml:"enabled"`
	PrivKey string `toml:"priv_key"`
	Message string `toml:"message"`
}

// Explorer overrides the block explorer this miner talks to.
type Explorer struct {
	BaseURL string `toml:"base_url"`
}

// Dashboard controls the optional local live-progress server.
type Dashboard struct {
	Enabled    bool   `toml:"enabled"`
	ListenAddr string `toml:"listen_addr"`
}

// Config is the full persistent settings document.
type Config struct {
	PayTo       string    `toml:"pay_to"`
	Autopublish bool      `toml:"autopublish"`
	Autosave    bool      `toml:"autosave"`
	MinerID     MinerID   `toml:"miner_id"`
	Explorer    Explorer  `toml:"explorer"`
	Dashboard   Dashboard `toml:"dashboard"`
}

// Defaults returns a Config with a freshly generated identity key and
// the rest of the fields at their conservative defaults — matching
// the original setup wizard's out-of-the-box behavior.
func Defaults() (Config, error) {
	key, err := btcec.NewPrivateKey()
	if err != nil {
		return Config{}, fmt.Errorf("config: generate default identity key: %w", err)
	}
	wif, err := btcutil.NewWIF(key, &chaincfg.MainNetParams, true)
	if err != nil {
		return Config{}, fmt.Errorf("config: encode default identity WIF: %w", err)
	}

	return Config{
		PayTo:       "",
		Autopublish: true,
		Autosave:    true,
		MinerID: MinerID{
			Enabled: false,
			PrivKey: wif.String(),
			Message: "",
		},
		Dashboard: Dashboard{
			Enabled:    false,
			ListenAddr: "127.0.0.1:4218",
		},
	}, nil
}

// Exists reports whether Config.toml is present in the working directory.
func Exists() bool {
	_, err := os.Stat(path)
	return err == nil
}

// Load reads Config.toml, creating it with defaults first if absent.
func Load() (Config, error) {
	if !Exists() {
		cfg, err := Defaults()
		if err != nil {
			return Config{}, err
		}
		if err := Save(cfg); err != nil {
			return Config{}, err
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save serializes cfg and writes it to Config.toml, overwriting any
// existing file.
func Save(cfg Config) error {
	data, err := toml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
