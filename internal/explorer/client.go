// Package explorer talks to a public BSV block explorer and an alias
// resolution service over plain HTTPS — no node RPC, no mempool
// polling, just the handful of read/write calls a miner needs around
// a single transaction.
package explorer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

// ErrNetwork wraps any transport-level failure (connection refused,
// timeout, non-2xx status) so callers can distinguish it from a
// malformed response.
var ErrNetwork = errors.New("explorer: network error")

const (
	defaultBaseURL = "https://api.whatsonchain.com/v1/bsv/main"
	defaultTimeout = 30 * time.Second
)

// polynymBaseURL is a var, not a const, so tests can point it at a
// local fixture server instead of the real service.
var polynymBaseURL = "https://api.polynym.io"

// Client fetches and broadcasts transactions against a
// WhatsOnChain-compatible explorer and resolves payment aliases
// through Polynym.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client. An empty baseURL falls back to the public
// WhatsOnChain mainnet API.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// GetTx fetches the raw hex encoding of txid.
func (c *Client) GetTx(ctx context.Context, txid string) (string, error) {
	url := fmt.Sprintf("%s/tx/%s/hex", c.baseURL, txid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("explorer: build request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// broadcastRequest is the JSON body WhatsOnChain's raw broadcast
// endpoint expects.
type broadcastRequest struct {
	TxHex string `json:"txhex"`
}

// Broadcast submits a signed, hex-encoded transaction for relay and
// returns the explorer's response text (the new txid on success).
func (c *Client) Broadcast(ctx context.Context, txHex string) (string, error) {
	payload, err := sonic.Marshal(&broadcastRequest{TxHex: txHex})
	if err != nil {
		return "", fmt.Errorf("explorer: encode broadcast body: %w", err)
	}

	url := fmt.Sprintf("%s/tx/raw", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("explorer: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// aliasResponse is Polynym's resolution payload.
type aliasResponse struct {
	Address string `json:"address"`
}

// ResolveAlias translates a handle (a bare address, a $handle, or a
// PayMail) into a P2PKH address via Polynym.
func (c *Client) ResolveAlias(ctx context.Context, input string) (string, error) {
	url := fmt.Sprintf("%s/getAddress/%s", polynymBaseURL, input)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("explorer: build request: %w", err)
	}

	body, err := c.do(req)
	if err != nil {
		return "", err
	}

	var parsed aliasResponse
	if err := sonic.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("explorer: parse alias response: %w", err)
	}
	if parsed.Address == "" {
		return "", fmt.Errorf("explorer: alias %q did not resolve to an address", input)
	}
	return parsed.Address, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned %d: %s", ErrNetwork, req.URL, resp.StatusCode, body)
	}
	return body, nil
}
