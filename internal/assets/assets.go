// Package assets queries a DAS indexing service for digital assets.
package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/sss-labs/sss-shared/config"
	"github.com/sss-labs/sss-shared/internal/errs"
	"github.com/sss-labs/sss-shared/internal/log"
)

// Client is a JSON-RPC client for the indexing service.
type Client struct {
	url  string
	http *http.Client
}

// New creates a client targeting the configured indexing endpoint.
func New(cfg config.Config) *Client {
	return NewWithTimeout(cfg.AssetIndexURL, 30*time.Second)
}

// NewWithTimeout creates a client with a custom HTTP timeout.
func NewWithTimeout(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		url: url,
		http: &http.Client{
			Timeout: timeout,
		},
	}
}

// DigitalAsset is one indexed asset. Content and metadata are kept as
// raw documents; their shape is the indexing service's, not ours.
type DigitalAsset struct {
	ID       string          `json:"id"`
	Content  json.RawMessage `json:"content"`
	Metadata json.RawMessage `json:"metadata"`
}

// request is a JSON-RPC 2.0 request.
type request struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int         `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type assetsByOwnerParams struct {
	OwnerAddress string   `json:"ownerAddress"`
	Grouping     []string `json:"grouping"`
	SortBy       sortBy   `json:"sortBy"`
}

type sortBy struct {
	SortBy        string `json:"sortBy"`
	SortDirection string `json:"sortDirection"`
}

// response is a JSON-RPC 2.0 response.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      int             `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// assetList is the result shape of getAssetsByOwner. Total and Limit
// describe pagination the library does not follow: callers only ever
// see the first page.
type assetList struct {
	Total int            `json:"total"`
	Limit int            `json:"limit"`
	Items []DigitalAsset `json:"items"`
}

// AssetsByOwner returns the first page of assets owned by the given
// address, newest first, grouped by collection.
//
// Failures here are wrapped with a label that matches none of the
// taxonomy substrings and therefore classify as the FFI kind. That is
// long-standing observable behavior; keep the label wording unless the
// taxonomy itself is revised.
func (c *Client) AssetsByOwner(ctx context.Context, owner solana.PublicKey) ([]DigitalAsset, error) {
	req := request{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "getAssetsByOwner",
		Params: assetsByOwnerParams{
			OwnerAddress: owner.String(),
			Grouping:     []string{"collection"},
			SortBy: sortBy{
				SortBy:        "created",
				SortDirection: "desc",
			},
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, errs.Wrap(err, "marshal asset request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, errs.Wrap(err, "build asset request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, errs.Wrap(err, "fetch assets by owner")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.Wrap(err, "read asset response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errs.Wrap(fmt.Errorf("http status %d", resp.StatusCode), "fetch assets by owner")
	}

	var rpcResp response
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return nil, errs.Wrap(err, "decode asset response")
	}
	if rpcResp.Error != nil {
		return nil, errs.Wrap(fmt.Errorf("%d: %s", rpcResp.Error.Code, rpcResp.Error.Message), "asset index error")
	}

	var list assetList
	if err := json.Unmarshal(rpcResp.Result, &list); err != nil {
		return nil, errs.Wrap(err, "decode asset list")
	}

	log.Assets.Debug().
		Str("owner", owner.String()).
		Int("total", list.Total).
		Int("returned", len(list.Items)).
		Msg("fetched assets by owner")
	return list.Items, nil
}
