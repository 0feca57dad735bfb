// Package rpc implements an aria2 JSON-RPC client for downloads driven
// through an already-running daemon instead of a spawned process.
package rpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/hdiniz/ariactl/internal/engine"
	"github.com/hdiniz/ariactl/internal/logctx"
)

// DefaultURL is where a locally started aria2 daemon listens by default.
const DefaultURL = "http://localhost:6800/jsonrpc"

// Client talks JSON-RPC 2.0 to an aria2 daemon.
type Client struct {
	url             string
	secret          string
	pollingInterval time.Duration
	httpClient      *http.Client
}

func NewClient(url, secret string, pollingInterval time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}

	if pollingInterval <= 0 {
		pollingInterval = time.Second
	}

	return &Client{
		url:             url,
		secret:          secret,
		pollingInterval: pollingInterval,
		httpClient:      &http.Client{Timeout: 30 * time.Second},
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

// statusInfo mirrors aria2.tellStatus; the daemon reports every numeric
// field as a string.
type statusInfo struct {
	GID             string `json:"gid"`
	Status          string `json:"status"`
	TotalLength     string `json:"totalLength"`
	CompletedLength string `json:"completedLength"`
	DownloadSpeed   string `json:"downloadSpeed"`
	UploadSpeed     string `json:"uploadSpeed"`
	Connections     string `json:"connections"`
	NumSeeders      string `json:"numSeeders"`
	ErrorCode       string `json:"errorCode"`
	ErrorMessage    string `json:"errorMessage"`
}

// call performs one JSON-RPC round trip. The secret token, when set, is
// always the first positional parameter per the aria2 auth scheme.
func (c *Client) call(ctx context.Context, method string, params []any, result any) error {
	if c.secret != "" {
		params = append([]any{"token:" + c.secret}, params...)
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      "ariactl",
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build rpc request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &engine.RPCFailure{Method: method, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return &engine.RPCFailure{Method: method, Message: "malformed response", Err: err}
	}

	if rpcResp.Error != nil {
		return &engine.RPCFailure{Method: method, Code: rpcResp.Error.Code, Message: rpcResp.Error.Message}
	}

	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return &engine.RPCFailure{Method: method, Message: "malformed result", Err: err}
		}
	}

	return nil
}

// AddURI queues a magnet link or URL and returns the assigned GID.
func (c *Client) AddURI(ctx context.Context, uri string, options map[string]string) (string, error) {
	if options == nil {
		// aria2 rejects a null options param; always send an object.
		options = map[string]string{}
	}

	var gid string
	if err := c.call(ctx, "aria2.addUri", []any{[]string{uri}, options}, &gid); err != nil {
		return "", err
	}

	return gid, nil
}

// AddTorrent queues a local .torrent file, uploaded base64-encoded.
func (c *Client) AddTorrent(ctx context.Context, torrent []byte, options map[string]string) (string, error) {
	if options == nil {
		options = map[string]string{}
	}

	var gid string

	encoded := base64.StdEncoding.EncodeToString(torrent)
	if err := c.call(ctx, "aria2.addTorrent", []any{encoded, []string{}, options}, &gid); err != nil {
		return "", err
	}

	return gid, nil
}

// TellStatus fetches the current daemon-side state of a download.
func (c *Client) TellStatus(ctx context.Context, gid string) (engine.Status, string, error) {
	var info statusInfo
	if err := c.call(ctx, "aria2.tellStatus", []any{gid}, &info); err != nil {
		return engine.Status{}, "", err
	}

	if info.Status == "error" {
		code, _ := strconv.Atoi(info.ErrorCode)

		return engine.Status{}, info.Status, &engine.RPCFailure{
			Method:  "aria2.tellStatus",
			Code:    code,
			Message: info.ErrorMessage,
		}
	}

	return toStatus(info), info.Status, nil
}

// Download queues the target on the daemon and polls its status until the
// download completes, fails, or the context is cancelled.
func (c *Client) Download(ctx context.Context, target engine.Target, onStatus func(engine.Status)) error {
	logger := logctx.LoggerFromContext(ctx)

	gid, err := c.add(ctx, target)
	if err != nil {
		return fmt.Errorf("failed to queue download: %w", err)
	}

	logger.Info("download queued on aria2 daemon", "gid", gid, "rpc_url", c.url)

	ticker := time.NewTicker(c.pollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			st, status, err := c.TellStatus(ctx, gid)
			if err != nil {
				return err
			}

			if onStatus != nil {
				onStatus(st)
			}

			switch status {
			case "complete":
				return nil
			case "removed":
				return &engine.RPCFailure{Method: "aria2.tellStatus", Message: "download was removed from the daemon"}
			}
		}
	}
}

func (c *Client) add(ctx context.Context, target engine.Target) (string, error) {
	if target.Kind == engine.KindTorrentFile {
		torrent, err := os.ReadFile(target.Input)
		if err != nil {
			return "", fmt.Errorf("failed to read torrent file: %w", err)
		}

		return c.AddTorrent(ctx, torrent, nil)
	}

	return c.AddURI(ctx, target.Input, nil)
}

func toStatus(info statusInfo) engine.Status {
	st := engine.Status{GID: info.GID}

	st.Total, _ = strconv.ParseUint(info.TotalLength, 10, 64)
	st.Completed, _ = strconv.ParseUint(info.CompletedLength, 10, 64)
	st.Speed, _ = strconv.ParseUint(info.DownloadSpeed, 10, 64)
	st.UploadSpeed, _ = strconv.ParseUint(info.UploadSpeed, 10, 64)
	st.Connections, _ = strconv.Atoi(info.Connections)
	st.Seeders, _ = strconv.Atoi(info.NumSeeders)

	if st.Speed > 0 && st.Total > st.Completed {
		st.ETA = time.Duration((st.Total-st.Completed)/st.Speed) * time.Second
	}

	return st
}
