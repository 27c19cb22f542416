// File path: internal/ledger/gateway.go
package ledger

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/liveforge-ai/liveforge/internal/common"
)

// GatewayClient implements Client against the liveforge-logger REST
// gateway, a thin bridge in front of the on-chain program. The gateway is
// pinged once at construction; an unreachable gateway still yields a
// usable client so builds can proceed without on-chain logging.
type GatewayClient struct {
	cfg        Config
	httpClient *http.Client
	baseURL    string

	mu        sync.RWMutex
	available bool
}

type initializeRequest struct {
	BuildID     string `json:"build_id"`
	ProjectName string `json:"project_name"`
	Authority   string `json:"authority,omitempty"`
}

type logActionRequest struct {
	Action      string `json:"action"`
	Description string `json:"description"`
	ContentHash string `json:"content_hash"`
	Authority   string `json:"authority,omitempty"`
}

type txResponse struct {
	TxHash string `json:"tx_hash"`
	Error  string `json:"error,omitempty"`
}

// NewGatewayClient constructs a client from the provided configuration.
// It returns (nil, nil) when no endpoint is configured.
func NewGatewayClient(ctx context.Context, cfg Config) (*GatewayClient, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	logger := common.Logger()
	logger.Info("ledger: initializing gateway client", "endpoint", cfg.Endpoint, "timeout", cfg.Timeout)
	client := &GatewayClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.Endpoint, "/"),
	}
	client.setAvailable(true)
	if err := client.ping(ctx); err != nil {
		logger.Warn("ledger: gateway ping failed", "error", err)
		client.setAvailable(false)
		return client, nil
	}
	logger.Info("ledger: gateway client ready")
	return client, nil
}

// Available reports whether the gateway answered the last probe.
func (c *GatewayClient) Available() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.available
}

func (c *GatewayClient) setAvailable(v bool) {
	c.mu.Lock()
	c.available = v
	c.mu.Unlock()
}

func (c *GatewayClient) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("gateway health: status %d", resp.StatusCode)
	}
	return nil
}

// InitializeBuild registers the build account derived from the build id.
func (c *GatewayClient) InitializeBuild(ctx context.Context, buildID, projectName string) (string, error) {
	if c == nil {
		return "", errors.New("ledger client not configured")
	}
	account := DeriveAccountRef(buildID)
	payload := initializeRequest{BuildID: buildID, ProjectName: projectName, Authority: c.cfg.Authority}
	var resp txResponse
	if err := c.post(ctx, fmt.Sprintf("/v1/builds/%s/initialize", account), payload, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("gateway: %s", resp.Error)
	}
	if strings.TrimSpace(resp.TxHash) == "" {
		return "", errors.New("gateway returned empty tx hash")
	}
	return resp.TxHash, nil
}

// LogAction appends a verification entry to the build account.
func (c *GatewayClient) LogAction(ctx context.Context, buildID, action, description string, contentHash []byte) (string, error) {
	if c == nil {
		return "", errors.New("ledger client not configured")
	}
	account := DeriveAccountRef(buildID)
	payload := logActionRequest{
		Action:      action,
		Description: description,
		ContentHash: hex.EncodeToString(contentHash),
		Authority:   c.cfg.Authority,
	}
	var resp txResponse
	if err := c.post(ctx, fmt.Sprintf("/v1/builds/%s/actions", account), payload, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("gateway: %s", resp.Error)
	}
	if strings.TrimSpace(resp.TxHash) == "" {
		return "", errors.New("gateway returned empty tx hash")
	}
	return resp.TxHash, nil
}

// ReadBuild fetches the on-ledger account for a build.
func (c *GatewayClient) ReadBuild(ctx context.Context, buildID string) (*BuildAccount, error) {
	if c == nil {
		return nil, errors.New("ledger client not configured")
	}
	account := DeriveAccountRef(buildID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/builds/"+account, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.setAvailable(false)
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("build account %s not found", account)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		c.setAvailable(false)
		return nil, fmt.Errorf("gateway read: status %d", resp.StatusCode)
	}
	var out BuildAccount
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode build account: %w", err)
	}
	c.setAvailable(true)
	return &out, nil
}

func (c *GatewayClient) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.setAvailable(false)
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		c.setAvailable(false)
		return fmt.Errorf("gateway: status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	c.setAvailable(true)
	return nil
}
