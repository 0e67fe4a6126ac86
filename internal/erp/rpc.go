// internal/erp/rpc.go
package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	commonhttp "workorder-assistant/internal/common/http"
)

// rpcRequest is a JSON-RPC 2.0 call envelope.
type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int64     `json:"id"`
}

type rpcParams struct {
	Service string        `json:"service"`
	Method  string        `json:"method"`
	Args    []interface{} `json:"args"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func (e *rpcError) Error() string {
	if e.Data != nil {
		if msg, ok := e.Data["message"].(string); ok && msg != "" {
			return fmt.Sprintf("rpc error %d: %s", e.Code, msg)
		}
	}
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// rpcClient posts JSON-RPC calls to the ERP /jsonrpc endpoint.
type rpcClient struct {
	endpoint   string
	httpClient *commonhttp.Client
	nextID     atomic.Int64
}

func newRPCClient(baseURL string, timeout time.Duration) *rpcClient {
	return &rpcClient{
		endpoint:   baseURL + "/jsonrpc",
		httpClient: commonhttp.NewClient(timeout),
	}
}

// call performs one JSON-RPC request and unmarshals result into out.
func (c *rpcClient) call(ctx context.Context, service, method string, args []interface{}, out interface{}) error {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params: rpcParams{
			Service: service,
			Method:  method,
			Args:    args,
		},
		ID: c.nextID.Add(1),
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create rpc request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rpc call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read rpc response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rpc endpoint returned status %d", resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("failed to decode rpc response: %w", err)
	}

	if rpcResp.Error != nil {
		return rpcResp.Error
	}

	if out != nil && len(rpcResp.Result) > 0 {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return fmt.Errorf("failed to decode rpc result: %w", err)
		}
	}

	return nil
}
