package database

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Defaults for the hosted-service SQL entrypoint.
const (
	DefaultRPCFunction = "exec_sql"
	DefaultRPCParam    = "sql"
	DefaultRPCTimeout  = 60 * time.Second
	maxErrorBody       = 64 << 10
)

// RPCOptions configures a hosted-service RPC handle.
type RPCOptions struct {
	URL      string // service base URL, e.g. https://<project>.supabase.co
	Key      string // service-role key
	Function string // administrative function executing raw SQL
	Param    string // JSON argument name carrying the SQL text
	Timeout  time.Duration
	Client   *http.Client
}

// RPC executes statements by calling one configured SQL function of a
// PostgREST-style service: POST {URL}/rest/v1/rpc/{Function}.
type RPC struct {
	endpoint string
	key      string
	param    string
	client   *http.Client
}

// rpcError is the error body returned by the service.
type rpcError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// NewRPC validates opts and builds the handle. No request is made until the
// first Exec.
func NewRPC(opts RPCOptions) (*RPC, error) {
	u, err := url.Parse(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDatabaseURL, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: rpc url must be http(s)://host, got %q", ErrInvalidDatabaseURL, opts.URL)
	}

	if opts.Key == "" {
		return nil, ErrMissingAPIKey
	}

	function := opts.Function
	if function == "" {
		function = DefaultRPCFunction
	}

	param := opts.Param
	if param == "" {
		param = DefaultRPCParam
	}

	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultRPCTimeout
		}

		client = &http.Client{Timeout: timeout}
	}

	return &RPC{
		endpoint: strings.TrimRight(opts.URL, "/") + "/rest/v1/rpc/" + url.PathEscape(function),
		key:      opts.Key,
		param:    param,
		client:   client,
	}, nil
}

// Endpoint returns the URL statements are posted to.
func (r *RPC) Endpoint() string {
	return r.endpoint
}

// Exec posts sql to the configured function.
func (r *RPC) Exec(ctx context.Context, sql string) error {
	body, err := json.Marshal(map[string]string{r.param: sql})
	if err != nil {
		return fmt.Errorf("encoding rpc request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building rpc request: %w", err)
	}

	req.Header.Set("apikey", r.key)
	req.Header.Set("Authorization", "Bearer "+r.key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := r.client.Do(req)
	if err != nil {
		return connectionError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // draining for connection reuse

		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	return classifyRPCError(resp.StatusCode, raw)
}

// classifyRPCError separates service-level failures (bad key, missing
// function, gateway down), which end the run, from SQL failures raised by
// the function, which only fail the statement.
func classifyRPCError(status int, raw []byte) error {
	var body rpcError
	_ = json.Unmarshal(raw, &body)

	msg := body.Message
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}

	if msg == "" {
		msg = http.StatusText(status)
	}

	cause := fmt.Errorf("rpc status %d: %s", status, msg)

	switch {
	case status == http.StatusUnauthorized,
		strings.HasPrefix(body.Code, "PGRST"),
		body.Code == "" && (status == http.StatusForbidden || status == http.StatusNotFound || status >= 500):
		return connectionError(cause)
	}

	return &StatementError{Code: body.Code, Message: msg, Err: cause}
}
