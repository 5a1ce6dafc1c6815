package chain

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/computechain/explorer/pkg/config"
)

// blockHeightMetric is the gauge the node exposes on its Prometheus
// endpoint for the current chain tip.
const blockHeightMetric = "computechain_block_height"

const maxErrorBodyBytes = 512

// Client talks to a ComputeChain node over its REST API. All methods
// retry transient failures with exponential backoff and record request
// metrics per method.
type Client struct {
	baseURL string
	http    *http.Client
	retry   *config.RetryConfig
}

// NewClient creates a client for the node at the configured URL.
func NewClient(cfg *config.NodeConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http: &http.Client{
			Timeout: cfg.RequestTimeout.Duration,
		},
		retry: cfg.Retry,
	}
}

// CurrentHeight reads the chain tip from the node's metrics endpoint.
// It returns 0 when the node does not expose the height gauge, which
// callers treat as "node not ready yet".
func (c *Client) CurrentHeight(ctx context.Context) (uint64, error) {
	var height uint64

	err := c.instrumented(ctx, "current_height", func() error {
		body, err := c.get(ctx, "/metrics")
		if err != nil {
			return err
		}
		defer body.Close()

		height, err = parseHeightMetric(body)

		return err
	})
	if err != nil {
		return 0, err
	}

	return height, nil
}

// BlockByHeight fetches the full block at the given height. Heights past
// the chain tip return ErrNotFound.
func (c *Client) BlockByHeight(ctx context.Context, height uint64) (*RawBlock, error) {
	var block RawBlock
	if err := c.getJSON(ctx, "block_by_height", fmt.Sprintf("/block/%d", height), &block); err != nil {
		return nil, err
	}

	return &block, nil
}

// LatestBlock fetches the block at the current chain tip.
func (c *Client) LatestBlock(ctx context.Context) (*RawBlock, error) {
	var block RawBlock
	if err := c.getJSON(ctx, "latest_block", "/block/latest", &block); err != nil {
		return nil, err
	}

	return &block, nil
}

// Account fetches the live balance and nonce for an address.
func (c *Client) Account(ctx context.Context, address string) (*AccountState, error) {
	var state AccountState
	if err := c.getJSON(ctx, "account", "/balance/"+address, &state); err != nil {
		return nil, err
	}

	return &state, nil
}

// Validators fetches the current validator set.
func (c *Client) Validators(ctx context.Context) ([]Validator, error) {
	var validators []Validator
	if err := c.getJSON(ctx, "validators", "/validators", &validators); err != nil {
		return nil, err
	}

	return validators, nil
}

// getJSON performs an instrumented, retried GET and decodes the JSON body.
func (c *Client) getJSON(ctx context.Context, method, path string, out any) error {
	return c.instrumented(ctx, method, func() error {
		body, err := c.get(ctx, path)
		if err != nil {
			return err
		}
		defer body.Close()

		if err := json.NewDecoder(body).Decode(out); err != nil {
			return fmt.Errorf("decoding %s response: %w", path, err)
		}

		return nil
	})
}

func (c *Client) instrumented(ctx context.Context, method string, fn func() error) error {
	NodeMethodInc(method)
	start := time.Now()

	err := retryWithBackoff(ctx, c.retry, method, fn)

	NodeMethodDuration(method, time.Since(start))

	if err != nil {
		NodeMethodError(method, errorType(err))
	}

	return err
}

// get performs a single GET request and maps error statuses onto the
// client's error taxonomy. The caller owns the returned body.
func (c *Client) get(ctx context.Context, path string) (io.ReadCloser, error) {
	url := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", url, err)
	}

	if resp.StatusCode == http.StatusOK {
		return resp.Body, nil
	}

	truncated, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", url, ErrNotFound)
	}

	return nil, &HTTPError{
		StatusCode: resp.StatusCode,
		URL:        url,
		Body:       strings.TrimSpace(string(truncated)),
	}
}

// parseHeightMetric scans Prometheus text exposition output for the
// block height gauge. A missing gauge yields 0 without error.
func parseHeightMetric(r io.Reader) (uint64, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 2 || fields[0] != blockHeightMetric {
			continue
		}

		value, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return 0, fmt.Errorf("parsing %s value %q: %w", blockHeightMetric, fields[1], err)
		}
		if value < 0 {
			return 0, fmt.Errorf("negative %s value %q", blockHeightMetric, fields[1])
		}

		return uint64(value), nil
	}

	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("reading metrics output: %w", err)
	}

	return 0, nil
}

func errorType(err error) string {
	switch {
	case err == nil:
		return ""
	case strings.Contains(err.Error(), "not found"):
		return "not_found"
	case strings.Contains(err.Error(), "context"):
		return "cancelled"
	case strings.Contains(err.Error(), "decoding"):
		return "decode"
	default:
		return "request"
	}
}
