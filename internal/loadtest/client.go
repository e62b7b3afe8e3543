package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/salaryband/internal/domain/model"
	"github.com/okian/salaryband/internal/domain/types"
)

// client posts profiles to the evaluate endpoint.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// health returns nil when GET /healthz answers 200.
func (c *client) health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}
	defer resp.Body.Close() //nolint:errcheck
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	return nil
}

// evaluate posts p and returns the HTTP status with the decoded evaluation
// on success.
func (c *client) evaluate(ctx context.Context, p model.Profile) (int, types.Evaluation, error) {
	body, err := json.Marshal(p)
	if err != nil {
		return 0, types.Evaluation{}, fmt.Errorf("failed to marshal profile: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/evaluate", bytes.NewReader(body))
	if err != nil {
		return 0, types.Evaluation{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, types.Evaluation{}, err
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, types.Evaluation{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, types.Evaluation{}, fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}
	var ev types.Evaluation
	if err := json.Unmarshal(data, &ev); err != nil {
		return resp.StatusCode, types.Evaluation{}, fmt.Errorf("failed to decode evaluation: %w", err)
	}
	return resp.StatusCode, ev, nil
}
