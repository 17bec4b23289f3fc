package portal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"portalsync/internal/domain"
)

type portalHTTPClient struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewClient returns a client that reads events from the application portal's
// integration API. baseURL should include the integration path prefix.
func NewClient(client *http.Client, baseURL, token string) domain.PortalClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &portalHTTPClient{
		client:  client,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
	}
}

func (c *portalHTTPClient) ListEvents(ctx context.Context) ([]domain.EventDetails, error) {
	var events []domain.EventDetails
	if err := c.get(ctx, "events", &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (c *portalHTTPClient) FindEvent(ctx context.Context, id int) (*domain.EventDetails, error) {
	var event domain.EventDetails
	err := c.get(ctx, fmt.Sprintf("events/%d", id), &event)
	if err != nil {
		var upstream *domain.UpstreamError
		if errors.As(err, &upstream) && upstream.StatusCode == http.StatusNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (c *portalHTTPClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch from portal: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &domain.UpstreamError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode portal response: %w", err)
	}
	return nil
}
