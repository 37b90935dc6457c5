package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zatekoja/volunteerconnect/backend/internal/domain/providers"
	"github.com/zatekoja/volunteerconnect/backend/internal/infrastructure/observability"
)

const defaultFeedTimeout = 2 * time.Minute

// CMSClient downloads the CMS Hospital General Information export.
type CMSClient struct {
	url        string
	httpClient *http.Client
}

var _ providers.FacilityFeed = (*CMSClient)(nil)

// NewCMSClient creates a feed client for url. A nil httpClient gets one
// with the given timeout.
func NewCMSClient(url string, timeout time.Duration, httpClient *http.Client) *CMSClient {
	if timeout <= 0 {
		timeout = defaultFeedTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &CMSClient{url: url, httpClient: httpClient}
}

// FetchCSV downloads the whole export in one request.
func (c *CMSClient) FetchCSV(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build feed request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("CMS CSV download error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("CMS CSV download error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read CMS CSV: %w", err)
	}

	observability.LoggerFromContext(ctx).Debug().Int("bytes", len(body)).Str("url", c.url).Msg("downloaded hospital feed")
	return string(body), nil
}
