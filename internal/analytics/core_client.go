package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gonzalo9292/myworkout/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

var ErrCoreUnavailable = errors.New("core api unreachable")

const maxCoreErrorBody = 2048

// CoreStatusError is a non-200 answer of the core api.
type CoreStatusError struct {
	StatusCode int
	Body       string
}

func (e *CoreStatusError) Error() string {
	return fmt.Sprintf("core api error: %s", e.Body)
}

type rowsResponse struct {
	Rows []Row `json:"rows"`
}

// CoreClient reads workout rows from the core api, on behalf of the calling user.
type CoreClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCoreClient(baseURL string, httpClient *http.Client) *CoreClient {
	return &CoreClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *CoreClient) FetchRows(ctx context.Context, authorization, from, to string) (_ []Row, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "coreClient.fetchRows")
	span.SetAttributes(attribute.String("from", from), attribute.String("to", to))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	q := url.Values{}
	q.Set("from", from)
	q.Set("to", to)
	rowsURL := c.baseURL + "/analytics/workouts?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rowsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCoreUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	span.SetAttributes(attribute.Int("core.status", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxCoreErrorBody))
		return nil, &CoreStatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var payload rowsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode rows: %s", ErrCoreUnavailable, err)
	}

	span.SetAttributes(attribute.Int("rows.count", len(payload.Rows)))
	return payload.Rows, nil
}
