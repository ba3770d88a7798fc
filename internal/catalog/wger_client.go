package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gonzalo9292/myworkout/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

var ErrWgerUnavailable = errors.New("wger unavailable")

const maxWgerErrorBody = 512

type WgerClient struct {
	baseURL    string
	httpClient *http.Client
	pageLimit  int
	maxPages   int
}

func NewWgerClient(baseURL string, httpClient *http.Client, pageLimit, maxPages int) *WgerClient {
	if pageLimit <= 0 {
		pageLimit = 200
	}
	return &WgerClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		pageLimit:  pageLimit,
		maxPages:   maxPages,
	}
}

func (c *WgerClient) MusclesURL() string {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.pageLimit))
	return c.baseURL + "/api/v2/muscle/?" + q.Encode()
}

func (c *WgerClient) ExerciseInfoURL(languageID int) string {
	q := url.Values{}
	q.Set("language", strconv.Itoa(languageID))
	q.Set("limit", strconv.Itoa(c.pageLimit))
	return c.baseURL + "/api/v2/exerciseinfo/?" + q.Encode()
}

func (c *WgerClient) FetchMuscles(ctx context.Context) (_ []WgerMuscle, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "wger.fetchMuscles")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	muscles, err := fetchPaged[WgerMuscle](ctx, c, c.MusclesURL())
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("muscles.count", len(muscles)))
	return muscles, nil
}

func (c *WgerClient) FetchExercises(ctx context.Context, languageID int) (_ []WgerExerciseInfo, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "wger.fetchExercises")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	exercises, err := fetchPaged[WgerExerciseInfo](ctx, c, c.ExerciseInfoURL(languageID))
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("exercises.count", len(exercises)))
	return exercises, nil
}

// fetchPaged follows the next links starting at startURL and collects every result.
func fetchPaged[T any](ctx context.Context, c *WgerClient, startURL string) ([]T, error) {
	var all []T
	nextURL := startURL
	for page := 1; nextURL != ""; page++ {
		if c.maxPages > 0 && page > c.maxPages {
			log.Warnf("wger: stopped paging after %d pages at [%s]", c.maxPages, nextURL)
			break
		}

		p, err := getPage[T](ctx, c, nextURL)
		if err != nil {
			return nil, err
		}
		all = append(all, p.Results...)

		nextURL = ""
		if p.Next != nil {
			nextURL = *p.Next
		}
	}
	return all, nil
}

func getPage[T any](ctx context.Context, c *WgerClient, pageURL string) (*wgerPage[T], error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request [%s]: %w", pageURL, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get [%s]: %s", ErrWgerUnavailable, pageURL, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxWgerErrorBody))
		return nil, fmt.Errorf("%w: get [%s]: status %d: %s", ErrWgerUnavailable, pageURL, resp.StatusCode, body)
	}

	var page wgerPage[T]
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: decode page [%s]: %s", ErrWgerUnavailable, pageURL, err)
	}
	return &page, nil
}
