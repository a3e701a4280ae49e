package garmin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fitassist/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const dateLayout = "2006-01-02"

// ErrNoData means the remote has nothing for the requested day or range.
var ErrNoData = errors.New("no data")

// DataSource is the fitness cloud API. Every call returns the raw response
// body; shape handling is left to the Fetcher.
//
//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=garmin_test
type DataSource interface {
	Activities(ctx context.Context, start, end time.Time, limit int) ([]byte, error)
	HeartRates(ctx context.Context, day time.Time) ([]byte, error)
	Sleep(ctx context.Context, day time.Time) ([]byte, error)
	Stress(ctx context.Context, day time.Time) ([]byte, error)
	BodyComposition(ctx context.Context, start, end time.Time) ([]byte, error)
	MaxMetrics(ctx context.Context, day time.Time) ([]byte, error)
}

type HTTPDataSource struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ DataSource = (*HTTPDataSource)(nil)

func NewHTTPDataSource(baseURL, token string, httpClient *http.Client) *HTTPDataSource {
	return &HTTPDataSource{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: httpClient,
	}
}

func (s *HTTPDataSource) Activities(ctx context.Context, start, end time.Time, limit int) ([]byte, error) {
	query := url.Values{}
	query.Set("start", start.Format(dateLayout))
	query.Set("end", end.Format(dateLayout))
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return s.get(ctx, "/activities", query)
}

func (s *HTTPDataSource) HeartRates(ctx context.Context, day time.Time) ([]byte, error) {
	return s.get(ctx, "/heartrate/"+day.Format(dateLayout), nil)
}

func (s *HTTPDataSource) Sleep(ctx context.Context, day time.Time) ([]byte, error) {
	return s.get(ctx, "/sleep/"+day.Format(dateLayout), nil)
}

func (s *HTTPDataSource) Stress(ctx context.Context, day time.Time) ([]byte, error) {
	return s.get(ctx, "/stress/"+day.Format(dateLayout), nil)
}

func (s *HTTPDataSource) BodyComposition(ctx context.Context, start, end time.Time) ([]byte, error) {
	query := url.Values{}
	query.Set("start", start.Format(dateLayout))
	query.Set("end", end.Format(dateLayout))
	return s.get(ctx, "/bodycomp", query)
}

func (s *HTTPDataSource) MaxMetrics(ctx context.Context, day time.Time) ([]byte, error) {
	return s.get(ctx, "/maxmetrics/"+day.Format(dateLayout), nil)
}

func (s *HTTPDataSource) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "garminApi.get")
	span.SetAttributes(attribute.String("path", path))
	defer span.End()

	reqUrl := s.baseURL + path
	if len(query) > 0 {
		reqUrl += "?" + query.Encode()
	}
	log.Tracef("calling garmin api: %s", reqUrl)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqUrl, nil)
	if err != nil {
		return nil, err
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read garmin api response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusNoContent:
		return nil, ErrNoData
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		err := fmt.Errorf("garmin api %s: status %d", path, resp.StatusCode)
		span.RecordError(err)
		return nil, err
	}

	return respBytes, nil
}
