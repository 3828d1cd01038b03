package source

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// HTTP downloads <baseURL>/<table>.csv on every Open.
type HTTP struct {
	BaseURL    string
	HTTPClient *http.Client
	log        zerolog.Logger
}

// NewHTTP creates a source that retries failed downloads up to three times.
func NewHTTP(baseURL string, log zerolog.Logger) *HTTP {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = retryLogger{log: log}
	retryClient.HTTPClient = &http.Client{
		Timeout: 60 * time.Second,
	}
	return &HTTP{
		BaseURL:    baseURL,
		HTTPClient: retryClient.StandardClient(),
		log:        log,
	}
}

func (s *HTTP) Open(ctx context.Context, table string) (Records, error) {
	if err := checkTable(table); err != nil {
		return nil, err
	}
	uri, err := url.JoinPath(s.BaseURL, FileName(table))
	if err != nil {
		return nil, fmt.Errorf("failed to build url for %s: %w", table, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/csv")

	s.log.Debug().Str("url", uri).Msg("Downloading reference table")
	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", uri, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to download %s: %w", uri, fs.ErrNotExist)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to download %s: unexpected status %s", uri, resp.Status)
	}
	return NewCSVRecords(resp.Body), nil
}

func (s *HTTP) String() string {
	return s.BaseURL
}

// retryLogger forwards retryablehttp's leveled logging to zerolog.
type retryLogger struct {
	log zerolog.Logger
}

func (l retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Error().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Trace().Fields(keysAndValues).Msg(msg)
}

func (l retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warn().Fields(keysAndValues).Msg(msg)
}
