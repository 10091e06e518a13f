package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/pace-bias/internal/models"
)

// maxDayDocumentBytes caps how much of a response body is read. Day card
// documents are a few hundred kilobytes at most.
const maxDayDocumentBytes = 8 << 20

// HTTPDaySource fetches day card documents from the publisher over HTTP.
// Documents are served as <base>/<yyyy-mm-dd>.json.
type HTTPDaySource struct {
	client  *RateLimitedHTTPClient
	baseURL string
	token   string
	logger  *logrus.Logger
}

// NewHTTPDaySource creates a day source backed by the card publisher.
func NewHTTPDaySource(client *RateLimitedHTTPClient, baseURL, token string, logger *logrus.Logger) *HTTPDaySource {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &HTTPDaySource{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		logger:  logger,
	}
}

// Name returns the name of the data source
func (s *HTTPDaySource) Name() string { return "http" }

// FetchDay retrieves the card document for one calendar day.
func (s *HTTPDaySource) FetchDay(ctx context.Context, date models.YMD) (*models.RaceDay, error) {
	url := fmt.Sprintf("%s/%s.json", s.baseURL, date.ISO())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewSourceError(s.Name(), ErrCodeInvalidData, "failed to build request", err)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, NewSourceError(s.Name(), ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewSourceError(s.Name(), ErrCodeNotFound,
			fmt.Sprintf("no card document for %s", date.ISO()), models.ErrNotFound)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewSourceError(s.Name(), ErrCodeAuthenticationFailed,
			fmt.Sprintf("publisher rejected credentials (status %d)", resp.StatusCode), nil)
	case resp.StatusCode >= 500:
		return nil, NewSourceError(s.Name(), ErrCodeServerError,
			fmt.Sprintf("publisher returned status %d", resp.StatusCode), nil)
	default:
		return nil, NewSourceError(s.Name(), ErrCodeInvalidData,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDayDocumentBytes))
	if err != nil {
		return nil, NewSourceError(s.Name(), ErrCodeNetworkError, "failed to read response body", err)
	}

	day, err := decodeDay(data)
	if err != nil {
		return nil, NewSourceError(s.Name(), ErrCodeInvalidData, "failed to decode card document", err)
	}

	s.logger.WithFields(logrus.Fields{
		"date":     date.ISO(),
		"meetings": len(day.Meetings),
	}).Debug("fetched day card document")

	return day, nil
}
