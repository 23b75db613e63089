package alquilatucancha

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/court-availability-service/internal/apperr"
	"github.com/preston-bernstein/court-availability-service/internal/domain/venues"
	"github.com/preston-bernstein/court-availability-service/internal/logging"
	"github.com/preston-bernstein/court-availability-service/internal/providers"
	"github.com/preston-bernstein/court-availability-service/internal/timeutil"
)

// Config controls how the client reaches the venue directory API.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client reads clubs, courts and free slots from the venue directory API.
type Client struct {
	baseURL    string
	httpClient httpDoer
	logger     *slog.Logger
}

var _ providers.VenueDirectory = (*Client)(nil)

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		logger:     cfg.Logger,
	}
}

// ListClubs returns the clubs registered for a place.
func (c *Client) ListClubs(ctx context.Context, placeID string) ([]venues.Club, error) {
	placeID = strings.TrimSpace(placeID)
	if err := validateParams(clubsParams{PlaceID: placeID}); err != nil {
		return nil, err
	}
	var clubs []venues.Club
	err := c.get(ctx, "/clubs", url.Values{"placeId": {placeID}}, &clubs)
	return clubs, err
}

// ListCourts returns the courts of a club.
func (c *Client) ListCourts(ctx context.Context, clubID int) ([]venues.Court, error) {
	if err := validateParams(courtsParams{ClubID: clubID}); err != nil {
		return nil, err
	}
	var courts []venues.Court
	err := c.get(ctx, fmt.Sprintf("/clubs/%d/courts", clubID), nil, &courts)
	return courts, err
}

// ListAvailableSlots returns the free slots of a court on the calendar date of date.
func (c *Client) ListAvailableSlots(ctx context.Context, clubID, courtID int, date time.Time) ([]venues.Slot, error) {
	if err := validateParams(slotsParams{ClubID: clubID, CourtID: courtID, Date: date}); err != nil {
		return nil, err
	}
	var slots []venues.Slot
	path := fmt.Sprintf("/clubs/%d/courts/%d/slots", clubID, courtID)
	err := c.get(ctx, path, url.Values{"date": {timeutil.FormatDate(date)}}, &slots)
	return slots, err
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return c.fail(ctx, apperr.Unavailable(msgServiceUnavailable, err), err.Error())
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(ctx, apperr.Unavailable(msgServiceUnavailable, err), err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.statusError(ctx, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return c.fail(ctx, apperr.Unavailable(msgServiceUnavailable, err), "decode response: "+err.Error())
	}
	return nil
}

// statusError maps a non-2xx response onto the error taxonomy.
func (c *Client) statusError(ctx context.Context, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	message := upstreamMessage(resp.StatusCode, body)

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return c.fail(ctx, apperr.InvalidArgument(message), message)
	case http.StatusNotFound:
		return c.fail(ctx, apperr.InvalidArgument(msgResourceNotFound), message)
	case http.StatusInternalServerError:
		return c.fail(ctx, apperr.Unavailable(msgInternalError, nil), message)
	case http.StatusTooManyRequests:
		rl := &providers.RateLimitError{
			Provider:   Name,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    message,
		}
		return c.fail(ctx, apperr.Unavailable(msgUnexpected, rl), message)
	default:
		return c.fail(ctx, apperr.Unavailable(msgUnexpected, nil), message)
	}
}

// fail logs at Error unless the caller already gave up on the request.
func (c *Client) fail(ctx context.Context, err error, detail string) error {
	logger := logging.FromContext(ctx, c.logger)
	if logger == nil {
		return err
	}
	level := slog.LevelError
	if providers.Abandoned(ctx, err) {
		level = slog.LevelDebug
	}
	logger.Log(ctx, level, "API Error: "+detail,
		slog.String(logging.FieldProvider, Name),
		slog.String("kind", apperr.KindOf(err).String()),
	)
	return err
}

func upstreamMessage(status int, body []byte) string {
	var payload errorResponse
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil && strings.TrimSpace(payload.Message) != "" {
		return payload.Message
	}
	if status == http.StatusTooManyRequests {
		return msgRateLimited
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("Request failed with status code %d", status)
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(raw string) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
