package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"horario/internal/aggregate"
	"horario/internal/core"
)

// HTTPClient talks JSON to the remote data platform.
type HTTPClient struct {
	baseURL string
	token   string
	client  *http.Client
}

var _ Source = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the platform API at baseURL. The token,
// when set, is sent as a bearer credential.
func NewHTTPClient(baseURL, token string, timeout time.Duration) (*HTTPClient, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("platform base URL is empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse platform base URL: %w", err)
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &HTTPClient{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

func (c *HTTPClient) FetchWorkers(ctx context.Context) ([]core.Worker, error) {
	var out []core.Worker
	if err := c.getJSON(ctx, "/workers", nil, &out); err != nil {
		return nil, fmt.Errorf("fetch workers: %w", err)
	}
	return out, nil
}

func (c *HTTPClient) FetchTimeRecords(ctx context.Context, workerID string, year, month int) ([]aggregate.RawRecord, error) {
	query := url.Values{}
	query.Set("year", fmt.Sprintf("%d", year))
	query.Set("month", fmt.Sprintf("%d", month))
	var out []aggregate.RawRecord
	path := fmt.Sprintf("/workers/%s/records", url.PathEscape(workerID))
	if err := c.getJSON(ctx, path, query, &out); err != nil {
		return nil, fmt.Errorf("fetch time records: %w", err)
	}
	return out, nil
}

func (c *HTTPClient) PushDayRegistration(ctx context.Context, workerID, dateKey string, entries []core.RegistrationEntry) error {
	type wireEntry struct {
		Company     string  `json:"company"`
		StartTime   string  `json:"startTime,omitempty"`
		EndTime     string  `json:"endTime,omitempty"`
		Hours       float64 `json:"hours"`
		Description string  `json:"description,omitempty"`
	}
	body := struct {
		Entries []wireEntry `json:"entries"`
	}{}
	for _, e := range entries {
		body.Entries = append(body.Entries, wireEntry{
			Company:     e.Company,
			StartTime:   e.StartTime,
			EndTime:     e.EndTime,
			Hours:       core.EntryHours(e),
			Description: e.Description,
		})
	}
	path := fmt.Sprintf("/workers/%s/days/%s", url.PathEscape(workerID), url.PathEscape(dateKey))
	if err := c.putJSON(ctx, path, body); err != nil {
		return fmt.Errorf("push day registration: %w", err)
	}
	return nil
}

func (c *HTTPClient) FetchAssignments(ctx context.Context, startKey, endKey string) ([]core.Assignment, []Rate, error) {
	query := url.Values{}
	query.Set("start", startKey)
	query.Set("end", endKey)
	var out struct {
		Assignments []core.Assignment `json:"assignments"`
		Rates       []Rate            `json:"rates"`
	}
	if err := c.getJSON(ctx, "/assignments", query, &out); err != nil {
		return nil, nil, fmt.Errorf("fetch assignments: %w", err)
	}
	return out.Assignments, out.Rates, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, query url.Values, dest any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, dest)
}

func (c *HTTPClient) putJSON(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, nil)
}

func (c *HTTPClient) do(req *http.Request, dest any) error {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("platform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("platform returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode platform response: %w", err)
	}
	return nil
}
