// Package playlist fetches the complete ordered contents of a YouTube
// playlist through the Data API v3, following page cursors until the
// listing is exhausted.
package playlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gleaner/internal/records"
)

const (
	videoKind   = "youtube#video"
	maxPageSize = 50
	watchURL    = "https://www.youtube.com/watch?v="
)

// Fetcher defines the playlist listing operation the pipeline needs.
type Fetcher interface {
	FetchAll(ctx context.Context, playlistID string) ([]records.RawItem, error)
}

// Client provides access to the playlist listing API.
type Client struct {
	apiKey     string
	baseURL    string
	pageSize   int
	httpClient *http.Client
}

var _ Fetcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithPageSize overrides the per-page item count (clamped to the API
// maximum of 50).
func WithPageSize(size int) Option {
	return func(c *Client) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// New creates a playlist client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("youtube api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("youtube base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		pageSize:   maxPageSize,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.pageSize > maxPageSize {
		client.pageSize = maxPageSize
	}
	return client, nil
}

type listResponse struct {
	Items         []listItem `json:"items"`
	NextPageToken string     `json:"nextPageToken"`
	PageInfo      struct {
		TotalResults int `json:"totalResults"`
	} `json:"pageInfo"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type listItem struct {
	Snippet struct {
		Title                  string `json:"title"`
		Description            string `json:"description"`
		ChannelTitle           string `json:"channelTitle"`
		VideoOwnerChannelTitle string `json:"videoOwnerChannelTitle"`
		PublishedAt            string `json:"publishedAt"`
		ResourceID             struct {
			Kind    string `json:"kind"`
			VideoID string `json:"videoId"`
		} `json:"resourceId"`
		Thumbnails struct {
			Medium struct {
				URL string `json:"url"`
			} `json:"medium"`
		} `json:"thumbnails"`
	} `json:"snippet"`
}

// FetchAll retrieves every playable item of the playlist in listing
// order. Non-video entries (deleted or private placeholders) are
// skipped. Any request failure aborts the whole fetch.
func (c *Client) FetchAll(ctx context.Context, playlistID string) ([]records.RawItem, error) {
	playlistID = strings.TrimSpace(playlistID)
	if playlistID == "" {
		return nil, errors.New("playlist id must not be empty")
	}

	var items []records.RawItem
	pageToken := ""
	for {
		page, err := c.fetchPage(ctx, playlistID, pageToken)
		if err != nil {
			return nil, err
		}
		for _, entry := range page.Items {
			if entry.Snippet.ResourceID.Kind != videoKind {
				continue
			}
			items = append(items, rawItemFromEntry(entry))
		}
		if page.NextPageToken == "" {
			return items, nil
		}
		pageToken = page.NextPageToken
	}
}

func (c *Client) fetchPage(ctx context.Context, playlistID, pageToken string) (*listResponse, error) {
	endpoint, err := url.Parse(c.baseURL + "/playlistItems")
	if err != nil {
		return nil, fmt.Errorf("parse playlist url: %w", err)
	}
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", strconv.Itoa(c.pageSize))
	params.Set("key", c.apiKey)
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("playlist listing returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode playlist response: %w", err)
	}
	if payload.Error != nil {
		return nil, fmt.Errorf("playlist listing error %d: %s", payload.Error.Code, payload.Error.Message)
	}
	return &payload, nil
}

func rawItemFromEntry(entry listItem) records.RawItem {
	snippet := entry.Snippet
	channel := strings.TrimSpace(snippet.VideoOwnerChannelTitle)
	if channel == "" {
		channel = strings.TrimSpace(snippet.ChannelTitle)
	}
	return records.RawItem{
		VideoID:      snippet.ResourceID.VideoID,
		Title:        snippet.Title,
		Description:  snippet.Description,
		ChannelTitle: channel,
		PublishedAt:  snippet.PublishedAt,
		URL:          watchURL + snippet.ResourceID.VideoID,
		ThumbnailURL: snippet.Thumbnails.Medium.URL,
	}
}
