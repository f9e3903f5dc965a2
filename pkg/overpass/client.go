// Package overpass is a minimal client for the OpenStreetMap Overpass API.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultURL is the public interpreter endpoint used when none is configured.
const DefaultURL = "https://z.overpass-api.de/api/interpreter"

// maxErrorBody bounds how much of a failed response ends up in the error message.
const maxErrorBody = 512

// Client posts Overpass QL queries and decodes JSON results.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a client for the interpreter at url. The timeout bounds the
// whole round trip, body included.
func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Interpret sends query and returns the decoded response. The query must ask for
// JSON output ([out:json]).
func (c *Client) Interpret(ctx context.Context, query string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, strings.NewReader(query))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("overpass API error: status %d: %s", resp.StatusCode, body)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if out.Elements == nil {
		return nil, fmt.Errorf("decode response: missing elements")
	}
	return &out, nil
}

// Response is the JSON envelope returned by the interpreter.
type Response struct {
	Version   float64   `json:"version"`
	Generator string    `json:"generator"`
	Remark    string    `json:"remark,omitempty"`
	Elements  []Element `json:"elements"`
}

// Element is a node, way or relation. Nodes carry Lat/Lon; ways and relations
// carry Center when the query ends with "out center".
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *LatLon           `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Position returns the element's coordinate: the node position for nodes, the
// declared center otherwise. ok is false when neither is present.
func (e Element) Position() (lat, lon float64, ok bool) {
	if e.Type == "node" {
		if e.Lat == nil || e.Lon == nil {
			return 0, 0, false
		}
		return *e.Lat, *e.Lon, true
	}
	if e.Center != nil {
		return e.Center.Lat, e.Center.Lon, true
	}
	return 0, 0, false
}
