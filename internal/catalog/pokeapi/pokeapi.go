package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kiliankoe/auctiondraft/internal/catalog"
)

const DefaultBaseURL = "https://pokeapi.co"

type Client struct {
	BaseURL string
	Limit   int
	http    *http.Client
}

func New(baseURL string, limit int, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if limit <= 0 {
		limit = 2000
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), Limit: limit, http: &http.Client{Timeout: timeout}}
}

func (c *Client) Fetch(ctx context.Context) (*catalog.Catalog, error) {
	url := fmt.Sprintf("%s/api/v2/pokemon?limit=%d", c.BaseURL, c.Limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("pokeapi status %d", resp.StatusCode)
	}
	var out struct {
		Results []struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode pokeapi listing: %w", err)
	}
	entries := make([]catalog.Entry, 0, len(out.Results))
	for _, r := range out.Results {
		name, u := strings.TrimSpace(r.Name), strings.TrimSpace(r.URL)
		if name == "" || u == "" {
			continue
		}
		// .../pokemon/25/
		u = strings.TrimRight(u, "/")
		id, err := strconv.Atoi(u[strings.LastIndex(u, "/")+1:])
		if err != nil {
			continue
		}
		entries = append(entries, catalog.Entry{Name: name, ID: id})
	}
	if len(entries) == 0 {
		return nil, errors.New("pokeapi returned no names")
	}
	return catalog.New(entries), nil
}
