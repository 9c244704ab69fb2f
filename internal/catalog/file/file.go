package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/kiliankoe/auctiondraft/internal/catalog"
)

// Client reads one item name per line. Blank lines and lines starting with
// '#' are skipped.
type Client struct {
	Path string
}

func New(path string) *Client {
	return &Client{Path: path}
}

func (c *Client) Fetch(ctx context.Context) (*catalog.Catalog, error) {
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("open catalog file: %w", err)
	}
	defer f.Close()

	var entries []catalog.Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		entries = append(entries, catalog.Entry{Name: line})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return catalog.New(entries), nil
}
