// Package catalog holds the list of nominable item names and the cosmetic
// image lookup for them.
package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	spriteURL = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/%d.png"
	slugURL   = "https://img.pokemondb.net/sprites/home/normal/%s.png"
)

type Entry struct {
	Name string
	ID   int // 0 when unknown
}

// Catalog is immutable once built.
type Catalog struct {
	names []string
	byKey map[string]Entry
}

// New deduplicates entries case-insensitively, keeping the first spelling.
// Entries with blank names are dropped.
func New(entries []Entry) *Catalog {
	c := &Catalog{byKey: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			continue
		}
		k := key(e.Name)
		if _, dup := c.byKey[k]; dup {
			continue
		}
		c.byKey[k] = e
		c.names = append(c.names, e.Name)
	}
	return c
}

func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// Names returns a copy of the names in catalog order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Resolve maps name to the catalog's own spelling.
func (c *Catalog) Resolve(name string) (string, bool) {
	if c == nil {
		return "", false
	}
	e, ok := c.byKey[key(name)]
	return e.Name, ok
}

// ImageURL returns a display image for name: the sprite for its numeric id
// when known, otherwise a slug-based guess.
func (c *Catalog) ImageURL(name string) string {
	if c != nil {
		if e, ok := c.byKey[key(name)]; ok && e.ID > 0 {
			return fmt.Sprintf(spriteURL, e.ID)
		}
	}
	return fmt.Sprintf(slugURL, Slug(name))
}

var (
	punct  = regexp.MustCompile(`[.']`)
	spaces = regexp.MustCompile(`\s+`)
)

func Slug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.NewReplacer("♀", "-f", "♂", "-m").Replace(s)
	s = punct.ReplaceAllString(s, "")
	return spaces.ReplaceAllString(s, "-")
}
