package catalog

import (
	"context"
	"testing"
)

func TestNew_Dedup(t *testing.T) {
	c := New([]Entry{{Name: "Pikachu", ID: 25}, {Name: " pikachu "}, {Name: "  "}, {Name: "Eevee", ID: 133}})
	if c.Len() != 2 {
		t.Fatalf("expected 2 names, got %d", c.Len())
	}
	names := c.Names()
	if names[0] != "Pikachu" || names[1] != "Eevee" {
		t.Fatalf("expected first spelling in order, got %v", names)
	}
	names[0] = "changed"
	if c.Names()[0] != "Pikachu" {
		t.Fatal("Names should return a copy")
	}
}

func TestResolve(t *testing.T) {
	c := New([]Entry{{Name: "Mr. Mime"}})
	got, ok := c.Resolve("  MR. MIME")
	if !ok || got != "Mr. Mime" {
		t.Fatalf("expected Mr. Mime, got %q (%v)", got, ok)
	}
	if _, ok := c.Resolve("Agumon"); ok {
		t.Fatal("unknown name should not resolve")
	}
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	if c.Len() != 0 || c.Names() != nil {
		t.Fatal("nil catalog should be empty")
	}
	if _, ok := c.Resolve("Pikachu"); ok {
		t.Fatal("nil catalog should resolve nothing")
	}
	if got := c.ImageURL("Mr. Mime"); got != "https://img.pokemondb.net/sprites/home/normal/mr-mime.png" {
		t.Fatalf("unexpected fallback image %s", got)
	}
}

func TestImageURL(t *testing.T) {
	c := New([]Entry{{Name: "pikachu", ID: 25}, {Name: "Missingno"}})
	if got := c.ImageURL("Pikachu"); got != "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/25.png" {
		t.Fatalf("expected sprite by id, got %s", got)
	}
	if got := c.ImageURL("Missingno"); got != "https://img.pokemondb.net/sprites/home/normal/missingno.png" {
		t.Fatalf("expected slug fallback, got %s", got)
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Pikachu":      "pikachu",
		"Mr. Mime":     "mr-mime",
		"Nidoran♀":     "nidoran-f",
		"Nidoran♂":     "nidoran-m",
		"Farfetch'd":   "farfetchd",
		" Tapu  Koko ": "tapu-koko",
	}
	for in, want := range tests {
		if got := Slug(in); got != want {
			t.Fatalf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNoneProvider(t *testing.T) {
	c, err := None{}.Fetch(context.Background())
	if err != nil {
		t.Fatalf("none provider should not fail: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty catalog, got %d", c.Len())
	}
}
