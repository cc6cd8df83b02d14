// Package catalog provides the article lookup used when replaying sales.
//
// Catalog files are YAML or CUE documents with a top-level "articles" list.
// Names are compared after NFC normalization.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/tillbook/internal/ledger"
	"github.com/roach88/tillbook/internal/pos"
)

// Catalog is an immutable set of articles indexed by name and barcode.
type Catalog struct {
	articles  []*pos.Article
	byName    map[string]*pos.Article
	byBarcode map[string]*pos.Article
}

// document is the on-disk shape shared by the YAML and CUE formats.
type document struct {
	Articles []pos.Article `yaml:"articles" json:"articles"`
}

// New builds a catalog. Names must be unique, free of separators and not
// reserved by the ledger; barcodes, when present, must be unique.
func New(articles []pos.Article) (*Catalog, error) {
	c := &Catalog{
		byName:    make(map[string]*pos.Article, len(articles)),
		byBarcode: make(map[string]*pos.Article),
	}

	for i := range articles {
		a := articles[i]
		a.Name = norm.NFC.String(a.Name)

		if !pos.ValidText(a.Name) {
			return nil, fmt.Errorf("article %d: invalid name %q", i, a.Name)
		}
		if ledger.IsReservedName(a.Name) {
			return nil, fmt.Errorf("article %d: name %q is reserved", i, a.Name)
		}
		if _, dup := c.byName[a.Name]; dup {
			return nil, fmt.Errorf("article %d: duplicate name %q", i, a.Name)
		}
		if a.Barcode != "" {
			if _, dup := c.byBarcode[a.Barcode]; dup {
				return nil, fmt.Errorf("article %d: duplicate barcode %q", i, a.Barcode)
			}
		}

		stored := &a
		c.articles = append(c.articles, stored)
		c.byName[a.Name] = stored
		if a.Barcode != "" {
			c.byBarcode[a.Barcode] = stored
		}
	}

	return c, nil
}

// Load reads a catalog file, choosing the format by extension
// (.yaml, .yml or .cue).
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	var doc document
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		doc, err = decodeYAML(data)
	case ".cue":
		doc, err = decodeCUE(path, data)
	default:
		return nil, fmt.Errorf("load catalog: unsupported extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}

	c, err := New(doc.Articles)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return c, nil
}

// FindArticle implements ledger.ArticleFinder.
func (c *Catalog) FindArticle(name string) (*pos.Article, bool) {
	a, ok := c.byName[norm.NFC.String(name)]
	return a, ok
}

// FindByBarcode returns the article with the given barcode.
func (c *Catalog) FindByBarcode(barcode string) (*pos.Article, bool) {
	a, ok := c.byBarcode[barcode]
	return a, ok
}

// Articles returns the articles sorted by name.
func (c *Catalog) Articles() []*pos.Article {
	out := make([]*pos.Article, len(c.articles))
	copy(out, c.articles)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Len returns the number of articles.
func (c *Catalog) Len() int {
	return len(c.articles)
}
