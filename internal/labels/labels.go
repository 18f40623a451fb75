// Package labels resolves human readable question labels.
package labels

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/octobees/sentiment-dashboard/internal/entity"
)

// DefaultLocale is used when the caller does not ask for one.
const DefaultLocale = "en"

var defaultFallbacks = map[string]string{
	"Strategian selkeys":              "Credibility of the strategy",
	"Johdon luotettavuus":             "Reliability of management",
	"Lähivuosien tuloskasvunäkymät":   "Short-term profit growth",
	"Kilpailuetujen vahvuus":          "Competitive advantages",
	"Pitkän aikavälin houkuttelevuus": "Long-term attractiveness",
}

// File is the on-disk layout of a label catalogue.
//
//	fallbacks:
//	  "Johdon luotettavuus": "Reliability of management"
type File struct {
	Fallbacks map[string]string `yaml:"fallbacks"`
}

// Catalog maps untranslated short texts to display labels.
type Catalog struct {
	fallbacks map[string]string
}

// NewCatalog returns a catalogue with the built-in fallbacks plus extra.
func NewCatalog(extra map[string]string) *Catalog {
	merged := make(map[string]string, len(defaultFallbacks)+len(extra))
	for k, v := range defaultFallbacks {
		merged[k] = v
	}
	for k, v := range extra {
		k = strings.TrimSpace(k)
		if k == "" || strings.TrimSpace(v) == "" {
			continue
		}
		merged[k] = v
	}
	return &Catalog{fallbacks: merged}
}

// Load reads a YAML catalogue from path. An empty path or a missing file
// yields the built-in catalogue.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return NewCatalog(nil), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewCatalog(nil), nil
		}
		return nil, fmt.Errorf("read label catalogue: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse label catalogue %s: %w", path, err)
	}
	return NewCatalog(file.Fallbacks), nil
}

// Label picks the locale's translated short text, then the catalogue
// fallback, then the original short text.
func (c *Catalog) Label(q entity.Question, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}
	if t, ok := q.Translation(locale); ok && t.ShortText != nil && *t.ShortText != "" {
		return *t.ShortText
	}
	if c != nil {
		if label, ok := c.fallbacks[q.ShortText]; ok {
			return label
		}
	}
	return q.ShortText
}
