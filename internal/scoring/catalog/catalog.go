// Package catalog carries the default violation catalog used to seed an
// empty violation_catalog table.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/evidly-backend/internal/scoring"
)

// PathEnv points at a YAML file that replaces the embedded catalog.
const PathEnv = "VIOLATION_CATALOG_YAML"

//go:embed default_catalog.yaml
var defaultCatalogFS embed.FS

type yamlCatalog struct {
	Items []scoring.CatalogItem `yaml:"items"`
}

var (
	defaultOnce  sync.Once
	defaultItems []scoring.CatalogItem
	defaultErr   error
)

// Default returns the configured seed catalog. The result is shared; callers
// must not modify it.
func Default() ([]scoring.CatalogItem, error) {
	defaultOnce.Do(func() {
		data, err := readCatalog()
		if err != nil {
			defaultErr = err
			return
		}
		defaultItems, defaultErr = Parse(data)
	})
	return defaultItems, defaultErr
}

func readCatalog() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(PathEnv)); path != "" {
		return os.ReadFile(path)
	}
	return defaultCatalogFS.ReadFile("default_catalog.yaml")
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) ([]scoring.CatalogItem, error) {
	var doc yamlCatalog
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(doc.Items) == 0 {
		return nil, errors.New("catalog has no items")
	}
	seen := make(map[string]bool, len(doc.Items))
	out := make([]scoring.CatalogItem, 0, len(doc.Items))
	for i, it := range doc.Items {
		it.Code = strings.TrimSpace(it.Code)
		if it.Code == "" {
			return nil, fmt.Errorf("item %d: missing code", i)
		}
		if seen[it.Code] {
			return nil, fmt.Errorf("item %s: duplicate code", it.Code)
		}
		seen[it.Code] = true
		p, ok := scoring.ParsePillar(string(it.Pillar))
		if !ok {
			return nil, fmt.Errorf("item %s: unknown pillar %q", it.Code, it.Pillar)
		}
		it.Pillar = p
		it.Severity = scoring.ParseSeverity(string(it.Severity))
		if it.Points < 0 {
			return nil, fmt.Errorf("item %s: negative points", it.Code)
		}
		out = append(out, it)
	}
	return out, nil
}
