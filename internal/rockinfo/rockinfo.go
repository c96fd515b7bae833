// Package rockinfo loads the static rock definition catalog and answers
// exact-name lookups for the card on display.
package rockinfo

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kpauljoseph/rockdeck/pkg/models"
)

type Catalog struct {
	byName map[string]models.RockInfo
	names  []string
}

// Load reads the definitions file and validates every record up front.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rock definitions %s: %w", path, err)
	}
	catalog, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid rock definitions %s: %w", path, err)
	}
	return catalog, nil
}

// Parse decodes a JSON array of definition records. Records must carry a
// non-blank unique name; anything else fails fast with the record index.
func Parse(data []byte) (*Catalog, error) {
	var defs []models.RockInfo
	if err := json.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("rock definitions must be a JSON array: %w", err)
	}

	catalog := &Catalog{byName: make(map[string]models.RockInfo, len(defs))}
	for i, def := range defs {
		if strings.TrimSpace(def.Name) == "" {
			return nil, fmt.Errorf("definition %d: missing name", i)
		}
		if _, exists := catalog.byName[def.Name]; exists {
			return nil, fmt.Errorf("definition %d: duplicate name %q", i, def.Name)
		}
		if def.Model != nil && def.Model.Src == "" {
			return nil, fmt.Errorf("definition %d (%s): model reference missing src", i, def.Name)
		}
		catalog.byName[def.Name] = def
		catalog.names = append(catalog.names, def.Name)
	}

	return catalog, nil
}

// Lookup returns the definition matching name exactly.
func (c *Catalog) Lookup(name string) (models.RockInfo, bool) {
	if c == nil {
		return models.RockInfo{}, false
	}
	def, ok := c.byName[name]
	return def, ok
}

// Names returns definition names in file order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}
