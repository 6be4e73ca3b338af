// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package classes supplies the document class registry: the immutable
// mapping from class ID to search, acceptance, and validation configuration.
package classes

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/Courage-7/DocumentScrapper/pkg/types"
)

// Registry is a read-only class lookup, built once at startup and passed
// into the orchestrator.
type Registry struct {
	classes map[string]types.DocumentClass
}

// Get returns the class for id. Lookup is case-insensitive and treats
// spaces as underscores ("Commercial Register" finds "commercial_register").
func (r *Registry) Get(id string) (types.DocumentClass, bool) {
	c, ok := r.classes[normalizeID(id)]
	return c, ok
}

// All returns every class sorted by ID.
func (r *Registry) All() []types.DocumentClass {
	out := make([]types.DocumentClass, 0, len(r.classes))
	for _, c := range r.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ByCategory returns the classes in one category, sorted by ID.
func (r *Registry) ByCategory(category string) []types.DocumentClass {
	var out []types.DocumentClass
	for _, c := range r.All() {
		if strings.EqualFold(c.Category, category) {
			out = append(out, c)
		}
	}
	return out
}

func normalizeID(id string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(id)), " ", "_")
}

// registryFile is the YAML shape of a class registry file.
type registryFile struct {
	Classes []types.DocumentClass `yaml:"classes"`
}

// Load builds the registry: the built-in classes, overlaid with entries from
// the YAML file at path when one is given. File entries with a built-in ID
// replace the built-in.
func Load(path string) (*Registry, error) {
	reg := Builtin()
	if path == "" {
		return reg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading class registry %s: %w", path, err)
	}
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing class registry %s: %w", path, err)
	}

	for _, c := range file.Classes {
		if c.ID == "" {
			return nil, fmt.Errorf("class registry %s: entry with empty id", path)
		}
		if len(c.SearchPatterns) == 0 {
			return nil, fmt.Errorf("class registry %s: class %s has no search patterns", path, c.ID)
		}
		reg.classes[normalizeID(c.ID)] = c
	}
	return reg, nil
}
