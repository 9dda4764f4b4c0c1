// Package tagging derives CRM segmentation tags from scoring output and raw
// message content. Like the scoring package it is pure and stateless; the
// tag registry is an immutable lookup table loaded once at process start.
package tagging

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed tags.yaml
var registryYAML []byte

// RegistryEntry describes one canonical tag: the CRM label title plus the
// metadata the label provisioning job needs.
type RegistryEntry struct {
	Key           string `yaml:"-"`
	Title         string `yaml:"title"`
	Description   string `yaml:"description"`
	Color         string `yaml:"color"`
	ShowOnSidebar bool   `yaml:"show_on_sidebar"`
}

type registryDoc struct {
	Tags map[string]RegistryEntry `yaml:"tags"`
}

// registry is the single source of truth for tag titles. It is parsed once
// at init and never mutated afterwards.
var registry = mustLoadRegistry()

func mustLoadRegistry() map[string]RegistryEntry {
	var doc registryDoc
	if err := yaml.Unmarshal(registryYAML, &doc); err != nil {
		panic(fmt.Sprintf("tagging: embedded registry is invalid: %v", err))
	}
	if len(doc.Tags) == 0 {
		panic("tagging: embedded registry is empty")
	}
	for key, entry := range doc.Tags {
		if entry.Title == "" {
			panic(fmt.Sprintf("tagging: registry entry %q has no title", key))
		}
		entry.Key = key
		doc.Tags[key] = entry
	}
	return doc.Tags
}

// Lookup returns the registry entry for a tag key.
func Lookup(key string) (RegistryEntry, bool) {
	entry, ok := registry[key]
	return entry, ok
}

// Title resolves a tag key to its CRM label title. Unknown keys resolve to
// the key itself so a registry gap degrades to a readable label instead of
// dropping the tag.
func Title(key string) string {
	if entry, ok := registry[key]; ok {
		return entry.Title
	}
	return key
}

// AllEntries returns every registry entry sorted by key, for the label
// provisioning job.
func AllEntries() []RegistryEntry {
	entries := make([]RegistryEntry, 0, len(registry))
	for _, entry := range registry {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries
}
