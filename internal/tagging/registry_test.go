package tagging

import "testing"

func TestRegistryLoads(t *testing.T) {
	entries := AllEntries()
	if len(entries) == 0 {
		t.Fatal("registry is empty")
	}

	seen := map[string]bool{}
	for _, entry := range entries {
		if entry.Key == "" || entry.Title == "" {
			t.Errorf("entry %+v has an empty key or title", entry)
		}
		if seen[entry.Key] {
			t.Errorf("duplicate registry key %q", entry.Key)
		}
		seen[entry.Key] = true
	}
}

func TestLookup(t *testing.T) {
	entry, ok := Lookup("hot_lead")
	if !ok {
		t.Fatal("hot_lead missing from registry")
	}
	if entry.Title != "hot-lead" {
		t.Errorf("Title = %q, want %q", entry.Title, "hot-lead")
	}
	if entry.Color == "" {
		t.Error("hot_lead entry has no color")
	}

	if _, ok := Lookup("no_such_tag"); ok {
		t.Error("Lookup of unknown key must report absence")
	}
}

func TestTitleFallsBackToKey(t *testing.T) {
	if got := Title("whatsapp_ai"); got != "whatsapp-ai" {
		t.Errorf("Title(whatsapp_ai) = %q", got)
	}
	if got := Title("escalated:custom"); got != "escalated:custom" {
		t.Errorf("Title of unknown key = %q, want the key itself", got)
	}
}
