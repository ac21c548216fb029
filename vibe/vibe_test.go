package vibe

import "testing"

func TestCanonicalOrder(t *testing.T) {
	want := []string{"Professional", "Friendly", "Persuasive", "Concise", "Empathetic"}
	if len(Canonical) != len(want) {
		t.Fatalf("Canonical has %d entries, want %d", len(Canonical), len(want))
	}
	for i, name := range want {
		if Canonical[i] != name {
			t.Errorf("Canonical[%d] = %q, want %q", i, Canonical[i], name)
		}
	}
}

func TestTemplates(t *testing.T) {
	specs := Templates()
	if len(specs) != len(Canonical) {
		t.Fatalf("Templates() returned %d specs, want %d", len(specs), len(Canonical))
	}
	for i, spec := range specs {
		if spec.Name != Canonical[i] {
			t.Errorf("spec %d name = %q, want %q", i, spec.Name, Canonical[i])
		}
		if spec.Guidance == "" {
			t.Errorf("spec %q has empty guidance", spec.Name)
		}
	}
}

func TestIndex(t *testing.T) {
	if got := Index("Professional"); got != 0 {
		t.Errorf("Index(Professional) = %d, want 0", got)
	}
	if got := Index("Empathetic"); got != 4 {
		t.Errorf("Index(Empathetic) = %d, want 4", got)
	}
	if got := Index("Sarcastic"); got != -1 {
		t.Errorf("Index(Sarcastic) = %d, want -1", got)
	}
	if got := Index("professional"); got != -1 {
		t.Errorf("Index is case-sensitive; Index(professional) = %d, want -1", got)
	}
}

func TestIsCanonical(t *testing.T) {
	for _, name := range Canonical {
		if !IsCanonical(name) {
			t.Errorf("IsCanonical(%q) = false", name)
		}
	}
	if IsCanonical("Bold") {
		t.Error("IsCanonical(Bold) = true")
	}
}
