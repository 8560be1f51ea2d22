package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to report IsEmpty")
	}
	if ID("draw-123").IsEmpty() {
		t.Error("Expected non-empty ID to not report IsEmpty")
	}
}

// TestParseProjectID tests project ID parsing rules
func TestParseProjectID(t *testing.T) {
	if _, err := ParseProjectID("  "); err == nil {
		t.Error("Expected error for blank project ID")
	}
	id, err := ParseProjectID("proj-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id.String() != "proj-1" {
		t.Errorf("Expected 'proj-1', got '%s'", id)
	}
}

// TestParseImportID tests import ID parsing rules
func TestParseImportID(t *testing.T) {
	if _, err := ParseImportID(""); err == nil {
		t.Error("Expected error for blank import ID")
	}
	id, err := ParseImportID("imp-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if id.String() != "imp-1" {
		t.Errorf("Expected 'imp-1', got '%s'", id)
	}
}
