package extraction

import (
	"testing"

	"github.com/meetscribe/meetscribe/internal/domain/entities"
)

func findEntity(list []entities.ExtractedEntity, typ entities.EntityType, value string) bool {
	for _, e := range list {
		if e.Type == typ && e.Value == value {
			return true
		}
	}
	return false
}

func TestExtractEntities_Patterns(t *testing.T) {
	text := "Contact john.doe@example.com or call +1 555-123-4567. " +
		"Budget is $12,500.50, docs at https://example.com/specs. " +
		"Deadline is 2025-03-14, backup date 3/14/25."

	got := ExtractEntities(text)

	if !findEntity(got, entities.EntityTypeEmail, "john.doe@example.com") {
		t.Errorf("missing email entity in %v", got)
	}
	if !findEntity(got, entities.EntityTypeCurrency, "$12,500.50") {
		t.Errorf("missing currency entity in %v", got)
	}
	if !findEntity(got, entities.EntityTypeURL, "https://example.com/specs.") && !findEntity(got, entities.EntityTypeURL, "https://example.com/specs") {
		t.Errorf("missing url entity in %v", got)
	}
	if !findEntity(got, entities.EntityTypeDate, "2025-03-14") {
		t.Errorf("missing ISO date entity in %v", got)
	}
	if !findEntity(got, entities.EntityTypeDate, "3/14/25") {
		t.Errorf("missing slash date entity in %v", got)
	}

	foundPhone := false
	for _, e := range got {
		if e.Type == entities.EntityTypePhone {
			foundPhone = true
		}
	}
	if !foundPhone {
		t.Errorf("missing phone entity in %v", got)
	}
}

func TestExtractEntities_Weekdays(t *testing.T) {
	got := ExtractEntities("We ship next Friday and review on Monday.")

	foundNextFriday := findEntity(got, entities.EntityTypeDate, "next Friday")
	foundMonday := findEntity(got, entities.EntityTypeDate, "Monday")
	if !foundNextFriday || !foundMonday {
		t.Fatalf("expected weekday dates, got %v", got)
	}
}

func TestExtractEntities_NamesFiltered(t *testing.T) {
	got := ExtractEntities("This is important. John Smith said Sarah agrees. They left.")

	if !findEntity(got, entities.EntityTypeName, "John Smith") {
		t.Errorf("missing name John Smith in %v", got)
	}
	if !findEntity(got, entities.EntityTypeName, "Sarah") {
		t.Errorf("missing name Sarah in %v", got)
	}
	for _, bad := range []string{"This", "They"} {
		if findEntity(got, entities.EntityTypeName, bad) {
			t.Errorf("stop word %q reported as name", bad)
		}
	}
}

func TestExtractEntities_DedupeAndOrder(t *testing.T) {
	text := "Email a@b.com twice: a@b.com. Then visit www.example.com"
	got := ExtractEntities(text)

	emails := 0
	for _, e := range got {
		if e.Type == entities.EntityTypeEmail {
			emails++
		}
	}
	if emails != 1 {
		t.Fatalf("expected 1 deduped email, got %d in %v", emails, got)
	}

	// email appears before the URL in the text, so it must come first
	var order []entities.EntityType
	for _, e := range got {
		if e.Type == entities.EntityTypeEmail || e.Type == entities.EntityTypeURL {
			order = append(order, e.Type)
		}
	}
	if len(order) < 2 || order[0] != entities.EntityTypeEmail {
		t.Fatalf("expected first-occurrence order, got %v", order)
	}
}

func TestExtractEntities_Empty(t *testing.T) {
	got := ExtractEntities("")
	if len(got) != 0 {
		t.Fatalf("expected no entities for empty text, got %v", got)
	}
}

func TestExtractEntities_Idempotent(t *testing.T) {
	text := "John will pay $50 to jane@corp.io on Friday."
	first := ExtractEntities(text)
	second := ExtractEntities(text)
	if len(first) != len(second) {
		t.Fatalf("non-deterministic result: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("entity %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}
