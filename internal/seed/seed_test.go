package seed

import "testing"

func TestSeedQuestionsAreValid(t *testing.T) {
	known := map[string]bool{}
	for _, c := range Categories() {
		if c.ID == "" || c.Name == "" || c.Color == "" {
			t.Fatalf("incomplete category: %+v", c)
		}
		known[c.ID] = true
	}
	if len(known) != 8 {
		t.Fatalf("expected 8 distinct categories, got %d", len(known))
	}

	for categoryID, questions := range Questions() {
		if !known[categoryID] {
			t.Fatalf("questions for unknown category %q", categoryID)
		}
		for _, q := range questions {
			if !q.Valid() {
				t.Fatalf("invalid seed question %s", q.ID)
			}
			if q.CategoryID != categoryID {
				t.Fatalf("question %s filed under %s but tagged %s", q.ID, categoryID, q.CategoryID)
			}
		}
	}
}
