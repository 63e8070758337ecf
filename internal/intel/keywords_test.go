package intel

import "testing"

func TestCountKeywordsBuying(t *testing.T) {
	counts := CountKeywords("Quiero comprar y necesito un presupuesto")
	if counts[GroupBuying] < 2 {
		t.Fatalf("expected at least 2 buying hits, got %d", counts[GroupBuying])
	}
	if counts.Has(GroupComplaint) {
		t.Fatalf("unexpected complaint hit")
	}
}

func TestCountKeywordsSubstringContainment(t *testing.T) {
	// "informaciones" contains "informacion"; containment matching is
	// intentional.
	counts := CountKeywords("necesito informaciones del producto")
	if !counts.Has(GroupInformation) {
		t.Fatalf("expected information hit by containment")
	}
}

func TestCountKeywordsEmpty(t *testing.T) {
	counts := CountKeywords("")
	for group, count := range counts {
		if count != 0 {
			t.Fatalf("group %s: expected 0, got %d", group, count)
		}
	}
}

func TestCountKeywordsCaseInsensitive(t *testing.T) {
	if !CountKeywords("URGENTE por favor").Has(GroupUrgent) {
		t.Fatalf("expected urgent hit on upper-case input")
	}
}

func TestExtractKeywordsOrderAndDedupe(t *testing.T) {
	got := ExtractKeywords("precio precio urgente", 10)
	if len(got) != 2 {
		t.Fatalf("expected 2 keywords, got %v", got)
	}
	if got[0] != "precio" || got[1] != "urgente" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestExtractKeywordsCap(t *testing.T) {
	got := ExtractKeywords("precio presupuesto urgente soporte factura error compra", 3)
	if len(got) != 3 {
		t.Fatalf("expected cap at 3, got %v", got)
	}
}

func TestExtractKeywordsShortWordsSkipped(t *testing.T) {
	// "pago" is 4 runes and matches; words of 3 or fewer are dropped.
	got := ExtractKeywords("el un pago ya", 10)
	if len(got) != 1 || got[0] != "pago" {
		t.Fatalf("expected only pago, got %v", got)
	}
}
