package intel

import (
	"encoding/json"
	"testing"
)

func TestIntentSetLabelsOrder(t *testing.T) {
	var set IntentSet
	set.Add(IntentSaludo)
	set.Add(IntentCompra)
	set.Add(IntentReclamo)

	labels := set.Labels()
	want := []string{"compra", "reclamo", "saludo"}
	if len(labels) != len(want) {
		t.Fatalf("expected %v, got %v", want, labels)
	}
	for i := range want {
		if labels[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, labels)
		}
	}
}

func TestIntentSetJSON(t *testing.T) {
	var set IntentSet
	set.Add(IntentSoporte)
	data, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded IntentSet
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Has(IntentSoporte) || decoded != set {
		t.Fatalf("round trip mismatch: %v", decoded.Labels())
	}
}
