package intel

import "encoding/json"

// Intent is one detected conversational intent. A conversation can carry
// several at once, so analyses hold an IntentSet rather than a single
// value.
type Intent uint8

const (
	IntentCompra Intent = iota
	IntentInformacion
	IntentSoporte
	IntentReclamo
	IntentSaludo
	IntentConsultaGeneral
)

var intentLabels = map[Intent]string{
	IntentCompra:          "compra",
	IntentInformacion:     "información",
	IntentSoporte:         "soporte",
	IntentReclamo:         "reclamo",
	IntentSaludo:          "saludo",
	IntentConsultaGeneral: "consulta general",
}

func (i Intent) String() string {
	return intentLabels[i]
}

// IntentSet is a bitmask of detected intents.
type IntentSet uint16

func (s IntentSet) Has(intent Intent) bool {
	return s&(1<<intent) != 0
}

func (s *IntentSet) Add(intent Intent) {
	*s |= 1 << intent
}

func (s IntentSet) Empty() bool {
	return s == 0
}

// Labels returns the detected intents as labels in fixed priority order:
// compra, información, soporte, reclamo, saludo, consulta general.
func (s IntentSet) Labels() []string {
	order := []Intent{IntentCompra, IntentInformacion, IntentSoporte, IntentReclamo, IntentSaludo, IntentConsultaGeneral}
	var labels []string
	for _, intent := range order {
		if s.Has(intent) {
			labels = append(labels, intent.String())
		}
	}
	return labels
}

func (s IntentSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Labels())
}

func (s *IntentSet) UnmarshalJSON(data []byte) error {
	var labels []string
	if err := json.Unmarshal(data, &labels); err != nil {
		return err
	}
	var set IntentSet
	for _, label := range labels {
		for intent, name := range intentLabels {
			if name == label {
				set.Add(intent)
			}
		}
	}
	*s = set
	return nil
}
