package filter

import "fmt"

// Kind is the semantic type of a field.
type Kind int

const (
	KindString Kind = iota
	KindNumber
)

func (k Kind) String() string {
	if k == KindNumber {
		return "number"
	}
	return "string"
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "string":
		*k = KindString
	case "number":
		*k = KindNumber
	default:
		return fmt.Errorf("filter: unknown field kind %q", b)
	}
	return nil
}

// FieldSpec describes a filterable asset field.
type FieldSpec struct {
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	Kind    Kind     `json:"type"`
	Options []string `json:"options,omitempty"`
}

// Status values of the asset register.
var StatusOptions = []string{
	"In Betrieb",
	"In Planung",
	"Vorübergehend stillgelegt",
	"Endgültig stillgelegt",
}

// Bundeslaender lists the 16 German states.
var Bundeslaender = []string{
	"Baden-Württemberg", "Bayern", "Berlin", "Brandenburg", "Bremen",
	"Hamburg", "Hessen", "Mecklenburg-Vorpommern", "Niedersachsen",
	"Nordrhein-Westfalen", "Rheinland-Pfalz", "Saarland", "Sachsen",
	"Sachsen-Anhalt", "Schleswig-Holstein", "Thüringen",
}

// Fields is the filterable schema of asset records, in display order.
var Fields = []FieldSpec{
	{Key: "id", Label: "MaStR-Nr", Kind: KindString},
	{Key: "name", Label: "Name", Kind: KindString},
	{Key: "type", Label: "Typ", Kind: KindString, Options: []string{"solar", "bess"}},
	{Key: "status", Label: "Status", Kind: KindString, Options: StatusOptions},
	{Key: "grossPower", Label: "Bruttoleistung (kW)", Kind: KindNumber},
	{Key: "netPower", Label: "Nettoleistung (kW)", Kind: KindNumber},
	{Key: "bundesland", Label: "Bundesland", Kind: KindString, Options: Bundeslaender},
	{Key: "city", Label: "Stadt", Kind: KindString},
	{Key: "postalCode", Label: "PLZ", Kind: KindString},
	{Key: "operator", Label: "Betreiber", Kind: KindString},
	{Key: "commissioningDate", Label: "Inbetriebnahme", Kind: KindString},
	{Key: "storageTechnology", Label: "Speichertechnologie", Kind: KindString, Options: []string{"Batterie", "Pumpspeicher"}},
	{Key: "storageCapacity", Label: "Speicherkapazität (kWh)", Kind: KindNumber},
	{Key: "solarType", Label: "Anlagenart", Kind: KindString, Options: []string{"Freiflächensolaranlage", "Gebäudesolaranlage", "Sonstige Solaranlage"}},
	{Key: "moduleCount", Label: "Anzahl Module", Kind: KindNumber},
}

var fieldIndex = func() map[string]FieldSpec {
	m := make(map[string]FieldSpec, len(Fields))
	for _, f := range Fields {
		m[f.Key] = f
	}
	return m
}()

// LookupField returns the spec of a field key.
func LookupField(key string) (FieldSpec, bool) {
	f, ok := fieldIndex[key]
	return f, ok
}
