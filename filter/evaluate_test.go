package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestEvaluate_String(t *testing.T) {
	rec := FieldMap{"status": String("In Betrieb"), "city": String("")}

	tests := []struct {
		name string
		rule Rule
		want bool
	}{
		{"contains case-insensitive", Rule{Field: "status", Operator: Contains, Value: String("betrieb")}, true},
		{"not contains", Rule{Field: "status", Operator: NotContains, Value: String("planung")}, true},
		{"equals", Rule{Field: "status", Operator: Equals, Value: String("IN BETRIEB")}, true},
		{"not equals same value", Rule{Field: "status", Operator: NotEquals, Value: String("in betrieb")}, false},
		{"starts with", Rule{Field: "status", Operator: StartsWith, Value: String("in ")}, true},
		{"ends with", Rule{Field: "status", Operator: EndsWith, Value: String("rieb")}, true},
		{"is empty on empty string", Rule{Field: "city", Operator: IsEmpty}, true},
		{"is not empty on empty string", Rule{Field: "city", Operator: IsNotEmpty}, false},
		{"is not empty", Rule{Field: "status", Operator: IsNotEmpty}, true},
		{"numeric operand on string field", Rule{Field: "status", Operator: Contains, Value: Number(1)}, false},
		{"unknown operator fails open", Rule{Field: "status", Operator: "matches", Value: String("zzz")}, true},
		{"number operator on string field fails open", Rule{Field: "status", Operator: GT, Value: Number(5)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(rec, tt.rule))
		})
	}
}

func TestEvaluate_Number(t *testing.T) {
	rec := FieldMap{"grossPower": Number(5000)}

	tests := []struct {
		name string
		rule Rule
		want bool
	}{
		{"between inclusive", Rule{Field: "grossPower", Operator: Between, Value: Number(1000), Value2: f64(10000)}, true},
		{"between lower edge", Rule{Field: "grossPower", Operator: Between, Value: Number(5000), Value2: f64(5000)}, true},
		{"between outside", Rule{Field: "grossPower", Operator: Between, Value: Number(6000), Value2: f64(10000)}, false},
		{"between without upper bound", Rule{Field: "grossPower", Operator: Between, Value: Number(1000)}, false},
		{"gt", Rule{Field: "grossPower", Operator: GT, Value: Number(4999)}, true},
		{"gte", Rule{Field: "grossPower", Operator: GTE, Value: Number(5000)}, true},
		{"lt", Rule{Field: "grossPower", Operator: LT, Value: Number(5000)}, false},
		{"lte", Rule{Field: "grossPower", Operator: LTE, Value: Number(5000)}, true},
		{"equals", Rule{Field: "grossPower", Operator: Equals, Value: Number(5000)}, true},
		{"numeric string operand", Rule{Field: "grossPower", Operator: GTE, Value: String(" 1000 ")}, true},
		{"non-numeric operand equals", Rule{Field: "grossPower", Operator: Equals, Value: String("abc")}, false},
		{"non-numeric operand not equals", Rule{Field: "grossPower", Operator: NotEquals, Value: String("abc")}, true},
		{"non-numeric operand gte", Rule{Field: "grossPower", Operator: GTE, Value: String("abc")}, false},
		{"string operator on number field fails open", Rule{Field: "grossPower", Operator: Contains, Value: String("9")}, true},
		{"is empty on number", Rule{Field: "grossPower", Operator: IsEmpty}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(rec, tt.rule))
		})
	}
}

func TestEvaluate_AbsentField(t *testing.T) {
	rec := FieldMap{"moduleCount": {}}

	for _, op := range []Operator{Contains, NotContains, Equals, NotEquals, IsNotEmpty, GT, Between, "bogus"} {
		assert.False(t, Evaluate(rec, Rule{Field: "moduleCount", Operator: op, Value: Number(1)}), op)
		assert.False(t, Evaluate(rec, Rule{Field: "storageTechnology", Operator: op, Value: String("x")}), op)
	}
	assert.True(t, Evaluate(rec, Rule{Field: "moduleCount", Operator: IsEmpty}))
	assert.True(t, Evaluate(rec, Rule{Field: "storageTechnology", Operator: IsEmpty}))
}

func TestIsActive(t *testing.T) {
	assert.True(t, IsActive(Rule{Field: "city", Operator: IsEmpty}))
	assert.True(t, IsActive(Rule{Field: "city", Operator: IsNotEmpty, Value: String("")}))
	assert.False(t, IsActive(Rule{Field: "city", Operator: Contains}))
	assert.False(t, IsActive(Rule{Field: "city", Operator: Contains, Value: String("")}))
	assert.True(t, IsActive(Rule{Field: "city", Operator: Contains, Value: String(" ")}))
	assert.True(t, IsActive(Rule{Field: "grossPower", Operator: GTE, Value: Number(0)}))
}

func TestMatch(t *testing.T) {
	rec := FieldMap{
		"status":     String("In Betrieb"),
		"grossPower": Number(5000),
		"bundesland": String("Bayern"),
	}
	a := Rule{Field: "status", Operator: Equals, Value: String("in betrieb")}
	b := Rule{Field: "grossPower", Operator: GT, Value: Number(10000)}
	inactive := Rule{Field: "bundesland", Operator: Equals, Value: String("")}

	assert.True(t, Match(rec, nil))
	assert.True(t, Match(rec, []Rule{a}))
	assert.True(t, Match(rec, []Rule{a, inactive}))
	assert.False(t, Match(rec, []Rule{a, b}))
	assert.Equal(t, Match(rec, []Rule{a, b}), Match(rec, []Rule{b, a}))
}

func TestApply(t *testing.T) {
	records := []FieldMap{
		{"name": String("Park A"), "grossPower": Number(500)},
		{"name": String("Park B"), "grossPower": Number(20000)},
		{"name": String("Speicher C"), "grossPower": Number(15000)},
	}

	got := Apply(records, []Rule{{Field: "grossPower", Operator: GTE, Value: Number(10000)}})
	require.Len(t, got, 2)
	assert.Equal(t, String("Park B"), got[0]["name"])
	assert.Equal(t, String("Speicher C"), got[1]["name"])

	all := Apply(records, []Rule{{Field: "name", Operator: Contains, Value: String("")}})
	assert.Len(t, all, 3)
}

func TestValue_JSON(t *testing.T) {
	var r Rule
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","field":"grossPower","operator":"between","value":"1000","value2":10000}`), &r))
	assert.True(t, r.Value.IsString())
	assert.Equal(t, 1000.0, r.Value.Float())
	require.NotNil(t, r.Value2)
	assert.Equal(t, 10000.0, *r.Value2)

	require.NoError(t, json.Unmarshal([]byte(`{"field":"grossPower","operator":"gt","value":12.5}`), &r))
	assert.True(t, r.Value.IsNumber())

	require.NoError(t, json.Unmarshal([]byte(`{"field":"city","operator":"is_empty","value":null}`), &r))
	assert.False(t, r.Value.IsSet())

	assert.Error(t, json.Unmarshal([]byte(`{"value":true}`), &r))

	out, err := json.Marshal(Rule{ID: "x", Field: "city", Operator: Equals, Value: String("Köln")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"x","field":"city","operator":"equals","value":"Köln"}`, string(out))
}
