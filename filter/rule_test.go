package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRule(t *testing.T) {
	r, err := NewRule("grossPower", Between, Number(1000))
	require.NoError(t, err)
	assert.NotEmpty(t, r.ID)

	other, err := NewRule("grossPower", Between, Number(1000))
	require.NoError(t, err)
	assert.NotEqual(t, r.ID, other.ID)

	_, err = NewRule("voltage", Equals, String("x"))
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = NewRule("city", GT, Number(1))
	assert.ErrorIs(t, err, ErrIncompatibleOperator)

	_, err = NewRule("grossPower", StartsWith, String("1"))
	assert.ErrorIs(t, err, ErrIncompatibleOperator)
}

func TestNewDefaultRule(t *testing.T) {
	r, err := NewDefaultRule("storageCapacity")
	require.NoError(t, err)
	assert.Equal(t, GTE, r.Operator)
	assert.False(t, IsActive(r))

	r, err = NewDefaultRule("operator")
	require.NoError(t, err)
	assert.Equal(t, Contains, r.Operator)

	_, err = NewDefaultRule("nope")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestFields(t *testing.T) {
	assert.Len(t, Fields, 15)
	assert.Len(t, Bundeslaender, 16)

	numeric := 0
	for _, f := range Fields {
		if f.Kind == KindNumber {
			numeric++
		}
		got, ok := LookupField(f.Key)
		require.True(t, ok)
		assert.Equal(t, f.Label, got.Label)
	}
	assert.Equal(t, 4, numeric)

	assert.Len(t, OperatorsFor(KindString), 8)
	assert.Len(t, OperatorsFor(KindNumber), 7)
	assert.True(t, Compatible(KindNumber, Between))
	assert.False(t, Compatible(KindString, Between))
}
