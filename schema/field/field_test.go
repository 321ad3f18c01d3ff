package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input    string
		expected Kind
		wantErr  bool
	}{
		{"string", KindString, false},
		{"text", KindText, false},
		{"number", KindNumber, false},
		{"decimal", KindDecimal, false},
		{"boolean", KindBoolean, false},
		{"date", KindDate, false},
		{"json", KindJSON, false},
		{"array", KindArray, false},
		{"repeater", KindRepeater, false},
		{"reference", KindReference, false},
		{"", KindInvalid, true},
		{"varchar", KindInvalid, true},
		{"String", KindInvalid, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			k, err := ParseKind(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, k)
			assert.Equal(t, tt.input, k.String())
			assert.True(t, k.Valid())
		})
	}
}

func TestKindAllowsRefTarget(t *testing.T) {
	assert.True(t, KindString.AllowsRefTarget())
	assert.True(t, KindArray.AllowsRefTarget())
	assert.True(t, KindReference.AllowsRefTarget())
	assert.False(t, KindBoolean.AllowsRefTarget())
	assert.False(t, KindDate.AllowsRefTarget())
	assert.False(t, KindRepeater.AllowsRefTarget())
}

func TestSpecRequiredNullable(t *testing.T) {
	t.Run("user field follows meta", func(t *testing.T) {
		s := &Spec{Name: "title", Kind: KindString, Meta: Meta{Required: true}}
		assert.True(t, s.Required())
		assert.False(t, s.Nullable())

		s = &Spec{Name: "notes", Kind: KindText}
		assert.False(t, s.Required())
		assert.True(t, s.Nullable())
	})

	t.Run("reserved fields are always required", func(t *testing.T) {
		s := &Spec{Name: "id", Kind: KindString, Reserved: true}
		assert.True(t, s.Required())
		assert.False(t, s.Nullable())
	})

	// The table emitter and the validation emitter both derive from
	// these two accessors, so they agree by construction.
	t.Run("required and nullable are complements", func(t *testing.T) {
		for _, s := range []*Spec{
			{Name: "a", Kind: KindString},
			{Name: "b", Kind: KindNumber, Meta: Meta{Required: true}},
			{Name: "c", Kind: KindDate, Reserved: true},
		} {
			assert.Equal(t, s.Required(), !s.Nullable(), s.Name)
		}
	})
}

func TestSpecLabel(t *testing.T) {
	s := &Spec{Name: "due_date", Kind: KindDate}
	assert.Equal(t, "due_date", s.Label())
	s.Meta.Label = "Due date"
	assert.Equal(t, "Due date", s.Label())
}

func TestSpecDependent(t *testing.T) {
	s := &Spec{Name: "city", Kind: KindString}
	assert.False(t, s.Dependent())
	s.Meta.DependsOn = "country"
	assert.True(t, s.Dependent())
}
