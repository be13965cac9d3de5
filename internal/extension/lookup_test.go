package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuiltin(t *testing.T) {
	l := Builtin()

	assert.Equal(t, []string{"PropertyDataId", "PropertyInt"}, l.Tables())

	v, ok := l.Lookup("PropertyInt", "ItemType")
	assert.True(t, ok)
	assert.Equal(t, "ItemType", v)

	v, ok = l.Lookup("PropertyDataId", "Icon")
	assert.True(t, ok)
	assert.Equal(t, "Texture", v)
}

func TestBuiltin_Disjoint(t *testing.T) {
	l := Builtin()

	// The two tables are independent: a PropertyDataId label is not visible
	// through PropertyInt and vice versa.
	_, ok := l.Lookup("PropertyInt", "Icon")
	assert.False(t, ok)
	_, ok = l.Lookup("PropertyDataId", "ItemType")
	assert.False(t, ok)
}

func TestLookup_Missing(t *testing.T) {
	l := Builtin()

	v, ok := l.Lookup("PropertyInt", "NoSuchLabel")
	assert.False(t, ok)
	assert.Empty(t, v)

	_, ok = l.Lookup("Gender", "Male")
	assert.False(t, ok)

	var nilLookup *Lookup
	_, ok = nilLookup.Lookup("PropertyInt", "ItemType")
	assert.False(t, ok)
	assert.Zero(t, nilLookup.Len("PropertyInt"))
	assert.Nil(t, nilLookup.Tables())
}

func TestNew_CopiesInput(t *testing.T) {
	src := map[string]map[string]string{
		"PropertyInt": {"MaxHealth": "Vital"},
	}
	l := New(src)

	src["PropertyInt"]["MaxHealth"] = "Changed"
	src["PropertyInt"]["Other"] = "Added"

	v, ok := l.Lookup("PropertyInt", "MaxHealth")
	assert.True(t, ok)
	assert.Equal(t, "Vital", v)
	assert.Equal(t, 1, l.Len("PropertyInt"))
}

func TestBuiltinWith_Overrides(t *testing.T) {
	l := BuiltinWith(map[string]map[string]string{
		"PropertyInt": {
			"MaxHealth": "Vital",
			"ItemType":  "ItemTypeOverride",
		},
	})

	v, ok := l.Lookup("PropertyInt", "MaxHealth")
	assert.True(t, ok)
	assert.Equal(t, "Vital", v)

	v, _ = l.Lookup("PropertyInt", "ItemType")
	assert.Equal(t, "ItemTypeOverride", v)

	// Untouched built-ins survive.
	v, ok = l.Lookup("PropertyInt", "CreatureType")
	assert.True(t, ok)
	assert.Equal(t, "CreatureType", v)

	// Overrides never leak into a fresh built-in lookup.
	_, ok = Builtin().Lookup("PropertyInt", "MaxHealth")
	assert.False(t, ok)
}

func TestTables_SkipsEmpty(t *testing.T) {
	l := New(map[string]map[string]string{
		"PropertyInt":   {"A": "B"},
		"PropertyFloat": {},
	})
	assert.Equal(t, []string{"PropertyInt"}, l.Tables())
}
