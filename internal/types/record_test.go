package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRawRecord_WithExtension(t *testing.T) {
	raw := RawRecord{Value: 12, Label: "MaxHealth"}

	withExt := raw.WithExtension("Vital", true)
	assert.Equal(t, Record{Value: 12, Label: "MaxHealth", Extension: "Vital", HasExtension: true}, withExt)

	without := raw.WithExtension("ignored", false)
	assert.Equal(t, Record{Value: 12, Label: "MaxHealth"}, without)
	assert.False(t, without.HasExtension)
	assert.Empty(t, without.Extension)
}
