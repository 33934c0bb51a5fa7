package cube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCuboidDimensions(t *testing.T) {
	cols := []string{"country", "city", "day", "device"}

	base := NewCuboid(0b1111, cols)
	assert.True(t, base.IsBase())
	assert.Equal(t, 4, base.DimensionCount())
	assert.Equal(t, cols, base.Dimensions())

	c := NewCuboid(0b0101, cols)
	assert.False(t, c.IsBase())
	assert.Equal(t, []string{"country", "day"}, c.Dimensions())
	assert.Equal(t, "5[country,day]", c.String())

	assert.True(t, base.IsAncestorOf(c))
	assert.False(t, c.IsAncestorOf(base))
	assert.False(t, c.IsAncestorOf(c))
	assert.False(t, NewCuboid(0b0011, cols).IsAncestorOf(c))
}

func TestInstanceSupportsLimitPushDown(t *testing.T) {
	tests := []struct {
		storageType StorageType
		supported   bool
	}{
		{StorageTypeLegacy, false},
		{StorageTypeHybrid, false},
		{StorageTypeSharded, true},
	}

	for _, tc := range tests {
		t.Run(tc.storageType.String(), func(t *testing.T) {
			i := NewInstance("sales", tc.storageType)
			assert.Equal(t, "sales", i.Name())
			assert.Equal(t, tc.supported, i.SupportsLimitPushDown())
		})
	}
}
