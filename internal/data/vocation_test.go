package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocations(t *testing.T) {
	for id := VocationNone; id <= VocationEliteKnight; id++ {
		assert.True(t, KnownVocation(id), "vocation %d", id)
	}
	assert.False(t, KnownVocation(9))
	assert.False(t, KnownVocation(-1))

	v := GetVocation(VocationElderDruid)
	require.NotNil(t, v)
	assert.Equal(t, "Elder Druid", v.Name)
	assert.Equal(t, VocationDruid, v.ParentID)

	id, ok := VocationByName(" master sorcerer ")
	require.True(t, ok)
	assert.Equal(t, VocationMasterSorc, id)

	_, ok = VocationByName("necromancer")
	assert.False(t, ok)

	assert.ElementsMatch(t, []int32{VocationKnight, VocationEliteKnight}, WithPromotions(VocationKnight))
	assert.Equal(t, []int32{VocationEliteKnight}, WithPromotions(VocationEliteKnight))
}
