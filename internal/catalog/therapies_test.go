package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	all := List()
	require.Len(t, all, 5)
	assert.Equal(t, "vamana", all[0].ID)
	assert.Equal(t, "raktamokshana", all[4].ID)
}

func TestListReturnsCopy(t *testing.T) {
	all := List()
	all[0].ID = "mutated"
	assert.Equal(t, "vamana", List()[0].ID)
}

func TestByID(t *testing.T) {
	therapy, ok := ByID("basti")
	require.True(t, ok)
	assert.Equal(t, "Basti", therapy.SanskritName)
	assert.Equal(t, "Enema Therapy", therapy.Name)
	assert.NotEmpty(t, therapy.PreProcedure)
	assert.NotEmpty(t, therapy.PostProcedure)

	_, ok = ByID("shirodhara")
	assert.False(t, ok)
}

func TestEveryTherapyIsComplete(t *testing.T) {
	for _, therapy := range List() {
		assert.NotEmpty(t, therapy.Name, therapy.ID)
		assert.NotEmpty(t, therapy.SanskritName, therapy.ID)
		assert.NotEmpty(t, therapy.Duration, therapy.ID)
		assert.NotEmpty(t, therapy.Benefits, therapy.ID)
	}
}
