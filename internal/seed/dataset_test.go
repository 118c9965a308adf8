package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	records, err := Load()
	require.NoError(t, err)
	require.Len(t, records, 9)

	emails := make(map[string]bool)
	var cs []string
	for _, r := range records {
		assert.False(t, emails[r.Email], "duplicate email %s", r.Email)
		emails[r.Email] = true
		if r.Department == "CS" {
			cs = append(cs, r.Name)
		}
	}
	assert.Equal(t, []string{"Ankit Verma", "Priya Singh", "Sneha Patel", "Vikram Joshi", "Kavita Sharma"}, cs)

	first := records[0]
	assert.Equal(t, "2020", first.Batch)
	assert.Equal(t, []string{"React", "Go", "K8s"}, first.Skills)
	assert.True(t, first.Available)
}

func TestParse_RequiresEmail(t *testing.T) {
	_, err := Parse([]byte("- name: Nobody\n  role: Ghost\n"))
	assert.Error(t, err)
}

func TestRecord_ToModel(t *testing.T) {
	m := Record{Name: "A", Email: "a@example.com", Batch: "2020"}.ToModel()
	require.NotNil(t, m.Email)
	assert.Equal(t, "a@example.com", *m.Email)
	assert.NotNil(t, m.Skills)
	assert.Empty(t, m.Skills)
}
