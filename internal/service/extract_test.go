package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractDoctorEntries(t *testing.T) {
	raw := `1. Dr. Priya Raman, Cardiology
2. Dr. Kumar - Neurology
3. Dr. Devi: Orthopedics.
Some narrative line that is not a list item.
4. Dr. Anand, none`

	entries := ExtractDoctorEntries(raw)
	require.Len(t, entries, 4)

	assert.Equal(t, 1, entries[0].Number)
	assert.Equal(t, "Dr. Priya Raman", entries[0].Name)
	assert.Equal(t, "Cardiology", entries[0].Category)

	assert.Equal(t, "Dr. Kumar", entries[1].Name)
	assert.Equal(t, "Neurology", entries[1].Category)

	assert.Equal(t, "Orthopedics", entries[2].Category, "trailing period stripped")
	assert.Equal(t, "General Medicine", entries[3].Category, "denylisted specialty defaults")
}

func TestExtractDoctorEntries_DuplicateNumberKeepsFirst(t *testing.T) {
	raw := `1. Dr. A, Cardiology
2. Dr. B, Neurology
2. Dr. C, Dermatology
4. Dr. D, ENT`

	entries := ExtractDoctorEntries(raw)
	require.Len(t, entries, 3)
	assert.Equal(t, "Dr. B", entries[1].Name, "first occurrence of a duplicate number wins")
	assert.Equal(t, 4, entries[2].Number, "gaps are preserved, not renumbered")
}

func TestExtractDoctorEntries_Idempotent(t *testing.T) {
	raw := "1. Dr. A, Cardiology\n2. Dr. B, Neurology"
	first := ExtractDoctorEntries(raw)
	second := ExtractDoctorEntries(raw)
	assert.Equal(t, first, second)
}

func TestExtractDoctorEntries_SkipsUnparsableLines(t *testing.T) {
	raw := "Here are our doctors:\n\n1. Dr. A, Cardiology\nranked among the best\n2. Dr. B, Neurology"
	entries := ExtractDoctorEntries(raw)
	assert.Len(t, entries, 2)
}

func TestExtractDepartmentEntries(t *testing.T) {
	raw := "1. Cardiology\n2) Neurology\n3. Emergency Medicine\nnot a department line"
	entries := ExtractDepartmentEntries(raw)
	require.Len(t, entries, 3)
	assert.Equal(t, "Cardiology", entries[0].Name)
	assert.Equal(t, "Neurology", entries[1].Name)
	assert.Equal(t, "Emergency Medicine", entries[2].Name)
}

func TestNormalizeSpecialty(t *testing.T) {
	assert.Equal(t, "Cardiology", normalizeSpecialty("Cardiology."))
	assert.Equal(t, "General Medicine", normalizeSpecialty(""))
	assert.Equal(t, "General Medicine", normalizeSpecialty("Unknown"))
	assert.Equal(t, "General Medicine", normalizeSpecialty("not specified"))
	assert.Equal(t, "ENT", normalizeSpecialty(" ENT "))
}
