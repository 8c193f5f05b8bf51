package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Rrens/hospital-chat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doctors.csv")
	content := "Name,Specialty,Phone\nDr. Priya Raman,Cardiology,0422-111\nDr. Kumar,,0422-222\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	docs, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "Name: Dr. Priya Raman | Specialty: Cardiology | Phone: 0422-111", docs[0].Text)
	assert.Equal(t, "doctors.csv", docs[0].Source)
	assert.Equal(t, "Name: Dr. Kumar | Phone: 0422-222", docs[1].Text, "empty cells should be dropped")
}

func TestLoadCSV_HeaderOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name,Specialty\n"), 0o644))

	docs, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "info.txt"), []byte("Visiting hours are 9am to 5pm."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "faq.md"), []byte("# FAQ\nParking is free."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.pdf"), []byte("binary"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs.csv"), []byte("Name\nDr. A\n"), 0o644))

	docs, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Len(t, docs, 3, "pdf should be skipped")
}

func TestSplitter_ShortDocumentPassesThrough(t *testing.T) {
	s := NewSplitter(1000, 200, 2000)
	chunks := s.splitText("short document")
	require.Len(t, chunks, 1)
	assert.Equal(t, "short document", chunks[0])
}

func TestSplitter_SplitsOnLines(t *testing.T) {
	s := NewSplitter(50, 10, 2000)

	lines := make([]string, 10)
	for i := range lines {
		lines[i] = strings.Repeat("x", 20)
	}
	chunks := s.splitText(strings.Join(lines, "\n"))

	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 50)
	}
}

func TestSplitter_OverlapCarriesTrailingText(t *testing.T) {
	s := NewSplitter(30, 10, 2000)
	chunks := s.splitText("aaaaaaaaaaaaaaaaaaaaaaaaa\nbbbbbbbbbbbbbbb")

	require.Len(t, chunks, 2)
	tail := chunks[0][len(chunks[0])-10:]
	assert.True(t, strings.HasPrefix(chunks[1], tail), "second chunk should start with the overlap from the first")
}

func TestSplitter_ChunkCap(t *testing.T) {
	s := NewSplitter(10, 0, 3)

	docs := []domain.Document{{Text: strings.Repeat("0123456789\n", 20), Source: "big.txt"}}
	chunks := s.Split(docs)
	assert.Len(t, chunks, 3)
}
