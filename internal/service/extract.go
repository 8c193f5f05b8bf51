package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Rrens/hospital-chat/internal/domain"
)

// defaultSpecialty substitutes for specialties the generator could not
// determine
const defaultSpecialty = "General Medicine"

var specialtyDenylist = map[string]struct{}{
	"none":          {},
	"not specified": {},
	"unknown":       {},
}

// doctorLinePatterns recognize "N. Dr. Name, Specialty" with "-" and ":"
// separator variants. First matching pattern wins per line.
var doctorLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d+)\.\s+(Dr\.\s+.+?),\s+(.+)$`),
	regexp.MustCompile(`^(\d+)\.\s+(Dr\.\s+.+?)\s+-\s+(.+)$`),
	regexp.MustCompile(`^(\d+)\.\s+(Dr\.\s+.+?)\s*:\s*(.+)$`),
}

var departmentLinePattern = regexp.MustCompile(`^(\d+)[.)]\s+(.+)$`)

var trailingPeriod = regexp.MustCompile(`\.$`)

// ExtractDoctorEntries parses a generated numbered doctor list into typed
// entries. Lines matching no pattern are skipped; the union of parsed lines
// becomes the list. Numbers are trusted as generated, except that a
// duplicate number keeps its first occurrence so resolution stays
// deterministic.
func ExtractDoctorEntries(raw string) []domain.ListEntry {
	var entries []domain.ListEntry
	seen := make(map[int]struct{})

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		for _, pattern := range doctorLinePatterns {
			m := pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			number, err := strconv.Atoi(m[1])
			if err != nil {
				break
			}
			if _, dup := seen[number]; dup {
				break
			}
			seen[number] = struct{}{}

			entries = append(entries, domain.ListEntry{
				Number:   number,
				Name:     strings.TrimSpace(m[2]),
				Category: normalizeSpecialty(m[3]),
				FullText: line,
			})
			break
		}
	}

	return entries
}

// ExtractDepartmentEntries parses a generated numbered department list
func ExtractDepartmentEntries(raw string) []domain.ListEntry {
	var entries []domain.ListEntry
	seen := make(map[int]struct{})

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		m := departmentLinePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		number, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if _, dup := seen[number]; dup {
			continue
		}
		seen[number] = struct{}{}

		entries = append(entries, domain.ListEntry{
			Number:   number,
			Name:     strings.TrimSpace(m[2]),
			FullText: line,
		})
	}

	return entries
}

func normalizeSpecialty(specialty string) string {
	specialty = strings.TrimSpace(trailingPeriod.ReplaceAllString(strings.TrimSpace(specialty), ""))
	if specialty == "" {
		return defaultSpecialty
	}
	if _, denied := specialtyDenylist[strings.ToLower(specialty)]; denied {
		return defaultSpecialty
	}
	return specialty
}
