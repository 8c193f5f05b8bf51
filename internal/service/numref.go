package service

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Rrens/hospital-chat/internal/domain"
)

// ErrNoActiveList means the session has no list to resolve against, either
// because nothing was shown or because the session expired. It is a normal
// outcome answered with a clarification, never a fatal error.
var ErrNoActiveList = errors.New("no active numbered list")

// NotFoundError means the requested number is not in the active list. It
// carries the numbers that are, so the caller can present them.
type NotFoundError struct {
	Number int
	Kind   domain.ListKind
	Valid  []int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("number %d not in current %s list", e.Number, e.Kind)
}

// rawListLine recovers an entry from the displayed list text when structured
// extraction failed. Matches "N. Dr. Name, Specialty" with "-" and ":" as
// alternative separators.
var rawListLine = regexp.MustCompile(`^(\d+)\.\s+(Dr\.\s+.+?)(?:,\s+|\s+-\s+|\s*:\s*)(.+)$`)

// ResolveNumber finds the list entry the user is pointing at. The session
// snapshot must come from the store so resolution does not race with a
// concurrent list replacement.
func ResolveNumber(sess domain.Session, number int, timeout time.Duration) (domain.ListEntry, error) {
	if !sess.Valid(timeout) {
		return domain.ListEntry{}, ErrNoActiveList
	}

	for _, entry := range sess.List {
		if entry.Number == number {
			return entry, nil
		}
	}

	if sess.RawListText != "" {
		for _, line := range strings.Split(sess.RawListText, "\n") {
			m := rawListLine.FindStringSubmatch(strings.TrimSpace(line))
			if m == nil {
				continue
			}
			lineNumber, err := strconv.Atoi(m[1])
			if err != nil || lineNumber != number {
				continue
			}
			return domain.ListEntry{
				Number:   number,
				Name:     strings.TrimSpace(m[2]),
				Category: strings.TrimSpace(m[3]),
				FullText: strings.TrimSpace(line),
			}, nil
		}
	}

	valid := sess.Numbers()
	if len(valid) == 0 {
		valid = rawListNumbers(sess.RawListText)
	}
	// Nothing to choose from means there is no list to clarify against.
	if len(valid) == 0 {
		return domain.ListEntry{}, ErrNoActiveList
	}

	return domain.ListEntry{}, &NotFoundError{Number: number, Kind: sess.Kind, Valid: valid}
}

// rawListNumbers recovers the choosable numbers from displayed list text when
// structured extraction produced nothing.
func rawListNumbers(rawText string) []int {
	if rawText == "" {
		return nil
	}
	var numbers []int
	for _, line := range strings.Split(rawText, "\n") {
		m := rawListLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil {
			numbers = append(numbers, n)
		}
	}
	return numbers
}
