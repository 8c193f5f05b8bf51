package domain

import "time"

// ListKind identifies which semantic type a session's numbered list holds
type ListKind string

const (
	ListDoctors     ListKind = "doctors"
	ListDepartments ListKind = "departments"
	ListNone        ListKind = "none"
)

// ListEntry is one numbered item from a list previously shown to the user.
// Numbers are taken verbatim from the generated list text and are the key
// used for back-reference resolution.
type ListEntry struct {
	Number   int    `json:"number"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Detail   string `json:"detail,omitempty"`
	FullText string `json:"full_text,omitempty"`
}

// Session holds the short-lived per-user conversational state: the last
// numbered list shown and when the user was last active. A session past the
// timeout is treated as empty for resolution purposes.
type Session struct {
	UserID       string
	List         []ListEntry
	Kind         ListKind
	RawListText  string
	LastActivity time.Time
}

// Valid reports whether the session is still within the timeout window.
func (s *Session) Valid(timeout time.Duration) bool {
	return time.Since(s.LastActivity) < timeout
}

// Numbers returns the entry numbers currently stored, in list order.
func (s *Session) Numbers() []int {
	nums := make([]int, 0, len(s.List))
	for _, e := range s.List {
		nums = append(nums, e.Number)
	}
	return nums
}
