package service

import (
	"fmt"
	"regexp"
	"strings"
)

// Composer normalizes generated text and overlays the semantic markers the
// rendering layer turns into actionable elements.
type Composer struct {
	hospitalName   string
	addressMatches []string
}

func NewComposer(hospitalName string, addressMatches []string) *Composer {
	return &Composer{hospitalName: hospitalName, addressMatches: addressMatches}
}

// Compose runs cleanup then annotation
func (c *Composer) Compose(text string) string {
	return c.Annotate(c.Format(text))
}

var (
	brokenPlural    = regexp.MustCompile(`([a-zA-Z])\s*\n\s*s\b`)
	brokenWord      = regexp.MustCompile(`([a-zA-Z])\s*\n\s*([a-z]+)`)
	brokenClause    = regexp.MustCompile(`([a-zA-Z,])\s*\n\s*([a-z][^A-Z]*)`)
	orphanedNumber  = regexp.MustCompile(`(\d+)[.\]]\s*\n+\s*`)
	inlineIDNote    = regexp.MustCompile(`,?\s*(?:ID|Ext|Extension):\s*\d+`)
	horizontalSpace = regexp.MustCompile(`[ \t]+`)
	excessNewlines  = regexp.MustCompile(`\n{3,}`)
)

// Format repairs line-break artifacts in generated text. Text containing
// tabular markup takes a separate path that leaves table rows untouched,
// since the repairs would destroy column alignment.
func (c *Composer) Format(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Sprintf("I'm happy to assist. You can also contact %s for detailed guidance.", c.hospitalName)
	}

	if hasTable(text) {
		return cleanAroundTable(text)
	}

	text = brokenPlural.ReplaceAllString(text, "${1}s")
	text = brokenWord.ReplaceAllString(text, "$1$2")
	text = brokenClause.ReplaceAllString(text, "$1 $2")
	text = orphanedNumber.ReplaceAllString(text, "$1. ")
	text = inlineIDNote.ReplaceAllString(text, "")
	text = horizontalSpace.ReplaceAllString(text, " ")
	text = excessNewlines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

func hasTable(text string) bool {
	return (strings.Contains(text, "|") && strings.Contains(text, "---")) ||
		strings.Contains(strings.ToLower(text), "table format")
}

func cleanAroundTable(text string) string {
	var cleaned []string
	inTable := false

	for _, line := range strings.Split(text, "\n") {
		stripped := strings.TrimSpace(line)

		if strings.HasPrefix(stripped, "|") && strings.Count(stripped, "|") >= 3 {
			inTable = true
			cleaned = append(cleaned, line)
			continue
		}
		if strings.HasPrefix(stripped, "|") && strings.Contains(stripped, "---") {
			cleaned = append(cleaned, line)
			continue
		}
		if inTable && !strings.HasPrefix(stripped, "|") {
			inTable = false
		}
		if !strings.HasPrefix(stripped, "|") || !inTable {
			cleaned = append(cleaned, line)
		}
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// specialtySlugs maps specialty words appearing in text to profile slugs.
// Checked longest-phrase-first so "ent specialist" beats "ent".
var specialtySlugs = []struct {
	keyword string
	slug    string
}{
	{"general surgeon", "general-surgeon"},
	{"ent specialist", "ent-specialist"},
	{"cardiologist", "cardiologist"},
	{"cardiology", "cardiologist"},
	{"neurologist", "neurologist"},
	{"neurology", "neurologist"},
	{"orthopedics", "orthopedic-surgeon"},
	{"orthopedic", "orthopedic-surgeon"},
	{"pediatrician", "pediatrician"},
	{"pediatrics", "pediatrician"},
	{"radiologist", "radiologist"},
	{"radiology", "radiologist"},
	{"surgery", "general-surgeon"},
	{"surgeon", "general-surgeon"},
	{"oncologist", "oncologist"},
	{"oncology", "oncologist"},
	{"gynecologist", "gynecologist"},
	{"gynecology", "gynecologist"},
	{"dermatologist", "dermatologist"},
	{"dermatology", "dermatologist"},
	{"ophthalmologist", "ophthalmologist"},
	{"ophthalmology", "ophthalmologist"},
	{"psychiatrist", "psychiatrist"},
	{"psychiatry", "psychiatrist"},
	{"urologist", "urologist"},
	{"urology", "urologist"},
	{"gastroenterologist", "gastroenterologist"},
	{"gastroenterology", "gastroenterologist"},
	{"pulmonologist", "pulmonologist"},
	{"pulmonology", "pulmonologist"},
	{"endocrinologist", "endocrinologist"},
	{"endocrinology", "endocrinologist"},
	{"nephrologist", "nephrologist"},
	{"nephrology", "nephrologist"},
	{"anesthesiologist", "anesthesiologist"},
	{"anesthesiology", "anesthesiologist"},
	{"ent", "ent-specialist"},
}

var (
	phonePattern     = regexp.MustCompile(`\+?\d{1,3}[-.\s]?\(?\d{3,4}\)?[-.\s]?\d{3,4}[-.\s]?\d{4,}`)
	doctorMention    = regexp.MustCompile(`(?:Dr\.?|Doctor)\s+([A-Z][A-Za-z]+(?:\s+[A-Z][A-Za-z]+)*)(?:\s+\.?([A-Z])\b)?`)
	mentionBoundary  = regexp.MustCompile(`^\s*(?:[(,\-;:]|$)`)
	numberedListLine = regexp.MustCompile(`(?m)^\s*\d+[.)]\s+[A-Z]`)
	emergencyPhrase  = regexp.MustCompile(`(?i)(emergency|ambulance|helpline)[\s:]+(\+?\d[\d\s-]+)`)
	slugSeparators   = regexp.MustCompile(`\s+`)
	slugDashes       = regexp.MustCompile(`-+`)
	markerSpan       = regexp.MustCompile(`\[(?:TEL|EMERGENCY|LOCATION|DOCTORPROFILE|DOCTORSLIST|DEPARTMENTSLIST):[^\]]*\]`)
)

// Annotate overlays semantic markers: [TEL:], [DOCTORPROFILE:], list
// suffixes, [LOCATION:], and [EMERGENCY:]. Substitution only runs outside
// spans that already carry a marker, so re-running on annotated text is a
// no-op rather than a double wrap.
func (c *Composer) Annotate(text string) string {
	text = applyOutsideMarkers(text, func(seg string) string {
		return phonePattern.ReplaceAllString(seg, "[TEL:$0]")
	})

	text = c.annotateDoctorMentions(text)

	if strings.Count(text, "[DOCTORPROFILE:") >= 3 && !strings.Contains(text, "[DOCTORSLIST:") {
		text += "\n\n[DOCTORSLIST:For complete doctors list, visit our website]"
	}
	if len(numberedListLine.FindAllString(text, -1)) >= 3 && !strings.Contains(text, "[DEPARTMENTSLIST:") {
		text += "\n\n[DEPARTMENTSLIST:For complete departments list, visit our website]"
	}

	if !strings.Contains(text, "[LOCATION:") {
		for _, fragment := range c.addressMatches {
			if strings.Contains(text, fragment) {
				text = strings.Replace(text, fragment, "[LOCATION:"+fragment+"]", 1)
				break
			}
		}
	}

	text = applyOutsideMarkers(text, func(seg string) string {
		return emergencyPhrase.ReplaceAllString(seg, "$1: [EMERGENCY:$2]")
	})

	return text
}

// annotateDoctorMentions wraps "Dr. Name" mentions with a profile marker,
// tracking the most recent specialty keyword as ambient context. Mentions
// with no specialty context yet are left bare.
func (c *Composer) annotateDoctorMentions(text string) string {
	lines := strings.Split(text, "\n")
	currentSpecialty := ""

	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, sp := range specialtySlugs {
			if strings.Contains(lower, sp.keyword) {
				currentSpecialty = sp.slug
				break
			}
		}
		if currentSpecialty == "" {
			continue
		}

		specialty := currentSpecialty
		lines[i] = applyOutsideMarkers(line, func(seg string) string {
			return wrapDoctorMentions(seg, specialty)
		})
	}

	return strings.Join(lines, "\n")
}

func wrapDoctorMentions(seg, specialtySlug string) string {
	matches := doctorMention.FindAllStringSubmatchIndex(seg, -1)
	if matches == nil {
		return seg
	}

	var out strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		// only well-delimited mentions get wrapped
		if !mentionBoundary.MatchString(seg[end:]) {
			continue
		}

		full := seg[start:end]
		name := seg[m[2]:m[3]]
		if m[4] >= 0 {
			name += " " + seg[m[4]:m[5]]
		}

		out.WriteString(seg[last:start])
		out.WriteString(fmt.Sprintf("[DOCTORPROFILE:%s|%s|%s]", full, specialtySlug, nameSlug(name)))
		last = end
	}
	out.WriteString(seg[last:])
	return out.String()
}

func nameSlug(name string) string {
	slug := slugSeparators.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slugDashes.ReplaceAllString(slug, "-"), "-")
	return "dr-" + slug
}

// applyOutsideMarkers runs fn on the stretches of text between existing
// markers, leaving marker spans untouched.
func applyOutsideMarkers(text string, fn func(string) string) string {
	spans := markerSpan.FindAllStringIndex(text, -1)
	if spans == nil {
		return fn(text)
	}

	var out strings.Builder
	last := 0
	for _, span := range spans {
		out.WriteString(fn(text[last:span[0]]))
		out.WriteString(text[span[0]:span[1]])
		last = span[1]
	}
	out.WriteString(fn(text[last:]))
	return out.String()
}
