package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Rrens/hospital-chat/internal/domain"
)

// Intents is the multi-label classification of one message. NumberRef is 0
// when the message is not a numeric back-reference; Medical is an
// independent flag that can combine with any other label.
type Intents struct {
	NumberRef int
	Greeting  bool
	Location  bool
	ListKind  domain.ListKind
	Medical   bool
}

// maxListNumber bounds what counts as a back-reference. No list is expected
// to exceed this size, so larger numbers are treated as ordinary text.
const maxListNumber = 50

// shortMessageLimit gates the loose single-keyword list check, so a long
// medical sentence containing "doctor" is not misread as a list request.
const shortMessageLimit = 50

var numberRefPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\s*(\d+)\s*$`),
	regexp.MustCompile(`^(?:number|no\.?|#)\s*(\d+)\s*$`),
	regexp.MustCompile(`^(?:doctor|dr\.?|option|choice)\s*(?:number|no\.?|#)?\s*(\d+)\s*$`),
	regexp.MustCompile(`^tell me (?:about|more about)?\s*(?:number|no\.?|#)?\s*(\d+)\s*$`),
	regexp.MustCompile(`^(?:show|give|select|choose)\s+(?:me\s+)?(?:number|no\.?|#)?\s*(\d+)\s*$`),
	regexp.MustCompile(`^(\d+)\s*(?:please|pls|details|info)?\s*$`),
	regexp.MustCompile(`^i choose\s*(\d+)\s*$`),
	regexp.MustCompile(`^want\s+(?:number|no\.?|#)?\s*(\d+)\s*$`),
}

var greetingVocab = []string{
	"hi", "hello", "hey", "good morning", "good afternoon", "good evening", "greetings",
}

var locationVocab = []string{
	"hospital location", "where is the hospital", "hospital address",
	"how to reach", "directions", "where are you located", "location",
	"address of hospital", "hospital directions", "where is kg hospital",
	"where is kghospital", "hospil location", "hsplt location",
}

var doctorListVocab = []string{
	"list doctors", "all doctors", "doctors list", "show doctors",
	"available doctors", "doctors available", "list of doctors",
	"doctor list", "docs list", "list doc", "list dr",
	"which doctors are there",
}

var departmentListVocab = []string{
	"list departments", "all departments", "departments list",
	"show departments", "available departments", "list of departments",
	"department list", "depts list", "list dept",
	"which departments are there",
}

// listExclusionVocab marks a message as a specific question rather than a
// request for the complete enumeration. Any hit sends the message down the
// full retrieval path even when list keywords are also present.
var listExclusionVocab = []string{
	"do you have", "is there", "tell me about", "specialist for", "doctor for",
	"cardiology", "cardiologist", "neurology", "neurologist",
	"orthopedic", "pediatric", "radiology", "oncology", "gynecology",
	"dermatology", "ophthalmology", "psychiatry", "urology",
	"gastroenterology", "pulmonology", "endocrinology", "nephrology",
}

// appointmentWords disqualify the short-message doctor keyword check
var appointmentWords = []string{"appointment", "book", "schedule", "availability"}

var medicalVocab = []string{
	"who should i consult", "which doctor", "what doctor", "who to consult",
	"who can i see", "who do i see", "which specialist",
	"fever", "headache", "pain", "cold", "cough", "symptom",
	"treatment for", "cure for", "specialist for", "doctor for",
	"suffering from", "experiencing",
	"diabetes", "blood pressure", "heart", "stomach", "back pain",
	"chest pain", "throat", "skin", "allergy", "cancer", "asthma",
	"arthritis", "migraine", "infection", "virus", "bacterial",
	"what is", "what are", "how to treat", "how to prevent",
	"symptoms of", "causes of", "diagnosis for",
}

var collapseSpaces = regexp.MustCompile(`\s+`)

func normalize(message string) string {
	return collapseSpaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(message)), " ")
}

// Classify maps a raw message to its intent labels. It is a pure function:
// the same input always yields the same labels.
func Classify(message string) Intents {
	norm := normalize(message)

	intents := Intents{ListKind: domain.ListNone}
	if n, ok := DetectNumberRef(norm); ok {
		intents.NumberRef = n
	}
	intents.Greeting = isGreeting(norm)
	intents.Location = isLocationQuery(norm)
	intents.ListKind = detectListRequest(norm)
	intents.Medical = isMedicalQuery(norm)
	return intents
}

// DetectNumberRef extracts a numeric back-reference from an already
// normalized message. Values outside [1,50] are not references.
func DetectNumberRef(norm string) (int, bool) {
	for _, pattern := range numberRefPatterns {
		m := pattern.FindStringSubmatch(norm)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n >= 1 && n <= maxListNumber {
			return n, true
		}
	}
	return 0, false
}

// isGreeting matches the greeting vocabulary as a whole leading token, so
// "hi there" greets but "historic building" does not.
func isGreeting(norm string) bool {
	for _, g := range greetingVocab {
		if norm == g || strings.HasPrefix(norm, g+" ") || strings.HasPrefix(norm, g+"!") {
			return true
		}
	}
	return false
}

func isLocationQuery(norm string) bool {
	for _, kw := range locationVocab {
		if strings.Contains(norm, kw) {
			return true
		}
	}
	return false
}

// detectListRequest decides whether the message asks for the complete
// doctors or departments enumeration. Specific-question indicators take
// precedence: "do you have a cardiology doctors list" is a question about
// cardiology, not a request to dump every doctor.
func detectListRequest(norm string) domain.ListKind {
	for _, excl := range listExclusionVocab {
		if strings.Contains(norm, excl) {
			return domain.ListNone
		}
	}

	for _, q := range doctorListVocab {
		if norm == q {
			return domain.ListDoctors
		}
	}
	for _, q := range departmentListVocab {
		if norm == q {
			return domain.ListDepartments
		}
	}

	for _, q := range doctorListVocab {
		if strings.Contains(norm, q) {
			return domain.ListDoctors
		}
	}
	for _, q := range departmentListVocab {
		if strings.Contains(norm, q) {
			return domain.ListDepartments
		}
	}

	if len(norm) < shortMessageLimit {
		if containsAnyWord(norm, "doctors", "doctor", "docs", "doc") && !containsAnyWord(norm, appointmentWords...) {
			return domain.ListDoctors
		}
		if containsAnyWord(norm, "departments", "department", "depts", "dept") {
			return domain.ListDepartments
		}
	}

	return domain.ListNone
}

func isMedicalQuery(norm string) bool {
	for _, kw := range medicalVocab {
		if strings.Contains(norm, kw) {
			return true
		}
	}
	return false
}

func containsAnyWord(norm string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(norm, w) {
			return true
		}
	}
	return false
}
