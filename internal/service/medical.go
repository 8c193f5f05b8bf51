package service

import (
	"fmt"
	"strings"
)

// symptomDepartments maps symptom words to the department to suggest when
// generation is unavailable. Ordered: the first match in the message wins.
var symptomDepartments = []struct {
	symptom    string
	department string
}{
	{"fever", "General Medicine or Infectious Diseases"},
	{"headache", "Neurology or General Medicine"},
	{"chest pain", "Cardiology or Emergency Medicine"},
	{"blood pressure", "Cardiology or General Medicine"},
	{"cold", "General Medicine or ENT"},
	{"cough", "Pulmonology or General Medicine"},
	{"stomach", "Gastroenterology or General Medicine"},
	{"heart", "Cardiology"},
	{"brain", "Neurology or Neurosurgery"},
	{"lung", "Pulmonology"},
	{"kidney", "Nephrology"},
	{"liver", "Gastroenterology"},
	{"bone", "Orthopedics"},
	{"skin", "Dermatology"},
	{"eye", "Ophthalmology"},
	{"ear", "ENT"},
	{"nose", "ENT"},
	{"throat", "ENT"},
	{"child", "Pediatrics"},
	{"pregnant", "Gynecology"},
	{"cancer", "Oncology"},
	{"diabetes", "Endocrinology"},
	{"mental", "Psychiatry"},
	{"anxiety", "Psychiatry"},
	{"depression", "Psychiatry"},
}

// relevantDepartment suggests which department fits the symptoms in the
// query, or a generic phrase when nothing matches.
func relevantDepartment(query string) string {
	lower := strings.ToLower(query)
	for _, sd := range symptomDepartments {
		if strings.Contains(lower, sd.symptom) {
			return sd.department
		}
	}
	return "the appropriate medical department"
}

// fallbackMedicalResponse is the deterministic answer used when generation
// is unavailable or degenerate: keyword-driven department guidance plus the
// hospital's contact line.
func (s *ChatService) fallbackMedicalResponse(query string) string {
	dept := relevantDepartment(query)
	primaryDept := strings.SplitN(dept, " or ", 2)[0]

	return fmt.Sprintf(`I understand you're asking about a medical concern. While I can provide general information, it's important to consult with healthcare professionals for proper medical advice.

Based on your query, you may want to visit our **%s** department at %s.

Our medical staff can provide:
- Proper diagnosis and examination
- Personalized treatment plans
- Professional medical guidance
- Follow-up care and monitoring

For immediate assistance, please contact %s at %s or visit our emergency department if this is urgent.

Would you like me to help you find specific doctors in %s department?`,
		dept, s.hospital.Name, s.hospital.Name, s.hospital.Phone, primaryDept)
}
