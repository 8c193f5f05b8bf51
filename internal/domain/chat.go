package domain

// UserRole identifies who is talking to the assistant
type UserRole string

const (
	RoleVisitor UserRole = "visitor"
	RoleStaff   UserRole = "staff"
	RoleAdmin   UserRole = "admin"
)

// ContextType tags the response with the kind of content it carries so the
// rendering layer can adjust presentation
type ContextType string

const (
	ContextDoctors          ContextType = "doctors"
	ContextDepartments      ContextType = "departments"
	ContextDoctorDetail     ContextType = "doctor_detail"
	ContextDepartmentDetail ContextType = "department_detail"
	ContextMedical          ContextType = "medical"
	ContextNone             ContextType = ""
)

// ChatRequest is the engine's input: one user message plus identity
type ChatRequest struct {
	Message  string   `json:"message" validate:"required,max=4000"`
	UserRole UserRole `json:"user_role" validate:"omitempty,oneof=visitor staff admin"`
	UserID   string   `json:"user_id,omitempty"`
}

// ChatResponse is the engine's output. It is always well-formed: failures
// inside handling degrade to an apology response rather than an error.
type ChatResponse struct {
	Response              string      `json:"response"`
	Timestamp             string      `json:"timestamp"`
	IsAppointmentRequest  bool        `json:"is_appointment_request"`
	AppointmentID         string      `json:"appointment_id,omitempty"`
	ShowAppointmentButton bool        `json:"show_appointment_button"`
	SuggestedReason       string      `json:"suggested_reason,omitempty"`
	ContextType           ContextType `json:"context_type,omitempty"`
}
