package event

// Type identifies the type of domain event
type Type string

const (
	TypeReportCreated    Type = "report.created"
	TypeReportSubmitted  Type = "report.submitted"
	TypeDecisionRecorded Type = "decision.recorded"
	TypeBatchExported    Type = "batch.exported"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeReportCreated,
		TypeReportSubmitted,
		TypeDecisionRecorded,
		TypeBatchExported:
		return true
	default:
		return false
	}
}
