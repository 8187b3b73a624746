package trial

// Columns is the header row of the clinical trial CSV, in file order.
var Columns = []string{
	ColumnPatientID,
	ColumnSiteID,
	ColumnAge,
	ColumnGender,
	ColumnEnrollmentDate,
	ColumnSeverity,
	ColumnSystolicBP,
}

const (
	ColumnPatientID      = "Patient_ID"
	ColumnSiteID         = "Site_ID"
	ColumnAge            = "Age"
	ColumnGender         = "Gender"
	ColumnEnrollmentDate = "Enrollment_Date"
	ColumnSeverity       = "Adverse_Event_Severity"
	ColumnSystolicBP     = "Systolic_BP"
)

// PatientRecord is one synthetic trial participant.
type PatientRecord struct {
	ID             string   `csv:"Patient_ID" json:"patientId" db:"patient_id"`
	SiteID         string   `csv:"Site_ID" json:"siteId" db:"site_id"`
	Age            int      `csv:"Age" json:"age" db:"age"`
	Gender         Gender   `csv:"Gender" json:"gender" db:"gender"`
	EnrollmentDate Date     `csv:"Enrollment_Date" json:"enrollmentDate" db:"enrollment_date"`
	Severity       Severity `csv:"Adverse_Event_Severity" json:"adverseEventSeverity" db:"adverse_event_severity"`
	SystolicBP     int      `csv:"Systolic_BP" json:"systolicBP" db:"systolic_bp"`
}
