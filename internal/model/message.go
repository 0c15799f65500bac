package model

// ParsedRow echoes one non-blank data line back to the uploader.
type ParsedRow struct {
	EmployeeID  *int   `json:"employeeId"`
	ProjectID   *int   `json:"projectId"`
	DateFromRaw string `json:"dateFromRaw"`
	DateToRaw   string `json:"dateToRaw"`
	IsValid     bool   `json:"isValid"`
	Error       string `json:"error,omitempty"`
}

// RowError is a line-numbered diagnostic for a rejected input line.
type RowError struct {
	LineNumber int    `json:"lineNumber"`
	RawLine    string `json:"rawLine"`
	Message    string `json:"message"`
}

const (
	ErrNotEnoughColumns = "Not enough columns"
	ErrInvalidIDs       = "Invalid EmployeeId or ProjectId"
	ErrInvalidDate      = "Invalid or missing date"
	ErrLineTooLong      = "Line too long"
)
