package model

// PairProjectDetail holds the days two employees overlapped on one project.
// EmployeeID1 < EmployeeID2.
type PairProjectDetail struct {
	EmployeeID1        int `json:"employeeId1"`
	EmployeeID2        int `json:"employeeId2"`
	ProjectID          int `json:"projectId"`
	DaysWorkedTogether int `json:"daysWorkedTogether"`
}

// PairResult is the outcome of one analysis. When no pair overlapped at all
// both employee IDs are 0, the total is 0 and Details is empty.
type PairResult struct {
	EmployeeID1             int                 `json:"employeeId1"`
	EmployeeID2             int                 `json:"employeeId2"`
	TotalDaysWorkedTogether int                 `json:"totalDaysWorkedTogether"`
	Details                 []PairProjectDetail `json:"details"`
}

// Found reports whether the result names an actual pair.
func (r PairResult) Found() bool {
	return r.EmployeeID1 != 0 || r.EmployeeID2 != 0
}
