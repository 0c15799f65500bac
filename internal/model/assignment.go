package model

// Assignment is one validated row of the input: an employee working on a
// project for every day in [DateFrom, DateTo]. DateFrom <= DateTo always holds.
type Assignment struct {
	EmployeeID int  `json:"employeeId"`
	ProjectID  int  `json:"projectId"`
	DateFrom   Date `json:"dateFrom"`
	DateTo     Date `json:"dateTo"`
}

// Interval is an inclusive day range. A single-day interval has From == To.
type Interval struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// Days returns the number of calendar days covered, counting both ends.
func (i Interval) Days() int {
	return int(i.To-i.From) + 1
}

func (a Assignment) Interval() Interval {
	return Interval{From: a.DateFrom, To: a.DateTo}
}
