package engine

import (
	"cmp"
	"slices"

	"pair-engine/internal/model"
)

type pairKey struct {
	first, second int
}

// newPairKey orders the IDs so each unordered pair has one key.
func newPairKey(a, b int) pairKey {
	if a <= b {
		return pairKey{a, b}
	}
	return pairKey{b, a}
}

type employeeSpans struct {
	employeeID int
	spans      SpanSet
}

type projectSpans struct {
	projectID int
	employees []employeeSpans
}

// Analyze finds the pair of employees with the most days worked together on
// shared projects. Assignments must already satisfy DateFrom <= DateTo.
//
// Ties on the total go to the smaller first employee ID, then the smaller
// second employee ID. With no overlapping pair the zero PairResult (with an
// empty, non-nil Details) is returned.
func Analyze(assignments []model.Assignment) model.PairResult {
	totals := make(map[pairKey]int)
	details := make(map[pairKey][]model.PairProjectDetail)

	for _, d := range collectOverlaps(groupSpans(assignments)) {
		key := pairKey{d.EmployeeID1, d.EmployeeID2}
		totals[key] += d.DaysWorkedTogether
		details[key] = append(details[key], d)
	}

	if len(totals) == 0 {
		return model.PairResult{Details: []model.PairProjectDetail{}}
	}

	var best pairKey
	bestTotal := -1
	for key, total := range totals {
		if total > bestTotal || (total == bestTotal && lessPair(key, best)) {
			best, bestTotal = key, total
		}
	}

	top := details[best]
	slices.SortFunc(top, func(a, b model.PairProjectDetail) int {
		return cmp.Compare(a.ProjectID, b.ProjectID)
	})

	return model.PairResult{
		EmployeeID1:             best.first,
		EmployeeID2:             best.second,
		TotalDaysWorkedTogether: bestTotal,
		Details:                 top,
	}
}

// ProjectOverlaps lists every positive per-project overlap between two
// employees, ordered by project, then by the pair.
func ProjectOverlaps(assignments []model.Assignment) []model.PairProjectDetail {
	return collectOverlaps(groupSpans(assignments))
}

func lessPair(a, b pairKey) bool {
	if a.first != b.first {
		return a.first < b.first
	}
	return a.second < b.second
}

// groupSpans groups assignments by project and employee and merges each
// employee's intervals. Projects and employees come out in ascending ID order.
func groupSpans(assignments []model.Assignment) []projectSpans {
	byProject := make(map[int]map[int][]model.Interval)
	for _, a := range assignments {
		byEmployee, ok := byProject[a.ProjectID]
		if !ok {
			byEmployee = make(map[int][]model.Interval)
			byProject[a.ProjectID] = byEmployee
		}
		byEmployee[a.EmployeeID] = append(byEmployee[a.EmployeeID], a.Interval())
	}

	projects := make([]projectSpans, 0, len(byProject))
	for projectID, byEmployee := range byProject {
		p := projectSpans{projectID: projectID, employees: make([]employeeSpans, 0, len(byEmployee))}
		for employeeID, intervals := range byEmployee {
			p.employees = append(p.employees, employeeSpans{employeeID: employeeID, spans: Merge(intervals)})
		}
		slices.SortFunc(p.employees, func(a, b employeeSpans) int {
			return cmp.Compare(a.employeeID, b.employeeID)
		})
		projects = append(projects, p)
	}
	slices.SortFunc(projects, func(a, b projectSpans) int {
		return cmp.Compare(a.projectID, b.projectID)
	})
	return projects
}

// collectOverlaps compares every employee pair within each project.
func collectOverlaps(projects []projectSpans) []model.PairProjectDetail {
	var out []model.PairProjectDetail
	for _, p := range projects {
		for i := 0; i < len(p.employees); i++ {
			for j := i + 1; j < len(p.employees); j++ {
				days := OverlapDays(p.employees[i].spans, p.employees[j].spans)
				if days <= 0 {
					continue
				}
				key := newPairKey(p.employees[i].employeeID, p.employees[j].employeeID)
				out = append(out, model.PairProjectDetail{
					EmployeeID1:        key.first,
					EmployeeID2:        key.second,
					ProjectID:          p.projectID,
					DaysWorkedTogether: days,
				})
			}
		}
	}
	return out
}
