package engine

// OverlapDays sums the inclusive day overlap of two SpanSets with a single
// two-pointer sweep. The result does not depend on argument order.
func OverlapDays(a, b SpanSet) int {
	total := 0
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		from := max(a[i].From, b[j].From)
		to := min(a[i].To, b[j].To)
		if from <= to {
			total += int(to-from) + 1
		}

		if a[i].To < b[j].To {
			i++
		} else {
			j++
		}
	}
	return total
}
