package core

// LabelCount is the number of activities sharing one label.
type LabelCount struct {
	Label string
	Count int
}

// CountBy groups activities by the value key returns and counts each group.
// Groups are reported in order of first occurrence and compared with exact
// string equality.
func CountBy(activities []Activity, key func(Activity) string) []LabelCount {
	index := map[string]int{}
	out := make([]LabelCount, 0)
	for _, a := range activities {
		k := key(a)
		if i, ok := index[k]; ok {
			out[i].Count++
			continue
		}
		index[k] = len(out)
		out = append(out, LabelCount{Label: k, Count: 1})
	}
	return out
}

// ByCategory is the grouping key for the category summary.
func ByCategory(a Activity) string { return a.Category }

// ByDate is the grouping key for the date summary.
func ByDate(a Activity) string { return a.Date }
