package utils

import "strings"

// ParseQueryList handles both repeated and comma-separated query params.
// Example:
//
//	?street=Parkweg,Lindenallee        → ["Parkweg","Lindenallee"]
//	?street=Parkweg&street=Lindenallee → ["Parkweg","Lindenallee"]
//
// Blank entries are dropped.
func ParseQueryList(q map[string][]string, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
