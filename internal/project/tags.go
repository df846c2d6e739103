package project

import (
	"strings"
	"unicode"
)

// DefaultTags seeds the tag list on first run
var DefaultTags = []string{"Work", "Personal", "Urgent", "Health", "Social", "Learning"}

// ExtractTags infers tags from goal text. Hashtags (#trip) are taken as-is;
// words equal to a known tag pick up that tag with its stored casing.
// Matching is case-insensitive and the result has no duplicates.
func ExtractTags(goal string, known []string) []string {
	tags := []string{}
	seen := map[string]bool{}
	add := func(tag string) {
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			return
		}
		seen[key] = true
		tags = append(tags, tag)
	}

	byLower := make(map[string]string, len(known))
	for _, k := range known {
		byLower[strings.ToLower(k)] = k
	}

	fields := strings.FieldsFunc(goal, func(r rune) bool {
		return unicode.IsSpace(r) || (unicode.IsPunct(r) && r != '#' && r != '-' && r != '_')
	})
	for _, f := range fields {
		if strings.HasPrefix(f, "#") {
			name := strings.TrimLeft(f, "#")
			if k, ok := byLower[strings.ToLower(name)]; ok {
				add(k)
			} else {
				add(name)
			}
			continue
		}
		if k, ok := byLower[strings.ToLower(f)]; ok {
			add(k)
		}
	}
	return tags
}
