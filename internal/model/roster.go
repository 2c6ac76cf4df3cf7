package model

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Student represents a single roster entry as served by /api/classes.
type Student struct {
	Name string `json:"name"`
}

// ClassRoster maps a class name to its students. It is fetched once per
// landing-page load and is read-only afterwards.
type ClassRoster map[string][]Student

// rosterCollator orders names the way the server-rendered roster does.
// Vietnamese collation keeps diacritic-heavy names in the order students
// expect to find themselves in.
var rosterCollator = collate.New(language.Vietnamese)

// Classes returns the class names in sorted order.
func (r ClassRoster) Classes() []string {
	names := make([]string, 0, len(r))
	for cls := range r {
		names = append(names, cls)
	}
	sort.Strings(names)
	return names
}

// Students returns the students of a class sorted by locale-aware name
// comparison. An unknown or empty class yields an empty slice.
func (r ClassRoster) Students(class string) []Student {
	if class == "" {
		return nil
	}
	src := r[class]
	out := make([]Student, len(src))
	copy(out, src)
	sort.Slice(out, func(i, j int) bool {
		return rosterCollator.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}
