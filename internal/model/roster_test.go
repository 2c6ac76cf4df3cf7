package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRosterClassesSorted(t *testing.T) {
	roster := ClassRoster{
		"12C": {{Name: "x"}},
		"10A": {{Name: "y"}},
		"11B": {{Name: "z"}},
	}
	assert.Equal(t, []string{"10A", "11B", "12C"}, roster.Classes())
}

func TestRosterStudentsLocaleSorted(t *testing.T) {
	roster := ClassRoster{
		"10A": {
			{Name: "Đặng Văn Út"},
			{Name: "Nguyễn An"},
			{Name: "Dương Bích"},
		},
	}

	students := roster.Students("10A")
	names := make([]string, len(students))
	for i, s := range students {
		names[i] = s.Name
	}
	// Vietnamese collation orders D before Đ before N.
	assert.Equal(t, []string{"Dương Bích", "Đặng Văn Út", "Nguyễn An"}, names)
}

func TestRosterStudentsDoesNotMutateSource(t *testing.T) {
	src := []Student{{Name: "b"}, {Name: "a"}}
	roster := ClassRoster{"10A": src}

	_ = roster.Students("10A")
	assert.Equal(t, "b", src[0].Name, "sorting must work on a copy")
}

func TestRosterEmptySelection(t *testing.T) {
	roster := ClassRoster{"10A": {{Name: "a"}}}
	assert.Empty(t, roster.Students(""))
	assert.Empty(t, roster.Students("unknown"))
}
