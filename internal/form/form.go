// Package form turns a fetched question set into an answerable form
// model. It mirrors radio/checkbox input semantics: single-select groups
// hold at most one active label, multi-select groups toggle labels
// independently.
package form

import (
	"fmt"
	"sort"

	"github.com/quizlan/quizlan-client/internal/model"
)

// Group is the answerable unit built for one question.
type Group struct {
	Question model.Question
	// Name is the input group name, "q_<question id>". Submission
	// recovers the question id from it.
	Name string

	selected map[string]bool
}

// Form owns the live answer state of one exam attempt. Exactly one Form
// exists per attempt; the submission controller reads it once,
// non-destructively, at submit time.
type Form struct {
	groups []*Group
	byID   map[string]*Group
}

// Build constructs the form for a question set, one group per question
// in order.
func Build(questions model.QuestionSet) *Form {
	f := &Form{
		groups: make([]*Group, 0, len(questions)),
		byID:   make(map[string]*Group, len(questions)),
	}
	for _, q := range questions {
		g := &Group{
			Question: q,
			Name:     "q_" + q.ID,
			selected: make(map[string]bool),
		}
		f.groups = append(f.groups, g)
		f.byID[q.ID] = g
	}
	return f
}

// Groups returns the groups in question order.
func (f *Form) Groups() []*Group { return f.groups }

// Len returns the number of questions.
func (f *Form) Len() int { return len(f.groups) }

// Select activates an option label on a question. Radio semantics for
// single-select questions: the new label replaces any previous one.
// Checkbox semantics for multi-select questions: the label toggles.
func (f *Form) Select(questionID, label string) error {
	g, ok := f.byID[questionID]
	if !ok {
		return fmt.Errorf("unknown question id %q", questionID)
	}
	if !g.hasOption(label) {
		return fmt.Errorf("question %q has no option %q", questionID, label)
	}

	if g.Question.Multi {
		if g.selected[label] {
			delete(g.selected, label)
		} else {
			g.selected[label] = true
		}
		return nil
	}

	for l := range g.selected {
		delete(g.selected, l)
	}
	g.selected[label] = true
	return nil
}

// Clear removes every selection of a question.
func (f *Form) Clear(questionID string) {
	if g, ok := f.byID[questionID]; ok {
		for l := range g.selected {
			delete(g.selected, l)
		}
	}
}

// Selected returns the active labels of a question, sorted for stable
// display. Selection order is not meaningful.
func (g *Group) Selected() []string {
	labels := make([]string, 0, len(g.selected))
	for l := range g.selected {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Answers collects the full answer set. Every question id is present;
// an unanswered question maps to an empty list, never a missing key.
func (f *Form) Answers() model.AnswerSet {
	answers := make(model.AnswerSet, len(f.groups))
	for _, g := range f.groups {
		answers[g.Question.ID] = g.Selected()
	}
	return answers
}

func (g *Group) hasOption(label string) bool {
	for _, o := range g.Question.Options {
		if o.Label == label {
			return true
		}
	}
	return false
}
