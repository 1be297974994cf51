package assemble

import (
	"strconv"

	"github.com/MeKo-Tech/omr/internal/decode"
)

// AmbiguityHeader is the column order of the ambiguity report.
var AmbiguityHeader = []string{
	"page", "person_id", "seat_no", "grade", "class_no",
	"field", "question", "status", "best_label", "second_label",
}

// AmbiguityRow joins one flag with its page's identity fields.
type AmbiguityRow struct {
	Page        int    `yaml:"page" json:"page"`
	PersonID    string `yaml:"person_id" json:"person_id"`
	SeatNo      string `yaml:"seat_no" json:"seat_no"`
	Grade       string `yaml:"grade" json:"grade"`
	ClassNo     string `yaml:"class_no" json:"class_no"`
	Field       string `yaml:"field" json:"field"`
	Question    string `yaml:"question" json:"question"`
	Status      string `yaml:"status" json:"status"`
	BestLabel   string `yaml:"best_label" json:"best_label"`
	SecondLabel string `yaml:"second_label" json:"second_label"`
}

// Strings returns the row in AmbiguityHeader order.
func (r AmbiguityRow) Strings() []string {
	page := ""
	if r.Page > 0 {
		page = strconv.Itoa(r.Page)
	}
	return []string{
		page, r.PersonID, r.SeatNo, r.Grade, r.ClassNo,
		r.Field, r.Question, r.Status, r.BestLabel, r.SecondLabel,
	}
}

// Document is the assembled output of a scan run.
type Document struct {
	Questions int
	// Persons are sorted by id.
	Persons []Person
	// Ambiguities are in page order, then field order within a page.
	Ambiguities []AmbiguityRow
	// Pages keeps the decoded pages in document order for annotated output.
	Pages []PageResult
}

// Assemble builds the document from pages in document order.
func Assemble(questions int, pages []PageResult) *Document {
	persons := AssignIDs(pages)
	byPage := make(map[int]Person, len(persons))
	for _, p := range persons {
		byPage[p.Page] = p
	}

	doc := &Document{Questions: questions, Pages: pages}
	for _, pr := range pages {
		person := byPage[pr.Index]
		for _, f := range pr.Page.Flags {
			doc.Ambiguities = append(doc.Ambiguities, AmbiguityRow{
				Page:        pr.Index,
				PersonID:    person.ID,
				SeatNo:      person.Record.Seat,
				Grade:       person.Record.Grade,
				ClassNo:     person.Record.Class,
				Field:       f.Field.Name(),
				Question:    f.Field.QuestionLabel(),
				Status:      f.Status.String(),
				BestLabel:   f.BestLabel,
				SecondLabel: f.SecondLabel,
			})
		}
	}

	SortPersons(persons)
	doc.Persons = persons
	return doc
}

// PersonIDs returns the ids in column order.
func (d *Document) PersonIDs() []string {
	out := make([]string, len(d.Persons))
	for i, p := range d.Persons {
		out[i] = p.ID
	}
	return out
}

// ResultsTable returns the transposed results: a "number" header followed by
// one column per person, and one row per question.
func (d *Document) ResultsTable() [][]string {
	table := make([][]string, 0, d.Questions+1)
	table = append(table, append([]string{"number"}, d.PersonIDs()...))
	for q := 1; q <= d.Questions; q++ {
		row := make([]string, 0, len(d.Persons)+1)
		row = append(row, strconv.Itoa(q))
		for _, p := range d.Persons {
			ans := ""
			if q-1 < len(p.Record.Answers) {
				ans = p.Record.Answers[q-1]
			}
			row = append(row, ans)
		}
		table = append(table, row)
	}
	return table
}

// Summary is a compact overview of a document.
type Summary struct {
	Pages       int            `yaml:"pages" json:"pages"`
	Questions   int            `yaml:"questions" json:"questions"`
	Persons     []string       `yaml:"persons" json:"persons"`
	Calibration map[string]int `yaml:"calibration" json:"calibration"`
	Flags       map[string]int `yaml:"flags" json:"flags"`
}

// Summary counts pages per calibration mode and flags per status.
func (d *Document) Summary() Summary {
	s := Summary{
		Pages:       len(d.Pages),
		Questions:   d.Questions,
		Persons:     d.PersonIDs(),
		Calibration: map[string]int{},
		Flags:       map[string]int{},
	}
	for _, p := range d.Pages {
		if p.Calibration != "" {
			s.Calibration[p.Calibration]++
		}
	}
	for _, st := range decode.Statuses() {
		if st != decode.StatusOK {
			s.Flags[st.String()] = 0
		}
	}
	for _, a := range d.Ambiguities {
		s.Flags[a.Status]++
	}
	return s
}
