package assemble

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/MeKo-Tech/omr/internal/decode"
	"github.com/MeKo-Tech/omr/internal/sheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const bom = "\xef\xbb\xbf"

func page(index int, seatNo string, answers []string, flags ...sheet.Flag) PageResult {
	status := make([]decode.Status, len(answers))
	return PageResult{
		Index:       index,
		Calibration: "computed",
		Page: &sheet.Page{
			Record: sheet.Record{Seat: seatNo, Answers: answers, AnswerStatus: status},
			Flags:  flags,
		},
	}
}

func scenario() []PageResult {
	p1 := page(1, "05", []string{"A", "C", ""},
		sheet.Flag{Field: decode.Question(3), Status: decode.StatusBlank, BestLabel: "A", SecondLabel: "B"})
	p1.Page.Record.Grade = "8"
	p1.Page.Record.Class = "2"
	p2 := page(2, "05", []string{"B", "C", "D"})
	return []PageResult{p1, p2}
}

func TestAssemble_EndToEndScenario(t *testing.T) {
	doc := Assemble(3, scenario())

	assert.Equal(t, []string{"5", "5_2"}, doc.PersonIDs())
	assert.Equal(t, [][]string{
		{"number", "5", "5_2"},
		{"1", "A", "B"},
		{"2", "C", "C"},
		{"3", "", "D"},
	}, doc.ResultsTable())

	require.Len(t, doc.Ambiguities, 1)
	a := doc.Ambiguities[0]
	assert.Equal(t, AmbiguityRow{
		Page: 1, PersonID: "5", SeatNo: "05", Grade: "8", ClassNo: "2",
		Field: "Q3", Question: "3", Status: "BLANK", BestLabel: "A", SecondLabel: "B",
	}, a)
}

func TestAssignIDs_Unique(t *testing.T) {
	for _, seatNo := range []string{"12", ""} {
		t.Run(fmt.Sprintf("seat %q", seatNo), func(t *testing.T) {
			var pages []PageResult
			for i := 1; i <= 25; i++ {
				pages = append(pages, page(i, seatNo, nil))
			}
			persons := AssignIDs(pages)
			seen := map[string]bool{}
			for _, p := range persons {
				assert.False(t, seen[p.ID], p.ID)
				seen[p.ID] = true
			}
			assert.Len(t, seen, 25)
		})
	}
}

func TestAssignIDs_Rules(t *testing.T) {
	persons := AssignIDs([]PageResult{
		page(1, "00", nil),
		page(2, "", nil),
		page(3, "7", nil),
		page(4, "07", nil),
		page(5, "x1", nil),
	})
	ids := []string{}
	for _, p := range persons {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"0", "page_2", "7", "7_2", "x1"}, ids)
}

func TestSortPersons(t *testing.T) {
	ps := []Person{
		{ID: "page_10"}, {ID: "zeta"}, {ID: "12"}, {ID: "5_2"},
		{ID: "page_2"}, {ID: "5"}, {ID: "40"}, {ID: "page_2_2"}, {ID: "alpha"},
	}
	SortPersons(ps)
	var got []string
	for _, p := range ps {
		got = append(got, p.ID)
	}
	assert.Equal(t, []string{"5", "5_2", "12", "40", "page_2", "page_2_2", "page_10", "alpha", "zeta"}, got)
}

func TestWriteResults_BOMAndColumns(t *testing.T) {
	doc := Assemble(3, scenario())
	var buf bytes.Buffer
	require.NoError(t, doc.WriteResults(&buf))

	out := buf.String()
	require.True(t, len(out) > 3)
	assert.Equal(t, bom, out[:3])

	rows, err := csv.NewReader(bytes.NewBufferString(out[3:])).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, doc.ResultsTable(), rows)
}

func TestWriteAmbiguity(t *testing.T) {
	doc := Assemble(3, scenario())
	var buf bytes.Buffer
	require.NoError(t, doc.WriteAmbiguity(&buf))

	rows, err := csv.NewReader(bytes.NewBufferString(buf.String()[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, AmbiguityHeader, rows[0])
	assert.Equal(t, []string{"1", "5", "05", "8", "2", "Q3", "3", "BLANK", "A", "B"}, rows[1])
}

func TestSummary(t *testing.T) {
	pages := scenario()
	pages[1].Calibration = "identity"
	doc := Assemble(3, pages)

	var buf bytes.Buffer
	require.NoError(t, doc.WriteSummary(&buf))

	var got Summary
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 2, got.Pages)
	assert.Equal(t, []string{"5", "5_2"}, got.Persons)
	assert.Equal(t, map[string]int{"computed": 1, "identity": 1}, got.Calibration)
	assert.Equal(t, 1, got.Flags["BLANK"])
	assert.Equal(t, 0, got.Flags["MULTI"])
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "results.csv")
	doc := Assemble(3, scenario())
	require.NoError(t, WriteFile(path, doc.WriteResults))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "number,5,5_2")
}
