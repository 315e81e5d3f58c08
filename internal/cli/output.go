package cli

import (
	"io"
	"os"
	"strings"

	"github.com/rodaine/table"
	"golang.org/x/text/width"

	"github.com/yukinote/yuki/internal/entities"
)

const maxCellWidth = 48

// displayWidth counts East Asian wide and fullwidth runes as two columns.
func displayWidth(s string) int {
	w := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			w += 2
		default:
			w++
		}
	}
	return w
}

func truncate(s string, limit int) string {
	if displayWidth(s) <= limit {
		return s
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := displayWidth(string(r))
		if w+rw > limit-1 {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	b.WriteString("…")
	return b.String()
}

func newTable(out io.Writer, headers ...interface{}) table.Table {
	if out == nil {
		out = os.Stdout
	}
	return table.New(headers...).WithWriter(out).WithWidthFunc(displayWidth)
}

func printEntries(out io.Writer, entries []entities.DictionaryEntry) {
	tbl := newTable(out, "ID", "Simplified", "Traditional", "Pinyin", "Meaning")
	for _, e := range entries {
		tbl.AddRow(e.ID, e.Simplified, e.Traditional, e.Pinyin, truncate(e.Meaning, maxCellWidth))
	}
	tbl.Print()
}

func printQuizRecords(out io.Writer, records []entities.QuizRecord) {
	tbl := newTable(out, "ID", "Question", "Answer", "Correct option", "Saved at")
	for _, r := range records {
		savedAt := "-"
		if r.SavedAt != nil {
			savedAt = *r.SavedAt
		}
		tbl.AddRow(
			r.QuestionID,
			truncate(r.QuestionText, maxCellWidth),
			string(r.CorrectAnswerKey),
			truncate(r.Option(r.CorrectAnswerKey), maxCellWidth/2),
			savedAt,
		)
	}
	tbl.Print()
}
