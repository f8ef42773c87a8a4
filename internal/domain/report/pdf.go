package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"perfreview/internal/domain/evaluation"
)

const utf8Family = "evaluation-utf8"

type Options struct {
	FontPath string
}

type writer struct {
	pdf       *gofpdf.Fpdf
	family    string
	translate func(string) string
}

func newWriter(opts Options) *writer {
	pdf := gofpdf.New("P", "mm", "A4", "")
	w := &writer{pdf: pdf, family: "Helvetica", translate: func(s string) string { return s }}
	if opts.FontPath != "" {
		pdf.AddUTF8Font(utf8Family, "", opts.FontPath)
		pdf.AddUTF8Font(utf8Family, "B", opts.FontPath)
		w.family = utf8Family
	} else {
		w.translate = pdf.UnicodeTranslatorFromDescriptor("")
	}
	return w
}

func (w *writer) font(style string, size float64) {
	w.pdf.SetFont(w.family, style, size)
}

func (w *writer) line(height float64, text string) {
	w.pdf.Cell(0, height, w.translate(text))
	w.pdf.Ln(height)
}

func (w *writer) row(height float64, widths []float64, cells ...string) {
	for i, c := range cells {
		w.pdf.CellFormat(widths[i], height, w.translate(c), "1", 0, "L", false, 0, "")
	}
	w.pdf.Ln(-1)
}

func Render(out io.Writer, ev *evaluation.Evaluation, opts Options) error {
	if ev == nil {
		return fmt.Errorf("render evaluation: nothing to render")
	}
	w := newWriter(opts)
	h := ev.Header
	w.pdf.SetTitle("Evaluation "+h.EvaluationID, true)
	w.pdf.AddPage()

	w.font("B", 16)
	w.line(10, "Evaluation Sheet "+h.EvaluationID)
	w.pdf.Ln(2)

	w.font("", 10)
	w.line(6, fmt.Sprintf("Period: %s (%s - %s)", h.Period, h.PeriodFrom, h.PeriodTo))
	w.line(6, fmt.Sprintf("Evaluee: %s %s / %s / grade %s", h.EvalueeID, h.EvalueeName, h.EvalueeDepartment, h.EvalueeGrade))
	w.line(6, fmt.Sprintf("Evaluators: 1 %s / 2 %s / 3 %s", h.Eval1Name, h.Eval2Name, h.Eval3Name))
	w.line(6, "Status: "+h.Status)
	w.pdf.Ln(3)

	widths := []float64{18, 62, 14, 22, 22, 22, 22}
	w.font("B", 9)
	w.row(7, widths, "ID", "Item", "Max", "Self", "Eval 1", "Eval 2", "Eval 3")
	w.font("", 9)
	for _, item := range ev.Items {
		d := ev.Details[item.ID]
		w.row(7, widths,
			item.ID,
			truncate(item.Item, 40),
			formatNumber(item.MaxScore),
			scoreText(d.Score.Evaluee),
			scoreText(d.Score.Eval1),
			scoreText(d.Score.Eval2),
			scoreText(d.Score.Eval3),
		)
	}
	w.pdf.Ln(4)

	w.font("B", 11)
	w.line(7, "Comments")
	w.font("", 10)
	comments := []struct{ label, text string }{
		{"Self", h.Comments.Evaluee},
		{"Evaluator 1", h.Comments.Eval1},
		{"Evaluator 2", h.Comments.Eval2},
		{"Evaluator 3", h.Comments.Eval3},
	}
	for _, c := range comments {
		text := strings.TrimSpace(c.text)
		if text == "" {
			text = "-"
		}
		w.pdf.MultiCell(0, 6, w.translate(c.label+": "+text), "", "L", false)
	}

	return w.pdf.Output(out)
}

func scoreText(s evaluation.Score) string {
	if !s.Set {
		return "-"
	}
	return formatNumber(s.Value)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
