package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"

	"github.com/lululau/tripcal/internal/calendar"
	"github.com/lululau/tripcal/internal/picker"
)

var (
	labelStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	fieldStyle        = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder(), false, false, true, false)
	focusedFieldStyle = fieldStyle.BorderForeground(lipgloss.Color("#FEC260")).Bold(true)
)

// FieldLabels are the captions of the two bound inputs.
var FieldLabels = map[picker.Field]string{
	picker.Depart: "出发日期",
	picker.Return: "返程日期",
}

// PlainOptions controls how the non-interactive renderer behaves.
type PlainOptions struct {
	Writer     io.Writer
	Service    *calendar.Service
	Controller *picker.Controller
	Form       *Form
	Width      int
}

// RunPlain prints the bound inputs and the months of both selections once.
func RunPlain(opts PlainOptions) error {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Service == nil {
		opts.Service = calendar.NewService()
	}
	if opts.Controller == nil || opts.Form == nil {
		return errors.New("render: plain output needs a controller and its form")
	}

	views, err := selectionViews(opts.Service, opts.Controller)
	if err != nil {
		return err
	}
	width := opts.Width
	if width == 0 {
		width = DetectWidth()
	}
	blocks := BuildBlocks(views, Marks{})

	var sb strings.Builder
	sb.WriteString(Fields(opts.Form, -1))
	sb.WriteString("\n\n")
	sb.WriteString(Layout(blocks, width))
	if opts.Service.HasHolidayData() {
		sb.WriteString("\n\n")
		sb.WriteString(ColorLegend())
	}
	_, err = fmt.Fprintln(opts.Writer, sb.String())
	return err
}

// Fields renders both bound inputs with the text the user sees. focus is
// the highlighted field, or -1 for none.
func Fields(form *Form, focus picker.Field) string {
	parts := make([]string, 0, 2)
	for _, f := range []picker.Field{picker.Depart, picker.Return} {
		text := form.Input(f.InputID())
		if text == "" {
			text = "MM/DD/YYYY"
		}
		label := FieldLabels[f]
		if noColorMode {
			marker := " "
			if f == focus {
				marker = ">"
			}
			parts = append(parts, fmt.Sprintf("%s%s [%s]", marker, label, text))
			continue
		}
		style := fieldStyle
		if f == focus {
			style = focusedFieldStyle
		}
		parts = append(parts, lipgloss.JoinVertical(lipgloss.Left, labelStyle.Render(label), style.Render(text)))
	}
	if noColorMode {
		return strings.Join(parts, "   ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts[0], "    ", parts[1])
}

// DetectWidth tries to determine the terminal width, falling back to 100 cols.
func DetectWidth() int {
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) {
		if w, _, err := term.GetSize(int(fd)); err == nil {
			return w
		}
	}
	return 100
}

func selectionViews(svc *calendar.Service, c *picker.Controller) ([]calendar.MonthView, error) {
	depart, ret := c.Dates()
	window := c.Bounds().Window()
	months := []calendar.YearMonth{depart.YearMonth()}
	if ret.YearMonth() != depart.YearMonth() {
		months = append(months, ret.YearMonth())
	}
	views := make([]calendar.MonthView, 0, len(months))
	for _, ym := range months {
		view, err := svc.Month(ym, window, calendar.Date{})
		if err != nil {
			return nil, err
		}
		markSelected(&view, depart, ret)
		views = append(views, view)
	}
	return views, nil
}

// markSelected flags both trip dates in a view.
func markSelected(view *calendar.MonthView, dates ...calendar.Date) {
	for _, week := range view.Weeks {
		for i := range week {
			for _, d := range dates {
				if week[i].Date == d {
					week[i].Selected = true
				}
			}
		}
	}
}
