package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lululau/tripcal/internal/calendar"
	"github.com/lululau/tripcal/internal/textwidth"
)

const (
	cellPadding = 1
	blockGap    = 3
)

var (
	noColorMode bool // Global flag to disable all color output
)

// SetNoColor sets the global no-color flag
func SetNoColor(disable bool) {
	noColorMode = disable
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FEC260"))
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A5B4FC"))
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4B5563"))
	todayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#34D399"))
	holidayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	workdayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	overlayStyle  = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#475569")).
			Padding(0, 1)
)

var weekdays = []string{"日", "一", "二", "三", "四", "五", "六"}

// MonthBlock packages rendered lines with their visual width/height.
type MonthBlock struct {
	Lines  []string
	Width  int
	Height int
}

// Marks carries the picker state that the month grid alone does not know.
type Marks struct {
	// Cursor is underlined when it falls inside the month.
	Cursor calendar.Date
	// Selectable overrides Day.Selectable when set.
	Selectable func(calendar.Date) bool
	// Overlay draws the border and the pagination arrows of an open picker.
	Overlay bool
}

// BuildBlocks converts month views into renderable blocks.
func BuildBlocks(views []calendar.MonthView, marks Marks) []MonthBlock {
	blocks := make([]MonthBlock, len(views))
	for i, view := range views {
		blocks[i] = BuildBlock(view, marks)
	}
	return blocks
}

// BuildBlock renders one month grid.
func BuildBlock(view calendar.MonthView, marks Marks) MonthBlock {
	colWidth := determineColumnWidth(view) + cellPadding*2
	lunar := hasLunar(view)

	rows := make([]string, 0, len(view.Weeks)*2+1)
	header := make([]string, len(weekdays))
	for i, name := range weekdays {
		header[i] = styled(headerStyle, textwidth.PadRight(pad(name), colWidth))
	}
	rows = append(rows, strings.Join(header, ""))

	for _, week := range view.Weeks {
		numbers := make([]string, len(week))
		labels := make([]string, len(week))
		for i, day := range week {
			numbers[i], labels[i] = renderCell(day, marks, colWidth)
		}
		rows = append(rows, strings.Join(numbers, ""))
		if lunar {
			rows = append(rows, strings.Join(labels, ""))
		}
	}

	title := view.Title
	if marks.Overlay {
		title = "‹  " + title + "  ›"
	}
	grid := strings.Join(rows, "\n")
	if marks.Overlay && !noColorMode {
		grid = overlayStyle.Render(grid)
	}
	title = textwidth.Center(title, textwidth.StringWidth(grid))
	lines := append([]string{styled(titleStyle, title), ""}, strings.Split(grid, "\n")...)

	width := 0
	for _, line := range lines {
		width = max(width, textwidth.StringWidth(line))
	}
	return MonthBlock{
		Lines:  lines,
		Width:  width,
		Height: len(lines),
	}
}

// Layout places blocks side by side while they fit in width and wraps onto
// new rows otherwise.
func Layout(blocks []MonthBlock, width int) string {
	if len(blocks) == 0 {
		return ""
	}
	var rows [][]MonthBlock
	var current []MonthBlock
	used := 0
	for _, block := range blocks {
		need := block.Width
		if len(current) > 0 {
			need += blockGap
		}
		if len(current) > 0 && used+need > width {
			rows = append(rows, current)
			current, used, need = nil, 0, block.Width
		}
		current = append(current, block)
		used += need
	}
	rows = append(rows, current)

	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, joinRow(row))
	}
	return strings.Join(out, "\n\n")
}

func joinRow(row []MonthBlock) string {
	height := 0
	for _, block := range row {
		height = max(height, block.Height)
	}
	lines := make([]string, height)
	for i := range lines {
		var sb strings.Builder
		for j, block := range row {
			line := ""
			if i < len(block.Lines) {
				line = block.Lines[i]
			}
			if j < len(row)-1 {
				line = textwidth.PadRight(line, block.Width+blockGap)
			}
			sb.WriteString(line)
		}
		lines[i] = strings.TrimRight(sb.String(), " ")
	}
	return strings.Join(lines, "\n")
}

func renderCell(day calendar.Day, marks Marks, colWidth int) (number, label string) {
	if !day.InMonth {
		blank := strings.Repeat(" ", colWidth)
		return blank, blank
	}
	selectable := day.Selectable
	if marks.Selectable != nil {
		selectable = marks.Selectable(day.Date)
	}
	isCursor := marks.Overlay && day.Date == marks.Cursor

	text := fmt.Sprintf("%2d", day.Date.Day)
	if noColorMode {
		switch {
		case day.Selected:
			text = "[" + text + "]"
		case isCursor:
			text = "(" + text + ")"
		case !selectable:
			text = " --"
		}
	}
	number = textwidth.PadRight(pad(text), colWidth)
	label = textwidth.PadRight(pad(day.SecondaryLabel()), colWidth)
	if noColorMode {
		return number, label
	}

	style := lipgloss.NewStyle()
	switch {
	case !selectable:
		style = disabledStyle
	case day.HolidayInfo != nil && day.HolidayInfo.IsHoliday:
		style = holidayStyle
	case day.HolidayInfo != nil:
		style = workdayStyle
	case day.IsToday:
		style = todayStyle
	}
	if day.Selected {
		style = style.Bold(true).Reverse(true)
	}
	if isCursor {
		style = style.Underline(true)
	}
	return style.Render(number), style.Render(label)
}

func determineColumnWidth(view calendar.MonthView) int {
	width := 4
	for _, week := range view.Weeks {
		for _, day := range week {
			if day.InMonth {
				width = max(width, textwidth.StringWidth(day.SecondaryLabel()))
			}
		}
	}
	return width
}

func hasLunar(view calendar.MonthView) bool {
	for _, week := range view.Weeks {
		for _, day := range week {
			if day.HasLunarData() {
				return true
			}
		}
	}
	return false
}

func pad(s string) string {
	return strings.Repeat(" ", cellPadding) + s
}

func styled(style lipgloss.Style, s string) string {
	if noColorMode {
		return s
	}
	return style.Render(s)
}

// HelpLine describes the interactive key bindings.
func HelpLine() string {
	helpText := "tab 切换字段  enter 打开/选择  ←↑↓→ 移动  k/[ 上个月  j/] 下个月  d 输入日期  esc 关闭  q 退出"
	return styled(helpStyle, helpText)
}

// ColorLegend returns a legend explaining the color coding for holidays.
func ColorLegend() string {
	legend := "蓝色=节假日  橙色=调休日  灰色=不可选"
	if noColorMode {
		return legend
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Render(legend)
}
