package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lululau/tripcal/internal/calendar"
	"github.com/lululau/tripcal/internal/picker"
	"github.com/lululau/tripcal/internal/render"
)

var (
	noColorMode bool // Global flag to disable all color output
)

// SetNoColor sets the global no-color flag
func SetNoColor(disable bool) {
	noColorMode = disable
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F97316"))
	noteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// Options wires the interactive form to a picker session.
type Options struct {
	Context    context.Context
	Service    *calendar.Service
	Controller *picker.Controller
	Form       *render.Form
}

// Run starts the interactive Bubble Tea UI and blocks until the user quits.
func Run(opts Options) error {
	m, err := newModel(opts)
	if err != nil {
		return err
	}
	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err = prog.Run()
	return err
}

type model struct {
	ctx       context.Context
	svc       *calendar.Service
	ctrl      *picker.Controller
	form      *render.Form
	focus     picker.Field
	width     int
	inputMode bool
	input     textinput.Model
	statusMsg string
}

func newModel(opts Options) (model, error) {
	if opts.Controller == nil || opts.Form == nil {
		return model{}, errors.New("tui: a controller and its form are required")
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Service == nil {
		opts.Service = calendar.NewService()
	}
	ti := textinput.New()
	ti.Placeholder = "日"
	ti.CharLimit = 2
	ti.Prompt = "> "
	return model{
		ctx:   opts.Context,
		svc:   opts.Service,
		ctrl:  opts.Controller,
		form:  opts.Form,
		focus: picker.Depart,
		input: ti,
	}, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		if m.inputMode {
			return m.handleInputKey(msg)
		}
		m.statusMsg = ""
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "tab", "shift+tab":
			m.switchField()
		case "enter", " ":
			m.commit()
		case "esc":
			m.report(m.ctrl.Dismiss(m.focus))
		case "left", "h":
			m.moveCursor(-1)
		case "right", "l":
			m.moveCursor(1)
		case "up":
			m.moveCursor(-7)
		case "down":
			m.moveCursor(7)
		case "k", "[":
			m.report(m.ctrl.PrevMonth(m.ctx, m.focus))
		case "j", "]":
			m.report(m.ctrl.NextMonth(m.ctx, m.focus))
		case "d":
			m.activateInput()
		}
	}
	return m, nil
}

func (m *model) widget() *picker.Widget {
	return m.ctrl.Widget(m.focus)
}

func (m *model) surface() *render.Surface {
	return m.form.Surface(m.focus.InputID())
}

func (m *model) switchField() {
	m.report(m.ctrl.Dismiss(m.focus))
	if m.focus == picker.Depart {
		m.focus = picker.Return
	} else {
		m.focus = picker.Depart
	}
}

func (m *model) moveCursor(delta int) {
	if !m.widget().IsOpen() {
		return
	}
	m.surface().MoveCursor(delta)
}

// commit opens the focused calendar, or selects the day under the cursor
// when it is already open.
func (m *model) commit() {
	if !m.widget().IsOpen() {
		m.report(m.ctrl.Open(m.ctx, m.focus))
		return
	}
	m.selectDay(m.surface().Cursor())
}

func (m *model) selectDay(d calendar.Date) {
	if !m.widget().Selectable(d) {
		m.statusMsg = d.Format() + " 不可选"
		return
	}
	if err := m.ctrl.Select(m.ctx, m.focus, d.Day); err != nil {
		m.report(err)
		return
	}
	m.report(m.ctrl.Dismiss(m.focus))
	if m.focus == picker.Depart {
		m.focus = picker.Return
	}
}

func (m *model) report(err error) {
	if err == nil {
		return
	}
	switch {
	case errors.Is(err, picker.ErrRenderTimeout):
		m.statusMsg = "日历未能及时刷新: " + err.Error()
	case errors.Is(err, picker.ErrSessionClosed):
		m.statusMsg = "会话已结束"
	default:
		m.statusMsg = err.Error()
	}
}

func (m model) View() string {
	if m.inputMode {
		return m.inputView()
	}

	sb := strings.Builder{}
	sb.WriteString(render.Fields(m.form, m.focus))
	if m.widget().IsOpen() {
		body, err := m.renderCalendar()
		if err != nil {
			body = err.Error()
		}
		sb.WriteString("\n\n")
		sb.WriteString(body)
	}
	sb.WriteString("\n\n")
	sb.WriteString(render.HelpLine())
	if m.svc.HasHolidayData() {
		sb.WriteString("\n")
		sb.WriteString(render.ColorLegend())
	}
	if m.statusMsg != "" {
		sb.WriteString("\n")
		if noColorMode {
			sb.WriteString(m.statusMsg)
		} else {
			sb.WriteString(statusStyle.Render(m.statusMsg))
		}
	}
	if !m.svc.HasHolidayData() {
		note := "\n未找到节假日数据，使用 --holidays-file 指定 JSON 文件以标注节假日"
		if noColorMode {
			sb.WriteString(note)
		} else {
			sb.WriteString(noteStyle.Render(note))
		}
	}
	return sb.String()
}

func (m model) renderCalendar() (string, error) {
	surface := m.surface()
	widget := m.widget()
	highlighted, _ := surface.HighlightedDate()
	view, err := m.svc.Month(surface.DisplayedMonth(), widget.Window(), highlighted)
	if err != nil {
		return "", err
	}
	block := render.BuildBlock(view, render.Marks{
		Cursor:     surface.Cursor(),
		Selectable: widget.Selectable,
		Overlay:    true,
	})
	width := m.width
	if width <= 0 {
		width = 100
	}
	return render.Layout([]render.MonthBlock{block}, width), nil
}

func (m model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.inputMode = false
		m.statusMsg = ""
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.applyInput()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *model) activateInput() {
	m.inputMode = true
	m.input.SetValue("")
	m.input.CursorEnd()
	m.input.Focus()
	m.statusMsg = ""
}

// applyInput selects the typed day of the displayed month, opening the
// focused calendar first when needed.
func (m *model) applyInput() {
	value := strings.TrimSpace(m.input.Value())
	if value == "" {
		m.statusMsg = "请输入日期数字"
		return
	}
	day, err := strconv.Atoi(value)
	if err != nil {
		m.statusMsg = "无效的日期"
		return
	}
	m.inputMode = false
	m.input.Blur()

	if !m.widget().IsOpen() {
		if err := m.ctrl.Open(m.ctx, m.focus); err != nil {
			m.report(err)
			return
		}
	}
	d, ok := m.widget().DisplayedMonth().Day(day)
	if !ok {
		m.statusMsg = "本月没有 " + value + " 日"
		return
	}
	m.selectDay(d)
}

func (m model) inputView() string {
	label := "输入" + render.FieldLabels[m.focus] + "的日 (回车确认 / Esc 取消)"
	if noColorMode {
		return label + "\n\n" + m.input.View()
	}
	return lipgloss.NewStyle().
		Bold(true).
		Render(label) + "\n\n" + m.input.View()
}
