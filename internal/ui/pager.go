package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"
)

// Pager shows long output one screen at a time.
type Pager struct {
	out     io.Writer
	title   string
	enabled bool
	st      styles
}

// NewPager creates a pager writing to out. With enabled false, or when out
// is not a terminal, Page writes straight through.
func NewPager(out io.Writer, title string, enabled, color bool) *Pager {
	return &Pager{out: out, title: title, enabled: enabled, st: newStyles(out, color)}
}

// Page displays text. Text that fits on one screen is printed directly.
func (p *Pager) Page(text string) error {
	width, height, ok := p.terminalSize()
	if !ok || lineCount(text) < height {
		_, err := io.WriteString(p.out, text)
		return err
	}

	m := newPagerModel(p.title, text, p.st)
	m.resize(width, height)

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithOutput(p.out))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("pager: %w", err)
	}
	return nil
}

// terminalSize reports the size of out when paging applies.
func (p *Pager) terminalSize() (width, height int, ok bool) {
	if !p.enabled {
		return 0, 0, false
	}
	f, isFile := p.out.(*os.File)
	if !isFile || !term.IsTerminal(int(f.Fd())) {
		return 0, 0, false
	}
	width, height, err := term.GetSize(int(f.Fd()))
	if err != nil || height < 3 {
		return 0, 0, false
	}
	return width, height, true
}

func lineCount(s string) int {
	return strings.Count(strings.TrimRight(s, "\n"), "\n") + 1
}

// pagerModel is the bubbletea model behind Pager.
type pagerModel struct {
	title    string
	viewport viewport.Model
	st       styles
	width    int
}

func newPagerModel(title, content string, st styles) pagerModel {
	vp := viewport.New(80, 20)
	vp.SetContent(strings.TrimRight(content, "\n"))
	return pagerModel{title: title, viewport: vp, st: st, width: 80}
}

// resize leaves one line each for the header and footer.
func (m *pagerModel) resize(width, height int) {
	m.width = width
	m.viewport.Width = width
	m.viewport.Height = max(height-2, 1)
}

func (m pagerModel) Init() tea.Cmd {
	return nil
}

func (m pagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m pagerModel) View() string {
	header := m.st.header.Render(ansi.Truncate(m.title, max(m.width-2, 1), "…"))
	footer := m.st.footer.Render(fmt.Sprintf("%3.f%%  q quit  ↑/↓ scroll", m.viewport.ScrollPercent()*100))
	return header + "\n" + m.viewport.View() + "\n" + footer
}
