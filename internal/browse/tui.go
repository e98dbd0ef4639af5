package browse

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/amishk599/codedesc/internal/model"
	"github.com/amishk599/codedesc/internal/report"
)

// Lines per entry in the list view (path + meta + blank separator).
const entryItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	entryPathStyle = lipgloss.NewStyle().
			Bold(true)

	entryMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	selectedPathStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedMetaStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(14)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// RefreshFunc describes the entry's file again and returns the updated entry.
type RefreshFunc func(ctx context.Context, entry model.Entry) (model.Entry, error)

// entryRefreshedMsg is sent when an async re-describe completes.
type entryRefreshedMsg struct {
	entry model.Entry
	err   error
}

type browseModel struct {
	entries      []model.Entry
	listViewport viewport.Model
	cursor       int
	width        int
	height       int
	ready        bool

	view           viewState
	detailEntry    model.Entry
	detailViewport viewport.Model

	refresh        RefreshFunc
	refreshLoading bool
	refreshError   string
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		if m.view == viewDetail {
			m.detailViewport.Width = m.width - 4
			m.detailViewport.Height = m.height - 4
			m.detailViewport.SetContent(m.renderDetail())
		}
		return m, nil

	case entryRefreshedMsg:
		m.refreshLoading = false
		if msg.err != nil {
			m.refreshError = fmt.Sprintf("describe failed: %v", msg.err)
		} else {
			m.refreshError = ""
			m.detailEntry = msg.entry
			m.updateEntry(msg.entry)
		}
		m.detailViewport.SetContent(m.renderDetail())
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}

	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	var cmd tea.Cmd
	m.listViewport, cmd = m.listViewport.Update(msg)
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		m.recalcContent()
		return m, nil
	case "r":
		if m.refresh != nil && !m.refreshLoading {
			m.refreshLoading = true
			m.refreshError = ""
			m.detailViewport.SetContent(m.renderDetail())
			return m, m.refreshCmd(m.detailEntry)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m browseModel) refreshCmd(entry model.Entry) tea.Cmd {
	refresh := m.refresh
	return func() tea.Msg {
		updated, err := refresh(context.Background(), entry)
		return entryRefreshedMsg{entry: updated, err: err}
	}
}

func (m *browseModel) moveCursor(delta int) {
	m.cursor = clamp(m.cursor+delta, 0, max(len(m.entries)-1, 0))
	m.recalcContent()

	top := m.cursor * entryItemHeight
	bottom := top + entryItemHeight - 1
	if top < m.listViewport.YOffset {
		m.listViewport.SetYOffset(top)
	} else if bottom >= m.listViewport.YOffset+m.listViewport.Height {
		m.listViewport.SetYOffset(bottom - m.listViewport.Height + 1)
	}
}

func (m browseModel) openDetailView() (tea.Model, tea.Cmd) {
	if len(m.entries) == 0 {
		return m, nil
	}
	m.view = viewDetail
	m.detailEntry = m.entries[m.cursor]
	m.refreshError = ""
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *browseModel) updateEntry(entry model.Entry) {
	for i := range m.entries {
		if m.entries[i].Path == entry.Path {
			m.entries[i] = entry
			return
		}
	}
}

func (m *browseModel) recalcLayout() {
	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	width := max(m.width-2, 20)
	height := max(m.height-4, 5)

	if !m.ready {
		m.listViewport = viewport.New(width, height)
		m.ready = true
	} else {
		m.listViewport.Width = width
		m.listViewport.Height = height
	}
	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	m.listViewport.SetContent(renderEntries(m.entries, m.cursor))
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		return m.viewDetail()
	}
	return m.viewList()
}

func (m browseModel) viewList() string {
	header := headerStyle.Render(fmt.Sprintf("Indexed files (%d)", len(m.entries)))
	pane := borderStyle.Width(m.listViewport.Width).Render(m.listViewport.View())
	status := statusBarStyle.Width(m.width).Render(" ↑/↓ cursor  enter detail  q quit")
	return header + "\n" + pane + "\n" + status
}

func (m browseModel) viewDetail() string {
	title := headerStyle.Render(m.detailEntry.Path)
	if m.refreshLoading {
		title += "  (describing...)"
	}
	content := borderStyle.Width(m.width - 2).Render(m.detailViewport.View())

	statusText := " esc/backspace back  ↑/↓ scroll  q quit"
	if m.refresh != nil {
		statusText = " r describe again  esc/backspace back  ↑/↓ scroll  q quit"
	}
	status := statusBarStyle.Width(m.width).Render(statusText)
	return title + "\n" + content + "\n" + status
}

func (m browseModel) renderDetail() string {
	e := m.detailEntry
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	addField("Path", e.Path)
	addField("Size", humanize.Bytes(uint64(e.Size)))
	addField("Provider", e.Provider)
	if !e.DescribedAt.IsZero() {
		addField("Described", humanize.Time(e.DescribedAt))
	}
	addField("Run", e.RunID)

	b.WriteByte('\n')
	b.WriteString(wordWrap(report.FormatDescription(e.Description), max(m.width-8, 20)))
	b.WriteByte('\n')

	if m.refreshLoading {
		b.WriteString("\n" + hintStyle.Render("  describing file...") + "\n")
	}
	if m.refreshError != "" {
		b.WriteString("\n" + errorStyle.Render("⚠ "+m.refreshError) + "\n")
	}
	return b.String()
}

func renderEntries(entries []model.Entry, cursor int) string {
	if len(entries) == 0 {
		return "  (no indexed files)"
	}

	var b strings.Builder
	for i, e := range entries {
		pathSt, metaSt, prefix := entryPathStyle, entryMetaStyle, "  "
		if i == cursor {
			pathSt, metaSt, prefix = selectedPathStyle, selectedMetaStyle, "> "
		}

		b.WriteString(prefix)
		b.WriteString(pathSt.Render(e.Path))
		b.WriteByte('\n')

		meta := humanize.Bytes(uint64(e.Size))
		if e.Provider != "" {
			meta += " · " + e.Provider
		}
		b.WriteString(prefix)
		b.WriteString(metaSt.Render(meta))
		b.WriteByte('\n')

		if i < len(entries)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Run launches the browse TUI over entries. refresh may be nil, which hides
// the describe-again action.
func Run(entries []model.Entry, refresh RefreshFunc) error {
	m := browseModel{
		entries: entries,
		refresh: refresh,
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
