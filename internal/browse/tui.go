package browse

import (
	"fmt"
	"os/exec"
	"runtime"
	"slices"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobscout/internal/model"
)

const timeLayout = "2006-01-02 15:04 MST"

// Lines per posting in the list view (title + subtitle + blank separator).
const postingItemHeight = 3

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("39")) // bright blue

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")) // dim gray

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	activeHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("39"))

	inactiveHeaderStyle = headerStyle.
				Foreground(lipgloss.Color("240"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	postingTitleStyle = lipgloss.NewStyle().
				Bold(true)

	postingSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")). // bright white
				Background(lipgloss.Color("24"))  // dark blue bg

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	detailLabelStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Width(16)

	detailValueStyle = lipgloss.NewStyle()

	detailTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				MarginBottom(1)

	descDividerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240"))

	descHintStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("245")).
				Italic(true)

	descBodyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))
)

type browseModel struct {
	all           []model.Posting
	matched       []model.Posting
	leftViewport  viewport.Model
	rightViewport viewport.Model
	activePane    int // 0=left, 1=right
	leftCursor    int
	rightCursor   int
	width         int
	height        int
	ready         bool

	// Detail view state
	view            viewState
	detail          model.Posting
	detailViewport  viewport.Model
	showDescription bool

	openFn   func(url string)
	wantQuit bool
}

func newBrowseModel(all, matched []model.Posting) browseModel {
	all = slices.Clone(all)
	matched = slices.Clone(matched)
	sortNewestFirst(all)
	sortNewestFirst(matched)
	return browseModel{
		all:     all,
		matched: matched,
		openFn:  openURL,
	}
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
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "b":
		m.wantQuit = false
		return m, tea.Quit
	case "tab", "left", "right":
		m.activePane = 1 - m.activePane
		m.recalcContent()
		return m, nil
	case "up", "k":
		m.moveCursor(-1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.moveCursor(1)
		m.recalcContent()
		m.ensureCursorVisible()
		return m, nil
	case "enter":
		return m.openDetailView()
	}

	// Forward other keys (pgup/pgdn/home/end) to the active viewport.
	var cmd tea.Cmd
	if m.activePane == 0 {
		m.leftViewport, cmd = m.leftViewport.Update(msg)
	} else {
		m.rightViewport, cmd = m.rightViewport.Update(msg)
	}
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.wantQuit = true
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		if m.openFn != nil {
			m.openFn(m.detail.URL)
		}
		return m, nil
	case "r":
		if m.detail.Description != "" {
			m.showDescription = !m.showDescription
			m.detailViewport.SetContent(m.renderDetail())
			m.detailViewport.SetYOffset(0)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.detailViewport, cmd = m.detailViewport.Update(msg)
	return m, cmd
}

func (m *browseModel) moveCursor(delta int) {
	if m.activePane == 0 {
		m.leftCursor = clamp(m.leftCursor+delta, 0, max(len(m.all)-1, 0))
	} else {
		m.rightCursor = clamp(m.rightCursor+delta, 0, max(len(m.matched)-1, 0))
	}
}

func (m *browseModel) ensureCursorVisible() {
	var vp *viewport.Model
	var cursor int
	if m.activePane == 0 {
		vp = &m.leftViewport
		cursor = m.leftCursor
	} else {
		vp = &m.rightViewport
		cursor = m.rightCursor
	}

	cursorTop := cursor * postingItemHeight
	cursorBottom := cursorTop + postingItemHeight - 1

	if cursorTop < vp.YOffset {
		vp.SetYOffset(cursorTop)
	} else if cursorBottom >= vp.YOffset+vp.Height {
		vp.SetYOffset(cursorBottom - vp.Height + 1)
	}
}

func (m browseModel) openDetailView() (tea.Model, tea.Cmd) {
	postings := m.activePostings()
	if len(postings) == 0 {
		return m, nil
	}

	m.view = viewDetail
	m.detail = postings[m.activeCursor()]
	m.showDescription = false
	m.detailViewport = viewport.New(m.width-4, m.height-4)
	m.detailViewport.SetContent(m.renderDetail())
	return m, nil
}

func (m *browseModel) recalcLayout() {
	// 2 border chars per pane + 1 gap between panes.
	paneWidth := max((m.width-5)/2, 20)

	// Header (1 line) + border top/bottom (2) + status bar (1) = 4 lines overhead.
	paneHeight := max(m.height-4, 5)

	if !m.ready {
		m.leftViewport = viewport.New(paneWidth, paneHeight)
		m.rightViewport = viewport.New(paneWidth, paneHeight)
		m.ready = true
	} else {
		m.leftViewport.Width = paneWidth
		m.leftViewport.Height = paneHeight
		m.rightViewport.Width = paneWidth
		m.rightViewport.Height = paneHeight
	}

	m.recalcContent()
}

func (m *browseModel) recalcContent() {
	m.leftViewport.SetContent(renderPostings(m.all, m.leftCursor, m.activePane == 0))
	m.rightViewport.SetContent(renderPostings(m.matched, m.rightCursor, m.activePane == 1))
}

func (m browseModel) activePostings() []model.Posting {
	if m.activePane == 0 {
		return m.all
	}
	return m.matched
}

func (m browseModel) activeCursor() int {
	if m.activePane == 0 {
		return m.leftCursor
	}
	return m.rightCursor
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
	paneWidth := m.leftViewport.Width

	leftHeader := fmt.Sprintf(" All Postings (%d)", len(m.all))
	rightHeader := fmt.Sprintf(" Matched Postings (%d)", len(m.matched))

	var leftHeaderRendered, rightHeaderRendered string
	var leftBorder, rightBorder lipgloss.Style

	if m.activePane == 0 {
		leftHeaderRendered = activeHeaderStyle.Render(leftHeader)
		rightHeaderRendered = inactiveHeaderStyle.Render(rightHeader)
		leftBorder = activeBorderStyle.Width(paneWidth)
		rightBorder = inactiveBorderStyle.Width(paneWidth)
	} else {
		leftHeaderRendered = inactiveHeaderStyle.Render(leftHeader)
		rightHeaderRendered = activeHeaderStyle.Render(rightHeader)
		leftBorder = inactiveBorderStyle.Width(paneWidth)
		rightBorder = activeBorderStyle.Width(paneWidth)
	}

	leftPane := leftBorder.Render(m.leftViewport.View())
	rightPane := rightBorder.Render(m.rightViewport.View())

	headerRow := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(paneWidth+2).Render(leftHeaderRendered),
		" ",
		lipgloss.NewStyle().Width(paneWidth+2).Render(rightHeaderRendered),
	)

	panes := lipgloss.JoinHorizontal(lipgloss.Top, leftPane, " ", rightPane)

	statusText := fmt.Sprintf(" %d total | %d matched | %d filtered out    ←/→/Tab switch  ↑/↓ cursor  Enter detail  Esc back  q quit",
		len(m.all), len(m.matched), len(m.all)-len(m.matched))
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return headerRow + "\n" + panes + "\n" + statusBar
}

func (m browseModel) viewDetail() string {
	title := detailTitleStyle.Render("Posting Details")

	border := activeBorderStyle.Width(m.width - 2)
	content := border.Render(m.detailViewport.View())

	statusText := " o open URL  esc/backspace back  ↑/↓ scroll  q quit"
	if m.detail.Description != "" {
		statusText = " o open URL  r desc  esc/backspace back  ↑/↓ scroll  q quit"
	}
	statusBar := statusBarStyle.Width(m.width).Render(statusText)

	return title + "\n" + content + "\n" + statusBar
}

func (m browseModel) renderDetail() string {
	p := m.detail
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(detailLabelStyle.Render(label))
		b.WriteString(detailValueStyle.Render(value))
		b.WriteByte('\n')
	}

	addField("Title", p.Title)
	addField("Company", p.Company)
	addField("Location", p.Location)
	addField("Salary", formatSalary(p))
	addField("Source", p.Source)

	b.WriteByte('\n')
	if !p.CreatedAt.IsZero() {
		addField("First Seen", p.CreatedAt.UTC().Format(timeLayout))
	}
	if !p.LastSeenAt.IsZero() {
		addField("Last Seen", p.LastSeenAt.UTC().Format(timeLayout))
	}

	b.WriteByte('\n')
	addField("URL", p.URL)

	wrapWidth := max(m.width-8, 20)
	if p.Description != "" {
		b.WriteByte('\n')
		if m.showDescription {
			label := "── Description "
			fill := strings.Repeat("─", max(wrapWidth-len(label), 3))
			b.WriteString(descDividerStyle.Render(label+fill) + "\n\n")
			b.WriteString(descBodyStyle.Render(wordWrap(extractText(p.Description), wrapWidth)) + "\n")
		} else {
			b.WriteString(descHintStyle.Render("  press r to read the description") + "\n")
		}
	}

	return b.String()
}

func renderPostings(postings []model.Posting, cursor int, isActive bool) string {
	if len(postings) == 0 {
		return "  (no postings)"
	}

	var b strings.Builder
	for i, p := range postings {
		isSelected := isActive && i == cursor

		titleSt := postingTitleStyle
		subtitleSt := postingSubtitleStyle
		prefix := "  "
		if isSelected {
			titleSt = selectedTitleStyle
			subtitleSt = selectedSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(p.Company + ": " + p.Title))
		b.WriteByte('\n')

		seen := "n/a"
		if !p.CreatedAt.IsZero() {
			seen = p.CreatedAt.UTC().Format("2006-01-02")
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s · %s", p.Location, seen)))
		b.WriteByte('\n')

		if i < len(postings)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sortNewestFirst(postings []model.Posting) {
	sort.SliceStable(postings, func(i, j int) bool {
		return postings[i].CreatedAt.After(postings[j].CreatedAt)
	})
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// RunBrowseTUI launches the split-pane browser: all postings on the left,
// postings passing the notification filter on the right. Returns
// wantQuit=true if the user pressed q/ctrl+c, false if they pressed esc to
// return to the picker.
func RunBrowseTUI(all, matched []model.Posting) (bool, error) {
	p := tea.NewProgram(newBrowseModel(all, matched), tea.WithAltScreen())
	result, err := p.Run()
	if err != nil {
		return false, err
	}
	final := result.(browseModel)
	return final.wantQuit, nil
}
