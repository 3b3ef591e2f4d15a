package browse

import (
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobscout/internal/model"
)

var (
	pickerTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 2)

	pickerItemStyle = lipgloss.NewStyle().
			Padding(0, 0, 0, 4)

	pickerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 0, 0, 2)

	pickerHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Padding(1, 0, 0, 2)
)

// CompanyCount is one picker entry. An empty Name stands for all companies.
type CompanyCount struct {
	Name  string
	Count int
}

// Companies lists every company in postings, most postings first, preceded
// by an entry for all postings.
func Companies(postings []model.Posting) []CompanyCount {
	counts := make(map[string]int)
	for _, p := range postings {
		counts[p.Company]++
	}

	out := make([]CompanyCount, 0, len(counts)+1)
	for name, n := range counts {
		out = append(out, CompanyCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return append([]CompanyCount{{Count: len(postings)}}, out...)
}

// ByCompany returns the postings from company, or all of them when company is empty.
func ByCompany(postings []model.Posting, company string) []model.Posting {
	if company == "" {
		return postings
	}
	var out []model.Posting
	for _, p := range postings {
		if p.Company == company {
			out = append(out, p)
		}
	}
	return out
}

type pickerModel struct {
	companies []CompanyCount
	cursor    int
	chosen    int // -1 = no choice yet, -2 = quit
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.chosen = -2
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.companies)-1 {
				m.cursor++
			}
		case "enter":
			m.chosen = m.cursor
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	s := pickerTitleStyle.Render("Browse postings: select a company")
	s += "\n"

	for i, c := range m.companies {
		name := c.Name
		if name == "" {
			name = "All companies"
		}
		label := fmt.Sprintf("%s (%d)", name, c.Count)
		if i == m.cursor {
			s += pickerSelectedStyle.Render("> "+label) + "\n"
		} else {
			s += pickerItemStyle.Render(label) + "\n"
		}
	}

	s += pickerHintStyle.Render("↑/↓/j/k navigate  enter select  q quit")
	return s
}

// RunCompanyPicker shows an interactive company selector.
// Returns the index of the chosen entry, or -1 if the user quit.
func RunCompanyPicker(companies []CompanyCount) (int, error) {
	m := pickerModel{
		companies: companies,
		chosen:    -1,
	}

	p := tea.NewProgram(m)
	result, err := p.Run()
	if err != nil {
		return -1, err
	}

	final := result.(pickerModel)
	if final.chosen < 0 {
		return -1, nil
	}
	return final.chosen, nil
}
