package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gridrule/pkg/grid"
	"github.com/matzehuels/gridrule/pkg/pipeline"
	"github.com/matzehuels/gridrule/pkg/task"
)

// Browser styles
var (
	tabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tabStyle       = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BrowserModel - Interactive task browser
// =============================================================================

// browserPage is one example of a task with everything known about it.
type browserPage struct {
	label      string
	input      grid.Grid
	output     *grid.Grid
	prediction *grid.Grid
}

// BrowserModel is the bubbletea model for paging through a task.
type BrowserModel struct {
	Title   string
	Summary string
	Pages   []browserPage
	Cursor  int

	palette palette
}

// newBrowserModel builds pages for t's training and test examples. When
// result is non-nil its predictions are shown next to the test inputs.
func newBrowserModel(t task.Task, result *pipeline.Result, p palette) BrowserModel {
	m := BrowserModel{Title: t.ID, palette: p}
	for i, ex := range t.Train {
		m.Pages = append(m.Pages, browserPage{
			label:  fmt.Sprintf("train %d/%d", i+1, len(t.Train)),
			input:  ex.Input,
			output: ex.Output,
		})
	}
	for i, ex := range t.Test {
		page := browserPage{
			label:  fmt.Sprintf("test %d/%d", i+1, len(t.Test)),
			input:  ex.Input,
			output: ex.Output,
		}
		if result != nil && i < len(result.Predictions) {
			page.prediction = &result.Predictions[i]
		}
		m.Pages = append(m.Pages, page)
	}
	if result != nil {
		m.Summary = fmt.Sprintf("%s · train %.0f%% · %s", result.Rule.Kind(), result.TrainScore*100, describeRule(result.Rule))
	}
	return m
}

func (m BrowserModel) Init() tea.Cmd {
	return nil
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h", "p":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "right", "l", "n", " ":
			if m.Cursor < len(m.Pages)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = len(m.Pages) - 1
		}
	}
	return m, nil
}

func (m BrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	if m.Summary != "" {
		b.WriteString(StyleDim.Render(m.Summary))
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render("←/→ page  q quit"))
	b.WriteString("\n\n")

	tabs := make([]string, len(m.Pages))
	for i, pg := range m.Pages {
		if i == m.Cursor {
			tabs[i] = tabActiveStyle.Render("[" + pg.label + "]")
		} else {
			tabs[i] = tabStyle.Render(" " + pg.label + " ")
		}
	}
	b.WriteString(strings.Join(tabs, " "))
	b.WriteString("\n\n")

	if len(m.Pages) == 0 {
		return b.String()
	}
	pg := m.Pages[m.Cursor]
	titles := []string{"input"}
	grids := []grid.Grid{pg.input}
	if pg.prediction != nil {
		titles = append(titles, "prediction")
		grids = append(grids, *pg.prediction)
	}
	if pg.output != nil {
		titles = append(titles, "expected")
		grids = append(grids, *pg.output)
	}
	b.WriteString(renderPanels(m.palette, titles, grids))
	b.WriteString("\n")

	if pg.prediction != nil && pg.output != nil {
		b.WriteString("\n")
		if pg.prediction.Equal(*pg.output) {
			b.WriteString(StyleSuccess.Render(iconSuccess + " prediction matches"))
		} else {
			b.WriteString(StyleWarning.Render(iconWarning + " prediction differs"))
		}
		b.WriteString("\n")
	}
	return b.String()
}
