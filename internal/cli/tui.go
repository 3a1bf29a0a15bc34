package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/molline/pkg/errors"
	"github.com/matzehuels/molline/pkg/pipeline"
)

// Repl styles
var (
	replPromptStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	replInputStyle  = lipgloss.NewStyle().Foreground(colorWhite)
	replDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	replPrompt     = "molline> "
	replMaxHistory = 20
)

// =============================================================================
// ReplModel - Interactive canonicalization
// =============================================================================

// canonFunc canonicalizes one SMILES string.
type canonFunc func(smiles string) (pipeline.Record, error)

// replResult is delivered when a canonicalization finishes.
type replResult struct {
	Input  string
	Record pipeline.Record
	Err    error
}

// ReplModel is the bubbletea model for the interactive prompt.
type ReplModel struct {
	canon canonFunc

	Input   []rune
	Results []replResult
	Busy    bool

	recall    []string // submitted inputs, oldest first
	recallIdx int
	quitting  bool
}

// NewReplModel creates a prompt that runs canon on every submitted line.
func NewReplModel(canon canonFunc) ReplModel {
	return ReplModel{canon: canon}
}

func (m ReplModel) Init() tea.Cmd {
	return nil
}

func (m ReplModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyCtrlD:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyBackspace:
			if len(m.Input) > 0 {
				m.Input = m.Input[:len(m.Input)-1]
			}
		case tea.KeyCtrlU:
			m.Input = nil
		case tea.KeyUp:
			if m.recallIdx > 0 {
				m.recallIdx--
				m.Input = []rune(m.recall[m.recallIdx])
			}
		case tea.KeyDown:
			if m.recallIdx < len(m.recall)-1 {
				m.recallIdx++
				m.Input = []rune(m.recall[m.recallIdx])
			} else {
				m.recallIdx = len(m.recall)
				m.Input = nil
			}
		case tea.KeyRunes, tea.KeySpace:
			m.Input = append(m.Input, msg.Runes...)
		}
	case replResult:
		m.Busy = false
		m.Results = append(m.Results, msg)
		if len(m.Results) > replMaxHistory {
			m.Results = m.Results[len(m.Results)-replMaxHistory:]
		}
	}
	return m, nil
}

func (m ReplModel) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(string(m.Input))
	if m.Busy || text == "" {
		return m, nil
	}
	m.Busy = true
	m.Input = nil
	m.recall = append(m.recall, text)
	m.recallIdx = len(m.recall)

	canon := m.canon
	return m, func() tea.Msg {
		rec, err := canon(text)
		return replResult{Input: text, Record: rec, Err: err}
	}
}

func (m ReplModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("molline"))
	b.WriteString("\n")
	b.WriteString(replDimStyle.Render("⏎ canonicalize  ↑/↓ history  esc quit"))
	b.WriteString("\n\n")

	for _, r := range m.Results {
		b.WriteString(replDimStyle.Render(iconInfo + " " + r.Input))
		b.WriteString("\n")
		if r.Err != nil {
			b.WriteString("  " + styleIconError.Render(iconError) + " " + StyleError.Render(errors.UserMessage(r.Err)))
		} else {
			b.WriteString("  " + StyleSuccess.Render(iconArrow) + " " + StyleValue.Render(r.Record.Text))
			if n := len(r.Record.Warnings); n > 0 {
				b.WriteString(" " + StyleWarning.Render(fmt.Sprintf("(%d warnings)", n)))
			}
			if r.Record.CacheHit {
				b.WriteString(" " + styleCached.Render(iconCached))
			}
		}
		b.WriteString("\n")
	}
	if len(m.Results) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(replPromptStyle.Render(replPrompt))
	b.WriteString(replInputStyle.Render(string(m.Input)))
	if m.Busy {
		b.WriteString(replDimStyle.Render(" …"))
	} else {
		b.WriteString(replDimStyle.Render("█"))
	}
	b.WriteString("\n")
	return b.String()
}
