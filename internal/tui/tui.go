// Package tui provides the interactive terminal interface: pick an upload
// archive, pick a destination, watch per-file progress and see where the
// merged table ended up.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"socMerge/internal/archive"
	"socMerge/internal/config"
	"socMerge/internal/pipeline"
	"socMerge/internal/table"
)

// UI states
type state int

const (
	statePickArchive state = iota
	statePickTarget
	stateProcessing
	stateSummary
	stateError
)

type targetOption struct {
	label  string
	target string
}

type fileEventMsg pipeline.Event

type runDoneMsg struct {
	res *pipeline.Result
	err error
}

type publishDoneMsg struct {
	outcome pipeline.PublishOutcome
	err     error
}

// model represents the TUI model
type model struct {
	cfg   *config.Config
	rules table.TransformConfig

	// Archive selection
	archives      []string
	archiveCursor int
	archive       string

	// Destination selection
	targets      []targetOption
	targetCursor int

	// Run progress
	current    string
	lines      []string
	publishing bool
	result     *pipeline.Result
	outcome    pipeline.PublishOutcome
	err        error

	eventCh chan tea.Msg

	state  state
	width  int
	height int

	// Styling
	titleStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	normalStyle   lipgloss.Style
	helpStyle     lipgloss.Style
	okStyle       lipgloss.Style
	warnStyle     lipgloss.Style
	errStyle      lipgloss.Style
}

func initialModel(cfg *config.Config, rules table.TransformConfig, archives []string, initialArchive string) model {
	m := model{
		cfg:      cfg,
		rules:    rules,
		archives: archives,
		targets: []targetOption{
			{label: "Google Sheets (falls back to CSV)", target: config.TargetSheets},
			{label: "Local CSV file", target: config.TargetCSV},
			{label: "Local XLSX workbook", target: config.TargetXLSX},
		},
		state:   statePickArchive,
		eventCh: make(chan tea.Msg, 16),

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Align(lipgloss.Center),
		selectedStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		normalStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		okStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")),
		warnStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		errStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true),
	}

	// Preselect the configured destination.
	for i, opt := range m.targets {
		if opt.target == cfg.Output.Target {
			m.targetCursor = i
		}
	}

	if initialArchive != "" {
		m.archive = initialArchive
		m.state = statePickTarget
	}
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case fileEventMsg:
		if m.state == stateProcessing {
			m.applyEvent(pipeline.Event(msg))
			return m, m.waitForEvent()
		}

	case runDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.result = msg.res
		m.current = ""
		if msg.res.Empty {
			m.state = stateSummary
			return m, nil
		}
		m.publishing = true
		return m, m.publishCmd()

	case publishDoneMsg:
		m.publishing = false
		if msg.err != nil {
			m.err = msg.err
			m.state = stateError
			return m, nil
		}
		m.outcome = msg.outcome
		m.state = stateSummary
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case statePickArchive:
			return m.updatePickArchive(msg)
		case statePickTarget:
			return m.updatePickTarget(msg)
		case stateProcessing:
			return m.updateProcessing(msg)
		case stateSummary, stateError:
			return m.updateDone(msg)
		}
	}
	return m, nil
}

func (m *model) applyEvent(e pipeline.Event) {
	name := filepath.Base(e.Path)
	switch e.Kind {
	case pipeline.EventFileStarted:
		m.current = fmt.Sprintf("[%d/%d] Processing: %s", e.Index, e.Total, name)
	case pipeline.EventFileProcessed:
		m.lines = append(m.lines, m.okStyle.Render(fmt.Sprintf("✅ %s: %d rows", name, e.Rows)))
	case pipeline.EventFileEmpty:
		m.lines = append(m.lines, m.warnStyle.Render(fmt.Sprintf("⚠️  %s: no rows after filtering", name)))
	case pipeline.EventFileSkipped:
		m.lines = append(m.lines, m.errStyle.Render(fmt.Sprintf("❌ %s: skipped", name)))
	}
}

func (m model) updatePickArchive(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.archiveCursor > 0 {
			m.archiveCursor--
		}

	case "down", "j":
		if m.archiveCursor < len(m.archives)-1 {
			m.archiveCursor++
		}

	case "enter":
		if len(m.archives) == 0 {
			return m, nil
		}
		m.archive = m.archives[m.archiveCursor]
		m.state = statePickTarget
	}
	return m, nil
}

func (m model) updatePickTarget(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "esc":
		if len(m.archives) > 0 {
			m.state = statePickArchive
		}

	case "up", "k":
		if m.targetCursor > 0 {
			m.targetCursor--
		}

	case "down", "j":
		if m.targetCursor < len(m.targets)-1 {
			m.targetCursor++
		}

	case "enter":
		m.cfg.Output.Target = m.targets[m.targetCursor].target
		m.state = stateProcessing
		m.lines = nil
		return m, tea.Batch(m.startRun(), m.waitForEvent())
	}
	return m, nil
}

func (m model) updateProcessing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	return m, nil
}

func (m model) updateDone(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "enter", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m model) startRun() tea.Cmd {
	ch := m.eventCh
	rules := m.rules
	path := m.archive
	return func() tea.Msg {
		stamp := time.Now().Format(archive.Stamp)
		res, err := pipeline.RunArchive(rules, path, stamp, func(e pipeline.Event) {
			ch <- fileEventMsg(e)
		})
		return runDoneMsg{res: res, err: err}
	}
}

func (m model) waitForEvent() tea.Cmd {
	ch := m.eventCh
	return func() tea.Msg {
		return <-ch
	}
}

func (m model) publishCmd() tea.Cmd {
	cfg := m.cfg
	res := m.result
	return func() tea.Msg {
		outcome, err := pipeline.PublishTo(context.Background(), cfg, res)
		return publishDoneMsg{outcome: outcome, err: err}
	}
}

func (m model) View() string {
	switch m.state {
	case statePickArchive:
		return m.viewPickArchive()
	case statePickTarget:
		return m.viewPickTarget()
	case stateProcessing:
		return m.viewProcessing()
	case stateSummary:
		return m.viewSummary()
	case stateError:
		return m.viewError()
	}
	return ""
}

func (m model) viewTitle(b *strings.Builder) {
	b.WriteString(m.titleStyle.Width(m.width).Render("socMerge"))
	b.WriteString("\n\n")
}

func (m model) viewPickArchive() string {
	var b strings.Builder
	m.viewTitle(&b)

	b.WriteString("Select an upload archive:\n\n")

	if len(m.archives) == 0 {
		b.WriteString(m.warnStyle.Render("No .zip archives in this directory."))
		b.WriteString("\n")
	}
	for i, name := range m.archives {
		if i == m.archiveCursor {
			b.WriteString(m.selectedStyle.Render("> " + name))
		} else {
			b.WriteString(m.normalStyle.Render("  " + name))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("↑↓: navigate | Enter: select | q: quit"))
	return b.String()
}

func (m model) viewPickTarget() string {
	var b strings.Builder
	m.viewTitle(&b)

	b.WriteString(fmt.Sprintf("Publish %s to:\n\n", filepath.Base(m.archive)))

	for i, opt := range m.targets {
		if i == m.targetCursor {
			b.WriteString(m.selectedStyle.Render("> " + opt.label))
		} else {
			b.WriteString(m.normalStyle.Render("  " + opt.label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("↑↓: navigate | Enter: start | Esc: back | q: quit"))
	return b.String()
}

func (m model) viewProcessing() string {
	var b strings.Builder
	m.viewTitle(&b)

	b.WriteString(fmt.Sprintf("📦 %s\n\n", filepath.Base(m.archive)))
	for _, line := range m.lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if m.current != "" {
		b.WriteString(m.normalStyle.Render(m.current))
		b.WriteString("\n")
	}
	if m.publishing {
		b.WriteString("\n")
		b.WriteString(m.normalStyle.Render("Publishing..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("Ctrl+C: abort"))
	return b.String()
}

func (m model) viewSummary() string {
	var b strings.Builder
	m.viewTitle(&b)

	for _, line := range m.lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.lines) > 0 {
		b.WriteString("\n")
	}

	if m.result != nil && m.result.Empty {
		b.WriteString(m.warnStyle.Render("⚠️  No data after filtering, nothing published."))
		b.WriteString("\n")
	} else if m.result != nil {
		b.WriteString(m.okStyle.Render(fmt.Sprintf("✅ %d rows, %d columns", m.result.Table.RowCount(), m.result.Table.Width())))
		b.WriteString("\n")
		for i, letter := range m.result.Table.Letters() {
			if m.result.Headers[i] != letter {
				b.WriteString(m.normalStyle.Render(fmt.Sprintf("%s → %s", letter, m.result.Headers[i])))
				b.WriteString("\n")
			}
		}
		if m.outcome.Fallback {
			b.WriteString(m.warnStyle.Render(fmt.Sprintf("⚠️  Primary destination failed: %v", m.outcome.PrimaryErr)))
			b.WriteString("\n")
		}
		b.WriteString(m.okStyle.Render("→ " + m.outcome.Sink))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("Enter: exit"))
	return b.String()
}

func (m model) viewError() string {
	var b strings.Builder
	m.viewTitle(&b)

	b.WriteString(m.errStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	b.WriteString("\n\n")
	b.WriteString(m.helpStyle.Render("Enter: exit"))
	return b.String()
}

// Run starts the interactive merge interface. When initialArchive is
// empty the user picks one of the .zip files in the current directory.
func Run(cfg *config.Config, initialArchive string) error {
	rules, err := cfg.Rules()
	if err != nil {
		return err
	}

	archives, err := filepath.Glob("*.zip")
	if err != nil {
		return fmt.Errorf("failed to list archives: %v", err)
	}
	if initialArchive == "" && len(archives) == 0 {
		return fmt.Errorf("no .zip archives found in the current directory")
	}

	m := initialModel(cfg, rules, archives, initialArchive)
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running TUI: %v", err)
	}

	final := finalModel.(model)
	if final.err != nil {
		return final.err
	}

	// Echo the outcome after leaving the alternate screen.
	if final.result != nil {
		if final.result.Empty {
			fmt.Println("⚠️  No data after filtering, nothing published.")
		} else if final.outcome.Sink != "" {
			fmt.Printf("✓ Published %d rows to %s\n", final.result.Table.RowCount(), final.outcome.Sink)
			if final.outcome.Fallback {
				fmt.Printf("⚠️  Primary destination failed: %v\n", final.outcome.PrimaryErr)
			}
		}
	}
	return nil
}
