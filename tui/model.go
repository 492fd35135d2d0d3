// Package tui is the interactive terminal session over one engine.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rustyeddy/tradesim/journal"
	"github.com/rustyeddy/tradesim/ledger"
	"github.com/rustyeddy/tradesim/market"
	"github.com/rustyeddy/tradesim/news"
	"github.com/rustyeddy/tradesim/report"
	"github.com/rustyeddy/tradesim/sim"
)

const maxFeed = 8

// Exporter writes the session tables somewhere and describes where.
type Exporter func(h *journal.History) (string, error)

// DirExporter returns an Exporter writing the three tables into dir.
func DirExporter(dir string) Exporter {
	return func(h *journal.History) (string, error) {
		paths, err := journal.ExportDir(dir, h)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("exported %s, %s, %s", paths.Transactions, paths.Portfolio, paths.Prices), nil
	}
}

// Model is the bubbletea model. It owns the engine for the life of the
// program and only touches it from Update.
type Model struct {
	engine *sim.Engine
	export Exporter

	keys keyMap
	help help.Model

	selected int

	prompting bool
	side      market.Side
	input     textinput.Model

	showAnalytics bool
	feed          []string
	status        string
	statusErr     bool

	width int
}

// New wires the model to e and registers it as the engine's news listener.
func New(e *sim.Engine, export Exporter) *Model {
	in := textinput.New()
	in.Placeholder = "shares"
	in.CharLimit = 9
	in.Width = 12

	m := &Model{
		engine: e,
		export: export,
		keys:   defaultKeys(),
		help:   help.New(),
		input:  in,
		status: "Welcome to the stock trading simulator.",
	}
	e.SetNewsListener(m)
	return m
}

// OnNews implements sim.NewsListener.
func (m *Model) OnNews(ev news.Event) {
	m.feed = append(m.feed, strings.TrimRight(report.FormatAnnouncement(ev), "\n"))
	if len(m.feed) > maxFeed {
		m.feed = m.feed[len(m.feed)-maxFeed:]
	}
}

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.prompting {
			return m.updatePrompt(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.Down):
		if m.selected < m.engine.Len()-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.Buy):
		return m, m.openPrompt(market.SideBuy)

	case key.Matches(msg, m.keys.Sell):
		return m, m.openPrompt(market.SideSell)

	case key.Matches(msg, m.keys.Next):
		rep, err := m.engine.AdvanceDay()
		if err != nil {
			m.setError(fmt.Sprintf("Day %d: journal: %v", rep.Day, err))
			break
		}
		m.setStatus(fmt.Sprintf("--- Day %d ---", rep.Day))

	case key.Matches(msg, m.keys.Analytics):
		m.showAnalytics = !m.showAnalytics

	case key.Matches(msg, m.keys.Export):
		if m.export == nil {
			m.setError("export is not configured")
			break
		}
		where, err := m.export(m.engine.History())
		if err != nil {
			m.setError(fmt.Sprintf("export failed: %v", err))
			break
		}
		m.setStatus(where)
	}
	return m, nil
}

func (m *Model) openPrompt(side market.Side) tea.Cmd {
	m.prompting = true
	m.side = side
	m.input.Reset()
	m.input.Prompt = fmt.Sprintf("%s %s: ", side, m.engine.Names()[m.selected])
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closePrompt()
		m.setStatus("order cancelled")
		return m, nil

	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		m.submit()
		return m, nil

	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			if r < '0' || r > '9' {
				m.setError("digits only")
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) submit() {
	raw := strings.TrimSpace(m.input.Value())
	side := m.side
	m.closePrompt()

	shares, err := strconv.Atoi(raw)
	if err != nil || shares <= 0 {
		m.setError(fmt.Sprintf("invalid share count %q", raw))
		return
	}

	var tx journal.Transaction
	if side == market.SideBuy {
		tx, err = m.engine.Buy(m.selected, shares)
	} else {
		tx, err = m.engine.Sell(m.selected, shares)
	}
	switch {
	case errors.Is(err, ledger.ErrInsufficientCash):
		m.setError("Not enough cash!")
	case errors.Is(err, ledger.ErrInsufficientShares):
		m.setError("You don't have that many shares!")
	case err != nil && ledger.IsRejection(err):
		m.setError(err.Error())
	case err != nil:
		// The order filled; only the sink failed.
		m.setError(fmt.Sprintf("%s recorded locally, journal failed: %v", describe(tx), err))
	default:
		m.setStatus(describe(tx))
	}
}

func describe(tx journal.Transaction) string {
	verb := "Bought"
	if tx.Side == market.SideSell {
		verb = "Sold"
	}
	return fmt.Sprintf("%s %d shares of %s for $%.2f", verb, tx.Shares, tx.Instrument, tx.Total)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("STOCK TRADING SIMULATOR  Day %d", m.engine.Day())))
	b.WriteString("\n")

	quotes := m.engine.Quotes()
	b.WriteString(panelStyle.Render(m.pricesView(quotes)))
	b.WriteString("\n")

	b.WriteString(panelStyle.Render(m.portfolioView(quotes)))
	b.WriteString("\n")

	if nv := m.newsView(); nv != "" {
		b.WriteString(panelStyle.Render(nv))
		b.WriteString("\n")
	}

	if m.showAnalytics {
		var ab strings.Builder
		report.PrintAnalytics(&ab, m.engine.Analytics())
		b.WriteString(panelStyle.Render(strings.Trim(ab.String(), "\n")))
		b.WriteString("\n")
	}

	if m.prompting {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	if m.statusErr {
		b.WriteString(errorStyle.Render(m.status))
	} else {
		b.WriteString(mutedStyle.Render(m.status))
	}
	b.WriteString("\n")

	if m.prompting {
		b.WriteString(m.help.View(promptHelp{m.keys}))
	} else {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m *Model) pricesView(quotes []sim.Quote) string {
	rows := []string{titleStyle.Render("Prices")}
	for i, q := range quotes {
		cells := make([]string, len(q.Window))
		for k, p := range q.Window {
			prev := p
			if k > 0 {
				prev = q.Window[k-1]
			}
			cells[k] = priceStyle(prev, p).Render(fmt.Sprintf("%8.2f", p))
		}
		line := fmt.Sprintf("%-12s $%8.2f  %s", q.Name, q.Price, strings.Join(cells, " "))
		if i == m.selected {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) portfolioView(quotes []sim.Quote) string {
	p := m.engine.Portfolio()
	rows := []string{
		titleStyle.Render("Portfolio"),
		fmt.Sprintf("Cash: $%.2f", p.Cash),
	}
	for _, q := range quotes {
		rows = append(rows, fmt.Sprintf("%s: %d shares @ $%.2f = $%.2f", q.Name, q.Shares, q.Price, q.Value))
	}
	rows = append(rows, fmt.Sprintf("Total Value: $%.2f", p.Total))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) newsView() string {
	active := m.engine.ActiveNews()
	if len(active) == 0 && len(m.feed) == 0 {
		return ""
	}
	rows := []string{titleStyle.Render("News")}
	for _, f := range m.feed {
		rows = append(rows, newsStyle.Render(f))
	}
	for _, ev := range active {
		rows = append(rows, ev.String())
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Status returns the last status line, for callers and tests.
func (m *Model) Status() string { return m.status }

// Feed returns the announcements shown in the news panel, oldest first.
func (m *Model) Feed() []string { return append([]string(nil), m.feed...) }

// Run starts the program on the alternate screen and blocks until quit.
func Run(m *Model, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}
