// Package tui is an interactive browser for scan reports: a hit table on
// top, a chroma-highlighted JSON detail pane below.
package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/firmscout/firmscout/internal/report"
)

var (
	tableBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	detailPaneBorderStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("7"))

	emptyTextStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Align(lipgloss.Center)
)

// hit is one table row: a single classified value in a single file.
type hit struct {
	Path     string
	Category string
	Value    string
}

// flattenReport turns a report into the row list, preserving report order
// across files with categories sorted within a record.
func flattenReport(r *report.Report) []hit {
	var out []hit
	if r == nil {
		return out
	}
	for _, rel := range r.Paths() {
		res, _ := r.Get(rel)
		cats := make([]string, 0, len(res.Classification))
		for cat := range res.Classification {
			cats = append(cats, cat)
		}
		sort.Strings(cats)
		for _, cat := range cats {
			for _, v := range res.Classification[cat] {
				out = append(out, hit{Path: rel, Category: cat, Value: v})
			}
		}
		if v := res.Verdict; v != nil {
			for _, k := range v.KeywordHits {
				out = append(out, hit{Path: rel, Category: "keyword_hits", Value: k})
			}
			for _, p := range v.ASCIIKV {
				out = append(out, hit{Path: rel, Category: "ascii_kv", Value: p.Key + "=" + p.Value})
			}
			for _, p := range v.UTF16KV {
				out = append(out, hit{Path: rel, Category: "utf16_kv", Value: p.Key + "=" + p.Value})
			}
		}
	}
	return out
}

// Model represents the main state of the TUI application.
type Model struct {
	table       table.Model
	viewport    viewport.Model
	filterInput textinput.Model

	rep      *report.Report
	hits     []hit
	filtered []hit

	prefs         Prefs
	filtering     bool
	showingDetail bool
	ready         bool
	quitting      bool
	status        string

	width  int
	height int
}

// NewModel builds the initial model over a report.
func NewModel(r *report.Report) Model {
	hits := flattenReport(r)

	ti := textinput.New()
	ti.Placeholder = "filter by path, category or value"
	ti.CharLimit = 128

	m := Model{
		rep:         r,
		hits:        hits,
		filtered:    hits,
		prefs:       LoadPrefs(),
		filterInput: ti,
	}
	m.table = m.buildTable(80)
	return m
}

func (m Model) buildTable(width int) table.Model {
	pathW := width / 3
	catW := 24
	valW := width - pathW - catW - 6
	if valW < 16 {
		valW = 16
	}
	cols := []table.Column{
		{Title: "PATH", Width: pathW},
		{Title: "CATEGORY", Width: catW},
		{Title: "VALUE", Width: valW},
	}
	rows := make([]table.Row, len(m.filtered))
	for i, h := range m.filtered {
		rows[i] = table.Row{h.Path, h.Category, m.display(h)}
	}
	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(true),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(lipgloss.Color("6"))
	s.Selected = s.Selected.Background(lipgloss.Color("57")).Foreground(lipgloss.Color("15"))
	t.SetStyles(s)
	return t
}

// display redacts key-like values when the hide preference is on.
func (m Model) display(h hit) string {
	if !m.prefs.HideValues {
		return h.Value
	}
	switch h.Category {
	case "aes_key_hex_candidates", "base64_key_candidates", "key_like", "base64_like", "ascii_kv", "utf16_kv":
		return redactValue(h.Value)
	}
	return h.Value
}

func (m *Model) applyFilter(q string) {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		m.filtered = m.hits
	} else {
		var out []hit
		for _, h := range m.hits {
			if strings.Contains(strings.ToLower(h.Path), q) ||
				strings.Contains(strings.ToLower(h.Category), q) ||
				strings.Contains(strings.ToLower(h.Value), q) {
				out = append(out, h)
			}
		}
		m.filtered = out
	}
	m.table = m.buildTable(m.width)
}

func (m Model) selectedHit() (hit, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.filtered) {
		return hit{}, false
	}
	return m.filtered[i], true
}

// detailJSON renders the selected file's full record as highlighted JSON.
func (m Model) detailJSON(h hit) string {
	res, ok := m.rep.Get(h.Path)
	if !ok {
		return "(record missing)"
	}
	raw, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err.Error()
	}
	return highlightJSON(string(raw))
}

func highlightJSON(src string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		return src
	}
	style := styles.Get("monokai")
	formatter := formatters.Get("terminal256")
	it, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, it); err != nil {
		return src
	}
	return buf.String()
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.table = m.buildTable(msg.Width)
		m.table.SetHeight(msg.Height/2 - 2)
		m.viewport = viewport.New(msg.Width-4, msg.Height-m.table.Height()-6)
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "enter":
				m.filtering = false
				m.applyFilter(m.filterInput.Value())
			case "esc":
				m.filtering = false
				m.filterInput.SetValue("")
				m.applyFilter("")
			default:
				var cmd tea.Cmd
				m.filterInput, cmd = m.filterInput.Update(msg)
				return m, cmd
			}
			return m, nil
		}

		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "/":
			m.filtering = true
			m.filterInput.Focus()
			return m, textinput.Blink
		case "enter":
			if h, ok := m.selectedHit(); ok {
				m.showingDetail = true
				m.viewport.SetContent(m.detailJSON(h))
			}
			return m, nil
		case "esc":
			m.showingDetail = false
			return m, nil
		case "c":
			if h, ok := m.selectedHit(); ok {
				if err := clipboard.WriteAll(h.Value); err != nil {
					m.status = "clipboard unavailable"
				} else {
					m.status = "copied value to clipboard"
				}
			}
			return m, nil
		case "h":
			m.prefs.HideValues = !m.prefs.HideValues
			_ = SavePrefs(m.prefs)
			m.table = m.buildTable(m.width)
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.showingDetail {
		m.viewport, cmd = m.viewport.Update(msg)
	} else {
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "loading..."
	}
	if len(m.hits) == 0 {
		return emptyTextStyle.Width(m.width).Render("\nNo hits in the last report. Run 'firmscout recon' or 'firmscout blobs' first.\n")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("firmscout — %s (%d hits)", m.rep.Rootfs, len(m.filtered))))
	b.WriteString("\n")
	if m.filtering {
		b.WriteString(m.filterInput.View())
		b.WriteString("\n")
	}
	b.WriteString(tableBorderStyle.Render(m.table.View()))
	b.WriteString("\n")
	if m.showingDetail {
		b.WriteString(detailPaneBorderStyle.Render(m.viewport.View()))
		b.WriteString("\n")
	}
	help := "q quit · / filter · enter detail · esc back · c copy · h hide values"
	if m.status != "" {
		help = m.status + "  ·  " + help
	}
	b.WriteString(statusStyle.Width(m.width).Render(help))
	return b.String()
}
