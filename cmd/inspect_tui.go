// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Thermoquad/tslprog/pkg/persistent"
)

// TUI model
type inspectModel struct {
	path        string
	record      *persistent.Record
	centuryHint int
	findings    []persistent.ValidationError
	fields      table.Model
	now         time.Time
	width       int
	height      int
	quitting    bool
}

// Messages
type tickMsg time.Time

func newInspectModel(path string, r *persistent.Record, centuryHint int) inspectModel {
	columns := []table.Column{
		{Title: "Field", Width: 18},
		{Title: "Value", Width: 28},
		{Title: "Hex", Width: 22},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(fieldRows(r, centuryHint)),
		table.WithFocused(true),
		table.WithHeight(14),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(styles)

	return inspectModel{
		path:        path,
		record:      r,
		centuryHint: centuryHint,
		findings:    persistent.ValidateRecord(r),
		fields:      t,
		now:         time.Now().UTC(),
		width:       80,
		height:      24,
	}
}

// fieldRows lists both time blocks followed by the integer fields
func fieldRows(r *persistent.Record, centuryHint int) []table.Row {
	rows := []table.Row{
		timeBlockRow("programmed_time", r.ProgrammedTime, centuryHint),
		timeBlockRow("launched_time", r.LaunchedTime, centuryHint),
	}
	for _, f := range r.Fields() {
		rows = append(rows, table.Row{f.Name, fmt.Sprintf("%d", f.Value), fmt.Sprintf("0x%0*X", f.Width*2, f.Value)})
	}
	return rows
}

func timeBlockRow(name string, tb persistent.TimeBlock, centuryHint int) table.Row {
	raw := tb.Bytes()
	value := "unset"
	if !tb.IsZero() {
		if t, err := tb.Time(centuryHint); err != nil {
			value = "invalid"
		} else {
			value = t.Format("2006-01-02 15:04:05")
		}
	}
	return table.Row{name, value, fmt.Sprintf("% X", raw[:])}
}

func (m inspectModel) Init() tea.Cmd {
	return tea.Batch(
		inspectTickCmd(),
		tea.EnterAltScreen,
	)
}

func inspectTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.now = time.Time(msg).UTC()
		return m, inspectTickCmd()
	}

	var cmd tea.Cmd
	m.fields, cmd = m.fields.Update(msg)
	return m, cmd
}

func (m inspectModel) View() string {
	if m.quitting {
		return ""
	}

	// Styles
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	headerStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	errorStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Bold(true)

	warningStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	var s strings.Builder
	s.WriteString(titleStyle.Render("TSLPROG - PERSISTENT DATA"))
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(fmt.Sprintf("File: %s | Layout: %s | Press 'q' to quit",
		m.path, m.record.Schema)))
	s.WriteString("\n\n")

	s.WriteString(boxStyle.Render(m.fields.View()))
	s.WriteString("\n\n")

	// Counters
	storedDays, storedMins, source := m.record.Elapsed()
	var counters strings.Builder
	counters.WriteString(fmt.Sprintf("%s %s %s\n",
		labelStyle.Render("Stored:   "),
		valueStyle.Render(persistent.FormatDuration(storedDays, storedMins)),
		headerStyle.Render("("+source.String()+")"),
	))

	days, mins, err := persistent.ExpectedElapsed(m.record, m.now, m.centuryHint)
	if err != nil {
		counters.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Projected:"), errorStyle.Render(err.Error())))
	} else {
		counters.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Projected:"), valueStyle.Render(persistent.FormatDuration(days, mins))))
		counters.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Drift:    "), warningStyle.Render(formatDrift(storedDays, storedMins, days, mins))))
	}
	counters.WriteString(headerStyle.Render("Now (UTC): " + m.now.Format("2006-01-02 15:04:05")))

	s.WriteString(boxStyle.Render(counters.String()))
	s.WriteString("\n\n")

	// Findings
	s.WriteString(labelStyle.Render("Findings:"))
	s.WriteString("\n")
	var findings strings.Builder
	if len(m.findings) == 0 {
		findings.WriteString(valueStyle.Render("✓ No anomalies"))
	}
	for i, f := range m.findings {
		if i > 0 {
			findings.WriteString("\n")
		}
		line := fmt.Sprintf("%s: %s", f.Type, f.Message)
		if f.Severity == persistent.SeverityError {
			findings.WriteString(errorStyle.Render("✗ " + line))
		} else {
			findings.WriteString(warningStyle.Render("ℹ " + line))
		}
	}
	width := m.width - 4
	if width < 20 {
		width = 20
	}
	s.WriteString(boxStyle.Width(width).Render(findings.String()))

	return s.String()
}
