// Package tui is a live numeric monitor for a running ensemble:
// aggregate energy, drift, spread and per-shard totals. It plots
// diagnostics only; it never draws the simulated geometry.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/spinsim/internal/analysis"
	"github.com/san-kum/spinsim/internal/ensemble"
	"github.com/san-kum/spinsim/internal/metrics"
)

const historyCapacity = 600

type TickMsg time.Time

type Model struct {
	ens *ensemble.Ensemble
	dt  float64
	fps int

	tick     int
	paused   bool
	baseline float64
	drift    *metrics.EnergyDrift
	rate     *metrics.StepRate

	energyHistory []float64
	spread        float64
	shardEnergies []float64
	snapshot      []float32
}

// NewModel resets the ensemble and captures its energy baseline.
func NewModel(ens *ensemble.Ensemble, dt float64, fps int) Model {
	baseline := ens.Reset()
	return Model{
		ens:      ens,
		dt:       dt,
		fps:      fps,
		baseline: baseline,
		drift:    metrics.NewEnergyDrift(baseline),
		rate:     metrics.NewStepRate(),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "r":
			m.baseline = m.ens.Reset()
			m.drift.Reset(m.baseline)
			m.rate.Reset()
			m.energyHistory = m.energyHistory[:0]
			m.spread = 0
			m.tick = 0
		}
		return m, nil

	case TickMsg:
		if !m.paused {
			total := m.ens.Step(m.dt)
			m.tick++
			m.drift.Observe(total)
			m.rate.Observe()

			m.snapshot = m.ens.Snapshot(m.snapshot)
			m.spread = analysis.Spread(m.snapshot)
			m.shardEnergies = m.ens.ShardEnergies(m.shardEnergies)

			m.energyHistory = append(m.energyHistory, total)
			if len(m.energyHistory) > historyCapacity {
				m.energyHistory = m.energyHistory[1:]
			}
		}
		return m, m.tickCmd()
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("spinsim — %d systems / %d shards", m.ens.Systems(), m.ens.Shards())))
	b.WriteString("\n")

	status := runStyle.Render("running")
	if m.paused {
		status = pauseStyle.Render("paused")
	}
	rows := []struct {
		label, value string
	}{
		{"status", status},
		{"sim time", fmt.Sprintf("%.2fs (%d ticks)", float64(m.tick)*m.dt, m.tick)},
		{"energy", fmt.Sprintf("%.1f (baseline %.1f)", last(m.energyHistory, m.baseline), m.baseline)},
		{"drift", fmt.Sprintf("%.2e (max %.2e)", m.drift.Last(), m.drift.Value())},
		{"spread", fmt.Sprintf("%.3f", m.spread)},
		{"tick rate", fmt.Sprintf("%.0f/s", m.rate.Value())},
	}
	for _, row := range rows {
		b.WriteString(labelStyle.Render(row.label))
		b.WriteString(valueStyle.Render(row.value))
		b.WriteString("\n")
	}

	if len(m.shardEnergies) > 0 {
		b.WriteString("\n")
		for i, e := range m.shardEnergies {
			b.WriteString(shardStyle.Render(fmt.Sprintf("shard %d  %.1f", i, e)))
			b.WriteString("\n")
		}
	}

	if len(m.energyHistory) > 2 {
		graph := asciigraph.Plot(m.energyHistory,
			asciigraph.Height(8),
			asciigraph.Width(70),
			asciigraph.Caption("aggregate energy"),
		)
		b.WriteString(graphStyle.Render(graph))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("space pause · r reset · q quit"))
	return b.String()
}

func last(xs []float64, fallback float64) float64 {
	if len(xs) == 0 {
		return fallback
	}
	return xs[len(xs)-1]
}

// Run blocks until the monitor exits.
func Run(ens *ensemble.Ensemble, dt float64, fps int) error {
	p := tea.NewProgram(NewModel(ens, dt, fps))
	_, err := p.Run()
	return err
}
