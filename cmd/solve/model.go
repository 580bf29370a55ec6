package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mealplansolver/internal/domain"
	"mealplansolver/internal/search"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dayStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	failStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type keymap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

var keys = keymap{
	Up:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "previous day")),
	Down: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next day")),
	Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// model renders a solve outcome: a scrollable per-day plan on success, or the
// structured failure report otherwise.
type model struct {
	profile domain.Profile
	pool    domain.RecipePool
	outcome search.Outcome
	dayIdx  int
}

func newModel(profile domain.Profile, pool domain.RecipePool, outcome search.Outcome) model {
	return model{profile: profile, pool: pool, outcome: outcome}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, keys.Down):
		if m.outcome.Success && m.dayIdx < len(m.profile.Schedule.Days)-1 {
			m.dayIdx++
		}
	case key.Matches(keyMsg, keys.Up):
		if m.dayIdx > 0 {
			m.dayIdx--
		}
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	if m.outcome.Success {
		b.WriteString(m.viewSuccess())
	} else {
		b.WriteString(m.viewFailure())
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("↑/↓ change day · q quit"))
	return b.String()
}

func (m model) viewSuccess() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Plan — %s", m.outcome.Termination)))
	b.WriteString("\n\n")

	if m.dayIdx >= len(m.profile.Schedule.Days) {
		return b.String()
	}
	day := m.profile.Schedule.Days[m.dayIdx]
	b.WriteString(dayStyle.Render(fmt.Sprintf("Day %d of %d", m.dayIdx+1, len(m.profile.Schedule.Days))))
	b.WriteString("\n")

	for _, a := range m.outcome.Plan {
		if a.DayIndex != m.dayIdx {
			continue
		}
		slot := day.Slots[a.SlotIndex]
		recipe, ok := m.pool.ByID(a.RecipeID)
		name := a.RecipeID
		if ok {
			name = recipe.Name
		}
		variant := ""
		if a.VariantIndex != nil {
			variant = fmt.Sprintf(" (variant %d)", *a.VariantIndex)
		}
		b.WriteString(fmt.Sprintf("  %-10s %s%s\n", slot.MealLabel, name, variant))
	}

	if tracker, ok := m.outcome.DailyTrackers[m.dayIdx]; ok {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf(
			"  %.0f kcal · %.0fg protein · %.0fg fat · %.0fg carbs",
			tracker.Consumed.Calories, tracker.Consumed.ProteinG, tracker.Consumed.FatG, tracker.Consumed.CarbsG,
		)))
		b.WriteString("\n")
	}

	if len(m.outcome.Advisories) > 0 {
		b.WriteString("\n")
		for _, adv := range m.outcome.Advisories {
			b.WriteString(warnStyle.Render(fmt.Sprintf("  ⚠ %s: %s", adv.Code, adv.Message)))
			b.WriteString("\n")
		}
	}
	if m.outcome.SodiumAdvisory != nil {
		b.WriteString(warnStyle.Render(fmt.Sprintf("  ⚠ %s", m.outcome.SodiumAdvisory.Message)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m model) viewFailure() string {
	var b strings.Builder
	b.WriteString(failStyle.Render(fmt.Sprintf("Solve failed — %s", m.outcome.FailureMode)))
	b.WriteString("\n\n")
	b.WriteString(m.outcome.Report.Summary)
	b.WriteString("\n")

	switch m.outcome.FailureMode {
	case search.FMPoolInsufficiency:
		b.WriteString(fmt.Sprintf("\noffending slot: day %d, slot %d\n",
			m.outcome.Report.OffendingSlot.DayIndex, m.outcome.Report.OffendingSlot.SlotIndex))
		for _, c := range m.outcome.Report.EliminatingConstraints {
			b.WriteString(dimStyle.Render("  - " + c))
			b.WriteString("\n")
		}
	case search.FMDailyInfeasibility:
		b.WriteString(fmt.Sprintf("\nday %d\n", m.outcome.Report.DayIndex))
		for _, v := range m.outcome.Report.MacroViolations {
			b.WriteString(dimStyle.Render("  - " + v))
			b.WriteString("\n")
		}
	case search.FMPinnedConflict:
		b.WriteString(fmt.Sprintf("\npinned slot: day %d, slot %d (%s)\n",
			m.outcome.Report.PinnedKey.DayIndex, m.outcome.Report.PinnedKey.SlotIndex,
			m.outcome.Report.PinClassification))
	case search.FMWeeklyMicronutrientInfeasible:
		b.WriteString(fmt.Sprintf("\nclassification: %s\n", m.outcome.Report.DeficiencyClassification))
		for nutrient, gap := range m.outcome.Report.DeficientNutrients {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  - %s: %.1f / %.1f", nutrient, gap.Achieved, gap.Target)))
			b.WriteString("\n")
		}
	case search.FMSearchBudgetExhaustion:
		b.WriteString(fmt.Sprintf("\n%d attempts, %d backtracks\n",
			m.outcome.Report.Attempts, m.outcome.Report.Backtracks))
	}

	b.WriteString("\n")
	b.WriteString(okStyle.Render(fmt.Sprintf("stats: %d attempts, %d backtracks, max depth %d, %s total",
		m.outcome.Stats.TotalAttempts, m.outcome.Stats.Backtracks, m.outcome.Stats.MaxDepth,
		m.outcome.Stats.TotalRuntime)))
	b.WriteString("\n")

	return b.String()
}
