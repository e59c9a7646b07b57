package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/versegraph/versegraph/pkg/layout"
	"github.com/versegraph/versegraph/pkg/pipeline"
	"github.com/versegraph/versegraph/pkg/view"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// Facet axes shown in the explorer.
const (
	axisPerspective = "Perspectives"
	axisSourceType  = "Source types"
)

// exploreCommand creates the explore command: an interactive facet explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var sourceFlag string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "explore [osis]",
		Short: "Interactively explore a verse's facets",
		Long: `Interactively explore a verse's facets.

The explore command computes the layout once and then lets you toggle
perspective and source-type values to narrow what is visible. Toggling
only re-filters: nodes never move while you explore.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), cfg, sourceFlag, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			p, err := runner.Compute(cmd.Context(), pipeline.Options{OSIS: args[0], Logger: c.Logger})
			if err != nil {
				return err
			}

			m := newExploreModel(p)
			if len(m.items) == 0 {
				printInfo("%s has no facets to explore", p.OSIS)
				printStats(len(p.Nodes), len(p.Edges), len(p.Edges), false)
				return nil
			}

			_, err = tea.NewProgram(m).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&sourceFlag, "source", "", "payload source: a base URL or a local payload directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable payload caching")

	return cmd
}

// =============================================================================
// ExploreModel - Interactive facet toggling
// =============================================================================

// facetItem is one toggleable facet value.
type facetItem struct {
	axis    string
	value   string
	enabled bool
}

// exploreModel is the bubbletea model for the facet explorer. The positioned
// graph is computed once up front; every toggle only recomputes the view.
type exploreModel struct {
	positioned *layout.Positioned
	items      []facetItem
	cursor     int
	current    view.View
}

// newExploreModel creates the explorer with every facet value enabled.
func newExploreModel(p *layout.Positioned) exploreModel {
	m := exploreModel{positioned: p}
	for _, v := range p.Facets.Perspectives {
		m.items = append(m.items, facetItem{axis: axisPerspective, value: v, enabled: true})
	}
	for _, v := range p.Facets.SourceTypes {
		m.items = append(m.items, facetItem{axis: axisSourceType, value: v, enabled: true})
	}
	m.current = view.Compute(p, m.selection())
	return m
}

// selection translates the toggle state into a facet selection. An axis with
// every value enabled maps to nil ("everything selected") so edges without a
// facet value stay visible until the user actually narrows.
func (m exploreModel) selection() view.Selection {
	perspectives, perspAll := m.axisValues(axisPerspective)
	sourceTypes, typeAll := m.axisValues(axisSourceType)

	sel := view.Selection{}
	if !perspAll {
		sel.Perspectives = perspectives
	}
	if !typeAll {
		sel.SourceTypes = sourceTypes
	}
	return sel
}

// axisValues returns the enabled values for an axis and whether all of the
// axis's values are enabled. The returned slice is non-nil even when empty,
// so an all-off axis narrows to nothing instead of meaning "everything".
func (m exploreModel) axisValues(axis string) ([]string, bool) {
	values := []string{}
	all := true
	for _, it := range m.items {
		if it.axis != axis {
			continue
		}
		if it.enabled {
			values = append(values, it.value)
		} else {
			all = false
		}
	}
	return values, all
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case " ", "enter":
			m.items[m.cursor].enabled = !m.items[m.cursor].enabled
			m.current = view.Compute(m.positioned, m.selection())
		case "a":
			for i := range m.items {
				m.items[i].enabled = true
			}
			m.current = view.Compute(m.positioned, m.selection())
		}
	}
	return m, nil
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore " + m.positioned.OSIS))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ␣ toggle  a all  q quit"))
	b.WriteString("\n")

	lastAxis := ""
	for i, it := range m.items {
		if it.axis != lastAxis {
			b.WriteString("\n")
			b.WriteString(StyleDim.Render(it.axis))
			b.WriteString("\n")
			lastAxis = it.axis
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		check := "[ ]"
		if it.enabled {
			check = "[x]"
		}

		style := listNormalStyle
		if i == m.cursor {
			style = listSelectedStyle
		}
		b.WriteString(cursor + check + " " + style.Render(it.value) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%d of %d connections · %d nodes visible",
		m.current.VisibleEdgeCount, m.current.TotalEdgeCount, len(m.current.Nodes))))
	b.WriteString("\n")

	return b.String()
}
