package predict

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/rewired-gh/nbafuse/internal/models"
)

var (
	green   = lipgloss.Color("#50fa7b")
	red     = lipgloss.Color("#ff5555")
	cyan    = lipgloss.Color("#8be9fd")
	purple  = lipgloss.Color("#bd93f9")
	pink    = lipgloss.Color("#ff79c6")
	yellow  = lipgloss.Color("#f1fa8c")
	comment = lipgloss.Color("#6272a4")
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(green).Bold(true)
	kellyStyle  = lipgloss.NewStyle().Foreground(yellow).Bold(true)
	winnerStyle = lipgloss.NewStyle().Foreground(green).Bold(true)
	loserStyle  = lipgloss.NewStyle().Foreground(red).Bold(true)
	probStyle   = lipgloss.NewStyle().Foreground(cyan).Bold(true)
	overStyle   = lipgloss.NewStyle().Foreground(purple).Bold(true)
	underStyle  = lipgloss.NewStyle().Foreground(pink).Bold(true)
	teamStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(comment)
	goodStyle   = lipgloss.NewStyle().Foreground(green)
	badStyle    = lipgloss.NewStyle().Foreground(red)
)

// Render writes one line per prediction and, when withKelly is set, the
// expected value and bankroll share of both sides.
func Render(w io.Writer, preds []models.Prediction, withKelly bool) error {
	if _, err := fmt.Fprintln(w, headerStyle.Render("------------- NBA Game Predictions -------------")); err != nil {
		return err
	}
	for i := range preds {
		if _, err := fmt.Fprintln(w, gameLine(&preds[i])); err != nil {
			return err
		}
	}
	if !withKelly {
		return nil
	}

	if _, err := fmt.Fprintln(w, kellyStyle.Render("------------ Expected Value & Kelly Criterion -----------")); err != nil {
		return err
	}
	for i := range preds {
		p := &preds[i]
		for _, side := range []struct {
			team      string
			ev, kelly float64
		}{
			{p.Home, p.EVHome, p.KellyHome},
			{p.Away, p.EVAway, p.KellyAway},
		} {
			if _, err := fmt.Fprintln(w, stakeLine(side.team, side.ev, side.kelly)); err != nil {
				return err
			}
		}
	}
	return nil
}

func gameLine(p *models.Prediction) string {
	winner, winProb := p.Winner()
	over, ouProb := p.Over()
	side, style := "UNDER", underStyle
	if over {
		side, style = "OVER", overStyle
	}
	return fmt.Sprintf("%s %s vs %s: %s",
		winnerStyle.Render(winner),
		probStyle.Render(fmt.Sprintf("(%.1f%%)", winProb*100)),
		loserStyle.Render(p.Loser()),
		style.Render(fmt.Sprintf("%s %s (%.1f%%)", side, strconv.FormatFloat(p.Total, 'f', -1, 64), ouProb*100)),
	)
}

func stakeLine(team string, ev, kelly float64) string {
	evStyle := badStyle
	if ev > 0 {
		evStyle = goodStyle
	}
	stakeStyle := badStyle
	if kelly > 0 {
		stakeStyle = goodStyle
	}
	return fmt.Sprintf("%s %s %s %s %s",
		teamStyle.Render(team),
		labelStyle.Render("EV:"),
		evStyle.Render(strconv.FormatFloat(ev, 'f', 2, 64)),
		labelStyle.Render("Bankroll:"),
		stakeStyle.Render(strconv.FormatFloat(kelly, 'f', 2, 64)+"%"),
	)
}
