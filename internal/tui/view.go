package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lernspiel/quizade/internal/engine"
)

var (
	playerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	wallStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A5FCD"))
	hazardStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	segmentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E9E6E"))
	fadeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4A4A4A"))
	hudStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	questionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	overlayStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 3)
	correctFlash = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	penaltyFlash = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
)

// answerPalette colors answer-bound entities and the legend entries that
// explain them. Indexed by answer index.
var answerPalette = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("#36CFC9")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#FF85C0")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC53D")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#95DE64")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("#B37FEB")),
}

var answerMarkers = []rune{'①', '②', '③', '④', '⑤'}

func answerMarker(i int) rune {
	if i >= 0 && i < len(answerMarkers) {
		return answerMarkers[i]
	}
	return '?'
}

func answerStyle(i int) lipgloss.Style {
	if i >= 0 {
		return answerPalette[i%len(answerPalette)]
	}
	return fadeStyle
}

func kindGlyph(k engine.EntityKind) rune {
	switch k {
	case engine.KindOrb:
		return '●'
	case engine.KindSegment:
		return '▒'
	case engine.KindGate:
		return '║'
	case engine.KindShip:
		return '▼'
	case engine.KindBullet:
		return '·'
	case engine.KindGhost:
		return 'ᗣ'
	case engine.KindZone:
		return '◎'
	case engine.KindCar:
		return '◆'
	case engine.KindObstacle:
		return '▲'
	default:
		return '?'
	}
}

type canvasCell struct {
	ch    rune
	style lipgloss.Style
}

// renderField draws the playfield from a snapshot.
func renderField(snap engine.Snapshot) string {
	cells := make([][]canvasCell, snap.Height)
	for y := range cells {
		cells[y] = make([]canvasCell, snap.Width)
		for x := range cells[y] {
			cells[y][x] = canvasCell{ch: ' '}
		}
	}

	for y, row := range snap.Backdrop {
		if y >= snap.Height {
			break
		}
		for x, r := range row {
			if x >= snap.Width {
				break
			}
			if r == '#' {
				cells[y][x] = canvasCell{ch: '█', style: wallStyle}
			}
		}
	}

	for _, e := range snap.Entities {
		x, y := int(e.X), int(e.Y)
		if x < 0 || x >= snap.Width || y < 0 || y >= snap.Height {
			continue
		}
		cell := canvasCell{ch: kindGlyph(e.Kind)}
		switch {
		case e.Hit:
			cell.style = fadeStyle
		case e.Answer >= 0:
			cell.ch = answerMarker(e.Answer)
			cell.style = answerStyle(e.Answer)
		case e.Kind == engine.KindGhost, e.Kind == engine.KindObstacle:
			cell.style = hazardStyle
		case e.Kind == engine.KindSegment:
			cell.style = segmentStyle
		}
		cells[y][x] = cell
	}

	px, py := int(snap.Player.X), int(snap.Player.Y)
	if px >= 0 && px < snap.Width && py >= 0 && py < snap.Height {
		cells[py][px] = canvasCell{ch: '◉', style: playerStyle}
	}

	var b strings.Builder
	for y := range cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, c := range cells[y] {
			b.WriteString(c.style.Render(string(c.ch)))
		}
	}
	return b.String()
}

// renderHUD draws score, lives, and the outcome flash.
func renderHUD(snap engine.Snapshot) string {
	hearts := strings.Repeat("♥", snap.Lives)
	line := fmt.Sprintf("Score %d/%d  Lives %s", snap.Score, snap.Target, hearts)
	switch snap.Outcome {
	case engine.OutcomeCorrect:
		line += "  " + correctFlash.Render("✓ richtig")
	case engine.OutcomePenalty:
		line += "  " + penaltyFlash.Render("✗ daneben")
	}
	return hudStyle.Render(line)
}

// renderQuestion draws the prompt wrapped to the field width.
func renderQuestion(snap engine.Snapshot, width int) string {
	lines := wrapText(snap.Question, width)
	for i, l := range lines {
		lines[i] = questionStyle.Render(l)
	}
	return strings.Join(lines, "\n")
}

// renderLegend draws the colored answer markers under the field.
func renderLegend(snap engine.Snapshot) string {
	parts := make([]string, 0, len(snap.Answers))
	for i, text := range snap.Answers {
		parts = append(parts, answerStyle(i).Render(fmt.Sprintf("%c %s", answerMarker(i), text)))
	}
	return strings.Join(parts, "   ")
}

func overlayText(status engine.Status) string {
	switch status {
	case engine.StatusIdle:
		return "Bereit?\n\nEnter startet das Spiel"
	case engine.StatusPaused:
		return "Pause\n\nP macht weiter"
	case engine.StatusGameOver:
		return "Game Over\n\nR für einen neuen Versuch · Q beendet"
	case engine.StatusFinished:
		return "Geschafft! ★\n\nR spielt nochmal · Q beendet"
	default:
		return ""
	}
}
