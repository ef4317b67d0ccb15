package game

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var colorCodes = map[string]string{
	"red":    "1",
	"blue":   "4",
	"green":  "2",
	"orange": "208",
	"violet": "5",
	"yellow": "3",
	"brown":  "130",
}

// Render draws the game as text. Each square shows its castle letter, its
// height and its occupant; knights are drawn in their player's color when
// the profile supports it.
func (t *Torres) Render(w io.Writer, profile termenv.Profile) error {
	o := termenv.NewOutput(w, termenv.WithProfile(profile))
	var sb strings.Builder

	if t.GameRunning {
		fmt.Fprintf(&sb, "Phase: %d/%d\nRound: %d\nStarting Player: %d\nActive Player: %d\n\n",
			t.Phase, t.NumPhases(), t.Round, t.StartingPlayer, t.ActivePlayer)
	} else {
		sb.WriteString("Phase: -\nRound: -\nStarting Player: -\nActive Player: -\n\n")
	}

	for y := 0; y < t.Board.Height; y++ {
		for x := 0; x < t.Board.Width; x++ {
			s := t.Board.SquareAt(x, y)
			castle := "."
			if s.Castle != NoCastle {
				castle = string(rune('A' + s.Castle%26))
			}
			occupant := " "
			switch {
			case s.Knight == King:
				occupant = o.String("K").Bold().String()
			case s.Knight >= 0:
				occupant = t.knightGlyph(o, s.Knight)
			}
			fmt.Fprintf(&sb, "%s%d%s ", castle, s.Height, occupant)
		}
		sb.WriteByte('\n')
	}

	sb.WriteString("\nPlayers\n")
	for _, p := range t.Players {
		marker := " "
		if t.GameRunning && p.ID == t.ActivePlayer {
			marker = ">"
		}
		fmt.Fprintf(&sb, "%s %s\n", marker, p)
	}
	_, err := io.WriteString(o, sb.String())
	return err
}

func (t *Torres) knightGlyph(o *termenv.Output, playerID int) string {
	glyph := fmt.Sprint(playerID)
	code, ok := colorCodes[t.Players[playerID].Color]
	if !ok {
		return glyph
	}
	return o.String(glyph).Foreground(o.Color(code)).String()
}

// ASCII renders the game without any escape sequences.
func (t *Torres) ASCII() string {
	var sb strings.Builder
	_ = t.Render(&sb, termenv.Ascii)
	return sb.String()
}
