package cli

import (
	"strings"

	"github.com/pterm/pterm"

	"github.com/gridrush/ultimate-tictactoe/internal/entity"
)

// renderBoard prints the 9x9 board as three bands of three sub-boards,
// with the active constraint and the meta-board summary underneath.
func renderBoard(board *entity.Board, constrainedSubGrid int) {
	var sb strings.Builder

	for bigRow := 0; bigRow < 3; bigRow++ {
		for smallRow := 0; smallRow < 3; smallRow++ {
			for bigCol := 0; bigCol < 3; bigCol++ {
				subGrid := bigRow*3 + bigCol

				for smallCol := 0; smallCol < 3; smallCol++ {
					cell := smallRow*3 + smallCol
					sb.WriteString(" " + cellGlyph(board[subGrid][cell]))
				}

				if bigCol < 2 {
					sb.WriteString(" |")
				}
			}
			sb.WriteString("\n")
		}

		if bigRow < 2 {
			sb.WriteString(strings.Repeat("-", 23) + "\n")
		}
	}

	pterm.DefaultBox.WithTitle("board").Println(strings.TrimRight(sb.String(), "\n"))

	if constrainedSubGrid == entity.AnySubGrid {
		pterm.Info.Println("Play in any open sub-board")
	} else {
		pterm.Info.Printfln("Play in sub-board %d", constrainedSubGrid)
	}

	renderMetaSummary(board)
}

func renderMetaSummary(board *entity.Board) {
	var sb strings.Builder

	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			sb.WriteString(" " + cellGlyph(board.SubBoardWinner(row*3+col)))
		}
		if row < 2 {
			sb.WriteString("\n")
		}
	}

	pterm.DefaultBox.WithTitle("meta").Println(sb.String())
}

func cellGlyph(symbol string) string {
	switch symbol {
	case entity.PlayerX:
		return pterm.LightCyan("X")
	case entity.PlayerO:
		return pterm.LightMagenta("O")
	case entity.PlayerTie:
		return pterm.Gray("#")
	default:
		return pterm.Gray(".")
	}
}

func outcomeMessage(outcome string) string {
	switch outcome {
	case entity.PlayerX:
		return "X wins!"
	case entity.PlayerO:
		return "O wins!"
	default:
		return "It's a draw!"
	}
}
