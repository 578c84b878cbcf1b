package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type textCell struct {
	s       string
	width   int
	isSpace bool
}

func buildCells(line string) []textCell {
	out := make([]textCell, 0, len(line))
	for _, r := range line {
		if r == '\t' {
			r = ' '
		}
		out = append(out, textCell{
			s:       string(r),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ',
		})
	}
	return out
}

func renderCells(cells []textCell) string {
	var b strings.Builder
	for _, item := range cells {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapText breaks s into lines no wider than width, preferring spaces and
// splitting words only when a single word does not fit. Existing line
// breaks are kept.
func wrapText(s string, width int) []string {
	paragraphs := strings.Split(s, "\n")
	if width <= 0 {
		return paragraphs
	}
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		out = append(out, wrapCells(buildCells(p), width)...)
	}
	return out
}

func wrapCells(cells []textCell, width int) []string {
	var out []string
	line := make([]textCell, 0, len(cells))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(cells); {
		item := cells[i]
		if lineWidth+item.width > width && len(line) > 0 {
			switch {
			case item.isSpace:
				out = append(out, strings.TrimRight(renderCells(line), " "))
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
				i++
			case lastSpaceIdx >= 0:
				out = append(out, strings.TrimRight(renderCells(line[:lastSpaceIdx]), " "))
				line = append([]textCell{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			default:
				out = append(out, renderCells(line))
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	return append(out, renderCells(line))
}

func lineWidthOf(line []textCell) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []textCell) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
