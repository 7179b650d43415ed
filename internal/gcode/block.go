// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gcode re-derives part geometry from the motion and tooling
// commands of a lathe program. The walk tracks an explicit operation
// context (turning, drilling, boring, facing, crossed with first or
// second operation) and interprets coordinates through it.
package gcode

import (
	"regexp"
	"strconv"
	"strings"
)

// Word is one letter-address word of a block (G1, X10.05, T0101).
type Word struct {
	Letter byte
	Value  float64

	// Raw is the word as written, kept for tool identifiers.
	Raw string
}

// Block is one parsed line of the program.
type Block struct {
	Words    []Word
	Comments []string
}

// Word returns the first word with the given letter.
func (b Block) Word(letter byte) (Word, bool) {
	for _, w := range b.Words {
		if w.Letter == letter {
			return w, true
		}
	}
	return Word{}, false
}

// HasG reports whether the block carries the given G number.
func (b Block) HasG(n float64) bool {
	for _, w := range b.Words {
		if w.Letter == 'G' && w.Value == n {
			return true
		}
	}
	return false
}

// Comment returns the block's comments joined and uppercased, for marker
// scans.
func (b Block) Comment() string {
	return strings.ToUpper(strings.Join(b.Comments, " "))
}

var wordPattern = regexp.MustCompile(`([A-Z])([+-]?[0-9]*\.?[0-9]+)`)

// ParseBlocks parses raw program lines. Comments are parenthesized per
// Fanuc convention; unrecognized text outside comments is ignored, never
// an error.
func ParseBlocks(lines []string) []Block {
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		code, comments := splitComments(line)
		b := Block{Comments: comments}
		for _, m := range wordPattern.FindAllStringSubmatch(strings.ToUpper(code), -1) {
			v, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			b.Words = append(b.Words, Word{Letter: m[1][0], Value: v, Raw: m[0]})
		}
		if len(b.Words) > 0 || len(b.Comments) > 0 {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// splitComments separates parenthesized comments from executable code.
// An unclosed paren comments out the rest of the line.
func splitComments(line string) (string, []string) {
	var code strings.Builder
	var comments []string
	depth := 0
	start := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '(':
			if depth == 0 {
				start = i + 1
			}
			depth++
		case ')':
			if depth > 0 {
				depth--
				if depth == 0 {
					comments = append(comments, strings.TrimSpace(line[start:i]))
				}
			}
		default:
			if depth == 0 {
				code.WriteByte(line[i])
			}
		}
	}
	if depth > 0 && start < len(line) {
		comments = append(comments, strings.TrimSpace(line[start:]))
	}
	return code.String(), comments
}
