// Package position maps byte offsets in loaded source files to line/column
// pairs (not the reverse), and hands out stable CodePlace values for
// diagnostics.
package position

import "fmt"

// CodePlace is an opaque byte offset into a file's loaded contents, paired
// with the name of that file. Two CodePlace values from different files are
// never comparable as positions, only as (file, offset) pairs.
type CodePlace struct {
	File  string
	Index int
}

// LineCol is a 1-based line and 1-based column.
type LineCol struct {
	Line   int
	Column int
}

func (lc LineCol) String() string {
	return fmt.Sprintf("%d:%d", lc.Line, lc.Column)
}

// Index converts byte offsets within one file into line/column pairs. It is
// built once from the file's contents and is purely functional afterward.
type Index struct {
	file        string
	source      string
	lineLengths []int // bytes in line i, including any terminating newline
	lineStarts  []int // byte offset of the first byte of line i
}

// NewIndex scans src once and builds the line-length table.
func NewIndex(file, src string) *Index {
	idx := &Index{file: file, source: src}
	start := 0
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			idx.lineStarts = append(idx.lineStarts, start)
			idx.lineLengths = append(idx.lineLengths, i-start+1)
			start = i + 1
		}
	}
	// Final (possibly unterminated) line.
	idx.lineStarts = append(idx.lineStarts, start)
	idx.lineLengths = append(idx.lineLengths, len(src)-start)
	return idx
}

// File returns the file name this index was built for.
func (idx *Index) File() string { return idx.file }

// Place wraps an offset as a CodePlace in this index's file.
func (idx *Index) Place(offset int) CodePlace {
	return CodePlace{File: idx.file, Index: offset}
}

// LineCol walks the cumulative line-length table, returning the line whose
// running total first exceeds index, and the remaining bytes as the column.
func (idx *Index) LineCol(index int) LineCol {
	running := 0
	for i, length := range idx.lineLengths {
		if running+length > index || i == len(idx.lineLengths)-1 {
			return LineCol{Line: i + 1, Column: index - running + 1}
		}
		running += length
	}
	return LineCol{Line: len(idx.lineLengths), Column: 1}
}

// GetLine returns the full line slice (without its terminating newline)
// containing place.
func (idx *Index) GetLine(place CodePlace) string {
	lc := idx.LineCol(place.Index)
	lineNo := lc.Line - 1
	if lineNo < 0 || lineNo >= len(idx.lineStarts) {
		return ""
	}
	start := idx.lineStarts[lineNo]
	end := start + idx.lineLengths[lineNo]
	if end > len(idx.source) {
		end = len(idx.source)
	}
	line := idx.source[start:end]
	for len(line) > 0 && (line[len(line)-1] == '\n' || line[len(line)-1] == '\r') {
		line = line[:len(line)-1]
	}
	return line
}
