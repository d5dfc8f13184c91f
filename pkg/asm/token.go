package asm

import "strings"

// line is a single source line split into an optional label and the
// mnemonic/operand tokens that follow it, with comments stripped.
// Tokenizing rules follow spec.md §4.8 and original_source/src/asm/c32_parser.c:
// ';' and '#' both start a line comment; operands are separated by
// whitespace and/or commas; a leading "name:" token introduces a label.
type line struct {
	number int
	label  string
	tokens []string
}

func stripComment(s string) string {
	if i := strings.IndexAny(s, ";#"); i >= 0 {
		s = s[:i]
	}
	return s
}

// splitFields tokenizes an operand list, treating both whitespace and
// commas as separators, and discarding empty fields produced by adjacent
// separators (e.g. "r1, r2" and "r1,r2" tokenize identically).
func splitFields(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	return fields
}

// tokenizeLine strips comments and splits a raw source line into a
// *line. Blank or comment-only lines return a nil *line.
func tokenizeLine(number int, raw string) *line {
	s := strings.TrimSpace(stripComment(raw))
	if s == "" {
		return nil
	}

	fields := splitFields(s)
	if len(fields) == 0 {
		return nil
	}

	l := &line{number: number}
	if len(fields[0]) > 1 && strings.HasSuffix(fields[0], ":") {
		l.label = strings.TrimSuffix(fields[0], ":")
		fields = fields[1:]
	}
	l.tokens = fields
	return l
}
