// Package writer accumulates generated source text with indentation tracking.
package writer

import (
	"fmt"
	"strings"
)

// Writer provides utilities for generating formatted code with proper indentation
type Writer struct {
	sb            strings.Builder
	indentLevel   int
	indentString  string
	linePrefix    string
	needsIndent   bool
	commentPrefix string
}

// Option configures a Writer
type Option func(*Writer)

// WithCommentPrefix sets the line-comment marker used by the comment helpers
// (defaults to "//")
func WithCommentPrefix(prefix string) Option {
	return func(w *Writer) {
		w.commentPrefix = prefix
	}
}

// NewWriter creates a new code writer with specified indentation string
func NewWriter(indentString string, opts ...Option) *Writer {
	w := &Writer{
		indentString:  indentString,
		needsIndent:   true,
		commentPrefix: "//",
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Indent increases the indentation level
func (w *Writer) Indent() {
	w.indentLevel++
	w.updatePrefix()
}

// Dedent decreases the indentation level
func (w *Writer) Dedent() {
	if w.indentLevel > 0 {
		w.indentLevel--
		w.updatePrefix()
	}
}

// Write writes a string without adding a newline
func (w *Writer) Write(s string) {
	if w.needsIndent && s != "" {
		w.sb.WriteString(w.linePrefix)
		w.needsIndent = false
	}
	w.sb.WriteString(s)
}

// Writef writes a formatted string without adding a newline
func (w *Writer) Writef(format string, args ...interface{}) {
	w.Write(fmt.Sprintf(format, args...))
}

// WriteLine writes a string and adds a newline
func (w *Writer) WriteLine(s string) {
	w.Write(s)
	w.Newline()
}

// WriteLinef writes a formatted string and adds a newline
func (w *Writer) WriteLinef(format string, args ...interface{}) {
	w.Writef(format, args...)
	w.Newline()
}

// Newline adds a newline character
func (w *Writer) Newline() {
	w.sb.WriteString("\n")
	w.needsIndent = true
}

// Println ends the current line, or writes an empty one. Unlike BlankLine it
// never collapses with a preceding empty line.
func (w *Writer) Println() {
	w.Newline()
}

// BlankLine adds an empty line
func (w *Writer) BlankLine() {
	if w.sb.Len() > 0 && !strings.HasSuffix(w.sb.String(), "\n\n") {
		w.Newline()
	}
}

// WriteFragment writes pre-rendered multi-line text at the current indentation.
// Empty lines stay empty and a trailing newline in text is not doubled.
func (w *Writer) WriteFragment(text string) {
	if text == "" {
		return
	}
	for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
		if line == "" {
			w.Newline()
			continue
		}
		w.WriteLine(line)
	}
}

// String returns the generated code as a string
func (w *Writer) String() string {
	return w.sb.String()
}

// updatePrefix updates the line prefix based on current indentation
func (w *Writer) updatePrefix() {
	w.linePrefix = strings.Repeat(w.indentString, w.indentLevel)
}

// WriteBlock writes content inside a block with proper indentation
// Example: WriteBlock("int Foo::get() const {", "}", func() { w.WriteLine("return m_v;") })
func (w *Writer) WriteBlock(opener, closer string, content func()) {
	w.WriteLine(opener)
	w.Indent()
	content()
	w.Dedent()
	w.WriteLine(closer)
}

// WriteComment writes a single-line comment
func (w *Writer) WriteComment(comment string) {
	if comment == "" {
		w.WriteLine(w.commentPrefix)
		return
	}
	w.WriteLinef("%s %s", w.commentPrefix, comment)
}

// WriteDocComment writes a documentation comment block
func (w *Writer) WriteDocComment(doc string) {
	if doc == "" {
		return
	}
	lines := strings.Split(strings.TrimSpace(doc), "\n")
	for _, line := range lines {
		w.WriteComment(strings.TrimSpace(line))
	}
}
