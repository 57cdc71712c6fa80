// Package document implements a small tree of formatters used to project a
// decompiled class into indented, line-oriented text (spec §4.7's Document
// pretty-printer). Each node renders to a stream of already-indented lines;
// composing nodes (Line, Block, Section, Indent, Join) builds up the tree
// without any node needing to know how its children are laid out.
package document

import "strings"

// node is anything that can render itself as a sequence of text lines.
type node interface {
	render() []string
}

// stringNode is a single literal line appended directly to a Document.
type stringNode string

func (s stringNode) render() []string { return []string{string(s)} }

// Document is one node in the formatter tree: an ordered list of child
// nodes (literal lines or nested Documents) plus the indent string used
// by any Indent() sub-documents it creates.
type Document struct {
	indent   string
	children []node
}

// New returns an empty top-level Document using indent as the prefix for
// each level of Indent().
func New(indent string) *Document {
	return &Document{indent: indent}
}

func (d *Document) append(n node) {
	d.children = append(d.children, n)
}

// Append adds a literal line of text, unchanged, as the next child.
func (d *Document) Append(s string) {
	d.append(stringNode(s))
}

// Line returns a new sub-document; its eventual rendered content is
// joined with sep and suffixed with term (";" for a Java statement,
// " {" for the opening line of a block).
func (d *Document) Line(args []string, sep, term string) *Document {
	sub := New(d.indent)
	for _, a := range args {
		sub.Append(a)
	}
	d.append(&suffixNode{term: term, inner: &joinNode{sep: sep, doc: sub}})
	return sub
}

// Block opens a brace-delimited block: the returned header is the line
// documents append the block's declaration to (its term defaults to
// open, e.g. " {"), and body is the indented sub-document for its
// contents. The closing line (close, e.g. "}") is appended immediately,
// so anything later appended to body always renders between header and
// close.
func (d *Document) Block(open, close string) (header, body *Document) {
	header = d.Line(nil, " ", open)
	body = d.Indent()
	d.Append(close)
	return header, body
}

// Section returns a sub-document grouping a logical block of children.
// When blankSeparator is true, a trailing blank line follows the
// section's content once it has any (deferred to render time, so an
// empty section contributes nothing).
func (d *Document) Section(blankSeparator bool) *Document {
	sub := New(d.indent)
	if blankSeparator {
		d.append(&sectionNode{doc: sub})
	} else {
		d.append(sub)
	}
	return sub
}

// Join returns a sub-document whose entire rendered content is flattened
// onto one line, with each of its top-level children separated by sep.
func (d *Document) Join(sep string, args ...string) *Document {
	sub := New(d.indent)
	for _, a := range args {
		sub.Append(a)
	}
	d.append(&joinNode{sep: sep, doc: sub})
	return sub
}

// Indent returns a sub-document whose every rendered line is prefixed
// with one level of d's indent string.
func (d *Document) Indent() *Document {
	sub := New(d.indent)
	d.append(&prefixNode{prefix: d.indent, inner: sub})
	return sub
}

func (d *Document) render() []string {
	var lines []string
	for _, c := range d.children {
		lines = append(lines, c.render()...)
	}
	return lines
}

// String renders the document: one line of output per rendered line,
// trailing whitespace trimmed, joined with "\n". No trailing newline is
// added; callers wanting one should append it themselves.
func (d *Document) String() string {
	lines := d.render()
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " \t")
	}
	return strings.Join(lines, "\n")
}

// prefixNode prepends prefix to every line its inner document renders.
type prefixNode struct {
	prefix string
	inner  *Document
}

func (p *prefixNode) render() []string {
	inner := p.inner.render()
	lines := make([]string, len(inner))
	for i, l := range inner {
		lines[i] = p.prefix + l
	}
	return lines
}

// suffixNode appends a literal suffix to the last line its inner node
// renders (used by Line to attach a statement terminator or block
// opener to a joined line).
type suffixNode struct {
	term  string
	inner node
}

func (s *suffixNode) render() []string {
	lines := s.inner.render()
	if len(lines) == 0 {
		return []string{s.term}
	}
	lines[len(lines)-1] += s.term
	return lines
}

// joinNode flattens its document's rendered lines onto a single line,
// joined with sep.
type joinNode struct {
	sep string
	doc *Document
}

func (j *joinNode) render() []string {
	return []string{strings.Join(j.doc.render(), j.sep)}
}

// sectionNode renders its document's content followed by one blank line,
// but only when that content is non-empty — an empty section leaves no
// trace.
type sectionNode struct {
	doc *Document
}

func (s *sectionNode) render() []string {
	lines := s.doc.render()
	if len(lines) == 0 {
		return nil
	}
	return append(lines, "")
}
