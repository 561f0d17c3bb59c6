// Package textdoc builds line-oriented text documents (PlantUML, Mermaid,
// Markdown) from ordered statements and renders them in a single pass.
package textdoc

import "strings"

// Statement is one line of output. Indent is the nesting depth.
type Statement struct {
	Indent int
	Text   string
}

// Section is an ordered group of statements. Empty sections render nothing.
type Section struct {
	Name       string
	Statements []Statement
	// Blank adds an empty line after the section when it is non-empty.
	Blank bool
}

// Add appends a statement at depth 0.
func (s *Section) Add(text string) {
	s.Statements = append(s.Statements, Statement{Text: text})
}

// AddIndented appends a statement at the given depth.
func (s *Section) AddIndented(indent int, text string) {
	s.Statements = append(s.Statements, Statement{Indent: indent, Text: text})
}

// Len returns the number of statements.
func (s *Section) Len() int { return len(s.Statements) }

// Document is header lines, sections and footer lines.
type Document struct {
	// IndentUnit is the string repeated per indent level ("  " when empty).
	IndentUnit string
	Header     []Statement
	Sections   []*Section
	Footer     []Statement
}

// New returns a document with the given indent unit.
func New(indentUnit string) *Document {
	return &Document{IndentUnit: indentUnit}
}

// AddHeader appends a header line.
func (d *Document) AddHeader(text string) {
	d.Header = append(d.Header, Statement{Text: text})
}

// AddFooter appends a footer line.
func (d *Document) AddFooter(text string) {
	d.Footer = append(d.Footer, Statement{Text: text})
}

// Section returns the named section, creating it at the end if needed.
func (d *Document) Section(name string) *Section {
	for _, s := range d.Sections {
		if s.Name == name {
			return s
		}
	}
	s := &Section{Name: name, Blank: true}
	d.Sections = append(d.Sections, s)
	return s
}

// Render joins the document into text terminated by a newline.
func (d *Document) Render() string {
	unit := d.IndentUnit
	if unit == "" {
		unit = "  "
	}
	var b strings.Builder
	write := func(st Statement) {
		if st.Text != "" {
			b.WriteString(strings.Repeat(unit, st.Indent))
			b.WriteString(st.Text)
		}
		b.WriteByte('\n')
	}
	for _, st := range d.Header {
		write(st)
	}
	for _, s := range d.Sections {
		if len(s.Statements) == 0 {
			continue
		}
		for _, st := range s.Statements {
			write(st)
		}
		if s.Blank {
			b.WriteByte('\n')
		}
	}
	for _, st := range d.Footer {
		write(st)
	}
	return b.String()
}

// Sanitize replaces every byte outside [A-Za-z0-9] with '_'. An empty id
// becomes "_".
func Sanitize(id string) string {
	if id == "" {
		return "_"
	}
	b := []byte(id)
	for i, c := range b {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			b[i] = '_'
		}
	}
	return string(b)
}

// Quote makes s safe inside a double-quoted macro argument.
func Quote(s string) string {
	r := strings.NewReplacer(`"`, `'`, "\r\n", " ", "\n", " ", "\r", " ")
	return r.Replace(s)
}

// Cell makes s safe inside a Markdown table cell; blanks become "-".
func Cell(s string) string {
	s = strings.TrimSpace(Quote(s))
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}
