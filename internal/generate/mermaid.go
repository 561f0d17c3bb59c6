package generate

import (
	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/textdoc"
)

var mermaidDiagrams = map[diagram.Level]string{
	diagram.LevelContext:   "C4Context",
	diagram.LevelContainer: "C4Container",
	diagram.LevelComponent: "C4Component",
}

// Mermaid renders s as a Mermaid C4 diagram. The diagram kind follows the
// most detailed element type present.
func Mermaid(s diagram.Snapshot) string {
	doc := MermaidDocument(&s)
	return doc.Render()
}

// MermaidDocument builds the statement document behind Mermaid.
func MermaidDocument(s *diagram.Snapshot) *textdoc.Document {
	doc := textdoc.New("  ")
	doc.AddHeader(mermaidDiagrams[detail(s)])
	doc.Header = append(doc.Header, textdoc.Statement{Indent: 1, Text: "title " + textdoc.Quote(s.Metadata.Name)})
	doc.AddHeader("")

	els := elements(s)
	// One section per element type keeps the blank line between groups.
	for _, el := range els {
		doc.Section(string(el.entity.Type)).AddIndented(1, el.macro+"("+elementArgs(el)+")")
	}
	rels := doc.Section("relationships")
	rels.Blank = false
	for _, r := range drawable(s, els) {
		rels.AddIndented(1, relStatement(r))
	}
	return doc
}
