package generate

import (
	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/textdoc"
)

// PlantUMLInclude is the base URL of the C4-PlantUML library.
const PlantUMLInclude = "https://raw.githubusercontent.com/plantuml-stdlib/C4-PlantUML/master/"

var plantUMLLibraries = map[diagram.Level]string{
	diagram.LevelContext:   "C4_Context.puml",
	diagram.LevelContainer: "C4_Container.puml",
	diagram.LevelComponent: "C4_Component.puml",
}

// PlantUML renders s as a C4-PlantUML document wrapped in @startuml/@enduml.
// Annotations and relationships touching them are not emitted.
func PlantUML(s diagram.Snapshot) string {
	doc := PlantUMLDocument(&s)
	return doc.Render()
}

// PlantUMLDocument builds the statement document behind PlantUML.
func PlantUMLDocument(s *diagram.Snapshot) *textdoc.Document {
	doc := textdoc.New("  ")
	doc.AddHeader("@startuml")
	doc.AddHeader("!include " + PlantUMLInclude + plantUMLLibraries[detail(s)])
	doc.AddHeader("")
	doc.AddHeader("title " + textdoc.Quote(s.Metadata.Name))
	doc.AddHeader("")

	els := elements(s)
	body := doc.Section("elements")
	for _, el := range els {
		body.Add(el.macro + "(" + elementArgs(el) + ")")
	}
	rels := doc.Section("relationships")
	for _, r := range drawable(s, els) {
		rels.Add(relStatement(r))
	}

	doc.AddFooter("@enduml")
	return doc
}
