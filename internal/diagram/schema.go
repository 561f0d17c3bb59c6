package diagram

// EntityType is the variant tag of a diagram element.
type EntityType string

const (
	TypeSystem         EntityType = "system"
	TypeContainer      EntityType = "container"
	TypeComponent      EntityType = "component"
	TypePerson         EntityType = "person"
	TypeExternalSystem EntityType = "externalSystem"
	TypeAnnotation     EntityType = "annotation"
)

// entityTypes is the documented collection order.
var entityTypes = []EntityType{
	TypeSystem, TypeContainer, TypeComponent, TypePerson, TypeExternalSystem, TypeAnnotation,
}

var collectionNames = map[EntityType]string{
	TypeSystem:         "systems",
	TypeContainer:      "containers",
	TypeComponent:      "components",
	TypePerson:         "people",
	TypeExternalSystem: "externalSystems",
	TypeAnnotation:     "annotations",
}

// EntityTypes returns the six entity types in collection order
// (systems, containers, components, people, externalSystems, annotations).
func EntityTypes() []EntityType {
	out := make([]EntityType, len(entityTypes))
	copy(out, entityTypes)
	return out
}

// ParseEntityType returns the entity type for s or an *UnknownEntityTypeError.
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(s)
	if !t.Valid() {
		return "", &UnknownEntityTypeError{Type: s}
	}
	return t, nil
}

// Valid reports whether t is one of the six known variants.
func (t EntityType) Valid() bool {
	_, ok := collectionNames[t]
	return ok
}

// Collection returns the JSON key of the collection holding entities of type t.
func (t EntityType) Collection() string {
	return collectionNames[t]
}

// Title returns the type with its first letter upper-cased ("externalSystem" -> "ExternalSystem").
func (t EntityType) Title() string {
	if t == "" {
		return ""
	}
	s := string(t)
	c := s[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	return string(c) + s[1:]
}

// Level is a C4 abstraction level; it drives the visibility projection.
type Level string

const (
	LevelContext   Level = "context"
	LevelContainer Level = "container"
	LevelComponent Level = "component"
	LevelCode      Level = "code"
)

// Levels returns the four C4 levels from least to most detailed.
func Levels() []Level {
	return []Level{LevelContext, LevelContainer, LevelComponent, LevelCode}
}

// Valid reports whether l is a known level.
func (l Level) Valid() bool {
	switch l {
	case LevelContext, LevelContainer, LevelComponent, LevelCode:
		return true
	}
	return false
}

// ParseLevel returns the level for s or a *ValidationError.
func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if !l.Valid() {
		return "", &ValidationError{Field: "level", Msg: "unknown level " + quote(s) + " (want context, container, component or code)"}
	}
	return l, nil
}

// ArrowDirection controls which end(s) of a relationship carry an arrow head.
type ArrowDirection string

const (
	ArrowRight ArrowDirection = "right"
	ArrowLeft  ArrowDirection = "left"
	ArrowBoth  ArrowDirection = "both"
	ArrowNone  ArrowDirection = "none"
)

// Valid reports whether d is a known direction. The empty value is treated as right.
func (d ArrowDirection) Valid() bool {
	switch d {
	case "", ArrowRight, ArrowLeft, ArrowBoth, ArrowNone:
		return true
	}
	return false
}

// LineStyle is the stroke style of a relationship.
type LineStyle string

const (
	LineSolid  LineStyle = "solid"
	LineDashed LineStyle = "dashed"
	LineDotted LineStyle = "dotted"
)

// Valid reports whether s is a known style. The empty value is treated as solid.
func (s LineStyle) Valid() bool {
	switch s {
	case "", LineSolid, LineDashed, LineDotted:
		return true
	}
	return false
}

// Position holds x,y canvas coordinates (owned by the UI, persisted by the model).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Entity is a diagram element. Type is fixed at creation and selects the
// collection the entity lives in; Width and Height only apply to annotations.
type Entity struct {
	ID              string     `json:"id"`
	Type            EntityType `json:"type"`
	Name            string     `json:"name"`
	Description     string     `json:"description,omitempty"`
	Technology      string     `json:"technology,omitempty"`
	Tags            []string   `json:"tags,omitempty"`
	Position        Position   `json:"position"`
	ParentSystem    string     `json:"parentSystem,omitempty"`
	ParentContainer string     `json:"parentContainer,omitempty"`
	Width           *float64   `json:"width,omitempty"`
	Height          *float64   `json:"height,omitempty"`
}

// Relationship is a directed connection between two entities, referenced by id.
type Relationship struct {
	ID             string         `json:"id"`
	From           string         `json:"from"`
	To             string         `json:"to"`
	Description    string         `json:"description"`
	Technology     string         `json:"technology,omitempty"`
	ArrowDirection ArrowDirection `json:"arrowDirection,omitempty"`
	LineStyle      LineStyle      `json:"lineStyle,omitempty"`
	Animated       bool           `json:"animated,omitempty"`
}

// Direction returns the arrow direction, defaulting to right.
func (r Relationship) Direction() ArrowDirection {
	if r.ArrowDirection == "" {
		return ArrowRight
	}
	return r.ArrowDirection
}

// Style returns the line style, defaulting to solid.
func (r Relationship) Style() LineStyle {
	if r.LineStyle == "" {
		return LineSolid
	}
	return r.LineStyle
}

// Metadata holds model-level information.
type Metadata struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Author  string `json:"author"`
}

// IsZero reports whether no metadata field is set.
func (m Metadata) IsZero() bool {
	return m.Name == "" && m.Version == "" && m.Author == ""
}

// Snapshot is the serialisable state of a model. Field order is the
// canonical key order of the native JSON format.
type Snapshot struct {
	Metadata        Metadata       `json:"metadata"`
	Systems         []Entity       `json:"systems"`
	Containers      []Entity       `json:"containers"`
	Components      []Entity       `json:"components"`
	People          []Entity       `json:"people"`
	ExternalSystems []Entity       `json:"externalSystems"`
	Relationships   []Relationship `json:"relationships"`
	Annotations     []Entity       `json:"annotations,omitempty"`
}
