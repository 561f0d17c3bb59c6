// Package structurizr converts between native snapshots and Structurizr
// workspace JSON. Structurizr nests containers and components under their
// software system and stores each relationship on its source element; the
// native model is flat, so both directions go through an explicit id table.
package structurizr

// Workspace is the subset of the Structurizr workspace schema this tool reads and writes.
type Workspace struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Properties  map[string]string `json:"properties,omitempty"`
	Model       Model             `json:"model"`
	Views       Views             `json:"views"`
}

// Model holds the top-level elements.
type Model struct {
	People          []Person         `json:"people"`
	SoftwareSystems []SoftwareSystem `json:"softwareSystems"`
}

// Element carries the fields shared by every Structurizr element.
type Element struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description,omitempty"`
	Tags          string            `json:"tags,omitempty"`
	Properties    map[string]string `json:"properties,omitempty"`
	Relationships []Relationship    `json:"relationships,omitempty"`
}

// Person is a human user of the system.
type Person struct {
	Element
	Location string `json:"location,omitempty"`
}

// SoftwareSystem is a system, internal or external.
type SoftwareSystem struct {
	Element
	Location   string      `json:"location,omitempty"`
	Containers []Container `json:"containers,omitempty"`
}

// Container is a deployable unit inside a software system.
type Container struct {
	Element
	Technology string      `json:"technology,omitempty"`
	Components []Component `json:"components,omitempty"`
}

// Component is a building block inside a container.
type Component struct {
	Element
	Technology string `json:"technology,omitempty"`
}

// Relationship is owned by its source element.
type Relationship struct {
	ID            string            `json:"id"`
	SourceID      string            `json:"sourceId"`
	DestinationID string            `json:"destinationId"`
	Description   string            `json:"description,omitempty"`
	Technology    string            `json:"technology,omitempty"`
	Tags          string            `json:"tags,omitempty"`
	Properties    map[string]string `json:"properties,omitempty"`
}

// Views lists the diagram views. Deployment and dynamic views are not modelled.
type Views struct {
	SystemLandscapeViews []View `json:"systemLandscapeViews"`
	SystemContextViews   []View `json:"systemContextViews"`
	ContainerViews       []View `json:"containerViews"`
	ComponentViews       []View `json:"componentViews"`
}

// View is one diagram with element positions.
type View struct {
	Key              string             `json:"key"`
	SoftwareSystemID string             `json:"softwareSystemId,omitempty"`
	ContainerID      string             `json:"containerId,omitempty"`
	Description      string             `json:"description,omitempty"`
	Elements         []ElementView      `json:"elements"`
	Relationships    []RelationshipView `json:"relationships"`
}

// ElementView places an element in a view.
type ElementView struct {
	ID string `json:"id"`
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

// RelationshipView includes a relationship in a view.
type RelationshipView struct {
	ID string `json:"id"`
}

// all returns every view in landscape, context, container, component order.
func (v Views) all() []View {
	out := make([]View, 0, len(v.SystemLandscapeViews)+len(v.SystemContextViews)+len(v.ContainerViews)+len(v.ComponentViews))
	out = append(out, v.SystemLandscapeViews...)
	out = append(out, v.SystemContextViews...)
	out = append(out, v.ContainerViews...)
	return append(out, v.ComponentViews...)
}
