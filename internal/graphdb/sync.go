package graphdb

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/c4-modeller/engine/internal/diagram"
)

const (
	deleteModelCypher = `MATCH (n:C4Element {model: $model}) DETACH DELETE n`

	createElementsCypher = `
UNWIND $elements AS e
CREATE (n:C4Element)
SET n = e`

	createParentsCypher = `
UNWIND $parents AS p
MATCH (child:C4Element {model: $model, id: p.child}), (parent:C4Element {model: $model, id: p.parent})
CREATE (child)-[:C4_PART_OF]->(parent)`

	createRelationshipsCypher = `
UNWIND $relationships AS r
MATCH (a:C4Element {model: $model, id: r.from}), (b:C4Element {model: $model, id: r.to})
CREATE (a)-[rel:C4_RELATES_TO]->(b)
SET rel = r.props`
)

// Stats counts what Sync wrote.
type Stats struct {
	Elements      int `json:"elements"`
	Parents       int `json:"parents"`
	Relationships int `json:"relationships"`
}

// Params is the parameter set of one Sync.
type Params struct {
	Model         string
	Elements      []map[string]any
	Parents       []map[string]any
	Relationships []map[string]any
}

// Stats reports how many nodes and edges p describes.
func (p Params) Stats() Stats {
	return Stats{Elements: len(p.Elements), Parents: len(p.Parents), Relationships: len(p.Relationships)}
}

// BuildParams turns a snapshot into Cypher parameters. Nodes are keyed by
// the model name plus the element id. Parent links and relationships whose
// endpoints are not in the snapshot are left out.
func BuildParams(s diagram.Snapshot) Params {
	model := s.Metadata.Name
	p := Params{
		Model:         model,
		Elements:      []map[string]any{},
		Parents:       []map[string]any{},
		Relationships: []map[string]any{},
	}

	ids := make(map[string]bool, s.Len())
	for _, e := range s.AllEntities() {
		ids[e.ID] = true
	}
	for _, e := range s.AllEntities() {
		p.Elements = append(p.Elements, elementProps(model, e))
		parent := e.ParentSystem
		if e.Type == diagram.TypeComponent {
			parent = e.ParentContainer
		}
		if parent != "" && ids[parent] {
			p.Parents = append(p.Parents, map[string]any{"child": e.ID, "parent": parent})
		}
	}
	for _, r := range s.Relationships {
		if !ids[r.From] || !ids[r.To] {
			continue
		}
		p.Relationships = append(p.Relationships, map[string]any{
			"from":  r.From,
			"to":    r.To,
			"props": relationshipProps(r),
		})
	}
	return p
}

func elementProps(model string, e diagram.Entity) map[string]any {
	props := map[string]any{
		"model": model,
		"id":    e.ID,
		"type":  string(e.Type),
		"name":  e.Name,
		"x":     e.Position.X,
		"y":     e.Position.Y,
	}
	setString(props, "description", e.Description)
	setString(props, "technology", e.Technology)
	setString(props, "parentSystem", e.ParentSystem)
	setString(props, "parentContainer", e.ParentContainer)
	if len(e.Tags) > 0 {
		tags := make([]string, len(e.Tags))
		copy(tags, e.Tags)
		props["tags"] = tags
	}
	return props
}

func relationshipProps(r diagram.Relationship) map[string]any {
	props := map[string]any{
		"id":             r.ID,
		"description":    r.Description,
		"arrowDirection": string(r.Direction()),
		"lineStyle":      string(r.Style()),
		"animated":       r.Animated,
	}
	setString(props, "technology", r.Technology)
	return props
}

// Neo4j has no null properties; empty optional fields are left out.
func setString(props map[string]any, key, v string) {
	if v != "" {
		props[key] = v
	}
}

// Sync replaces the stored graph of the snapshot's model with the snapshot,
// in a single write transaction.
func (c *Client) Sync(ctx context.Context, s diagram.Snapshot) (Stats, error) {
	p := BuildParams(s)
	session := c.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		steps := []struct {
			cypher string
			params map[string]any
		}{
			{deleteModelCypher, map[string]any{"model": p.Model}},
			{createElementsCypher, map[string]any{"elements": p.Elements}},
			{createParentsCypher, map[string]any{"model": p.Model, "parents": p.Parents}},
			{createRelationshipsCypher, map[string]any{"model": p.Model, "relationships": p.Relationships}},
		}
		for _, step := range steps {
			res, err := tx.Run(ctx, step.cypher, step.params)
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		c.log.Error("graph sync failed", "model", p.Model, "error", err)
		return Stats{}, fmt.Errorf("failed to sync model %q: %w", p.Model, err)
	}
	stats := p.Stats()
	c.log.Info("model synced to graph", "model", p.Model, "elements", stats.Elements, "relationships", stats.Relationships)
	return stats, nil
}

// CountElements returns how many nodes are stored for model.
func (c *Client) CountElements(ctx context.Context, model string) (int64, error) {
	session := c.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.Run(ctx, `MATCH (n:C4Element {model: $model}) RETURN count(n) AS n`, map[string]any{"model": model})
	if err != nil {
		return 0, fmt.Errorf("failed to count elements: %w", err)
	}
	if !result.Next(ctx) {
		return 0, result.Err()
	}
	n, _ := result.Record().Get("n")
	count, _ := n.(int64)
	return count, nil
}
