// Package graph records document provenance in Neo4j: which departments a
// document was routed to, which persons appear in it, and which statutes it
// cites. The system degrades to a no-op when no endpoint is configured.
package graph

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Provenance is the slice of an ingestion outcome retained in the graph.
type Provenance struct {
	DocumentID uuid.UUID
	Filename   string
	Routes     []Route
	Authors    []string
	Citations  []string
}

// Route links a document to a department with its normalized score.
type Route struct {
	Department string
	Score      float64
}

// Node is a graph node in a neighborhood view.
type Node struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Name  string `json:"name"`
}

// Edge is a directed relationship in a neighborhood view.
type Edge struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Type  string  `json:"type"`
	Score float64 `json:"score,omitempty"`
}

// Neighborhood holds the nodes and edges adjacent to a document.
type Neighborhood struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// System defines the public contract for provenance recording. All methods
// are idempotent: RecordProvenance replaces routing edges rather than
// appending them.
type System interface {
	RecordProvenance(ctx context.Context, p Provenance) error
	Remove(ctx context.Context, documentID uuid.UUID) error
	Neighborhood(ctx context.Context, documentID uuid.UUID) (*Neighborhood, error)
	Close(ctx context.Context) error
}

const (
	upsertDocumentQuery = `
MERGE (d:Document {id: $id})
SET d.filename = $filename
WITH d
OPTIONAL MATCH (d)-[r:ROUTED_TO]->()
DELETE r`

	mergeRouteQuery = `
MATCH (d:Document {id: $id})
MERGE (dep:Department {code: $code})
MERGE (d)-[r:ROUTED_TO]->(dep)
SET r.score = $score`

	mergeAuthorQuery = `
MATCH (d:Document {id: $id})
MERGE (p:Person {name: $name})
MERGE (d)-[:AUTHORED_BY]->(p)`

	mergeCitationQuery = `
MATCH (d:Document {id: $id})
MERGE (s:Directive {citation: $citation})
MERGE (d)-[:REFERENCES]->(s)`

	removeQuery = `
MATCH (d:Document {id: $id})
DETACH DELETE d`

	neighborhoodQuery = `
MATCH (d:Document {id: $id})
OPTIONAL MATCH (d)-[r]-(n)
RETURN d, r, n`
)

type runFunc func(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)

type system struct {
	driver   neo4j.DriverWithContext
	database string
	logger   *slog.Logger
	run      runFunc
}

// New connects to Neo4j and verifies connectivity. When cfg has no URI the
// returned System is a no-op that logs skipped operations at debug level.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (System, error) {
	log := logger.With("system", "graph")

	if !cfg.Enabled() {
		log.Debug("graph disabled, no uri configured")
		return &disabled{logger: log}, nil
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}

	s := &system{driver: driver, database: cfg.Database, logger: log}
	s.run = func(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
		return neo4j.ExecuteQuery(ctx, driver, query, params,
			neo4j.EagerResultTransformer,
			neo4j.ExecuteQueryWithDatabase(s.database),
		)
	}

	return s, nil
}

func (s *system) Close(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Close(ctx)
}

func (s *system) RecordProvenance(ctx context.Context, p Provenance) error {
	id := p.DocumentID.String()

	if _, err := s.run(ctx, upsertDocumentQuery, map[string]any{
		"id":       id,
		"filename": p.Filename,
	}); err != nil {
		return fmt.Errorf("upsert document node: %w", err)
	}

	for _, route := range p.Routes {
		if _, err := s.run(ctx, mergeRouteQuery, map[string]any{
			"id":    id,
			"code":  route.Department,
			"score": route.Score,
		}); err != nil {
			return fmt.Errorf("merge route %s: %w", route.Department, err)
		}
	}

	for _, name := range dedupe(p.Authors) {
		if _, err := s.run(ctx, mergeAuthorQuery, map[string]any{
			"id":   id,
			"name": name,
		}); err != nil {
			return fmt.Errorf("merge author: %w", err)
		}
	}

	for _, citation := range dedupe(p.Citations) {
		if _, err := s.run(ctx, mergeCitationQuery, map[string]any{
			"id":       id,
			"citation": citation,
		}); err != nil {
			return fmt.Errorf("merge citation: %w", err)
		}
	}

	s.logger.DebugContext(ctx, "provenance recorded",
		"document_id", id,
		"routes", len(p.Routes),
	)
	return nil
}

func (s *system) Remove(ctx context.Context, documentID uuid.UUID) error {
	if _, err := s.run(ctx, removeQuery, map[string]any{"id": documentID.String()}); err != nil {
		return fmt.Errorf("remove document node: %w", err)
	}
	return nil
}

func (s *system) Neighborhood(ctx context.Context, documentID uuid.UUID) (*Neighborhood, error) {
	result, err := s.run(ctx, neighborhoodQuery, map[string]any{"id": documentID.String()})
	if err != nil {
		return nil, fmt.Errorf("query neighborhood: %w", err)
	}

	nb := &Neighborhood{Nodes: []Node{}, Edges: []Edge{}}
	seen := map[string]bool{}

	for _, record := range result.Records {
		dVal, _ := record.Get("d")
		docNode, ok := dVal.(neo4j.Node)
		if !ok {
			continue
		}

		doc := nodeView(docNode)
		if !seen[doc.ID] {
			nb.Nodes = append(nb.Nodes, doc)
			seen[doc.ID] = true
		}

		rVal, _ := record.Get("r")
		rel, ok := rVal.(neo4j.Relationship)
		if !ok {
			continue
		}
		nVal, _ := record.Get("n")
		otherNode, ok := nVal.(neo4j.Node)
		if !ok {
			continue
		}

		other := nodeView(otherNode)
		if !seen[other.ID] {
			nb.Nodes = append(nb.Nodes, other)
			seen[other.ID] = true
		}

		edge := Edge{From: doc.ID, To: other.ID, Type: rel.Type}
		if rel.StartElementId != docNode.ElementId {
			edge.From, edge.To = other.ID, doc.ID
		}
		if score, ok := rel.Props["score"].(float64); ok {
			edge.Score = score
		}
		nb.Edges = append(nb.Edges, edge)
	}

	return nb, nil
}

func nodeView(n neo4j.Node) Node {
	label := ""
	if len(n.Labels) > 0 {
		label = n.Labels[0]
	}

	var id, name string
	switch label {
	case "Document":
		id, _ = n.Props["id"].(string)
		name, _ = n.Props["filename"].(string)
	case "Department":
		id, _ = n.Props["code"].(string)
		name = id
	case "Person":
		name, _ = n.Props["name"].(string)
		id = name
	case "Directive":
		name, _ = n.Props["citation"].(string)
		id = name
	default:
		id = n.ElementId
	}

	return Node{ID: id, Label: label, Name: name}
}

func dedupe(values []string) []string {
	out := make([]string, 0, len(values))
	seen := map[string]bool{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

type disabled struct {
	logger *slog.Logger
}

func (d *disabled) RecordProvenance(ctx context.Context, p Provenance) error {
	d.logger.DebugContext(ctx, "graph disabled, skipping provenance", "document_id", p.DocumentID)
	return nil
}

func (d *disabled) Remove(ctx context.Context, documentID uuid.UUID) error {
	d.logger.DebugContext(ctx, "graph disabled, skipping removal", "document_id", documentID)
	return nil
}

func (d *disabled) Neighborhood(ctx context.Context, documentID uuid.UUID) (*Neighborhood, error) {
	return &Neighborhood{Nodes: []Node{}, Edges: []Edge{}}, nil
}

func (d *disabled) Close(ctx context.Context) error {
	return nil
}
