// Package graphdb mirrors a model into Neo4j as a property graph, so it can
// be queried alongside other architecture data.
package graphdb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Config holds Neo4j connection configuration.
type Config struct {
	URI      string
	Username string
	Password string
	Database string
}

// DefaultConfig returns the settings of a local Neo4j install.
func DefaultConfig() Config {
	return Config{
		URI:      "bolt://localhost:7687",
		Username: "neo4j",
		Database: "neo4j",
	}
}

// Client wraps the Neo4j driver.
type Client struct {
	driver neo4j.DriverWithContext
	db     string
	log    *slog.Logger
}

// NewClient connects to Neo4j and creates the indexes Sync relies on.
func NewClient(ctx context.Context, cfg Config, log *slog.Logger) (*Client, error) {
	if log == nil {
		log = slog.Default()
	}
	driver, err := neo4j.NewDriverWithContext(
		cfg.URI,
		neo4j.BasicAuth(cfg.Username, cfg.Password, ""),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to connect to Neo4j: %w", err)
	}

	client := &Client{driver: driver, db: cfg.Database, log: log}
	if err := client.initSchema(ctx); err != nil {
		driver.Close(ctx)
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return client, nil
}

// Close closes the driver.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

func (c *Client) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return c.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: c.db,
		AccessMode:   mode,
	})
}

func (c *Client) initSchema(ctx context.Context) error {
	session := c.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	queries := []string{
		`CREATE INDEX c4_element_model IF NOT EXISTS FOR (e:C4Element) ON (e.model)`,
		`CREATE INDEX c4_element_id IF NOT EXISTS FOR (e:C4Element) ON (e.model, e.id)`,
	}
	for _, query := range queries {
		if _, err := session.Run(ctx, query, nil); err != nil {
			return fmt.Errorf("failed to run schema query %q: %w", query, err)
		}
	}
	return nil
}
