// Package sqlitemodel persists the assembled network into a SQLite
// database, one row per node, edge and port connection.
package sqlitemodel

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/gridwise/pipetrace/pkg/pipetrace/geom"
	"github.com/gridwise/pipetrace/pkg/pipetrace/model"
	"github.com/gridwise/pipetrace/pkg/pipetrace/topology"
)

// sqliteBuilder implements model.Builder on a SQLite database.
type sqliteBuilder struct {
	db      *sql.DB
	entropy *ulid.MonotonicEntropy
}

// Open opens (or creates) a SQLite asset model with WAL mode enabled.
func Open(ctx context.Context, path string) (model.Builder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteBuilder{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Close closes the database connection
func (b *sqliteBuilder) Close() error {
	return b.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS nodes (
	id TEXT PRIMARY KEY,
	kind TEXT NOT NULL,
	x REAL NOT NULL,
	y REAL NOT NULL,
	name TEXT
);

CREATE TABLE IF NOT EXISTS edges (
	id TEXT PRIMARY KEY,
	attribute TEXT,
	direction TEXT NOT NULL,
	geometry TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS ports (
	edge_id TEXT NOT NULL,
	edge_end TEXT NOT NULL,
	node_id TEXT NOT NULL,
	node_port TEXT NOT NULL,
	UNIQUE(edge_id, edge_end),
	FOREIGN KEY(edge_id) REFERENCES edges(id) ON DELETE CASCADE,
	FOREIGN KEY(node_id) REFERENCES nodes(id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

func (b *sqliteBuilder) newID() string {
	return ulid.MustNew(ulid.Now(), b.entropy).String()
}

// JunctionNode implements model.Builder.
func (b *sqliteBuilder) JunctionNode(ctx context.Context, loc geom.XY) (model.NodeHandle, error) {
	return b.insertNode(ctx, model.NodeJunction, loc, "")
}

// AdapterNode implements model.Builder.
func (b *sqliteBuilder) AdapterNode(ctx context.Context, loc geom.XY) (model.NodeHandle, error) {
	return b.insertNode(ctx, model.NodeAdapter, loc, "")
}

// TerminalNode implements model.Builder.
func (b *sqliteBuilder) TerminalNode(ctx context.Context, loc geom.XY, name string) (model.NodeHandle, error) {
	return b.insertNode(ctx, model.NodeTerminal, loc, name)
}

func (b *sqliteBuilder) insertNode(ctx context.Context, kind model.NodeKind, loc geom.XY, name string) (model.NodeHandle, error) {
	id := b.newID()
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO nodes (id, kind, x, y, name) VALUES (?, ?, ?, ?, ?)`,
		id, string(kind), loc.X, loc.Y, name)
	if err != nil {
		return "", fmt.Errorf("insert node: %w", err)
	}
	return model.NodeHandle(id), nil
}

// ChainEdge implements model.Builder.
func (b *sqliteBuilder) ChainEdge(ctx context.Context, pts []geom.XY, attr string, dir topology.Direction) (model.EdgeHandle, error) {
	geometry, err := json.Marshal(pts)
	if err != nil {
		return "", fmt.Errorf("encode geometry: %w", err)
	}

	id := b.newID()
	_, err = b.db.ExecContext(ctx,
		`INSERT INTO edges (id, attribute, direction, geometry) VALUES (?, ?, ?, ?)`,
		id, attr, dir.String(), string(geometry))
	if err != nil {
		return "", fmt.Errorf("insert edge: %w", err)
	}
	return model.EdgeHandle(id), nil
}

// ConnectPorts implements model.Builder.
func (b *sqliteBuilder) ConnectPorts(ctx context.Context, edge model.EdgeHandle, at model.EdgeEnd, node model.NodeHandle, port model.Port) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO ports (edge_id, edge_end, node_id, node_port) VALUES (?, ?, ?, ?)`,
		string(edge), at.String(), string(node), port.String())
	if err != nil {
		return fmt.Errorf("connect ports: %w", err)
	}
	return nil
}
