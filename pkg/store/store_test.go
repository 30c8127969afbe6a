package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
)

func sample() *graph.Graph {
	g := graph.New()
	g.AddNode(graph.Node{ID: "pc_C", Type: graph.PitchClass, Label: "C", Properties: graph.Properties{"octave": 4}}.At(0, 1))
	g.AddNode(graph.Node{ID: "pc_G", Type: graph.PitchClass, Label: "G"})
	e := graph.NewEdge("pc_C", "pc_G", "fifth")
	e.Weight = 2
	e.IsIsomorphism = true
	g.AddEdge(e)
	return g
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Put(ctx, "fifths", sample()); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	g, err := s.Get(ctx, "fifths")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if diff := cmp.Diff(sample().NodeIDs(), g.NodeIDs()); diff != "" {
		t.Errorf("NodeIDs mismatch (-want +got):\n%s", diff)
	}
	if e := g.Edges()[0]; e.Weight != 2 || !e.IsIsomorphism {
		t.Errorf("edge = %+v", e)
	}

	id, err := Create(ctx, s, graph.New())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("Create() id %q is not a UUID", id)
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List() = %+v, want 2 entries", entries)
	}
	var fifths Entry
	for _, e := range entries {
		if e.ID == "fifths" {
			fifths = e
		}
	}
	if fifths.Nodes != 2 || fifths.Edges != 1 || fifths.UpdatedAt.IsZero() {
		t.Errorf("fifths entry = %+v", fifths)
	}

	if err := s.Delete(ctx, "fifths"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Get(ctx, "fifths"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get(deleted) error = %v, want NOT_FOUND", err)
	}
	if err := s.Delete(ctx, "fifths"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Delete(missing) error = %v, want NOT_FOUND", err)
	}
}

func TestFileStoreRejectsBadIDs(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, _ := NewFileStore(filepath.Join(dir, "graphs"))
	for _, id := range []string{"", "../escape", "a/b", ".hidden"} {
		if err := s.Put(ctx, id, sample()); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("Put(%q) error = %v, want INVALID_INPUT", id, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.json")); !os.IsNotExist(err) {
		t.Error("path traversal wrote outside the store")
	}
}

func TestFileStoreSkipsForeignFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0644)

	entries, err := s.List(ctx)
	if err != nil || len(entries) != 0 {
		t.Errorf("List() = %v, %v, want empty", entries, err)
	}
}

func TestMongoConversion(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := toMongo("fifths", sample(), now)
	if doc.NodeCount != 2 || doc.EdgeCount != 1 || !doc.UpdatedAt.Equal(now) {
		t.Errorf("summary fields = %+v", doc)
	}

	// Simulate what the driver hands back for nested values.
	doc.Nodes[0].Properties = map[string]any{
		"octave": int32(4),
		"tags":   primitive.A{"root", primitive.D{{Key: "deg", Value: int64(1)}}},
	}
	g, err := fromMongo(doc)
	if err != nil {
		t.Fatalf("fromMongo() error = %v", err)
	}
	c, _ := g.Node("pc_C")
	want := graph.Properties{
		"octave": 4,
		"tags":   []any{"root", map[string]any{"deg": 1}},
	}
	if diff := cmp.Diff(want, c.Properties); diff != "" {
		t.Errorf("properties mismatch (-want +got):\n%s", diff)
	}
	if c.Position == nil || c.Position.Y != 1 {
		t.Errorf("position = %v", c.Position)
	}
	g2, _ := g.Node("pc_G")
	if g2.Position != nil || g2.Properties == nil {
		t.Errorf("pc_G = %+v", g2)
	}

	doc.Nodes[1].Type = "chord"
	if _, err := fromMongo(doc); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("fromMongo(bad type) error = %v, want INVALID_FORMAT", err)
	}
}

// TestMongoStore runs against a live server when TONEGRAPH_TEST_MONGO is set.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("TONEGRAPH_TEST_MONGO")
	if uri == "" {
		t.Skip("TONEGRAPH_TEST_MONGO not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoOptions{URI: uri, Database: "tonegraph_test", Collection: uuid.NewString()})
	if err != nil {
		t.Fatalf("NewMongoStore() error = %v", err)
	}
	defer s.Close()
	defer s.coll.Drop(ctx)

	if err := s.Put(ctx, "fifths", sample()); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	g, err := s.Get(ctx, "fifths")
	if err != nil || g.NodeCount() != 2 {
		t.Fatalf("Get() = %v, %v", g, err)
	}
	entries, err := s.List(ctx)
	if err != nil || len(entries) != 1 || entries[0].Nodes != 2 {
		t.Errorf("List() = %+v, %v", entries, err)
	}
	if err := s.Delete(ctx, "fifths"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "fifths"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Delete(missing) error = %v", err)
	}
}
