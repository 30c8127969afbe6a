package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
)

// DefaultCollection holds the graph documents.
const DefaultCollection = "graphs"

// MongoOptions configures a MongoStore.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string // defaults to DefaultCollection
}

// MongoStore keeps one document per graph, keyed by graph id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects and pings the primary.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	if opts.URI == "" || opts.Database == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "mongo store needs a URI and a database")
	}
	if opts.Collection == "" {
		opts.Collection = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(opts.Database).Collection(opts.Collection),
	}, nil
}

type mongoGraph struct {
	ID        string      `bson:"_id"`
	NodeCount int         `bson:"node_count"`
	EdgeCount int         `bson:"edge_count"`
	UpdatedAt time.Time   `bson:"updated_at"`
	Nodes     []mongoNode `bson:"nodes,omitempty"`
	Edges     []mongoEdge `bson:"edges,omitempty"`
}

type mongoNode struct {
	ID         string         `bson:"id"`
	Type       string         `bson:"type"`
	Label      string         `bson:"label"`
	Properties map[string]any `bson:"properties,omitempty"`
	Position   []float64      `bson:"position,omitempty"`
}

type mongoEdge struct {
	Source             string         `bson:"source"`
	Target             string         `bson:"target"`
	Label              string         `bson:"label"`
	Weight             float64        `bson:"weight"`
	Properties         map[string]any `bson:"properties,omitempty"`
	TransformationType string         `bson:"transformation_type,omitempty"`
	Composition        []string       `bson:"composition,omitempty"`
	IsIsomorphism      bool           `bson:"is_isomorphism,omitempty"`
}

// Put upserts the graph document.
func (s *MongoStore) Put(ctx context.Context, id string, g *graph.Graph) error {
	if err := errors.ValidateGraphID(id); err != nil {
		return err
	}
	doc := toMongo(id, g, time.Now().UTC())
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("put graph %s: %w", id, err)
	}
	return nil
}

// Get loads the graph document.
func (s *MongoStore) Get(ctx context.Context, id string) (*graph.Graph, error) {
	if err := errors.ValidateGraphID(id); err != nil {
		return nil, err
	}
	var doc mongoGraph
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeNotFound, "graph %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get graph %s: %w", id, err)
	}
	return fromMongo(doc)
}

// Delete removes the graph document.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateGraphID(id); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete graph %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeNotFound, "graph %q not found", id)
	}
	return nil
}

// List reads the summary fields only.
func (s *MongoStore) List(ctx context.Context) ([]Entry, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"nodes": 0, "edges": 0})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	var docs []mongoGraph
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}
	out := make([]Entry, len(docs))
	for i, d := range docs {
		out[i] = Entry{ID: d.ID, Nodes: d.NodeCount, Edges: d.EdgeCount, UpdatedAt: d.UpdatedAt}
	}
	return out, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func toMongo(id string, g *graph.Graph, now time.Time) mongoGraph {
	doc := mongoGraph{ID: id, NodeCount: g.NodeCount(), EdgeCount: g.EdgeCount(), UpdatedAt: now}
	for _, n := range g.Nodes() {
		mn := mongoNode{ID: n.ID, Type: string(n.Type), Label: n.Label, Properties: n.Properties}
		if n.Position != nil {
			mn.Position = []float64{n.Position.X, n.Position.Y}
		}
		doc.Nodes = append(doc.Nodes, mn)
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, mongoEdge{
			Source:             e.Source,
			Target:             e.Target,
			Label:              e.Label,
			Weight:             e.Weight,
			Properties:         e.Properties,
			TransformationType: e.TransformationType,
			Composition:        e.Composition,
			IsIsomorphism:      e.IsIsomorphism,
		})
	}
	return doc
}

func fromMongo(doc mongoGraph) (*graph.Graph, error) {
	nodes := make([]graph.Node, 0, len(doc.Nodes))
	for _, mn := range doc.Nodes {
		t, err := graph.ParseNodeType(mn.Type)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "graph %s node %s", doc.ID, mn.ID)
		}
		n := graph.Node{ID: mn.ID, Type: t, Label: mn.Label, Properties: plainMap(mn.Properties)}
		if len(mn.Position) == 2 {
			n = n.At(mn.Position[0], mn.Position[1])
		}
		nodes = append(nodes, n)
	}
	edges := make([]graph.Edge, 0, len(doc.Edges))
	for _, me := range doc.Edges {
		e := graph.NewEdge(me.Source, me.Target, me.Label)
		e.Weight = me.Weight
		if me.Properties != nil {
			e.Properties = plainMap(me.Properties)
		}
		e.TransformationType = me.TransformationType
		e.Composition = me.Composition
		e.IsIsomorphism = me.IsIsomorphism
		edges = append(edges, e)
	}
	return graph.Assemble(nodes, edges), nil
}

// plainMap converts decoded BSON containers inside m to plain Go maps and
// slices, so property values look the same whichever store produced them.
func plainMap(m map[string]any) graph.Properties {
	if m == nil {
		return graph.Properties{}
	}
	out := make(graph.Properties, len(m))
	for k, v := range m {
		out[k] = plain(v)
	}
	return out
}

func plain(v any) any {
	switch v := v.(type) {
	case primitive.D:
		m := make(map[string]any, len(v))
		for _, e := range v {
			m[e.Key] = plain(e.Value)
		}
		return m
	case primitive.M:
		return map[string]any(plainMap(v))
	case primitive.A:
		out := make([]any, len(v))
		for i, x := range v {
			out[i] = plain(x)
		}
		return out
	case int32:
		return int(v)
	case int64:
		return int(v)
	}
	return v
}

var _ Store = (*MongoStore)(nil)
