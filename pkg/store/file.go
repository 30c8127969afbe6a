package store

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
	gio "github.com/matzehuels/tonegraph/pkg/io"
)

// FileStore keeps each graph as <dir>/<id>.json in the stable graph JSON
// schema, so stored files can be read back with io.Import.
type FileStore struct {
	dir string
}

// NewFileStore opens or creates a store rooted at dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Put writes g to a temporary file and renames it into place.
func (s *FileStore) Put(ctx context.Context, id string, g *graph.Graph) error {
	if err := errors.ValidateGraphID(id); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := gio.WriteJSON(g, &buf); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, "."+id+"-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path(id))
}

// Get reads the graph stored under id.
func (s *FileStore) Get(ctx context.Context, id string) (*graph.Graph, error) {
	if err := errors.ValidateGraphID(id); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path(id))
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeNotFound, "graph %q not found", id)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return gio.ReadJSON(f)
}

// Delete removes the graph stored under id.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidateGraphID(id); err != nil {
		return err
	}
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return errors.New(errors.ErrCodeNotFound, "graph %q not found", id)
	}
	return err
}

// List decodes every stored graph to count its nodes and edges. Files that
// fail to decode are skipped.
func (s *FileStore) List(ctx context.Context) ([]Entry, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, f := range files {
		name := f.Name()
		if f.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != ".json" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		id := strings.TrimSuffix(name, ".json")
		g, err := s.Get(ctx, id)
		if err != nil {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{ID: id, Nodes: g.NodeCount(), Edges: g.EdgeCount(), UpdatedAt: info.ModTime().UTC()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Close does nothing for the file store.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

var _ Store = (*FileStore)(nil)
