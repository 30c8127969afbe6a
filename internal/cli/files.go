package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tonegraph/pkg/errors"
	"github.com/matzehuels/tonegraph/pkg/graph"
	gio "github.com/matzehuels/tonegraph/pkg/io"
	"github.com/matzehuels/tonegraph/pkg/pipeline"
)

// stdinPath names standard input on the command line.
const stdinPath = "-"

// readInput reads a notation file, or stdin for "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	var r io.Reader
	if path == stdinPath {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input not found: %s", path)
			}
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(io.LimitReader(r, pipeline.MaxInputBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(data) > pipeline.MaxInputBytes {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s exceeds %d bytes", path, pipeline.MaxInputBytes)
	}
	return data, nil
}

// loadGraph reads a graph file in the format implied by its extension, or
// JSON from stdin for "-".
func loadGraph(cmd *cobra.Command, path string) (*graph.Graph, error) {
	if path == stdinPath {
		return gio.ReadJSON(cmd.InOrStdin())
	}
	g, err := gio.Import(path)
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", path, err)
	}
	return g, nil
}

// writeGraph saves g to output, or to stdout when output is empty. The
// format flag wins over the output extension; stdout defaults to JSON.
func writeGraph(cmd *cobra.Command, g *graph.Graph, output, format string) error {
	f, err := graphFormat(output, format)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := gio.Save(&buf, g, f); err != nil {
		return err
	}
	return writeArtifact(cmd, buf.Bytes(), output)
}

func graphFormat(output, format string) (gio.Format, error) {
	switch {
	case format != "":
		return gio.ParseFormat(format)
	case output != "":
		if f, err := gio.FormatFromPath(output); err == nil {
			return f, nil
		}
	}
	return gio.FormatJSON, nil
}

// writeArtifact writes data to output, or to stdout when output is empty.
func writeArtifact(cmd *cobra.Command, data []byte, output string) error {
	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	return nil
}

// derivedPath replaces the extension of input with suffix, so
// "chords.txt" and ".graph.json" give "chords.graph.json".
func derivedPath(input, suffix string) string {
	if input == stdinPath {
		return ""
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}
