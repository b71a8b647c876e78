package graph

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	recordEntity   = "entity"
	recordRelation = "relation"

	// maxLineSize bounds a single JSONL record.
	maxLineSize = 16 << 20
)

type recordHeader struct {
	Type string `json:"type"`
}

type entityRecord struct {
	Type string `json:"type"`
	Entity
}

type relationRecord struct {
	Type string `json:"type"`
	Relation
}

// lineWarning is called for every line that cannot be used.
type lineWarning func(line int, err error)

// loadGraph reads the graph file. A missing file is an empty graph.
func loadGraph(path string, warn lineWarning) (*KnowledgeGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return emptyGraph(), nil
		}
		return nil, fmt.Errorf("opening graph file: %w", err)
	}
	defer f.Close()

	g, err := decodeGraph(f, warn)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return g, nil
}

// decodeGraph parses JSONL records. Blank lines are ignored; lines that are
// not JSON or carry an unknown type are reported through warn and skipped.
func decodeGraph(r io.Reader, warn lineWarning) (*KnowledgeGraph, error) {
	g := emptyGraph()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var h recordHeader
		if err := json.Unmarshal(line, &h); err != nil {
			warn(lineNum, err)
			continue
		}

		switch h.Type {
		case recordEntity:
			var e Entity
			if err := json.Unmarshal(line, &e); err != nil {
				warn(lineNum, err)
				continue
			}
			if e.Observations == nil {
				e.Observations = []string{}
			}
			g.Entities = append(g.Entities, e)
		case recordRelation:
			var rel Relation
			if err := json.Unmarshal(line, &rel); err != nil {
				warn(lineNum, err)
				continue
			}
			g.Relations = append(g.Relations, rel)
		default:
			warn(lineNum, fmt.Errorf("unknown record type %q", h.Type))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return g, nil
}

// encodeGraph writes all entities, then all relations, one record per line.
func encodeGraph(w io.Writer, g *KnowledgeGraph) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for _, e := range g.Entities {
		if e.Observations == nil {
			e.Observations = []string{}
		}
		if err := enc.Encode(entityRecord{Type: recordEntity, Entity: e}); err != nil {
			return fmt.Errorf("encoding entity %q: %w", e.Name, err)
		}
	}
	for _, r := range g.Relations {
		if err := enc.Encode(relationRecord{Type: recordRelation, Relation: r}); err != nil {
			return fmt.Errorf("encoding relation %s -> %s: %w", r.From, r.To, err)
		}
	}
	return nil
}

// saveGraph replaces the graph file. The records are written to a temp file
// in the same directory and renamed over the target.
func saveGraph(path string, g *KnowledgeGraph) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating graph directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	bw := bufio.NewWriter(tmp)
	if err := encodeGraph(bw, g); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing graph file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replacing graph file: %w", err)
	}
	return nil
}
