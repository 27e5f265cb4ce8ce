// Package seed loads lifespan statistics from YAML and writes them to a store.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"lifeclock/internal/lifespan/models"
)

//go:embed statistics.yaml
var defaultStatistics []byte

// Writer persists statistics.
type Writer interface {
	Upsert(ctx context.Context, stat models.Statistic) error
}

type document struct {
	Statistics []models.Statistic `yaml:"statistics"`
}

// Parse decodes a statistics document and validates every row. Duplicate
// {sex, year} pairs are rejected.
func Parse(r io.Reader) ([]models.Statistic, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode statistics: %w", err)
	}

	type key struct {
		sex  models.Sex
		year int
	}
	seen := make(map[key]struct{}, len(doc.Statistics))
	for i, st := range doc.Statistics {
		if err := st.Validate(); err != nil {
			return nil, fmt.Errorf("statistic %d: %w", i, err)
		}
		k := key{st.Sex, st.Year}
		if _, dup := seen[k]; dup {
			return nil, fmt.Errorf("statistic %d: duplicate entry for %s %d", i, st.Sex, st.Year)
		}
		seen[k] = struct{}{}
	}
	return doc.Statistics, nil
}

// LoadFile parses the statistics file at path.
func LoadFile(path string) ([]models.Statistic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open statistics file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Default returns the statistics bundled with the binary.
func Default() []models.Statistic {
	stats, err := Parse(bytes.NewReader(defaultStatistics))
	if err != nil {
		panic(fmt.Sprintf("bundled statistics are invalid: %v", err))
	}
	return stats
}

// Apply upserts stats into w and returns how many rows were written.
func Apply(ctx context.Context, w Writer, stats []models.Statistic) (int, error) {
	for i, st := range stats {
		if err := w.Upsert(ctx, st); err != nil {
			return i, fmt.Errorf("seed %s %d: %w", st.Sex, st.Year, err)
		}
	}
	return len(stats), nil
}
