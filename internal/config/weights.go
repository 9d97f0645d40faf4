package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"scholar-match/internal/domain/matching"
)

// LoadWeights overlays the TOML file at path onto the default weights.
// An empty path yields the defaults.
func LoadWeights(path string) (matching.Weights, error) {
	w := matching.DefaultWeights()
	path = strings.TrimSpace(path)
	if path == "" {
		return w, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return matching.Weights{}, fmt.Errorf("read weights file: %w", err)
	}
	return ParseWeights(b)
}

func ParseWeights(b []byte) (matching.Weights, error) {
	w := matching.DefaultWeights()
	if err := toml.Unmarshal(b, &w); err != nil {
		return matching.Weights{}, fmt.Errorf("parse weights file: %w", err)
	}
	if err := w.Validate(); err != nil {
		return matching.Weights{}, err
	}
	return w, nil
}
