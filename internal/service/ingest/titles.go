package ingest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// LoadTitles reads recipe titles from a JSON array, a YAML sequence, or a
// plain text file with one title per line, chosen by extension. Blank titles
// are dropped and surrounding whitespace is trimmed.
func LoadTitles(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read titles file", goerr.V("path", path))
	}

	var titles []string

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(raw, &titles); err != nil {
			return nil, goerr.Wrap(err, "failed to parse titles as a JSON array of strings", goerr.V("path", path))
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &titles); err != nil {
			return nil, goerr.Wrap(err, "failed to parse titles as a YAML list of strings", goerr.V("path", path))
		}
	default:
		titles = strings.Split(string(raw), "\n")
	}

	return clean(titles), nil
}

func clean(titles []string) []string {
	out := make([]string, 0, len(titles))
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if len(title) == 0 {
			continue
		}
		out = append(out, title)
	}
	return out
}
