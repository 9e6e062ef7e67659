package site

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Bitlatte/pyguide/internal/model"
)

// ErrUnsupportedSiteFile is returned for site files whose extension names
// no known format.
var ErrUnsupportedSiteFile = errors.New("unsupported site file")

// LoadFile reads a complete site definition from a YAML, JSON or TOML file.
// The format is chosen by extension.
func LoadFile(path string) (*model.SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site file %s: %w", path, err)
	}

	var cfg model.SiteConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".toml":
		err = decodeTOML(data, &cfg)
	default:
		return nil, fmt.Errorf("%w: %s (extension %q)", ErrUnsupportedSiteFile, path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse site file %s: %w", path, err)
	}
	return &cfg, nil
}

// decodeTOML goes through the JSON codec so the sidebar's tagged variant
// decodes the same way for every format.
func decodeTOML(data []byte, cfg *model.SiteConfig) error {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return err
	}
	bridge, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(bridge, cfg)
}
