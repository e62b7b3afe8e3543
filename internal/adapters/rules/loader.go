// Package rules loads the ordered salary band table from a JSON or YAML file,
// validates it against an embedded JSON Schema, and keeps the active table
// behind a hot-reloadable handle.
package rules

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/salaryband/internal/domain/banding"
)

// Document is the on-disk shape of a rule table.
type Document struct {
	DefaultBand string         `mapstructure:"default_band"`
	Bands       []banding.Band `mapstructure:"bands"`
}

// ParserFor picks a koanf parser by file extension.
func ParserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return json.Parser(), nil
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Parse decodes and validates a rule table. The table's own default_band
// takes precedence over fallback.
func Parse(data []byte, parser koanf.Parser, fallback string) (*banding.Table, error) {
	raw, err := parser.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parse: %w", ErrConfig, err)
	}
	if msgs := validateSchema(toSchemaValue(raw)); len(msgs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrConfig, strings.Join(msgs, "; "))
	}

	var doc Document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &doc,
		TagName:     "mapstructure",
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrConfig, err)
	}

	if doc.DefaultBand != "" {
		fallback = doc.DefaultBand
	}
	table := banding.NewTable(doc.Bands, fallback)
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	return table, nil
}

// LoadFile reads, validates, and builds the table stored at path.
func LoadFile(path, fallback string) (*banding.Table, error) {
	parser, err := ParserFor(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	data, err := file.Provider(path).ReadBytes()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrConfig, path, err)
	}
	table, err := Parse(data, parser, fallback)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// toSchemaValue normalizes parser output into the generic JSON shape the
// schema validator walks. YAML decoders may yield map[any]any for nested maps.
func toSchemaValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = toSchemaValue(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = toSchemaValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = toSchemaValue(item)
		}
		return out
	default:
		return v
	}
}
