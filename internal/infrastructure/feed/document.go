package feed

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Document is a parsed vendor price feed
type Document struct {
	Shop       string     `yaml:"shop"`
	Categories []Category `yaml:"categories"`
	Offers     []Offer    `yaml:"goods"`
}

// Category is a category declaration in the feed
type Category struct {
	ID   int64  `yaml:"id"`
	Name string `yaml:"name"`
}

// Offer is a single priced good in the feed
type Offer struct {
	ID          int64        `yaml:"id"`
	CategoryID  int64        `yaml:"category"`
	Name        string       `yaml:"name"`
	Model       string       `yaml:"model"`
	Quantity    int          `yaml:"quantity"`
	Price       Price        `yaml:"price"`
	RetailPrice Price        `yaml:"price_rrc"`
	Parameters  ParameterMap `yaml:"parameters"`
}

// Price is a decimal amount parsed from a YAML scalar
type Price struct {
	decimal.Decimal
}

// UnmarshalYAML parses the scalar form of a price (integer, float or string)
func (p *Price) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("price must be a scalar, got %s", kindName(value.Kind))
	}
	d, err := decimal.NewFromString(value.Value)
	if err != nil {
		return fmt.Errorf("invalid price %q: %w", value.Value, err)
	}
	p.Decimal = d
	return nil
}

// ParameterMap maps parameter names to their scalar values.
// Feed values may be numbers or strings; both are kept as text.
type ParameterMap map[string]string

// UnmarshalYAML flattens a YAML mapping of arbitrary scalars into strings
func (m *ParameterMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("parameters must be a mapping, got %s", kindName(value.Kind))
	}
	out := make(ParameterMap, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i]
		val := value.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("parameter %q must have a scalar value", key.Value)
		}
		out[key.Value] = val.Value
	}
	*m = out
	return nil
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
