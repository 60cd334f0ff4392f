package classify

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRules []byte

// Department pairs an internal category code with the canonical
// organizational name used when persisting predictions.
type Department struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// Dominance configures the suppression pass. Departments are visited in
// Order; one whose score reaches Trigger receives Bonus, and every other
// department still below Trigger is multiplied by Suppressor.
type Dominance struct {
	Order      []string `yaml:"order" json:"order"`
	Trigger    float64  `yaml:"trigger" json:"trigger"`
	Bonus      float64  `yaml:"bonus" json:"bonus"`
	Suppressor float64  `yaml:"suppressor" json:"suppressor"`
}

// Catalog is the full scoring configuration: the department roster, the
// per-department rule lists, the dominance pass, and the prediction
// threshold applied to normalized scores.
type Catalog struct {
	Threshold   float64           `yaml:"threshold" json:"threshold"`
	Dominance   Dominance         `yaml:"dominance" json:"dominance"`
	Departments []Department      `yaml:"departments" json:"departments"`
	Rules       map[string][]Rule `yaml:"rules" json:"rules"`
}

// DefaultCatalog returns the embedded rule catalog. It panics if the
// embedded document is malformed, which indicates a build defect.
func DefaultCatalog() *Catalog {
	catalog, err := ParseCatalog(defaultRules)
	if err != nil {
		panic("classify: embedded rule catalog is invalid: " + err.Error())
	}
	return catalog
}

// LoadCatalog reads and validates a rule catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog parses, validates, and compiles a YAML rule catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	if err := catalog.finalize(); err != nil {
		return nil, err
	}

	return &catalog, nil
}

// Department resolves a department code to its catalog entry.
func (c *Catalog) Department(code string) (Department, bool) {
	for _, d := range c.Departments {
		if d.Code == code {
			return d, true
		}
	}
	return Department{}, false
}

func (c *Catalog) finalize() error {
	if len(c.Departments) == 0 {
		return fmt.Errorf("%w: no departments defined", ErrInvalidCatalog)
	}

	seen := make(map[string]bool, len(c.Departments))
	for _, d := range c.Departments {
		if d.Code == "" || d.Name == "" {
			return fmt.Errorf("%w: department code and name are required", ErrInvalidCatalog)
		}
		if seen[d.Code] {
			return fmt.Errorf("%w: duplicate department %q", ErrInvalidCatalog, d.Code)
		}
		seen[d.Code] = true
	}

	if c.Threshold <= 0 || c.Threshold > 1 {
		return fmt.Errorf("%w: threshold must be in (0, 1]", ErrInvalidCatalog)
	}

	if c.Dominance.Trigger <= 0 {
		return fmt.Errorf("%w: dominance trigger must be positive", ErrInvalidCatalog)
	}
	if c.Dominance.Bonus < 0 {
		return fmt.Errorf("%w: dominance bonus must be non-negative", ErrInvalidCatalog)
	}
	if c.Dominance.Suppressor <= 0 || c.Dominance.Suppressor >= 1 {
		return fmt.Errorf("%w: dominance suppressor must be in (0, 1)", ErrInvalidCatalog)
	}
	for _, code := range c.Dominance.Order {
		if !seen[code] {
			return fmt.Errorf("%w: dominance order references unknown department %q", ErrInvalidCatalog, code)
		}
	}

	for code, rules := range c.Rules {
		if !seen[code] {
			return fmt.Errorf("%w: rules reference unknown department %q", ErrInvalidCatalog, code)
		}
		for i := range rules {
			if err := rules[i].validate(code); err != nil {
				return err
			}
			if err := rules[i].compile(); err != nil {
				return err
			}
		}
	}

	return nil
}
