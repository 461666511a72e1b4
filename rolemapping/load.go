package rolemapping

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DefaultFile is the rule file bundled next to the function binary.
const DefaultFile = "role_mapping_configuration.json"

type ruleFile struct {
	Roles []Rule `json:"roles"`
}

// Load reads a rule set in the form {"roles": [...]}. File order is kept.
func Load(r io.Reader) (RuleSet, error) {
	var f ruleFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("could not decode role mapping: %w", err)
	}

	for i, rule := range f.Roles {
		if err := rule.validate(); err != nil {
			return nil, fmt.Errorf("role mapping entry %d: %w", i, err)
		}
	}

	return RuleSet(f.Roles), nil
}

// LoadFile reads a rule set from path.
func LoadFile(path string) (RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open role mapping %s: %w", path, err)
	}
	defer f.Close()

	return Load(f)
}
