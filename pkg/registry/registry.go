// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"os"
	"strings"
)

func LoadRegistry(path string) (*QuestionRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg QuestionRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// SetForTier returns the registered question set for a tier, matching
// case-insensitively. The second return value is false if no set is
// registered for the tier.
func (r *QuestionRegistry) SetForTier(tier string) (*QuestionSet, bool) {
	for i := range r.Sets {
		if strings.EqualFold(r.Sets[i].Tier, tier) {
			return &r.Sets[i], true
		}
	}
	return nil, false
}
