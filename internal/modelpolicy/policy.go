// Package modelpolicy chooses which model serves each feature and how
// the direct generation path falls back when a model is unavailable.
package modelpolicy

import "github.com/readykit/report-api/internal/domain/model"

// Policy describes the model selection for one feature.
type Policy struct {
	Primary     string
	Fallbacks   []string
	Temperature float64
	MaxTokens   int
}

// Chain returns the primary model followed by its fallbacks, in the
// order the generator should try them.
func (p Policy) Chain() []string {
	chain := make([]string, 0, 1+len(p.Fallbacks))
	chain = append(chain, p.Primary)
	chain = append(chain, p.Fallbacks...)
	return chain
}

const (
	modelSonnet = "claude-sonnet-4-5-20250929"
	modelHaiku  = "claude-haiku-4-5-20251001"
)

// ForFeature returns the policy for a feature. Risk assessment gets
// the larger model at a low temperature so scores stay consistent;
// list-shaped content is fine on the small one.
func ForFeature(f model.Feature) Policy {
	switch f {
	case model.FeatureRiskIndicators:
		return Policy{
			Primary:     modelSonnet,
			Fallbacks:   []string{modelHaiku},
			Temperature: 0.3,
			MaxTokens:   8192,
		}
	case model.FeatureEmergencyContacts:
		return Policy{
			Primary:     modelSonnet,
			Fallbacks:   []string{modelHaiku},
			Temperature: 0.7,
			MaxTokens:   4096,
		}
	default:
		return Policy{
			Primary:     modelHaiku,
			Fallbacks:   []string{modelSonnet},
			Temperature: 0.7,
			MaxTokens:   4096,
		}
	}
}
