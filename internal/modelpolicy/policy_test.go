package modelpolicy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/readykit/report-api/internal/domain/model"
)

func TestForFeature_EveryFeatureHasAChain(t *testing.T) {
	for _, f := range model.Features {
		p := ForFeature(f)
		chain := p.Chain()
		assert.NotEmpty(t, chain, "feature %q", f)
		assert.Equal(t, p.Primary, chain[0])
		assert.Positive(t, p.MaxTokens)
		assert.Positive(t, p.Temperature)
	}
}

func TestForFeature_RiskUsesLargerModel(t *testing.T) {
	p := ForFeature(model.FeatureRiskIndicators)
	assert.Equal(t, modelSonnet, p.Primary)
	assert.Contains(t, p.Fallbacks, modelHaiku)
	assert.Equal(t, 0.3, p.Temperature)
}

func TestForFeature_ListContentUsesSmallModel(t *testing.T) {
	p := ForFeature(model.FeatureSkills)
	assert.Equal(t, modelHaiku, p.Primary)
}
