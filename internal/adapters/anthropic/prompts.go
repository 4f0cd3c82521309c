package anthropic

import (
	"encoding/json"
	"fmt"

	"github.com/readykit/report-api/internal/domain/model"
)

// featurePrompt is one rendered prompt pair.
type featurePrompt struct {
	System string
	User   string
}

const systemPreamble = "You are an emergency preparedness analyst. " +
	"You produce structured markdown reports for a household readiness application. " +
	"Follow the requested output format exactly: the document is machine-parsed. " +
	"Use '## ' for section headings, '### ' for each item, and '**Field**: value' lines for item fields. " +
	"Do not wrap the document in code fences and do not add commentary outside the requested sections."

// featureInstructions holds the per-feature user prompt template. The
// format instructions mirror what the downstream markdown parser
// recognizes, so keep field names in sync with it.
var featureInstructions = map[model.Feature]string{
	model.FeatureEmergencyContacts: `Analyze the household profile below and produce two sections.

First section, heading "## Emergency Contacts Analysis": recommend 5-8 real emergency contacts near the household's location. For each contact emit a "### <Name>" block with these fields:
**Phone**: contact phone number
**Address**: street address if known
**Website**: URL if known
**Category**: one of fire, police, medical, utility, poison_control, community
**Priority**: 1 (call first) through 3
**Fit Score**: 0-100 suitability for this household
**Available 24hr**: yes or no
**Relevant Scenarios**: comma-separated hazard names
**Reasoning**: one sentence on why this contact fits

Second section, heading "## Meeting Locations": recommend 3 reunification points. For each emit a "### Primary Meeting Location: <Name>" block (or Secondary/Tertiary) with:
**Address**: street address
**Description**: what the place is
**Suitable For**: comma-separated scenario names
**Practical Details**: parking and accessibility notes
**Reasoning**: one sentence on why this location fits`,

	model.FeatureSupplyBundles: `Using the household profile below, produce a section with heading "## Supply Bundles" recommending 3-5 supply bundles tailored to the household's hazards and size. For each bundle emit a "### <Bundle Name>" block with:
**Category**: one of water, food, medical, power, communication, shelter
**Items**: comma-separated item list with quantities
**Estimated Cost**: USD range
**Priority**: 1-3
**Reasoning**: one sentence linking the bundle to the household's hazards`,

	model.FeatureSkills: `Using the household profile below, produce a section with heading "## Recommended Skills" listing 4-6 preparedness skills the household should practice. For each skill emit a "### <Skill Name>" block with:
**Category**: one of medical, communication, navigation, shelter, water
**Difficulty**: beginner, intermediate, or advanced
**Time To Learn**: rough estimate
**Priority**: 1-3
**Reasoning**: one sentence on why this skill matters for this household`,

	model.FeatureSimulationDays: `Using the household profile below, produce a section with heading "## Simulation Days" planning 3 practice drill days. For each emit a "### Day <N>: <Title>" block with:
**Focus**: the scenario being rehearsed
**Tasks**: comma-separated task list
**Duration**: rough estimate
**Reasoning**: one sentence on what the day validates`,

	model.FeatureRiskIndicators: `Assess the household profile below and produce a section with heading "## Risk Assessment". Start with:
**Overall Score**: 0-100 combined risk score
**Summary**: two sentences summarizing the household's exposure

Then emit a "### <Hazard Name>" block per relevant hazard with:
**Likelihood**: 0-100
**Impact**: 0-100
**Score**: 0-100 combined
**Reasoning**: one sentence grounding the rating in the location or profile`,
}

// buildPrompt renders the prompt pair for a feature. The sanitized
// input document is embedded verbatim as the household profile.
func buildPrompt(feature model.Feature, input []byte) (*featurePrompt, error) {
	instructions, ok := featureInstructions[feature]
	if !ok {
		return nil, fmt.Errorf("no prompt defined for feature %q", feature)
	}
	profile := json.RawMessage(input)
	if len(profile) == 0 {
		profile = json.RawMessage(`{}`)
	}
	if !json.Valid(profile) {
		return nil, fmt.Errorf("input for feature %q is not valid JSON", feature)
	}
	user := fmt.Sprintf("%s\n\nHousehold profile:\n```json\n%s\n```", instructions, profile)
	return &featurePrompt{System: systemPreamble, User: user}, nil
}
