package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readykit/report-api/internal/domain/model"
)

const contactsDoc = `# Emergency Preparedness

## Emergency Contacts Analysis

### City Fire Department
**Phone**: 555-0100
**Address**: 1 Main St
**Category**: fire
**Priority**: critical
**Fit Score**: 95
**Reasoning**: Closest station to the home address.
**Relevant Scenarios**: house fire, gas leak
**24/7 Available**: Yes

### Community Clinic
**Phone**: 555-0111
**Category**: medical
**Priority**: high
**Reasoning**: Walk-in urgent care within two miles.
**24/7 Available**: No

## Meeting Locations

### Primary Meeting Location: Oak Park Pavilion
**Address**: 12 Park Ave
**Reasoning**: Open ground away from structures.
**Practical Details**: Large parking lot, ADA accessible paths
**Suitable For**: house fire, earthquake
`

func TestParser_Contacts(t *testing.T) {
	p := NewParser(nil)
	res := p.Parse(model.FeatureEmergencyContacts, contactsDoc)

	require.Len(t, res.Contacts, 2)
	c := res.Contacts[0]
	assert.Equal(t, "City Fire Department", c.Name)
	assert.Equal(t, "555-0100", c.Phone)
	assert.Equal(t, "1 Main St", c.Address)
	assert.Equal(t, "fire", c.Category)
	assert.Equal(t, "critical", c.Priority)
	assert.Equal(t, 95, c.FitScore)
	assert.Equal(t, []string{"house fire", "gas leak"}, c.RelevantScenarios)
	assert.True(t, c.Available24Hr)
	assert.Equal(t, model.ProvenanceModel, c.Provenance)

	// Missing fit score defaults rather than discarding the item.
	assert.Equal(t, defaultFitScore, res.Contacts[1].FitScore)
	assert.False(t, res.Contacts[1].Available24Hr)
}

func TestParser_MeetingLocations(t *testing.T) {
	p := NewParser(nil)
	res := p.Parse(model.FeatureEmergencyContacts, contactsDoc)

	require.Len(t, res.MeetingLocations, 1)
	l := res.MeetingLocations[0]
	assert.Equal(t, "Oak Park Pavilion", l.Name)
	assert.Equal(t, model.MeetingPrimary, l.Priority)
	assert.Equal(t, "12 Park Ave", l.Address)
	assert.True(t, l.HasParking)
	assert.True(t, l.IsAccessible)
	assert.Equal(t, []string{"house fire", "earthquake"}, l.SuitableFor)
	// Description falls back to reasoning when absent.
	assert.Equal(t, l.Reasoning, l.Description)
}

func TestParser_DiscardsItemsMissingRequiredFields(t *testing.T) {
	doc := `## Emergency Contacts Analysis

### No Reasoning Here
**Phone**: 555-0001
**Category**: medical
**Priority**: high

### No Phone Here
**Category**: medical
**Priority**: high
**Reasoning**: Looks useful but has no number.

### Valid One
**Phone**: 555-0123
**Category**: medical
**Priority**: high
**Reasoning**: Complete record.
`
	res := NewParser(nil).Parse(model.FeatureEmergencyContacts, doc)
	require.Len(t, res.Contacts, 1)
	assert.Equal(t, "Valid One", res.Contacts[0].Name)
}

func TestParser_RecoversMisDelimitedItems(t *testing.T) {
	// The model promoted items to "## " depth. Blocks carrying the
	// section's required-field marker still parse as items.
	doc := `## Emergency Contacts Analysis

### Fire Station 3
**Phone**: 555-0100
**Category**: fire
**Priority**: critical
**Reasoning**: Nearest station.

## County Sheriff
**Phone**: 555-0199
**Category**: police
**Priority**: high
**Reasoning**: Non-emergency line for the county.

## Meeting Locations

## Secondary Meeting Location: Rec Center
**Address**: 40 Gym Rd
**Reasoning**: Indoor backup during storms.
`
	res := NewParser(nil).Parse(model.FeatureEmergencyContacts, doc)

	require.Len(t, res.Contacts, 2)
	assert.Equal(t, "County Sheriff", res.Contacts[1].Name)

	require.Len(t, res.MeetingLocations, 1)
	assert.Equal(t, "Rec Center", res.MeetingLocations[0].Name)
	assert.Equal(t, model.MeetingSecondary, res.MeetingLocations[0].Priority)
}

func TestParser_UnrecognizedBlocksBeforeAnySectionIgnored(t *testing.T) {
	doc := `## Random Preamble
**Phone**: 555-0000

## Emergency Contacts Analysis

### Real Contact
**Phone**: 555-0101
**Category**: medical
**Priority**: high
**Reasoning**: Valid.
`
	res := NewParser(nil).Parse(model.FeatureEmergencyContacts, doc)
	require.Len(t, res.Contacts, 1)
	assert.Equal(t, "Real Contact", res.Contacts[0].Name)
}

func TestParser_SupplyBundles(t *testing.T) {
	doc := `## Supply Bundles

### Storm Kit
**Category**: weather
**Items**: tarps, rope, duct tape
**Estimated Cost**: $60
**Priority**: high
**Reasoning**: Region sees frequent wind storms.
`
	res := NewParser(nil).Parse(model.FeatureSupplyBundles, doc)
	require.Len(t, res.SupplyBundles, 1)
	b := res.SupplyBundles[0]
	assert.Equal(t, "Storm Kit", b.Name)
	assert.Equal(t, []string{"tarps", "rope", "duct tape"}, b.Items)
	assert.Equal(t, "$60", b.EstimatedCost)
}

func TestParser_SimulationDays(t *testing.T) {
	doc := `## Simulation Days

### Day 1: Blackout Evening
**Focus**: power loss
**Tasks**: cook without power, run lanterns
**Reasoning**: Most likely scenario locally.

### Warm-up notes
**Focus**: not a day block
`
	res := NewParser(nil).Parse(model.FeatureSimulationDays, doc)
	require.Len(t, res.SimulationDays, 1)
	d := res.SimulationDays[0]
	assert.Equal(t, 1, d.Day)
	assert.Equal(t, "Blackout Evening", d.Title)
	assert.Equal(t, []string{"cook without power", "run lanterns"}, d.Tasks)
}

func TestParser_ItemHeadersAreNotSectionBreaks(t *testing.T) {
	// A "### " line contains "## " as a substring. The split must only
	// honor headers at the start of a line, or every item gets routed
	// through the wrong-depth recovery and its marker check. A properly
	// delimited day with all required fields parses even when it
	// carries none of the section's marker fields.
	doc := `## Simulation Days

### Day 1: Fire Drill
**Reasoning**: Practice the fastest exit routes.

### Day 2: Shelter in Place
**Focus**: staying put safely
**Tasks**: seal a room, inventory food
`
	res := NewParser(nil).Parse(model.FeatureSimulationDays, doc)
	require.Len(t, res.SimulationDays, 2)
	assert.Equal(t, "Fire Drill", res.SimulationDays[0].Title)
	assert.Equal(t, "Shelter in Place", res.SimulationDays[1].Title)
}

func TestSplitOnHeader(t *testing.T) {
	parts := splitOnHeader("intro\n## A\nbody\n### sub\n## B\n", "## ")
	require.Len(t, parts, 3)
	assert.Equal(t, "intro\n", parts[0])
	assert.Contains(t, parts[1], "A\nbody\n### sub")
	assert.Contains(t, parts[2], "B")
}

func TestParser_RiskIndicators(t *testing.T) {
	doc := `## Risk Assessment
**Overall Score**: 72
**Summary**: Moderate exposure dominated by seasonal flooding.

### Flooding
**Likelihood**: high
**Impact**: severe
**Reasoning**: Property sits in a 100-year floodplain.

### Wildfire
**Likelihood**: low
**Impact**: moderate
`
	res := NewParser(nil).Parse(model.FeatureRiskIndicators, doc)
	require.NotNil(t, res.Risk)
	assert.Equal(t, 72, res.Risk.OverallScore)
	assert.Equal(t, "Moderate exposure dominated by seasonal flooding.", res.Risk.Summary)
	require.Len(t, res.Risk.Hazards, 2)
	assert.Equal(t, "Flooding", res.Risk.Hazards[0].Name)
	assert.Equal(t, "high", res.Risk.Hazards[0].Likelihood)
}

func TestParser_GarbageYieldsEmptyResult(t *testing.T) {
	res := NewParser(nil).Parse(model.FeatureSkills, "I could not generate content today.")
	assert.True(t, res.Empty(model.SectionSkills))
}

func TestExtractField(t *testing.T) {
	block := "Header\n**Phone**: 555-1234\n**phone** 999\n**Fit Score** 88\n"
	assert.Equal(t, "555-1234", extractField(block, "Phone"))
	assert.Equal(t, "88", extractField(block, "Fit Score"))
	assert.Equal(t, "", extractField(block, "Website"))
}
