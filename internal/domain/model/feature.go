// Package model defines the domain types shared across services and
// repositories: generation jobs, engine callbacks, report sections and
// model usage records.
package model

import "fmt"

// Feature identifies one AI-generated category of report content.
type Feature string

const (
	// FeatureEmergencyContacts produces contact and meeting location sections.
	FeatureEmergencyContacts Feature = "emergency_contacts"
	// FeatureSupplyBundles produces recommended supply bundle sections.
	FeatureSupplyBundles Feature = "supply_bundles"
	// FeatureSkills produces preparedness skill recommendations.
	FeatureSkills Feature = "skills"
	// FeatureSimulationDays produces practice drill day plans.
	FeatureSimulationDays Feature = "simulation_days"
	// FeatureRiskIndicators produces the structured risk assessment.
	FeatureRiskIndicators Feature = "risk_indicators"
)

// Features lists every supported feature.
var Features = []Feature{
	FeatureEmergencyContacts,
	FeatureSupplyBundles,
	FeatureSkills,
	FeatureSimulationDays,
	FeatureRiskIndicators,
}

// Valid reports whether the feature is a known value.
func (f Feature) Valid() bool {
	switch f {
	case FeatureEmergencyContacts, FeatureSupplyBundles, FeatureSkills,
		FeatureSimulationDays, FeatureRiskIndicators:
		return true
	}
	return false
}

// UnmarshalText implements encoding.TextUnmarshaler with validation.
func (f *Feature) UnmarshalText(text []byte) error {
	v := Feature(text)
	if !v.Valid() {
		return fmt.Errorf("invalid feature: %q", text)
	}
	*f = v
	return nil
}

// String implements fmt.Stringer.
func (f Feature) String() string { return string(f) }

// Section identifies one stored slice of a report document. A feature
// may own more than one section: emergency contacts fan out into both
// the contacts and meeting locations sections.
type Section string

const (
	SectionContacts         Section = "contacts"
	SectionMeetingLocations Section = "meeting_locations"
	SectionSupplyBundles    Section = "supply_bundles"
	SectionSkills           Section = "skills"
	SectionSimulationDays   Section = "simulation_days"
	SectionRiskIndicators   Section = "risk_indicators"
)

// Sections lists every report section.
var Sections = []Section{
	SectionContacts,
	SectionMeetingLocations,
	SectionSupplyBundles,
	SectionSkills,
	SectionSimulationDays,
	SectionRiskIndicators,
}

// Valid reports whether the section is a known value.
func (s Section) Valid() bool {
	switch s {
	case SectionContacts, SectionMeetingLocations, SectionSupplyBundles,
		SectionSkills, SectionSimulationDays, SectionRiskIndicators:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (s Section) String() string { return string(s) }

// Sections returns the report sections the feature writes.
func (f Feature) Sections() []Section {
	switch f {
	case FeatureEmergencyContacts:
		return []Section{SectionContacts, SectionMeetingLocations}
	case FeatureSupplyBundles:
		return []Section{SectionSupplyBundles}
	case FeatureSkills:
		return []Section{SectionSkills}
	case FeatureSimulationDays:
		return []Section{SectionSimulationDays}
	case FeatureRiskIndicators:
		return []Section{SectionRiskIndicators}
	}
	return nil
}

// FeatureForWorkflow maps an engine workflow name to its feature.
// Workflow names follow the "generate_<feature>" convention.
func FeatureForWorkflow(workflow string) (Feature, bool) {
	const prefix = "generate_"
	if len(workflow) > len(prefix) && workflow[:len(prefix)] == prefix {
		f := Feature(workflow[len(prefix):])
		if f.Valid() {
			return f, true
		}
	}
	return "", false
}
