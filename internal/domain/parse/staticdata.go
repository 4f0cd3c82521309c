package parse

import "github.com/readykit/report-api/internal/domain/model"

// Curated fallback datasets. When a feature's parse yields nothing the
// whole dataset is substituted so the user never sees an empty
// section. Everything here is national-level and location-agnostic.

var staticContacts = []model.Contact{
	{
		Name:          "Emergency Services (911)",
		Phone:         "911",
		Category:      "emergency",
		Priority:      "critical",
		FitScore:      100,
		Reasoning:     "Universal emergency dispatch for police, fire and medical response.",
		Available24Hr: true,
		Provenance:    model.ProvenanceStatic,
	},
	{
		Name:          "Poison Control Center",
		Phone:         "1-800-222-1222",
		Website:       "https://www.poison.org",
		Category:      "medical",
		Priority:      "high",
		FitScore:      90,
		Reasoning:     "Free, confidential poisoning guidance staffed by pharmacists and nurses.",
		Available24Hr: true,
		Provenance:    model.ProvenanceStatic,
	},
	{
		Name:          "FEMA Helpline",
		Phone:         "1-800-621-3362",
		Website:       "https://www.fema.gov",
		Category:      "disaster_assistance",
		Priority:      "high",
		FitScore:      85,
		Reasoning:     "Federal disaster assistance registration and status, including shelter referrals.",
		Available24Hr: false,
		Provenance:    model.ProvenanceStatic,
	},
	{
		Name:          "American Red Cross",
		Phone:         "1-800-733-2767",
		Website:       "https://www.redcross.org",
		Category:      "disaster_assistance",
		Priority:      "high",
		FitScore:      85,
		Reasoning:     "Emergency shelter, supplies and family reunification after disasters.",
		Available24Hr: true,
		Provenance:    model.ProvenanceStatic,
	},
	{
		Name:          "National Weather Service",
		Phone:         "",
		Website:       "https://www.weather.gov",
		Category:      "information",
		Priority:      "medium",
		FitScore:      75,
		Reasoning:     "Authoritative severe weather watches, warnings and forecasts.",
		Available24Hr: true,
		Provenance:    model.ProvenanceStatic,
	},
}

var staticMeetingLocations = []model.MeetingLocation{
	{
		Name:         "Nearest public library",
		Address:      "Check your local branch address",
		Priority:     model.MeetingPrimary,
		Reasoning:    "Libraries are publicly accessible, well known to every family member and typically ADA accessible.",
		Description:  "Libraries are publicly accessible, well known to every family member and typically ADA accessible.",
		SuitableFor:  []string{"house fire", "local evacuation"},
		IsAccessible: true,
		Provenance:   model.ProvenanceStatic,
	},
	{
		Name:        "Nearest fire station",
		Address:     "Check your local station address",
		Priority:    model.MeetingSecondary,
		Reasoning:   "Staffed around the clock with trained responders and first aid on site.",
		Description: "Staffed around the clock with trained responders and first aid on site.",
		SuitableFor: []string{"medical emergency", "neighborhood incident"},
		HasParking:  true,
		Provenance:  model.ProvenanceStatic,
	},
	{
		Name:        "Regional evacuation shelter",
		Address:     "Designated by county emergency management",
		Priority:    model.MeetingTertiary,
		Reasoning:   "County-designated shelters handle large-scale evacuations with food and bedding.",
		Description: "County-designated shelters handle large-scale evacuations with food and bedding.",
		SuitableFor: []string{"regional evacuation", "extended displacement"},
		HasParking:  true,
		Provenance:  model.ProvenanceStatic,
	},
}

var staticSupplyBundles = []model.SupplyBundle{
	{
		Name:          "72-Hour Essentials Kit",
		Category:      "core",
		Items:         []string{"water (1 gallon per person per day)", "non-perishable food", "flashlight", "batteries", "first aid kit", "medications", "whistle"},
		EstimatedCost: "$75-$150",
		Priority:      "critical",
		Reasoning:     "Covers the first three days of any disruption before outside help arrives.",
		Provenance:    model.ProvenanceStatic,
	},
	{
		Name:          "Power Outage Kit",
		Category:      "utility",
		Items:         []string{"battery bank", "headlamps", "candles", "lighter", "battery radio", "coolers"},
		EstimatedCost: "$50-$120",
		Priority:      "high",
		Reasoning:     "Outages are the most common emergency across all regions.",
		Provenance:    model.ProvenanceStatic,
	},
	{
		Name:          "Evacuation Go-Bag",
		Category:      "mobility",
		Items:         []string{"copies of documents", "cash", "change of clothes", "phone chargers", "local maps", "emergency blanket"},
		EstimatedCost: "$40-$80",
		Priority:      "high",
		Reasoning:     "A packed bag cuts evacuation time from hours to minutes.",
		Provenance:    model.ProvenanceStatic,
	},
}

var staticSkills = []model.Skill{
	{
		Name:        "CPR and basic first aid",
		Category:    "medical",
		Difficulty:  "beginner",
		TimeToLearn: "1 day course",
		Reasoning:   "The single highest-impact skill; certified courses are widely available.",
		Resources:   []string{"American Red Cross", "local fire department"},
		Provenance:  model.ProvenanceStatic,
	},
	{
		Name:        "Water purification",
		Category:    "survival",
		Difficulty:  "beginner",
		TimeToLearn: "2 hours",
		Reasoning:   "Safe drinking water is the first constraint in any extended emergency.",
		Resources:   []string{"CDC water treatment guidance"},
		Provenance:  model.ProvenanceStatic,
	},
	{
		Name:        "Home utility shutoff",
		Category:    "home_safety",
		Difficulty:  "beginner",
		TimeToLearn: "1 hour",
		Reasoning:   "Knowing gas, water and electrical shutoffs prevents secondary damage after quakes or leaks.",
		Resources:   []string{"utility provider guides"},
		Provenance:  model.ProvenanceStatic,
	},
}

var staticSimulationDays = []model.SimulationDay{
	{
		Day:        1,
		Title:      "Communication drill",
		Focus:      "family contact plan",
		Tasks:      []string{"test out-of-state contact", "verify every phone has ICE numbers", "walk children through the plan"},
		Reasoning:  "Most families fail the contact plan on first attempt; testing exposes the gaps cheaply.",
		Provenance: model.ProvenanceStatic,
	},
	{
		Day:        2,
		Title:      "Evacuation walk-through",
		Focus:      "routes and meeting points",
		Tasks:      []string{"walk primary and secondary routes", "time the go-bag grab", "visit the primary meeting location"},
		Reasoning:  "Physically rehearsed routes hold up under stress far better than remembered ones.",
		Provenance: model.ProvenanceStatic,
	},
	{
		Day:        3,
		Title:      "Utilities-off evening",
		Focus:      "sheltering in place",
		Tasks:      []string{"cook one meal without power", "run lighting from the kit only", "note missing supplies"},
		Reasoning:  "A controlled outage reveals kit gaps before a real one does.",
		Provenance: model.ProvenanceStatic,
	},
}

// staticFallback returns the curated dataset for a section, marshaled
// by the caller. Risk indicators have no authoritative static dataset.
func staticFallback(s model.Section) (any, bool) {
	switch s {
	case model.SectionContacts:
		return staticContacts, true
	case model.SectionMeetingLocations:
		return staticMeetingLocations, true
	case model.SectionSupplyBundles:
		return staticSupplyBundles, true
	case model.SectionSkills:
		return staticSkills, true
	case model.SectionSimulationDays:
		return staticSimulationDays, true
	}
	return nil, false
}
