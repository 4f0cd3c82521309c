package parse

import (
	"encoding/json"
	"fmt"

	"github.com/readykit/report-api/internal/domain/model"
)

// BuildSections turns a parse result into the section updates to merge
// into the report. Empty sections substitute their curated fallback
// dataset with AIAnalysisUsed=false; a section with neither parsed
// items nor a fallback is omitted entirely.
func (p *Parser) BuildSections(feature model.Feature, res *Result) ([]model.SectionUpdate, error) {
	updates := make([]model.SectionUpdate, 0, 2)
	for _, section := range feature.Sections() {
		var (
			value  any
			fromAI = true
		)
		if res.Empty(section) {
			fb, ok := staticFallback(section)
			if !ok {
				p.logger().Warn("empty parse with no fallback dataset, section skipped",
					"feature", feature, "section", section)
				continue
			}
			p.logger().Info("substituting fallback dataset",
				"feature", feature, "section", section)
			value, fromAI = fb, false
		} else {
			value = sectionValue(res, section)
		}

		payload, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("marshal section %s: %w", section, err)
		}
		updates = append(updates, model.SectionUpdate{
			Section:        section,
			Payload:        payload,
			AIAnalysisUsed: fromAI,
		})
	}
	return updates, nil
}

// FallbackSections returns every fallback-backed section for a
// feature, used when the upstream call itself failed and there is no
// output to parse.
func (p *Parser) FallbackSections(feature model.Feature) []model.SectionUpdate {
	updates, err := p.BuildSections(feature, &Result{})
	if err != nil {
		// Static datasets always marshal.
		p.logger().Error("building fallback sections", "error", err)
		return nil
	}
	return updates
}

func sectionValue(res *Result, s model.Section) any {
	switch s {
	case model.SectionContacts:
		return res.Contacts
	case model.SectionMeetingLocations:
		return res.MeetingLocations
	case model.SectionSupplyBundles:
		return res.SupplyBundles
	case model.SectionSkills:
		return res.Skills
	case model.SectionSimulationDays:
		return res.SimulationDays
	case model.SectionRiskIndicators:
		return res.Risk
	}
	return nil
}
