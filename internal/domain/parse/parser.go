// Package parse recovers typed report records from the semi-structured
// markdown the model emits: "## Section" headings, "### Item" blocks
// and "**Field**: value" lines. Models drift from the requested
// format, so the parser tolerates wrong heading depth and discards
// items missing required fields rather than failing the document.
package parse

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/readykit/report-api/internal/domain/model"
)

// Result holds every record recovered from one document. Only the
// fields for the parsed feature are populated.
type Result struct {
	Contacts         []model.Contact
	MeetingLocations []model.MeetingLocation
	SupplyBundles    []model.SupplyBundle
	Skills           []model.Skill
	SimulationDays   []model.SimulationDay
	Risk             *model.RiskIndicators
}

// Empty reports whether the section for s yielded no items.
func (r *Result) Empty(s model.Section) bool {
	switch s {
	case model.SectionContacts:
		return len(r.Contacts) == 0
	case model.SectionMeetingLocations:
		return len(r.MeetingLocations) == 0
	case model.SectionSupplyBundles:
		return len(r.SupplyBundles) == 0
	case model.SectionSkills:
		return len(r.Skills) == 0
	case model.SectionSimulationDays:
		return len(r.SimulationDays) == 0
	case model.SectionRiskIndicators:
		return r.Risk == nil || len(r.Risk.Hazards) == 0
	}
	return true
}

// sectionSpec describes one recognizable "## " section: the header
// prefixes that open it and the field markers that identify a stray
// top-level block as one of its items when the model emits "## "
// where "### " was asked for.
type sectionSpec struct {
	section        model.Section
	headerPrefixes []string
	itemMarkers    []string
}

var featureSections = map[model.Feature][]sectionSpec{
	model.FeatureEmergencyContacts: {
		{
			section:        model.SectionContacts,
			headerPrefixes: []string{"Emergency Contacts Analysis", "Emergency Contacts"},
			itemMarkers:    []string{"**Phone**"},
		},
		{
			section:        model.SectionMeetingLocations,
			headerPrefixes: []string{"Meeting Locations"},
			itemMarkers:    []string{"**Address**", "Meeting Location:"},
		},
	},
	model.FeatureSupplyBundles: {
		{
			section:        model.SectionSupplyBundles,
			headerPrefixes: []string{"Supply Bundles", "Recommended Supply Bundles"},
			itemMarkers:    []string{"**Items**", "**Category**"},
		},
	},
	model.FeatureSkills: {
		{
			section:        model.SectionSkills,
			headerPrefixes: []string{"Recommended Skills", "Skills"},
			itemMarkers:    []string{"**Difficulty**", "**Category**"},
		},
	},
	model.FeatureSimulationDays: {
		{
			section:        model.SectionSimulationDays,
			headerPrefixes: []string{"Simulation Days", "Practice Schedule"},
			itemMarkers:    []string{"**Focus**", "**Tasks**"},
		},
	},
	model.FeatureRiskIndicators: {
		{
			section:        model.SectionRiskIndicators,
			headerPrefixes: []string{"Risk Assessment", "Risk Indicators"},
			itemMarkers:    []string{"**Likelihood**", "**Impact**"},
		},
	},
}

// Parser turns model output into typed records.
type Parser struct {
	log *slog.Logger
}

// NewParser creates a Parser. A nil logger falls back to slog.Default.
func NewParser(log *slog.Logger) *Parser {
	return &Parser{log: log}
}

func (p *Parser) logger() *slog.Logger {
	if p.log != nil {
		return p.log
	}
	return slog.Default()
}

// Parse extracts the feature's records from a markdown document. It
// never fails: unusable blocks are logged and dropped, and an entirely
// unusable document just yields an empty Result.
func (p *Parser) Parse(feature model.Feature, markdown string) *Result {
	res := &Result{}
	specs := featureSections[feature]
	if len(specs) == 0 {
		p.logger().Warn("no section specs for feature", "feature", feature)
		return res
	}

	// current tracks which recognized section a stray "## " block
	// belongs to; nil means we have not entered a known section yet.
	var current *sectionSpec

	for _, chunk := range splitOnHeader(markdown, "## ") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		header, _, _ := strings.Cut(chunk, "\n")

		if spec := matchSection(specs, header); spec != nil {
			current = spec
			for _, block := range splitOnHeader(chunk, "### ")[1:] {
				p.addItem(res, spec.section, block)
			}
			continue
		}

		// Wrong delimiter depth: the model promoted an item to its own
		// "## " block. Recover when the block carries the current
		// section's required-field marker.
		if current != nil && hasMarker(chunk, current.itemMarkers) {
			p.addItem(res, current.section, chunk)
		}
	}

	if feature == model.FeatureRiskIndicators && res.Risk != nil {
		p.fillRiskSummary(res.Risk, markdown)
	}
	return res
}

// splitOnHeader cuts text at lines that begin with marker. The marker
// is stripped, so each chunk after the first starts with its header
// line. A substring split would also cut at deeper headings ("### "
// contains "## "), so only a match at the start of a line counts.
// Text before the first header lands in chunk zero.
func splitOnHeader(text, marker string) []string {
	var (
		parts []string
		cur   strings.Builder
	)
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, marker) {
			parts = append(parts, cur.String())
			cur.Reset()
			line = strings.TrimPrefix(line, marker)
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
	}
	return append(parts, cur.String())
}

func matchSection(specs []sectionSpec, header string) *sectionSpec {
	for i := range specs {
		for _, prefix := range specs[i].headerPrefixes {
			if strings.HasPrefix(header, prefix) {
				return &specs[i]
			}
		}
	}
	return nil
}

func hasMarker(block string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(block, m) {
			return true
		}
	}
	return false
}

func (p *Parser) addItem(res *Result, section model.Section, block string) {
	switch section {
	case model.SectionContacts:
		if c, ok := p.parseContact(block); ok {
			res.Contacts = append(res.Contacts, *c)
		}
	case model.SectionMeetingLocations:
		if l, ok := p.parseMeetingLocation(block); ok {
			res.MeetingLocations = append(res.MeetingLocations, *l)
		}
	case model.SectionSupplyBundles:
		if b, ok := p.parseSupplyBundle(block); ok {
			res.SupplyBundles = append(res.SupplyBundles, *b)
		}
	case model.SectionSkills:
		if s, ok := p.parseSkill(block); ok {
			res.Skills = append(res.Skills, *s)
		}
	case model.SectionSimulationDays:
		if d, ok := p.parseSimulationDay(block); ok {
			res.SimulationDays = append(res.SimulationDays, *d)
		}
	case model.SectionRiskIndicators:
		if h, ok := p.parseRiskHazard(block); ok {
			if res.Risk == nil {
				res.Risk = &model.RiskIndicators{Provenance: model.ProvenanceModel}
			}
			res.Risk.Hazards = append(res.Risk.Hazards, *h)
		}
	}
}

const defaultFitScore = 80

func (p *Parser) parseContact(block string) (*model.Contact, bool) {
	name := blockName(block)
	c := &model.Contact{
		Name:              name,
		Phone:             extractField(block, "Phone"),
		Address:           extractField(block, "Address"),
		Website:           extractField(block, "Website"),
		Category:          extractField(block, "Category"),
		Priority:          extractField(block, "Priority"),
		FitScore:          parseScore(extractField(block, "Fit Score"), defaultFitScore),
		Reasoning:         extractField(block, "Reasoning"),
		RelevantScenarios: splitList(extractField(block, "Relevant Scenarios")),
		Available24Hr:     parseYes(extractField(block, "24/7 Available")),
		Provenance:        model.ProvenanceModel,
	}
	if c.Name == "" || c.Phone == "" || c.Category == "" || c.Priority == "" || c.Reasoning == "" {
		p.logger().Warn("discarding contact with missing required fields", "name", name)
		return nil, false
	}
	return c, true
}

var meetingPriorityRe = regexp.MustCompile(`(?i)(primary|secondary|tertiary) meeting location:?`)

func (p *Parser) parseMeetingLocation(block string) (*model.MeetingLocation, bool) {
	first := blockName(block)
	priority := model.MeetingPrimary
	name := first
	if m := meetingPriorityRe.FindStringSubmatch(first); m != nil {
		priority = model.MeetingLocationPriority(strings.ToLower(m[1]))
		name = strings.TrimSpace(meetingPriorityRe.ReplaceAllString(first, ""))
	}

	details := extractField(block, "Practical Details")
	l := &model.MeetingLocation{
		Name:         name,
		Address:      extractField(block, "Address"),
		Priority:     priority,
		Description:  extractField(block, "Description"),
		Reasoning:    extractField(block, "Reasoning"),
		SuitableFor:  splitList(extractField(block, "Suitable For")),
		HasParking:   containsFold(details, "parking"),
		IsAccessible: containsFold(details, "accessible") || containsFold(details, "ada"),
		Provenance:   model.ProvenanceModel,
	}
	if l.Description == "" {
		l.Description = l.Reasoning
	}
	if l.Name == "" || l.Address == "" || l.Reasoning == "" {
		p.logger().Warn("discarding meeting location with missing required fields", "name", name)
		return nil, false
	}
	return l, true
}

func (p *Parser) parseSupplyBundle(block string) (*model.SupplyBundle, bool) {
	name := blockName(block)
	b := &model.SupplyBundle{
		Name:          name,
		Category:      extractField(block, "Category"),
		Items:         splitList(extractField(block, "Items")),
		EstimatedCost: extractField(block, "Estimated Cost"),
		Priority:      extractField(block, "Priority"),
		Reasoning:     extractField(block, "Reasoning"),
		Provenance:    model.ProvenanceModel,
	}
	if b.Name == "" || b.Category == "" || b.Reasoning == "" {
		p.logger().Warn("discarding supply bundle with missing required fields", "name", name)
		return nil, false
	}
	return b, true
}

func (p *Parser) parseSkill(block string) (*model.Skill, bool) {
	name := blockName(block)
	s := &model.Skill{
		Name:        name,
		Category:    extractField(block, "Category"),
		Difficulty:  extractField(block, "Difficulty"),
		TimeToLearn: extractField(block, "Time to Learn"),
		Reasoning:   extractField(block, "Reasoning"),
		Resources:   splitList(extractField(block, "Resources")),
		Provenance:  model.ProvenanceModel,
	}
	if s.Name == "" || s.Category == "" || s.Reasoning == "" {
		p.logger().Warn("discarding skill with missing required fields", "name", name)
		return nil, false
	}
	return s, true
}

var dayHeaderRe = regexp.MustCompile(`(?i)^day\s+(\d+)\s*:?\s*(.*)$`)

func (p *Parser) parseSimulationDay(block string) (*model.SimulationDay, bool) {
	first := blockName(block)
	m := dayHeaderRe.FindStringSubmatch(first)
	if m == nil {
		p.logger().Warn("discarding simulation day without day header", "header", first)
		return nil, false
	}
	d := &model.SimulationDay{
		Day:        parseScore(m[1], 0),
		Title:      strings.TrimSpace(m[2]),
		Focus:      extractField(block, "Focus"),
		Tasks:      splitList(extractField(block, "Tasks")),
		Reasoning:  extractField(block, "Reasoning"),
		Provenance: model.ProvenanceModel,
	}
	if d.Day == 0 || d.Title == "" {
		p.logger().Warn("discarding simulation day with missing required fields", "header", first)
		return nil, false
	}
	return d, true
}

func (p *Parser) parseRiskHazard(block string) (*model.RiskHazard, bool) {
	name := blockName(block)
	h := &model.RiskHazard{
		Name:       name,
		Likelihood: extractField(block, "Likelihood"),
		Impact:     extractField(block, "Impact"),
		Reasoning:  extractField(block, "Reasoning"),
	}
	if h.Name == "" || h.Likelihood == "" || h.Impact == "" {
		p.logger().Warn("discarding hazard with missing required fields", "name", name)
		return nil, false
	}
	return h, true
}

// fillRiskSummary pulls the document-level score and summary fields,
// which live outside any hazard block.
func (p *Parser) fillRiskSummary(risk *model.RiskIndicators, markdown string) {
	risk.OverallScore = parseScore(extractField(markdown, "Overall Score"), 0)
	risk.Summary = extractField(markdown, "Summary")
}

// blockName returns the first line of an item block, which carries the
// item's name after the heading delimiter was stripped.
func blockName(block string) string {
	first, _, _ := strings.Cut(block, "\n")
	return strings.TrimSpace(first)
}
