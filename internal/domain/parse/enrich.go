package parse

import (
	"strings"

	"github.com/readykit/report-api/internal/domain/model"
)

// LookupEntry is one structured record from a prior authoritative
// lookup (a places search run before the generation job), carried
// along with the job request.
type LookupEntry struct {
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Website string `json:"website,omitempty"`
}

// EnrichContacts fills omitted contact fields from the prior lookup
// first, then from the curated knowledge base. Matching is
// case-insensitive substring in either direction since model output
// rarely reproduces a name exactly. Provenance is retagged only when a
// side channel actually contributed a field.
func EnrichContacts(contacts []model.Contact, lookup []LookupEntry) {
	for i := range contacts {
		c := &contacts[i]
		if c.Phone != "" && c.Address != "" && c.Website != "" {
			continue
		}
		if e := matchLookup(c.Name, lookup); e != nil {
			if fillContact(c, e.Phone, e.Address, e.Website) {
				c.Provenance = model.ProvenanceExternalLookup
			}
			continue
		}
		if s := matchStaticContact(c.Name); s != nil {
			if fillContact(c, s.Phone, s.Address, s.Website) {
				c.Provenance = model.ProvenanceStatic
			}
		}
	}
}

func fillContact(c *model.Contact, phone, address, website string) bool {
	filled := false
	if c.Phone == "" && phone != "" {
		c.Phone = phone
		filled = true
	}
	if c.Address == "" && address != "" {
		c.Address = address
		filled = true
	}
	if c.Website == "" && website != "" {
		c.Website = website
		filled = true
	}
	return filled
}

func matchLookup(name string, entries []LookupEntry) *LookupEntry {
	for i := range entries {
		if nameMatches(name, entries[i].Name) {
			return &entries[i]
		}
	}
	return nil
}

func matchStaticContact(name string) *model.Contact {
	for i := range staticContacts {
		if nameMatches(name, staticContacts[i].Name) {
			return &staticContacts[i]
		}
	}
	return nil
}

func nameMatches(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}
