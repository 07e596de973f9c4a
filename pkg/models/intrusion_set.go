package models

import "encoding/json"

// IntrusionSet is the structured profile of one threat actor, extracted from
// a relationship bundle. Slices hold no two entities with the same
// (type, identifier) pair.
type IntrusionSet struct {
	Identifier string `json:"identifier"`
	Empty      bool   `json:"empty"`

	AttackPatterns  []Entity `json:"attack_patterns"`
	Malwares        []Entity `json:"malwares"`
	Tools           []Entity `json:"tools"`
	Identities      []Entity `json:"identities"`
	Locations       []Entity `json:"locations"`
	Vulnerabilities []Entity `json:"vulnerabilities"`
	Indicators      []Entity `json:"indicators"`
}

// NewIntrusionSet creates an empty profile for the given identifier.
func NewIntrusionSet(identifier string) *IntrusionSet {
	return &IntrusionSet{Identifier: identifier, Empty: true}
}

func (s *IntrusionSet) bucket(t EntityType) *[]Entity {
	switch t {
	case TypeAttackPattern:
		return &s.AttackPatterns
	case TypeMalware:
		return &s.Malwares
	case TypeTool:
		return &s.Tools
	case TypeIdentity:
		return &s.Identities
	case TypeLocation:
		return &s.Locations
	case TypeVulnerability:
		return &s.Vulnerabilities
	case TypeIndicator:
		return &s.Indicators
	}
	return nil
}

// Add appends a related entity to its per-type slice. Entities with an
// unknown type or a duplicate (type, identifier) pair are dropped silently.
func (s *IntrusionSet) Add(e Entity) {
	dst := s.bucket(e.Type)
	if dst == nil {
		return
	}
	for _, existing := range *dst {
		if existing.Key() == e.Key() {
			return
		}
	}
	*dst = append(*dst, e)
	s.Empty = false
}

// Entities returns the per-type slice for the given entity type.
func (s *IntrusionSet) Entities(t EntityType) []Entity {
	if dst := s.bucket(t); dst != nil {
		return *dst
	}
	return nil
}

// Others returns indicators, vulnerabilities, identities and locations
// combined, in that order.
func (s *IntrusionSet) Others() []Entity {
	out := make([]Entity, 0, len(s.Indicators)+len(s.Vulnerabilities)+len(s.Identities)+len(s.Locations))
	out = append(out, s.Indicators...)
	out = append(out, s.Vulnerabilities...)
	out = append(out, s.Identities...)
	out = append(out, s.Locations...)
	return out
}

// TotalEntities returns the number of distinct entities across all types.
func (s *IntrusionSet) TotalEntities() int {
	return len(s.AttackPatterns) + len(s.Malwares) + len(s.Tools) +
		len(s.Identities) + len(s.Locations) + len(s.Vulnerabilities) + len(s.Indicators)
}

// JSON returns the profile serialized as JSON.
func (s *IntrusionSet) JSON() ([]byte, error) {
	return json.Marshal(s)
}
