package models

// EntityType identifies the STIX object kind of a related entity.
type EntityType string

const (
	TypeAttackPattern EntityType = "attack-pattern"
	TypeMalware       EntityType = "malware"
	TypeTool          EntityType = "tool"
	TypeIdentity      EntityType = "identity"
	TypeLocation      EntityType = "location"
	TypeVulnerability EntityType = "vulnerability"
	TypeIndicator     EntityType = "indicator"

	TypeIntrusionSet EntityType = "intrusion-set"
	TypeRelationship EntityType = "relationship"
)

// RelatedTypes lists the entity types that may be attached to an intrusion set.
var RelatedTypes = []EntityType{
	TypeAttackPattern,
	TypeMalware,
	TypeTool,
	TypeIdentity,
	TypeLocation,
	TypeVulnerability,
	TypeIndicator,
}

// Entity is a threat-intelligence object related to an intrusion set.
type Entity struct {
	Identifier string     `json:"identifier"`
	Type       EntityType `json:"entity_type"`
	SemanticID string     `json:"semantic_id"`
	// IsSubject is true when the intrusion set is the relationship target,
	// false when it is the source.
	IsSubject bool   `json:"is_subject"`
	Relation  string `json:"relation"`
}

// Key returns the dedup identity of the entity.
func (e Entity) Key() string {
	return string(e.Type) + e.Identifier
}
