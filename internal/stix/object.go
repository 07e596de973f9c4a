package stix

import "encoding/json"

// Object is one record from a STIX-style bundle. Only the fields the
// attribution pipeline reads are decoded; everything else is ignored.
type Object struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`

	// attack-pattern
	XMitreID string `json:"x_mitre_id,omitempty"`

	// relationship
	SourceRef        string `json:"source_ref,omitempty"`
	TargetRef        string `json:"target_ref,omitempty"`
	RelationshipType string `json:"relationship_type,omitempty"`
}

// Bundle is a flat list of objects describing one intrusion set and the
// entities and relationships connected to it.
type Bundle struct {
	Objects []Object `json:"objects"`
}

// DecodeBundle parses a JSON bundle document.
func DecodeBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
