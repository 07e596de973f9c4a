package stix

import (
	"strings"

	"attribgraph/pkg/models"
)

// Semantic ids are normalized string tokens used as classifier features.
// Derivation is pure and total: missing source fields degrade to empty
// components instead of failing.

// AttackPatternSemanticID derives the token for an attack pattern from its
// external technique id. Sub-technique suffixes are dropped, so
// "T1003.001" and "T1003" map to the same token.
func AttackPatternSemanticID(o Object) string {
	technique := strings.SplitN(o.XMitreID, ".", 2)[0]
	return "attack-pattern-" + strings.ReplaceAll(technique, " ", "")
}

// MalwareSemanticID derives the token for a malware family from its name.
func MalwareSemanticID(o Object) string {
	return "malware-" + strings.ReplaceAll(o.Name, " ", "")
}

// ToolSemanticID derives the token for a tool from its name.
func ToolSemanticID(o Object) string {
	return "tool-" + strings.ReplaceAll(o.Name, " ", "")
}

// IdentitySemanticID uses the raw object id as its own token.
func IdentitySemanticID(o Object) string { return o.ID }

// LocationSemanticID uses the raw object id as its own token.
func LocationSemanticID(o Object) string { return o.ID }

// VulnerabilitySemanticID uses the raw object id as its own token.
func VulnerabilitySemanticID(o Object) string { return o.ID }

// IndicatorSemanticID uses the raw object id as its own token.
func IndicatorSemanticID(o Object) string { return o.ID }

var semanticFuncs = map[models.EntityType]func(Object) string{
	models.TypeAttackPattern: AttackPatternSemanticID,
	models.TypeMalware:       MalwareSemanticID,
	models.TypeTool:          ToolSemanticID,
	models.TypeIdentity:      IdentitySemanticID,
	models.TypeLocation:      LocationSemanticID,
	models.TypeVulnerability: VulnerabilitySemanticID,
	models.TypeIndicator:     IndicatorSemanticID,
}

// SemanticID dispatches to the per-type derivation. The second return is
// false for types that carry no semantic id (relationships, intrusion sets,
// unknown types).
func SemanticID(o Object) (string, bool) {
	fn, ok := semanticFuncs[models.EntityType(o.Type)]
	if !ok {
		return "", false
	}
	return fn(o), true
}
