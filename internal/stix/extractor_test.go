package stix

import (
	"sort"
	"testing"

	"attribgraph/internal/logger"
	"attribgraph/pkg/models"
)

const isID = "intrusion-set--11111111-aaaa-bbbb-cccc-000000000001"

func sampleBundle() []Object {
	return []Object{
		{Type: "intrusion-set", ID: isID, Name: "Wizard Spider"},
		{Type: "attack-pattern", ID: "attack-pattern--1", XMitreID: "T1003.001"},
		{Type: "attack-pattern", ID: "attack-pattern--2", XMitreID: "T1059"},
		{Type: "malware", ID: "malware--1", Name: "Try Bot"},
		{Type: "tool", ID: "tool--1", Name: "PsExec"},
		{Type: "identity", ID: "identity--1"},
		// Unconnected: no relationship references it.
		{Type: "vulnerability", ID: "vulnerability--orphan"},

		{Type: "relationship", ID: "relationship--1", SourceRef: isID, TargetRef: "attack-pattern--1", RelationshipType: "uses"},
		{Type: "relationship", ID: "relationship--2", SourceRef: isID, TargetRef: "attack-pattern--2", RelationshipType: "uses"},
		{Type: "relationship", ID: "relationship--3", SourceRef: isID, TargetRef: "malware--1", RelationshipType: "uses"},
		{Type: "relationship", ID: "relationship--4", SourceRef: "tool--1", TargetRef: isID, RelationshipType: "used-by"},
		{Type: "relationship", ID: "relationship--5", SourceRef: "identity--1", TargetRef: isID, RelationshipType: "attributed-to"},
		// Repeat relationship to an already seen object.
		{Type: "relationship", ID: "relationship--6", SourceRef: isID, TargetRef: "malware--1", RelationshipType: "uses"},
		// Reference to an object missing from the bundle.
		{Type: "relationship", ID: "relationship--7", SourceRef: isID, TargetRef: "malware--ghost", RelationshipType: "uses"},
	}
}

func TestBuildProfileReturnsNilWithoutIntrusionSet(t *testing.T) {
	objects := []Object{
		{Type: "malware", ID: "malware--1", Name: "Emotet"},
		{Type: "relationship", ID: "relationship--1", SourceRef: "a", TargetRef: "b"},
	}
	if profile := BuildProfile(objects); profile != nil {
		t.Fatalf("expected nil profile, got %+v", profile)
	}
}

func TestBuildProfileCollectsConnectedEntitiesOnly(t *testing.T) {
	profile := BuildProfile(sampleBundle())
	if profile == nil {
		t.Fatalf("expected a profile")
	}
	if profile.Identifier != isID {
		t.Fatalf("unexpected identifier: %s", profile.Identifier)
	}
	if profile.Empty {
		t.Fatalf("profile should not be empty")
	}

	if len(profile.AttackPatterns) != 2 {
		t.Fatalf("expected 2 attack patterns, got %d", len(profile.AttackPatterns))
	}
	if len(profile.Malwares) != 1 {
		t.Fatalf("expected 1 malware after dedup, got %d", len(profile.Malwares))
	}
	if len(profile.Tools) != 1 {
		t.Fatalf("expected 1 tool, got %d", len(profile.Tools))
	}
	if len(profile.Identities) != 1 {
		t.Fatalf("expected 1 identity, got %d", len(profile.Identities))
	}
	if len(profile.Vulnerabilities) != 0 {
		t.Fatalf("unconnected vulnerability must not appear, got %d", len(profile.Vulnerabilities))
	}
}

func TestBuildProfileSetsDirectionality(t *testing.T) {
	profile := BuildProfile(sampleBundle())

	for _, ap := range profile.AttackPatterns {
		if ap.IsSubject {
			t.Fatalf("target-side entity %s must have IsSubject=false", ap.Identifier)
		}
		if ap.Relation != "uses" {
			t.Fatalf("unexpected relation %q", ap.Relation)
		}
	}

	tool := profile.Tools[0]
	if !tool.IsSubject {
		t.Fatalf("source-side entity %s must have IsSubject=true", tool.Identifier)
	}
	if tool.Relation != "used-by" {
		t.Fatalf("unexpected relation %q", tool.Relation)
	}
	if tool.SemanticID != "tool-PsExec" {
		t.Fatalf("unexpected semantic id %q", tool.SemanticID)
	}
}

func TestBuildProfileSourceDirectionWinsBidirectional(t *testing.T) {
	objects := []Object{
		{Type: "intrusion-set", ID: isID, Name: "Wizard Spider"},
		{Type: "tool", ID: "tool--both", Name: "PsExec"},
		// Target-direction relationship listed before the source-direction one.
		{Type: "relationship", ID: "relationship--b1", SourceRef: "tool--both", TargetRef: isID, RelationshipType: "used-by"},
		{Type: "relationship", ID: "relationship--b2", SourceRef: isID, TargetRef: "tool--both", RelationshipType: "uses"},
	}
	profile := BuildProfile(objects)
	if len(profile.Tools) != 1 {
		t.Fatalf("expected 1 tool after dedup, got %d", len(profile.Tools))
	}
	tool := profile.Tools[0]
	if tool.IsSubject {
		t.Fatalf("source-direction entity must win: IsSubject=%v", tool.IsSubject)
	}
	if tool.Relation != "uses" {
		t.Fatalf("source-direction relation must win, got %q", tool.Relation)
	}
}

func entityKeySet(profile *models.IntrusionSet) []string {
	var keys []string
	for _, t := range models.RelatedTypes {
		for _, e := range profile.Entities(t) {
			keys = append(keys, e.Key())
		}
	}
	sort.Strings(keys)
	return keys
}

func TestBuildProfileIsIdempotent(t *testing.T) {
	first := entityKeySet(BuildProfile(sampleBundle()))
	second := entityKeySet(BuildProfile(sampleBundle()))
	if len(first) != len(second) {
		t.Fatalf("entity sets differ in size: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("entity sets differ at %d: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestBuildProfileUsesFirstIntrusionSet(t *testing.T) {
	objects := []Object{
		{Type: "intrusion-set", ID: "intrusion-set--first", Name: "First"},
		{Type: "intrusion-set", ID: "intrusion-set--second", Name: "Second"},
	}
	profile := BuildProfile(objects)
	if profile == nil || profile.Identifier != "intrusion-set--first" {
		t.Fatalf("expected first intrusion set to win, got %+v", profile)
	}
}

func TestProfileLabel(t *testing.T) {
	if got := ProfileLabel(sampleBundle()); got != "Wizard Spider_"+isID {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := ProfileLabel([]Object{{Type: "malware", ID: "malware--1"}}); got != " " {
		t.Fatalf("expected single-space label, got %q", got)
	}
}

func TestExtractProfilesSkipsAndOverwrites(t *testing.T) {
	ex := NewExtractor(logger.Discard())

	withIS := &Bundle{Objects: sampleBundle()}
	withoutIS := &Bundle{Objects: []Object{{Type: "malware", ID: "malware--1"}}}

	profiles := ex.ExtractProfiles([]*Bundle{withoutIS, withIS, withIS, nil})
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}
	profile, ok := profiles["Wizard Spider_"+isID]
	if !ok {
		t.Fatalf("expected label-keyed profile, got keys %v", profiles)
	}
	if profile.TotalEntities() != 5 {
		t.Fatalf("expected 5 distinct entities, got %d", profile.TotalEntities())
	}
}

func TestIncidentTokensDispatchOnIDPrefix(t *testing.T) {
	bundle := &Bundle{Objects: []Object{
		{ID: "attack-pattern--9", XMitreID: "T1571"},
		{ID: "malware--9", Name: "Fysbis"},
		{ID: "tool--9", Name: "Net Cat"},
		{ID: "identity--9"},
		{ID: "campaign--9", Name: "ignored"},
	}}

	got := IncidentString(bundle)
	want := "attack-pattern-T1571 malware-Fysbis tool-NetCat identity--9"
	if got != want {
		t.Fatalf("unexpected incident string:\n got %q\nwant %q", got, want)
	}
}

func TestDecodeBundleIgnoresUnknownFields(t *testing.T) {
	raw := []byte(`{"objects": [
		{"type": "intrusion-set", "id": "intrusion-set--x", "name": "X", "created": "2020-01-01"},
		{"type": "attack-pattern", "id": "attack-pattern--x", "x_mitre_id": "T1001", "kill_chain_phases": []}
	]}`)
	bundle, err := DecodeBundle(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(bundle.Objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(bundle.Objects))
	}
	if bundle.Objects[1].XMitreID != "T1001" {
		t.Fatalf("unexpected x_mitre_id: %q", bundle.Objects[1].XMitreID)
	}
}
