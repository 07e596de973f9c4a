package stix

import (
	"attribgraph/internal/logger"
	"attribgraph/pkg/models"
)

// profileBuilder accumulates related entities while scanning relationships
// and yields the finished profile once. Nothing mutable escapes before
// Build is called.
type profileBuilder struct {
	profile *models.IntrusionSet
	// raw object id -> (entity type, semantic id)
	known map[string]knownObject
}

type knownObject struct {
	entityType models.EntityType
	semanticID string
}

func newProfileBuilder(intrusionSetID string, objects []Object) *profileBuilder {
	b := &profileBuilder{
		profile: models.NewIntrusionSet(intrusionSetID),
		known:   make(map[string]knownObject, len(objects)),
	}
	for _, o := range objects {
		if semanticID, ok := SemanticID(o); ok {
			b.known[o.ID] = knownObject{entityType: models.EntityType(o.Type), semanticID: semanticID}
		}
	}
	return b
}

// addRef attaches the referenced object as a related entity. References to
// objects absent from the bundle are skipped; duplicate (type, identifier)
// pairs are dropped by the profile itself.
func (b *profileBuilder) addRef(ref, relation string, isSubject bool) {
	obj, ok := b.known[ref]
	if !ok {
		return
	}
	b.profile.Add(models.Entity{
		Identifier: ref,
		Type:       obj.entityType,
		SemanticID: obj.semanticID,
		IsSubject:  isSubject,
		Relation:   relation,
	})
}

func (b *profileBuilder) build() *models.IntrusionSet {
	return b.profile
}

// BuildProfile reconstructs one intrusion-set profile from a flat bundle.
// The caller guarantees single-intrusion-set scope; when several are present
// the first encountered wins, and nil is returned when none exists.
func BuildProfile(objects []Object) *models.IntrusionSet {
	var intrusionSet *Object
	for i := range objects {
		if models.EntityType(objects[i].Type) == models.TypeIntrusionSet {
			intrusionSet = &objects[i]
			break
		}
	}
	if intrusionSet == nil {
		return nil
	}

	// Two passes: every source-direction relationship is attached before any
	// target-direction one, so when an object relates in both directions the
	// source-direction entity wins the dedup.
	b := newProfileBuilder(intrusionSet.ID, objects)
	for _, o := range objects {
		if models.EntityType(o.Type) == models.TypeRelationship && o.SourceRef == intrusionSet.ID {
			b.addRef(o.TargetRef, o.RelationshipType, false)
		}
	}
	for _, o := range objects {
		if models.EntityType(o.Type) == models.TypeRelationship && o.TargetRef == intrusionSet.ID {
			b.addRef(o.SourceRef, o.RelationshipType, true)
		}
	}
	return b.build()
}

// ProfileLabel derives the classification label for a bundle: the intrusion
// set's display name joined to its id. A bundle without an intrusion set
// yields a single-space label.
func ProfileLabel(objects []Object) string {
	for _, o := range objects {
		if models.EntityType(o.Type) == models.TypeIntrusionSet {
			return o.Name + "_" + o.ID
		}
	}
	return " "
}

// Extractor runs profile extraction over bundles.
type Extractor struct {
	log *logger.Logger
}

// NewExtractor creates an extractor with the given logger.
func NewExtractor(log *logger.Logger) *Extractor {
	return &Extractor{log: log}
}

// ExtractProfiles builds a label-keyed profile map from many bundles.
// Bundles without an intrusion set are skipped. Label collisions overwrite
// silently, last bundle wins.
func (e *Extractor) ExtractProfiles(bundles []*Bundle) map[string]*models.IntrusionSet {
	profiles := make(map[string]*models.IntrusionSet, len(bundles))
	for _, bundle := range bundles {
		if bundle == nil {
			continue
		}
		profile := BuildProfile(bundle.Objects)
		if profile == nil {
			e.log.Warnf("Bundle without intrusion-set object skipped")
			continue
		}
		label := ProfileLabel(bundle.Objects)
		if _, exists := profiles[label]; exists {
			e.log.Warnf("Duplicate label %q: overwriting previous profile", label)
		}
		profiles[label] = profile
	}
	e.log.Infof("Extracted %d intrusion-set profiles from %d bundles", len(profiles), len(bundles))
	return profiles
}
