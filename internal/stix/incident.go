package stix

import (
	"strings"

	"attribgraph/pkg/models"
)

// IncidentTokens converts a raw incident bundle into its semantic-token
// sequence. Objects are matched by id prefix, so incidents do not need a
// type field on every record.
func IncidentTokens(bundle *Bundle) []string {
	if bundle == nil {
		return nil
	}
	tokens := make([]string, 0, len(bundle.Objects))
	for _, o := range bundle.Objects {
		for _, t := range models.RelatedTypes {
			if strings.HasPrefix(o.ID, string(t)) {
				tokens = append(tokens, semanticFuncs[t](o))
				break
			}
		}
	}
	return tokens
}

// IncidentString renders an incident bundle as the space-joined token string
// the classifier consumes.
func IncidentString(bundle *Bundle) string {
	return strings.Join(IncidentTokens(bundle), " ")
}
