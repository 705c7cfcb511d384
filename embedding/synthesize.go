package embedding

import (
	"sort"
	"strings"

	"vectadb.dev/core/ontology"
)

// SynthesizeText builds the canonical text an embedding is derived from:
// the entity type id, followed by every string-typed property value in
// property-name-ascending order, newline-delimited. Entities with no
// string-typed property produce an empty string, signaling to the caller
// that no embedding should be generated or stored for this entity.
func SynthesizeText(typeID string, properties map[string]ontology.PropertyValue) string {
	names := make([]string, 0, len(properties))
	for name, v := range properties {
		if v.Kind == ontology.KindString {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(typeID)
	for _, name := range names {
		b.WriteByte('\n')
		b.WriteString(properties[name].Str)
	}
	return b.String()
}
