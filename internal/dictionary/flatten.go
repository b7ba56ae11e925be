package dictionary

import (
	"sort"
	"strings"

	"github.com/dviselman/pconsole/internal/platform"
)

// Metadata-marker prefixes skipped during flattening. The union-profile
// extraction deliberately filters a narrower set than the general
// dictionary; the two artifacts must keep their historical field sets.
var (
	dictionarySkipPrefixes = []string{"$", "meta:", "xdm:"}
	unionSkipPrefixes      = []string{"$", "meta:"}
)

// maxEnumValues caps the enum values carried per field. Callers needing the
// full enum refetch the schema.
const maxEnumValues = 5

// flattenSchema converts one schema document into flat field records,
// appending to the caller's accumulators. Pure computation, no I/O.
func flattenSchema(detail *platform.SchemaDetail, maxDepth int, fields *[]FieldRecord, names *[]string) {
	name := detail.Title
	if name == "" {
		name = detail.ID
	}

	flattenProperties(detail.Properties, "", name, 0, maxDepth, dictionarySkipPrefixes, fields)
	for _, branch := range detail.AllOf {
		flattenProperties(branch.Properties, "", name, 0, maxDepth, dictionarySkipPrefixes, fields)
	}

	*names = append(*names, name)
}

// flattenProperties walks one properties map depth-first, pre-order: the
// parent record is emitted before its children. allOf branches on a node
// compose at the node's own prefix rather than nesting under it. Descent
// stops at maxDepth so pathological or mutually-referential schema trees
// cannot recurse unboundedly.
func flattenProperties(props map[string]platform.FieldDef, prefix, schemaName string, depth, maxDepth int, skip []string, fields *[]FieldRecord) {
	if depth >= maxDepth || len(props) == 0 {
		return
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if hasSkippedPrefix(key, skip) {
			continue
		}
		def := props[key]

		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		*fields = append(*fields, FieldRecord{
			Path:        path,
			Type:        inferType(def),
			Title:       titleOrKey(def, key),
			Description: def.Description,
			SchemaName:  schemaName,
			Enum:        capEnum(def.Enum),
		})

		if len(def.Properties) > 0 {
			flattenProperties(def.Properties, path, schemaName, depth+1, maxDepth, skip, fields)
		}
		for _, branch := range def.AllOf {
			flattenProperties(branch.Properties, path, schemaName, depth+1, maxDepth, skip, fields)
		}
	}
}

// flattenUnionProperties is the union-profile variant: narrower prefix
// filter, and each record carries a pqlPath mirroring the dotted path.
func flattenUnionProperties(props map[string]platform.FieldDef, prefix, schemaName string, depth, maxDepth int, fields *[]UnionField) {
	if depth >= maxDepth || len(props) == 0 {
		return
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if hasSkippedPrefix(key, unionSkipPrefixes) {
			continue
		}
		def := props[key]

		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		*fields = append(*fields, UnionField{
			Path:        path,
			PqlPath:     path,
			Type:        inferType(def),
			Title:       titleOrKey(def, key),
			Description: def.Description,
			SchemaName:  schemaName,
			Enum:        capEnum(def.Enum),
		})

		if len(def.Properties) > 0 {
			flattenUnionProperties(def.Properties, path, schemaName, depth+1, maxDepth, fields)
		}
		for _, branch := range def.AllOf {
			flattenUnionProperties(branch.Properties, path, schemaName, depth+1, maxDepth, fields)
		}
	}
}

func hasSkippedPrefix(key string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func inferType(def platform.FieldDef) string {
	if def.Type != "" {
		return def.Type
	}
	if len(def.Properties) > 0 {
		return "object"
	}
	return "string"
}

func titleOrKey(def platform.FieldDef, key string) string {
	if def.Title != "" {
		return def.Title
	}
	return key
}

func capEnum(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	if len(values) > maxEnumValues {
		values = values[:maxEnumValues]
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
