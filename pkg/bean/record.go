package bean

import "encoding/json"

// Record is one raw bean descriptor as found in the extraction data.
//
// Every field is optional. JSON and BSON tags match the extraction format so
// the same type decodes from files, Redis blobs and MongoDB documents.
// Decoding is lenient, see [RecordFromFields].
type Record struct {
	Name                 string   `json:"name" bson:"name"`
	Dependencies         []string `json:"dependencies" bson:"dependencies"`
	Type                 string   `json:"type" bson:"type"`
	Scope                string   `json:"scope" bson:"scope"`
	Categories           []string `json:"categories" bson:"categories"`
	Source               string   `json:"source" bson:"source"`
	DefinitionSource     string   `json:"definitionSource" bson:"definitionSource"`
	IsAdditionalBean     bool     `json:"isAdditionalBean" bson:"isAdditionalBean"`
	AdditionalBeanSource string   `json:"additionalBeanSource" bson:"additionalBeanSource"`
}

// RecordFromFields builds a record from a generically decoded document.
//
// A field holding a value of the wrong type is left empty, and non-string
// entries of list fields are skipped. A record whose name is not a string
// therefore has no name and is dropped by normalization.
func RecordFromFields(fields map[string]any) Record {
	return Record{
		Name:                 stringField(fields, "name"),
		Dependencies:         stringsField(fields, "dependencies"),
		Type:                 stringField(fields, "type"),
		Scope:                stringField(fields, "scope"),
		Categories:           stringsField(fields, "categories"),
		Source:               stringField(fields, "source"),
		DefinitionSource:     stringField(fields, "definitionSource"),
		IsAdditionalBean:     boolField(fields, "isAdditionalBean"),
		AdditionalBeanSource: stringField(fields, "additionalBeanSource"),
	}
}

// UnmarshalJSON decodes a JSON object with [RecordFromFields].
// Only input that is not an object or null fails.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*r = RecordFromFields(fields)
	return nil
}

func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

func boolField(fields map[string]any, key string) bool {
	b, _ := fields[key].(bool)
	return b
}

func stringsField(fields map[string]any, key string) []string {
	items, ok := fields[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Metadata is the descriptive information attached to a graph node.
type Metadata struct {
	Name                 string   `json:"name"`
	Type                 string   `json:"type"`
	Scope                string   `json:"scope"`
	Categories           []string `json:"categories"`
	Source               string   `json:"source"`
	DefinitionSource     string   `json:"definitionSource"`
	IsAdditionalBean     bool     `json:"isAdditionalBean"`
	AdditionalBeanSource string   `json:"additionalBeanSource"`
	Missing              bool     `json:"missing,omitempty"`
	IsFrameworkBean      bool     `json:"isSpringBean"`
	IsThirdParty         bool     `json:"isThirdParty"`
	Package              string   `json:"package,omitempty"`
}

// Entry is a normalized record: a usable name, its cleaned dependency list
// and the computed metadata.
type Entry struct {
	Name         string
	Dependencies []string
	Meta         Metadata
}

// Placeholder values for names referenced as dependencies but never declared.
const (
	PlaceholderType   = "External or undefined bean"
	PlaceholderScope  = "unknown"
	PlaceholderSource = "Unknown"
)

// Placeholder returns the metadata of a missing node.
func Placeholder(name string) Metadata {
	return Metadata{
		Name:       name,
		Type:       PlaceholderType,
		Scope:      PlaceholderScope,
		Categories: []string{},
		Source:     PlaceholderSource,
		Missing:    true,
	}
}
