package bean

import "strings"

// Default classification values.
const (
	DefaultFrameworkSourcePrefix = "spring"
	DefaultFrameworkNamePrefix   = "org.springframework"
	DefaultThirdPartySource      = "ThirdParty"
)

// Classifier decides whether a record is framework-internal or third-party.
// The zero value classifies nothing; use [DefaultClassifier] for the stock
// Spring rules.
type Classifier struct {
	// FrameworkSourcePrefix is matched case-insensitively against the start
	// of the record source.
	FrameworkSourcePrefix string
	// FrameworkNamePrefix is matched case-sensitively against the start of
	// the bean name.
	FrameworkNamePrefix string
	// ThirdPartySource must equal the record source exactly.
	ThirdPartySource string
}

// DefaultClassifier returns the classifier for Spring extraction data.
func DefaultClassifier() Classifier {
	return Classifier{
		FrameworkSourcePrefix: DefaultFrameworkSourcePrefix,
		FrameworkNamePrefix:   DefaultFrameworkNamePrefix,
		ThirdPartySource:      DefaultThirdPartySource,
	}
}

// IsFramework reports whether a bean with the given name and source belongs
// to the framework itself.
func (c Classifier) IsFramework(name, source string) bool {
	if c.FrameworkSourcePrefix != "" && source != "" &&
		strings.HasPrefix(strings.ToLower(source), strings.ToLower(c.FrameworkSourcePrefix)) {
		return true
	}
	return c.FrameworkNamePrefix != "" && strings.HasPrefix(name, c.FrameworkNamePrefix)
}

// IsThirdParty reports whether the source marks a third-party bean.
func (c Classifier) IsThirdParty(source string) bool {
	return c.ThirdPartySource != "" && source == c.ThirdPartySource
}

// Normalize cleans a record with the default classifier.
// It returns false when the record has no usable name.
func Normalize(r Record) (Entry, bool) {
	return DefaultClassifier().Normalize(r)
}

// Normalize cleans a record into an [Entry].
// It returns false when the record has no usable name; such records are
// expected in extraction data and are not an error.
func (c Classifier) Normalize(r Record) (Entry, bool) {
	if r.Name == "" {
		return Entry{}, false
	}

	meta := Metadata{
		Name:                 r.Name,
		Type:                 r.Type,
		Scope:                r.Scope,
		Categories:           r.Categories,
		Source:               r.Source,
		DefinitionSource:     r.DefinitionSource,
		IsAdditionalBean:     r.IsAdditionalBean,
		AdditionalBeanSource: r.AdditionalBeanSource,
		IsFrameworkBean:      c.IsFramework(r.Name, r.Source),
		IsThirdParty:         c.IsThirdParty(r.Source),
	}
	if meta.Categories == nil {
		meta.Categories = []string{}
	}
	if meta.IsThirdParty {
		ref := r.Type
		if ref == "" {
			ref = r.Name
		}
		meta.Package = InferPackage(ref)
	}

	return Entry{
		Name:         r.Name,
		Dependencies: CleanDependencies(r.Dependencies),
		Meta:         meta,
	}, true
}

// CleanDependencies returns deps without empty entries.
// Order and duplicates are preserved. The result is never nil.
func CleanDependencies(deps []string) []string {
	out := make([]string, 0, len(deps))
	for _, d := range deps {
		if d != "" {
			out = append(out, d)
		}
	}
	return out
}

// reverseDomainRoots are first segments after which a package identifier
// keeps three segments (com.fasterxml.jackson) instead of two (lombok.extern).
var reverseDomainRoots = map[string]bool{
	"com": true,
	"org": true,
	"net": true,
	"io":  true,
	"cn":  true,
	"edu": true,
	"gov": true,
}

// InferPackage derives a package identifier from a fully qualified type or
// bean name.
//
// Generic arguments, array brackets and nested-class suffixes are stripped
// first. The identifier is then the first three dot-separated segments when
// the name starts with a reverse-domain root and has at least four segments
// (so the class name itself is never part of it), otherwise the first two
// segments, otherwise the whole name.
//
//	InferPackage("com.fasterxml.jackson.databind.ObjectMapper") // "com.fasterxml.jackson"
//	InferPackage("lombok.extern.Slf4j")                         // "lombok.extern"
//	InferPackage("redisTemplate")                               // "redisTemplate"
func InferPackage(ref string) string {
	ref = strings.TrimSpace(ref)
	if i := strings.IndexAny(ref, "<[$"); i >= 0 {
		ref = ref[:i]
	}
	ref = strings.Trim(ref, ".")
	if ref == "" {
		return ""
	}

	segments := strings.Split(ref, ".")
	switch {
	case len(segments) >= 4 && reverseDomainRoots[segments[0]]:
		return strings.Join(segments[:3], ".")
	case len(segments) >= 2:
		return strings.Join(segments[:2], ".")
	default:
		return segments[0]
	}
}
