package server

import (
	"net/url"
	"strings"

	"github.com/matzehuels/beanchain/pkg/filter"
)

// parseBool reports whether v is one of 1, true, yes or on, ignoring case
// and surrounding whitespace.
func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// parseFilter reads the filter parameters of a query.
func parseFilter(q url.Values) filter.Options {
	f := filter.Options{
		ExcludeFramework:  parseBool(q.Get("excludeSpring")),
		ExcludeThirdParty: parseBool(q.Get("excludeThirdParty")),
	}
	for _, v := range q["packages"] {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				f.Packages = append(f.Packages, p)
			}
		}
	}
	return f.Normalize()
}
