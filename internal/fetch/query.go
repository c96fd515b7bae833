package fetch

import "strings"

// DefaultRockTypes is the built-in query list for dataset collection.
var DefaultRockTypes = []string{
	"Andesite", "Basalt", "Chert", "Coal", "Conglomerate", "Gabbro", "Gneiss", "Granite",
	"Hornfels", "Limestone", "Marble", "Migmatite", "Mudstone", "Phyllite", "Quartzite",
	"Rhyolite", "Sandstone", "Shale", "Siltstone", "Slate", "Travertine", "Tuff",
}

// rightsChoices are the usage-rights tokens the search API understands.
var rightsChoices = map[string]bool{
	"cc_publicdomain":  true,
	"cc_attribute":     true,
	"cc_sharealike":    true,
	"cc_noncommercial": true,
	"cc_nonderived":    true,
}

// ParseRights splits a comma-separated rights list into the pipe-joined
// form the API expects. Unknown tokens are returned separately so the
// caller can warn and continue rather than abort.
func ParseRights(s string) (rights string, invalid []string) {
	var valid []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if rightsChoices[tok] {
			valid = append(valid, tok)
		} else {
			invalid = append(invalid, tok)
		}
	}
	return strings.Join(valid, "|"), invalid
}

// BuildDomainClause turns TLD fragments like ".edu" or "gov" into a query
// clause of the form (site:.edu OR site:.gov). Bare hosts pass through as
// site filters.
func BuildDomainClause(domains []string) string {
	var cleaned []string
	for _, d := range domains {
		d = strings.TrimSpace(d)
		switch {
		case d == "":
		case strings.HasPrefix(d, "."):
			cleaned = append(cleaned, "site:"+d)
		case !strings.Contains(d, "."):
			cleaned = append(cleaned, "site:."+d)
		default:
			cleaned = append(cleaned, "site:"+d)
		}
	}
	return orClause(cleaned)
}

// BuildSiteClause turns hosts like "usgs.gov" into (site:usgs.gov OR ...).
func BuildSiteClause(sites []string) string {
	var cleaned []string
	for _, s := range sites {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if !strings.HasPrefix(s, "site:") {
			s = "site:" + s
		}
		cleaned = append(cleaned, s)
	}
	return orClause(cleaned)
}

func orClause(terms []string) string {
	if len(terms) == 0 {
		return ""
	}
	return "(" + strings.Join(terms, " OR ") + ")"
}

// BuildQuery assembles the search query for one rock type: the type name,
// an optional suffix such as "rock sample", then any domain/site clauses.
func BuildQuery(rock, suffix string, clauses ...string) string {
	parts := []string{rock}
	if suffix != "" {
		parts = append(parts, suffix)
	}
	for _, c := range clauses {
		if c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}
