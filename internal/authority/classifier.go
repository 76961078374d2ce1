// Package authority classifies publications into source tiers.
package authority

import (
	"net/url"
	"strings"

	"github.com/pressradar/signal-engine/internal/domain"
)

// Classifier resolves a source name and/or URL to an authority tier. It is a
// pure lookup with no error states: anything unrecognized is tier 3, the
// unverified-mainstream assumption.
type Classifier struct {
	names   map[string]int // lowercase name -> tier
	domains map[string]int // domain -> tier
}

// New builds a classifier from the curated tier lists.
func New() *Classifier {
	return NewWithLists(tierNames, tierDomains)
}

// NewWithLists builds a classifier from explicit tier lists, primarily for
// tests and for callers that maintain their own curation.
func NewWithLists(names map[int][]string, domains map[int][]string) *Classifier {
	c := &Classifier{
		names:   make(map[string]int),
		domains: make(map[string]int),
	}
	for tier, list := range names {
		for _, name := range list {
			c.names[strings.ToLower(name)] = tier
		}
	}
	for tier, list := range domains {
		for _, d := range list {
			c.domains[strings.ToLower(d)] = tier
		}
	}
	return c
}

// Classify returns the authority tier for a source. The name match wins over
// the domain match; ref may be a URL or an email address (newsletter sender).
func (c *Classifier) Classify(sourceName, ref string) int {
	if tier, ok := c.names[strings.ToLower(strings.TrimSpace(sourceName))]; ok {
		return tier
	}

	if host := extractHost(ref); host != "" {
		// Try the full host first, then progressively strip leading
		// subdomain labels so feeds.bloomberg.com resolves via bloomberg.com.
		for host != "" {
			if tier, ok := c.domains[host]; ok {
				return tier
			}
			dot := strings.Index(host, ".")
			if dot < 0 || !strings.Contains(host[dot+1:], ".") {
				break
			}
			host = host[dot+1:]
		}
	}

	return domain.TierMainstream
}

// ClassifyArticle assigns a tier to an article that arrived without one.
func (c *Classifier) ClassifyArticle(a *domain.Article) int {
	return c.Classify(a.SourceName, a.URL)
}

func extractHost(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}

	// Email address: the domain portion is the host.
	if at := strings.LastIndex(ref, "@"); at >= 0 && !strings.Contains(ref, "/") {
		return strings.ToLower(ref[at+1:])
	}

	u, err := url.Parse(ref)
	if err == nil && u.Host != "" {
		host := strings.ToLower(u.Host)
		if i := strings.Index(host, ":"); i >= 0 {
			host = host[:i]
		}
		return host
	}

	// Bare domain without scheme.
	if strings.Contains(ref, ".") && !strings.Contains(ref, " ") {
		host := strings.ToLower(ref)
		host = strings.TrimPrefix(host, "//")
		if i := strings.IndexAny(host, "/?#"); i >= 0 {
			host = host[:i]
		}
		return host
	}

	return ""
}
