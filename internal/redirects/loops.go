package redirects

import "go301/internal/models"

// buildEdgeMap projects the exact-match rules onto an adjacency map of
// normalized source path -> target path. Regex rules have no literal source
// node and are excluded from cycle analysis.
func buildEdgeMap(rules []models.Redirect) map[string]string {
	edges := make(map[string]string, len(rules))
	for _, r := range rules {
		if r.IsRegex {
			continue
		}
		edges[r.OldURL] = r.NewURL
	}
	return edges
}

// detectLoop reports whether adding the candidate edge oldURL -> newURL to
// the existing exact-match rule set would create a redirect cycle. Both
// URLs must already be normalized.
//
// The rule set forms an implicit linked structure: each node has at most
// one outgoing edge, so Floyd's tortoise-and-hare walk over a working copy
// with the candidate inserted finds any cycle in O(n).
func detectLoop(edges map[string]string, oldURL, newURL string) bool {
	// A self-edge is a cycle regardless of the rest of the graph.
	if oldURL == newURL {
		return true
	}

	// A candidate that connects to nothing cannot close a cycle.
	if _, ok := edges[newURL]; !ok {
		linked := false
		for _, target := range edges {
			if target == oldURL {
				linked = true
				break
			}
		}
		if !linked {
			return false
		}
	}

	// Work on a copy so the real rule set is never mutated. The candidate
	// overwrites any existing edge with the same source, matching update
	// semantics.
	walk := make(map[string]string, len(edges)+1)
	for k, v := range edges {
		walk[k] = v
	}
	walk[oldURL] = newURL

	slow, fast := oldURL, oldURL
	for {
		next, ok := walk[fast]
		if !ok {
			return false
		}
		fast, ok = walk[next]
		if !ok {
			return false
		}
		slow = walk[slow]
		if slow == fast {
			return true
		}
	}
}
