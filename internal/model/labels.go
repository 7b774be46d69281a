package model

// Labels is a set of derived tags. Order carries no meaning; duplicates are
// removed on construction and the value is never nil.
type Labels []string

// NewLabels deduplicates by exact string match, keeping first-seen order.
func NewLabels(values ...string) Labels {
	out := make(Labels, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Union merges other into l and returns the deduplicated result.
func (l Labels) Union(other ...string) Labels {
	merged := make([]string, 0, len(l)+len(other))
	merged = append(merged, l...)
	merged = append(merged, other...)
	return NewLabels(merged...)
}
