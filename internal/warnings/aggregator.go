package warnings

import (
	"sort"
)

const maxExamples = 3

// Summary is the aggregated view of one warning kind.
type Summary struct {
	Kind     Kind
	Count    int
	Examples []string
	// First is the first warning of the kind, kept for its full message.
	First Warning
}

// Aggregator collects warnings and summarises them per kind with a few examples.
type Aggregator struct {
	byKind map[Kind]*Summary
}

func NewAggregator() *Aggregator {
	return &Aggregator{byKind: make(map[Kind]*Summary)}
}

func (a *Aggregator) Add(ws ...Warning) {
	for _, w := range ws {
		s := a.byKind[w.Kind()]
		if s == nil {
			s = &Summary{Kind: w.Kind(), Examples: make([]string, 0, maxExamples), First: w}
			a.byKind[w.Kind()] = s
		}
		s.Count++
		if len(s.Examples) < maxExamples {
			s.Examples = append(s.Examples, w.Subject())
		}
	}
}

// Summaries returns one entry per kind ordered by kind name.
func (a *Aggregator) Summaries() []Summary {
	out := make([]Summary, 0, len(a.byKind))
	for _, s := range a.byKind {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// Counts maps each kind to its number of warnings.
func (a *Aggregator) Counts() map[string]int {
	counts := make(map[string]int, len(a.byKind))
	for k, s := range a.byKind {
		counts[string(k)] = s.Count
	}
	return counts
}

func (a *Aggregator) Len() int {
	n := 0
	for _, s := range a.byKind {
		n += s.Count
	}
	return n
}
