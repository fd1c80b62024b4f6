package model

import "sort"

// LinkSet is the set of absolute URLs discovered on one page.
// Duplicate hrefs on the same page collapse to a single entry.
// A LinkSet is owned by the processing of a single page; it is never
// shared between concurrent units.
type LinkSet map[string]struct{}

// NewLinkSet creates an empty LinkSet.
func NewLinkSet() LinkSet {
	return make(LinkSet)
}

// Add inserts an absolute URL into the set.
func (s LinkSet) Add(link string) {
	s[link] = struct{}{}
}

// Has reports whether the set contains the given URL.
func (s LinkSet) Has(link string) bool {
	_, ok := s[link]
	return ok
}

// Len returns the number of unique links in the set.
func (s LinkSet) Len() int {
	return len(s)
}

// Sorted returns the links as a sorted slice.
//
// The set itself has no ordering guarantee; sorting exists so that
// batch writes and reports are reproducible.
func (s LinkSet) Sorted() []string {
	links := make([]string, 0, len(s))
	for link := range s {
		links = append(links, link)
	}
	sort.Strings(links)
	return links
}
