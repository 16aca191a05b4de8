// Package vpath implements the virtual path grammar used to address
// entities in the backing store.
//
// A virtual path is a slash-delimited string of the form
// {domain}/{entity-id}/{resource}, e.g. "app/page.main/view.ts" or
// "route/api.users/controller.py". Matching is always done on whole
// segments, never on raw string prefixes.
package vpath

import (
	"strings"
)

// Separator delimits path segments.
const Separator = "/"

// Segment indexes within a virtual path.
const (
	SegmentDomain   = 0
	SegmentEntity   = 1
	SegmentResource = 2
)

// Split returns the segments of p. Leading and trailing separators are
// ignored; an empty path has no segments.
func Split(p string) []string {
	p = strings.Trim(p, Separator)
	if p == "" {
		return nil
	}
	return strings.Split(p, Separator)
}

// Join joins segments with the separator.
func Join(segments ...string) string {
	return strings.Join(segments, Separator)
}

// Clean normalizes p by dropping empty segments.
func Clean(p string) string {
	parts := Split(p)
	out := parts[:0]
	for _, s := range parts {
		if s != "" {
			out = append(out, s)
		}
	}
	return Join(out...)
}

// Within reports whether p equals root or is a descendant of root.
// "app/foo" is within "app/foo" and contains "app/foo/view.ts", but
// "app/foobar" is not within "app/foo".
func Within(p, root string) bool {
	rs := Split(root)
	ps := Split(p)
	if len(rs) == 0 || len(ps) < len(rs) {
		return false
	}
	for i, s := range rs {
		if ps[i] != s {
			return false
		}
	}
	return true
}

// ReplaceSegment returns p with the segment at index i replaced by value.
// If p has fewer than i+1 segments it is returned unchanged.
func ReplaceSegment(p string, i int, value string) string {
	parts := Split(p)
	if i < 0 || i >= len(parts) {
		return p
	}
	parts[i] = value
	return Join(parts...)
}

// Segment returns the segment at index i, or "" if absent.
func Segment(p string, i int) string {
	parts := Split(p)
	if i < 0 || i >= len(parts) {
		return ""
	}
	return parts[i]
}

// Depth returns the number of non-empty segments in p.
func Depth(p string) int {
	return len(Split(Clean(p)))
}

// Parent returns p without its last segment.
func Parent(p string) string {
	parts := Split(p)
	if len(parts) <= 1 {
		return ""
	}
	return Join(parts[:len(parts)-1]...)
}

// Base returns the last segment of p.
func Base(p string) string {
	parts := Split(p)
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// Rebase moves p from under oldRoot to under newRoot. Paths that are not
// within oldRoot are returned unchanged.
func Rebase(p, oldRoot, newRoot string) string {
	if !Within(p, oldRoot) {
		return p
	}
	rest := Split(p)[len(Split(oldRoot)):]
	return Join(append(Split(newRoot), rest...)...)
}

// Entity returns the {domain}/{entity-id} root of p.
func Entity(p string) string {
	parts := Split(p)
	if len(parts) < 2 {
		return Join(parts...)
	}
	return Join(parts[:2]...)
}

// Resource builds {domain}/{id}/{resource}.
func Resource(domain, id, resource string) string {
	return Join(domain, id, resource)
}
