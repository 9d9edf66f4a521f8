package tree

import (
	"fmt"
	"sort"
)

// Range is a span of source offsets. Both ends are inclusive: End is the
// offset of the last character. A range whose fields are both negative is
// unknown and belongs to a synthetic node.
type Range struct {
	Begin int
	End   int
}

var UnknownRange = Range{Begin: -1, End: -1}

func (r Range) IsUnknown() bool {
	return r.Begin < 0 && r.End < 0
}

// Contains reports whether pos lies in r, both ends included.
func (r Range) Contains(pos int) bool {
	return r.Within(pos, true, true)
}

func (r Range) Within(pos int, startInclusive, endInclusive bool) bool {
	if r.IsUnknown() {
		return false
	}
	if pos < r.Begin || (pos == r.Begin && !startInclusive) {
		return false
	}
	if pos > r.End || (pos == r.End && !endInclusive) {
		return false
	}
	return true
}

// Compare orders ranges by ascending Begin; on equal Begin the longer range
// comes first so that enclosing nodes precede the nodes they enclose.
func (r Range) Compare(o Range) int {
	switch {
	case r.Begin != o.Begin:
		if r.Begin < o.Begin {
			return -1
		}
		return 1
	case r.End != o.End:
		if r.End > o.End {
			return -1
		}
		return 1
	}
	return 0
}

// Len is the number of characters covered, zero for empty or unknown
// ranges.
func (r Range) Len() int {
	if r.IsUnknown() || r.End < r.Begin {
		return 0
	}
	return r.End - r.Begin + 1
}

// Shrink removes edge nodes from r. Each known-range node is attributed to
// the edge it is closer to; leading nodes push Begin past their end and
// trailing nodes pull End before their start.
func (r Range) Shrink(edges ...Node) Range {
	var lead, trail []Range
	for _, n := range edges {
		if IsNil(n) || n.Range().IsUnknown() {
			continue
		}
		e := n.Range()
		if e.Begin-r.Begin <= r.End-e.End {
			lead = append(lead, e)
		} else {
			trail = append(trail, e)
		}
	}
	sort.Slice(lead, func(i, j int) bool { return lead[i].Begin < lead[j].Begin })
	sort.Slice(trail, func(i, j int) bool { return trail[i].End > trail[j].End })
	out := r
	for _, e := range lead {
		out.Begin = max(out.Begin, e.End+1)
	}
	for _, e := range trail {
		out.End = min(out.End, e.Begin-1)
	}
	return out
}

// Span returns the smallest range covering all known ranges given, or
// UnknownRange when there are none.
func Span(ranges ...Range) Range {
	out := UnknownRange
	for _, r := range ranges {
		if r.IsUnknown() {
			continue
		}
		if out.IsUnknown() {
			out = r
			continue
		}
		out.Begin = min(out.Begin, r.Begin)
		out.End = max(out.End, r.End)
	}
	return out
}

func (r Range) String() string {
	if r.IsUnknown() {
		return "[?]"
	}
	return fmt.Sprintf("[%d,%d]", r.Begin, r.End)
}
