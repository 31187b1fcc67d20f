package lags

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidLag is returned for lag counts or offsets below 1
var ErrInvalidLag = errors.New("lags must be positive integers")

// Kind tells how a Spec was given
type Kind int

const (
	KindCount   Kind = iota // a single L meaning 1..L
	KindOffsets             // an explicit set of offsets
)

// Spec is a lag configuration: either a dense count or an explicit offset set
type Spec struct {
	kind    Kind
	count   int
	offsets []int
}

// Dense returns a Spec expanding to offsets 1..n
func Dense(n int) (Spec, error) {
	if n < 1 {
		return Spec{}, fmt.Errorf("lag count %d: %w", n, ErrInvalidLag)
	}
	return Spec{kind: KindCount, count: n}, nil
}

// Offsets returns a Spec over the given offsets, deduplicated and sorted ascending
func Offsets(offsets ...int) (Spec, error) {
	if len(offsets) == 0 {
		return Spec{}, fmt.Errorf("empty lag list: %w", ErrInvalidLag)
	}

	seen := make(map[int]struct{}, len(offsets))
	normalized := make([]int, 0, len(offsets))
	for _, o := range offsets {
		if o < 1 {
			return Spec{}, fmt.Errorf("lag %d: %w", o, ErrInvalidLag)
		}
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		normalized = append(normalized, o)
	}
	sort.Ints(normalized)

	return Spec{kind: KindOffsets, offsets: normalized}, nil
}

// Parse reads a Spec from a flag value: "3" is a dense count, "1,5" an offset list
func Parse(s string) (Spec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Spec{}, fmt.Errorf("empty lag specification: %w", ErrInvalidLag)
	}

	if !strings.Contains(s, ",") {
		n, err := strconv.Atoi(s)
		if err != nil {
			return Spec{}, fmt.Errorf("invalid lag count %q: %w", s, err)
		}
		return Dense(n)
	}

	parts := strings.Split(s, ",")
	offsets := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		o, err := strconv.Atoi(p)
		if err != nil {
			return Spec{}, fmt.Errorf("invalid lag %q: %w", p, err)
		}
		offsets = append(offsets, o)
	}
	return Offsets(offsets...)
}

// Kind returns how the spec was given
func (s Spec) Kind() Kind {
	return s.kind
}

// IsZero reports whether the spec was never set
func (s Spec) IsZero() bool {
	return s.count == 0 && len(s.offsets) == 0
}

// Values returns the lag offsets in ascending order
func (s Spec) Values() []int {
	if s.kind == KindCount {
		values := make([]int, s.count)
		for i := range values {
			values[i] = i + 1
		}
		return values
	}

	values := make([]int, len(s.offsets))
	copy(values, s.offsets)
	return values
}

// Len returns the number of lag columns
func (s Spec) Len() int {
	if s.kind == KindCount {
		return s.count
	}
	return len(s.offsets)
}

// Max returns the largest offset, 0 for a zero Spec
func (s Spec) Max() int {
	if s.kind == KindCount {
		return s.count
	}
	if len(s.offsets) == 0 {
		return 0
	}
	return s.offsets[len(s.offsets)-1]
}

// String renders the spec in the same form Parse accepts
func (s Spec) String() string {
	if s.kind == KindCount {
		return strconv.Itoa(s.count)
	}
	parts := make([]string, len(s.offsets))
	for i, o := range s.offsets {
		parts[i] = strconv.Itoa(o)
	}
	return strings.Join(parts, ",")
}
