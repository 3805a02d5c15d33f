package manifest

import (
	"slices"
	"strings"
)

// Manifest is the merged content of every loaded manifest file.
type Manifest struct {
	suites map[string]*Suite
	Files  []string
}

// Suite is the manifest's view of one test suite.
type Suite struct {
	Name        string
	Description string
	// Strict requires every registered test to be declared.
	Strict bool
	// File is the manifest file that declared the suite.
	File string

	tests []*Test
	index map[string]*Test
}

// Test is one declared test.
type Test struct {
	Name          string
	CorrelationID string
	Description   string
	Skip          bool
	SkipReason    string
	Tags          []string
}

func newManifest() *Manifest {
	return &Manifest{suites: make(map[string]*Suite)}
}

// Suite returns the suite declared under name.
func (m *Manifest) Suite(name string) (*Suite, bool) {
	if m == nil {
		return nil, false
	}
	s, ok := m.suites[name]
	return s, ok
}

// Suites returns every declared suite sorted by name.
func (m *Manifest) Suites() []*Suite {
	out := make([]*Suite, 0, len(m.suites))
	for _, s := range m.suites {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b *Suite) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Test returns the test declared under name.
func (s *Suite) Test(name string) (*Test, bool) {
	t, ok := s.index[name]
	return t, ok
}

// Tests returns the declared tests in declaration order.
func (s *Suite) Tests() []*Test {
	return slices.Clone(s.tests)
}
