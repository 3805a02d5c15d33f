package manifest

import (
	"fmt"
	"strings"
)

// Registered describes one test as registered in Go, for parity checks.
type Registered struct {
	Name          string
	CorrelationID string
	// ExplicitID is false when the correlation id was derived, in which case
	// it is never compared against the manifest.
	ExplicitID bool
}

// Validate performs a parity check between the suite's declarations and the
// registered tests. Every problem is reported in a single error.
func (s *Suite) Validate(registered []Registered) error {
	var errs []string

	byName := make(map[string]Registered, len(registered))
	for _, r := range registered {
		byName[r.Name] = r
	}

	for _, t := range s.tests {
		r, ok := byName[t.Name]
		if !ok {
			errs = append(errs, fmt.Sprintf("manifest declares test %q which is not registered", t.Name))
			continue
		}
		if t.CorrelationID != "" && r.ExplicitID && t.CorrelationID != r.CorrelationID {
			errs = append(errs, fmt.Sprintf("test %q: correlation id mismatch, manifest has %q but registration has %q", t.Name, t.CorrelationID, r.CorrelationID))
		}
	}

	if s.Strict {
		for _, r := range registered {
			if _, ok := s.index[r.Name]; !ok {
				errs = append(errs, fmt.Sprintf("test %q is registered but not declared in strict manifest", r.Name))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("manifest validation failed for suite %q:\n- %s", s.Name, strings.Join(errs, "\n- "))
	}
	return nil
}

// CorrelationID returns the id a test should report: the manifest's id when
// declared, otherwise fallback.
func (s *Suite) CorrelationID(name, fallback string) string {
	if t, ok := s.index[name]; ok && t.CorrelationID != "" {
		return t.CorrelationID
	}
	return fallback
}
