package manifest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/blocktest/internal/ctxlog"
	"github.com/vk/blocktest/internal/fsutil"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Extension is the file extension of manifest files.
const Extension = ".hcl"

// ErrDuplicate is wrapped when a suite or a test is declared twice.
var ErrDuplicate = errors.New("duplicate declaration")

// Loader reads manifest files.
type Loader struct {
	// Environ supplies the variables exposed as `env`. Defaults to os.Environ.
	Environ func() []string
}

// NewLoader creates a loader reading the process environment.
func NewLoader() *Loader {
	return &Loader{Environ: os.Environ}
}

// Load is shorthand for NewLoader().Load.
func Load(ctx context.Context, paths ...string) (*Manifest, error) {
	return NewLoader().Load(ctx, paths...)
}

// Load parses every .hcl file found under paths and merges them into one
// Manifest. Paths may be files or directories; missing paths are skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Manifest, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Manifest loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, Extension)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	evalCtx := l.evalContext()
	parser := hclparse.NewParser()
	m := newManifest()

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest %s: %w", file, diags)
		}

		var root fileRoot
		if diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &root); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest %s: %w", file, diags)
		}

		for _, block := range root.Suites {
			if err := m.addSuite(file, block); err != nil {
				return nil, err
			}
		}
		m.Files = append(m.Files, file)
	}

	logger.Debug("Manifest loading complete.", "files", len(m.Files), "suites", len(m.suites))
	return m, nil
}

func (m *Manifest) addSuite(file string, block *suiteBlock) error {
	if prev, exists := m.suites[block.Name]; exists {
		return fmt.Errorf("%w: suite %q declared in %s and %s", ErrDuplicate, block.Name, prev.File, file)
	}

	s := &Suite{
		Name:        block.Name,
		Description: block.Description,
		Strict:      block.Strict,
		File:        file,
		index:       make(map[string]*Test, len(block.Tests)),
	}
	for _, tb := range block.Tests {
		if _, exists := s.index[tb.Name]; exists {
			return fmt.Errorf("%w: test %q declared twice in suite %q (%s)", ErrDuplicate, tb.Name, block.Name, file)
		}
		t := &Test{
			Name:          tb.Name,
			CorrelationID: tb.CorrelationID,
			Description:   tb.Description,
			Skip:          tb.Skip,
			SkipReason:    tb.SkipReason,
			Tags:          tb.Tags,
		}
		s.tests = append(s.tests, t)
		s.index[t.Name] = t
	}

	m.suites[s.Name] = s
	return nil
}

// evalContext exposes the environment as the `env` map plus a few string
// helpers for conditions such as `lookup(env, "CI", "") == "true"`.
func (l *Loader) evalContext() *hcl.EvalContext {
	environ := os.Environ
	if l.Environ != nil {
		environ = l.Environ
	}

	vars := make(map[string]string)
	for _, kv := range environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		vars[k] = v
	}

	env, err := gocty.ToCtyValue(vars, cty.Map(cty.String))
	if err != nil {
		// A map of strings always converts.
		panic(fmt.Sprintf("manifest: converting environment: %v", err))
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
		Functions: map[string]function.Function{
			"lookup": stdlib.LookupFunc,
			"lower":  stdlib.LowerFunc,
			"upper":  stdlib.UpperFunc,
		},
	}
}
