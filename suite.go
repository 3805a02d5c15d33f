package blocktest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"
	"sync"
	"testing"
	"unicode"
	"unicode/utf8"

	"github.com/vk/blocktest/bridge"
	"github.com/vk/blocktest/internal/config"
	"github.com/vk/blocktest/internal/ctxlog"
	"github.com/vk/blocktest/internal/logging"
	"github.com/vk/blocktest/internal/manifest"
	"github.com/vk/blocktest/internal/registry"
)

// Suite is a named collection of tests run on case values of type S.
type Suite[S TestCase] struct {
	name    string
	factory func() S
	reg     *registry.Registry[S]
	cfg     config.Config
	logger  *slog.Logger

	mu      sync.Mutex
	handles map[string]*Test
	// fixture is the case value SetUpSuite ran on, while Run is active.
	fixture    S
	hasFixture bool

	once        sync.Once
	tests       []*Test
	discoverErr error
}

// New creates a suite. Methods of S named TestXxx that take no arguments and
// return nothing are registered first, in lexicographic order; then S's
// RegisterTests hook runs, if S has one.
//
// New panics if factory is nil or the configuration is invalid.
func New[S TestCase](name string, factory func() S, opts ...Option) *Suite[S] {
	if factory == nil {
		panic(fmt.Sprintf("blocktest: suite %q has a nil factory", name))
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	cfg, err := resolveConfig(o)
	if err != nil {
		panic(fmt.Sprintf("blocktest: suite %q: %v", name, err))
	}

	logger := o.logger
	if logger == nil {
		logger = logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	}

	s := &Suite[S]{
		name:    name,
		factory: factory,
		reg:     registry.New[S](name),
		cfg:     *cfg,
		logger:  logger,
		handles: make(map[string]*Test),
	}
	s.reg.SetLogger(logger)

	s.registerMethods()
	if hook, ok := any(factory()).(interface{ RegisterTests(*Suite[S]) }); ok {
		hook.RegisterTests(s)
	}

	return s
}

func resolveConfig(o *options) (*config.Config, error) {
	cfg, err := config.FromEnv(os.LookupEnv)
	if err != nil {
		return nil, err
	}
	if o.manifestPath != nil {
		cfg.ManifestPath = *o.manifestPath
	}
	if o.recover != nil {
		cfg.Recover = *o.recover
	}
	if o.logLevel != nil {
		cfg.LogLevel = *o.logLevel
	}
	return config.New(*cfg)
}

// registerMethods registers the static TestXxx methods of S.
func (s *Suite[S]) registerMethods() {
	typ := reflect.TypeFor[S]()
	if typ.Kind() == reflect.Interface {
		return
	}
	// reflect returns methods sorted by name.
	for i := range typ.NumMethod() {
		m := typ.Method(i)
		if !isTestName(m.Name) || m.Type.NumIn() != 1 || m.Type.NumOut() != 0 {
			continue
		}
		fn := m.Func
		block := func(c S) { fn.Call([]reflect.Value{reflect.ValueOf(c)}) }
		ep, err := s.reg.RegisterStatic(m.Name, block)
		if err != nil {
			panic(fmt.Sprintf("blocktest: %v", err))
		}
		s.newTest(ep)
	}
}

// isTestName matches the host's rule: "Test" followed by nothing or by a
// character that is not a lower-case letter.
func isTestName(name string) bool {
	rest, ok := strings.CutPrefix(name, "Test")
	if !ok {
		return false
	}
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return !unicode.IsLower(r)
}

// Name returns the suite name.
func (s *Suite[S]) Name() string { return s.name }

// Logger returns the suite logger.
func (s *Suite[S]) Logger() *slog.Logger { return s.logger }

// Register adds a test backed by block. It fails if the name is empty or
// taken, block is nil, or discovery has already begun.
func (s *Suite[S]) Register(name string, block func(S)) (*Test, error) {
	ep, err := s.reg.Register(name, block)
	if err != nil {
		return nil, err
	}
	return s.newTest(ep), nil
}

// RegisterWithID is Register with an explicit correlation id.
func (s *Suite[S]) RegisterWithID(name, correlationID string, block func(S)) (*Test, error) {
	ep, err := s.reg.RegisterWithID(name, correlationID, block)
	if err != nil {
		return nil, err
	}
	return s.newTest(ep), nil
}

// AddTest is Register for use at init time: it panics on error.
func (s *Suite[S]) AddTest(name string, block func(S)) *Test {
	t, err := s.Register(name, block)
	if err != nil {
		panic(fmt.Sprintf("blocktest: %v", err))
	}
	return t
}

// AddTestWithID is RegisterWithID for use at init time: it panics on error.
func (s *Suite[S]) AddTestWithID(name, correlationID string, block func(S)) *Test {
	t, err := s.RegisterWithID(name, correlationID, block)
	if err != nil {
		panic(fmt.Sprintf("blocktest: %v", err))
	}
	return t
}

// Tests returns every entry point: static methods first, then closures in
// registration order. The first call closes the suite for registration.
func (s *Suite[S]) Tests() []*Test {
	tests, _ := s.discoverTests()
	return slices.Clone(tests)
}

// Validate runs discovery and returns the manifest error, if any.
func (s *Suite[S]) Validate() error {
	_, err := s.discoverTests()
	return err
}

// InternalTests returns the entry points in the shape testing.Main expects.
// When the manifest check fails, a single entry reporting the failure is
// returned instead.
func (s *Suite[S]) InternalTests() []testing.InternalTest {
	tests, err := s.discoverTests()
	if err != nil {
		return []testing.InternalTest{{
			Name: s.name,
			F:    func(t *testing.T) { t.Fatalf("suite %q: %v", s.name, err) },
		}}
	}

	out := make([]testing.InternalTest, len(tests))
	for i, t := range tests {
		out[i] = t.InternalTest()
	}
	return out
}

// Run runs every entry point as a subtest of t. Suite hooks wrap the
// subtests: SetUpSuite runs first and TearDownSuite when t finishes.
//
// Each test starts from a shallow copy of the case value SetUpSuite ran on,
// so fields it sets are visible to every test. Pointer, map, and slice
// fields are shared between tests.
func (s *Suite[S]) Run(t *testing.T) {
	t.Helper()
	s.runSuite(t, func(test *Test) {
		t.Run(test.Name, func(t *testing.T) {
			test.Invoke(t)
		})
	})
}

// runSuite wraps runTest calls for every entry in the suite hooks of tb.
func (s *Suite[S]) runSuite(tb testing.TB, runTest func(*Test)) {
	tb.Helper()

	tests, err := s.discoverTests()
	if err != nil {
		tb.Fatalf("suite %q: %v", s.name, err)
	}
	if len(tests) == 0 {
		s.logger.Warn("Suite has no tests.", "suite", s.name)
		return
	}

	hooks := s.factory()
	hooks.SetT(tb)
	hooks.SetLogger(s.logger.With("suite", s.name))
	tb.Cleanup(func() {
		var teardown func()
		if h, ok := any(hooks).(suiteTearDowner); ok {
			teardown = h.TearDownSuite
		}
		bridge.Protect(teardown, s.catcher(tb, "TearDownSuite"), s.clearFixture)
	})
	if h, ok := any(hooks).(suiteSetUpper); ok {
		bridge.Protect(h.SetUpSuite, s.catcher(tb, "SetUpSuite"), nil)
		if tb.Failed() {
			tb.FailNow()
		}
	}
	s.setFixture(hooks)

	for _, test := range tests {
		runTest(test)
	}
}

func (s *Suite[S]) discoverTests() ([]*Test, error) {
	s.once.Do(func() {
		entries := s.reg.Enumerate()
		logger := s.logger.With("suite", s.name)
		logger.Debug("Discovering tests.", "count", len(entries))

		ms, err := s.loadManifest()
		if err != nil {
			s.discoverErr = err
		} else if ms != nil {
			registered := make([]manifest.Registered, len(entries))
			for i, ep := range entries {
				registered[i] = manifest.Registered{
					Name:          ep.Name,
					CorrelationID: ep.CorrelationID,
					ExplicitID:    ep.ExplicitID,
				}
			}
			s.discoverErr = ms.Validate(registered)
		}
		if s.discoverErr != nil {
			logger.Error("Suite discovery failed.", "error", s.discoverErr)
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		s.tests = make([]*Test, len(entries))
		for i, ep := range entries {
			t, ok := s.handles[ep.Name]
			if !ok {
				t = s.buildTest(ep)
				s.handles[ep.Name] = t
			}
			applyManifest(t, ms)
			s.tests[i] = t
		}
	})
	return s.tests, s.discoverErr
}

// loadManifest returns the manifest suite matching this suite, or nil when
// no manifest is configured or none declares the suite.
func (s *Suite[S]) loadManifest() (*manifest.Suite, error) {
	if s.cfg.ManifestPath == "" {
		return nil, nil
	}
	ctx := ctxlog.WithLogger(context.Background(), s.logger)
	m, err := manifest.Load(ctx, s.cfg.ManifestPath)
	if err != nil {
		return nil, err
	}
	ms, ok := m.Suite(s.name)
	if !ok {
		s.logger.Debug("Manifest does not declare suite.", "suite", s.name, "path", s.cfg.ManifestPath)
		return nil, nil
	}
	return ms, nil
}

// newTest creates the handle for a fresh registration. Discovery later
// completes it with manifest data.
func (s *Suite[S]) newTest(ep *registry.EntryPoint[S]) *Test {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.handles[ep.Name]; ok {
		return t
	}
	t := s.buildTest(ep)
	s.handles[ep.Name] = t
	return t
}

func (s *Suite[S]) buildTest(ep *registry.EntryPoint[S]) *Test {
	t := &Test{
		Suite:         s.name,
		Name:          ep.Name,
		CorrelationID: ep.CorrelationID,
		Static:        ep.Static,
	}
	t.run = func(tb testing.TB) { s.invoke(t, ep, tb) }
	return t
}

func applyManifest(t *Test, ms *manifest.Suite) {
	if ms == nil {
		return
	}
	t.CorrelationID = ms.CorrelationID(t.Name, t.CorrelationID)
	if declared, ok := ms.Test(t.Name); ok && declared.Skip {
		t.Skip = true
		t.SkipReason = declared.SkipReason
	}
}

// invoke runs one entry on a new case value. SetUp and the block run under
// the bridge; TearDown is its finalizer and is protected the same way.
func (s *Suite[S]) invoke(t *Test, ep *registry.EntryPoint[S], tb testing.TB) {
	tb.Helper()

	// A handle taken from AddTest may be invoked before Tests was called.
	if _, err := s.discoverTests(); err != nil {
		tb.Fatalf("suite %q: %v", s.name, err)
	}

	if t.Skip {
		reason := t.SkipReason
		if reason == "" {
			reason = "skipped by manifest"
		}
		tb.Skip(reason)
	}

	c := s.newCase()
	c.SetT(tb)
	c.SetLogger(s.logger.With("suite", s.name, "test", ep.Name, "correlation_id", t.CorrelationID))

	try := func() {
		if h, ok := any(c).(setUpper); ok {
			h.SetUp()
		}
		ep.Invoke(c)
	}
	var finally func()
	if h, ok := any(c).(tearDowner); ok {
		finally = func() { bridge.Protect(h.TearDown, s.catcher(tb, ep.Name), nil) }
	}

	bridge.Protect(try, s.catcher(tb, ep.Name), finally)
}

// newCase returns a case value for one test, seeded from the suite fixture
// when Run has set one up.
func (s *Suite[S]) newCase() S {
	c := s.factory()

	s.mu.Lock()
	fixture, ok := s.fixture, s.hasFixture
	s.mu.Unlock()
	if !ok {
		return c
	}

	dst, src := reflect.ValueOf(c), reflect.ValueOf(fixture)
	if dst.Kind() != reflect.Pointer || dst.IsNil() || src.Kind() != reflect.Pointer || src.IsNil() {
		return c
	}
	if dst.Elem().CanSet() && src.Elem().Type() == dst.Elem().Type() {
		dst.Elem().Set(src.Elem())
	}
	return c
}

func (s *Suite[S]) setFixture(c S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixture, s.hasFixture = c, true
}

func (s *Suite[S]) clearFixture() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero S
	s.fixture, s.hasFixture = zero, false
}

// catcher reports an intercepted signal as a failure of tb. It returns nil
// when recovery is disabled, so the panic propagates.
func (s *Suite[S]) catcher(tb testing.TB, name string) func(*bridge.Signal) {
	if !s.cfg.Recover {
		return nil
	}
	return func(sig *bridge.Signal) {
		s.logger.Warn("Test raised a signal.", "suite", s.name, "test", name, "signal", sig.Name, "reason", sig.Reason)
		tb.Errorf("test %q raised %s\n%s", name, sig.String(), sig.Stack)
	}
}
