package registry

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCase struct {
	ran []string
}

func noop(*fakeCase) {}

func names(eps []*EntryPoint[*fakeCase]) []string {
	out := make([]string, len(eps))
	for i, ep := range eps {
		out[i] = ep.Name
	}
	return out
}

func TestRegistry_Lifecycle(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	reg := New[*fakeCase]("Lifecycle")
	require.Equal(t, Uninitialized, reg.State())

	// --- Act & Assert ---
	_, err := reg.Register("A", noop)
	require.NoError(t, err)
	require.Equal(t, Registering, reg.State())

	reg.Enumerate()
	require.Equal(t, Closed, reg.State())

	_, err = reg.Register("B", noop)
	require.ErrorIs(t, err, ErrClosed)
	require.Equal(t, 1, reg.Len(), "a rejected registration must not be recorded")
}

func TestRegistry_EnumerateKeepsRegistrationOrder(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	reg := New[*fakeCase]("Order")
	want := []string{"B", "A", "zeta", "alpha", "M"}
	for _, n := range want {
		_, err := reg.Register(n, noop)
		require.NoError(t, err)
	}

	// --- Act ---
	first := names(reg.Enumerate())
	second := names(reg.Enumerate())

	// --- Assert ---
	if diff := cmp.Diff(want, first); diff != "" {
		t.Fatalf("enumeration order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("enumeration is not idempotent (-first +second):\n%s", diff)
	}
}

func TestRegistry_EnumerateReturnsCopy(t *testing.T) {
	t.Parallel()

	reg := New[*fakeCase]("Copy")
	_, err := reg.Register("A", noop)
	require.NoError(t, err)

	eps := reg.Enumerate()
	eps[0] = nil

	require.NotNil(t, reg.Enumerate()[0])
}

func TestRegistry_RejectsDuplicates(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	reg := New[*fakeCase]("Dupes")
	first := func(c *fakeCase) { c.ran = append(c.ran, "first") }
	second := func(c *fakeCase) { c.ran = append(c.ran, "second") }

	// --- Act ---
	_, err := reg.Register("A", first)
	require.NoError(t, err)
	_, err = reg.RegisterWithID("A", "EXT-1", second)

	// --- Assert ---
	require.ErrorIs(t, err, ErrDuplicateName)
	require.Contains(t, err.Error(), `suite "Dupes", test "A"`)

	ep, ok := reg.Lookup("A")
	require.True(t, ok)
	c := &fakeCase{}
	ep.Invoke(c)
	require.Equal(t, []string{"first"}, c.ran, "the first registration must survive")
}

func TestRegistry_StaticAndDynamicShareNames(t *testing.T) {
	t.Parallel()

	reg := New[*fakeCase]("Shared")
	_, err := reg.RegisterStatic("TestA", noop)
	require.NoError(t, err)

	_, err = reg.Register("TestA", noop)
	require.ErrorIs(t, err, ErrDuplicateName)
}

func TestRegistry_InvalidRegistrations(t *testing.T) {
	t.Parallel()

	reg := New[*fakeCase]("Invalid")

	_, err := reg.Register("", noop)
	require.ErrorIs(t, err, ErrEmptyName)

	_, err = reg.Register("A", nil)
	require.ErrorIs(t, err, ErrNilBlock)

	require.Equal(t, Uninitialized, reg.State())
}

func TestRegistry_CorrelationIDs(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	reg := New[*fakeCase]("IDs")

	// --- Act ---
	derived, err := reg.Register("A", noop)
	require.NoError(t, err)
	explicit, err := reg.RegisterWithID("B", "TC-42", noop)
	require.NoError(t, err)
	sameID, err := reg.RegisterWithID("C", "TC-42", noop)

	// --- Assert ---
	require.NoError(t, err, "correlation ids do not take part in uniqueness")
	assert.Equal(t, "TC-42", sameID.CorrelationID)

	assert.False(t, derived.ExplicitID)
	assert.Equal(t, DefaultCorrelationID("IDs", "A"), derived.CorrelationID)
	_, parseErr := uuid.Parse(derived.CorrelationID)
	assert.NoError(t, parseErr)

	assert.True(t, explicit.ExplicitID)
	assert.Equal(t, "TC-42", explicit.CorrelationID)
	assert.Equal(t, 1, explicit.Index)
}

func TestDefaultCorrelationID_Stable(t *testing.T) {
	t.Parallel()

	require.Equal(t, DefaultCorrelationID("S", "T"), DefaultCorrelationID("S", "T"))
	require.NotEqual(t, DefaultCorrelationID("S", "T"), DefaultCorrelationID("S", "U"))
	require.NotEqual(t, DefaultCorrelationID("S", "T"), DefaultCorrelationID("Other", "T"))
}

func TestEntryPoint_InvokeForwardsContext(t *testing.T) {
	t.Parallel()

	reg := New[*fakeCase]("Invoke")
	var got *fakeCase
	calls := 0
	ep, err := reg.Register("A", func(c *fakeCase) {
		got = c
		calls++
	})
	require.NoError(t, err)

	want := &fakeCase{}
	ep.Invoke(want)

	require.Same(t, want, got)
	require.Equal(t, 1, calls)
}

func TestRegistry_ConcurrentReadsAfterClose(t *testing.T) {
	t.Parallel()

	reg := New[*fakeCase]("Concurrent")
	for _, n := range []string{"A", "B", "C"} {
		_, err := reg.Register(n, noop)
		require.NoError(t, err)
	}
	reg.Enumerate()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, []string{"A", "B", "C"}, names(reg.Enumerate()))
			_, ok := reg.Lookup("B")
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "uninitialized", Uninitialized.String())
	assert.Equal(t, "registering", Registering.String())
	assert.Equal(t, "closed", Closed.String())
	assert.Equal(t, "State(9)", State(9).String())
}
