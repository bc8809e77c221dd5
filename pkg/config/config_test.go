package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsDuplicateName(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterCheckbox("a", "", false, nil))

	err := r.RegisterCheckbox("a", "", true, nil)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestSetCheckboxInvokesCallback(t *testing.T) {
	var got bool
	r := New()
	require.NoError(t, r.RegisterCheckbox("randomMoves", "", false, func(v bool) { got = v }))

	require.NoError(t, r.SetCheckbox("randomMoves", true))
	assert.True(t, got)

	item, err := r.Describe("randomMoves")
	require.NoError(t, err)
	assert.Equal(t, "true", item.Value)
}

func TestSetCheckboxOnSpinItemIsWrongType(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterSpin("maxDepth", "", 0, 0, 100, nil))

	err := r.SetCheckbox("maxDepth", true)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestSetSpinRejectsOutOfRange(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterSpin("maxDepth", "", 1, 10, 100, nil))

	err := r.SetSpin("maxDepth", 101)
	assert.ErrorIs(t, err, ErrInvalidValue)

	item, _ := r.Describe("maxDepth")
	assert.Equal(t, "10", item.Value, "a rejected Set must not change the stored value")
}

func TestSetSpinClampedClampsInsteadOfRejecting(t *testing.T) {
	var got int
	r := New()
	require.NoError(t, r.RegisterSpin("maxThreads", "", 1, 1, 16, func(n int) { got = n }))

	require.NoError(t, r.SetSpinClamped("maxThreads", 9999))
	assert.Equal(t, 16, got)

	require.NoError(t, r.SetSpinClamped("maxThreads", -5))
	assert.Equal(t, 1, got)
}

func TestSetComboRejectsValueNotAmongChoices(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterCombo("style", "", "solid", []string{"solid", "aggressive"}, nil))

	assert.Error(t, r.RegisterCombo("bad", "", "x", []string{"a", "b"}, nil))
	assert.ErrorIs(t, r.SetCombo("style", "timid"), ErrInvalidValue)
	require.NoError(t, r.SetCombo("style", "aggressive"))
}

func TestSetButtonInvokesCallbackWithNoValue(t *testing.T) {
	pushed := 0
	r := New()
	require.NoError(t, r.RegisterButton("clearHash", "", func() { pushed++ }))

	require.NoError(t, r.SetButton("clearHash"))
	require.NoError(t, r.SetButton("clearHash"))
	assert.Equal(t, 2, pushed)
}

func TestSetOnUnknownNameIsNotFound(t *testing.T) {
	r := New()
	assert.ErrorIs(t, r.SetString("missing", "x"), ErrNotFound)
}

func TestItemsReturnsRegistrationOrder(t *testing.T) {
	r := New()
	require.NoError(t, r.RegisterCheckbox("b", "", false, nil))
	require.NoError(t, r.RegisterCheckbox("a", "", false, nil))

	items := r.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].Name)
	assert.Equal(t, "a", items[1].Name)
}

func TestNewStandardRegistryWiresSettersByName(t *testing.T) {
	var depth, mib, nodes, threads, window int
	var random, resign bool

	r := NewStandardRegistry(Setters{
		MaxDepth:      func(v int) { depth = v },
		MaxMemory:     func(v int) { mib = v },
		MaxNodes:      func(v int) { nodes = v },
		MaxThreads:    func(v int) { threads = v },
		RandomMoves:   func(v bool) { random = v },
		CanResign:     func(v bool) { resign = v },
		HistoryWindow: func(v int) { window = v },
	})

	require.NoError(t, r.SetSpin(MaxDepthSpin, 12))
	require.NoError(t, r.SetSpin(MaxMemorySpin, 64))
	require.NoError(t, r.SetSpin(MaxNodesSpin, 1_000_000))
	require.NoError(t, r.SetSpin(MaxThreadsSpin, 4))
	require.NoError(t, r.SetCheckbox(RandomMovesCheck, true))
	require.NoError(t, r.SetCheckbox(CanResignCheck, true))
	require.NoError(t, r.SetSpin(HistoryWindowSpin, 5))

	assert.Equal(t, 12, depth)
	assert.Equal(t, 64, mib)
	assert.Equal(t, 1_000_000, nodes)
	assert.Equal(t, 4, threads)
	assert.True(t, random)
	assert.True(t, resign)
	assert.Equal(t, 5, window)
}

func TestNewStandardRegistryToleratesNilSetters(t *testing.T) {
	r := NewStandardRegistry(Setters{})
	assert.NoError(t, r.SetCheckbox(CanResignCheck, true))
}
