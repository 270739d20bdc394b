package diag

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportWrapAndAs(t *testing.T) {
	r := New(CS004, Error, "constraint-solver", "linear resource used twice").
		WithSpan(Span{File: "a.sl", StartLine: 3, StartCol: 1}).
		WithRelated(Span{File: "a.sl", StartLine: 1, StartCol: 1}, "binding site")

	err := Wrap(r)
	require.Error(t, err)

	got, ok := AsReport(err)
	require.True(t, ok)
	assert.Equal(t, CS004, got.Code)
	assert.Len(t, got.Related, 1)

	wrapped := errors.New("outer: " + err.Error())
	_, ok = AsReport(wrapped)
	assert.False(t, ok, "AsReport must not match a plain string error")
}

func TestReportToJSONIsDeterministic(t *testing.T) {
	r := New(MR002, Warning, "module-resolver", "circular import").
		WithData("modules", []string{"A", "B"})

	out1, err := r.ToJSON(true)
	require.NoError(t, err)
	out2, err := r.ToJSON(true)
	require.NoError(t, err)
	assert.Equal(t, out1, out2)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out1), &decoded))
	assert.Equal(t, "warning", decoded["severity"])
}

func TestManagerWarningsAsErrors(t *testing.T) {
	m := NewManager()
	m.SetWarningsAsErrors(true)
	m.Emit(New(CS010, Warning, "constraint-solver", "smt returned unknown"))
	assert.True(t, m.HasErrors())
}

func TestManagerFatalShortCircuit(t *testing.T) {
	m := NewManager()
	m.Emit(New(CS001, Error, "constraint-solver", "type mismatch"))
	require.False(t, m.HasFatal())
	m.Emit(New(TR001, Fatal, "type-registry", "unknown handle"))
	assert.True(t, m.HasFatal())
	assert.Equal(t, TR001, m.FatalReport().Code)
}

func TestFixAutoApplyThreshold(t *testing.T) {
	f := &Fix{Confidence: 0.9}
	assert.GreaterOrEqual(t, f.Confidence, AutoApplyThreshold)
}
