package diag

import "sort"

// Manager accumulates diagnostics across a compilation unit. Recoverable
// errors bubble up to the Manager and do not short-circuit unrelated
// work; only a Fatal report aborts the compilation unit immediately,
// per the specification's propagation policy.
type Manager struct {
	reports         []*Report
	warningsAsErrors bool
	fatal           *Report
}

// NewManager creates an empty diagnostic manager.
func NewManager() *Manager {
	return &Manager{}
}

// SetWarningsAsErrors promotes every Warning to Error from this point
// forward (existing reports are not retroactively changed).
func (m *Manager) SetWarningsAsErrors(on bool) {
	m.warningsAsErrors = on
}

// Emit records a report. If the report is Fatal, the manager remembers
// it so HasFatal reports true; callers are responsible for actually
// aborting (the manager itself never panics or exits).
func (m *Manager) Emit(r *Report) {
	if r == nil {
		return
	}
	if m.warningsAsErrors && r.Severity == Warning {
		r.Severity = Error
	}
	m.reports = append(m.reports, r)
	if r.Severity == Fatal && m.fatal == nil {
		m.fatal = r
	}
}

// HasFatal reports whether a Fatal diagnostic has been emitted.
func (m *Manager) HasFatal() bool {
	return m.fatal != nil
}

// FatalReport returns the first Fatal diagnostic emitted, or nil.
func (m *Manager) FatalReport() *Report {
	return m.fatal
}

// HasErrors reports whether any diagnostic at Error severity or above
// has been emitted; per §7 this means the artifact must be withheld.
func (m *Manager) HasErrors() bool {
	for _, r := range m.reports {
		if r.Severity >= Error {
			return true
		}
	}
	return false
}

// Reports returns all accumulated reports in emission order.
func (m *Manager) Reports() []*Report {
	out := make([]*Report, len(m.reports))
	copy(out, m.reports)
	return out
}

// BySeverity returns reports at or above the given severity, stable
// sorted by (phase, code) for deterministic presentation.
func (m *Manager) BySeverity(min Severity) []*Report {
	var out []*Report
	for _, r := range m.reports {
		if r.Severity >= min {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Phase != out[j].Phase {
			return out[i].Phase < out[j].Phase
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// Reset clears all accumulated state. Used between independent
// compilation units sharing a process (e.g. a test suite).
func (m *Manager) Reset() {
	m.reports = nil
	m.fatal = nil
}
