package constraints

import (
	"fmt"

	"github.com/menchan-Rub/SwiftLight-sub003/internal/diag"
)

// QuantumRegister tracks qubit identity, measurement, and entanglement
// for the solver's quantum fragment: a union-find over qubit ids
// records which qubits have become entangled by a joint gate
// application, and a consumed set enforces the no-cloning restriction
// that an unmeasured qubit can be passed to at most one gate operand
// list before either being measured or reset (§4.3.6).
type QuantumRegister struct {
	parent   map[string]string
	measured map[string]bool
	consumed map[string]bool
}

// NewQuantumRegister creates an empty register.
func NewQuantumRegister() *QuantumRegister {
	return &QuantumRegister{
		parent:   map[string]string{},
		measured: map[string]bool{},
		consumed: map[string]bool{},
	}
}

func (q *QuantumRegister) find(x string) string {
	if _, ok := q.parent[x]; !ok {
		q.parent[x] = x
		return x
	}
	if q.parent[x] != x {
		q.parent[x] = q.find(q.parent[x])
	}
	return q.parent[x]
}

func (q *QuantumRegister) union(a, b string) {
	ra, rb := q.find(a), q.find(b)
	if ra != rb {
		q.parent[ra] = rb
	}
}

// Entangled reports whether a and b belong to the same entangled group.
func (q *QuantumRegister) Entangled(a, b string) bool {
	return q.find(a) == q.find(b)
}

// Measure marks a qubit measured, collapsing it out of superposition.
// A measured qubit may be reused as a classical bit freely: measurement
// is what releases it from the no-cloning restriction.
func (q *QuantumRegister) Measure(id string) {
	q.measured[id] = true
	delete(q.consumed, id)
}

// ApplyGate applies a gate with arity gateSize to qubits, entangling
// them together. len(qubits) must equal gateSize exactly (CS014), and
// no operand may be an already-consumed unmeasured qubit (CS015).
func (q *QuantumRegister) ApplyGate(qubits []string, gateSize int) error {
	if len(qubits) != gateSize {
		return diag.Wrap(diag.New(diag.CS014, diag.Error, "constraint-solver",
			fmt.Sprintf("gate expects %d qubit operands, got %d", gateSize, len(qubits))).
			WithData("expected", gateSize).WithData("actual", len(qubits)))
	}
	for _, id := range qubits {
		if q.consumed[id] && !q.measured[id] {
			return diag.Wrap(diag.New(diag.CS015, diag.Error, "constraint-solver",
				fmt.Sprintf("qubit %q reused by a second gate without measurement (no-cloning violation)", id)).
				WithData("qubit", id))
		}
	}
	for _, id := range qubits {
		q.consumed[id] = true
	}
	for i := 1; i < len(qubits); i++ {
		q.union(qubits[0], qubits[i])
	}
	return nil
}

func checkQuantum(q *QuantumRegister, c Constraint) error {
	switch c.Kind {
	case KindQuantumGate:
		return q.ApplyGate(c.Qubits, c.GateSize)
	case KindQuantumNoClone:
		for _, id := range c.Qubits {
			if q.consumed[id] && !q.measured[id] {
				return diag.Wrap(diag.New(diag.CS015, diag.Error, "constraint-solver",
					fmt.Sprintf("qubit %q cloned without measurement", id)).WithData("qubit", id))
			}
		}
		return nil
	default:
		return nil
	}
}
