// Package diag provides the centralized structured error/diagnostic
// model shared by every compiler-core component. It follows the
// taxonomy, severity, and propagation policy of the specification's
// error-handling design.
package diag

// Error code constants organized by owning component. Codes outside the
// core's scope (lexical/syntax, owned by the upstream frontend
// collaborator) are reserved here for completeness even though this
// module never raises them.
const (
	// ============================================================================
	// Frontend-owned codes (LEX###, PAR###) — reserved, raised upstream only.
	// ============================================================================

	LEX001 = "LEX001" // lexical error (owned by the frontend collaborator)
	PAR001 = "PAR001" // syntax error (owned by the frontend collaborator)

	// ============================================================================
	// Type Registry errors (TR###)
	// ============================================================================

	TR001 = "TR001" // resolve() called on an unknown handle
	TR002 = "TR002" // substitution attempted on a malformed term
	TR003 = "TR003" // structural-equality check on an unresolved handle

	// ============================================================================
	// Kind System errors (KD###)
	// ============================================================================

	KD001 = "KD001" // kind unification mismatch
	KD002 = "KD002" // kind arity mismatch applying a constructor
	KD003 = "KD003" // kind occurs-check failure
	KD004 = "KD004" // dependent kind indices are not structurally equal
	KD005 = "KD005" // infer_kind: reference to an undeclared type constructor

	// ============================================================================
	// Constraint Solver errors (CS###)
	// ============================================================================

	CS001 = "CS001" // equality constraint: type mismatch
	CS002 = "CS002" // subtype constraint: not a subtype
	CS003 = "CS003" // refinement entailment could not be proven
	CS004 = "CS004" // linear resource used more than once (E_LINEAR_DOUBLE_USE)
	CS005 = "CS005" // linear resource not consumed at scope exit
	CS006 = "CS006" // borrow conflicts with an outstanding exclusive borrow
	CS007 = "CS007" // control-flow join has mismatched resource states
	CS008 = "CS008" // constraint solver exceeded the hard iteration bound
	CS009 = "CS009" // type-level evaluation recursion bound exceeded
	CS010 = "CS010" // SMT oracle returned unknown (soft failure, Warning unless critical)
	CS011 = "CS011" // SMT oracle process error or crash (Fatal)
	CS012 = "CS012" // temporal safety violation: forbidden state reachable
	CS013 = "CS013" // temporal invariance violation: counterexample found
	CS014 = "CS014" // quantum gate arity exceeds qubit count
	CS015 = "CS015" // non-cloning violation: resource used a second time

	// ============================================================================
	// Module & Name Resolution errors (MR###)
	// ============================================================================

	MR001 = "MR001" // module not found
	MR002 = "MR002" // circular module dependency (recorded, non-fatal)
	MR003 = "MR003" // duplicate module definition
	MR004 = "MR004" // import of non-existent export
	MR005 = "MR005" // ambiguous import: multiple sources provide the same name
	MR006 = "MR006" // symbol not visible from the requesting module
	MR007 = "MR007" // undefined symbol
	MR008 = "MR008" // duplicate symbol declared twice in one module

	// ============================================================================
	// Analysis & Optimization Manager errors (AN###)
	// ============================================================================

	AN001 = "AN001" // analysis dependency graph contains a cycle (configuration error)
	AN002 = "AN002" // pass exceeded its time limit
	AN003 = "AN003" // pass exceeded its memory limit
	AN004 = "AN004" // empty function passed to IR construction
	AN005 = "AN005" // pass requested a result outside its declared prerequisites
	AN006 = "AN006" // SSA integrity check failed after vectorization
)

// CodeInfo documents a taxonomy code's owning phase and category, the
// way the teacher's ErrorRegistry documents its own codes.
type CodeInfo struct {
	Code        string
	Phase       string
	Category    string
	Description string
}

// Registry maps every code declared above to its documentation. It is
// consulted by the Manager when attaching a documentation link and by
// tests asserting that every raised code is registered.
var Registry = map[string]CodeInfo{
	TR001: {TR001, "type-registry", "internal", "Unknown type handle"},
	TR002: {TR002, "type-registry", "internal", "Malformed substitution target"},
	TR003: {TR003, "type-registry", "internal", "Equality check on unresolved handle"},

	KD001: {KD001, "kind-system", "unification", "Kind mismatch"},
	KD002: {KD002, "kind-system", "arity", "Constructor arity mismatch"},
	KD003: {KD003, "kind-system", "occurs-check", "Kind variable occurs in itself"},
	KD004: {KD004, "kind-system", "dependent", "Dependent kind indices differ"},
	KD005: {KD005, "kind-system", "inference", "Reference to an undeclared type constructor"},

	CS001: {CS001, "constraint-solver", "equality", "Type mismatch"},
	CS002: {CS002, "constraint-solver", "subtype", "Not a subtype"},
	CS003: {CS003, "constraint-solver", "refinement", "Refinement entailment unproven"},
	CS004: {CS004, "constraint-solver", "linear", "Linear resource used twice"},
	CS005: {CS005, "constraint-solver", "linear", "Linear resource not consumed"},
	CS006: {CS006, "constraint-solver", "borrow", "Exclusive borrow conflict"},
	CS007: {CS007, "constraint-solver", "linear", "Mismatched resource states at join"},
	CS008: {CS008, "constraint-solver", "divergence", "Solver iteration bound exceeded"},
	CS009: {CS009, "constraint-solver", "divergence", "Type-level evaluation diverged"},
	CS010: {CS010, "constraint-solver", "smt", "SMT oracle returned unknown"},
	CS011: {CS011, "constraint-solver", "smt", "SMT oracle process failure"},
	CS012: {CS012, "constraint-solver", "temporal", "Forbidden state reachable"},
	CS013: {CS013, "constraint-solver", "temporal", "Invariant violated"},
	CS014: {CS014, "constraint-solver", "quantum", "Gate arity exceeds qubit count"},
	CS015: {CS015, "constraint-solver", "quantum", "Non-cloning violation"},

	MR001: {MR001, "module-resolver", "resolution", "Module not found"},
	MR002: {MR002, "module-resolver", "dependency", "Circular import"},
	MR003: {MR003, "module-resolver", "namespace", "Duplicate module"},
	MR004: {MR004, "module-resolver", "resolution", "Import not exported"},
	MR005: {MR005, "module-resolver", "resolution", "Ambiguous import"},
	MR006: {MR006, "module-resolver", "visibility", "Symbol not visible"},
	MR007: {MR007, "module-resolver", "resolution", "Undefined symbol"},
	MR008: {MR008, "module-resolver", "namespace", "Duplicate symbol"},

	AN001: {AN001, "analysis-manager", "configuration", "Dependency graph cycle"},
	AN002: {AN002, "analysis-manager", "limits", "Time limit exceeded"},
	AN003: {AN003, "analysis-manager", "limits", "Memory limit exceeded"},
	AN004: {AN004, "analysis-manager", "ir", "Empty function"},
	AN005: {AN005, "analysis-manager", "scheduling", "Undeclared dependency requested"},
	AN006: {AN006, "analysis-manager", "vectorization", "SSA integrity check failed"},
}
