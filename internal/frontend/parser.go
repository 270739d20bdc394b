package frontend

import "context"

// Parser is the upstream collaborator that turns source text into a
// positioned Module AST. The core never implements this interface —
// lexing and grammar are explicitly out of scope (see spec Non-goals)
// — it only consumes whatever concrete parser an embedder wires in.
// The FileLoader supplies the source text; the result feeds the
// Module & Name Resolver (C4) and, from there, constraint generation.
type Parser interface {
	// Parse produces the AST for one module's source text. moduleID
	// identifies the module being parsed (for diagnostics and for
	// stamping Module.ModulePath when the source has no module
	// declaration of its own); sourceFile is the originating path,
	// recorded on every Position for downstream diagnostic rendering
	// (itself out of scope here — this package only carries the data).
	Parse(ctx context.Context, moduleID, sourceFile, source string) (*Module, error)
}
