package frontend

// FileLoader is the upstream collaborator that resolves module
// identities to source text and filesystem locations, grounded on the
// teacher's internal/module.Loader (searchPaths/stdlibPath resolution,
// ReadFile-then-parse loading flow) but narrowed to exactly the three
// operations the Module & Name Resolver (C4) needs from it — the core
// never walks a directory or opens a file on its own, it only calls
// through this interface.
type FileLoader interface {
	// ReadFile returns the full contents of the file at path.
	ReadFile(path string) (string, error)

	// ListModules returns the module ids found under dir, the way the
	// teacher's loader enumerates a search path to discover importable
	// modules without the caller naming every file up front.
	ListModules(dir string) ([]string, error)

	// ResolveModulePath turns a module id into a filesystem path. base,
	// when non-empty, is the importing file's own path — used to
	// resolve relative imports the way the teacher's Loader.currentFile
	// does, before falling back to the loader's configured search
	// paths.
	ResolveModulePath(moduleID, base string) (string, error)
}
