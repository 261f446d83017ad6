package srcgen

import (
	"io/fs"

	"github.com/goliatone/go-srcgen/pkg/orchestrator"
)

// EmbeddedTemplates exposes the built-in code generation templates so
// callers can reuse or extend them without importing the orchestrator
// package directly.
func EmbeddedTemplates() fs.FS {
	return orchestrator.TemplatesFS()
}
