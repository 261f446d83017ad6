package srcgen

import (
	internalLoader "github.com/goliatone/go-srcgen/internal/shape/loader"
	internalOpenAPI "github.com/goliatone/go-srcgen/internal/shape/openapi"
	internalTypesFile "github.com/goliatone/go-srcgen/internal/shape/typesfile"
	"github.com/goliatone/go-srcgen/pkg/orchestrator"
	pkgshape "github.com/goliatone/go-srcgen/pkg/shape"
)

// NewLoader constructs a document loader using the internal implementation
// while keeping the concrete type hidden from consumers.
func NewLoader(options ...pkgshape.LoaderOption) pkgshape.Loader {
	cfg := pkgshape.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewParser constructs a format-detecting parser that accepts both
// OpenAPI and declared-shapes documents.
func NewParser(options ...pkgshape.ParserOption) pkgshape.Parser {
	return orchestrator.NewDetectingParser(options...)
}

// NewOpenAPIParser constructs a parser for OpenAPI documents. Component
// schemas become type shapes; the rest of the document is ignored.
func NewOpenAPIParser(options ...pkgshape.ParserOption) pkgshape.Parser {
	cfg := pkgshape.NewParserOptions(options...)
	return internalOpenAPI.New(cfg)
}

// NewTypesFileParser constructs a parser for declared-shapes documents,
// the YAML/JSON format that lists types directly.
func NewTypesFileParser(options ...pkgshape.ParserOption) pkgshape.Parser {
	cfg := pkgshape.NewParserOptions(options...)
	return internalTypesFile.New(cfg)
}
