package orchestrator

import (
	"context"
	"fmt"

	"github.com/goliatone/go-srcgen/internal/shape/openapi"
	"github.com/goliatone/go-srcgen/internal/shape/typesfile"
	"github.com/goliatone/go-srcgen/pkg/shape"
)

// detectingParser sniffs the document payload and routes it to the
// matching format parser. Callers that know the format up front inject
// a concrete parser through WithParser instead.
type detectingParser struct {
	openapi   shape.Parser
	typesfile shape.Parser
}

var _ shape.Parser = (*detectingParser)(nil)

// NewDetectingParser returns a parser that sniffs each document and
// routes it to the OpenAPI or declared-shapes implementation.
func NewDetectingParser(options ...shape.ParserOption) shape.Parser {
	return newDetectingParser(shape.NewParserOptions(options...))
}

func newDetectingParser(options shape.ParserOptions) *detectingParser {
	return &detectingParser{
		openapi:   openapi.New(options),
		typesfile: typesfile.New(options),
	}
}

func (p *detectingParser) Shapes(ctx context.Context, doc shape.Document) (map[string]shape.TypeShape, error) {
	switch {
	case openapi.Detect(doc):
		return p.openapi.Shapes(ctx, doc)
	case typesfile.Detect(doc):
		return p.typesfile.Shapes(ctx, doc)
	default:
		return nil, fmt.Errorf("orchestrator: unable to detect document format for %s", doc.Location())
	}
}
