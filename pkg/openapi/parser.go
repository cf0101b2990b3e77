package openapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ParserOptions exposes the parsing toggles.
type ParserOptions struct {
	// ResolveReferences controls whether the parser validates the document and
	// eagerly resolves $ref pointers. Defaults to true for full documents.
	ResolveReferences bool

	// AllowPartialDocuments accepts documents without paths or operations
	// instead of rejecting them.
	AllowPartialDocuments bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithReferenceResolution toggles eager reference resolution.
func WithReferenceResolution(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ResolveReferences = enabled
	}
}

// WithPartialDocuments toggles support for component-only documents.
func WithPartialDocuments(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.AllowPartialDocuments = enabled
	}
}

// Parser normalises OpenAPI documents into Operation wrappers using
// kin-openapi.
type Parser struct {
	options ParserOptions
}

// NewParser constructs a Parser.
func NewParser(options ...ParserOption) *Parser {
	opts := ParserOptions{ResolveReferences: true}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	return &Parser{options: opts}
}

// Operations converts a Document into a map keyed by operationId. Operations
// without an id key under method:path.
func (p *Parser) Operations(ctx context.Context, doc Document) (map[string]Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.ResolveReferences,
	}

	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}

	if spec.Paths == nil || spec.Paths.Len() == 0 {
		if !p.options.AllowPartialDocuments {
			return nil, errors.New("openapi: document does not contain any paths")
		}
	}

	if p.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	operations := make(map[string]Operation)
	if spec.Paths != nil {
		for path, item := range spec.Paths.Map() {
			if item == nil {
				continue
			}
			collectOperation(operations, "GET", path, item.Get)
			collectOperation(operations, "PUT", path, item.Put)
			collectOperation(operations, "POST", path, item.Post)
			collectOperation(operations, "DELETE", path, item.Delete)
			collectOperation(operations, "PATCH", path, item.Patch)
			collectOperation(operations, "HEAD", path, item.Head)
			collectOperation(operations, "OPTIONS", path, item.Options)
			collectOperation(operations, "TRACE", path, item.Trace)
		}
	}

	if len(operations) == 0 && !p.options.AllowPartialDocuments {
		return nil, errors.New("openapi: no operations extracted")
	}

	return operations, nil
}

func collectOperation(target map[string]Operation, method, path string, operation *openapi3.Operation) {
	if operation == nil {
		return
	}
	opID := operation.OperationID
	if opID == "" {
		opID = strings.ToLower(method) + ":" + path
	}
	requestSchema := extractRequestSchema(operation.RequestBody)
	responseSchemas := extractResponseSchemas(operation.Responses)

	op, err := NewOperation(opID, method, path, requestSchema, responseSchemas)
	if err != nil {
		// Invalid operations are skipped by leaving them out.
		return
	}
	op.Summary = operation.Summary
	op.Description = operation.Description
	target[opID] = op
}

func extractRequestSchema(requestBody *openapi3.RequestBodyRef) Schema {
	if requestBody == nil {
		return Schema{}
	}
	if requestBody.Value == nil {
		return Schema{Ref: requestBody.Ref}
	}
	content := requestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok {
			return convertSchema(mt.Schema)
		}
	}
	for _, mt := range content {
		return convertSchema(mt.Schema)
	}
	return Schema{}
}

func extractResponseSchemas(responses *openapi3.Responses) map[string]Schema {
	if responses == nil || responses.Len() == 0 {
		return nil
	}
	result := make(map[string]Schema)
	for status, ref := range responses.Map() {
		if ref == nil {
			continue
		}
		var schema Schema
		if ref.Value == nil {
			schema = Schema{Ref: ref.Ref}
		} else {
			content := ref.Value.Content
			if len(content) == 0 {
				continue
			}
			if mt, ok := content["application/json"]; ok {
				schema = convertSchema(mt.Schema)
			} else {
				for _, mt := range content {
					schema = convertSchema(mt.Schema)
					break
				}
			}
			if schema.Description == "" && ref.Value.Description != nil {
				schema.Description = *ref.Value.Description
			}
		}
		if schema.Ref == "" && schema.Type == "" && schema.Items == nil && len(schema.Properties) == 0 {
			continue
		}
		result[status] = schema
	}
	return result
}

func convertSchema(ref *openapi3.SchemaRef) Schema {
	return convertSchemaSeen(ref, make(map[*openapi3.Schema]bool))
}

// convertSchemaSeen walks the resolved schema graph. Resolved documents can
// contain reference cycles; a schema already on the current path converts to a
// ref-only node instead of recursing.
func convertSchemaSeen(ref *openapi3.SchemaRef, seen map[*openapi3.Schema]bool) Schema {
	if ref == nil {
		return Schema{}
	}
	if ref.Value == nil || seen[ref.Value] {
		return Schema{Ref: ref.Ref}
	}
	seen[ref.Value] = true
	defer delete(seen, ref.Value)

	src := ref.Value
	schema := Schema{
		Ref:         ref.Ref,
		Type:        firstSchemaType(src.Type),
		Format:      src.Format,
		Description: src.Description,
		Default:     src.Default,
	}

	if len(src.Required) > 0 {
		schema.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		schema.Enum = append([]any(nil), src.Enum...)
	}
	if len(src.Properties) > 0 {
		schema.Properties = make(map[string]Schema, len(src.Properties))
		for name, property := range src.Properties {
			schema.Properties[name] = convertSchemaSeen(property, seen)
		}
	}
	if src.Items != nil {
		items := convertSchemaSeen(src.Items, seen)
		schema.Items = &items
	}
	if src.Min != nil {
		value := *src.Min
		schema.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		schema.Maximum = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		schema.MaxLength = &value
	}
	mergeAllOf(&schema, src.AllOf, seen)
	return schema
}

// mergeAllOf folds allOf branches into the target so composed request bodies
// surface a single flat property set. Explicit declarations win over branch
// contributions.
func mergeAllOf(target *Schema, refs openapi3.SchemaRefs, seen map[*openapi3.Schema]bool) {
	if target == nil || len(refs) == 0 {
		return
	}
	for _, ref := range refs {
		branch := convertSchemaSeen(ref, seen)
		if target.Type == "" {
			target.Type = branch.Type
		}
		if len(branch.Required) > 0 {
			target.Required = append(target.Required, branch.Required...)
		}
		if len(branch.Properties) > 0 {
			if target.Properties == nil {
				target.Properties = make(map[string]Schema, len(branch.Properties))
			}
			for name, property := range branch.Properties {
				if _, exists := target.Properties[name]; !exists {
					target.Properties[name] = property
				}
			}
		}
	}
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	switch len(values) {
	case 0:
		return ""
	case 1:
		return values[0]
	default:
		return strings.Join(values, ",")
	}
}
