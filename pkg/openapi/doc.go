// Package openapi turns the knowledge-base service's OpenAPI document into
// flow-form definitions. A Loader fetches the document from a file, an fs.FS,
// or a URL; a Parser (backed by kin-openapi) extracts operations with their
// request schema trees; Definition maps an operation's request schema onto a
// flowform.Definition so deployments can drive their forms off the live API
// contract instead of the built-in catalog.
package openapi
