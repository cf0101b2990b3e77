// Package workspaces provides a small net/http handler that serves
// knowledge-base workspaces as JSON options for form inputs, typically the
// workspace picker on an ingestion page.
//
// The handler responds to GET and HEAD requests and supports query, limit,
// and source parameters to filter results. Summaries come from a Lister
// (usually the kb client) or from a static list supplied via options.
package workspaces
