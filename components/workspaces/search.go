package workspaces

import (
	"sort"
	"strings"

	"github.com/goliatone/go-kbadmin/pkg/kb"
)

// Option is one selectable workspace in the handler's JSON payload.
type Option struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Count       int    `json:"count"`
	Ready       bool   `json:"ready"`
}

// Search filters summaries by a case-insensitive substring match on the
// workspace name, sorting prefix matches ahead of the rest. An empty query
// returns the top of the list or nothing depending on EmptySearchMode. The
// source argument keeps only summaries with a matching Source when set.
func Search(summaries []kb.WorkspaceSummary, query, source string, limit int, opts Options) []kb.WorkspaceSummary {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	summaries = filterBySource(summaries, source)

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode == EmptySearchTop {
			if len(summaries) <= limit {
				return append([]kb.WorkspaceSummary{}, summaries...)
			}
			return append([]kb.WorkspaceSummary{}, summaries[:limit]...)
		}
		return nil
	}

	q := strings.ToLower(query)
	matches := make([]matchedWorkspace, 0, 32)
	for _, summary := range summaries {
		lowerName := strings.ToLower(summary.Name)
		if !strings.Contains(lowerName, q) {
			continue
		}
		matches = append(matches, matchedWorkspace{
			summary:  summary,
			isPrefix: strings.HasPrefix(lowerName, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].summary.Name < matches[j].summary.Name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]kb.WorkspaceSummary, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.summary)
	}
	return out
}

// SearchOptions runs Search and maps the results onto the JSON option shape.
func SearchOptions(summaries []kb.WorkspaceSummary, query, source string, limit int, opts Options) []Option {
	results := Search(summaries, query, source, limit, opts)
	if len(results) == 0 {
		return nil
	}

	out := make([]Option, 0, len(results))
	for _, summary := range results {
		out = append(out, Option{
			Value:       summary.ID,
			Label:       summary.Name,
			Description: summary.Description,
			Count:       summary.DocumentCount,
			Ready:       summary.Ready,
		})
	}
	return out
}

func filterBySource(summaries []kb.WorkspaceSummary, source string) []kb.WorkspaceSummary {
	source = strings.TrimSpace(source)
	if source == "" {
		return summaries
	}
	out := make([]kb.WorkspaceSummary, 0, len(summaries))
	for _, summary := range summaries {
		if summary.Source == source {
			out = append(out, summary)
		}
	}
	return out
}

type matchedWorkspace struct {
	summary  kb.WorkspaceSummary
	isPrefix bool
}
