// Package autotag classifies template content into topical tags by keyword
// matching. Tagging happens once, at template creation, and is a pure function
// of the keyword table and the input text.
package autotag

import "strings"

// rule associates a tag with the substrings that trigger it.
type rule struct {
	tag      string
	keywords []string
}

// Table order determines tag output order. A tag applies when any of its
// keywords appears as a substring of the lowercased content.
var rules = []rule{
	{"programming", []string{"code", "program", "function", "class", "api", "bug", "debug", "algorithm", "develop"}},
	{"writing", []string{"article", "write", "writing", "copy", "content", "edit", "polish", "paragraph", "headline"}},
	{"translation", []string{"translate", "translation", "english", "chinese", "language", "convert"}},
	{"qa", []string{"answer", "question", "explain", "clarify", "what", "how", "why"}},
	{"summarization", []string{"summarize", "summary", "abstract", "condense", "key points", "takeaway", "distill"}},
	{"brainstorming", []string{"idea", "ideas", "suggestion", "proposal", "brainstorm", "creative", "innovate"}},
	{"data-analysis", []string{"analyze", "analysis", "data", "statistics", "chart", "report", "excel", "sql"}},
}

// Tags returns the topical tags matching content, in table order. A text may
// receive several tags or none.
func Tags(content string) []string {
	lower := strings.ToLower(content)

	var tags []string
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				tags = append(tags, r.tag)
				break
			}
		}
	}
	return tags
}
