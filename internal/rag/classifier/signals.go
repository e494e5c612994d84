package classifier

// Signal vocabularies are plain data so new tokens can be added without
// touching the classification flow. Keys name the signal group that fired,
// values are matched tokens: single words against the query's word set,
// multi-word phrases as substrings of the lowered query.

var DefaultMetadataSignals = map[string][]string{
	"file-type": {
		"file", "files", "pdf", "pdfs", "docx", "doc",
	},
	"document-type": {
		"invoice", "invoices", "receipt", "receipts",
		"contract", "contracts", "agreement", "agreements",
		"report", "reports", "presentation", "presentations",
		"memo", "memos", "letter", "letters", "email", "emails",
		"manual", "manuals", "guide", "guides", "tutorial", "tutorials",
		"article", "articles", "whitepaper", "whitepapers",
		"specification", "specifications", "proposal", "proposals",
		"resume", "resumes", "cv", "form", "forms",
	},
	"attribution": {
		"author", "authored by", "written by", "created by",
	},
	"enumeration": {
		"list", "show me", "find all", "get all", "display", "filter",
	},
	"counting": {
		"how many", "total", "count", "statistics", "stats",
	},
}

var DefaultContentSignals = map[string][]string{
	"interrogative": {
		"what", "how", "why", "when", "where", "which", "who",
	},
	"explanation": {
		"explain", "describe", "define", "summarize", "tell me",
		"clarify", "elaborate",
	},
	"reference": {
		"says", "mentions", "discusses", "covers", "regarding", "concerning",
	},
	"meaning": {
		"mean", "meaning", "understand", "interpretation",
	},
}
