package classifier

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/akolanti/intellifile/internal/domain/docmodel"
	"github.com/akolanti/intellifile/internal/domain/searchmodel"
)

var (
	yearRegex     = regexp.MustCompile(`\b(20\d{2})\b`)
	quarterRegex  = regexp.MustCompile(`(?i)\b(q[1-4]|quarter [1-4])\b`)
	relativeRegex = regexp.MustCompile(`(?i)\b(last|this|next)\s+(year|month|week|quarter)\b`)
	monthRegex    = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december)\b`)
	//capitalized name after an attribution preposition, "by John Doe"
	authorRegex   = regexp.MustCompile(`\b(?:by|from)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)\b`)
	fileTypeRegex = regexp.MustCompile(`(?i)\b(pdf|docx|doc)\b`)
)

// QueryClassifier routes a query to metadata search, content search or both.
// It is a stateless keyword heuristic, not a trained model.
type QueryClassifier struct {
	metadataSignals map[string][]string
	contentSignals  map[string][]string
}

func New() *QueryClassifier {
	return &QueryClassifier{
		metadataSignals: DefaultMetadataSignals,
		contentSignals:  DefaultContentSignals,
	}
}

// NewWithSignals builds a classifier over caller-supplied vocabularies,
// the extensibility seam for new domains.
func NewWithSignals(metadataSignals, contentSignals map[string][]string) *QueryClassifier {
	return &QueryClassifier{metadataSignals: metadataSignals, contentSignals: contentSignals}
}

// Classify is pure and order independent: both signal sets are always
// evaluated against the whole query.
func (c *QueryClassifier) Classify(query string) searchmodel.Classification {
	lowered := strings.ToLower(query)
	words := wordSet(lowered)

	metadataMatches := matchSignals(c.metadataSignals, lowered, words)
	metadataMatches = append(metadataMatches, temporalSignals(query)...)
	if authorRegex.MatchString(query) {
		metadataMatches = append(metadataMatches, "attribution:by-name")
	}
	contentMatches := matchSignals(c.contentSignals, lowered, words)

	sort.Strings(metadataMatches)
	sort.Strings(contentMatches)

	result := searchmodel.Classification{
		Query:           query,
		MetadataSignals: metadataMatches,
		ContentSignals:  contentMatches,
		Filters:         ExtractFilters(query),
	}

	switch {
	case len(metadataMatches) > 0 && len(contentMatches) > 0:
		result.Type = searchmodel.QueryHybrid
	case len(metadataMatches) > 0:
		result.Type = searchmodel.QueryMetadata
	default:
		//plain questions with no markers are the common case
		result.Type = searchmodel.QueryContent
	}
	return result
}

// ExtractFilters pulls concrete filter values out of the query text so the
// retriever can narrow the metadata predicate.
func ExtractFilters(query string) searchmodel.Filters {
	var filters searchmodel.Filters

	if m := fileTypeRegex.FindString(query); m != "" {
		filters.FileType = docmodel.DocType(strings.ToLower(m))
	}

	if m := authorRegex.FindStringSubmatch(query); len(m) > 1 {
		filters.Author = m[1]
	}

	if m := yearRegex.FindString(query); m != "" {
		if year, err := strconv.Atoi(m); err == nil {
			filters.CreatedAfter = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
			filters.CreatedBefore = time.Date(year+1, time.January, 1, 0, 0, 0, 0, time.UTC)
		}
	}

	return filters
}

func matchSignals(signals map[string][]string, lowered string, words map[string]struct{}) []string {
	var matches []string
	for group, tokens := range signals {
		for _, token := range tokens {
			if containsToken(lowered, words, token) {
				matches = append(matches, group+":"+token)
			}
		}
	}
	return matches
}

// containsToken matches single words exactly against the query's word set so
// short tokens like "cv" cannot fire inside unrelated words, phrases match
// as substrings.
func containsToken(lowered string, words map[string]struct{}, token string) bool {
	if strings.ContainsRune(token, ' ') {
		return strings.Contains(lowered, token)
	}
	_, ok := words[token]
	return ok
}

func temporalSignals(query string) []string {
	var matches []string
	if m := yearRegex.FindString(query); m != "" {
		matches = append(matches, "temporal:"+m)
	}
	if m := quarterRegex.FindString(query); m != "" {
		matches = append(matches, "temporal:"+strings.ToLower(m))
	}
	if m := relativeRegex.FindString(query); m != "" {
		matches = append(matches, "temporal:"+strings.ToLower(m))
	}
	if m := monthRegex.FindString(query); m != "" {
		matches = append(matches, "temporal:"+strings.ToLower(m))
	}
	return matches
}

func wordSet(lowered string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(lowered, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		words[w] = struct{}{}
	}
	return words
}
