package metadata

import "strings"

// DefaultDocumentType is assigned when classification fails or the model
// answers outside the vocabulary.
const DefaultDocumentType = "other"

// DocumentTypes is the closed classification vocabulary. Model output that
// does not land here is mapped to "other".
var DocumentTypes = []string{
	"invoice",
	"receipt",
	"contract",
	"agreement",
	"research_paper",
	"academic_paper",
	"report",
	"presentation",
	"memo",
	"letter",
	"email",
	"notes",
	"manual",
	"guide",
	"tutorial",
	"article",
	"blog_post",
	"whitepaper",
	"specification",
	"proposal",
	"resume",
	"cv",
	"form",
	"application",
	DefaultDocumentType,
}

var documentTypeSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(DocumentTypes))
	for _, t := range DocumentTypes {
		set[t] = struct{}{}
	}
	return set
}()

// NormalizeDocumentType maps raw model output onto the closed vocabulary.
func NormalizeDocumentType(raw string) string {
	docType := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), " ", "_")
	if _, ok := documentTypeSet[docType]; ok {
		return docType
	}

	//the model sometimes answers "a report" or "report."
	for _, known := range DocumentTypes {
		if known == DefaultDocumentType {
			continue
		}
		if strings.Contains(docType, known) {
			return known
		}
	}
	return DefaultDocumentType
}

// IsKnownDocumentType reports whether a value is inside the vocabulary.
func IsKnownDocumentType(docType string) bool {
	_, ok := documentTypeSet[strings.ToLower(docType)]
	return ok
}
