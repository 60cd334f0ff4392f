package classify

import "context"

// Metadata maps a category name to field names to the ordered text spans
// matched for that field. It is populated once per document during
// extraction and treated as read-only by the scoring engine.
type Metadata map[string]map[string][]string

// Metadata categories.
const (
	CategoryGeneral     = "general"
	CategoryProcurement = "procurement"
	CategoryHR          = "hr"
	CategoryLegal       = "legal"
)

// Entity fields populated under the general category.
const (
	EntityPerson       = "person"
	EntityOrganization = "organization"
	EntityDate         = "date"
	EntityAmount       = "amount"
	EntityLocation     = "location"
)

// Pattern labels recognized by extractors. Rules reference these labels
// when counting pattern matches.
const (
	PatternTenderID       = "tender_id"
	PatternPurchaseOrder  = "purchase_order"
	PatternContractID     = "contract_id"
	PatternAdvertisementN = "recruitment_advertisement"
	PatternJobTitle       = "job_title"
	PatternGradePay       = "grade_pay"
	PatternCaseNumber     = "case_number"
	PatternCourtName      = "court_name"
	PatternLawSection     = "law_section"
)

var entityFields = []string{
	EntityPerson,
	EntityOrganization,
	EntityDate,
	EntityAmount,
	EntityLocation,
}

var patternCategories = map[string]string{
	PatternTenderID:       CategoryProcurement,
	PatternPurchaseOrder:  CategoryProcurement,
	PatternContractID:     CategoryProcurement,
	PatternAdvertisementN: CategoryHR,
	PatternJobTitle:       CategoryHR,
	PatternGradePay:       CategoryHR,
	PatternCaseNumber:     CategoryLegal,
	PatternCourtName:      CategoryLegal,
	PatternLawSection:     CategoryLegal,
}

// NewMetadata builds a metadata skeleton with every known category and
// field present so that callers always observe a stable shape, even
// when nothing matched.
func NewMetadata() Metadata {
	m := Metadata{
		CategoryGeneral:     make(map[string][]string, len(entityFields)),
		CategoryProcurement: make(map[string][]string),
		CategoryHR:          make(map[string][]string),
		CategoryLegal:       make(map[string][]string),
	}

	for _, field := range entityFields {
		m[CategoryGeneral][field] = make([]string, 0)
	}

	for label, category := range patternCategories {
		m[category][label] = make([]string, 0)
	}

	return m
}

// AddEntities merges extracted entities into the general category.
// Unknown entity fields are ignored.
func (m Metadata) AddEntities(entities map[string][]string) {
	for field, spans := range entities {
		if _, ok := m[CategoryGeneral][field]; !ok {
			continue
		}
		m[CategoryGeneral][field] = append(m[CategoryGeneral][field], spans...)
	}
}

// AddPatterns merges extracted pattern matches into their owning
// categories. Unknown labels are ignored.
func (m Metadata) AddPatterns(patterns map[string][]string) {
	for label, spans := range patterns {
		category, ok := patternCategories[label]
		if !ok {
			continue
		}
		m[category][label] = append(m[category][label], spans...)
	}
}

// PatternCount returns the number of spans matched for a pattern label.
func (m Metadata) PatternCount(label string) int {
	category, ok := patternCategories[label]
	if !ok {
		return 0
	}
	return len(m[category][label])
}

// Extractor produces named entities and lexical pattern matches from raw
// document text. Implementations must be deterministic for identical
// input and safe for concurrent use.
type Extractor interface {
	ExtractEntities(ctx context.Context, text string) (map[string][]string, error)
	ExtractPatterns(ctx context.Context, text string) (map[string][]string, error)
}
