package analysis

import (
	"strings"

	"github.com/ginjaninja78/eco-consumption-analyzer/internal/config"
)

// =============================================================================
// ECO CLASSIFICATION
// =============================================================================

// Classifier flags rows whose item name contains a green keyword.
// Keywords are compared verbatim against the lower-cased item name.
type Classifier struct {
	keywords []string
}

// NewClassifier creates a classifier over the given green keywords.
func NewClassifier(keywords []string) Classifier {
	return Classifier{keywords: keywords}
}

// IsEco reports whether name contains any green keyword.
func (c Classifier) IsEco(name string) bool {
	_, ok := c.match(name)
	return ok
}

// match returns the first green keyword, in declared order, contained in name.
func (c Classifier) match(name string) (string, bool) {
	for _, kw := range c.keywords {
		if kw != "" && strings.Contains(name, kw) {
			return kw, true
		}
	}
	return "", false
}

// Classify sets IsEco on every row.
func (c Classifier) Classify(rows []TransactionRow) {
	for i := range rows {
		rows[i].IsEco = c.IsEco(rows[i].ItemName)
	}
}

// =============================================================================
// KEYWORD COEFFICIENT RESOLUTION
// =============================================================================

// ResolveKeyword finds the coefficient that applies to name when it contains
// one or more keywords of table.
//
// PARAMETERS:
//   - name: The lower-cased item name.
//   - table: The keyword table, in declared order.
//   - policy: How to choose among several matching keywords.
//
// RETURNS:
//   - The applicable entry.
//   - false if no keyword of the table is contained in name.
func ResolveKeyword(name string, table []config.KeywordCoefficient, policy config.MatchPolicy) (config.KeywordCoefficient, bool) {
	var best config.KeywordCoefficient
	found := false

	for _, entry := range table {
		if entry.Keyword == "" || !strings.Contains(name, entry.Keyword) {
			continue
		}

		switch policy {
		case config.MatchFirst:
			return entry, true
		case config.MatchMax:
			if !found || entry.KgPerUnit > best.KgPerUnit {
				best = entry
			}
		default:
			best = entry
		}
		found = true
	}

	return best, found
}
