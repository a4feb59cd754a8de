package internal

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Unknown is the sentinel for missing or unrecognised categorical values
const Unknown = "unknown"

// DefaultSourceIP fills missing source addresses
const DefaultSourceIP = "0.0.0.0"

// Canonical severities, lowest first
var SeverityLevels = []string{"info", "low", "medium", "high", "critical"}

// SeverityScores maps canonical severities to their ordinal score
var SeverityScores = map[string]int{
	"info":     0,
	"low":      1,
	"medium":   2,
	"high":     3,
	"critical": 4,
}

// Canonical statuses
var StatusValues = []string{"success", "failure"}

var severitySynonyms = map[string]string{
	"informational": "info",
	"information":   "info",
	"info":          "info",
	"debug":         "info",
	"notice":        "low",
	"low":           "low",
	"minor":         "low",
	"warn":          "medium",
	"warning":       "medium",
	"medium":        "medium",
	"med":           "medium",
	"moderate":      "medium",
	"high":          "high",
	"severe":        "high",
	"major":         "high",
	"error":         "high",
	"critical":      "critical",
	"crit":          "critical",
	"emergency":     "critical",
	"emerg":         "critical",
	"fatal":         "critical",
	"alert":         "critical",
	"unknown":       Unknown,
}

var statusSynonyms = map[string]string{
	"ok":           "success",
	"pass":         "success",
	"passed":       "success",
	"success":      "success",
	"successful":   "success",
	"succeeded":    "success",
	"allowed":      "success",
	"allow":        "success",
	"grant":        "success",
	"granted":      "success",
	"failure":      "failure",
	"fail":         "failure",
	"failed":       "failure",
	"error":        "failure",
	"denied":       "failure",
	"deny":         "failure",
	"blocked":      "failure",
	"block":        "failure",
	"rejected":     "failure",
	"unauthorized": "failure",
	"forbidden":    "failure",
	"unknown":      Unknown,
}

// Vocabulary canonicalizes one categorical column through a fixed synonym table
type Vocabulary struct {
	Column   string
	synonyms map[string]string
	keys     []string
}

// NewVocabulary creates a vocabulary from a synonym table
func NewVocabulary(column string, synonyms map[string]string) *Vocabulary {
	keys := make([]string, 0, len(synonyms))
	for k := range synonyms {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Vocabulary{Column: column, synonyms: synonyms, keys: keys}
}

// SeverityVocabulary returns the severity vocabulary
func SeverityVocabulary() *Vocabulary {
	return NewVocabulary(ColSeverity, severitySynonyms)
}

// StatusVocabulary returns the status vocabulary
func StatusVocabulary() *Vocabulary {
	return NewVocabulary(ColStatus, statusSynonyms)
}

// Synonyms returns the raw-token to canonical mapping, sorted by token
func (v *Vocabulary) Synonyms() [][2]string {
	out := make([][2]string, 0, len(v.keys))
	for _, k := range v.keys {
		out = append(out, [2]string{k, v.synonyms[k]})
	}
	return out
}

// Canonical maps a raw value to its canonical form.
// ok is false when the value is outside the vocabulary; corrected is true
// when a typo match was needed.
func (v *Vocabulary) Canonical(raw string) (value string, ok bool, corrected bool) {
	token := NormalizeText(raw)
	if token == "" {
		return Unknown, true, false
	}
	if c, found := v.synonyms[token]; found {
		return c, true, false
	}
	if c, found := v.fuzzyMatch(token); found {
		return c, true, true
	}
	return token, false, false
}

// fuzzyMatch tolerates small typos such as "critcal" or "warnig"
func (v *Vocabulary) fuzzyMatch(token string) (string, bool) {
	n := utf8.RuneCountInString(token)
	if n < 4 {
		return "", false
	}
	var best []fuzzy.Match
	for _, m := range fuzzy.Find(token, v.keys) {
		if utf8.RuneCountInString(m.Str)-n > 2 {
			continue
		}
		if len(best) > 0 && m.Score < best[0].Score {
			break
		}
		best = append(best, m)
	}
	if len(best) == 0 {
		return "", false
	}
	canonical := v.synonyms[best[0].Str]
	for _, m := range best[1:] {
		if v.synonyms[m.Str] != canonical {
			return "", false
		}
	}
	return canonical, true
}

var (
	separatorRun = regexp.MustCompile(`[\s\-]+`)
	underscores  = regexp.MustCompile(`_+`)
)

// NormalizeText folds case, trims, and collapses whitespace and dashes to underscores
func NormalizeText(s string) string {
	s = norm.NFKC.String(s)
	s = cases.Fold().String(strings.TrimSpace(s))
	s = separatorRun.ReplaceAllString(s, "_")
	return underscores.ReplaceAllString(s, "_")
}
