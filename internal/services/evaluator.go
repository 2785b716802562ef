package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/latestcomment/courtroom-game/internal/models"
)

const (
	minArgumentChars  = 20
	minArgumentWords  = 5
	lowQualityChecks  = 4
	keyPointPrefixLen = 5
)

// Checklist predicate names, in evaluation order.
const (
	CheckNoLegalVocabulary   = "no_legal_vocabulary"
	CheckTooShort            = "too_short"
	CheckCallsIrrelevant     = "calls_irrelevant"
	CheckInsulting           = "insulting"
	CheckJudgeNegative       = "judge_negative"
	CheckNoYourHonor         = "no_your_honor"
	CheckTooFewWords         = "too_few_words"
	CheckNoKeyPoint          = "no_key_point"
	CheckUnsupportedAbsolute = "unsupported_absolute"
	CheckEmotionalAppeal     = "emotional_appeal"
)

var (
	legalVocabulary = wordPattern(
		"evidence", "witness", "witnesses", "exhibit", "testimony", "alibi", "objection",
		"court", "law", "legal", "statute", "precedent", "client", "defendant", "plaintiff",
		"prosecution", "contract", "liability", "record", "records", "proof", "motion", "jury",
		"verdict", "burden", "reasonable doubt", "hearsay", "section", "counsel", "custody",
		"warrant", "permit", "alleged", "innocent",
	)
	authorityVocabulary = wordPattern(
		"precedent", "statute", "case law", "pursuant", "regulation", "exhibit", "section",
	)
	evidentiaryVocabulary = wordPattern(
		"evidence", "exhibit", "record", "records", "testimony", "document", "documents",
		"footage", "proof", "data", "report", "logs", "receipt", "receipts",
	)
	absoluteVocabulary  = wordPattern("obviously", "clearly", "definitely", "undoubtedly")
	emotionalVocabulary = wordPattern(
		"feel", "feelings", "heart", "sad", "tragic", "tragedy", "cruel", "poor", "suffer",
		"suffering", "tears", "beg", "pity", "sympathy", "devastated", "heartbroken",
	)
	insultVocabulary = wordPattern(
		"idiot", "stupid", "moron", "dumb", "shut up", "damn", "hell", "crap", "liar",
		"fool", "loser", "jerk",
	)
	irrelevantWord     = regexp.MustCompile(`(?i)\birrelevant\b`)
	negatedIrrelevant  = regexp.MustCompile(`(?i)\b(?:not|isn't|isnt|never|hardly)\s+irrelevant\b`)
	citationPattern    = regexp.MustCompile(`(?i)\bexhibit\s+[a-z0-9]+\b|\bsection\s+\d+|§\s*\d+|\b[a-z]+\s+v\.\s+[a-z]+|\bprecedent\b`)
	judgeNegativeTerms = []string{"irrelevant", "inappropriate", "insufficient", "lacks foundation"}

	// Words that appear in most key points and reference nothing in particular.
	keyPointStopWords = map[string]bool{
		"there": true, "their": true, "about": true, "which": true, "would": true,
		"could": true, "should": true, "these": true, "those": true, "after": true,
		"before": true, "during": true, "client": true, "other": true, "being": true,
		"where": true, "while": true, "never": true, "claim": true, "people": true,
	}
)

func wordPattern(words ...string) *regexp.Regexp {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// Evaluation is the outcome of the argument quality checklist.
type Evaluation struct {
	Failed     []string `json:"failed"`
	LowQuality bool     `json:"lowQuality"`

	HasLegalVocabulary bool `json:"hasLegalVocabulary"`
	HasYourHonor       bool `json:"hasYourHonor"`
	ReferencesKeyPoint bool `json:"referencesKeyPoint"`
	CitesAuthority     bool `json:"citesAuthority"`
}

// Evaluate runs the checklist over the player's argument and the judge's reply.
// It is deterministic in its inputs.
func Evaluate(playerText, judgeReply string, c models.Case) Evaluation {
	text := strings.TrimSpace(playerText)
	lower := strings.ToLower(text)
	judge := strings.ToLower(judgeReply)

	ev := Evaluation{
		HasLegalVocabulary: legalVocabulary.MatchString(text),
		HasYourHonor:       strings.Contains(lower, "your honor") || strings.Contains(lower, "your honour"),
		ReferencesKeyPoint: ReferencesKeyPoint(text, c),
		CitesAuthority:     citationPattern.MatchString(text),
	}
	hasAuthority := ev.CitesAuthority || authorityVocabulary.MatchString(text)

	checks := []struct {
		name   string
		failed bool
	}{
		{CheckNoLegalVocabulary, !ev.HasLegalVocabulary},
		{CheckTooShort, utf8.RuneCountInString(text) < minArgumentChars},
		{CheckCallsIrrelevant, callsIrrelevant(text)},
		{CheckInsulting, insultVocabulary.MatchString(text)},
		{CheckJudgeNegative, containsAny(judge, judgeNegativeTerms)},
		{CheckNoYourHonor, !ev.HasYourHonor},
		{CheckTooFewWords, len(strings.Fields(text)) < minArgumentWords},
		{CheckNoKeyPoint, !ev.ReferencesKeyPoint},
		{CheckUnsupportedAbsolute, absoluteVocabulary.MatchString(text) && !hasAuthority},
		{CheckEmotionalAppeal, emotionalVocabulary.MatchString(text) && !evidentiaryVocabulary.MatchString(text)},
	}
	for _, check := range checks {
		if check.failed {
			ev.Failed = append(ev.Failed, check.name)
		}
	}
	ev.LowQuality = len(ev.Failed) >= lowQualityChecks
	return ev
}

func callsIrrelevant(text string) bool {
	return len(irrelevantWord.FindAllStringIndex(text, -1)) > len(negatedIrrelevant.FindAllStringIndex(text, -1))
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// ReferencesKeyPoint reports whether text mentions any key point of the case.
// A key point is matched by the short prefix of one of its significant words,
// so "alibi" or "cameras" in any inflection counts.
func ReferencesKeyPoint(text string, c models.Case) bool {
	lower := strings.ToLower(text)
	for _, point := range c.KeyPoints {
		for _, prefix := range keyPointPrefixes(point) {
			if strings.Contains(lower, prefix) {
				return true
			}
		}
	}
	return false
}

func keyPointPrefixes(point string) []string {
	point = stripStarter(point)
	words := strings.FieldsFunc(strings.ToLower(point), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	var prefixes []string
	for _, w := range words {
		if utf8.RuneCountInString(w) < keyPointPrefixLen || keyPointStopWords[w] {
			continue
		}
		prefixes = append(prefixes, string([]rune(w)[:keyPointPrefixLen]))
	}
	return prefixes
}

// stripStarter drops the generated lead-in so that only the topic is matched.
func stripStarter(point string) string {
	for _, s := range keyPointStarters {
		s = typoFixes.Replace(s)
		if strings.HasPrefix(point, s) {
			return point[len(s):]
		}
	}
	return point
}
