package services

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/latestcomment/courtroom-game/internal/models"
)

const (
	DefaultHumorousChance = 0.35
	fiveKeyPointChance    = 0.3
)

var typoFixes = strings.NewReplacer(
	"Yur", "Your", "yur", "your", "YUR", "YOUR",
	"Honr", "Honor", "honr", "honor", "HONR", "HONOR",
)

type CaseGenerator struct {
	Rand           RandomSource
	HumorousChance float64
}

func NewCaseGenerator(r RandomSource, humorousChance float64) *CaseGenerator {
	return &CaseGenerator{Rand: r, HumorousChance: humorousChance}
}

// Generate composes a fresh case. Draw order is fixed so a scripted
// RandomSource reproduces the same case.
func (g *CaseGenerator) Generate() models.Case {
	humorous := g.Rand.Float64() < g.HumorousChance
	set := seriousTokens
	if humorous {
		set = humorousTokens
	}

	subject := pick(g.Rand, set.subjects)
	caseType := pick(g.Rand, set.caseTypes)
	company := pick(g.Rand, set.companies)
	plaintiff := pick(g.Rand, set.plaintiffs)
	first, second := g.Rand.Intn(len(set.evidence)), g.Rand.Intn(len(set.evidence))
	evidence := set.evidence[first]
	if first != second {
		evidence = evidence + " and " + set.evidence[second]
	}

	fill := strings.NewReplacer(
		"{subject}", subject,
		"{caseType}", caseType,
		"{company}", company,
		"{plaintiff}", plaintiff,
		"{evidence}", evidence,
	)
	description := fill.Replace(pick(g.Rand, set.templates))

	count := 4
	if g.Rand.Float64() < fiveKeyPointChance {
		count = 5
	}

	starters := indexPool(len(keyPointStarters))
	topics := indexPool(len(set.keyPointTops))
	keyPoints := make([]string, 0, count)
	for len(keyPoints) < count {
		var s, t int
		starters, s = draw(g.Rand, starters)
		topics, t = draw(g.Rand, topics)
		point := keyPointStarters[s] + " " + fill.Replace(set.keyPointTops[t])
		keyPoints = append(keyPoints, typoFixes.Replace(point))
	}

	return models.Case{
		Id:          uuid.New(),
		Title:       "The " + caseType + " Case",
		Description: capitalizeFirst(typoFixes.Replace(description)),
		KeyPoints:   keyPoints,
		Humorous:    humorous,
	}
}

func pick(r RandomSource, items []string) string {
	return items[r.Intn(len(items))]
}

func indexPool(n int) []int {
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	return pool
}

// draw removes one index from pool, so no index is handed out twice.
func draw(r RandomSource, pool []int) ([]int, int) {
	i := r.Intn(len(pool))
	picked := pool[i]
	pool[i] = pool[len(pool)-1]
	return pool[:len(pool)-1], picked
}

func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
