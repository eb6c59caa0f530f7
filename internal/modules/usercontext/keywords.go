package usercontext

import (
	"sort"
	"strings"
	"unicode"
)

var stopwords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`a about after again all also am an and any are as at be because been
	before being but by can could did do does doing down during each few for from further get got had has
	have having he her here hers him his how i if in into is it its itself just like me more most my
	myself no nor not now of off on once only or other our out over own really same she should so some
	still such than that the their them then there these they this those through to today too under
	until up very was we went were what when where which while who why will with would yesterday you
	your tomorrow feel felt day bit lot thing things going went gonna`) {
		stopwords[w] = true
	}
}

// Keywords returns the n most frequent content words across texts; ties sort alphabetically.
func Keywords(texts []string, n int) []string {
	if n <= 0 {
		return []string{}
	}
	counts := map[string]int{}
	for _, t := range texts {
		for _, tok := range strings.FieldsFunc(strings.ToLower(t), func(r rune) bool {
			return !unicode.IsLetter(r) && r != '\''
		}) {
			tok = strings.Trim(tok, "'")
			if len([]rune(tok)) < 3 || stopwords[tok] {
				continue
			}
			counts[tok]++
		}
	}
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > n {
		words = words[:n]
	}
	return words
}

func snippet(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if max <= 0 || len(r) <= max {
		return s
	}
	return strings.TrimSpace(string(r[:max])) + "…"
}
