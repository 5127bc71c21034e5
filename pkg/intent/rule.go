package intent

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/GF0201/CWKGQA/pkg/config"
)

// compiledRule is a rule from the config table with its regexes compiled.
// Immutable once built.
type compiledRule struct {
	ID       string
	Label    string
	Weight   float64
	Keywords []string
	Patterns []string
	Regexes  []*regexp.Regexp
}

// compileRules builds the matching set from the declarative rule table.
func compileRules(cfgRules []config.RuleConfig) ([]compiledRule, error) {
	rules := make([]compiledRule, 0, len(cfgRules))
	for _, rc := range cfgRules {
		r := compiledRule{
			ID:       rc.ID,
			Label:    rc.Label,
			Weight:   rc.Weight,
			Keywords: rc.Keywords,
			Patterns: rc.Patterns,
		}
		for _, expr := range rc.Regex {
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("rule %q: compile regex %q: %w", rc.ID, expr, err)
			}
			r.Regexes = append(r.Regexes, re)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// fires reports whether the rule matches the question. Keywords and patterns
// are substring tests, regexes are searched; the first hit wins so a rule
// contributes its weight at most once per question.
func (r *compiledRule) fires(question string) bool {
	for _, kw := range r.Keywords {
		if kw != "" && strings.Contains(question, kw) {
			return true
		}
	}
	for _, pat := range r.Patterns {
		if pat != "" && strings.Contains(question, pat) {
			return true
		}
	}
	for _, re := range r.Regexes {
		if re.MatchString(question) {
			return true
		}
	}
	return false
}
