package agent

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

// Intent names one of the fixed charts a query can be routed to.
type Intent string

const (
	IntentAdverseEvents   Intent = "adverse_events"
	IntentEnrollmentTrend Intent = "enrollment_trend"
	IntentVitals          Intent = "vitals"
	IntentDemographics    Intent = "demographics"
)

// DefaultIntent answers any query no rule recognises.
const DefaultIntent = IntentDemographics

// Intents lists every routable intent.
func Intents() []Intent {
	return []Intent{IntentAdverseEvents, IntentEnrollmentTrend, IntentVitals, IntentDemographics}
}

func ParseIntent(s string) (Intent, error) {
	i := Intent(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Intents(), i) {
		return "", fmt.Errorf("unknown intent %q", s)
	}
	return i, nil
}

// Rule maps a lower-cased query to an intent when Match reports true.
type Rule struct {
	Name   string
	Match  func(query string) bool
	Intent Intent
}

// anyOf matches when the query contains at least one of the keywords.
func anyOf(keywords ...string) func(string) bool {
	return func(q string) bool {
		return slices.ContainsFunc(keywords, func(k string) bool { return strings.Contains(q, k) })
	}
}

// allOf matches when the query contains every keyword.
func allOf(keywords ...string) func(string) bool {
	return func(q string) bool {
		return !slices.ContainsFunc(keywords, func(k string) bool { return !strings.Contains(q, k) })
	}
}

// Rules is evaluated top to bottom and the first match wins. Keywords are
// plain substrings, so "bp" also matches inside longer words.
var Rules = []Rule{
	{Name: "adverse-events", Match: anyOf("adverse event", "severity"), Intent: IntentAdverseEvents},
	{Name: "enrollment", Match: anyOf("enrollment", "time", "progress"), Intent: IntentEnrollmentTrend},
	{Name: "vitals", Match: anyOf("blood pressure", "bp", "vitals"), Intent: IntentVitals},
	{Name: "demographics", Match: allOf("age", "gender"), Intent: IntentDemographics},
}

// Route picks the intent for query. matched is false when no rule applied and
// the default intent was chosen. Route never fails.
func Route(query string) (intent Intent, matched bool) {
	return RouteWith(Rules, query)
}

// RouteWith routes against a caller-supplied rule table.
func RouteWith(rules []Rule, query string) (Intent, bool) {
	q := strings.ToLower(query)
	for _, rule := range rules {
		if rule.Match(q) {
			return rule.Intent, true
		}
	}
	return DefaultIntent, false
}
