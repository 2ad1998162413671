package patch

import (
	"encoding/json"
	"strings"
)

// Outcome is the result of evaluating a single rule.
type Outcome int

const (
	Applied Outcome = iota
	AlreadyApplied
	AnchorMissing
	Aborted
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case AlreadyApplied:
		return "already_applied"
	case AnchorMissing:
		return "anchor_missing"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the outcome by name.
func (o Outcome) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

// Marker is the console prefix printed before a result line.
func (o Outcome) Marker() string {
	switch o {
	case Applied:
		return "✅"
	case AlreadyApplied:
		return "⏭️ "
	case AnchorMissing:
		return "⚠️ "
	case Aborted:
		return "❌"
	default:
		return "?"
	}
}

// Result records what happened to one rule.
type Result struct {
	Rule    string  `json:"rule"`
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message"`
}

// Report is the outcome of applying a rule list.
type Report struct {
	Results []Result `json:"results"`
	// Aborted is set when an insertion guard stopped the run.
	Aborted bool `json:"aborted"`
	// Changed is set when the output differs from the input.
	Changed bool `json:"changed"`
}

// Count returns how many results have the given outcome.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Pending reports whether any rule applied, i.e. the input was not fully
// patched yet.
func (r *Report) Pending() bool {
	return r.Count(Applied) > 0
}

// Apply evaluates rules in order against content and returns the mutated
// content together with a per-rule report. Each rule sees the output of the
// rule before it. Apply performs no I/O.
func Apply(content string, rules []Rule) (string, Report) {
	original := content
	report := Report{Results: make([]Result, 0, len(rules))}

	for _, rule := range rules {
		var outcome Outcome
		content, outcome = applyOne(content, rule)
		report.Results = append(report.Results, Result{
			Rule:    rule.Name,
			Outcome: outcome,
			Message: rule.message(outcome),
		})
		if outcome == Aborted {
			report.Aborted = true
			return original, report
		}
	}

	report.Changed = content != original
	return content, report
}

func applyOne(content string, rule Rule) (string, Outcome) {
	switch rule.Kind {
	case KindInsertBeforeLast:
		if rule.guarded(content) {
			return content, Aborted
		}
		idx := strings.LastIndex(content, rule.Anchor)
		if rule.Anchor == "" || idx < 0 {
			return content, AnchorMissing
		}
		return content[:idx] + rule.Replacement + content[idx:], Applied

	default:
		if rule.Anchor != "" && strings.Contains(content, rule.Anchor) && !rule.guarded(content) {
			return strings.Replace(content, rule.Anchor, rule.Replacement, 1), Applied
		}
		if rule.alreadyApplied(content) {
			return content, AlreadyApplied
		}
		return content, AnchorMissing
	}
}
