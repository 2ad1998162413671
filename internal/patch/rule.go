// Package patch applies guarded literal text substitutions to a single
// target file.
//
// A run reads the whole file, evaluates an ordered list of rules against the
// progressively mutated content, and writes the result back. Every rule
// carries a guard so that running the same rule list twice leaves the file
// unchanged on the second pass.
package patch

import "strings"

// Kind selects how a rule mutates the content once it is eligible.
type Kind int

const (
	// KindReplace replaces the first occurrence of Anchor with Replacement.
	KindReplace Kind = iota
	// KindInsertBeforeLast inserts Replacement immediately before the last
	// occurrence of Anchor. A present Guard aborts the whole run.
	KindInsertBeforeLast
)

func (k Kind) String() string {
	switch k {
	case KindReplace:
		return "replace"
	case KindInsertBeforeLast:
		return "insert-before-last"
	default:
		return "unknown"
	}
}

// Rule is one guarded substitution.
type Rule struct {
	// Name identifies the rule in reports (e.g. "Log 1").
	Name string

	Kind Kind

	// Anchor is the literal text the rule looks for.
	Anchor string

	// Guard is literal text whose presence means the rule already ran.
	// Empty means the rule relies on Anchor disappearing once replaced.
	Guard string

	// Replacement substitutes Anchor (KindReplace) or is inserted before it
	// (KindInsertBeforeLast).
	Replacement string

	// Operator-facing messages. Empty values fall back to generic text.
	AppliedMsg string
	SkippedMsg string
	MissingMsg string
	AbortMsg   string
}

// guarded reports whether the rule's guard text is already in content.
func (r Rule) guarded(content string) bool {
	return r.Guard != "" && strings.Contains(content, r.Guard)
}

// alreadyApplied distinguishes "ran before" from "anchor never existed" for a
// rule that did not fire.
func (r Rule) alreadyApplied(content string) bool {
	if r.Guard != "" {
		return strings.Contains(content, r.Guard)
	}
	return r.Replacement != "" && strings.Contains(content, r.Replacement)
}

func (r Rule) message(o Outcome) string {
	var msg string
	switch o {
	case Applied:
		msg = r.AppliedMsg
	case AlreadyApplied:
		msg = r.SkippedMsg
	case AnchorMissing:
		msg = r.MissingMsg
	case Aborted:
		msg = r.AbortMsg
	}
	if msg != "" {
		return msg
	}
	switch o {
	case Applied:
		return r.Name + " applied"
	case AlreadyApplied:
		return r.Name + " already applied"
	case AnchorMissing:
		return r.Name + ": anchor not found"
	case Aborted:
		return r.Name + ": guard already present, nothing written"
	}
	return r.Name
}
