// Package rulesets holds the fixed patch rule sets maintained for the
// Foundry VTT combat AI integration script.
package rulesets

import (
	_ "embed"
	"fmt"
	"sort"

	"github.com/questionwho42-jpg/foundry-ia/internal/patch"
)

// DefaultTarget is the integration script every rule set patches, relative
// to the project root.
const DefaultTarget = "scripts/gemini-api.mjs"

// MethodName is the method appended by the add-method rule set.
const MethodName = "decideNPCAction"

//go:embed decide_npc_action.mjs
var decideNPCActionBody string

// Set is a named, ordered list of rules with its console texts.
type Set struct {
	Name        string
	Description string
	Target      string

	// Summary is printed once the run completes and the file is written.
	Summary string
	// NextSteps are extra operator hints printed after the summary.
	NextSteps []string

	Rules func() []patch.Rule
}

// DebugLogs inserts three console.log statements into decideNPCAction: at
// method entry, before the Gemini call and after the response arrives.
func DebugLogs() []patch.Rule {
	return []patch.Rule{
		{
			Name:        "Log 1",
			Anchor:      "async decideNPCAction(npcTokenDoc, combatState) {\n    const npc = npcTokenDoc.actor;",
			Guard:       "console.log('Combat AI | 🎯",
			Replacement: "async decideNPCAction(npcTokenDoc, combatState) {\n    console.log('Combat AI | 🎯 decideNPCAction chamado para:', npcTokenDoc.name);\n    const npc = npcTokenDoc.actor;",
			AppliedMsg:  "Log 1 added (method entry)",
			SkippedMsg:  "Log 1 already present",
			MissingMsg:  "Log 1: decideNPCAction entry not found",
		},
		{
			Name:        "Log 2",
			Anchor:      "const response = await this.chat(prompt, {",
			Guard:       "console.log('Combat AI | 🤖",
			Replacement: "console.log('Combat AI | 🤖 Enviando prompt para Gemini...', prompt.substring(0, 200));\n    const response = await this.chat(prompt, {",
			AppliedMsg:  "Log 2 added (before API call)",
			SkippedMsg:  "Log 2 already present",
			MissingMsg:  "Log 2: chat call not found",
		},
		{
			Name:        "Log 3",
			Anchor:      "try {\n      // Limpar resposta",
			Guard:       "console.log('Combat AI | ✅ Resposta",
			Replacement: "console.log('Combat AI | ✅ Resposta recebida do Gemini:', response.substring(0, 200));\n    try {\n      // Limpar resposta",
			AppliedMsg:  "Log 3 added (response received)",
			SkippedMsg:  "Log 3 already present",
			MissingMsg:  "Log 3: response parsing block not found",
		},
	}
}

// AddMethod appends decideNPCAction before the closing brace of the class.
// The rule aborts the run when the method name already appears anywhere.
func AddMethod() []patch.Rule {
	return []patch.Rule{
		{
			Name:        MethodName,
			Kind:        patch.KindInsertBeforeLast,
			Anchor:      "}",
			Guard:       MethodName,
			Replacement: "\n" + decideNPCActionBody + "\n",
			AppliedMsg:  "Method decideNPCAction added successfully!",
			MissingMsg:  "No closing brace found, method not added",
			AbortMsg:    "Method decideNPCAction already exists!",
		},
	}
}

// CombatFix raises the response token limit of the tactical prompt and reads
// NPC attacks from itemTypes.melee instead of system.actions.
func CombatFix() []patch.Rule {
	return []patch.Rule{
		{
			Name:        "Fix 1",
			Anchor:      "maxTokens: 2048,",
			Replacement: "maxTokens: 5000,",
			AppliedMsg:  "Fix 1: maxTokens raised from 2048 to 5000",
			SkippedMsg:  "Fix 1: maxTokens already at 5000",
			MissingMsg:  "Fix 1: maxTokens: 2048 not found",
		},
		{
			Name:        "Fix 2",
			Anchor:      "npc.system.actions?.map(a => `- ${a.name}`).join('\\n') || '- Ataque básico'",
			Replacement: "npc.itemTypes.melee?.map(m => `- ${m.name} (+${m.system?.bonus?.value || 0})`).join('\\n') || '- Ataque básico'",
			AppliedMsg:  "Fix 2: NPC action lookup fixed (system.actions → itemTypes.melee)",
			SkippedMsg:  "Fix 2: NPC actions already fixed",
			MissingMsg:  "Fix 2: action lookup pattern not found",
		},
	}
}

var registry = map[string]Set{
	"debug-logs": {
		Name:        "debug-logs",
		Description: "Add debug console.log calls to decideNPCAction",
		Target:      DefaultTarget,
		Summary:     "Debug logs added successfully!",
		Rules:       DebugLogs,
	},
	"add-method": {
		Name:        "add-method",
		Description: "Append the decideNPCAction method to the Gemini client",
		Target:      DefaultTarget,
		Rules:       AddMethod,
	},
	"combat-fix": {
		Name:        "combat-fix",
		Description: "Raise maxTokens and fix NPC melee action lookup",
		Target:      DefaultTarget,
		Summary:     "Fixes applied successfully!",
		NextSteps: []string{
			`1. Run: .\deploy-to-foundry.ps1`,
			"2. Reload Foundry (Ctrl+Shift+R)",
			"3. Test the Apprentice's turn again",
		},
		Rules: CombatFix,
	},
}

// Lookup returns the named set.
func Lookup(name string) (Set, error) {
	s, ok := registry[name]
	if !ok {
		return Set{}, fmt.Errorf("unknown rule set %q", name)
	}
	return s, nil
}

// All returns every set sorted by name.
func All() []Set {
	sets := make([]Set, 0, len(registry))
	for _, s := range registry {
		sets = append(sets, s)
	}
	sort.Slice(sets, func(i, j int) bool { return sets[i].Name < sets[j].Name })
	return sets
}
