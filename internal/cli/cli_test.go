package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// ---------------------------------------------------------------------------
// Test infrastructure
// ---------------------------------------------------------------------------

const clientSource = `export class GeminiAPI {
    async chat(message, options = {}) {
        const { maxTokens = 2048 } = options;
    }
}
`

func init() {
	configureColor(true)
}

// isolateEnv keeps the developer's config and env out of the tests.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PATCHKIT_CONFIG", filepath.Join(t.TempDir(), "none.json"))
	for _, k := range []string{"PATCHKIT_DEBUG", "PATCHKIT_BACKUP", "PATCHKIT_TARGET", "PATCHKIT_LOG_DIR", "PATCHKIT_LOG_JSON"} {
		t.Setenv(k, "")
	}
}

func writeClient(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gemini-api.mjs")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// executeCmd runs the root command with the given args, capturing stdout.
// Returns the captured output and any error from Execute().
func executeCmd(root *cobra.Command, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// ---------------------------------------------------------------------------
// Standalone scripts
// ---------------------------------------------------------------------------

func TestRunScript_AddMethodThenLogs(t *testing.T) {
	path := writeClient(t, clientSource)

	var out bytes.Buffer
	if code := runScript(&out, "add-method", path); code != 0 {
		t.Fatalf("add-method exit code = %d, output:\n%s", code, out.String())
	}
	if !strings.Contains(out.String(), "✅ Method decideNPCAction added successfully!") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
	if !strings.Contains(readFile(t, path), "async decideNPCAction(npcTokenDoc, combatState) {") {
		t.Fatal("method not written to file")
	}

	out.Reset()
	if code := runScript(&out, "debug-logs", path); code != 0 {
		t.Fatalf("debug-logs exit code = %d", code)
	}
	for _, want := range []string{
		"✅ Log 1 added (method entry)",
		"✅ Log 2 added (before API call)",
		"✅ Log 3 added (response received)",
		"🎯 Debug logs added successfully!",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}

	out.Reset()
	runScript(&out, "debug-logs", path)
	if strings.Count(out.String(), "already present") != 3 {
		t.Errorf("second run should skip every log:\n%s", out.String())
	}
}

func TestRunScript_AddMethodAbort(t *testing.T) {
	src := "class A {\n  decideNPCAction() {}\n}\n"
	path := writeClient(t, src)

	var out bytes.Buffer
	if code := runScript(&out, "add-method", path); code != 0 {
		t.Fatalf("abort must exit 0, got %d", code)
	}
	if got := strings.TrimSpace(out.String()); got != "❌ Method decideNPCAction already exists!" {
		t.Errorf("unexpected output %q", got)
	}
	if readFile(t, path) != src {
		t.Error("file modified by aborted run")
	}
}

func TestRunScript_CombatFix(t *testing.T) {
	path := writeClient(t, "const r = await this.chat(prompt, {\n      maxTokens: 2048,\n});\n")

	var out bytes.Buffer
	if code := runScript(&out, "combat-fix", path); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	got := out.String()
	for _, want := range []string{
		"✅ Fix 1: maxTokens raised from 2048 to 5000",
		"⚠️  Fix 2: action lookup pattern not found",
		"🎯 Fixes applied successfully!",
		"📝 Next steps:",
		"2. Reload Foundry (Ctrl+Shift+R)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunScript_MissingFile(t *testing.T) {
	var out bytes.Buffer
	code := runScript(&out, "combat-fix", filepath.Join(t.TempDir(), "missing.mjs"))
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.HasPrefix(out.String(), "❌ read ") {
		t.Errorf("unexpected output %q", out.String())
	}
}

// ---------------------------------------------------------------------------
// patchkit commands
// ---------------------------------------------------------------------------

func TestApplyCmd(t *testing.T) {
	isolateEnv(t)
	path := writeClient(t, clientSource)

	out, err := executeCmd(NewRootCmd("test"), "apply", "add-method", "--target", path, "--backup")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !strings.Contains(out, "decideNPCAction added") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if readFile(t, path+".bak") != clientSource {
		t.Error("backup should hold the original content")
	}
}

func TestApplyCmd_DryRunJSON(t *testing.T) {
	isolateEnv(t)
	path := writeClient(t, "maxTokens: 2048,\n")

	out, err := executeCmd(NewRootCmd("test"), "apply", "combat-fix", "-t", path, "--dry-run", "--json")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	var res struct {
		State  string `json:"state"`
		DryRun bool   `json:"dry_run"`
		Report struct {
			Results []struct {
				Rule    string `json:"rule"`
				Outcome string `json:"outcome"`
			} `json:"results"`
		} `json:"report"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if !res.DryRun || res.State != "done" {
		t.Errorf("unexpected result %+v", res)
	}
	if len(res.Report.Results) != 2 || res.Report.Results[0].Outcome != "applied" || res.Report.Results[1].Outcome != "anchor_missing" {
		t.Errorf("unexpected results %+v", res.Report.Results)
	}
	if readFile(t, path) != "maxTokens: 2048,\n" {
		t.Error("dry run wrote the file")
	}
}

func TestApplyCmd_TargetFromEnv(t *testing.T) {
	isolateEnv(t)
	path := writeClient(t, "maxTokens: 2048,\n")
	t.Setenv("PATCHKIT_TARGET", path)

	if _, err := executeCmd(NewRootCmd("test"), "apply", "combat-fix"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := readFile(t, path); got != "maxTokens: 5000,\n" {
		t.Errorf("file = %q", got)
	}
}

func TestCheckCmd(t *testing.T) {
	isolateEnv(t)
	path := writeClient(t, "maxTokens: 2048,\n")

	_, err := executeCmd(NewRootCmd("test"), "check", "combat-fix", "-t", path)
	if !errors.Is(err, ErrPending) {
		t.Fatalf("expected ErrPending, got %v", err)
	}

	if err := os.WriteFile(path, []byte("maxTokens: 5000,\n"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := executeCmd(NewRootCmd("test"), "check", "combat-fix", "-t", path)
	if err != nil {
		t.Fatalf("check on patched file: %v", err)
	}
	if !strings.Contains(out, "Fix 1: maxTokens already at 5000") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestDiffCmd(t *testing.T) {
	isolateEnv(t)
	path := writeClient(t, "a\nmaxTokens: 2048,\nb\n")

	out, err := executeCmd(NewRootCmd("test"), "diff", "combat-fix", "-t", path)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if !strings.Contains(out, "-maxTokens: 2048,") || !strings.Contains(out, "+maxTokens: 5000,") {
		t.Errorf("diff missing change:\n%s", out)
	}
	if readFile(t, path) != "a\nmaxTokens: 2048,\nb\n" {
		t.Error("diff wrote the file")
	}
}

func TestUnknownSet(t *testing.T) {
	isolateEnv(t)
	_, err := executeCmd(NewRootCmd("test"), "apply", "nope")
	if err == nil || !strings.Contains(err.Error(), `unknown rule set "nope"`) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestListCmd(t *testing.T) {
	isolateEnv(t)
	out, err := executeCmd(NewRootCmd("test"), "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"add-method", "combat-fix", "debug-logs"} {
		if !strings.Contains(out, name) {
			t.Errorf("list missing %s:\n%s", name, out)
		}
	}
}

func TestListCmd_JSON(t *testing.T) {
	isolateEnv(t)
	out, err := executeCmd(NewRootCmd("test"), "list", "--json")
	if err != nil {
		t.Fatal(err)
	}

	var sets []struct {
		Name  string `json:"name"`
		Rules []struct {
			Name string `json:"name"`
			Kind string `json:"kind"`
		} `json:"rules"`
	}
	if err := json.Unmarshal([]byte(out), &sets); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	kinds := map[string]string{}
	for _, s := range sets {
		for _, r := range s.Rules {
			kinds[s.Name+"/"+r.Name] = r.Kind
		}
	}
	if got := kinds["add-method/decideNPCAction"]; got != "insert-before-last" {
		t.Errorf("add-method kind = %q", got)
	}
	if got := kinds["combat-fix/Fix 1"]; got != "replace" {
		t.Errorf("Fix 1 kind = %q", got)
	}
}

func TestLogsCmd(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	t.Setenv("PATCHKIT_LOG_DIR", dir)
	path := writeClient(t, "maxTokens: 2048,\n")

	if _, err := executeCmd(NewRootCmd("test"), "apply", "combat-fix", "-t", path); err != nil {
		t.Fatalf("apply: %v", err)
	}
	out, err := executeCmd(NewRootCmd("test"), "logs", "-n", "5")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if !strings.Contains(out, "Rule set finished") {
		t.Errorf("log output missing run record:\n%s", out)
	}
	if !strings.Contains(out, "component=patchkit") {
		t.Errorf("log output missing component:\n%s", out)
	}

	_, err = executeCmd(NewRootCmd("test"), "logs", "--lines=-1")
	if err == nil || !strings.Contains(err.Error(), "--lines must be zero or more") {
		t.Fatalf("expected error for negative line count, got %v", err)
	}

	out, err = executeCmd(NewRootCmd("test"), "logs", "-n", "0")
	if err != nil {
		t.Fatalf("logs -n 0: %v", err)
	}
	if out != "" {
		t.Errorf("logs -n 0 printed %q", out)
	}
}

func TestLogsCmd_JSON(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	t.Setenv("PATCHKIT_LOG_DIR", dir)
	t.Setenv("PATCHKIT_LOG_JSON", "1")
	path := writeClient(t, "maxTokens: 2048,\n")

	if _, err := executeCmd(NewRootCmd("test"), "apply", "combat-fix", "-t", path); err != nil {
		t.Fatalf("apply: %v", err)
	}
	out, err := executeCmd(NewRootCmd("test"), "logs")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	for _, want := range []string{`"msg":"Rule set finished"`, `"component":"patchkit"`, `"set":"combat-fix"`} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON log missing %s:\n%s", want, out)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	isolateEnv(t)
	out, err := executeCmd(NewRootCmd("1.2.3"), "version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "patchkit 1.2.3" {
		t.Errorf("version = %q", out)
	}
}
