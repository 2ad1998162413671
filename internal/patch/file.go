package patch

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"unicode/utf8"

	cp "github.com/otiai10/copy"
)

// BackupSuffix is appended to the target path when a backup is requested.
const BackupSuffix = ".bak"

// ErrInvalidUTF8 is wrapped in the read error for targets that are not UTF-8
// text.
var ErrInvalidUTF8 = errors.New("content is not valid UTF-8")

// Load reads the whole target file. Content is returned as-is.
func Load(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &FileAccessError{Op: "read", Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return "", &FileAccessError{Op: "read", Path: path, Err: ErrInvalidUTF8}
	}
	return string(data), nil
}

// WriteOptions controls how Write replaces the target file.
type WriteOptions struct {
	// Backup copies the current file to path+BackupSuffix before replacing it.
	Backup bool
}

// Write replaces the file at path with content. The new content is written
// to a temporary file in the same directory and renamed over the target, so
// an interrupted write never leaves a truncated file behind. The existing
// file mode is kept. A symlinked target is resolved first, so the link
// survives and the file it points to is replaced; the backup is written
// next to that file.
func Write(path, content string, opts WriteOptions) error {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &FileAccessError{Op: "write", Path: path, Err: err}
	}

	mode := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return &FileAccessError{Op: "write", Path: path, Err: err}
	}

	if opts.Backup {
		if err := backup(path); err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return &FileAccessError{Op: "write", Path: path, Err: err}
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		cleanup()
		return &FileAccessError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return &FileAccessError{Op: "write", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &FileAccessError{Op: "write", Path: path, Err: err}
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return &FileAccessError{Op: "write", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return &FileAccessError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func backup(path string) error {
	dest := path + BackupSuffix
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := cp.Copy(path, dest, cp.Options{PreserveTimes: true}); err != nil {
		return &FileAccessError{Op: "backup", Path: dest, Err: err}
	}
	slog.Debug("Backup written", "path", dest)
	return nil
}

// State is a step of a single run.
type State string

const (
	StateStart     State = "start"
	StateLoaded    State = "loaded"
	StateEvaluated State = "rules_evaluated"
	StateWritten   State = "written"
	StateDone      State = "done"
	StateAborted   State = "aborted"
)

// RunOptions controls Run.
type RunOptions struct {
	// DryRun evaluates the rules but never writes.
	DryRun bool
	Backup bool
}

// RunResult is what Run hands back to the caller.
type RunResult struct {
	Path   string `json:"path"`
	State  State  `json:"state"`
	DryRun bool   `json:"dry_run,omitempty"`
	Report Report `json:"report"`

	// Before and After hold the content around evaluation. After equals
	// Before when nothing applied or the run aborted.
	Before string `json:"-"`
	After  string `json:"-"`
}

// Run loads path, applies rules and writes the result back. An aborted run
// (insertion guard already satisfied) returns with StateAborted and leaves
// the file untouched; that is not an error.
func Run(path string, rules []Rule, opts RunOptions) (*RunResult, error) {
	res := &RunResult{Path: path, State: StateStart, DryRun: opts.DryRun}
	log := slog.With("path", path)

	content, err := Load(path)
	if err != nil {
		return res, err
	}
	res.State = StateLoaded
	res.Before = content
	log.Debug("Target loaded", "bytes", len(content), "rules", len(rules))

	res.After, res.Report = Apply(content, rules)
	res.State = StateEvaluated
	for _, r := range res.Report.Results {
		log.Debug("Rule evaluated", "rule", r.Rule, "outcome", r.Outcome.String())
	}

	if res.Report.Aborted {
		res.State = StateAborted
		log.Info("Run aborted by guard")
		return res, nil
	}
	if opts.DryRun {
		res.State = StateDone
		return res, nil
	}

	if err := Write(path, res.After, WriteOptions{Backup: opts.Backup}); err != nil {
		return res, fmt.Errorf("write patched content: %w", err)
	}
	res.State = StateWritten
	log.Info("Target written", "changed", res.Report.Changed, "applied", res.Report.Count(Applied))

	res.State = StateDone
	return res, nil
}
