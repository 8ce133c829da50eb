// Package paths resolves where the playground keeps its files.
package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// DirName is the per-project data directory.
const DirName = ".inlineedit"

const (
	formFile   = "form.yaml"
	valuesFile = "values.yaml"
	logFile    = "debug.log"
	journalDB  = "journal.db"
	redirect   = "redirect"
)

// ResolveDir resolves the data directory from user input, accepting either
// a project directory or the data directory itself:
//
//	"/path/to/project"             -> "/path/to/project/.inlineedit"
//	"/path/to/project/.inlineedit" -> "/path/to/project/.inlineedit"
//	""                             -> ".inlineedit"
//
// A "redirect" file inside the directory points to another data directory,
// relative to the one holding it.
func ResolveDir(path string) string {
	if path == "" {
		path = "."
	}
	path = filepath.Clean(path)

	dir := path
	if filepath.Base(path) != DirName {
		dir = filepath.Join(path, DirName)
	}
	return followRedirect(dir)
}

func followRedirect(dir string) string {
	content, err := os.ReadFile(filepath.Join(dir, redirect)) //nolint:gosec // inside the data dir
	if err != nil {
		return dir
	}
	target := strings.TrimSpace(string(content))
	if target == "" {
		return dir
	}
	return filepath.Clean(filepath.Join(dir, target))
}

// FormFile is the form definition inside dir.
func FormFile(dir string) string { return filepath.Join(dir, formFile) }

// ValuesFile is the saved values inside dir.
func ValuesFile(dir string) string { return filepath.Join(dir, valuesFile) }

// JournalFile is the save journal inside dir.
func JournalFile(dir string) string { return filepath.Join(dir, journalDB) }

// LogFile is the debug log inside dir.
func LogFile(dir string) string { return filepath.Join(dir, logFile) }

// Exists reports whether path names an existing file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
