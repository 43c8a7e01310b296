// Package importer bulk-loads frontmatter markdown files into the library.
package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dpshade/prompt-distiller/internal/autotag"
	"github.com/dpshade/prompt-distiller/internal/renderer"
	"github.com/dpshade/prompt-distiller/internal/service"
	"github.com/dpshade/prompt-distiller/internal/storage"
)

// Options controls import behavior.
type Options struct {
	// DryRun parses and reports without adding anything to the library.
	DryRun bool
	// SkipExisting leaves templates whose id already exists untouched.
	SkipExisting bool
	// Overwrite replaces templates whose id already exists.
	Overwrite bool
}

// FileError records a file that could not be imported.
type FileError struct {
	Path string
	Err  error
}

// Result summarizes an import run.
type Result struct {
	Imported int
	Skipped  int
	Errors   []FileError
}

// ImportDirectory walks dir for .md files and imports each one. Per-file
// failures are collected in the result instead of aborting the run.
func ImportDirectory(svc *service.Service, dir string, opts Options) (*Result, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot access import directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	result := &Result{}

	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, FileError{Path: path, Err: err})
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		if err := importFile(svc, path, opts, result); err != nil {
			result.Errors = append(result.Errors, FileError{Path: path, Err: err})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk import directory: %w", err)
	}

	return result, nil
}

func importFile(svc *service.Service, path string, opts Options, result *Result) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	template, err := storage.ParseTemplateFile(data)
	if err != nil {
		return err
	}

	if strings.TrimSpace(template.Content) == "" {
		return fmt.Errorf("template has no content")
	}
	if template.Name == "" {
		// Fall back to the file name so imports never produce unnamed entries.
		template.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if len(template.Tags) == 0 {
		template.Tags = autotag.Tags(template.Content)
	}
	// Frontmatter may omit or understate variables; content is authoritative.
	if len(template.Variables) == 0 {
		template.Variables = renderer.ParseVariables(template.Content)
	}

	if template.ID != "" && svc.Has(template.ID) {
		switch {
		case opts.SkipExisting:
			result.Skipped++
			return nil
		case opts.Overwrite:
			if !opts.DryRun {
				svc.Delete(template.ID)
			}
		default:
			// Imported copy gets a fresh id rather than colliding.
			template.ID = ""
		}
	}

	if !opts.DryRun {
		svc.Add(template)
	}
	result.Imported++
	return nil
}

// Describe renders a one-line summary for CLI output.
func (r *Result) Describe() string {
	return fmt.Sprintf("imported %d, skipped %d, failed %d", r.Imported, r.Skipped, len(r.Errors))
}
