// Command organigram-check validates an organisational unit dump before it
// is loaded into the service: it parses the JSON file, builds the tree for
// the requested date and reports parent cycles, multiple roots and the
// resulting unit count.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"riscore/internal/core"
	"riscore/pkg/domain"
)

var exitFunc = os.Exit

// main runs the command-line interface using the program arguments and
// exits the process with the status code returned by cli.
func main() {
	exitFunc(cli(os.Args[1:], os.Stdout, os.Stderr))
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("organigram-check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		recordsPath string
		asOfDate    string
	)
	fs.StringVar(&recordsPath, "records", "organigram.json", "path to the org unit dump (JSON array)")
	fs.StringVar(&asOfDate, "date", "", "validate the tree as of this date (YYYY-MM-DD, default now)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	tree, err := run(recordsPath, asOfDate)
	if err != nil {
		fmt.Fprintf(stderr, "Organigram validation failed: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "Organigram validation passed: %d units", tree.Units)
	if tree.Root != nil {
		fmt.Fprintf(stdout, ", root %s", tree.Root.ID)
	}
	fmt.Fprintln(stdout)
	return 0
}

// validatePath rejects absolute and path-traversing references so the check
// only reads files within the working tree.
func validatePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("empty path")
	}
	if filepath.IsAbs(p) {
		return "", fmt.Errorf("absolute paths not allowed: %s", p)
	}
	clean := filepath.Clean(p)
	if strings.Contains(clean, "..") {
		return "", fmt.Errorf("path traversal not allowed: %s", p)
	}
	return clean, nil
}

func run(recordsPath, asOfDate string) (*core.OrgUnitTree, error) {
	safePath, err := validatePath(recordsPath)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(safePath)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	var records []domain.OrgUnit
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse records: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("no org unit records in file")
	}

	var asOf *time.Time
	if asOfDate != "" {
		parsed, err := time.Parse("2006-01-02", asOfDate)
		if err != nil {
			return nil, fmt.Errorf("parse date: %w", err)
		}
		asOf = &parsed
	}

	tree, err := core.BuildTree(records, asOf)
	if err != nil {
		return nil, err
	}
	return tree, nil
}
