package model

import (
	"fmt"
	"sort"
	"time"
)

// Kind identifies the type of an operation, every kind has its own single-flight lane.
type Kind string

const (
	// KindCodeQuality generates a code quality report.
	KindCodeQuality Kind = "code-quality"
	// KindVulnerability generates a vulnerability summary report.
	KindVulnerability Kind = "vulnerability"
	// KindDependency generates a dependency audit report.
	KindDependency Kind = "dependency"
	// KindAnalysis runs a code analysis.
	KindAnalysis Kind = "analysis"
	// KindScan runs a vulnerability scan.
	KindScan Kind = "scan"
	// KindRepositoryScan scans a connected repository.
	KindRepositoryScan Kind = "repository-scan"
	// KindExport exports the generated reports.
	KindExport Kind = "export"
	// KindRepositoryConnect connects a source code repository.
	KindRepositoryConnect Kind = "repository-connect"
)

var kindTitles = map[Kind]string{
	KindCodeQuality:       "Code Quality Report",
	KindVulnerability:     "Vulnerability Summary",
	KindDependency:        "Dependency Audit",
	KindAnalysis:          "Code Analysis",
	KindScan:              "Vulnerability Scan",
	KindRepositoryScan:    "Repository Scan",
	KindExport:            "Report Export",
	KindRepositoryConnect: "Repository Connection",
}

// Kinds returns all the known kinds sorted by name.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindTitles))
	for k := range kindTitles {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	return kinds
}

// Title returns the human readable label of the kind.
func (k Kind) Title() string {
	if t, ok := kindTitles[k]; ok {
		return t
	}
	return "Operation"
}

// Validate checks the kind is part of the catalog.
func (k Kind) Validate() error {
	if _, ok := kindTitles[k]; !ok {
		return fmt.Errorf("%q: %w", k, ErrInvalidKind)
	}
	return nil
}

// ParseKind parses and validates a kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

// KindInfo describes a kind and how its operations progress.
type KindInfo struct {
	Kind          Kind
	Title         string
	TickInterval  time.Duration
	MaxIncrement  int
	FinalizeAfter time.Duration
	Saturation    string
}
