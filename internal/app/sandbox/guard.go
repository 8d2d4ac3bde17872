package sandbox

import (
	"fmt"
	"path/filepath"
	"strings"
)

type Decision int

const (
	DecisionDenied Decision = iota
	DecisionPermitted
	DecisionError
)

func (d Decision) String() string {
	switch d {
	case DecisionPermitted:
		return "permitted"
	case DecisionError:
		return "error"
	default:
		return "denied"
	}
}

// Verdict is the outcome of a single Check. Resolved is only set when the
// candidate could be canonicalized.
type Verdict struct {
	Decision  Decision
	Candidate string
	Resolved  string
	Err       error
}

func (v Verdict) Permitted() bool {
	return v.Decision == DecisionPermitted
}

type Guard struct {
	resolver PathResolver
	base     string
}

func NewGuard(resolver PathResolver, baseDir string) (*Guard, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		return nil, ErrBaseDirRequired
	}

	canonical, err := resolver.Canonicalize(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBaseDirInvalid, baseDir, err)
	}
	isDir, err := resolver.IsDir(canonical)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBaseDirInvalid, baseDir, err)
	}
	if !isDir {
		return nil, fmt.Errorf("%w: %s", ErrBaseDirInvalid, baseDir)
	}

	return &Guard{resolver: resolver, base: canonical}, nil
}

// Base returns the canonical sandbox root.
func (g *Guard) Base() string {
	return g.base
}

func (g *Guard) Check(candidate string) Verdict {
	verdict := Verdict{Decision: DecisionDenied, Candidate: candidate}
	if strings.TrimSpace(candidate) == "" {
		return verdict
	}

	resolved, err := g.resolver.Canonicalize(candidate)
	if err != nil {
		verdict.Decision = DecisionError
		verdict.Err = err
		return verdict
	}
	verdict.Resolved = resolved

	if within(g.base, resolved) {
		verdict.Decision = DecisionPermitted
	}
	return verdict
}

// IsPermitted collapses every non-permitted verdict, including resolution
// errors, to false.
func (g *Guard) IsPermitted(candidate string) bool {
	return g.Check(candidate).Permitted()
}

func within(base, path string) bool {
	if path == base {
		return true
	}
	prefix := base
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}
