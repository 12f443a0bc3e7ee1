package scriptbox

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kolkov/scriptbox/internal/guard"
	"github.com/kolkov/scriptbox/internal/interp"
	"github.com/kolkov/scriptbox/internal/token"
)

// Defaults used for zero Options fields.
const (
	DefaultMaxSteps     = interp.DefaultMaxSteps
	DefaultMaxMillis    = int(interp.DefaultMaxTime / time.Millisecond)
	DefaultMaxDepth     = interp.DefaultMaxDepth
	DefaultMaxArrayLen  = interp.DefaultMaxArrayLen
	DefaultMaxStringLen = interp.DefaultMaxStringLen
	DefaultFacadeName   = interp.DefaultFacadeName
)

// Options holds configuration for running scripts.
type Options struct {
	// MaxSteps bounds the node visits of one invocation: the top-level
	// body, or a single function call (default: 100000).
	MaxSteps int

	// MaxMillis bounds the wall-clock time of one invocation in
	// milliseconds (default: 250).
	MaxMillis int

	// MaxDepth bounds nested function calls (default: 200).
	MaxDepth int

	// MaxArrayLen bounds the length of an array a script grows by index
	// or length writes and spreads (default: 1<<20).
	MaxArrayLen int

	// MaxStringLen bounds the bytes of a string built by concatenation
	// (default: 1<<22).
	MaxStringLen int

	// FacadeName is the binding unresolved names fall back to, and the
	// object "this" denotes (default: "self").
	FacadeName string

	// Policy holds the forbidden-name tables (default: DefaultPolicy()).
	Policy *Policy

	// Helpers binds the numeric helper set (abs, floor, min, ...).
	// Default: true.
	Helpers *bool

	// Seed seeds the random helper. Zero picks a time-based seed.
	Seed int64

	// Logger receives run diagnostics. If nil, nothing is logged.
	Logger *slog.Logger
}

// applyDefaults fills in default values for unset Options fields.
func (o *Options) applyDefaults() {
	if o.MaxSteps <= 0 {
		o.MaxSteps = DefaultMaxSteps
	}
	if o.MaxMillis <= 0 {
		o.MaxMillis = DefaultMaxMillis
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.MaxArrayLen <= 0 {
		o.MaxArrayLen = DefaultMaxArrayLen
	}
	if o.MaxStringLen <= 0 {
		o.MaxStringLen = DefaultMaxStringLen
	}
	if o.FacadeName == "" {
		o.FacadeName = DefaultFacadeName
	}
	if o.Policy == nil {
		o.Policy = DefaultPolicy()
	}
	if o.Helpers == nil {
		on := true
		o.Helpers = &on
	}
}

// config converts o, which may be nil, to an interpreter configuration.
func (o *Options) config() interp.Config {
	var opts Options
	if o != nil {
		opts = *o
	}
	opts.applyDefaults()
	return interp.Config{
		MaxSteps:     opts.MaxSteps,
		MaxTime:      time.Duration(opts.MaxMillis) * time.Millisecond,
		MaxDepth:     opts.MaxDepth,
		MaxArrayLen:  opts.MaxArrayLen,
		MaxStringLen: opts.MaxStringLen,
		FacadeName:   opts.FacadeName,
		Policy:       opts.Policy,
		Helpers:      *opts.Helpers,
		Seed:         opts.Seed,
		Logger:       opts.Logger,
	}
}

// PolicyNames is the sorted export of the naming tables.
type PolicyNames = guard.Names

// Names returns the naming tables of a run under o, for highlighters and
// obfuscators. Besides the keywords, the facade name and (with helpers
// on) every helper name are preserved. A nil o means defaults.
func (o *Options) Names() PolicyNames {
	return interp.New(o.config()).Config().Policy.Names()
}

// policy returns the tables to check source against.
func (o *Options) policy() *Policy {
	if o == nil || o.Policy == nil {
		return DefaultPolicy()
	}
	return o.Policy
}

// optionsFile is the YAML form of Options.
type optionsFile struct {
	MaxSteps     int    `yaml:"max_steps"`
	MaxMillis    int    `yaml:"max_millis"`
	MaxDepth     int    `yaml:"max_depth"`
	MaxArrayLen  int    `yaml:"max_array_len"`
	MaxStringLen int    `yaml:"max_string_len"`
	Facade       string `yaml:"facade"`
	Helpers      *bool  `yaml:"helpers"`
	Seed         int64  `yaml:"seed"`
	Forbid       struct {
		Identifiers []string `yaml:"identifiers"`
		Properties  []string `yaml:"properties"`
		Patterns    []string `yaml:"patterns"`
	} `yaml:"forbid"`
}

// LoadOptions reads Options from YAML. Forbid lists extend the default
// policy; they cannot remove built-in entries. Unknown keys are errors.
//
// Example:
//
//	max_steps: 5000
//	max_millis: 20
//	facade: npc
//	forbid:
//	  identifiers: [Math]
//	  patterns: ['^_']
func LoadOptions(r io.Reader) (*Options, error) {
	var f optionsFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("scriptbox: options: %w", err)
	}

	switch {
	case f.MaxSteps < 0:
		return nil, fmt.Errorf("scriptbox: options: max_steps must not be negative")
	case f.MaxMillis < 0:
		return nil, fmt.Errorf("scriptbox: options: max_millis must not be negative")
	case f.MaxDepth < 0:
		return nil, fmt.Errorf("scriptbox: options: max_depth must not be negative")
	case f.MaxArrayLen < 0:
		return nil, fmt.Errorf("scriptbox: options: max_array_len must not be negative")
	case f.MaxStringLen < 0:
		return nil, fmt.Errorf("scriptbox: options: max_string_len must not be negative")
	}
	if f.Facade != "" && !isIdentifier(f.Facade) {
		return nil, fmt.Errorf("scriptbox: options: facade %q is not a valid identifier", f.Facade)
	}

	policy, err := guard.NewPolicy(guard.Extension{
		Identifiers: f.Forbid.Identifiers,
		Properties:  f.Forbid.Properties,
		Patterns:    f.Forbid.Patterns,
	})
	if err != nil {
		return nil, fmt.Errorf("scriptbox: options: %w", err)
	}

	return &Options{
		MaxSteps:     f.MaxSteps,
		MaxMillis:    f.MaxMillis,
		MaxDepth:     f.MaxDepth,
		MaxArrayLen:  f.MaxArrayLen,
		MaxStringLen: f.MaxStringLen,
		FacadeName:   f.Facade,
		Policy:       policy,
		Helpers:      f.Helpers,
		Seed:         f.Seed,
	}, nil
}

// isIdentifier reports whether name lexes as a single non-keyword name.
func isIdentifier(name string) bool {
	for i, r := range name {
		letter := r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if !letter && (i == 0 || r < '0' || r > '9') {
			return false
		}
	}
	return name != "" && token.LookupIdent(name) == token.Identifier
}
