// Package guard holds the sandbox naming tables and the preflight check
// that rejects forbidden identifiers before a script is parsed.
//
// The tables live in an immutable Policy value. Each interpreter receives
// the Policy it was configured with; nothing here is package-level mutable
// state, so independent interpreters never observe each other's tables.
package guard

import (
	"fmt"
	"sort"

	"github.com/coregx/coregex"

	"github.com/kolkov/scriptbox/internal/token"
)

// Category groups forbidden identifiers that get a dedicated message.
type Category uint8

const (
	Generic      Category = iota // forbidden identifier
	Construction                 // dynamic construction
	Import                       // dynamic import
	Evaluation                   // dynamic code evaluation
)

func (c Category) message(name string) string {
	switch c {
	case Construction:
		return "dynamic construction is not allowed"
	case Import:
		return "dynamic import is not allowed"
	case Evaluation:
		return "dynamic code evaluation is not allowed"
	default:
		return fmt.Sprintf("forbidden identifier %q", name)
	}
}

var defaultIdentifiers = map[string]Category{
	"new":            Construction,
	"import":         Import,
	"require":        Import,
	"eval":           Evaluation,
	"Function":       Evaluation,
	"globalThis":     Generic,
	"window":         Generic,
	"global":         Generic,
	"document":       Generic,
	"process":        Generic,
	"module":         Generic,
	"exports":        Generic,
	"Reflect":        Generic,
	"Proxy":          Generic,
	"WebAssembly":    Generic,
	"fetch":          Generic,
	"XMLHttpRequest": Generic,
	"setTimeout":     Generic,
	"setInterval":    Generic,
	"with":           Generic,
	"class":          Generic,
	"async":          Generic,
	"await":          Generic,
	"yield":          Generic,
	"delete":         Generic,
	"debugger":       Generic,
	"throw":          Generic,
	"try":            Generic,
}

var defaultProperties = []string{
	"__proto__",
	"prototype",
	"constructor",
	"call",
	"apply",
	"bind",
	"__defineGetter__",
	"__defineSetter__",
	"__lookupGetter__",
	"__lookupSetter__",
	"caller",
	"callee",
	"arguments",
	"valueOf",
	"toString",
}

// defaultPatterns catches engine-internal dunder names.
var defaultPatterns = []string{`^__.*__$`}

// Policy is the immutable set of naming tables. Build one with
// DefaultPolicy or NewPolicy; the zero value forbids nothing.
type Policy struct {
	identifiers map[string]Category
	properties  map[string]struct{}
	patterns    []*coregex.Regexp
	rawPatterns []string
	preserved   map[string]struct{}
}

// Extension lists names added on top of the default tables.
type Extension struct {
	Identifiers []string
	Properties  []string
	Patterns    []string
	Preserved   []string
}

// DefaultPolicy returns the built-in tables.
func DefaultPolicy() *Policy {
	p, err := NewPolicy(Extension{})
	if err != nil {
		panic(err) // default patterns are constant
	}
	return p
}

// NewPolicy builds a Policy from the defaults extended by ext.
// It fails if a pattern does not compile.
func NewPolicy(ext Extension) (*Policy, error) {
	p := &Policy{
		identifiers: make(map[string]Category, len(defaultIdentifiers)+len(ext.Identifiers)),
		properties:  make(map[string]struct{}, len(defaultProperties)+len(ext.Properties)),
		preserved:   make(map[string]struct{}),
	}
	for name, cat := range defaultIdentifiers {
		p.identifiers[name] = cat
	}
	for _, name := range ext.Identifiers {
		if _, ok := p.identifiers[name]; !ok {
			p.identifiers[name] = Generic
		}
	}
	for _, name := range defaultProperties {
		p.properties[name] = struct{}{}
	}
	for _, name := range ext.Properties {
		p.properties[name] = struct{}{}
	}
	for _, src := range append(append([]string{}, defaultPatterns...), ext.Patterns...) {
		re, err := coregex.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("forbidden pattern %q: %w", src, err)
		}
		p.patterns = append(p.patterns, re)
		p.rawPatterns = append(p.rawPatterns, src)
	}
	for _, name := range token.Keywords() {
		p.preserved[name] = struct{}{}
	}
	for _, name := range ext.Preserved {
		p.preserved[name] = struct{}{}
	}
	return p, nil
}

// WithPreserved returns a copy of p that also preserves names.
// interp.New uses it to record the facade and helper names.
func (p *Policy) WithPreserved(names ...string) *Policy {
	cp := *p
	cp.preserved = make(map[string]struct{}, len(p.preserved)+len(names))
	for k := range p.preserved {
		cp.preserved[k] = struct{}{}
	}
	for _, n := range names {
		cp.preserved[n] = struct{}{}
	}
	return &cp
}

// IsForbiddenIdentifier reports whether name may not appear in source.
func (p *Policy) IsForbiddenIdentifier(name string) (Category, bool) {
	if cat, ok := p.identifiers[name]; ok {
		return cat, true
	}
	if p.matchesPattern(name) {
		return Generic, true
	}
	return Generic, false
}

// IsForbiddenProperty reports whether name is blocked on every receiver.
func (p *Policy) IsForbiddenProperty(name string) bool {
	if _, ok := p.properties[name]; ok {
		return true
	}
	return p.matchesPattern(name)
}

// IsPreserved reports whether external tools must leave name untouched.
func (p *Policy) IsPreserved(name string) bool {
	_, ok := p.preserved[name]
	return ok
}

func (p *Policy) matchesPattern(name string) bool {
	for _, re := range p.patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Names is the sorted export of a Policy for external tools such as
// highlighters and obfuscators.
type Names struct {
	Keywords             []string `yaml:"keywords"`
	ForbiddenIdentifiers []string `yaml:"forbidden_identifiers"`
	ForbiddenProperties  []string `yaml:"forbidden_properties"`
	ForbiddenPatterns    []string `yaml:"forbidden_patterns"`
	Preserved            []string `yaml:"preserved"`
}

// Names returns the tables in sorted order.
func (p *Policy) Names() Names {
	n := Names{
		Keywords:          sorted(token.Keywords()),
		ForbiddenPatterns: append([]string(nil), p.rawPatterns...),
	}
	for k := range p.identifiers {
		n.ForbiddenIdentifiers = append(n.ForbiddenIdentifiers, k)
	}
	for k := range p.properties {
		n.ForbiddenProperties = append(n.ForbiddenProperties, k)
	}
	for k := range p.preserved {
		n.Preserved = append(n.Preserved, k)
	}
	sort.Strings(n.ForbiddenIdentifiers)
	sort.Strings(n.ForbiddenProperties)
	sort.Strings(n.Preserved)
	return n
}

func sorted(s []string) []string {
	sort.Strings(s)
	return s
}
