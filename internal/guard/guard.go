package guard

import (
	"fmt"

	"github.com/kolkov/scriptbox/internal/token"
)

// Error is a preflight rejection.
type Error struct {
	Pos      token.Position
	Name     string
	Category Category
	Message  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// Check scans every identifier and keyword token and fails on the first
// forbidden one, regardless of where it appears grammatically.
func (p *Policy) Check(toks []token.Token) error {
	for _, tok := range toks {
		if tok.Kind != token.Identifier && tok.Kind != token.Keyword {
			continue
		}
		if cat, bad := p.IsForbiddenIdentifier(tok.Value); bad {
			return &Error{
				Pos:      tok.Pos,
				Name:     tok.Value,
				Category: cat,
				Message:  cat.message(tok.Value),
			}
		}
	}
	return nil
}
