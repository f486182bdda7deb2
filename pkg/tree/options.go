package tree

import (
	errs "github.com/matzehuels/deptree/pkg/errors"
	"github.com/matzehuels/deptree/pkg/graph"
)

// Unlimited disables the depth limit.
const Unlimited = -1

// Prefix selects how each line is prefixed.
type Prefix int

const (
	// PrefixIndent draws tree connectors. This is the default.
	PrefixIndent Prefix = iota
	// PrefixNone prints one package per line without decoration.
	PrefixNone
	// PrefixDepth prefixes each line with its depth.
	PrefixDepth
)

var prefixNames = map[string]Prefix{
	"indent": PrefixIndent,
	"none":   PrefixNone,
	"depth":  PrefixDepth,
}

// ParsePrefix converts "indent", "none" or "depth" into a Prefix.
func ParsePrefix(s string) (Prefix, error) {
	if p, ok := prefixNames[s]; ok {
		return p, nil
	}
	return 0, errs.New(errs.ErrCodeInvalidInput, "invalid prefix %q (want indent, none or depth)", s)
}

func (p Prefix) String() string {
	for name, v := range prefixNames {
		if v == p {
			return name
		}
	}
	return "unknown"
}

// Charset selects the glyphs used for indent connectors.
type Charset int

const (
	// UTF8 uses box-drawing characters. This is the default.
	UTF8 Charset = iota
	// ASCII uses plain ASCII approximations.
	ASCII
)

// ParseCharset converts "utf8" or "ascii" into a Charset.
func ParseCharset(s string) (Charset, error) {
	switch s {
	case "utf8":
		return UTF8, nil
	case "ascii":
		return ASCII, nil
	}
	return 0, errs.New(errs.ErrCodeInvalidInput, "invalid charset %q (want utf8 or ascii)", s)
}

func (c Charset) String() string {
	if c == ASCII {
		return "ascii"
	}
	return "utf8"
}

// Symbols are the connector glyphs for one charset.
type Symbols struct {
	Down  string
	Tee   string
	Ell   string
	Right string
}

var (
	utf8Symbols  = Symbols{Down: "│", Tee: "├", Ell: "└", Right: "─"}
	asciiSymbols = Symbols{Down: "|", Tee: "|", Ell: "`", Right: "-"}
)

// Symbols returns the glyph table for c.
func (c Charset) Symbols() Symbols {
	if c == ASCII {
		return asciiSymbols
	}
	return utf8Symbols
}

// Options controls a single rendering. Use DefaultOptions for a starting point:
// the zero value limits the tree to its root.
type Options struct {
	Direction graph.Direction
	// MaxDepth is the deepest level that is expanded; the root is level 0.
	// Unlimited (or any negative value) disables the limit.
	MaxDepth int
	// ShowAll expands repeated packages instead of marking them with (*).
	ShowAll bool
	Prefix  Prefix
	Charset Charset
}

// DefaultOptions returns an unlimited outgoing tree with UTF-8 connectors.
func DefaultOptions() Options {
	return Options{MaxDepth: Unlimited}
}

func (o Options) validate() error {
	if o.Direction != graph.Outgoing && o.Direction != graph.Incoming {
		return errs.New(errs.ErrCodeInvalidInput, "invalid direction %d", o.Direction)
	}
	if o.Prefix < PrefixIndent || o.Prefix > PrefixDepth {
		return errs.New(errs.ErrCodeInvalidInput, "invalid prefix %d", o.Prefix)
	}
	if o.Charset != UTF8 && o.Charset != ASCII {
		return errs.New(errs.ErrCodeInvalidInput, "invalid charset %d", o.Charset)
	}
	return nil
}
