package annotations

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Directives are leading comments of the form "// qforge::<verb> [arg]"
// that tune how a single operation file is discovered. They never affect
// seeding, only extraction.
//
// Supported verbs:
//
//	qforge::skip          exclude the file from discovery
//	qforge::name <name>   override the operation name derived from the file name
const DirectivePrefix = "qforge"

// Directive represents one parsed qforge directive comment.
type Directive struct {
	Comment   string `parser:"@Comment"`
	Tool      string `parser:"@Tool"`
	Separator string `parser:"@Separator"`
	Verb      string `parser:"@Ident"`
	Arg       string `parser:"@Ident?"`
}

// FileDirectives is the aggregate of every directive found in one file.
type FileDirectives struct {
	Skip bool
	Name string // operation name override, empty when absent
}

// Parser parses qforge directive comments.
type Parser struct {
	parser *participle.Parser[Directive]
}

// NewParser builds the directive parser.
func NewParser() *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Comment", Pattern: `//`},
		{Name: "Tool", Pattern: DirectivePrefix},
		{Name: "Separator", Pattern: `::`},
		{Name: "Ident", Pattern: `[a-zA-Z_$][a-zA-Z0-9_$.-]*`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	return &Parser{
		parser: participle.MustBuild[Directive](
			participle.Lexer(lex),
			participle.Elide("Whitespace"),
		),
	}
}

// ParseComment parses a single comment line as a directive.
func (p *Parser) ParseComment(line string) (*Directive, error) {
	directive, err := p.parser.ParseString("", strings.TrimSpace(line))
	if err != nil {
		return nil, fmt.Errorf("invalid qforge directive %q: %w", strings.TrimSpace(line), err)
	}
	switch directive.Verb {
	case "skip":
		if directive.Arg != "" {
			return nil, fmt.Errorf("qforge::skip takes no argument, got %q", directive.Arg)
		}
	case "name":
		if directive.Arg == "" {
			return nil, fmt.Errorf("qforge::name requires an argument")
		}
	default:
		return nil, fmt.Errorf("unknown qforge directive %q", directive.Verb)
	}
	return directive, nil
}

// ScanLeading collects directives from the leading comment block of a
// source file. Scanning stops at the first line that is neither blank
// nor a line comment, so directives buried in the body are ignored.
func (p *Parser) ScanLeading(src []byte) (FileDirectives, error) {
	var out FileDirectives

	scanner := bufio.NewScanner(bytes.NewReader(src))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "//") {
			break
		}
		if !isDirectiveComment(line) {
			continue
		}
		directive, err := p.ParseComment(line)
		if err != nil {
			return out, err
		}
		switch directive.Verb {
		case "skip":
			out.Skip = true
		case "name":
			out.Name = directive.Arg
		}
	}
	return out, scanner.Err()
}

// isDirectiveComment reports whether a comment line carries a qforge
// directive at all, so plain comments stay silent.
func isDirectiveComment(line string) bool {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "//"))
	return strings.HasPrefix(rest, DirectivePrefix+"::")
}
