package extractor

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/qforge/qforge/internal/annotations"
	"github.com/qforge/qforge/internal/models"
)

// ArgsSuffix is the fixed suffix an exported type or interface must
// carry to be picked up as an operation's argument type.
const ArgsSuffix = "Args"

// placeholderParamName is used when the factory's first parameter is a
// destructuring pattern rather than a plain identifier.
const placeholderParamName = "args"

// Reporter receives advisory diagnostics for files that could not be
// processed. Extraction itself never fails hard.
type Reporter interface {
	ReportParseError(file string, line, column int, detail string)
}

// Extraction is the structural metadata pulled from one source file.
// A nil Extraction means the file contributes no operation.
type Extraction struct {
	FactoryName  string // exported function-valued binding chosen as the factory
	ParamName    string // first parameter name, placeholder for patterns
	ParamType    string // declared type text of the first parameter, if annotated
	ArgsType     string // first exported type/interface ending in ArgsSuffix
	HasParam     bool
	NameOverride string // set by a qforge::name directive
}

// candidate is one exported function-valued binding, in declaration order.
type candidate struct {
	name   string
	fn     *sitter.Node // the function-like value node
	params *sitter.Node // formal_parameters, or a bare identifier parameter
}

// Extractor parses one TypeScript source file at a time and extracts
// operation metadata. It is not safe for concurrent use; callers create
// one per goroutine.
type Extractor struct {
	parser     *sitter.Parser
	directives *annotations.Parser
	reporter   Reporter
}

// New creates an extractor reporting diagnostics to the given reporter.
func New(reporter Reporter) *Extractor {
	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())
	return &Extractor{
		parser:     parser,
		directives: annotations.NewParser(),
		reporter:   reporter,
	}
}

// Extract produces the structural metadata for one file, or nil when the
// file contributes no operation. Malformed syntax is reported through
// the Reporter and treated as "nothing to extract"; a well-formed file
// with no qualifying exports yields nil silently.
func (e *Extractor) Extract(ctx context.Context, path string, src []byte, kind models.Kind) *Extraction {
	if len(strings.TrimSpace(string(src))) == 0 {
		return nil
	}

	directives, err := e.directives.ScanLeading(src)
	if err != nil {
		e.reporter.ReportParseError(path, 0, 0, err.Error())
		return nil
	}
	if directives.Skip {
		return nil
	}

	tree, err := e.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		e.reporter.ReportParseError(path, 0, 0, err.Error())
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		line, column := firstErrorPosition(root)
		e.reporter.ReportParseError(path, line, column, "syntax error")
		return nil
	}

	var (
		candidates []candidate
		argsTypes  []string
	)
	collectExports(root, src, &candidates, &argsTypes)

	chosen := chooseFactory(candidates, kind)
	if chosen == nil {
		return nil
	}

	out := &Extraction{
		FactoryName:  chosen.name,
		NameOverride: directives.Name,
	}
	if len(argsTypes) > 0 {
		out.ArgsType = argsTypes[0]
	}
	e.extractFirstParam(chosen, src, out)

	// A declared parameter type wins over the first-declared Args type
	// when it names one of the file's own exported Args types.
	for _, name := range argsTypes {
		if out.ParamType == name {
			out.ArgsType = name
			break
		}
	}
	return out
}

// chooseFactory applies the ranked preference rule: an exact
// canonical-name match wins, otherwise the first exported
// function-valued binding in declaration order.
func chooseFactory(candidates []candidate, kind models.Kind) *candidate {
	canonical := kind.CanonicalFactoryName()
	for i := range candidates {
		if candidates[i].name == canonical {
			return &candidates[i]
		}
	}
	if len(candidates) > 0 {
		return &candidates[0]
	}
	return nil
}

// collectExports walks the top level of the file collecting exported
// function-valued bindings and exported Args-suffixed type names, both
// in declaration order.
func collectExports(root *sitter.Node, src []byte, candidates *[]candidate, argsTypes *[]string) {
	text := func(n *sitter.Node) string {
		return string(src[n.StartByte():n.EndByte()])
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "export_statement" {
			continue
		}
		decl := child.ChildByFieldName("declaration")
		if decl == nil {
			continue
		}

		switch decl.Type() {
		case "lexical_declaration", "variable_declaration":
			for j := 0; j < int(decl.NamedChildCount()); j++ {
				declarator := decl.NamedChild(j)
				if declarator.Type() != "variable_declarator" {
					continue
				}
				nameNode := declarator.ChildByFieldName("name")
				valueNode := declarator.ChildByFieldName("value")
				if nameNode == nil || valueNode == nil || nameNode.Type() != "identifier" {
					continue
				}
				if !isFunctionValued(valueNode.Type()) {
					continue
				}
				*candidates = append(*candidates, candidate{
					name:   text(nameNode),
					fn:     valueNode,
					params: functionParams(valueNode),
				})
			}

		case "function_declaration":
			nameNode := decl.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			*candidates = append(*candidates, candidate{
				name:   text(nameNode),
				fn:     decl,
				params: decl.ChildByFieldName("parameters"),
			})

		case "interface_declaration", "type_alias_declaration":
			nameNode := decl.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			if name := text(nameNode); strings.HasSuffix(name, ArgsSuffix) {
				*argsTypes = append(*argsTypes, name)
			}
		}
	}
}

// isFunctionValued reports whether a variable declarator's value node is
// a function-like expression.
func isFunctionValued(nodeType string) bool {
	switch nodeType {
	case "arrow_function", "function", "function_expression":
		return true
	}
	return false
}

// functionParams locates the parameter list of a function-like node.
// A bare-identifier arrow function carries its single parameter in the
// "parameter" field instead of a formal_parameters list.
func functionParams(fn *sitter.Node) *sitter.Node {
	if params := fn.ChildByFieldName("parameters"); params != nil {
		return params
	}
	return fn.ChildByFieldName("parameter")
}

// extractFirstParam fills in the first-parameter metadata of the chosen
// factory, if it has one.
func (e *Extractor) extractFirstParam(c *candidate, src []byte, out *Extraction) {
	text := func(n *sitter.Node) string {
		return string(src[n.StartByte():n.EndByte()])
	}

	params := c.params
	if params == nil {
		return
	}

	// Bare-identifier arrow function parameter.
	if params.Type() == "identifier" {
		out.HasParam = true
		out.ParamName = text(params)
		return
	}

	var first *sitter.Node
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(i)
		if child.Type() == "required_parameter" || child.Type() == "optional_parameter" {
			first = child
			break
		}
	}
	if first == nil {
		return
	}

	out.HasParam = true
	out.ParamName = placeholderParamName
	if pattern := first.ChildByFieldName("pattern"); pattern != nil && pattern.Type() == "identifier" {
		out.ParamName = text(pattern)
	}
	if annotation := first.ChildByFieldName("type"); annotation != nil && annotation.NamedChildCount() > 0 {
		out.ParamType = text(annotation.NamedChild(0))
	}
}

// firstErrorPosition locates the first ERROR node, for diagnostics.
func firstErrorPosition(root *sitter.Node) (line, column int) {
	var find func(n *sitter.Node) *sitter.Node
	find = func(n *sitter.Node) *sitter.Node {
		if n.Type() == "ERROR" || n.IsMissing() {
			return n
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if found := find(n.Child(i)); found != nil {
				return found
			}
		}
		return nil
	}

	if node := find(root); node != nil {
		point := node.StartPoint()
		return int(point.Row) + 1, int(point.Column) + 1
	}
	return 1, 1
}
