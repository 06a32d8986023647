package lsp

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/haiku/pkg/token"
)

// getHover describes the token under the cursor: the declaration a name
// refers to, a literal's value or a keyword.
func (s *Server) getHover(params HoverParams) *Hover {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil || doc.analysis == nil {
		return nil
	}
	tok, ok := doc.analysis.TokenAt(doc.PositionToOffset(params.Position))
	if !ok {
		return nil
	}

	var text string
	switch {
	case tok.Type == token.IDENT:
		b := doc.analysis.Resolve(tok)
		if b == nil {
			return nil
		}
		text = "```haiku\n" + b.Detail + "\n```"
		if b.Doc != "" {
			text += "\n\n" + b.Doc
		}
	case tok.Type == token.INT:
		kind := tok.Int.Kind.String()
		if kind == "" {
			kind = "untyped"
		}
		text = fmt.Sprintf("integer literal `%s` (%s)", tok.Int.String(), kind)
	case tok.Type == token.FLOAT:
		kind := tok.Float.Kind.String()
		if kind == "" {
			kind = "untyped"
		}
		text = fmt.Sprintf("float literal `%s` (%s)", tok.Float.String(), kind)
	case token.IsKeyword(tok.Type):
		text = fmt.Sprintf("keyword `%s`", tok.Literal)
	default:
		return nil
	}

	r := doc.Range(tok.Span.Start, tok.Span.End)
	return &Hover{
		Contents: MarkupContent{Kind: MarkupKindMarkdown, Value: text},
		Range:    &r,
	}
}

// getDefinition returns the declaration of the name under the cursor.
func (s *Server) getDefinition(params DefinitionParams) *Location {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil || doc.analysis == nil {
		return nil
	}
	tok, ok := doc.analysis.TokenAt(doc.PositionToOffset(params.Position))
	if !ok {
		return nil
	}
	b := doc.analysis.Resolve(tok)
	if b == nil {
		return nil
	}
	return &Location{
		URI:   doc.URI,
		Range: doc.Range(b.NameSpan.Start, b.NameSpan.End),
	}
}

// getCompletions offers the names in scope at the cursor, then keywords.
// After `.` only struct members are offered.
func (s *Server) getCompletions(params CompletionParams) []CompletionItem {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil || doc.analysis == nil {
		return nil
	}
	offset := doc.PositionToOffset(params.Position)
	word, start, _ := doc.GetWordAtPosition(params.Position)
	prefix := word[:offset-start]

	items := []CompletionItem{}
	if start > 0 && doc.Content[start-1] == '.' {
		for _, b := range doc.analysis.bindings {
			if b.Kind == BindingMember && strings.HasPrefix(b.Name, prefix) {
				items = append(items, bindingItem(b, "1"))
			}
		}
		return items
	}

	for _, b := range doc.analysis.VisibleAt(offset) {
		if strings.HasPrefix(b.Name, prefix) {
			items = append(items, bindingItem(b, "1"))
		}
	}
	for _, kw := range token.Keywords() {
		if strings.HasPrefix(kw, prefix) {
			items = append(items, CompletionItem{Label: kw, Kind: CompletionItemKindKeyword, SortText: "2" + kw})
		}
	}
	return items
}

func bindingItem(b *Binding, rank string) CompletionItem {
	return CompletionItem{
		Label:         b.Name,
		Kind:          completionKind(b.Kind),
		Detail:        b.Detail,
		Documentation: b.Doc,
		SortText:      rank + b.Name,
	}
}

func completionKind(k BindingKind) CompletionItemKind {
	switch k {
	case BindingFunction, BindingExtern:
		return CompletionItemKindFunction
	case BindingStruct:
		return CompletionItemKindStruct
	case BindingMember:
		return CompletionItemKindField
	case BindingImport:
		return CompletionItemKindModule
	default:
		return CompletionItemKindVariable
	}
}

// getDocumentSymbols lists the top-level declarations with their
// parameters or members.
func (s *Server) getDocumentSymbols(params DocumentSymbolParams) []DocumentSymbol {
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil || doc.analysis == nil {
		return nil
	}
	out := []DocumentSymbol{}
	for _, b := range doc.analysis.Decls {
		out = append(out, documentSymbol(doc, b))
	}
	return out
}

func documentSymbol(doc *Document, b *Binding) DocumentSymbol {
	sym := DocumentSymbol{
		Name:           b.Name,
		Detail:         b.Detail,
		Kind:           symbolKind(b.Kind),
		Range:          doc.Range(b.Decl.Start, b.Decl.End),
		SelectionRange: doc.Range(b.NameSpan.Start, b.NameSpan.End),
	}
	for _, child := range b.Children {
		sym.Children = append(sym.Children, documentSymbol(doc, child))
	}
	return sym
}

func symbolKind(k BindingKind) SymbolKind {
	switch k {
	case BindingFunction, BindingExtern:
		return SymbolKindFunction
	case BindingStruct:
		return SymbolKindStruct
	case BindingMember:
		return SymbolKindField
	case BindingImport:
		return SymbolKindModule
	default:
		return SymbolKindVariable
	}
}
