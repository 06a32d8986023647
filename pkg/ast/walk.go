package ast

// Inspect traverses the tree rooted at n depth-first, in source order,
// calling fn for each node. If fn returns false the children of that node
// are skipped. Absent optional children are not visited.
func Inspect(n Node, fn func(Node) bool) {
	if isNil(n) || !fn(n) {
		return
	}

	switch n := n.(type) {
	case *CompilationUnit:
		for _, d := range n.Decls {
			Inspect(d, fn)
		}

	case *UseDecl:
		Inspect(n.Path, fn)

	case *FuncDecl:
		inspectSignature(&n.Signature, fn)
		Inspect(n.Body, fn)

	case *ExternFuncDecl:
		inspectSignature(&n.Signature, fn)

	case *StructDecl:
		Inspect(n.Name, fn)
		for _, m := range n.Members {
			Inspect(m, fn)
		}

	case *Field:
		Inspect(n.Name, fn)
		Inspect(n.Type, fn)

	case *IdentPath:
		for _, s := range n.Segments {
			Inspect(s, fn)
		}

	case *ExprStmt:
		Inspect(n.X, fn)

	case *LetStmt:
		Inspect(n.Name, fn)
		Inspect(n.Type, fn)
		Inspect(n.Value, fn)

	case *IfStmt:
		Inspect(n.Cond, fn)
		Inspect(n.Then, fn)
		Inspect(n.Else, fn)

	case *WhileStmt:
		Inspect(n.Cond, fn)
		Inspect(n.Body, fn)

	case *BlockStmt:
		for _, s := range n.Stmts {
			Inspect(s, fn)
		}

	case *ReturnStmt:
		Inspect(n.Value, fn)

	case *BinaryExpr:
		Inspect(n.Left, fn)
		Inspect(n.Right, fn)

	case *UnaryExpr:
		Inspect(n.Operand, fn)

	case *AssignExpr:
		Inspect(n.Target, fn)
		Inspect(n.Value, fn)

	case *MemberExpr:
		Inspect(n.Owner, fn)
		Inspect(n.Member, fn)

	case *IndexExpr:
		Inspect(n.Owner, fn)
		Inspect(n.Index, fn)

	case *CallExpr:
		Inspect(n.Callee, fn)
		for _, a := range n.Args {
			Inspect(a, fn)
		}

	case *PathExpr:
		Inspect(n.Path, fn)
	}
}

func inspectSignature(sig *Signature, fn func(Node) bool) {
	Inspect(sig.Name, fn)
	for _, p := range sig.Params {
		Inspect(p, fn)
	}
	Inspect(sig.ReturnType, fn)
}

// isNil reports whether n is nil or a nil pointer of a node type.
func isNil(n Node) bool {
	switch n := n.(type) {
	case nil:
		return true
	case *Ident:
		return n == nil
	case *IdentPath:
		return n == nil
	case *Field:
		return n == nil
	case *BlockStmt:
		return n == nil
	case *ExprStmt:
		return n == nil
	case *CompilationUnit:
		return n == nil
	}
	return false
}
