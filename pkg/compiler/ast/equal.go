package ast

// Equal reports whether a and b are structurally identical, ignoring
// source positions.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch x := a.(type) {
	case *Program:
		y, ok := b.(*Program)
		return ok && Equal(x.Command, y.Command)

	case *SequentialCommand:
		y, ok := b.(*SequentialCommand)
		return ok && Equal(x.First, y.First) && Equal(x.Second, y.Second)
	case *IfCommand:
		y, ok := b.(*IfCommand)
		return ok && Equal(x.Cond, y.Cond) && Equal(x.Then, y.Then) && Equal(x.Else, y.Else)
	case *WhileCommand:
		y, ok := b.(*WhileCommand)
		return ok && Equal(x.Cond, y.Cond) && Equal(x.Body, y.Body)
	case *LetCommand:
		y, ok := b.(*LetCommand)
		return ok && Equal(x.Decl, y.Decl) && Equal(x.Body, y.Body)
	case *AssignCommand:
		y, ok := b.(*AssignCommand)
		return ok && x.Name == y.Name && Equal(x.Value, y.Value)
	case *CallCommand:
		y, ok := b.(*CallCommand)
		return ok && x.Name == y.Name && Equal(x.Arg, y.Arg)
	case *ReturnCommand:
		y, ok := b.(*ReturnCommand)
		return ok && Equal(x.Value, y.Value)

	case *SequentialDeclaration:
		y, ok := b.(*SequentialDeclaration)
		return ok && Equal(x.First, y.First) && Equal(x.Second, y.Second)
	case *ConstDeclaration:
		y, ok := b.(*ConstDeclaration)
		return ok && x.Name == y.Name && Equal(x.Value, y.Value)
	case *VarDeclaration:
		y, ok := b.(*VarDeclaration)
		return ok && x.Name == y.Name && x.Type == y.Type
	case *FuncDeclaration:
		y, ok := b.(*FuncDeclaration)
		if !ok || x.Name != y.Name || x.ReturnType != y.ReturnType || len(x.Params) != len(y.Params) {
			return false
		}
		for i := range x.Params {
			if x.Params[i] != y.Params[i] {
				return false
			}
		}
		return Equal(x.Body, y.Body)

	case *IntegerLiteral:
		y, ok := b.(*IntegerLiteral)
		return ok && x.Value == y.Value
	case *VnameExpression:
		y, ok := b.(*VnameExpression)
		return ok && x.Name == y.Name
	case *UnaryExpression:
		y, ok := b.(*UnaryExpression)
		return ok && x.Op == y.Op && Equal(x.Operand, y.Operand)
	case *BinaryExpression:
		y, ok := b.(*BinaryExpression)
		return ok && x.Op == y.Op && Equal(x.Left, y.Left) && Equal(x.Right, y.Right)
	case *CallExpression:
		y, ok := b.(*CallExpression)
		return ok && x.Name == y.Name && Equal(x.Arg, y.Arg)
	case *ArgList:
		y, ok := b.(*ArgList)
		return ok && Equal(x.Head, y.Head) && Equal(x.Tail, y.Tail)
	}
	return false
}
