package checker

import (
	"github.com/tsxscript/tsx/internal/ast"
	"github.com/tsxscript/tsx/internal/diag"
	"github.com/tsxscript/tsx/internal/types"
)

// checkStmt dispatches on the statement's concrete type, per spec.md
// §4.F's "Statement checking" list.
func (c *Checker) checkStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.ExpressionStmt:
		c.checkExpr(st.Expression)

	case *ast.Block:
		c.pushScope()
		for _, stmt := range st.Statements {
			c.checkStmt(stmt)
		}
		c.popScope()

	case *ast.VariableDeclaration:
		c.checkVariableDeclaration(st)

	case *ast.If:
		c.checkIf(st)

	case *ast.While:
		c.checkWhileLike(st.Condition, st.Body)

	case *ast.For:
		c.pushScope()
		if st.Init != nil {
			c.checkStmt(st.Init)
		}
		if st.Cond != nil {
			condType := c.checkExpr(st.Cond)
			if !types.Assignable(condType, types.Boolean) {
				c.errorAt(diag.KindTypeMismatch, st.Cond.Pos(),
					"for-loop condition must be assignable to boolean, got %s", condType)
			}
		}
		if st.Update != nil {
			c.checkExpr(st.Update)
		}
		c.loopDepth++
		c.checkStmt(st.Body)
		c.loopDepth--
		c.popScope()

	case *ast.Break:
		if c.loopDepth == 0 {
			c.errorAt(diag.KindGeneric, st.Pos(), "break outside of a loop")
		}

	case *ast.Continue:
		if c.loopDepth == 0 {
			c.errorAt(diag.KindGeneric, st.Pos(), "continue outside of a loop")
		}

	case *ast.Return:
		if st.Value != nil {
			c.checkExpr(st.Value)
		}

	case *ast.FunctionDeclaration:
		c.checkFunctionDeclaration(st)

	case *ast.ClassDeclaration:
		c.checkClassDeclaration(st)

	case *ast.InterfaceDeclaration:
		c.checkInterfaceDeclaration(st)
	}
}

func (c *Checker) checkWhileLike(cond ast.Expr, body ast.Stmt) {
	condType := c.checkExpr(cond)
	if !types.Assignable(condType, types.Boolean) {
		c.errorAt(diag.KindTypeMismatch, cond.Pos(),
			"while condition must be assignable to boolean, got %s", condType)
	}
	c.loopDepth++
	c.checkStmt(body)
	c.loopDepth--
}

func (c *Checker) checkVariableDeclaration(decl *ast.VariableDeclaration) {
	for _, d := range decl.Declarators {
		var declared types.Type
		if d.Annotation != nil {
			declared = c.resolveType(d.Annotation)
		}
		var initType types.Type
		if d.Initializer != nil {
			initType = c.checkExpr(d.Initializer)
		}

		bound := declared
		switch {
		case declared != nil && initType != nil:
			if !types.Assignable(initType, declared) {
				c.errorAt(diag.KindTypeMismatch, d.Initializer.Pos(),
					"cannot assign %s to %s", initType, declared)
			}
		case declared == nil && initType != nil:
			bound = initType
		case declared == nil && initType == nil:
			bound = types.Any
		}

		if c.cur.declaredHere(d.Name) {
			c.errorAt(diag.KindDuplicateDeclaration, decl.Pos(), "%q is already declared in this scope", d.Name)
		}
		c.cur.define(d.Name, bound)
	}
}

func (c *Checker) checkIf(st *ast.If) {
	condType := c.checkExpr(st.Condition)
	if !types.Assignable(condType, types.Boolean) {
		c.errorAt(diag.KindTypeMismatch, st.Condition.Pos(),
			"if condition must be assignable to boolean, got %s", condType)
	}

	thenGuard, elseGuard := c.detectGuard(st.Condition)

	c.pushScope()
	for name, t := range thenGuard {
		c.cur.narrow(name, t)
	}
	c.checkStmt(st.Then)
	c.popScope()

	if st.Else != nil {
		c.pushScope()
		for name, t := range elseGuard {
			c.cur.narrow(name, t)
		}
		c.checkStmt(st.Else)
		c.popScope()
	}
}

// functionSignature builds the Function type implied by a parameter/return-type
// annotation list: a missing annotation is Any (spec.md §4.F: "Build a
// Function type from parameter annotations (missing ⇒ Any) and declared
// return (missing ⇒ Any)").
func (c *Checker) functionSignature(params []ast.Param, ret ast.TypeExpr) *types.Function {
	ps := make([]types.Type, len(params))
	for i, p := range params {
		ps[i] = c.resolveType(p.Annotation)
	}
	return &types.Function{Params: ps, Return: c.resolveType(ret)}
}

func (c *Checker) checkFunctionDeclaration(decl *ast.FunctionDeclaration) {
	if c.cur.declaredHere(decl.Name) {
		c.errorAt(diag.KindDuplicateDeclaration, decl.Pos(), "%q is already declared in this scope", decl.Name)
	}

	c.pushTypeParams(decl.TypeParams)
	fnType := c.functionSignature(decl.Params, decl.ReturnType)
	c.cur.define(decl.Name, fnType)

	c.pushScope()
	for i, p := range decl.Params {
		c.cur.define(p.Name, fnType.Params[i])
	}
	c.checkStmt(decl.Body)
	c.popScope()
	c.popTypeParams()
}

func (c *Checker) checkClassDeclaration(decl *ast.ClassDeclaration) {
	c.registry.Reserve(decl.Name)
	c.pushTypeParams(decl.TypeParams)

	obj := types.NewObject()
	var superType types.Type
	if decl.Extends != "" {
		if t, ok := c.registry.Lookup(decl.Extends); ok {
			superType = t
			if so, ok := t.(*types.Object); ok {
				for _, name := range so.Names {
					obj.AddProperty(name, so.Properties[name])
				}
			}
		} else {
			c.errorAt(diag.KindUndefinedVariable, decl.Pos(), "base class %q is not defined", decl.Extends)
		}
	}

	for _, m := range decl.Members {
		switch m.Kind {
		case ast.MemberProperty:
			t := c.resolveType(m.Annotation)
			if m.Annotation == nil && m.Initializer != nil {
				t = c.checkExpr(m.Initializer)
			}
			obj.AddProperty(m.Name, t)
		case ast.MemberMethod:
			obj.AddProperty(m.Name, c.functionSignature(m.Params, m.ReturnType))
		case ast.MemberGetter:
			obj.AddProperty(m.Name, c.resolveType(m.ReturnType))
		case ast.MemberSetter:
			// A setter contributes no readable property type of its own;
			// a getter/setter pair sharing a name is resolved by whichever
			// is seen last if both are declared (this subset doesn't merge
			// them, matching the Non-goal on full accessor semantics).
		}
	}
	_ = superType
	obj.IsInterface = false
	c.registry.Define(decl.Name, obj)

	// Check member bodies with `this` bound to the class's own type and
	// fields/parameters in a fresh scope, per method.
	for _, m := range decl.Members {
		if m.Body == nil {
			continue
		}
		c.pushScope()
		c.cur.define("this", obj)
		var params []ast.Param
		switch m.Kind {
		case ast.MemberConstructor, ast.MemberMethod, ast.MemberSetter:
			params = m.Params
		}
		sig := c.functionSignature(params, m.ReturnType)
		for i, p := range params {
			c.cur.define(p.Name, sig.Params[i])
		}
		c.checkStmt(m.Body)
		c.popScope()
	}

	c.popTypeParams()
	c.cur.define(decl.Name, obj)
}

func (c *Checker) checkInterfaceDeclaration(decl *ast.InterfaceDeclaration) {
	c.registry.Reserve(decl.Name)
	c.pushTypeParams(decl.TypeParams)

	obj := types.NewObject()
	obj.IsInterface = true
	for _, ext := range decl.Extends {
		if t, ok := c.registry.Lookup(ext); ok {
			if eo, ok := t.(*types.Object); ok {
				for _, name := range eo.Names {
					obj.AddProperty(name, eo.Properties[name])
				}
			}
		}
	}
	for _, m := range decl.Members {
		obj.AddProperty(m.Name, c.resolveType(m.Type))
	}
	c.popTypeParams()
	c.registry.Define(decl.Name, obj)
}
