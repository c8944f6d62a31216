package ast

import (
	"fmt"
	"strings"

	"github.com/tsxscript/tsx/internal/token"
)

// Visibility is a class member's access modifier.
type Visibility int

const (
	Public Visibility = iota
	Private
	Protected
)

func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Protected:
		return "protected"
	default:
		return "public"
	}
}

// MemberKind distinguishes the five class member shapes spec.md §3 lists.
type MemberKind int

const (
	MemberProperty MemberKind = iota
	MemberMethod
	MemberConstructor
	MemberGetter
	MemberSetter
)

// ClassMember is one property, method, constructor, getter, or setter of a
// ClassDeclaration body. Fields not relevant to Kind are left zero: a
// MemberProperty has no Params/Body, a MemberMethod has no Annotation, etc.
type ClassMember struct {
	Kind       MemberKind
	Name       string
	Visibility Visibility
	Static     bool
	ReadOnly   bool // MemberProperty only

	Annotation  TypeExpr // MemberProperty: declared type
	Initializer Expr     // MemberProperty: optional initializer

	Params     []Param  // MemberMethod/MemberConstructor/MemberSetter
	ReturnType TypeExpr // MemberMethod/MemberGetter
	Body       *Block   // MemberMethod/MemberConstructor/MemberGetter/MemberSetter
}

func (m ClassMember) String() string {
	mods := m.Visibility.String()
	if m.Static {
		mods += " static"
	}
	if m.ReadOnly {
		mods += " readonly"
	}
	switch m.Kind {
	case MemberProperty:
		s := fmt.Sprintf("%s %s", mods, m.Name)
		if m.Annotation != nil {
			s += ": " + m.Annotation.String()
		}
		if m.Initializer != nil {
			s += " = " + m.Initializer.String()
		}
		return s + ";"
	case MemberConstructor:
		return fmt.Sprintf("%s constructor(%s) %s", mods, paramList(m.Params), m.Body.String())
	case MemberGetter:
		return fmt.Sprintf("%s get %s()%s %s", mods, m.Name, retAnnotation(m.ReturnType), m.Body.String())
	case MemberSetter:
		return fmt.Sprintf("%s set %s(%s) %s", mods, m.Name, paramList(m.Params), m.Body.String())
	default: // MemberMethod
		return fmt.Sprintf("%s %s(%s)%s %s", mods, m.Name, paramList(m.Params), retAnnotation(m.ReturnType), m.Body.String())
	}
}

func paramList(params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if p.Annotation != nil {
			parts[i] = fmt.Sprintf("%s: %s", p.Name, p.Annotation.String())
		} else {
			parts[i] = p.Name
		}
	}
	return strings.Join(parts, ", ")
}

func retAnnotation(t TypeExpr) string {
	if t == nil {
		return ""
	}
	return ": " + t.String()
}

// ClassDeclaration is a `class Name<T> extends Base implements I1, I2 {...}`
// declaration.
type ClassDeclaration struct {
	stmtBase
	Name       string
	TypeParams []string
	Extends    string // "" if absent
	Implements []string
	Members    []ClassMember
}

func NewClassDeclaration(pos token.Position, name string) *ClassDeclaration {
	return &ClassDeclaration{stmtBase: stmtBase{base{pos}}, Name: name}
}

func (c *ClassDeclaration) String() string {
	tp := ""
	if len(c.TypeParams) > 0 {
		tp = "<" + strings.Join(c.TypeParams, ", ") + ">"
	}
	head := fmt.Sprintf("class %s%s", c.Name, tp)
	if c.Extends != "" {
		head += " extends " + c.Extends
	}
	if len(c.Implements) > 0 {
		head += " implements " + strings.Join(c.Implements, ", ")
	}
	if len(c.Members) == 0 {
		return head + " {}"
	}
	var sb stringBuilder
	for _, m := range c.Members {
		sb.writeLine(indent(m.String()))
	}
	return head + " {\n" + sb.String() + "\n}"
}
