package validator

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"bankstmt/iso20022/internal/models"
	"bankstmt/iso20022/internal/schema"
)

// Validate checks a parsed document against a compiled schema and returns
// every violation found, in document order. It never stops at the first
// problem. The function is pure and safe for concurrent use.
func Validate(doc *Document, compiled *schema.CompiledSchema) models.ValidationResult {
	run := &validation{namespace: compiled.TargetNamespace}

	root := doc.Root
	switch {
	case root.Namespace != compiled.TargetNamespace:
		run.add(root, "root element namespace %q does not match %q", root.Namespace, compiled.TargetNamespace)
	case root.Local != compiled.Root.Name:
		run.add(root, "unexpected root element %s, want %s", root.Local, compiled.Root.Name)
	default:
		run.element(root, compiled.Root)
	}

	return models.ValidationResult{
		Valid:      len(run.violations) == 0,
		Violations: run.violations,
	}
}

type validation struct {
	namespace  string
	violations []models.Violation
}

func (v *validation) add(n *Node, format string, args ...interface{}) {
	v.violations = append(v.violations, models.Violation{
		Line:    n.Line,
		Column:  n.Column,
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *validation) element(n *Node, decl *schema.ElementDecl) {
	if decl.Simple != nil {
		v.simpleElement(n, decl.Simple, nil)
		return
	}

	ct := decl.Complex
	if ct.Content != nil {
		v.simpleElement(n, ct.Content, ct.Attributes)
		return
	}

	if strings.TrimSpace(n.Text) != "" {
		v.add(n, "element %s must not contain character data", n.Local)
	}
	v.attributes(n, ct.Attributes)
	for _, child := range n.Children {
		if child.Namespace != v.namespace {
			v.add(child, "element %s is not in namespace %q", child.Local, v.namespace)
		}
	}
	switch ct.Kind {
	case schema.Sequence:
		v.sequence(n, ct)
	case schema.Choice:
		v.choice(n, ct)
	}
}

// simpleElement validates an element carrying text content, with an optional
// attribute list for simple-content complex types.
func (v *validation) simpleElement(n *Node, st *schema.SimpleType, attrs []schema.AttributeDecl) {
	if len(n.Children) > 0 {
		v.add(n.Children[0], "element %s must not contain child elements", n.Local)
		return
	}
	v.attributes(n, attrs)
	v.simpleValue(n, st, strings.TrimSpace(n.Text), "element "+n.Local)
}

func (v *validation) attributes(n *Node, decls []schema.AttributeDecl) {
	for _, decl := range decls {
		if !decl.Required {
			continue
		}
		if n.Attr(decl.Name) == "" {
			v.add(n, "element %s is missing required attribute %s", n.Local, decl.Name)
		}
	}
	for _, attr := range n.Attrs {
		decl := findAttribute(decls, attr.Name)
		if decl == nil {
			v.add(n, "unexpected attribute %s on element %s", attr.Name, n.Local)
			continue
		}
		v.simpleValue(n, decl.Type, attr.Value, fmt.Sprintf("attribute %s of %s", attr.Name, n.Local))
	}
}

func findAttribute(decls []schema.AttributeDecl, name string) *schema.AttributeDecl {
	for i := range decls {
		if decls[i].Name == name {
			return &decls[i]
		}
	}
	return nil
}

// sequence matches children greedily against the declared particles in
// order. Leftover children are unexpected; under-populated particles are
// missing.
func (v *validation) sequence(n *Node, ct *schema.ComplexType) {
	children := n.Children
	i := 0
	for _, decl := range ct.Children {
		count := 0
		for i < len(children) && children[i].Local == decl.Name {
			if children[i].Namespace == v.namespace {
				v.element(children[i], decl)
			}
			i++
			count++
		}
		if count < decl.MinOccurs {
			v.add(n, "element %s is missing required child %s", n.Local, decl.Name)
		}
		if decl.MaxOccurs >= 0 && count > decl.MaxOccurs {
			v.add(n, "element %s occurs %d times in %s, at most %d allowed",
				decl.Name, count, n.Local, decl.MaxOccurs)
		}
	}
	for ; i < len(children); i++ {
		v.add(children[i], "unexpected element %s in %s", children[i].Local, n.Local)
	}
}

// choice requires exactly one child matching one of the alternatives.
func (v *validation) choice(n *Node, ct *schema.ComplexType) {
	if len(n.Children) == 0 {
		v.add(n, "element %s requires one of %s", n.Local, alternativeNames(ct))
		return
	}
	first := n.Children[0]
	matched := false
	for _, decl := range ct.Children {
		if decl.Name == first.Local {
			if first.Namespace == v.namespace {
				v.element(first, decl)
			}
			matched = true
			break
		}
	}
	if !matched {
		v.add(first, "unexpected element %s in %s, want one of %s", first.Local, n.Local, alternativeNames(ct))
	}
	for _, extra := range n.Children[1:] {
		v.add(extra, "unexpected element %s in %s", extra.Local, n.Local)
	}
}

func alternativeNames(ct *schema.ComplexType) string {
	names := make([]string, len(ct.Children))
	for i, decl := range ct.Children {
		names[i] = decl.Name
	}
	return strings.Join(names, ", ")
}

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

func (v *validation) simpleValue(n *Node, st *schema.SimpleType, value, subject string) {
	switch st.Base {
	case schema.BaseString:
		length := utf8.RuneCountInString(value)
		if st.MinLength > 0 && length < st.MinLength {
			v.add(n, "%s: value %q is shorter than %d characters", subject, value, st.MinLength)
			return
		}
		if st.MaxLength > 0 && length > st.MaxLength {
			v.add(n, "%s: value %q is longer than %d characters", subject, value, st.MaxLength)
			return
		}
		if st.Pattern != nil && !st.Pattern.MatchString(value) {
			v.add(n, "%s: value %q does not match the %s pattern", subject, value, st.Name)
			return
		}
		if len(st.Enum) > 0 && !st.AllowsValue(value) {
			v.add(n, "%s: value %q is not a valid %s", subject, value, st.Name)
		}
	case schema.BaseDecimal:
		d, err := decimal.NewFromString(value)
		if err != nil {
			v.add(n, "%s: value %q is not a valid decimal", subject, value)
			return
		}
		if st.FractionDigits >= 0 && fractionDigits(value) > st.FractionDigits {
			v.add(n, "%s: value %q has more than %d fraction digits", subject, value, st.FractionDigits)
		}
		if st.TotalDigits >= 0 && totalDigits(value) > st.TotalDigits {
			v.add(n, "%s: value %q has more than %d digits", subject, value, st.TotalDigits)
		}
		if st.MinInclusive != nil && d.LessThan(*st.MinInclusive) {
			v.add(n, "%s: value %q is less than %s", subject, value, st.MinInclusive)
		}
	case schema.BaseDate:
		if _, err := time.Parse("2006-01-02", value); err != nil {
			v.add(n, "%s: value %q is not a valid date", subject, value)
		}
	case schema.BaseDateTime:
		if !parseableDateTime(value) {
			v.add(n, "%s: value %q is not a valid dateTime", subject, value)
		}
	case schema.BaseBoolean:
		switch value {
		case "true", "false", "0", "1":
		default:
			v.add(n, "%s: value %q is not a valid boolean", subject, value)
		}
	}
}

func parseableDateTime(value string) bool {
	for _, layout := range dateTimeLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}

func fractionDigits(value string) int {
	dot := strings.IndexByte(value, '.')
	if dot < 0 {
		return 0
	}
	return len(value) - dot - 1
}

func totalDigits(value string) int {
	digits := 0
	for _, r := range value {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits
}
