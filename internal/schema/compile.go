package schema

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"
)

// BaseType is the XSD primitive a simple type restricts.
type BaseType int

const (
	BaseString BaseType = iota
	BaseDecimal
	BaseDate
	BaseDateTime
	BaseBoolean
)

// GroupKind is the content model of a complex type.
type GroupKind int

const (
	// Sequence requires children in declaration order.
	Sequence GroupKind = iota
	// Choice requires exactly one of the declared alternatives.
	Choice
)

// SimpleType is a compiled simple type: a primitive base plus its facets.
// Zero-valued facets are unset (FractionDigits/TotalDigits use -1 for unset).
type SimpleType struct {
	Name           string
	Base           BaseType
	Pattern        *regexp.Regexp
	Enum           []string
	MinLength      int
	MaxLength      int
	FractionDigits int
	TotalDigits    int
	MinInclusive   *decimal.Decimal
}

// AllowsValue reports whether s is one of the enumerated values. It is only
// meaningful when the type has an enumeration facet.
func (t *SimpleType) AllowsValue(s string) bool {
	for _, v := range t.Enum {
		if v == s {
			return true
		}
	}
	return false
}

// AttributeDecl is a compiled attribute declaration.
type AttributeDecl struct {
	Name     string
	Required bool
	Type     *SimpleType
}

// ComplexType is a compiled complex type: either a model group of child
// elements, or simple content (text plus attributes).
type ComplexType struct {
	Name       string
	Kind       GroupKind
	Children   []*ElementDecl
	Content    *SimpleType // non-nil for simple content
	Attributes []AttributeDecl
}

// ElementDecl is a compiled element particle. Exactly one of Complex or
// Simple is set. MaxOccurs is -1 for unbounded.
type ElementDecl struct {
	Name      string
	MinOccurs int
	MaxOccurs int
	Complex   *ComplexType
	Simple    *SimpleType
}

// CompiledSchema is an XSD compiled into a validation-ready form. It is
// immutable after compilation and safe for concurrent use.
type CompiledSchema struct {
	TargetNamespace string
	Root            *ElementDecl
}

// Raw XSD structures, mapped with encoding/xml. The subset covers what the
// bundled ISO 20022 schemas use: named complex/simple types, sequences,
// choices, simple-content extensions, attributes, and restriction facets.
type xsdSchema struct {
	TargetNamespace string           `xml:"targetNamespace,attr"`
	Elements        []xsdElement     `xml:"element"`
	ComplexTypes    []xsdComplexType `xml:"complexType"`
	SimpleTypes     []xsdSimpleType  `xml:"simpleType"`
}

type xsdElement struct {
	Name      string `xml:"name,attr"`
	Type      string `xml:"type,attr"`
	MinOccurs string `xml:"minOccurs,attr"`
	MaxOccurs string `xml:"maxOccurs,attr"`
}

type xsdComplexType struct {
	Name          string            `xml:"name,attr"`
	Sequence      *xsdGroup         `xml:"sequence"`
	Choice        *xsdGroup         `xml:"choice"`
	SimpleContent *xsdSimpleContent `xml:"simpleContent"`
}

type xsdGroup struct {
	Elements []xsdElement `xml:"element"`
}

type xsdSimpleContent struct {
	Extension struct {
		Base       string         `xml:"base,attr"`
		Attributes []xsdAttribute `xml:"attribute"`
	} `xml:"extension"`
}

type xsdAttribute struct {
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`
	Use  string `xml:"use,attr"`
}

type xsdFacet struct {
	Value string `xml:"value,attr"`
}

type xsdSimpleType struct {
	Name        string `xml:"name,attr"`
	Restriction struct {
		Base           string     `xml:"base,attr"`
		Patterns       []xsdFacet `xml:"pattern"`
		Enumerations   []xsdFacet `xml:"enumeration"`
		MinLength      *xsdFacet  `xml:"minLength"`
		MaxLength      *xsdFacet  `xml:"maxLength"`
		FractionDigits *xsdFacet  `xml:"fractionDigits"`
		TotalDigits    *xsdFacet  `xml:"totalDigits"`
		MinInclusive   *xsdFacet  `xml:"minInclusive"`
	} `xml:"restriction"`
}

// Compile parses an XSD resource and builds the CompiledSchema used by the
// validator. Compilation is strict: an unresolved type reference is an error.
func Compile(data []byte) (*CompiledSchema, error) {
	var raw xsdSchema
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse XSD: %w", err)
	}
	if len(raw.Elements) == 0 {
		return nil, fmt.Errorf("XSD declares no root element")
	}

	simples := make(map[string]*SimpleType, len(raw.SimpleTypes))
	for _, st := range raw.SimpleTypes {
		compiled, err := compileSimpleType(st)
		if err != nil {
			return nil, err
		}
		simples[st.Name] = compiled
	}

	// Complex types may reference each other, so allocate shells first and
	// resolve children in a second pass.
	complexes := make(map[string]*ComplexType, len(raw.ComplexTypes))
	for _, ct := range raw.ComplexTypes {
		complexes[ct.Name] = &ComplexType{Name: ct.Name}
	}
	for _, ct := range raw.ComplexTypes {
		if err := fillComplexType(complexes[ct.Name], ct, complexes, simples); err != nil {
			return nil, err
		}
	}

	rootRaw := raw.Elements[0]
	root, err := compileElement(rootRaw, complexes, simples)
	if err != nil {
		return nil, err
	}
	return &CompiledSchema{TargetNamespace: raw.TargetNamespace, Root: root}, nil
}

func fillComplexType(target *ComplexType, raw xsdComplexType, complexes map[string]*ComplexType, simples map[string]*SimpleType) error {
	switch {
	case raw.SimpleContent != nil:
		ext := raw.SimpleContent.Extension
		base, ok := simples[ext.Base]
		if !ok {
			return fmt.Errorf("complex type %s extends unknown simple type %s", raw.Name, ext.Base)
		}
		target.Content = base
		for _, attr := range ext.Attributes {
			attrType, ok := simples[attr.Type]
			if !ok {
				return fmt.Errorf("attribute %s of %s references unknown type %s", attr.Name, raw.Name, attr.Type)
			}
			target.Attributes = append(target.Attributes, AttributeDecl{
				Name:     attr.Name,
				Required: attr.Use == "required",
				Type:     attrType,
			})
		}
	case raw.Sequence != nil:
		target.Kind = Sequence
		return fillChildren(target, raw.Name, raw.Sequence, complexes, simples)
	case raw.Choice != nil:
		target.Kind = Choice
		return fillChildren(target, raw.Name, raw.Choice, complexes, simples)
	default:
		return fmt.Errorf("complex type %s has no supported content model", raw.Name)
	}
	return nil
}

func fillChildren(target *ComplexType, typeName string, group *xsdGroup, complexes map[string]*ComplexType, simples map[string]*SimpleType) error {
	for _, el := range group.Elements {
		child, err := compileElement(el, complexes, simples)
		if err != nil {
			return fmt.Errorf("in type %s: %w", typeName, err)
		}
		target.Children = append(target.Children, child)
	}
	return nil
}

func compileElement(raw xsdElement, complexes map[string]*ComplexType, simples map[string]*SimpleType) (*ElementDecl, error) {
	decl := &ElementDecl{
		Name:      raw.Name,
		MinOccurs: 1,
		MaxOccurs: 1,
	}
	if raw.MinOccurs != "" {
		n, err := strconv.Atoi(raw.MinOccurs)
		if err != nil {
			return nil, fmt.Errorf("element %s has invalid minOccurs %q", raw.Name, raw.MinOccurs)
		}
		decl.MinOccurs = n
	}
	if raw.MaxOccurs != "" {
		if raw.MaxOccurs == "unbounded" {
			decl.MaxOccurs = -1
		} else {
			n, err := strconv.Atoi(raw.MaxOccurs)
			if err != nil {
				return nil, fmt.Errorf("element %s has invalid maxOccurs %q", raw.Name, raw.MaxOccurs)
			}
			decl.MaxOccurs = n
		}
	}

	if ct, ok := complexes[raw.Type]; ok {
		decl.Complex = ct
		return decl, nil
	}
	if st, ok := simples[raw.Type]; ok {
		decl.Simple = st
		return decl, nil
	}
	return nil, fmt.Errorf("element %s references unknown type %s", raw.Name, raw.Type)
}

func compileSimpleType(raw xsdSimpleType) (*SimpleType, error) {
	st := &SimpleType{
		Name:           raw.Name,
		FractionDigits: -1,
		TotalDigits:    -1,
	}

	switch raw.Restriction.Base {
	case "xs:string":
		st.Base = BaseString
	case "xs:decimal":
		st.Base = BaseDecimal
	case "xs:date":
		st.Base = BaseDate
	case "xs:dateTime":
		st.Base = BaseDateTime
	case "xs:boolean":
		st.Base = BaseBoolean
	default:
		return nil, fmt.Errorf("simple type %s restricts unsupported base %s", raw.Name, raw.Restriction.Base)
	}

	if len(raw.Restriction.Patterns) > 0 {
		// XSD patterns are implicitly anchored.
		expr := "^(?:" + raw.Restriction.Patterns[0].Value + ")$"
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("simple type %s has invalid pattern: %w", raw.Name, err)
		}
		st.Pattern = re
	}
	for _, e := range raw.Restriction.Enumerations {
		st.Enum = append(st.Enum, e.Value)
	}

	var err error
	if st.MinLength, err = facetInt(raw.Restriction.MinLength, raw.Name, "minLength", 0); err != nil {
		return nil, err
	}
	if st.MaxLength, err = facetInt(raw.Restriction.MaxLength, raw.Name, "maxLength", 0); err != nil {
		return nil, err
	}
	if st.FractionDigits, err = facetInt(raw.Restriction.FractionDigits, raw.Name, "fractionDigits", -1); err != nil {
		return nil, err
	}
	if st.TotalDigits, err = facetInt(raw.Restriction.TotalDigits, raw.Name, "totalDigits", -1); err != nil {
		return nil, err
	}
	if raw.Restriction.MinInclusive != nil {
		min, err := decimal.NewFromString(raw.Restriction.MinInclusive.Value)
		if err != nil {
			return nil, fmt.Errorf("simple type %s has invalid minInclusive: %w", raw.Name, err)
		}
		st.MinInclusive = &min
	}
	return st, nil
}

func facetInt(f *xsdFacet, typeName, facetName string, unset int) (int, error) {
	if f == nil {
		return unset, nil
	}
	n, err := strconv.Atoi(f.Value)
	if err != nil {
		return unset, fmt.Errorf("simple type %s has invalid %s %q", typeName, facetName, f.Value)
	}
	return n, nil
}
