package main

import (
	"bytes"
	"embed"
	"fmt"
	"go/format"
	"go/token"
	"log"
	"strconv"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"github.com/apparentlymart/instrinfo/instrinfo"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"join": strings.Join,
}).ParseFS(templatesFS, "templates/*.tmpl"))

type goConst struct {
	Name  string
	Value string
}

type goList struct {
	Name  string
	Elems []string
}

type goDesc struct {
	Opcode  int
	Name    string
	Literal string
}

type goRowCase struct {
	Opcodes []string
	Row     int
}

type goTables struct {
	Source  string
	Package string
	Target  string

	Opcodes      []goConst
	Sched        []goConst
	Flags        []goConst
	OperandTypes []goConst
	OpNames      []goConst

	ImplicitLists []goList
	OperandInfos  []goList
	Descs         []goDesc

	NameData    string
	NameOffsets string

	NumNames    int
	OperandRows []string
	RowCases    []goRowCase
}

// generateGo renders the compiled tables as a Go source file in package
// pkg. If the result is not valid Go, the unformatted source is returned
// along with the error so that it can be inspected.
func generateGo(tables *instrinfo.Tables, pkg, source string) ([]byte, error) {
	data, err := buildGoTables(tables, pkg, source)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = templates.ExecuteTemplate(&buf, "tables.go.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("failed to execute tables.go.tmpl template: %v", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), fmt.Errorf("generated Go source is invalid: %v", err)
	}
	return formatted, nil
}

func buildGoTables(tables *instrinfo.Tables, pkg, source string) (*goTables, error) {
	ret := &goTables{
		Source:  source,
		Package: pkg,
		Target:  exportedIdent(tables.TargetName),
	}
	scope := newGoScope(ret.Target)

	opcodeNames := make([]string, len(tables.Instructions.Entries))
	for i, ent := range tables.Instructions.Entries {
		opcodeNames[i] = goIdent(ent.Name)
		if err := scope.declare(opcodeNames[i], "instruction "+ent.Name); err != nil {
			return nil, err
		}
		ret.Opcodes = append(ret.Opcodes, goConst{opcodeNames[i], strconv.Itoa(ent.Value)})
	}

	var err error
	ret.Sched, err = scope.enumConsts(tables.SchedClasses, "Sched", "scheduling class")
	if err != nil {
		return nil, err
	}
	ret.OperandTypes, err = scope.enumConsts(tables.OperandTypes, "OperandType", "operand type")
	if err != nil {
		return nil, err
	}
	ret.OpNames, err = scope.enumConsts(tables.OperandNames, "OpName", "operand name")
	if err != nil {
		return nil, err
	}
	for _, e := range []instrinfo.Enum{tables.Instructions, tables.SchedClasses, tables.OperandTypes, tables.OperandNames} {
		if err := scope.declare(e.End.Name, "the end of the "+e.Name+" enumeration"); err != nil {
			return nil, err
		}
	}
	ret.Opcodes = append(ret.Opcodes, enumEnd(tables.Instructions))
	ret.Sched = append(ret.Sched, enumEnd(tables.SchedClasses))
	ret.OperandTypes = append(ret.OperandTypes, enumEnd(tables.OperandTypes))
	ret.OpNames = append(ret.OpNames, enumEnd(tables.OperandNames))

	flagNames := make(map[uint64]string)
	for _, trait := range instrinfo.TraitTable() {
		name := "Flag" + makeIdentTitle(trait.Name)
		if err := scope.declare(name, "trait "+trait.Name); err != nil {
			return nil, err
		}
		flagNames[trait.Mask()] = name
		ret.Flags = append(ret.Flags, goConst{name, fmt.Sprintf("1 << %d", trait.Bit)})
	}

	for id, regs := range tables.ImplicitLists {
		if id == 0 {
			continue
		}
		list := goList{Name: implicitListName(id)}
		if err := scope.declare(list.Name, fmt.Sprintf("implicit register list %d", id)); err != nil {
			return nil, err
		}
		for _, reg := range regs {
			list.Elems = append(list.Elems, strconv.Quote(reg))
		}
		ret.ImplicitLists = append(ret.ImplicitLists, list)
	}

	for id, infos := range tables.OperandInfos {
		if id == 0 {
			continue
		}
		list := goList{Name: operandInfoName(id)}
		if err := scope.declare(list.Name, fmt.Sprintf("operand info list %d", id)); err != nil {
			return nil, err
		}
		for _, info := range infos {
			list.Elems = append(list.Elems, goOperandInfo(info))
		}
		ret.OperandInfos = append(ret.OperandInfos, list)
	}

	for _, d := range tables.Descriptors {
		ret.Descs = append(ret.Descs, goDesc{
			Opcode:  d.Opcode,
			Name:    d.Name,
			Literal: goDescLiteral(d, opcodeNames[d.Opcode], flagNames),
		})
	}

	ret.NameData = strconv.Quote(tables.NameData)
	offsets := make([]string, len(tables.NameOffsets))
	for i, off := range tables.NameOffsets {
		offsets[i] = strconv.Itoa(off)
	}
	ret.NameOffsets = strings.Join(offsets, ", ")

	ret.NumNames = len(tables.NameTable.Names())
	if ret.NumNames > 0 {
		for r, g := range tables.NameTable.Groups() {
			row := make([]string, len(g.Row))
			for i, pos := range g.Row {
				row[i] = strconv.Itoa(pos)
			}
			ret.OperandRows = append(ret.OperandRows, strings.Join(row, ", "))

			rc := goRowCase{Row: r}
			for _, inst := range g.Instructions {
				rc.Opcodes = append(rc.Opcodes, opcodeNames[inst])
			}
			ret.RowCases = append(ret.RowCases, rc)
		}
	}

	return ret, nil
}

// goScope maps each package-level identifier of a generated file to the
// thing it was made from.
type goScope map[string]string

func newGoScope(target string) goScope {
	s := make(goScope)
	for _, name := range []string{
		"strings",
		"Opcode", "OpName", "OperandInfo", "InstrDesc", "InstrInfo",
		"OperandLookupPtrRegClass", "OperandPredicate", "OperandOptionalDef",
		"NamedOperandIdx", "operandMap",
		target + "Insts", target + "InstrNameData", target + "InstrNameIndices",
		"New" + target + "InstrInfo",
	} {
		s[name] = "the generated " + name
	}
	return s
}

// declare claims ident for source, failing if the name is unusable or
// already taken.
func (s goScope) declare(ident, source string) error {
	if !token.IsIdentifier(ident) || ident == "_" {
		return fmt.Errorf("%s has no usable Go name", source)
	}
	if prev, ok := s[ident]; ok {
		return fmt.Errorf("%s and %s would both be named %s in generated Go code", prev, source, ident)
	}
	s[ident] = source
	return nil
}

func (s goScope) enumConsts(e instrinfo.Enum, prefix, kind string) ([]goConst, error) {
	var ret []goConst
	for _, ent := range e.Entries {
		name := prefixedIdent(prefix, ent.Name)
		if err := s.declare(name, kind+" "+ent.Name); err != nil {
			return nil, err
		}
		ret = append(ret, goConst{name, strconv.Itoa(ent.Value)})
	}
	return ret, nil
}

func enumEnd(e instrinfo.Enum) goConst {
	return goConst{e.End.Name, strconv.Itoa(e.End.Value)}
}

func implicitListName(id int) string {
	return fmt.Sprintf("implicitList%d", id)
}

func operandInfoName(id int) string {
	return fmt.Sprintf("operandInfo%d", id)
}

func goOperandInfo(info instrinfo.OperandInfo) string {
	var flags []string
	if info.Flags&instrinfo.FlagLookupPtrRegClass != 0 {
		flags = append(flags, "OperandLookupPtrRegClass")
	}
	if info.Flags&instrinfo.FlagPredicate != 0 {
		flags = append(flags, "OperandPredicate")
	}
	if info.Flags&instrinfo.FlagOptionalDef != 0 {
		flags = append(flags, "OperandOptionalDef")
	}
	if len(flags) == 0 {
		flags = []string{"0"}
	}

	regClass := strconv.Itoa(info.RegClass)
	if info.RegClassSym != "" {
		regClass += " /* " + info.RegClassSym + " */"
	}
	return fmt.Sprintf("{RegClass: %s, Flags: %s, Type: %q, Constraint: %s}",
		regClass, strings.Join(flags, "|"), info.Type, bits32(info.Constraint))
}

func goDescLiteral(d instrinfo.Descriptor, opcode string, flagNames map[uint64]string) string {
	fields := []string{
		"Opcode: " + opcode,
		fmt.Sprintf("NumOperands: %d", d.NumOperands),
		fmt.Sprintf("NumDefs: %d", d.NumDefs),
		fmt.Sprintf("Size: %d", d.Size),
		fmt.Sprintf("SchedClass: %d", d.SchedClass),
	}

	var flags []string
	for _, trait := range instrinfo.TraitTable() {
		if d.Flags&trait.Mask() != 0 {
			flags = append(flags, flagNames[trait.Mask()])
		}
	}
	if len(flags) > 0 {
		fields = append(fields, "Flags: "+strings.Join(flags, "|"))
	}
	if d.TSFlags != 0 {
		fields = append(fields, "TSFlags: "+bits64(d.TSFlags).String())
	}
	if d.ImplicitUses != 0 {
		fields = append(fields, "ImplicitUses: "+implicitListName(d.ImplicitUses))
	}
	if d.ImplicitDefs != 0 {
		fields = append(fields, "ImplicitDefs: "+implicitListName(d.ImplicitDefs))
	}
	if d.OperandInfo != 0 {
		fields = append(fields, "OpInfo: "+operandInfoName(d.OperandInfo))
	}
	if d.DeprecatedFeatureName != "" {
		fields = append(fields, fmt.Sprintf("DeprecatedFeature: %d /* %s */", d.DeprecatedFeature, d.DeprecatedFeatureName))
	} else {
		fields = append(fields, fmt.Sprintf("DeprecatedFeature: %d", d.DeprecatedFeature))
	}
	if d.DeprecationCallback != "" {
		fields = append(fields, fmt.Sprintf("DeprecationInfo: %q", d.DeprecationCallback))
	}

	return "{" + strings.Join(fields, ", ") + "}"
}

// goIdent returns name unchanged if Go accepts it as an identifier.
func goIdent(name string) string {
	if token.IsIdentifier(name) {
		return name
	}
	log.Printf("renaming %q to %q in generated Go code", name, makeIdentTitle(name))
	return makeIdentTitle(name)
}

func exportedIdent(name string) string {
	if token.IsIdentifier(name) && token.IsExported(name) {
		return name
	}
	return makeIdentTitle(name)
}

// prefixedIdent joins prefix and name, upper-casing the first letter of
// name: ("OpName", "dst") gives "OpNameDst".
func prefixedIdent(prefix, name string) string {
	if name == "" {
		return prefix
	}
	r, size := utf8.DecodeRuneInString(name)
	ident := prefix + string(unicode.ToUpper(r)) + name[size:]
	if token.IsIdentifier(ident) {
		return ident
	}
	return prefix + makeIdentTitle(name)
}
