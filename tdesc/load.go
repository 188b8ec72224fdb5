// Package tdesc loads YAML target descriptions into the instrinfo model.
package tdesc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/apparentlymart/instrinfo/instrinfo"
)

// ErrAmbiguousDeprecation is returned for an instruction deprecated both
// on a feature and by a predicate.
var ErrAmbiguousDeprecation = errors.New("deprecated by both a feature and a predicate")

// ErrEmptyDeprecation is returned for a deprecated block that names
// neither a feature nor a predicate.
var ErrEmptyDeprecation = errors.New("deprecated without a feature or a predicate")

type rawTarget struct {
	Target          string             `yaml:"target"`
	Namespace       string             `yaml:"namespace"`
	Features        []string           `yaml:"features"`
	RegisterClasses []rawRegisterClass `yaml:"registerClasses"`
	Operands        []rawOperand       `yaml:"operands"`
	SchedClasses    []string           `yaml:"schedClasses"`
	Instructions    []rawInstruction   `yaml:"instructions"`
}

type rawRegisterClass struct {
	Name        string `yaml:"name"`
	PointerKind *int   `yaml:"pointerKind"`
}

type rawOperand struct {
	Name        string   `yaml:"name"`
	RegClass    string   `yaml:"regClass"`
	Type        string   `yaml:"type"`
	Predicate   bool     `yaml:"predicate"`
	OptionalDef bool     `yaml:"optionalDef"`
	Fields      []string `yaml:"fields"`
}

type rawInstruction struct {
	Name          string          `yaml:"name"`
	Outs          []string        `yaml:"outs"`
	Ins           []string        `yaml:"ins"`
	Constraints   string          `yaml:"constraints"`
	Traits        []string        `yaml:"traits"`
	Uses          []string        `yaml:"uses"`
	Defs          []string        `yaml:"defs"`
	Size          *int            `yaml:"size"`
	Sched         string          `yaml:"sched"`
	TSFlags       string          `yaml:"tsFlags"`
	TSFields      []string        `yaml:"tsFields"`
	Deprecated    *rawDeprecation `yaml:"deprecated"`
	NamedOperands bool            `yaml:"namedOperands"`
}

type rawDeprecation struct {
	Feature   string `yaml:"feature"`
	Predicate string `yaml:"predicate"`
}

// variableOps in an instruction's inputs marks it variadic.
const variableOps = "variable_ops"

// LoadFile reads a target description from a YAML file.
func LoadFile(filename string) (*instrinfo.Target, *Schedule, error) {
	r, err := os.Open(filename)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	return Load(r)
}

// Load reads a target description.
func Load(r io.Reader) (*instrinfo.Target, *Schedule, error) {
	var raw rawTarget
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		return nil, nil, fmt.Errorf("failed to parse target description: %w", err)
	}

	l := &loader{
		ns:      raw.Namespace,
		classes: make(map[string]*instrinfo.OperandClass),
		fields:  make(map[string][]*instrinfo.OperandClass),
	}

	t := &instrinfo.Target{
		Name:      raw.Target,
		Namespace: raw.Namespace,
		Features:  raw.Features,
	}
	if t.Name == "" {
		t.Name = t.Namespace
	}

	if err := l.loadRegisterClasses(raw.RegisterClasses); err != nil {
		return nil, nil, fmt.Errorf("failed to load register classes: %w", err)
	}
	ops, err := l.loadOperands(raw.Operands)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load operands: %w", err)
	}
	t.OperandClasses = ops

	sched := newSchedule(raw.SchedClasses)
	seen := make(map[string]bool, len(raw.Instructions))
	for _, ri := range raw.Instructions {
		if seen[ri.Name] {
			return nil, nil, fmt.Errorf("instruction %s is defined twice", ri.Name)
		}
		seen[ri.Name] = true

		inst, err := l.loadInstruction(ri)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load instruction %s: %w", ri.Name, err)
		}
		sched.assign(inst, ri.Sched)
		t.Instructions = append(t.Instructions, inst)
	}

	return t, sched, nil
}

type loader struct {
	ns      string
	classes map[string]*instrinfo.OperandClass

	// fields holds the sub-field classes of aggregate operand classes.
	fields map[string][]*instrinfo.OperandClass
}

func (l *loader) define(class *instrinfo.OperandClass) error {
	if class.Anonymous() {
		return nil
	}
	if _, ok := l.classes[class.Name]; ok {
		return fmt.Errorf("%s is defined twice", class.Name)
	}
	l.classes[class.Name] = class
	return nil
}

func (l *loader) lookup(name string) (*instrinfo.OperandClass, error) {
	class, ok := l.classes[name]
	if !ok {
		return nil, fmt.Errorf("unknown operand class %q", name)
	}
	return class, nil
}

func (l *loader) loadRegisterClasses(raws []rawRegisterClass) error {
	id := 0
	for _, raw := range raws {
		class := &instrinfo.OperandClass{
			Name: raw.Name,
			Kind: instrinfo.ClassRegisterClass,
			Type: "OPERAND_REGISTER",
		}
		if raw.PointerKind != nil {
			class.Kind = instrinfo.ClassPointerLikeRegClass
			class.PointerKind = *raw.PointerKind
			class.Type = "OPERAND_UNKNOWN"
		} else {
			class.ID = id
			id++
		}
		if class.Anonymous() {
			return fmt.Errorf("register class without a name")
		}
		if err := l.define(class); err != nil {
			return err
		}
	}
	return nil
}

func (l *loader) loadOperands(raws []rawOperand) ([]*instrinfo.OperandClass, error) {
	ret := make([]*instrinfo.OperandClass, 0, len(raws))
	for _, raw := range raws {
		class := &instrinfo.OperandClass{
			Name:        raw.Name,
			Kind:        instrinfo.ClassOperand,
			Predicate:   raw.Predicate,
			OptionalDef: raw.OptionalDef,
			Type:        raw.Type,
		}

		if raw.RegClass != "" {
			rc, err := l.lookup(raw.RegClass)
			if err != nil {
				return nil, fmt.Errorf("register operand %s: %w", raw.Name, err)
			}
			if rc.Kind != instrinfo.ClassRegisterClass {
				return nil, fmt.Errorf("register operand %s wraps %s %s", raw.Name, rc.Kind, rc.Name)
			}
			class.Kind = instrinfo.ClassRegisterOperand
			class.RegClass = rc
			if class.Type == "" {
				class.Type = "OPERAND_REGISTER"
			}
		}

		for _, name := range raw.Fields {
			field, err := l.lookup(name)
			if err != nil {
				return nil, fmt.Errorf("operand %s: %w", raw.Name, err)
			}
			l.fields[raw.Name] = append(l.fields[raw.Name], field)
		}
		if len(raw.Fields) > 0 && class.Anonymous() {
			return nil, fmt.Errorf("anonymous operand cannot have fields")
		}

		if err := l.define(class); err != nil {
			return nil, err
		}
		ret = append(ret, class)
	}
	return ret, nil
}

func (l *loader) loadInstruction(raw rawInstruction) (*instrinfo.Instruction, error) {
	inst := &instrinfo.Instruction{
		Name:                 raw.Name,
		NumDefs:              len(raw.Outs),
		ImplicitUses:         raw.Uses,
		ImplicitDefs:         raw.Defs,
		Size:                 -1,
		UseNamedOperandTable: raw.NamedOperands,
	}
	if raw.Size != nil {
		inst.Size = *raw.Size
	}

	for _, trait := range raw.Traits {
		if err := inst.Set(trait); err != nil {
			return nil, err
		}
	}

	pos := 0
	names := make(map[string]*instrinfo.Operand)
	for i, decl := range append(append([]string(nil), raw.Outs...), raw.Ins...) {
		if decl == variableOps && i >= len(raw.Outs) {
			inst.Variadic = true
			continue
		}
		op, err := l.operand(decl)
		if err != nil {
			return nil, err
		}
		if _, ok := names[op.Name]; ok {
			return nil, fmt.Errorf("operand %s is declared twice", op.Name)
		}
		names[op.Name] = op

		op.Position = pos
		pos += op.NumFields()
		op.Constraints = make([]instrinfo.Constraint, op.NumFields())
		if op.Class.OptionalDef {
			inst.HasOptionalDef = true
		}
		inst.Operands = append(inst.Operands, op)
	}

	if err := applyConstraints(names, raw.Constraints); err != nil {
		return nil, err
	}

	bits, err := parseFlagBits(raw.TSFlags)
	if err != nil {
		return nil, fmt.Errorf("invalid tsFlags: %w", err)
	}
	for _, spec := range raw.TSFields {
		bits, err = applyMatchSpec(bits, spec)
		if err != nil {
			return nil, fmt.Errorf("invalid tsFields: %w", err)
		}
	}
	if bits == nil {
		bits = instrinfo.BitVector{}
	}
	inst.TSFlags = bits

	if d := raw.Deprecated; d != nil {
		switch {
		case d.Feature != "" && d.Predicate != "":
			return nil, ErrAmbiguousDeprecation
		case d.Feature != "":
			inst.Deprecation = instrinfo.DeprecatedByFeature(d.Feature)
		case d.Predicate != "":
			inst.Deprecation = instrinfo.DeprecatedByPredicate(d.Predicate)
		default:
			return nil, ErrEmptyDeprecation
		}
	}

	return inst, nil
}

// operand parses a "name:Class" declaration.
func (l *loader) operand(decl string) (*instrinfo.Operand, error) {
	name, className := partition(decl, ":")
	name = strings.TrimSpace(name)
	className = strings.TrimSpace(className)
	if name == "" || className == "" {
		return nil, fmt.Errorf("invalid operand %q: want name:Class", decl)
	}

	class, err := l.lookup(className)
	if err != nil {
		return nil, fmt.Errorf("operand %s: %w", name, err)
	}

	return &instrinfo.Operand{
		Name:   name,
		Class:  class,
		Fields: l.fields[class.Name],
		Type:   class.Type,
	}, nil
}

// applyConstraints applies a comma-separated list of constraints of the
// forms "$a = $b" and "@earlyclobber $a". Either side can pick a field of
// an aggregate operand with "$a.1".
func applyConstraints(ops map[string]*instrinfo.Operand, raw string) error {
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if rest := strings.TrimPrefix(part, "@earlyclobber"); rest != part {
			op, field, err := fieldRef(ops, strings.TrimSpace(rest))
			if err != nil {
				return fmt.Errorf("constraint %q: %w", part, err)
			}
			if err := constrain(op, field, instrinfo.Constraint{Kind: instrinfo.ConstraintEarlyClobber}); err != nil {
				return fmt.Errorf("constraint %q: %w", part, err)
			}
			continue
		}

		lhs, rhs := partition(part, "=")
		if rhs == "" {
			return fmt.Errorf("invalid constraint %q", part)
		}
		op, field, err := fieldRef(ops, strings.TrimSpace(lhs))
		if err != nil {
			return fmt.Errorf("constraint %q: %w", part, err)
		}
		target, targetField, err := fieldRef(ops, strings.TrimSpace(rhs))
		if err != nil {
			return fmt.Errorf("constraint %q: %w", part, err)
		}
		tied := instrinfo.Constraint{Kind: instrinfo.ConstraintTied, TiedTo: target.Position + targetField}
		if err := constrain(op, field, tied); err != nil {
			return fmt.Errorf("constraint %q: %w", part, err)
		}
	}
	return nil
}

func fieldRef(ops map[string]*instrinfo.Operand, ref string) (*instrinfo.Operand, int, error) {
	if !strings.HasPrefix(ref, "$") {
		return nil, 0, fmt.Errorf("%q is not an operand reference", ref)
	}
	name, rawField := partition(ref[1:], ".")
	op, ok := ops[name]
	if !ok {
		return nil, 0, fmt.Errorf("no operand named %s", name)
	}
	field := 0
	if rawField != "" {
		var err error
		field, err = strconv.Atoi(rawField)
		if err != nil || field < 0 || field >= op.NumFields() {
			return nil, 0, fmt.Errorf("operand %s has no field %s", name, rawField)
		}
	}
	return op, field, nil
}

func constrain(op *instrinfo.Operand, field int, c instrinfo.Constraint) error {
	if op.Constraints[field].Kind != instrinfo.ConstraintNone {
		return fmt.Errorf("operand %s field %d is already constrained", op.Name, field)
	}
	op.Constraints[field] = c
	return nil
}
