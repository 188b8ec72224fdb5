package main

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/apparentlymart/instrinfo/instrinfo"
)

// generateEnums renders the enumerations as a YAML document, one mapping
// per enumeration with the entries in value order and the sentinel last.
func generateEnums(tables *instrinfo.Tables) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, section := range []struct {
		key  string
		enum instrinfo.Enum
	}{
		{"instr_enums", tables.Instructions},
		{"sched_enums", tables.SchedClasses},
		{"operand_names", tables.OperandNames},
		{"operand_types", tables.OperandTypes},
	} {
		doc.Content = append(doc.Content, scalarNode(section.key), enumNode(section.enum))
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode enumerations: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode enumerations: %w", err)
	}
	return buf.Bytes(), nil
}

func enumNode(e instrinfo.Enum) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode}
	entries := append(append([]instrinfo.EnumEntry(nil), e.Entries...), e.End)
	for _, ent := range entries {
		n.Content = append(n.Content, scalarNode(ent.Name), intNode(ent.Value))
	}
	return n
}

func scalarNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func intNode(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
}
