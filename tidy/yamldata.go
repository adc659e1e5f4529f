package tidy

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// YamlToData reads one yaml document. Mappings become named lists in
// document order, sequences unnamed lists.
func YamlToData(src []byte) (Sexp, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return SexpNull, err
	}
	if doc.Kind == 0 {
		// empty input
		return SexpNull, nil
	}
	return yamlNodeToSexp(&doc, 0)
}

func yamlNodeToSexp(n *yaml.Node, depth int) (Sexp, error) {
	if depth > MaxChainDepth {
		return SexpNull, fmt.Errorf("yaml: nesting too deep")
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return SexpNull, nil
		}
		return yamlNodeToSexp(n.Content[0], depth+1)
	case yaml.AliasNode:
		return yamlNodeToSexp(n.Alias, depth+1)
	case yaml.SequenceNode:
		vals := make([]Sexp, len(n.Content))
		for i, c := range n.Content {
			v, err := yamlNodeToSexp(c, depth+1)
			if err != nil {
				return SexpNull, err
			}
			vals[i] = v
		}
		return MakeList(vals...), nil
	case yaml.MappingNode:
		names := make([]string, 0, len(n.Content)/2)
		vals := make([]Sexp, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			v, err := yamlNodeToSexp(n.Content[i+1], depth+1)
			if err != nil {
				return SexpNull, err
			}
			if positionalIndex(key) {
				key = ""
			}
			names = append(names, key)
			vals = append(vals, v)
		}
		return MakeNamedList(names, vals), nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	}
	return SexpNull, fmt.Errorf("yaml: unsupported node kind %v at line %d", n.Kind, n.Line)
}

func yamlScalar(n *yaml.Node) (Sexp, error) {
	switch n.ShortTag() {
	case "!!null":
		return SexpNull, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return SexpNull, err
		}
		return &SexpBool{Val: b}, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return SexpNull, err
		}
		return &SexpInt{Val: i}, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return SexpNull, err
		}
		return &SexpFloat{Val: f}, nil
	}
	return &SexpStr{S: n.Value}, nil
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func sexpToYamlNode(x Sexp) (*yaml.Node, error) {
	switch e := x.(type) {
	case *SexpInt:
		return scalarNode("!!int", strconv.FormatInt(e.Val, 10)), nil
	case *SexpFloat:
		switch {
		case math.IsNaN(e.Val):
			return scalarNode("!!float", ".nan"), nil
		case math.IsInf(e.Val, 1):
			return scalarNode("!!float", ".inf"), nil
		case math.IsInf(e.Val, -1):
			return scalarNode("!!float", "-.inf"), nil
		}
		return scalarNode("!!float", strconv.FormatFloat(e.Val, 'g', -1, 64)), nil
	case *SexpStr:
		return scalarNode("!!str", e.S), nil
	case *SexpBool:
		return scalarNode("!!bool", strconv.FormatBool(e.Val)), nil
	case *SexpSentinel:
		return scalarNode("!!null", "null"), nil
	case *SexpSymbol:
		return scalarNode("!!str", e.name), nil
	case *SexpCall, *SexpQuosure:
		return scalarNode("!!str", x.SexpString(nil)), nil
	case *SexpList:
		if !e.HasNames() {
			seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for _, v := range e.Values() {
				c, err := sexpToYamlNode(v)
				if err != nil {
					return nil, err
				}
				seq.Content = append(seq.Content, c)
			}
			return seq, nil
		}
		m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for i, ent := range e.Entries() {
			key := ent.Name
			if key == "" {
				key = positionalKey(i)
			}
			c, err := sexpToYamlNode(ent.Val)
			if err != nil {
				return nil, err
			}
			m.Content = append(m.Content, scalarNode("!!str", key), c)
		}
		return m, nil
	}
	return nil, fmt.Errorf("yaml: cannot encode %s", TypeName(x))
}

func DataToYaml(x Sexp) ([]byte, error) {
	n, err := sexpToYamlNode(x)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func YamlFunction(h Host, name string, args []Sexp) (Sexp, error) {
	if len(args) != 1 {
		return SexpNull, WrongNargs
	}
	switch name {
	case "yaml":
		by, err := DataToYaml(args[0])
		if err != nil {
			return SexpNull, err
		}
		return &SexpStr{S: string(by)}, nil
	case "unyaml":
		by, err := bytesOf(name, args[0])
		if err != nil {
			return SexpNull, err
		}
		return YamlToData(by)
	}
	return SexpNull, fmt.Errorf("unrecognized function name: '%s'", name)
}
