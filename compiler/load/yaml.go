package load

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type (
	// descriptor is the YAML form of a set of record declarations:
	//
	//	package: models
	//	records:
	//	  - name: User
	//	    soft_delete: true
	//	    searchable: [name, email]
	//	    fields:
	//	      - {name: ID, type: int64}
	//	      - {name: Email, type: string, column: email_address}
	descriptor struct {
		Package string              `yaml:"package"`
		Records []*recordDescriptor `yaml:"records"`
	}
	recordDescriptor struct {
		Name       string             `yaml:"name"`
		Kind       Kind               `yaml:"kind"`
		Table      string             `yaml:"table"`
		SoftDelete bool               `yaml:"soft_delete"`
		PrimaryKey string             `yaml:"primary_key"`
		Searchable []string           `yaml:"searchable"`
		Filterable []string           `yaml:"filterable"`
		Options    map[string]string  `yaml:"options"`
		Comment    string             `yaml:"comment"`
		Fields     []*fieldDescriptor `yaml:"fields"`
	}
	fieldDescriptor struct {
		Name       string            `yaml:"name"`
		Type       string            `yaml:"type"`
		Column     string            `yaml:"column"`
		PrimaryKey bool              `yaml:"primary_key"`
		Options    map[string]string `yaml:"options"`
		Comment    string            `yaml:"comment"`
	}
)

// ReadYAML reads record declarations from a YAML descriptor file.
func ReadYAML(path string) (*SchemaSpec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: reading descriptor: %w", err)
	}
	return DecodeYAML(path, bytes.NewReader(b))
}

// DecodeYAML decodes record declarations from r. filename is only used for
// positions.
func DecodeYAML(filename string, r io.Reader) (*SchemaSpec, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("load: reading descriptor: %w", err)
	}
	var desc descriptor
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&desc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("load: decoding %s: %w", filename, err)
	}
	var root yaml.Node
	if err := yaml.Unmarshal(b, &root); err != nil {
		return nil, fmt.Errorf("load: decoding %s: %w", filename, err)
	}
	records := lookup(&root, "records")
	spec := &SchemaSpec{PkgName: desc.Package}
	for i, rd := range desc.Records {
		s := rd.schema()
		s.Pos = nodePos(filename, item(records, i))
		fields := lookup(item(records, i), "fields")
		for j, f := range s.Fields {
			f.Pos = nodePos(filename, item(fields, j))
		}
		spec.Schemas = append(spec.Schemas, s)
	}
	return spec, nil
}

func (rd *recordDescriptor) schema() *Schema {
	s := &Schema{
		Name:        rd.Name,
		Kind:        rd.Kind,
		Comment:     rd.Comment,
		Annotations: make(Annotations, len(rd.Options)),
	}
	if s.Kind == "" {
		s.Kind = KindStruct
	}
	for k, v := range rd.Options {
		s.Annotations[k] = v
	}
	if rd.Table != "" {
		s.Annotations["table"] = rd.Table
	}
	if rd.SoftDelete {
		s.Annotations["soft_delete"] = ""
	}
	if rd.PrimaryKey != "" {
		s.Annotations["primary_key"] = rd.PrimaryKey
	}
	if len(rd.Searchable) > 0 {
		s.Annotations["searchable"] = strings.Join(rd.Searchable, ",")
	}
	if len(rd.Filterable) > 0 {
		s.Annotations["filterable"] = strings.Join(rd.Filterable, ",")
	}
	for _, fd := range rd.Fields {
		f := &Field{Name: fd.Name, Type: fd.Type, Comment: fd.Comment}
		if len(fd.Options) > 0 || fd.Column != "" || fd.PrimaryKey {
			f.Annotations = make(Annotations, len(fd.Options)+2)
			for k, v := range fd.Options {
				f.Annotations[k] = v
			}
			if fd.Column != "" {
				f.Annotations["column"] = fd.Column
			}
			if fd.PrimaryKey {
				f.Annotations["primary_key"] = ""
			}
		}
		s.Fields = append(s.Fields, f)
	}
	return s
}

// lookup returns the value node of key in a mapping node.
func lookup(n *yaml.Node, key string) *yaml.Node {
	if n == nil {
		return nil
	}
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

// item returns the i-th element of a sequence node.
func item(n *yaml.Node, i int) *yaml.Node {
	if n == nil || n.Kind != yaml.SequenceNode || i >= len(n.Content) {
		return nil
	}
	return n.Content[i]
}

func nodePos(filename string, n *yaml.Node) Position {
	if n == nil {
		return Position{Filename: filename}
	}
	return Position{Filename: filename, Line: n.Line, Column: n.Column}
}
