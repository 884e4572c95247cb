package registry

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Load reads and parses a registry XML file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry: %w", err)
	}
	reg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing registry %s: %w", path, err)
	}
	return reg, nil
}

// Parse parses registry XML. It uses raw token scanning rather than a
// full struct unmarshal: type names may appear either as a name
// attribute or as a <name> child element, and we only need a small
// slice of the schema.
func Parse(data []byte) (*Registry, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	reg := &Registry{}

	inTypes := false
	var group *EnumGroup

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "types":
				inTypes = true
			case "type":
				if !inTypes {
					continue
				}
				decl, err := parseType(decoder, t)
				if err != nil {
					return nil, err
				}
				if decl.Name != "" {
					reg.Types = append(reg.Types, decl)
				}
			case "enums":
				g := EnumGroup{}
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "name":
						g.Name = attr.Value
					case "type":
						g.Type = attr.Value
					}
				}
				reg.Enums = append(reg.Enums, g)
				group = &reg.Enums[len(reg.Enums)-1]
			case "enum":
				if group == nil {
					continue
				}
				v := Enumerant{}
				for _, attr := range t.Attr {
					switch attr.Name.Local {
					case "name":
						v.Name = attr.Value
					case "value", "bitpos":
						v.Value = attr.Value
					case "alias":
						v.Alias = attr.Value
					}
				}
				if v.Name != "" {
					group.Values = append(group.Values, v)
				}
			case "command":
				cmd, err := parseCommand(decoder, t)
				if err != nil {
					return nil, err
				}
				if cmd.Name != "" {
					reg.Commands = append(reg.Commands, cmd)
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "types":
				inTypes = false
			case "enums":
				group = nil
			}
		}
	}

	return reg, nil
}

// parseType consumes a <type> element. The name is either a name
// attribute or the text of a nested <name> element.
func parseType(decoder *xml.Decoder, start xml.StartElement) (TypeDecl, error) {
	decl := TypeDecl{}
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "name":
			decl.Name = attr.Value
		case "category":
			decl.Category = attr.Value
		case "requires":
			decl.Requires = attr.Value
		case "alias":
			decl.Alias = attr.Value
		}
	}

	depth := 1
	inName := false
	for depth > 0 {
		tok, err := decoder.Token()
		if err != nil {
			return decl, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "name" && depth == 2 {
				inName = true
			}
		case xml.EndElement:
			depth--
			inName = false
		case xml.CharData:
			if inName {
				decl.Name += strings.TrimSpace(string(t))
			}
		}
	}
	return decl, nil
}

// parseCommand consumes a <command> element, extracting the proto name.
func parseCommand(decoder *xml.Decoder, start xml.StartElement) (Command, error) {
	cmd := Command{}
	for _, attr := range start.Attr {
		switch attr.Name.Local {
		case "name":
			cmd.Name = attr.Value
		case "alias":
			cmd.Alias = attr.Value
		}
	}

	depth := 1
	inProto := false
	inName := false
	for depth > 0 {
		tok, err := decoder.Token()
		if err != nil {
			return cmd, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "proto" {
				inProto = true
			}
			if inProto && t.Name.Local == "name" {
				inName = true
			}
		case xml.EndElement:
			depth--
			if t.Name.Local == "proto" {
				inProto = false
			}
			if t.Name.Local == "name" {
				inName = false
			}
		case xml.CharData:
			if inName {
				cmd.Name += strings.TrimSpace(string(t))
			}
		}
	}
	return cmd, nil
}
