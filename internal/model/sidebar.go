package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrInvalidSidebarItem is returned when a decoded sidebar entry is neither
// a group nor a link.
var ErrInvalidSidebarItem = errors.New("invalid sidebar item")

// ItemKind tells a sidebar group apart from a leaf link.
type ItemKind int

const (
	KindLink ItemKind = iota
	KindGroup
)

func (k ItemKind) String() string {
	switch k {
	case KindGroup:
		return "group"
	default:
		return "link"
	}
}

// SidebarItem is either a Group with child items or a leaf Link.
// Only the fields belonging to Kind are meaningful.
type SidebarItem struct {
	Kind ItemKind
	Text string

	// Link fields.
	Link  string
	Class string

	// Group fields.
	Collapsed bool
	Items     []SidebarItem
}

// Link returns a leaf sidebar link.
func Link(text, link string) SidebarItem {
	return SidebarItem{Kind: KindLink, Text: text, Link: link}
}

// DisabledLink returns a leaf link carrying the disabled class.
func DisabledLink(text, link string) SidebarItem {
	return SidebarItem{Kind: KindLink, Text: text, Link: link, Class: ClassDisabled}
}

// Group returns a sidebar group holding items in order.
func Group(text string, items ...SidebarItem) SidebarItem {
	if items == nil {
		items = []SidebarItem{}
	}
	return SidebarItem{Kind: KindGroup, Text: text, Items: items}
}

func (it SidebarItem) IsGroup() bool { return it.Kind == KindGroup }

// Disabled reports whether the link is marked as having no target.
func (it SidebarItem) Disabled() bool {
	return it.Kind == KindLink && it.Class == ClassDisabled
}

// Links returns the leaf links under it in render order, it included if it
// is itself a link.
func (it SidebarItem) Links() []SidebarItem {
	if !it.IsGroup() {
		return []SidebarItem{it}
	}
	var out []SidebarItem
	for _, child := range it.Items {
		out = append(out, child.Links()...)
	}
	return out
}

// sidebarItemWire is the generator's shape for both variants. A present
// "items" key marks a group.
type sidebarItemWire struct {
	Text      string         `json:"text" yaml:"text"`
	Link      string         `json:"link,omitempty" yaml:"link,omitempty"`
	Class     string         `json:"class,omitempty" yaml:"class,omitempty"`
	Collapsed bool           `json:"collapsed,omitempty" yaml:"collapsed,omitempty"`
	Items     *[]SidebarItem `json:"items,omitempty" yaml:"items,omitempty"`
}

func (it SidebarItem) wire() sidebarItemWire {
	if it.IsGroup() {
		items := it.Items
		if items == nil {
			items = []SidebarItem{}
		}
		return sidebarItemWire{Text: it.Text, Collapsed: it.Collapsed, Items: &items}
	}
	return sidebarItemWire{Text: it.Text, Link: it.Link, Class: it.Class}
}

func (it *SidebarItem) fromWire(w sidebarItemWire) error {
	switch {
	case w.Items != nil:
		*it = SidebarItem{Kind: KindGroup, Text: w.Text, Collapsed: w.Collapsed, Items: *w.Items}
	case w.Link != "":
		*it = SidebarItem{Kind: KindLink, Text: w.Text, Link: w.Link, Class: w.Class}
	default:
		return fmt.Errorf("%w: %q has neither link nor items", ErrInvalidSidebarItem, w.Text)
	}
	return nil
}

func (it SidebarItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(it.wire())
}

func (it *SidebarItem) UnmarshalJSON(data []byte) error {
	var w sidebarItemWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	return it.fromWire(w)
}

func (it SidebarItem) MarshalYAML() (interface{}, error) {
	return it.wire(), nil
}

func (it *SidebarItem) UnmarshalYAML(value *yaml.Node) error {
	var w sidebarItemWire
	if err := value.Decode(&w); err != nil {
		return err
	}
	return it.fromWire(w)
}

// Sidebar maps URL path prefixes to sidebar trees. Keys keep their
// declaration order through encoding.
type Sidebar struct {
	keys    []string
	entries map[string][]SidebarItem
}

// Set stores items under key. A new key is appended to the key order; an
// existing key keeps its position.
func (s *Sidebar) Set(key string, items []SidebarItem) {
	if s.entries == nil {
		s.entries = make(map[string][]SidebarItem)
	}
	if _, ok := s.entries[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.entries[key] = items
}

func (s Sidebar) Get(key string) ([]SidebarItem, bool) {
	items, ok := s.entries[key]
	return items, ok
}

// Keys returns the path prefixes in declaration order.
func (s Sidebar) Keys() []string {
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

func (s Sidebar) Len() int { return len(s.keys) }

func (s Sidebar) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(s.entries[key])
		if err != nil {
			return nil, fmt.Errorf("sidebar %s: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Sidebar) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = Sidebar{}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("sidebar: expected object, got %v", tok)
	}
	out := Sidebar{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("sidebar: expected key, got %v", tok)
		}
		var items []SidebarItem
		if err := dec.Decode(&items); err != nil {
			return fmt.Errorf("sidebar %s: %w", key, err)
		}
		out.Set(key, items)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

func (s Sidebar) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, key := range s.keys {
		val := &yaml.Node{}
		if err := val.Encode(s.entries[key]); err != nil {
			return nil, fmt.Errorf("sidebar %s: %w", key, err)
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			val,
		)
	}
	return node, nil
}

func (s *Sidebar) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("sidebar: expected mapping at line %d", value.Line)
	}
	out := Sidebar{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key := value.Content[i].Value
		var items []SidebarItem
		if err := value.Content[i+1].Decode(&items); err != nil {
			return fmt.Errorf("sidebar %s: %w", key, err)
		}
		out.Set(key, items)
	}
	*s = out
	return nil
}
