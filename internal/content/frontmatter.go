package content

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/yish0/techblog/internal/entity"
)

const (
	yamlFence = "---"
	tomlFence = "+++"
)

// ErrUnterminatedFrontMatter is returned when an opening fence has no closing one.
var ErrUnterminatedFrontMatter = errors.New("unterminated front matter")

// ParseDocument splits a document into its front matter fields and body.
// "---" fences YAML, "+++" fences TOML. A document without a fence has no
// fields and is all body.
func ParseDocument(data []byte) (map[string]entity.Value, string, error) {
	text := strings.TrimPrefix(string(data), "\ufeff")

	fence, matter, body, err := splitFrontMatter(text)

	if err != nil {
		return nil, "", err
	}

	var fields map[string]entity.Value

	switch fence {
	case yamlFence:
		fields, err = parseYAML(matter)
	case tomlFence:
		fields, err = parseTOML(matter)
	default:
		fields = map[string]entity.Value{}
	}

	if err != nil {
		return nil, "", err
	}

	return fields, body, nil
}

func splitFrontMatter(text string) (fence, matter, body string, err error) {
	firstEnd := strings.IndexByte(text, '\n')
	first := text

	if firstEnd != -1 {
		first = text[:firstEnd]
	}

	first = strings.TrimRight(first, " \t\r")

	if first != yamlFence && first != tomlFence {
		return "", "", text, nil
	}

	if firstEnd == -1 {
		return "", "", "", ErrUnterminatedFrontMatter
	}

	pos := firstEnd + 1

	for pos < len(text) {
		line := text[pos:]
		next := len(text)

		if end := strings.IndexByte(line, '\n'); end != -1 {
			line = line[:end]
			next = pos + end + 1
		}

		if strings.TrimRight(line, " \t\r") == first {
			return first, text[firstEnd+1 : pos], text[next:], nil
		}

		pos = next
	}

	return "", "", "", ErrUnterminatedFrontMatter
}

func parseYAML(src string) (map[string]entity.Value, error) {
	var doc yaml.Node

	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return nil, fmt.Errorf("could not parse YAML front matter: %w", err)
	}

	// Empty front matter
	if len(doc.Content) == 0 {
		return map[string]entity.Value{}, nil
	}

	root, err := (&yamlWalker{expanding: map[*yaml.Node]bool{}}).value(doc.Content[0])

	if err != nil {
		return nil, err
	}

	switch root.Kind {
	case entity.KindNull:
		return map[string]entity.Value{}, nil
	case entity.KindMap:
		return root.Map, nil
	default:
		return nil, fmt.Errorf("front matter must be a mapping, got %s", root.Kind)
	}
}

// maxYAMLNodes bounds the values a front matter may expand to through aliases.
const maxYAMLNodes = 10000

// yamlWalker converts a YAML tree into Values. It keeps the resolved YAML tag,
// so a quoted "2024-01-01" stays a string while a plain 2024-01-01 becomes a
// date. Aliases are expanded at most once per path and the total expansion is
// bounded.
type yamlWalker struct {
	expanding map[*yaml.Node]bool
	nodes     int
}

// nolint: cyclop
func (w *yamlWalker) value(n *yaml.Node) (entity.Value, error) {
	w.nodes++

	if w.nodes > maxYAMLNodes {
		return entity.Value{}, fmt.Errorf("line %d: front matter expands to more than %d values", n.Line, maxYAMLNodes)
	}

	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias == nil {
			return entity.Value{}, fmt.Errorf("line %d: unknown alias %q", n.Line, n.Value)
		}

		if w.expanding[n.Alias] {
			return entity.Value{}, fmt.Errorf("line %d: alias %q refers to itself", n.Line, n.Value)
		}

		w.expanding[n.Alias] = true
		defer delete(w.expanding, n.Alias)

		return w.value(n.Alias)
	case yaml.MappingNode:
		m := make(map[string]entity.Value, len(n.Content)/2)

		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]

			if key.Kind != yaml.ScalarNode {
				return entity.Value{}, fmt.Errorf("line %d: front matter keys must be scalars", key.Line)
			}

			v, err := w.value(n.Content[i+1])

			if err != nil {
				return entity.Value{}, err
			}

			m[key.Value] = v
		}

		return entity.Map(m), nil
	case yaml.SequenceNode:
		list := make([]entity.Value, 0, len(n.Content))

		for _, el := range n.Content {
			v, err := w.value(el)

			if err != nil {
				return entity.Value{}, err
			}

			list = append(list, v)
		}

		return entity.List(list...), nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	default:
		return entity.Value{}, fmt.Errorf("line %d: unsupported YAML node", n.Line)
	}
}

func yamlScalar(n *yaml.Node) (entity.Value, error) {
	var err error

	switch n.ShortTag() {
	case "!!null":
		return entity.Value{Kind: entity.KindNull}, nil
	case "!!bool":
		var b bool
		if err = n.Decode(&b); err == nil {
			return entity.Bool(b), nil
		}
	case "!!int":
		var i int64
		if err = n.Decode(&i); err == nil {
			return entity.Int(i), nil
		}
	case "!!float":
		var f float64
		if err = n.Decode(&f); err == nil {
			return entity.Float(f), nil
		}
	case "!!timestamp":
		var t time.Time
		if err = n.Decode(&t); err == nil {
			return entity.Time(t), nil
		}
	default:
		return entity.String(n.Value), nil
	}

	return entity.Value{}, fmt.Errorf("line %d: could not decode %q: %w", n.Line, n.Value, err)
}

func parseTOML(src string) (map[string]entity.Value, error) {
	var raw map[string]any

	if err := toml.Unmarshal([]byte(src), &raw); err != nil {
		return nil, fmt.Errorf("could not parse TOML front matter: %w", err)
	}

	fields := make(map[string]entity.Value, len(raw))

	for k, v := range raw {
		value, err := tomlValue(v)

		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}

		fields[k] = value
	}

	return fields, nil
}

// Local dates and date-times carry no offset and are read as UTC.
// nolint: cyclop
func tomlValue(v any) (entity.Value, error) {
	switch x := v.(type) {
	case nil:
		return entity.Value{Kind: entity.KindNull}, nil
	case string:
		return entity.String(x), nil
	case bool:
		return entity.Bool(x), nil
	case int64:
		return entity.Int(x), nil
	case float64:
		return entity.Float(x), nil
	case time.Time:
		return entity.Time(x), nil
	case toml.LocalDate:
		return entity.Time(x.AsTime(time.UTC)), nil
	case toml.LocalDateTime:
		return entity.Time(x.AsTime(time.UTC)), nil
	case toml.LocalTime:
		return entity.String(x.String()), nil
	case []any:
		list := make([]entity.Value, 0, len(x))

		for _, el := range x {
			value, err := tomlValue(el)

			if err != nil {
				return entity.Value{}, err
			}

			list = append(list, value)
		}

		return entity.List(list...), nil
	case map[string]any:
		m := make(map[string]entity.Value, len(x))

		for k, el := range x {
			value, err := tomlValue(el)

			if err != nil {
				return entity.Value{}, err
			}

			m[k] = value
		}

		return entity.Map(m), nil
	default:
		return entity.Value{}, fmt.Errorf("unsupported TOML value of type %T", v)
	}
}

// MarshalFrontMatter writes a post as a Markdown document with YAML front matter.
func MarshalFrontMatter(post entity.BlogPost) ([]byte, error) {
	matter, err := yaml.Marshal(frontMatter{
		Title:       post.Title,
		Description: post.Description,
		PubDate:     post.PubDate,
		Author:      post.Author,
		Tags:        post.Tags,
		Draft:       post.Draft,
		Image:       post.Image,
	})

	if err != nil {
		return nil, fmt.Errorf("could not marshal front matter of %s: %w", post.Slug, err)
	}

	var buf bytes.Buffer

	buf.WriteString(yamlFence + "\n")
	buf.Write(matter)
	buf.WriteString(yamlFence + "\n")
	buf.WriteString(post.Body)

	return buf.Bytes(), nil
}
