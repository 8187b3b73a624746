package publish

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultTitle = "ClinicalOps AI Agent Experiment"

const fence = "---"

// Article is a markdown document with its front matter split off.
type Article struct {
	Title      string `yaml:"title"`
	Tags       Tags   `yaml:"tags"`
	CoverImage string `yaml:"cover_image"`
	Body       string `yaml:"-"`
}

// Tags accepts either a YAML list or a comma separated string.
type Tags []string

func (t *Tags) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		var tags Tags
		for _, tag := range strings.Split(s, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
		*t = tags
		return nil
	case yaml.SequenceNode:
		var tags []string
		if err := node.Decode(&tags); err != nil {
			return err
		}
		*t = tags
		return nil
	default:
		return fmt.Errorf("line %d: tags must be a list or a string", node.Line)
	}
}

// ParseArticle reads a markdown document. A leading block fenced by "---"
// lines is decoded as YAML front matter; without one the whole document is
// the body.
func ParseArticle(r io.Reader) (*Article, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	text := strings.ReplaceAll(strings.TrimPrefix(string(raw), "\ufeff"), "\r\n", "\n")

	article := &Article{}
	meta, body, ok := splitFrontMatter(text)
	if ok {
		if err := yaml.Unmarshal([]byte(meta), article); err != nil {
			return nil, fmt.Errorf("failed to parse front matter: %w", err)
		}
	} else {
		body = text
	}

	article.Body = strings.TrimSpace(body)
	if article.Title == "" {
		article.Title = DefaultTitle
	}
	if article.Tags == nil {
		article.Tags = Tags{}
	}
	return article, nil
}

func splitFrontMatter(text string) (meta, body string, ok bool) {
	lines := strings.SplitAfter(text, "\n")
	if strings.TrimSpace(lines[0]) != fence {
		return "", "", false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == fence {
			return strings.Join(lines[1:i], ""), strings.Join(lines[i+1:], ""), true
		}
	}
	return "", "", false
}
