package estimate

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var keywordsYAML []byte

// KeywordSets groups the domain vocabulary a message is scored against.
type KeywordSets struct {
	ProjectType []string `yaml:"project_type"`
	Technical   []string `yaml:"technical"`
	Feature     []string `yaml:"feature"`
	Business    []string `yaml:"business"`
}

// KeywordHits is the per-set hit count for one message.
type KeywordHits struct {
	ProjectType int
	Technical   int
	Feature     int
	Business    int
}

// Total returns the hits across all sets.
func (h KeywordHits) Total() int {
	return h.ProjectType + h.Technical + h.Feature + h.Business
}

// DefaultKeywords is the vocabulary compiled into the binary.
var DefaultKeywords = mustParseKeywords(keywordsYAML)

// ParseKeywords decodes keyword sets from YAML. Keywords are lower-cased.
func ParseKeywords(data []byte) (*KeywordSets, error) {
	var sets KeywordSets
	if err := yaml.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("parse keywords: %w", err)
	}
	for _, set := range []*[]string{&sets.ProjectType, &sets.Technical, &sets.Feature, &sets.Business} {
		for i, kw := range *set {
			(*set)[i] = strings.ToLower(strings.TrimSpace(kw))
		}
	}
	return &sets, nil
}

func mustParseKeywords(data []byte) *KeywordSets {
	sets, err := ParseKeywords(data)
	if err != nil {
		panic(err)
	}
	return sets
}

// Count returns how many keywords of each set occur in text.
// text must already be lower-cased.
func (k *KeywordSets) Count(text string) KeywordHits {
	return KeywordHits{
		ProjectType: countMatches(text, k.ProjectType),
		Technical:   countMatches(text, k.Technical),
		Feature:     countMatches(text, k.Feature),
		Business:    countMatches(text, k.Business),
	}
}

func countMatches(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			n++
		}
	}
	return n
}
