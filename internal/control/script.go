package control

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Keyframe holds an input from At seconds until the next keyframe.
type Keyframe struct {
	At    float64 `yaml:"at"`
	Input `yaml:",inline"`
}

// Script replays a timeline of inputs. Before the first keyframe it
// returns no input.
type Script struct {
	Keys []Keyframe `yaml:"keys"`
}

func NewScript(keys ...Keyframe) *Script {
	s := &Script{Keys: append([]Keyframe(nil), keys...)}
	s.sort()
	return s
}

func (s *Script) sort() {
	sort.SliceStable(s.Keys, func(i, j int) bool { return s.Keys[i].At < s.Keys[j].At })
}

func (s *Script) Compute(_ Status, t float64) Input {
	i := sort.Search(len(s.Keys), func(i int) bool { return s.Keys[i].At > t })
	if i == 0 {
		return Input{}
	}
	return s.Keys[i-1].Input
}

// End is the time of the last keyframe.
func (s *Script) End() float64 {
	if len(s.Keys) == 0 {
		return 0
	}
	return s.Keys[len(s.Keys)-1].At
}

// UnmarshalYAML keeps the timeline ordered whatever order the file uses.
func (s *Script) UnmarshalYAML(node *yaml.Node) error {
	type plain Script
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*s = Script(p)
	s.sort()
	return nil
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	return &s, nil
}
