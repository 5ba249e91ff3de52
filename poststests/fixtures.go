package poststests

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
	"gopkg.in/yaml.v3"
)

const defaultSeedCount = 100

// ParameterSet is one bundle of fixture values. The whole test suite runs once per parameter
// set, in order, against the same server; nothing is reset in between.
//
// PostID must exist in the target's dataset, and InvalidID and InvalidUserID must not. These
// are not checked: if they are wrong, the affected tests fail.
type ParameterSet struct {
	Name          string
	PostID        int
	InvalidID     int
	UserID        int
	InvalidUserID int
	Title         string
	Body          string

	// DeletePostID is the post removed by the delete test. If undefined, PostID is used.
	DeletePostID ldvalue.OptionalInt

	// SeedCount is the number of posts expected from the list test. If undefined, 100.
	SeedCount ldvalue.OptionalInt
}

// DeleteID returns the ID of the post that the delete test should remove.
func (p ParameterSet) DeleteID() int {
	return p.DeletePostID.OrElse(p.PostID)
}

// ExpectedCount returns the number of posts the list test expects.
func (p ParameterSet) ExpectedCount() int {
	return p.SeedCount.OrElse(defaultSeedCount)
}

// UpdatedTitle returns the title sent by the update test. It always differs from Title, so an
// update that is silently ignored cannot pass, even on a post that already has Title.
func (p ParameterSet) UpdatedTitle() string {
	return "updated " + p.Title
}

// UpdatedBody returns the body sent by the update test.
func (p ParameterSet) UpdatedBody() string {
	return "updated " + p.Body
}

// DefaultParameterSet returns the fixture values used when no fixture file is given. They
// match the standard 100-post seed dataset, where user 3 owns posts and no post or user has
// ID 0.
func DefaultParameterSet() ParameterSet {
	return ParameterSet{
		Name:          "default",
		PostID:        1,
		InvalidID:     0,
		UserID:        3,
		InvalidUserID: 0,
		Title:         "title",
		Body:          "body",
		DeletePostID:  ldvalue.NewOptionalInt(2),
		SeedCount:     ldvalue.NewOptionalInt(defaultSeedCount),
	}
}

type parameterSetRep struct {
	Name          string `yaml:"name"`
	PostID        int    `yaml:"postID"`
	InvalidID     int    `yaml:"invalidID"`
	UserID        int    `yaml:"userID"`
	InvalidUserID int    `yaml:"invalidUserID"`
	Title         string `yaml:"title"`
	Body          string `yaml:"body"`
	DeletePostID  *int   `yaml:"deletePostID"`
	SeedCount     *int   `yaml:"seedCount"`
}

func (r parameterSetRep) toParameterSet() ParameterSet {
	return ParameterSet{
		Name:          r.Name,
		PostID:        r.PostID,
		InvalidID:     r.InvalidID,
		UserID:        r.UserID,
		InvalidUserID: r.InvalidUserID,
		Title:         r.Title,
		Body:          r.Body,
		DeletePostID:  ldvalue.NewOptionalIntFromPointer(r.DeletePostID),
		SeedCount:     ldvalue.NewOptionalIntFromPointer(r.SeedCount),
	}
}

// LoadParameterSets reads parameter sets from a YAML or JSON file.
func LoadParameterSets(path string) ([]ParameterSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read fixture file: %w", err)
	}
	sets, err := ParseParameterSets(data)
	if err != nil {
		return nil, fmt.Errorf("invalid fixture file %s: %w", path, err)
	}
	return sets, nil
}

// ParseParameterSets decodes either a list of parameter sets or a single one. JSON is accepted
// since it is also valid YAML.
func ParseParameterSets(data []byte) ([]ParameterSet, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, errors.New("no parameter sets found")
	}
	root := doc.Content[0]

	var reps []parameterSetRep
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&reps); err != nil {
			return nil, err
		}
	case yaml.MappingNode:
		var rep parameterSetRep
		if err := root.Decode(&rep); err != nil {
			return nil, err
		}
		reps = append(reps, rep)
	default:
		return nil, fmt.Errorf("expected a list of parameter sets, line %d", root.Line)
	}
	if len(reps) == 0 {
		return nil, errors.New("no parameter sets found")
	}

	sets := make([]ParameterSet, 0, len(reps))
	for _, r := range reps {
		sets = append(sets, r.toParameterSet())
	}
	return sets, nil
}
