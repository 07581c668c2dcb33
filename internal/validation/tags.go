package validation

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// DefaultMaxTagLength bounds a single tag.
const DefaultMaxTagLength = 30

// ErrDuplicateTag is returned when a tag is already in the set.
var ErrDuplicateTag = errors.New("Tag already exists")

// TagSet is the editable tag list of one entity. The zero value is not
// usable; call NewTagSet.
type TagSet struct {
	tags      []string
	maxLength int
}

// NewTagSet starts from existing tags. A non-positive maxLength selects
// DefaultMaxTagLength.
func NewTagSet(maxLength int, tags ...string) *TagSet {
	if maxLength <= 0 {
		maxLength = DefaultMaxTagLength
	}
	s := &TagSet{maxLength: maxLength}
	for _, tag := range tags {
		_ = s.Add(tag)
	}
	return s
}

// Add appends a trimmed tag. Blank input is ignored; an over-long or
// duplicate tag is rejected and the set is left unchanged.
func (s *TagSet) Add(tag string) error {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil
	}
	if utf8.RuneCountInString(tag) > s.maxLength {
		return fmt.Errorf("Tag must be %d characters or less", s.maxLength)
	}
	if slices.Contains(s.tags, tag) {
		return ErrDuplicateTag
	}
	s.tags = append(s.tags, tag)
	return nil
}

func (s *TagSet) Remove(tag string) {
	s.tags = slices.DeleteFunc(s.tags, func(t string) bool { return t == tag })
}

// Tags returns a copy of the tags in insertion order.
func (s *TagSet) Tags() []string {
	return slices.Clone(s.tags)
}

func (s *TagSet) Len() int {
	return len(s.tags)
}
