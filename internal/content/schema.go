// Package content loads blog post documents from disk and validates them
// against the blog collection schema.
package content

import (
	"errors"
	"fmt"
	"time"

	"github.com/yish0/techblog/internal/entity"
)

// DefaultAuthor is used for posts that do not name an author.
const DefaultAuthor = "Author Name"

// ErrorKind classifies a ValidationError.
type ErrorKind int

const (
	MissingField ErrorKind = iota + 1
	TypeMismatch
)

func (k ErrorKind) String() string {
	switch k {
	case MissingField:
		return "missing field"
	case TypeMismatch:
		return "type mismatch"
	default:
		return "unknown"
	}
}

// ValidationError reports a single front matter field that breaks the schema.
type ValidationError struct {
	Field    string
	Kind     ErrorKind
	Expected entity.Kind
	// Got is only meaningful for TypeMismatch.
	Got entity.Kind
}

func (e *ValidationError) Error() string {
	if e.Kind == MissingField {
		return fmt.Sprintf("%s: required %s is missing", e.Field, e.Expected)
	}

	return fmt.Sprintf("%s: expected %s, got %s", e.Field, e.Expected, e.Got)
}

// Validate checks a raw document against the blog schema and returns the
// normalized post. All field errors are reported together.
func Validate(doc entity.RawDocument) (entity.BlogPost, error) {
	post := entity.BlogPost{
		Slug:   doc.Slug,
		Author: DefaultAuthor,
		Tags:   []string{},
		Body:   doc.Body,
	}

	var errs []error

	fail := func(err *ValidationError) {
		errs = append(errs, err)
	}

	if v, err := required(doc.Fields, "title", entity.KindString); err != nil {
		fail(err)
	} else {
		post.Title = v.Str
	}

	if v, err := required(doc.Fields, "description", entity.KindString); err != nil {
		fail(err)
	} else {
		post.Description = v.Str
	}

	if v, err := required(doc.Fields, "pubDate", entity.KindTime); err != nil {
		fail(err)
	} else {
		post.PubDate = v.Time
	}

	if v, ok, err := optional(doc.Fields, "author", entity.KindString); err != nil {
		fail(err)
	} else if ok {
		post.Author = v.Str
	}

	if v, ok, err := optional(doc.Fields, "tags", entity.KindList); err != nil {
		fail(err)
	} else if ok {
		for i, el := range v.List {
			if el.Kind != entity.KindString {
				fail(&ValidationError{
					Field:    fmt.Sprintf("tags[%d]", i),
					Kind:     TypeMismatch,
					Expected: entity.KindString,
					Got:      el.Kind,
				})

				continue
			}

			post.Tags = append(post.Tags, el.Str)
		}
	}

	if v, ok, err := optional(doc.Fields, "draft", entity.KindBool); err != nil {
		fail(err)
	} else if ok {
		post.Draft = v.Bool
	}

	if v, ok, err := optional(doc.Fields, "image", entity.KindString); err != nil {
		fail(err)
	} else if ok {
		image := v.Str
		post.Image = &image
	}

	if len(errs) > 0 {
		return entity.BlogPost{}, errors.Join(errs...)
	}

	return post, nil
}

// required returns the field value, failing when it is absent or of another kind.
// A null value counts as absent.
func required(fields map[string]entity.Value, name string, kind entity.Kind) (entity.Value, *ValidationError) {
	v, ok, err := optional(fields, name, kind)

	if err != nil {
		return entity.Value{}, err
	}

	if !ok {
		return entity.Value{}, &ValidationError{Field: name, Kind: MissingField, Expected: kind}
	}

	return v, nil
}

func optional(fields map[string]entity.Value, name string, kind entity.Kind) (entity.Value, bool, *ValidationError) {
	v, ok := fields[name]

	if !ok || v.Kind == entity.KindNull {
		return entity.Value{}, false, nil
	}

	if v.Kind != kind {
		return entity.Value{}, false, &ValidationError{Field: name, Kind: TypeMismatch, Expected: kind, Got: v.Kind}
	}

	return v, true, nil
}

// Document converts a post back into the raw form Validate accepts.
// Validate(Document(p)) reproduces p.
func Document(post entity.BlogPost) entity.RawDocument {
	fields := map[string]entity.Value{
		"title":       entity.String(post.Title),
		"description": entity.String(post.Description),
		"pubDate":     entity.Time(post.PubDate),
		"author":      entity.String(post.Author),
		"tags":        entity.Strings(post.Tags...),
		"draft":       entity.Bool(post.Draft),
	}

	if post.Image != nil {
		fields["image"] = entity.String(*post.Image)
	}

	return entity.RawDocument{
		Slug:   post.Slug,
		Fields: fields,
		Body:   post.Body,
	}
}

// Published returns the posts that are not drafts, keeping their order.
func Published(posts []entity.BlogPost) []entity.BlogPost {
	out := make([]entity.BlogPost, 0, len(posts))

	for _, p := range posts {
		if !p.Draft {
			out = append(out, p)
		}
	}

	return out
}

// frontMatter mirrors the blog schema for YAML encoding.
type frontMatter struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	PubDate     time.Time `yaml:"pubDate"`
	Author      string    `yaml:"author"`
	Tags        []string  `yaml:"tags"`
	Draft       bool      `yaml:"draft"`
	Image       *string   `yaml:"image,omitempty"`
}
