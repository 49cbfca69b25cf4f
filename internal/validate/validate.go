// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate is the input boundary for document generation. It checks
// the shape of a DocumentConfig and its references before anything is
// assembled, and computes advisory APA warnings that never block generation.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pdiddy/apa-generator/pkg/types"
)

// Detail is one field-level problem.
type Detail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// String returns "field: message".
func (d Detail) String() string {
	return d.Field + ": " + d.Message
}

// Error reports every problem found in one input.
type Error struct {
	Details []Detail
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Details))
	for i, d := range e.Details {
		msgs[i] = d.String()
	}
	return "invalid document: " + strings.Join(msgs, "; ")
}

// Messages returns the details as "field: message" strings.
func (e *Error) Messages() []string {
	out := make([]string, len(e.Details))
	for i, d := range e.Details {
		out[i] = d.String()
	}
	return out
}

// Validator checks documents. It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return &Validator{v: v}
}

// Document validates cfg and its references. It returns nil or an *Error.
func (v *Validator) Document(cfg types.DocumentConfig) error {
	var details []Detail
	if err := v.v.Struct(cfg); err != nil {
		d, err := translate(err, "")
		if err != nil {
			return fmt.Errorf("validating document: %w", err)
		}
		details = append(details, d...)
	}
	if len(cfg.Authors) == 0 && cfg.Author == nil {
		details = append(details, Detail{Field: "authors", Message: "at least one author is required"})
	}
	if cfg.DueDate.IsZero() {
		details = append(details, Detail{Field: "dueDate", Message: "is required"})
	}
	for i, ref := range cfg.References {
		d, err := v.reference(ref, fmt.Sprintf("references[%d]", i))
		if err != nil {
			return err
		}
		details = append(details, d...)
	}
	if len(details) > 0 {
		return &Error{Details: details}
	}
	return nil
}

// Reference validates a single reference.
func (v *Validator) Reference(ref types.Reference) error {
	details, err := v.reference(ref, "")
	if err != nil {
		return err
	}
	if len(details) > 0 {
		return &Error{Details: details}
	}
	return nil
}

func (v *Validator) reference(ref types.Reference, prefix string) ([]Detail, error) {
	field := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + "." + name
	}
	if ref == nil {
		return []Detail{{Field: field("type"), Message: "reference is empty"}}, nil
	}
	if _, ok := ref.(*types.UnknownReference); ok {
		return []Detail{{Field: field("type"), Message: fmt.Sprintf("unsupported reference type %q", ref.Kind())}}, nil
	}

	var details []Detail
	if err := v.v.Struct(ref); err != nil {
		d, err := translate(err, prefix)
		if err != nil {
			return nil, fmt.Errorf("validating reference: %w", err)
		}
		details = append(details, d...)
	}
	if needsAuthor(ref.Kind()) && len(ref.Base().Authors) == 0 {
		details = append(details, Detail{Field: field("authors"), Message: "at least one author is required"})
	}
	return details, nil
}

// needsAuthor reports whether references of kind k must name an author.
// Websites fall back to the site name and legal cases are cited by case name.
func needsAuthor(k types.ReferenceType) bool {
	return k != types.RefWebsite && k != types.RefLegalCase
}

// translate turns validator errors into details. The struct name that opens
// each namespace is replaced by prefix, and embedded base fields are
// reported as if they were declared on the variant.
func translate(err error, prefix string) ([]Detail, error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := make([]Detail, 0, len(verrs))
	for _, fe := range verrs {
		_, path, _ := strings.Cut(fe.Namespace(), ".")
		path = strings.ReplaceAll(path, "ReferenceBase.", "")
		if prefix != "" {
			path = prefix + "." + path
		}
		out = append(out, Detail{Field: path, Message: message(fe)})
	}
	return out, nil
}

func message(fe validator.FieldError) string {
	unit := ""
	switch fe.Kind() {
	case reflect.String:
		unit = " characters"
	case reflect.Slice, reflect.Array:
		unit = " items"
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + unit
	case "max":
		return "must be at most " + fe.Param() + unit
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	}
	return "failed " + fe.Tag() + " validation"
}
