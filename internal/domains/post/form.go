package post

import (
	"errors"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FieldErrors maps form field names to display messages.
type FieldErrors map[string]string

// Form carries the two mutable post fields through validation.
// Everything else on a Post (author, pub_date) is never form-supplied.
type Form struct {
	Text    string `json:"text"`
	GroupID *int64 `json:"group"`
}

// FromValues parses raw form submission values. The group value is an
// optional id of an existing group; empty means "no group", which is
// not an error. Existence is checked by the service, not here.
func FromValues(text, groupRaw string) (*Form, FieldErrors) {
	f := &Form{Text: strings.TrimSpace(text)}

	if groupRaw = strings.TrimSpace(groupRaw); groupRaw != "" {
		id, err := strconv.ParseInt(groupRaw, 10, 64)
		if err != nil {
			return f, FieldErrors{"group": "select a valid group"}
		}
		f.GroupID = &id
	}

	return f, nil
}

// FromPost pre-populates an edit form with a post's current fields.
func FromPost(p *Post) *Form {
	return &Form{
		Text:    p.Text,
		GroupID: p.GroupID,
	}
}

// Validate checks the field-level rules; group existence needs the
// repository and is the service's part of validation.
func (f Form) Validate() FieldErrors {
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Text,
			validation.Required.Error("required field"),
		),
	)
	if err == nil {
		return nil
	}

	fe := FieldErrors{}
	var ve validation.Errors
	if errors.As(err, &ve) {
		for field, fieldErr := range ve {
			fe[field] = fieldErr.Error()
		}
		return fe
	}

	fe["form"] = err.Error()
	return fe
}

// GroupSelected reports whether the form currently points at the given
// group. Used by the form template to mark the selected option.
func (f *Form) GroupSelected(id int64) bool {
	return f.GroupID != nil && *f.GroupID == id
}
