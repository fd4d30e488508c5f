package datagrid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ModalKind names the active dialog.
type ModalKind int

const (
	ModalClosed ModalKind = iota
	ModalViewing
	ModalEditing
	ModalDeleting
)

func (k ModalKind) String() string {
	switch k {
	case ModalViewing:
		return "view"
	case ModalEditing:
		return "edit"
	case ModalDeleting:
		return "delete"
	default:
		return "closed"
	}
}

// Modal is the row-action dialog state. Exactly one variant is active, so two
// dialogs can never be open at once.
type Modal interface {
	Kind() ModalKind
	// Row is the row the dialog was opened for, nil when closed.
	Row() Row
	isModal()
}

// Closed means no dialog is shown.
type Closed struct{}

// Viewing shows a read-only field listing.
type Viewing struct{ row Row }

// Editing holds the quick-edit staged form.
type Editing struct {
	row  Row
	Form *StagedForm
}

// Deleting asks for delete confirmation.
type Deleting struct{ row Row }

func (Closed) Kind() ModalKind   { return ModalClosed }
func (Viewing) Kind() ModalKind  { return ModalViewing }
func (Editing) Kind() ModalKind  { return ModalEditing }
func (Deleting) Kind() ModalKind { return ModalDeleting }

func (Closed) Row() Row     { return nil }
func (m Viewing) Row() Row  { return m.row }
func (m Editing) Row() Row  { return m.row }
func (m Deleting) Row() Row { return m.row }

func (Closed) isModal()   {}
func (Viewing) isModal()  {}
func (Editing) isModal()  {}
func (Deleting) isModal() {}

var (
	// ErrReadOnlyField is returned when staging a value for a read-only field.
	ErrReadOnlyField = errors.New("field is read-only")
	// ErrUnknownField is returned when staging a key the form does not offer.
	ErrUnknownField = errors.New("unknown field")
)

// FieldError reports an invalid staged value.
type FieldError struct {
	Key string
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Key, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// StagedForm is the quick-edit working copy of one row. Edits never touch the
// original row; Values returns the whole staged object for the edit callback.
type StagedForm struct {
	fields []FieldValue
	values Record
	raw    map[string]string
	errs   map[string]error
}

// NewStagedForm clones row into a form driven by schema. Record rows are
// shallow-cloned so fields outside the schema survive the round trip.
func NewStagedForm(row Row, schema Schema) *StagedForm {
	f := &StagedForm{
		fields: schema.EditFields(row),
		raw:    map[string]string{},
		errs:   map[string]error{},
	}
	if rec, ok := row.(Record); ok {
		f.values = rec.Clone()
	} else {
		f.values = Record{}
		if row != nil && row.RowID() != "" {
			f.values[IDKey] = row.RowID()
		}
		for _, fv := range schema.ViewFields(row) {
			f.values[fv.Key] = fv.Value
		}
	}
	for _, fv := range f.fields {
		f.raw[fv.Key] = fv.Text()
	}
	return f
}

// Fields lists the editable inputs, in schema order.
func (f *StagedForm) Fields() []FieldValue {
	return f.fields
}

// Raw returns the text currently typed into a field.
func (f *StagedForm) Raw(key string) string {
	return f.raw[key]
}

// Set stages raw input for key. Number fields are parsed; the typed text is
// kept even when it fails to parse so the input does not lose keystrokes.
// Every other kind, booleans included, is staged as the typed string.
func (f *StagedForm) Set(key, raw string) error {
	fv, ok := f.field(key)
	if !ok {
		return &FieldError{Key: key, Err: ErrUnknownField}
	}
	if fv.ReadOnly {
		return &FieldError{Key: key, Err: ErrReadOnlyField}
	}
	f.raw[key] = raw
	v, err := parseFieldValue(fv, raw)
	if err != nil {
		f.errs[key] = err
		return &FieldError{Key: key, Err: err}
	}
	delete(f.errs, key)
	f.values[key] = v
	return nil
}

// Err returns the first field error, in field order.
func (f *StagedForm) Err() error {
	for _, fv := range f.fields {
		if err, ok := f.errs[fv.Key]; ok {
			return &FieldError{Key: fv.Key, Err: err}
		}
	}
	return nil
}

// Values returns a copy of the staged object.
func (f *StagedForm) Values() Record {
	return f.values.Clone()
}

func (f *StagedForm) field(key string) (FieldValue, bool) {
	for _, fv := range f.fields {
		if fv.Key == key {
			return fv, true
		}
	}
	return FieldValue{}, false
}

func parseFieldValue(fv FieldValue, raw string) (any, error) {
	switch fv.Kind {
	case FieldNumber:
		s := strings.TrimSpace(raw)
		if s == "" {
			return nil, nil
		}
		if _, isFloat := fv.Value.(float64); !isFloat {
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				switch fv.Value.(type) {
				case int64:
					return n, nil
				case int32:
					return int32(n), nil
				default:
					return int(n), nil
				}
			}
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", raw)
		}
		return n, nil
	default:
		return raw, nil
	}
}
