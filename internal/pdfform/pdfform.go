// Package pdfform reads, fills and merges PDF forms with pdfcpu.
package pdfform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/form"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/v0xg/claimgen/internal/claim"
)

// Engine implements claim.Forms
type Engine struct {
	conf *model.Configuration
}

// New returns an engine with pdfcpu's default configuration
func New() *Engine {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Engine{conf: conf}
}

// Fields lists the form fields of doc
func (e *Engine) Fields(doc []byte) ([]claim.FormField, error) {
	fields, err := e.fields(doc)
	if err != nil {
		return nil, err
	}
	out := make([]claim.FormField, 0, len(fields))
	for _, f := range fields {
		kind, ok := kindOf(f.Typ)
		if !ok {
			continue
		}
		out = append(out, claim.FormField{Name: f.Name, Kind: kind})
	}
	return out, nil
}

// Fill writes values into doc. Fields not named in values keep their content.
func (e *Engine) Fill(doc []byte, values claim.FormValues) ([]byte, error) {
	fields, err := e.fields(doc)
	if err != nil {
		return nil, err
	}
	payload, err := fillPayload(fields, values)
	if err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := api.FillForm(bytes.NewReader(doc), bytes.NewReader(payload), &out, e.conf); err != nil {
		return nil, fmt.Errorf("fill form: %w", err)
	}
	return out.Bytes(), nil
}

// Merge concatenates docs in order
func (e *Engine) Merge(docs ...[]byte) ([]byte, error) {
	if len(docs) == 0 {
		return nil, fmt.Errorf("merge: no documents")
	}
	readers := make([]io.ReadSeeker, len(docs))
	for i, d := range docs {
		readers[i] = bytes.NewReader(d)
	}

	var out bytes.Buffer
	if err := api.MergeRaw(readers, &out, false, e.conf); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	return out.Bytes(), nil
}

func (e *Engine) fields(doc []byte) ([]form.Field, error) {
	fields, err := api.FormFields(bytes.NewReader(doc), e.conf)
	if err != nil {
		return nil, fmt.Errorf("read form fields: %w", err)
	}
	return fields, nil
}

func kindOf(t form.FieldType) (claim.FieldKind, bool) {
	switch t {
	case form.FTText, form.FTDate:
		return claim.TextField, true
	case form.FTCheckBox:
		return claim.CheckBox, true
	default:
		return 0, false
	}
}

// fillGroup mirrors the JSON layout pdfcpu's form filling reads
type fillGroup struct {
	Forms []fillForm `json:"forms"`
}

type fillForm struct {
	TextFields []textValue  `json:"textfield,omitempty"`
	DateFields []textValue  `json:"datefield,omitempty"`
	CheckBoxes []checkValue `json:"checkbox,omitempty"`
}

type textValue struct {
	Pages []int  `json:"pages"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type checkValue struct {
	Pages []int  `json:"pages"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Value bool   `json:"value"`
}

// fillPayload builds the fill document for the fields of a template. Values
// naming fields the template lacks are an error.
func fillPayload(fields []form.Field, values claim.FormValues) ([]byte, error) {
	byName := make(map[string]form.Field, len(fields))
	for _, f := range fields {
		byName[f.Name] = f
	}

	var ff fillForm
	for _, name := range sortedKeys(values.Text) {
		f, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("fill form: no field %q", name)
		}
		v := textValue{Pages: f.Pages, ID: f.ID, Name: f.Name, Value: values.Text[name]}
		if f.Typ == form.FTDate {
			ff.DateFields = append(ff.DateFields, v)
		} else {
			ff.TextFields = append(ff.TextFields, v)
		}
	}
	for _, name := range sortedKeys(values.Checks) {
		f, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("fill form: no field %q", name)
		}
		ff.CheckBoxes = append(ff.CheckBoxes, checkValue{Pages: f.Pages, ID: f.ID, Name: f.Name, Value: values.Checks[name]})
	}

	return json.Marshal(fillGroup{Forms: []fillForm{ff}})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
