package pdfform

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/form"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/claimgen/internal/claim"
)

func TestFillPayload(t *testing.T) {
	fields := []form.Field{
		{Name: "Last Name", ID: "12", Typ: form.FTText, Pages: []int{1}},
		{Name: "Date", ID: "14", Typ: form.FTDate, Pages: []int{1}},
		{Name: "Checking", ID: "20", Typ: form.FTCheckBox, Pages: []int{2}},
		{Name: "Savings", ID: "21", Typ: form.FTCheckBox, Pages: []int{2}},
	}
	values := claim.FormValues{
		Text:   map[string]string{"Last Name": "Lee", "Date": "3/9/2024"},
		Checks: map[string]bool{"Savings": true, "Checking": false},
	}

	raw, err := fillPayload(fields, values)
	require.NoError(t, err)

	var got fillGroup
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Len(t, got.Forms, 1)

	f := got.Forms[0]
	assert.Equal(t, []textValue{{Pages: []int{1}, ID: "12", Name: "Last Name", Value: "Lee"}}, f.TextFields)
	assert.Equal(t, []textValue{{Pages: []int{1}, ID: "14", Name: "Date", Value: "3/9/2024"}}, f.DateFields)
	assert.Equal(t, []checkValue{
		{Pages: []int{2}, ID: "20", Name: "Checking", Value: false},
		{Pages: []int{2}, ID: "21", Name: "Savings", Value: true},
	}, f.CheckBoxes)
}

func TestFillPayloadUnknownField(t *testing.T) {
	_, err := fillPayload(nil, claim.FormValues{Text: map[string]string{"Zip": "78701"}})
	assert.ErrorContains(t, err, `"Zip"`)
}

func TestKindOf(t *testing.T) {
	kind, ok := kindOf(form.FTCheckBox)
	assert.True(t, ok)
	assert.Equal(t, claim.CheckBox, kind)

	kind, ok = kindOf(form.FTDate)
	assert.True(t, ok)
	assert.Equal(t, claim.TextField, kind)

	_, ok = kindOf(form.FTListBox)
	assert.False(t, ok)
}

func TestMergeRequiresDocuments(t *testing.T) {
	_, err := New().Merge()
	assert.Error(t, err)
}

const formSpec = `{
	"paper": "A4P",
	"origin": "LowerLeft",
	"fonts": {
		"input": {"name": "Helvetica", "size": 12},
		"label": {"name": "Helvetica", "size": 12}
	},
	"pages": {
		"1": {
			"content": {
				"textfield": [
					{"id": "LastName", "pos": [150, 700], "width": 200, "font": {"name": "$input"},
					 "label": {"value": "Last name", "width": 80, "pos": "left", "font": {"name": "$label"}}},
					{"id": "Amount", "pos": [150, 650], "width": 200, "font": {"name": "$input"},
					 "label": {"value": "Amount", "width": 80, "pos": "left", "font": {"name": "$label"}}}
				],
				"checkbox": [
					{"id": "Checking", "pos": [150, 600], "width": 12, "font": {"name": "$input"},
					 "label": {"value": "Checking", "width": 80, "pos": "left", "font": {"name": "$label"}}},
					{"id": "Savings", "pos": [150, 570], "width": 12, "font": {"name": "$input"},
					 "label": {"value": "Savings", "width": 80, "pos": "left", "font": {"name": "$label"}}}
				]
			}
		}
	}
}`

const invoiceSpec = `{
	"paper": "A4P",
	"origin": "LowerLeft",
	"pages": {
		"1": {
			"content": {
				"text": [{"value": "Invoice 111-2222222", "pos": [100, 700], "font": {"name": "Helvetica", "size": 12}}]
			}
		}
	}
}`

func createPDF(t *testing.T, spec string) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, api.Create(nil, strings.NewReader(spec), &buf, model.NewDefaultConfiguration()))
	return buf.Bytes()
}

func fieldValues(t *testing.T, doc []byte) map[string]string {
	t.Helper()
	fields, err := api.FormFields(bytes.NewReader(doc), model.NewDefaultConfiguration())
	require.NoError(t, err)
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Name] = f.V
	}
	return values
}

func TestEngine(t *testing.T) {
	e := New()
	template := createPDF(t, formSpec)
	invoice := createPDF(t, invoiceSpec)

	fields, err := e.Fields(template)
	require.NoError(t, err)
	assert.ElementsMatch(t, []claim.FormField{
		{Name: "LastName", Kind: claim.TextField},
		{Name: "Amount", Kind: claim.TextField},
		{Name: "Checking", Kind: claim.CheckBox},
		{Name: "Savings", Kind: claim.CheckBox},
	}, fields)

	filled, err := e.Fill(template, claim.FormValues{
		Text:   map[string]string{"LastName": "Lee", "Amount": "$12.00"},
		Checks: map[string]bool{"Checking": false, "Savings": true},
	})
	require.NoError(t, err)

	values := fieldValues(t, filled)
	assert.Equal(t, "Lee", values["LastName"])
	assert.Equal(t, "$12.00", values["Amount"])
	assert.Equal(t, "Yes", values["Savings"])
	assert.Empty(t, values["Checking"])

	merged, err := e.Merge(filled, invoice)
	require.NoError(t, err)

	pages, err := api.PageCount(bytes.NewReader(merged), model.NewDefaultConfiguration())
	require.NoError(t, err)
	assert.Equal(t, 2, pages)

	mergedFields, err := api.FormFields(bytes.NewReader(merged), model.NewDefaultConfiguration())
	require.NoError(t, err)
	for _, f := range mergedFields {
		assert.Equal(t, []int{1}, f.Pages, "field %s belongs to the form page", f.Name)
	}
	assert.Equal(t, "Yes", fieldValues(t, merged)["Savings"])
}
