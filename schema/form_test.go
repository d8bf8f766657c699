package schema_test

import (
	"testing"

	"github.com/autoforms/autoforms/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discoveryForm() *schema.Form {
	form := schema.NewForm("/discoveries/", "discoveries",
		&schema.Field{Name: "name", Required: true, List: true, ListOrder: intPtr(2), SortOrder: intPtr(2)},
		&schema.Field{Name: "discovered", Type: schema.Date, List: true, ListOrder: intPtr(1), SortOrder: intPtr(1)},
		&schema.Field{Name: "revision", Type: schema.Int, Min: floatPtr(0), List: true},
		&schema.Field{Name: "magnitude", Type: schema.Double},
		&schema.Field{Name: "tint", Type: schema.Color, List: true},
		&schema.Field{Name: "observed", Type: schema.Datetime},
		&schema.Field{Name: "transit", Type: schema.Time},
		&schema.Field{Name: "reference", Type: schema.URL},
		&schema.Field{Name: "phone", Type: schema.Telephone},
		&schema.Field{Name: "contact", Type: schema.Email},
		&schema.Field{Name: "notes", Type: schema.Textarea, MaxLength: 500},
		&schema.Field{Name: "photo", Type: schema.File, AllowedExtensions: []string{".png"}},
		&schema.Field{Name: "bands", Type: schema.Array, ArrayOf: &schema.ArrayOf{Type: schema.Int}},
		&schema.Field{Name: "spectra", Type: schema.Array, ArrayOf: &schema.ArrayOf{Type: schema.Double}},
		&schema.Field{Name: "tags", Type: schema.Array, ArrayOf: &schema.ArrayOf{Type: schema.Text, MaxLength: 12}},
		&schema.Field{Name: "serial", CanEdit: boolPtr(false)},
	)
	form.CanAdd, form.CanEdit, form.CanArchive = true, true, true
	return form
}

func TestFormValidate(t *testing.T) {
	form := discoveryForm()
	require.NoError(t, form.Validate())

	assert.Equal(t, "/discoveries", form.Path)
	assert.Equal(t, "/discoveries", form.Prefix())
	assert.Equal(t, "Discoveries", form.Title)
	assert.Equal(t, "Discovery", form.Noun())
	require.NotNil(t, form.Layout())

	root := schema.NewForm("/", "notes", &schema.Field{Name: "body"})
	require.NoError(t, root.Validate())
	assert.Equal(t, "/", root.Path)
	assert.Equal(t, "", root.Prefix())
}

func TestFormValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*schema.Form)
		kind   schema.ErrorKind
	}{
		{"empty path", func(f *schema.Form) { f.Path = "" }, schema.MissingField},
		{"relative path", func(f *schema.Form) { f.Path = "discoveries" }, schema.InvalidPath},
		{"path with dash", func(f *schema.Form) { f.Path = "/sky-survey" }, schema.InvalidPath},
		{"empty table", func(f *schema.Form) { f.TableName = "" }, schema.MissingField},
		{"bad table", func(f *schema.Form) { f.TableName = "sky survey" }, schema.InvalidName},
		{"add permission", func(f *schema.Form) { f.AddPermission = -2 }, schema.InvalidPermission},
		{"delete permission", func(f *schema.Form) { f.DeletePermission = -7 }, schema.InvalidPermission},
		{"no fields", func(f *schema.Form) { f.Fields = nil }, schema.EmptyFieldSet},
		{"bad field", func(f *schema.Form) { f.Fields = append(f.Fields, &schema.Field{Name: "id"}) }, schema.InvalidName},
		{"duplicate field", func(f *schema.Form) { f.Fields = append(f.Fields, &schema.Field{Name: "Name"}) }, schema.InvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := discoveryForm()
			tt.mutate(form)
			err := form.Validate()
			require.Error(t, err)
			assert.Equal(t, tt.kind, schema.KindOf(err))
			assert.Nil(t, form.Layout())
		})
	}
}

func TestFormLayout(t *testing.T) {
	tests := []struct {
		name       string
		canArchive bool
		want       []string
	}{
		{"archivable", true, []string{"id", "active", "name", "revision"}},
		{"not archivable", false, []string{"id", "name", "revision"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := schema.NewForm("/", "parts", &schema.Field{Name: "name"}, &schema.Field{Name: "revision", Type: schema.Int})
			form.CanArchive = tt.canArchive
			require.NoError(t, form.Validate())
			assert.Equal(t, tt.want, form.Layout().Names())
			assert.Equal(t, tt.canArchive, form.Layout().Archivable())
			assert.Len(t, form.Layout().Columns, len(form.Fields)+len(tt.want)-2)
		})
	}
}

func TestFormLayoutStorageTypes(t *testing.T) {
	form := discoveryForm()
	require.NoError(t, form.Validate())
	layout := form.Layout()

	want := map[string]schema.StorageType{
		"id":         {Kind: schema.KindID},
		"active":     {Kind: schema.KindBool},
		"name":       {Kind: schema.KindString, Size: 32},
		"discovered": {Kind: schema.KindDate},
		"revision":   {Kind: schema.KindInt},
		"magnitude":  {Kind: schema.KindFloat},
		"tint":       {Kind: schema.KindString, Size: 7},
		"observed":   {Kind: schema.KindTimestamp},
		"transit":    {Kind: schema.KindTimeOfDay},
		"reference":  {Kind: schema.KindText},
		"phone":      {Kind: schema.KindString, Size: 32},
		"contact":    {Kind: schema.KindShortString},
		"notes":      {Kind: schema.KindString, Size: 500},
		"photo":      {Kind: schema.KindShortString},
		"bands":      {Kind: schema.KindIntList},
		"spectra":    {Kind: schema.KindFloatList},
		"tags":       {Kind: schema.KindStringList, Size: 12},
		"serial":     {Kind: schema.KindString, Size: 32},
	}

	assert.Len(t, layout.Columns, len(want))
	for name, st := range want {
		column, ok := layout.Column(name)
		require.True(t, ok, name)
		assert.Equal(t, st, column.Type, name)
	}
	assert.Contains(t, layout.String(), "tags string-list(12)")
}

func TestStorageTypeTotal(t *testing.T) {
	for _, typ := range schema.Types {
		field := &schema.Field{Name: "f", Type: typ}
		if typ == schema.Array {
			for _, of := range schema.ArrayOfTypes {
				field.ArrayOf = &schema.ArrayOf{Type: of}
				require.NoError(t, field.Validate())
				_, err := schema.StorageTypeOf(field)
				assert.NoError(t, err, "array of %s", of)
			}
			continue
		}
		require.NoError(t, field.Validate())
		_, err := schema.StorageTypeOf(field)
		assert.NoError(t, err, typ)
	}

	_, err := schema.StorageTypeOf(&schema.Field{Name: "f", Type: "money"})
	assert.Equal(t, schema.FatalConfig, schema.KindOf(err))
}

func TestFormFieldOrders(t *testing.T) {
	form := discoveryForm()
	require.NoError(t, form.Validate())

	names := func(fields []*schema.Field) []string {
		var out []string
		for _, f := range fields {
			out = append(out, f.Name)
		}
		return out
	}

	assert.Equal(t, []string{"discovered", "name", "revision", "tint"}, names(form.ListFields()))
	assert.Equal(t, []string{"discovered", "name"}, names(form.SortFields()))
	assert.NotContains(t, names(form.EditableFields()), "serial")
	assert.Len(t, form.EditableFields(), len(form.Fields)-1)
}

func TestFormGates(t *testing.T) {
	form := schema.NewForm("/", "parts", &schema.Field{Name: "name"})
	form.CanEdit = true
	form.EditPermission = 3

	assert.True(t, form.Capable(schema.OpList))
	assert.False(t, form.Capable(schema.OpAdd))
	assert.True(t, form.Capable(schema.OpEdit))
	assert.Equal(t, 3, form.Permission(schema.OpEdit))
	assert.Equal(t, schema.NoPermission, form.Permission(schema.OpAdd))
	assert.Equal(t, schema.NoPermission, form.Permission(schema.OpList))
}
