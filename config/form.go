package config

import (
	"github.com/autoforms/autoforms/schema"
)

// Form declaration of one form, absent permissions mean login is enough
type Form struct {
	Path              string          `json:"path" yaml:"path"`
	TableName         string          `json:"tableName" yaml:"tableName"`
	Title             string          `json:"title" yaml:"title"`
	CanAdd            bool            `json:"canAdd" yaml:"canAdd"`
	CanEdit           bool            `json:"canEdit" yaml:"canEdit"`
	CanArchive        bool            `json:"canArchive" yaml:"canArchive"`
	CanDelete         bool            `json:"canDelete" yaml:"canDelete"`
	AddPermission     *int            `json:"addPermission" yaml:"addPermission"`
	EditPermission    *int            `json:"editPermission" yaml:"editPermission"`
	ArchivePermission *int            `json:"archivePermission" yaml:"archivePermission"`
	DeletePermission  *int            `json:"deletePermission" yaml:"deletePermission"`
	Fields            []*schema.Field `json:"fields" yaml:"fields"`
}

// Schema converts the declaration and validates it. Fields are copied so the
// declaration stays reusable.
func (f Form) Schema() (*schema.Form, error) {
	fields := make([]*schema.Field, len(f.Fields))
	for idx, field := range f.Fields {
		if field == nil {
			field = &schema.Field{}
		}
		copied := *field
		if field.ArrayOf != nil {
			arrayOf := *field.ArrayOf
			copied.ArrayOf = &arrayOf
		}
		if field.InputColumns != nil {
			columns := *field.InputColumns
			copied.InputColumns = &columns
		}
		copied.Options = append([]schema.Option(nil), field.Options...)
		fields[idx] = &copied
	}

	form := schema.NewForm(f.Path, f.TableName, fields...)
	form.Title = f.Title
	form.CanAdd = f.CanAdd
	form.CanEdit = f.CanEdit
	form.CanArchive = f.CanArchive
	form.CanDelete = f.CanDelete
	permission(&form.AddPermission, f.AddPermission)
	permission(&form.EditPermission, f.EditPermission)
	permission(&form.ArchivePermission, f.ArchivePermission)
	permission(&form.DeletePermission, f.DeletePermission)

	if err := form.Validate(); err != nil {
		return nil, err
	}
	return form, nil
}

func permission(dst *int, value *int) {
	if value != nil {
		*dst = *value
	}
}
