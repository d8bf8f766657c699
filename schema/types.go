package schema

import "strconv"

// Type field type as declared in a form
type Type string

const (
	Text      Type = "text"
	Int       Type = "int"
	Double    Type = "double"
	Color     Type = "color"
	Date      Type = "date"
	Datetime  Type = "datetime"
	Time      Type = "time"
	URL       Type = "url"
	Telephone Type = "telephone"
	Email     Type = "email"
	Textarea  Type = "textarea"
	File      Type = "file"
	Array     Type = "array"

	// Boolean is only used by the synthetic active column, it can't be declared
	Boolean Type = "boolean"
)

// Types declarable field types, in documentation order
var Types = []Type{Text, Int, Double, Color, Date, Datetime, Time, URL, Telephone, Email, Textarea, File, Array}

// ArrayOfTypes element types allowed for arrays
var ArrayOfTypes = []Type{Text, Int, Double}

// Declarable reports whether t may appear in a field declaration
func (t Type) Declarable() bool {
	for _, v := range Types {
		if v == t {
			return true
		}
	}
	return false
}

// Numeric int or double
func (t Type) Numeric() bool {
	return t == Int || t == Double
}

// InputType input control family
type InputType string

const (
	Checkboxes  InputType = "checkboxes"
	MultiSelect InputType = "multi-select"
	Select      InputType = "select"
	Radios      InputType = "radios"
)

// Alignment of radios and checkboxes
type Alignment string

const (
	Horizontal Alignment = "horizontal"
	Vertical   Alignment = "vertical"
)

// StorageKind persisted column kind
type StorageKind int

const (
	KindID StorageKind = iota + 1
	KindBool
	KindInt
	KindFloat
	KindString
	KindText
	KindShortString
	KindDate
	KindTimestamp
	KindTimeOfDay
	KindIntList
	KindFloatList
	KindStringList
)

var kindNames = map[StorageKind]string{
	KindID:          "id",
	KindBool:        "bool",
	KindInt:         "int",
	KindFloat:       "float64",
	KindString:      "string",
	KindText:        "text",
	KindShortString: "short-string",
	KindDate:        "date",
	KindTimestamp:   "timestamp",
	KindTimeOfDay:   "time-of-day",
	KindIntList:     "int-list",
	KindFloatList:   "float64-list",
	KindStringList:  "string-list",
}

func (k StorageKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// List reports whether values of this kind are slices
func (k StorageKind) List() bool {
	return k == KindIntList || k == KindFloatList || k == KindStringList
}

// StorageType kind plus size for bounded strings
type StorageType struct {
	Kind StorageKind
	Size int
}

func (st StorageType) String() string {
	if st.Size > 0 {
		return st.Kind.String() + "(" + strconv.Itoa(st.Size) + ")"
	}
	return st.Kind.String()
}

// storageTypes maps each field type to its storage type, arrays are resolved by arrayStorageTypes
var storageTypes = map[Type]func(field *Field) StorageType{
	Text:      func(field *Field) StorageType { return StorageType{Kind: KindString, Size: field.MaxLength} },
	Int:       func(*Field) StorageType { return StorageType{Kind: KindInt} },
	Double:    func(*Field) StorageType { return StorageType{Kind: KindFloat} },
	Color:     func(*Field) StorageType { return StorageType{Kind: KindString, Size: 7} },
	Date:      func(*Field) StorageType { return StorageType{Kind: KindDate} },
	Datetime:  func(*Field) StorageType { return StorageType{Kind: KindTimestamp} },
	Time:      func(*Field) StorageType { return StorageType{Kind: KindTimeOfDay} },
	URL:       func(*Field) StorageType { return StorageType{Kind: KindText} },
	Telephone: func(*Field) StorageType { return StorageType{Kind: KindString, Size: 32} },
	Email:     func(*Field) StorageType { return StorageType{Kind: KindShortString} },
	Textarea:  func(field *Field) StorageType { return StorageType{Kind: KindString, Size: field.MaxLength} },
	File:      func(*Field) StorageType { return StorageType{Kind: KindShortString} },
	Boolean:   func(*Field) StorageType { return StorageType{Kind: KindBool} },
	Array: func(field *Field) StorageType {
		if field.ArrayOf == nil {
			return StorageType{}
		}
		if fc, ok := arrayStorageTypes[field.ArrayOf.Type]; ok {
			return fc(field.ArrayOf)
		}
		return StorageType{}
	},
}

var arrayStorageTypes = map[Type]func(of *ArrayOf) StorageType{
	Int:    func(*ArrayOf) StorageType { return StorageType{Kind: KindIntList} },
	Double: func(*ArrayOf) StorageType { return StorageType{Kind: KindFloatList} },
	Text:   func(of *ArrayOf) StorageType { return StorageType{Kind: KindStringList, Size: of.MaxLength} },
}

// StorageTypeOf storage type of a validated field, an unmapped type is a FatalConfig error
func StorageTypeOf(field *Field) (StorageType, error) {
	if fc, ok := storageTypes[field.Type]; ok {
		if st := fc(field); st.Kind != 0 {
			return st, nil
		}
	}
	return StorageType{}, &ConfigError{Kind: FatalConfig, Field: field.Name, Message: "no storage mapping for type " + string(field.Type)}
}
