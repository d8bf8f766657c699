package schema

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/autoforms/autoforms/utils"
	"github.com/jinzhu/now"
)

const (
	DateFormat     = "2006-01-02"
	DatetimeFormat = "2006-01-02T15:04"
	TimeFormat     = "15:04:05"
)

// Epoch stored for empty or unparsable dates
var Epoch = time.Unix(0, 0).UTC()

var timeParser = &now.Config{
	TimeLocation: time.UTC,
	TimeFormats: []string{
		DatetimeFormat,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		time.RFC3339Nano,
		time.RFC3339,
		DateFormat,
	},
}

// FromWire converts submitted values to the field's storage value, never failing:
// unparsable numbers become 0 and unparsable dates become Epoch
func FromWire(field *Field, values []string, present bool) interface{} {
	if field.Type == Array {
		if !present {
			values = nil
		}
		return listFromWire(field.ArrayOf, values)
	}

	var value string
	if present && len(values) > 0 {
		value = values[0]
	}

	switch field.Type {
	case Date:
		return parseTime(value).Truncate(24 * time.Hour)
	case Datetime:
		return parseTime(value)
	case Time:
		return normalizeTimeOfDay(value)
	case Boolean:
		return present && utils.CheckTruth(value)
	case Int:
		return parseInt(value)
	case Double:
		return parseFloat(value)
	}
	return value
}

func listFromWire(of *ArrayOf, values []string) interface{} {
	var elemType Type = Text
	if of != nil {
		elemType = of.Type
	}

	switch elemType {
	case Int:
		list := make([]int64, 0, len(values))
		for _, v := range values {
			list = append(list, parseInt(v))
		}
		return list
	case Double:
		list := make([]float64, 0, len(values))
		for _, v := range values {
			list = append(list, parseFloat(v))
		}
		return list
	}

	list := make([]string, 0, len(values))
	return append(list, values...)
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return Epoch
	}
	t, err := timeParser.Parse(value)
	if err != nil {
		return Epoch
	}
	return t.UTC()
}

func parseInt(value string) int64 {
	value = strings.TrimSpace(value)
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return i
	}
	// float64(math.MaxInt64) rounds up to 2^63, which is already out of range
	if f, err := strconv.ParseFloat(value, 64); err == nil && f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f)
	}
	return 0
}

func parseFloat(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// normalizeTimeOfDay turns HH:mm into HH:mm:ss, anything else is kept as submitted
func normalizeTimeOfDay(value string) string {
	value = strings.TrimSpace(value)
	for _, layout := range []string{TimeFormat, "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format(TimeFormat)
		}
	}
	return value
}

// ToWire formats a storage value for an input control, a string or a []string for arrays
func ToWire(field *Field, value interface{}) interface{} {
	if field.Type == Array {
		return listToWire(value)
	}

	switch field.Type {
	case Date:
		if t, ok := toTime(value); ok {
			return t.Format(DateFormat)
		}
	case Datetime:
		if t, ok := toTime(value); ok {
			return t.Format(DatetimeFormat)
		}
	case Time:
		if t, ok := value.(time.Time); ok {
			return t.Format(TimeFormat)
		}
		return normalizeTimeOfDay(utils.ToString(value))
	case Boolean:
		if b, ok := value.(bool); ok && b {
			return "1"
		}
		return utils.ToString(value)
	}
	return utils.ToString(value)
}

func listToWire(value interface{}) []string {
	switch v := value.(type) {
	case nil:
		return []string{}
	case []string:
		return append(make([]string, 0, len(v)), v...)
	case []int64:
		list := make([]string, len(v))
		for i, e := range v {
			list[i] = strconv.FormatInt(e, 10)
		}
		return list
	case []float64:
		list := make([]string, len(v))
		for i, e := range v {
			list[i] = strconv.FormatFloat(e, 'f', -1, 64)
		}
		return list
	case []interface{}:
		list := make([]string, len(v))
		for i, e := range v {
			list[i] = utils.ToString(e)
		}
		return list
	}
	return []string{utils.ToString(value)}
}

func toTime(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v.UTC(), true
	case *time.Time:
		if v != nil {
			return v.UTC(), true
		}
	case string:
		if v != "" {
			return parseTime(v), true
		}
	}
	return time.Time{}, false
}

// DisplayValue list cell content, Swatch is set for colors
type DisplayValue struct {
	Text   string
	Swatch string
}

// Display formats a storage value for the list view, options show their labels
func Display(field *Field, value interface{}) DisplayValue {
	wire := ToWire(field, value)

	var values []string
	switch v := wire.(type) {
	case []string:
		values = v
	case string:
		values = []string{v}
	}

	if len(field.Options) > 0 {
		for idx, v := range values {
			values[idx] = field.OptionLabel(v)
		}
	}

	display := DisplayValue{Text: strings.Join(values, ", ")}
	if field.Type == Color && display.Text != "" {
		display.Swatch = display.Text
	}
	return display
}

// Check validates a coerced value against required, min, max, validation and Predicate
func (field *Field) Check(value interface{}) error {
	message := func(format string, args ...interface{}) error {
		if field.ValidationMessage != "" {
			return &ValidationError{Field: field.Name, Message: field.ValidationMessage}
		}
		return &ValidationError{Field: field.Name, Message: fmt.Sprintf(format, args...)}
	}

	if field.Required && missing(value) {
		return message("%s is required", field.InputLabel)
	}

	if field.Type.Numeric() {
		var f float64
		switch v := value.(type) {
		case int64:
			f = float64(v)
		case float64:
			f = v
		}
		if field.Min != nil && f < *field.Min {
			return message("%s must be at least %v", field.InputLabel, *field.Min)
		}
		if field.Max != nil && f > *field.Max {
			return message("%s must be at most %v", field.InputLabel, *field.Max)
		}
	}

	if field.validation != nil {
		values, ok := ToWire(field, value).([]string)
		if !ok {
			values = []string{ToWire(field, value).(string)}
		}
		for _, v := range values {
			if !field.validation.MatchString(v) {
				return message("%s is invalid", field.InputLabel)
			}
		}
	}

	if field.Predicate != nil && !field.Predicate(value) {
		return message("%s is invalid", field.InputLabel)
	}
	return nil
}

// missing reports a blank string, an Epoch date or an empty list
func missing(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case time.Time:
		return v.Equal(Epoch)
	}

	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Slice && rv.Len() == 0
}
