package store

import (
	"strconv"
	"strings"
	"time"

	"github.com/autoforms/autoforms/schema"
	"github.com/autoforms/autoforms/utils"
	"github.com/goccy/go-json"
	"github.com/jinzhu/now"
)

var timeParser = &now.Config{
	TimeLocation: time.UTC,
	TimeFormats: []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02T15:04",
		"2006-01-02",
	},
}

// encode converts a storage value into a driver argument, lists become JSON text
func encode(column schema.Column, value interface{}) (interface{}, error) {
	switch column.Type.Kind {
	case schema.KindIntList, schema.KindFloatList, schema.KindStringList:
		if value == nil {
			return "[]", nil
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	case schema.KindDate, schema.KindTimestamp:
		if t, ok := value.(time.Time); ok {
			return t.UTC(), nil
		}
		if value == nil {
			return schema.Epoch, nil
		}
	case schema.KindBool:
		if b, ok := value.(bool); ok {
			return b, nil
		}
		return utils.CheckTruth(utils.ToString(value)), nil
	}
	return value, nil
}

// decode converts a scanned driver value into the column's storage type
func decode(column schema.Column, value interface{}) interface{} {
	if b, ok := value.([]byte); ok {
		value = string(b)
	}

	switch column.Type.Kind {
	case schema.KindID, schema.KindInt:
		return toInt64(value)
	case schema.KindFloat:
		return toFloat64(value)
	case schema.KindBool:
		switch v := value.(type) {
		case bool:
			return v
		case nil:
			return false
		}
		return utils.CheckTruth(utils.ToString(value))
	case schema.KindDate, schema.KindTimestamp:
		switch v := value.(type) {
		case time.Time:
			if column.Type.Kind == schema.KindDate {
				return time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
			}
			return v.UTC()
		case string:
			if t, err := timeParser.Parse(strings.TrimSpace(v)); err == nil {
				return t.UTC()
			}
		}
		return schema.Epoch
	case schema.KindIntList:
		list := []int64{}
		decodeList(value, &list)
		return list
	case schema.KindFloatList:
		list := []float64{}
		decodeList(value, &list)
		return list
	case schema.KindStringList:
		list := []string{}
		decodeList(value, &list)
		return list
	}
	return utils.ToString(value)
}

func decodeList(value interface{}, target interface{}) {
	if s, ok := value.(string); ok && s != "" {
		_ = json.Unmarshal([]byte(s), target)
	}
}

func toInt64(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return int64(v)
	case float64:
		return int64(v)
	case bool:
		if v {
			return 1
		}
	case []byte:
		return toInt64(string(v))
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return i
		}
	}
	return 0
}

func toFloat64(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
		return 0
	}
	return float64(toInt64(value))
}
