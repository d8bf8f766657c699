package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Duration accepts "336h" style strings or a number of seconds
type Duration time.Duration

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d *Duration) parse(value string) error {
	if seconds, err := strconv.ParseFloat(value, 64); err == nil {
		*d = Duration(seconds * float64(time.Second))
		return nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid duration %q", value)
	}
	*d = Duration(parsed)
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.parse(node.Value)
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var value interface{}
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	switch v := value.(type) {
	case string:
		return d.parse(v)
	case float64:
		*d = Duration(v * float64(time.Second))
		return nil
	}
	return fmt.Errorf("invalid duration %s", data)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}
