package config

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts either a bare number of seconds or a Go duration string.
type Duration time.Duration

func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		return d.UnmarshalText([]byte(n.String()))
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a number or a string: %w", err)
	}
	return d.UnmarshalText([]byte(s))
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

func (d *Duration) UnmarshalTOML(v any) error {
	switch t := v.(type) {
	case int64:
		*d = Duration(time.Duration(t) * time.Second)
		return nil
	case string:
		return d.UnmarshalText([]byte(t))
	}
	return fmt.Errorf("unsupported duration value %v", v)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
