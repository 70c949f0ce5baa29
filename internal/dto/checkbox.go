package dto

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Checkbox is a boolean that also accepts HTML form values. An unchecked box
// is absent from the form and decodes as false.
type Checkbox bool

func parseCheckbox(raw string) (Checkbox, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes", "checked":
		return true, nil
	case "", "off", "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid checkbox value %q", raw)
}

// UnmarshalParam implements gin's form binding hook.
func (c *Checkbox) UnmarshalParam(param string) error {
	v, err := parseCheckbox(param)
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// UnmarshalJSON accepts booleans and the same strings as form posts.
func (c *Checkbox) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*c = Checkbox(b)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid checkbox value %s", string(data))
	}
	return c.UnmarshalParam(s)
}

// Bool returns the plain value.
func (c Checkbox) Bool() bool { return bool(c) }
