package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

var severityNames = map[Severity]string{
	SeverityLow:      "Low",
	SeverityMedium:   "Medium",
	SeverityHigh:     "High",
	SeverityCritical: "Critical",
}

// Rank orders severities Low=0 through Critical=3. Unknown ranks below everything.
func (s Severity) Rank() int {
	if !s.Valid() {
		return -1
	}
	return int(s) - 1
}

func (s Severity) AtLeast(min Severity) bool {
	return s.Valid() && min.Valid() && s.Rank() >= min.Rank()
}

func (s Severity) Valid() bool {
	return s >= SeverityLow && s <= SeverityCritical
}

func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "Unknown"
}

func ParseSeverity(s string) (Severity, error) {
	for sev, name := range severityNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return sev, nil
		}
	}
	return SeverityUnknown, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) MarshalJSON() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid severity %d", int(s))
	}
	return json.Marshal(s.String())
}

func (s *Severity) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}

	sev, err := ParseSeverity(str)
	if err != nil {
		return err
	}

	*s = sev
	return nil
}

func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (s *Severity) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}

	sev, err := ParseSeverity(str)
	if err != nil {
		return err
	}

	*s = sev
	return nil
}
