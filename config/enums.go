package config

import (
	"fmt"
	"strings"
)

// OutputFmt selects requested report format.
type OutputFmt int

const (
	OutputFmtText OutputFmt = iota
	OutputFmtJson
	OutputFmtYaml
)

var outputFmtNames = []string{"text", "json", "yaml"}

// OutputFmtNames returns list of possible string values of OutputFmt.
func OutputFmtNames() []string {
	return append([]string(nil), outputFmtNames...)
}

func (o OutputFmt) String() string {
	if o.IsValid() {
		return outputFmtNames[o]
	}
	return fmt.Sprintf("OutputFmt(%d)", o)
}

// IsValid reports whether o is one of known formats.
func (o OutputFmt) IsValid() bool {
	return o >= 0 && int(o) < len(outputFmtNames)
}

// ParseOutputFmt converts case insensitive name into OutputFmt.
func ParseOutputFmt(name string) (OutputFmt, error) {
	for i, n := range outputFmtNames {
		if strings.EqualFold(n, name) {
			return OutputFmt(i), nil
		}
	}
	return OutputFmt(0), fmt.Errorf("%s is not a valid OutputFmt, try [%s]", name, strings.Join(outputFmtNames, ", "))
}

// MarshalText implements the text marshaller method.
func (o OutputFmt) MarshalText() ([]byte, error) {
	if !o.IsValid() {
		return nil, fmt.Errorf("unable to marshal %s", o)
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements the text unmarshaller method.
func (o *OutputFmt) UnmarshalText(text []byte) error {
	v, err := ParseOutputFmt(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Ext returns file extension matching format.
func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtText:
		return ".txt"
	case OutputFmtJson:
		return ".json"
	case OutputFmtYaml:
		return ".yaml"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}
