package timed

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// OutputKind identifies which sink an Output selects.
type OutputKind int

const (
	KindOff OutputKind = iota
	KindLog
	KindCSV
)

func (k OutputKind) String() string {
	switch k {
	case KindOff:
		return "off"
	case KindLog:
		return "log"
	case KindCSV:
		return "csv"
	default:
		return "unknown"
	}
}

// Output selects the single active sink for the whole process.
// The zero value is Off. Outputs are comparable with ==.
type Output struct {
	kind OutputKind
	path string
}

// Off disables reporting entirely.
func Off() Output { return Output{kind: KindOff} }

// Log forwards each sample to the configured Logger.
func Log() Output { return Output{kind: KindLog} }

// CSV appends one row per sample to the file at path.
// The path is not validated until the output is activated.
func CSV(path string) Output { return Output{kind: KindCSV, path: path} }

// Kind returns the sink kind.
func (o Output) Kind() OutputKind { return o.kind }

// Path returns the CSV file path, or "" for other kinds.
func (o Output) Path() string { return o.path }

func (o Output) String() string {
	if o.kind == KindCSV {
		return fmt.Sprintf("csv:%s", o.path)
	}
	return o.kind.String()
}

type outputDoc struct {
	Kind string `json:"kind" yaml:"kind"`
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

func (o Output) doc() outputDoc {
	return outputDoc{Kind: o.kind.String(), Path: o.path}
}

func (d outputDoc) output() (Output, error) {
	switch d.Kind {
	case "off", "":
		return Off(), nil
	case "log":
		return Log(), nil
	case "csv":
		if d.Path == "" {
			return Off(), fmt.Errorf("csv output requires a path")
		}
		return CSV(d.Path), nil
	default:
		return Off(), fmt.Errorf("unknown output kind %q", d.Kind)
	}
}

// MarshalJSON implements json.Marshaler.
func (o Output) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.doc())
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *Output) UnmarshalJSON(data []byte) error {
	var d outputDoc
	if err := json.Unmarshal(data, &d); err != nil {
		return err
	}
	out, err := d.output()
	if err != nil {
		return err
	}
	*o = out
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (o Output) MarshalYAML() (interface{}, error) {
	return o.doc(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (o *Output) UnmarshalYAML(value *yaml.Node) error {
	var d outputDoc
	if err := value.Decode(&d); err != nil {
		return err
	}
	out, err := d.output()
	if err != nil {
		return err
	}
	*o = out
	return nil
}
