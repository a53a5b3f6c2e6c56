package eval

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Datapoint is one dataset record: arbitrary input fields plus an optional
// target for target-required evaluators.
type Datapoint struct {
	Inputs map[string]any `json:"inputs"`
	Target string         `json:"target,omitempty"`
}

// UnmarshalJSON accepts both the explicit {"inputs": ..., "target": ...}
// shape and flat records, where every field except "target" is an input.
func (d *Datapoint) UnmarshalJSON(data []byte) error {
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return err
	}

	if inputs, ok := record["inputs"].(map[string]any); ok {
		d.Inputs = inputs
		d.Target = stringifyValue(record["target"])
		return nil
	}

	d.Inputs = make(map[string]any, len(record))
	for key, value := range record {
		if key == "target" {
			d.Target = stringifyValue(value)
			continue
		}
		d.Inputs[key] = value
	}
	return nil
}

// StringInputs returns the inputs coerced to strings for template
// population.
func (d Datapoint) StringInputs() map[string]string {
	out := make(map[string]string, len(d.Inputs))
	for key, value := range d.Inputs {
		out[key] = stringifyValue(value)
	}
	return out
}

// Input returns one input field coerced to a string.
func (d Datapoint) Input(key string) string {
	return stringifyValue(d.Inputs[key])
}

func stringifyValue(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(raw)
	}
}

// ReadDataset parses line-delimited JSON records. Blank lines are skipped;
// a malformed line fails the whole read.
func ReadDataset(r io.Reader) ([]Datapoint, error) {
	var datapoints []Datapoint
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var dp Datapoint
		if err := json.Unmarshal([]byte(text), &dp); err != nil {
			return nil, fmt.Errorf("dataset line %d: %w", line, err)
		}
		datapoints = append(datapoints, dp)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return datapoints, nil
}

// LoadDataset reads a JSONL dataset file.
func LoadDataset(path string) ([]Datapoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return ReadDataset(f)
}
