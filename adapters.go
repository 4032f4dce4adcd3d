package adapters

import (
	"github.com/Station-Manager/errors"
	"github.com/goccy/go-json"
)

// convert serializes the input to JSON and deserializes it into the target
// output. This is a lossy mapping if source and destination do not have
// compatible JSON structures; the typed models in this package are tagged to
// line up with the logical field names, so Record round-trips are exact.
func convert[Input any, Output any](input Input, output *Output) error {
	const op errors.Op = "adapters.convert"
	data, err := json.Marshal(input)
	if err != nil {
		return errors.New(op).Err(err)
	}
	if err = json.Unmarshal(data, output); err != nil {
		return errors.New(op).Err(err)
	}
	return nil
}

// As converts a logical record into a strongly typed view such as User,
// Thread or Feedback. It uses a JSON round-trip keyed by the logical field
// names.
func As[T any](rec Record) (*T, error) {
	var result T
	if err := convert(rec, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// RecordOf converts a typed value into the logical record shape expected by
// Create and Update.
func RecordOf(v any) (Record, error) {
	var rec Record
	if err := convert(v, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}
