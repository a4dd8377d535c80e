package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/fieldmap/pkg/errors"
)

// Format identifies the encoding of a record document.
type Format string

const (
	// FormatJSON is a JSON object (or array of objects).
	FormatJSON Format = "json"
	// FormatYAML is a YAML mapping (or sequence of mappings).
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the record format from a file extension.
// Unknown extensions are treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses a single record. The document must contain exactly one
// top-level mapping; anything else is an invalid-input error.
func Decode(data []byte, format Format) (Record, error) {
	root, err := decodeOrdered(data, format)
	if err != nil {
		return nil, err
	}
	rec, ok := From(root)
	if !ok {
		return nil, errors.NewValidationError("record", root,
			fmt.Sprintf("top-level %s value must be an object, got %s", format, describe(root)))
	}
	return rec, nil
}

// DecodeAll parses a document holding either one record or a list of records.
func DecodeAll(data []byte, format Format) ([]Record, error) {
	root, err := decodeOrdered(data, format)
	if err != nil {
		return nil, err
	}

	if rec, ok := From(root); ok {
		return []Record{rec}, nil
	}

	list, ok := root.([]any)
	if !ok {
		return nil, errors.NewValidationError("record", root,
			fmt.Sprintf("top-level %s value must be an object or a list of objects, got %s", format, describe(root)))
	}

	out := make([]Record, 0, len(list))
	for i, elem := range list {
		rec, ok := From(elem)
		if !ok {
			return nil, errors.NewValidationError(fmt.Sprintf("record[%d]", i), elem,
				fmt.Sprintf("element is not an object, got %s", describe(elem)))
		}
		out = append(out, rec)
	}
	return out, nil
}

// Read decodes every record from r.
func Read(r io.Reader, format Format) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.WrapIO("read", "", err)
	}
	return DecodeAll(data, format)
}

// decodeOrdered unmarshals with ordered maps so key order survives decoding.
// A JSON document holding several top-level values (NDJSON) decodes as a list.
func decodeOrdered(data []byte, format Format) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewValidationError("record", nil, "empty document")
	}

	if format == FormatJSON {
		return decodeJSON(data)
	}

	var root any
	if err := yaml.UnmarshalWithOptions(data, &root, yaml.UseOrderedMap()); err != nil {
		return nil, errors.WrapParse(string(format), "", err)
	}
	return root, nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var values []any
	for {
		v, err := readJSONValue(dec)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WrapParse(string(FormatJSON), "", err)
		}
		values = append(values, v)
	}

	if len(values) == 1 {
		return values[0], nil
	}
	return values, nil
}

// readJSONValue walks the token stream so object keys keep their order.
func readJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		rec := Record{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key must be a string, got %v", keyTok)
			}
			val, err := readJSONValue(dec)
			if err != nil {
				return nil, unexpectedEOF(err)
			}
			rec = append(rec, Field{Key: key, Value: val})
		}
		if _, err := dec.Token(); err != nil {
			return nil, unexpectedEOF(err)
		}
		return rec, nil
	case '[':
		list := []any{}
		for dec.More() {
			val, err := readJSONValue(dec)
			if err != nil {
				return nil, unexpectedEOF(err)
			}
			list = append(list, val)
		}
		if _, err := dec.Token(); err != nil {
			return nil, unexpectedEOF(err)
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
