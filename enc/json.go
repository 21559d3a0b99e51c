// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package enc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tailscale/hujson"
)

// JSON converts JSON text into TOON text with default settings. The input
// is standardized with hujson first, so comments and trailing commas are
// permitted. The top-level value must be an object, since a TOON document
// is a sequence of properties.
func JSON(data []byte) (string, error) {
	var f Formatter
	return f.JSON(data)
}

// JSON converts JSON text into TOON text using the settings from f.
func (f Formatter) JSON(data []byte) (string, error) {
	v, err := DecodeJSON(data)
	if err != nil {
		return "", err
	}
	o, ok := v.(*Object)
	if !ok {
		return "", errors.New("top-level JSON value must be an object")
	}
	return f.Encode(o), nil
}

// DecodeJSON parses data as a JSON-like value tree. Object member order is
// preserved, and numbers retain their source text as json.Number.
func DecodeJSON(data []byte) (Value, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(std))
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid JSON: extra data after value")
	}
	return v, nil
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := new(Object)
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("unexpected object key %v", kt)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Members = append(obj.Members, &Member{Key: key, Value: v})
			}
			if _, err := dec.Token(); err != nil {
				return nil, err // consume "}"
			}
			return obj, nil
		case '[':
			arr := Array{}
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err // consume "]"
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected %q", t.String())
	case string:
		return t, nil
	case bool:
		return t, nil
	case json.Number:
		return t, nil
	case nil:
		return nil, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}
