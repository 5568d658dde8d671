package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingCollection is returned when a document lacks its top-level array.
var ErrMissingCollection = errors.New("catalog: document has no collection array")

type showsDocument struct {
	Shows *[]Show `json:"shows"`
}

type locationsDocument struct {
	Locations *[]Location `json:"locations"`
}

// DecodeShows decodes a shows.json document.
func DecodeShows(data []byte) ([]Show, error) {
	var doc showsDocument
	if err := decode(data, &doc); err != nil {
		return nil, fmt.Errorf("decode shows: %w", err)
	}
	if doc.Shows == nil {
		return nil, fmt.Errorf("decode shows: %w", ErrMissingCollection)
	}
	return *doc.Shows, nil
}

// DecodeLocations decodes a locations.json document.
func DecodeLocations(data []byte) ([]Location, error) {
	var doc locationsDocument
	if err := decode(data, &doc); err != nil {
		return nil, fmt.Errorf("decode locations: %w", err)
	}
	if doc.Locations == nil {
		return nil, fmt.Errorf("decode locations: %w", ErrMissingCollection)
	}
	return *doc.Locations, nil
}

func decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	return dec.Decode(v)
}
