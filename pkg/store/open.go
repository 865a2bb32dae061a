package store

import (
	"fmt"
	"strings"
)

// Keys are needed for sealed stores only.
type Keys struct {
	Encryption string
	Signature  string
}

// Open returns a store for an uri of the form [scheme:location], eg.
//
//	csv:/path/to/file.csv
//	jsonfile:/path/to/file.json
//	sealed:/path/to/file.bin
//	sqlite:/path/to/file.db
//	es8:http://elasticsearch:9200
//
// An uri without a known scheme is taken as a path to a CSV file.
func Open(uri string, keys Keys) (Store, error) {
	bits := strings.SplitN(uri, ":", 2)
	if len(bits) != 2 {
		return openPath(uri)
	}

	switch bits[0] {
	case "csv":
		return NewCSVFile(bits[1]), nil
	case "jsonfile":
		return NewJSONFile(bits[1]), nil
	case "sealed":
		s, err := NewSealedFile(bits[1], keys.Encryption, keys.Signature)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "sqlite":
		return NewSQLite(bits[1]), nil
	case "es8":
		return NewElasticsearchV8(bits[1]), nil
	}

	// a windows drive letter, or a path with a colon in it
	return openPath(uri)
}

func openPath(path string) (Store, error) {
	if path == "" {
		return nil, fmt.Errorf("invalid store, expected [csv:/path/file.csv jsonfile:/path/file.json sealed:/path/file.bin sqlite:/path/file.db es8:http://myelasticsearch:9200]")
	}
	return NewCSVFile(path), nil
}
