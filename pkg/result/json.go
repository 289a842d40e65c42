package result

import (
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// WriteJSON encodes records as an indented JSON array.
func WriteJSON(w io.Writer, recs []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if recs == nil {
		recs = []Record{}
	}
	return errors.Wrap(enc.Encode(recs), "encode records")
}

// ReadJSON decodes a JSON array of records.
func ReadJSON(r io.Reader) ([]Record, error) {
	var recs []Record
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, errors.Wrap(err, "decode records")
	}
	return recs, nil
}

// WriteFile writes records to path, gzip-compressed when it ends in ".gz".
func WriteFile(path string, recs []Record) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()

	if !isGzip(path) {
		return WriteJSON(f, recs)
	}
	zw := gzip.NewWriter(f)
	if err := WriteJSON(zw, recs); err != nil {
		zw.Close()
		return err
	}
	return errors.Wrapf(zw.Close(), "compress %s", path)
}

// ReadFile loads records from path, decompressing when it ends in ".gz".
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	var r io.Reader = f
	if isGzip(path) {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrapf(err, "gunzip %s", path)
		}
		defer zr.Close()
		r = zr
	}
	recs, err := ReadJSON(r)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return recs, nil
}

func isGzip(path string) bool {
	return strings.HasSuffix(path, ".gz")
}
