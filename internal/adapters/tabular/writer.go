package tabular

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
)

// WriteCSV writes a header and rows as comma separated values.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return errors.Mark(errors.Wrap(err, "write csv header"), ErrWriteTable)
	}
	if err := cw.WriteAll(rows); err != nil {
		return errors.Mark(errors.Wrap(err, "write csv rows"), ErrWriteTable)
	}
	return nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := sonic.ConfigStd.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Mark(errors.Wrap(err, "encode json"), ErrWriteTable)
	}
	return nil
}

// WriteCSVFile creates path, including parent directories, and writes the sheet to it.
func WriteCSVFile(path string, header []string, rows [][]string) error {
	return writeFile(path, func(w io.Writer) error { return WriteCSV(w, header, rows) })
}

// WriteJSONFile creates path, including parent directories, and writes v to it.
func WriteJSONFile(path string, v any) error {
	return writeFile(path, func(w io.Writer) error { return WriteJSON(w, v) })
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "create directory for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	return write(f)
}
