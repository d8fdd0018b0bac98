package tabular

import (
	"bytes"
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/okian/fantaprice/internal/domain/model"
)

var bom = []byte("\xef\xbb\xbf")

// envelopeKeys are object keys that may wrap an API dump's player array.
var envelopeKeys = []string{"data", "players", "items", "results"}

// ReadTable decodes r and builds a Table for source.
func ReadTable(source model.Source, r io.Reader, f Format) (*model.Table, error) {
	header, rows, err := Read(r, f)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", source)
	}
	return model.NewTable(source, header, rows), nil
}

// Read decodes r into a header and data rows. Blank rows are dropped.
func Read(r io.Reader, f Format) ([]string, [][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "read input")
	}
	data = bytes.TrimPrefix(data, bom)

	var header []string
	var rows [][]string
	switch f {
	case FormatCSV:
		header, rows, err = readCSV(data)
	case FormatHTML:
		header, rows, err = readHTML(data)
	case FormatJSON:
		header, rows, err = readJSON(data)
	default:
		return nil, nil, errors.Wrapf(ErrUnsupportedFormat, "format %q", f)
	}
	if err != nil {
		return nil, nil, err
	}
	if !hasContent(header) {
		return nil, nil, ErrEmptyHeader
	}
	return header, rows, nil
}

func readCSV(data []byte) ([]string, [][]string, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrap(err, "parse csv")
	}
	if len(records) == 0 {
		return nil, nil, ErrEmptyHeader
	}
	header := trimAll(records[0])
	var rows [][]string
	for _, rec := range records[1:] {
		rec = trimAll(rec)
		if hasContent(rec) {
			rows = append(rows, rec)
		}
	}
	return header, rows, nil
}

// sniffDelimiter picks the most frequent separator on the first line.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, count := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > count {
			best, count = d, n
		}
	}
	return best
}

func readHTML(data []byte) ([]string, [][]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, errors.Wrap(err, "parse html")
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, nil, ErrNoTable
	}

	var header []string
	var rows [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("th, td")
		if cells.Length() == 0 {
			return
		}
		vals := make([]string, 0, cells.Length())
		cells.Each(func(_ int, c *goquery.Selection) {
			vals = append(vals, strings.Join(strings.Fields(c.Text()), " "))
		})
		if header == nil {
			header = vals
			return
		}
		// repeated header rows carry no td
		if tr.ChildrenFiltered("td").Length() == 0 || !hasContent(vals) {
			return
		}
		rows = append(rows, vals)
	})
	return header, rows, nil
}

func readJSON(data []byte) ([]string, [][]string, error) {
	var doc any
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, nil, errors.Wrap(err, "parse json")
	}
	items, ok := jsonItems(doc)
	if !ok {
		return nil, nil, ErrNoTable
	}

	objects := make([]map[string]any, 0, len(items))
	keys := make(map[string]struct{})
	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			continue
		}
		objects = append(objects, obj)
		for k := range obj {
			keys[k] = struct{}{}
		}
	}
	// an empty dump is a valid table with only the identity columns
	if len(objects) == 0 {
		return []string{model.ColName, model.ColTeam, model.ColRole}, nil, nil
	}
	header := jsonHeader(keys)

	rows := make([][]string, 0, len(objects))
	for _, obj := range objects {
		row := make([]string, len(header))
		for i, k := range header {
			row[i] = jsonCell(obj[k])
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

func jsonItems(doc any) ([]any, bool) {
	switch v := doc.(type) {
	case []any:
		return v, true
	case map[string]any:
		for _, k := range envelopeKeys {
			if items, ok := v[k].([]any); ok {
				return items, true
			}
		}
	}
	return nil, false
}

// jsonHeader orders identity columns first, then the rest alphabetically.
func jsonHeader(keys map[string]struct{}) []string {
	var header []string
	for _, k := range []string{model.ColName, model.ColTeam, model.ColRole} {
		if _, ok := keys[k]; ok {
			header = append(header, k)
			delete(keys, k)
		}
	}
	rest := make([]string, 0, len(keys))
	for k := range keys {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(header, rest...)
}

func jsonCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		s, err := sonic.ConfigStd.MarshalToString(x)
		if err != nil {
			return ""
		}
		return s
	}
}

func trimAll(rec []string) []string {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	return rec
}

func hasContent(rec []string) bool {
	for _, c := range rec {
		if c != "" {
			return true
		}
	}
	return false
}
