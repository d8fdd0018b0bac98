package model

// Table is a loaded source dataset, one record per player.
type Table struct {
	Source  Source
	Columns []string
	Records []*PlayerRecord
}

// NewTable builds a Table from a header and raw rows. Missing cells are left out of
// the record field map; identity columns populate Name, Team and Role.
func NewTable(source Source, columns []string, rows [][]string) *Table {
	t := &Table{
		Source:  source,
		Columns: append([]string(nil), columns...),
		Records: make([]*PlayerRecord, 0, len(rows)),
	}
	for i, row := range rows {
		fields := make(map[string]string, len(columns))
		for c, col := range columns {
			if c < len(row) {
				fields[col] = row[c]
			}
		}
		t.Records = append(t.Records, &PlayerRecord{
			Index:    i,
			Name:     fields[ColName],
			Team:     fields[ColTeam],
			RoleCode: fields[ColRole],
			Role:     ParseRole(fields[ColRole]),
			Fields:   fields,
		})
	}
	return t
}

// Len returns the number of records; a nil table has none.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// HasColumn reports whether the header contains column.
func (t *Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Valuation is the per-record output of the scorer.
type Valuation struct {
	Reliability float64
	Score       float64
	Potential   float64
}

// Enrich returns a copy of the table with valuations and prices applied by index.
// Both slices must be aligned with t.Records; the receiver is left untouched.
func (t *Table) Enrich(vals []Valuation, prices []int) *Table {
	out := &Table{
		Source:  t.Source,
		Columns: append([]string(nil), t.Columns...),
		Records: make([]*PlayerRecord, len(t.Records)),
	}
	for _, col := range []string{ColScore, ColPotential, ColPrice} {
		if !out.HasColumn(col) {
			out.Columns = append(out.Columns, col)
		}
	}
	for i, r := range t.Records {
		c := r.Clone()
		if i < len(vals) {
			c.Reliability = vals[i].Reliability
			c.Score = vals[i].Score
			c.Potential = vals[i].Potential
			c.Valued = true
		}
		if i < len(prices) {
			c.Price = prices[i]
		}
		out.Records[i] = c
	}
	return out
}

// ByRole groups record indexes by role, preserving input order inside each group.
func (t *Table) ByRole() map[Role][]int {
	groups := make(map[Role][]int)
	for i, r := range t.Records {
		groups[r.Role] = append(groups[r.Role], i)
	}
	return groups
}
