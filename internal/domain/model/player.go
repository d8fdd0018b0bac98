package model

// Column names shared by both sources.
const (
	ColName      = "Nome"
	ColTeam      = "Squadra"
	ColRole      = "Ruolo"
	ColScore     = "Convenienza"
	ColPotential = "Convenienza Potenziale"
	ColPrice     = "Prezzo Massimo Consigliato"
)

// Source identifies which upstream provider a table came from.
type Source string

// Known sources.
const (
	SourceFpedia Source = "FPEDIA"
	SourceFstats Source = "FSTATS"
)

// PlayerRecord is one row of a source table plus the fields derived by the pipeline.
type PlayerRecord struct {
	Index    int    // position in the source table
	Name     string // raw name as loaded
	Team     string // raw team, possibly a structured literal
	RoleCode string // raw role code as loaded
	Role     Role

	// Fields keeps every raw cell keyed by column name.
	Fields map[string]string

	// Derived by scoring and pricing.
	Reliability float64
	Score       float64
	Potential   float64
	Price       int
	Valued      bool
}

// Field returns the raw cell for column, or "" when absent.
func (r *PlayerRecord) Field(column string) string {
	if r == nil || r.Fields == nil {
		return ""
	}
	return r.Fields[column]
}

// Clone returns a deep copy of the record.
func (r *PlayerRecord) Clone() *PlayerRecord {
	c := *r
	c.Fields = make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		c.Fields[k] = v
	}
	return &c
}
