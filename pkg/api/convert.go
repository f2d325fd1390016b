package api

import "github.com/euforicio/scratchpad/internal/models"

// FromModel converts a record to its wire form.
func FromModel(r *models.Record) Record {
	fields := make(map[string]Field, len(r.Fields))
	for name, v := range r.Fields {
		fields[name] = Field{S: v.String, I: v.Int, T: v.Time}
	}

	return Record{
		ID:       r.ID,
		Kind:     string(r.Kind),
		Fields:   fields,
		Metadata: r.Metadata,
	}
}

// ToModel converts a wire record back to the domain form.
func (r Record) ToModel() *models.Record {
	return &models.Record{
		ID:       r.ID,
		Kind:     models.RecordKind(r.Kind),
		Fields:   FieldsToModel(r.Fields),
		Metadata: r.Metadata,
	}
}

// FieldsToModel converts wire fields to record values.
func FieldsToModel(fields map[string]Field) map[string]models.Value {
	out := make(map[string]models.Value, len(fields))
	for name, f := range fields {
		out[name] = models.Value{String: f.S, Int: f.I, Time: f.T}
	}
	return out
}
