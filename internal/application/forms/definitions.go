// Package forms upserts survey submissions into per-form sheets.
package forms

import (
	"github.com/universitas/manuales-backend/internal/domain"
)

// Definition describes one form sheet: its physical column order and which
// columns the service controls (identifier, filled flag, timestamp) rather
// than the submitter.
type Definition struct {
	ID    string
	Sheet string

	// Columns in physical order; slice position is the column position.
	Columns []string

	// Identifier is the upsert key column.
	Identifier string

	// Authenticated forms take the identifier from the session email; public
	// forms take it from the submission body.
	Authenticated bool

	// FilledColumn, when set, is forced to TRUE on every submit.
	FilledColumn string

	// TimestampColumn, when set, is refreshed on every submit.
	TimestampColumn string
}

// controlled reports whether a column is written by the service, not the
// submitter.
func (d Definition) controlled(header string) bool {
	return header == d.Identifier || (d.FilledColumn != "" && header == d.FilledColumn)
}

func (d Definition) hasColumn(header string) bool {
	for _, h := range d.Columns {
		if h == header {
			return true
		}
	}
	return false
}

type Registry struct {
	byID map[string]Definition
}

func NewRegistry(defs ...Definition) *Registry {
	r := &Registry{byID: make(map[string]Definition, len(defs))}
	for _, d := range defs {
		r.byID[d.ID] = d
	}
	return r
}

func (r *Registry) Get(formID string) (Definition, error) {
	d, ok := r.byID[formID]
	if !ok {
		return Definition{}, domain.ErrFormNotFound(formID)
	}
	return d, nil
}

// DefaultRegistry holds the forms currently served. Sheet titles and headers
// mirror the live spreadsheet verbatim, accents included.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Definition{
			ID:    "manual-contrataciones",
			Sheet: "MANUAL CONTRATACIONES valor agregado ESCALA",
			Columns: []string{
				"Marca temporal",
				"Dirección de correo electrónico",
				"Nombre de la Institución / Ente / Órgano",
				"Acrónimo y/o siglas de la Institución / Ente / Órgano",
				"Nombre de la Unidad / Gerencia y/u Oficina responsable de la Gestión Administrativa y Financiera de la Institución / Ente / Órgano",
				"Nombre de la Unidad / Gerencia y/u Oficina responsable del Área de Sistema y Tecnología de la Institución / Ente / Órgano",
				"Nombre de la Unidad / Gerencia y/u Oficina que cumple funciones de Unidad Contratante en la Institución / Ente / Órgano",
				"Persona de contacto",
				"Teléfono",
				"Correo electrónico",
			},
			Identifier:      "Dirección de correo electrónico",
			TimestampColumn: "Marca temporal",
		},
		Definition{
			ID:    "manual-express",
			Sheet: "CONCURSO ABIERTO SIMINISTRO DE BIENES APP.COD",
			Columns: []string{
				"Marca temporal",
				"Indique el Nombre de la Institución / Ente / Órgano.",
				"Indique el Acrónimo y/o siglas de la Institución / Ente / Órgano.",
				"Indique el Nombre de la Unidad / Gerencia y/u Oficina responsable de la Gestión Administrativa y Financiera de la Institución / Ente / Órgano.",
				"Indique el Nombre de la Unidad / Gerencia y/u Oficina responsable del Área de Sistema y Tecnología de la Institución / Ente / Órgano.",
				"UsuarioRegistradoEmail",
				"Llenado",
			},
			Identifier:      "UsuarioRegistradoEmail",
			Authenticated:   true,
			FilledColumn:    "Llenado",
			TimestampColumn: "Marca temporal",
		},
	)
}
