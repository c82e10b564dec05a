// Package pdfformat reshapes a validated acta into the document-facing
// record consumed by the view-model projector.
package pdfformat

import "github.com/hpungsan/acta/internal/acta"

// Format is the presentation-stage record of a meeting.
type Format struct {
	Language    acta.Language `json:"idioma"`
	Community   Community     `json:"comunidad"`
	Header      Header        `json:"cabecera"`
	Agenda      []AgendaItem  `json:"orden_dia"`
	Attendees   []Attendee    `json:"asistentes"`
	Resolutions []Resolution  `json:"acuerdos"`
	// Funds holds raw fund entries keyed nombre, saldo_anterior, ingresos,
	// gastos, saldo_actual. Entries that are not objects are kept so the
	// rendered table stays aligned with its source.
	Funds    []any    `json:"fondos"`
	Officers Officers `json:"cargos"`
	Closing  Closing  `json:"cierre"`
}

// Community identifies the owners' association.
type Community struct {
	Name    *string `json:"nombre"`
	Address *string `json:"direccion"`
	TaxID   *string `json:"nif"`
	City    *string `json:"ciudad"`
}

// Header is the date, time and chair block printed at the top of the minutes.
type Header struct {
	Date      *string `json:"fecha"`
	StartTime *string `json:"hora_inicio"`
	Chair     *string `json:"presidente"`
	Secretary *string `json:"secretario"`
}

// AgendaItem is one numbered point of the order of the day.
type AgendaItem struct {
	PointID int     `json:"punto_id"`
	Title   *string `json:"titulo"`
}

// Attendee is one row of the attendance table.
type Attendee struct {
	Unit           *string `json:"departamento"`
	Coefficient    *string `json:"coeficiente"`
	Owner          *string `json:"propietario"`
	Representative *string `json:"representante"`
}

// Resolution is one numbered resolution with its decisions and outcome.
type Resolution struct {
	PointID   int      `json:"punto_id"`
	Summary   *string  `json:"resumen"`
	Decisions []string `json:"decisiones"`
	Result    *string  `json:"resultado"`
}

// Officers are the role holders printed in the signature block.
type Officers struct {
	Chair          *string `json:"presidente"`
	ViceChair      *string `json:"vicepresidente"`
	SecretaryAdmin *string `json:"secretario_admin"`
}

// Closing carries the time the session was adjourned.
type Closing struct {
	EndTime *string `json:"hora_fin"`
}
