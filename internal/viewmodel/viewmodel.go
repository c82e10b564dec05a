// Package viewmodel projects the document record into display-ready,
// locale-resolved strings. Nothing downstream of this package interprets
// data; templates only print fields.
package viewmodel

import (
	"github.com/hpungsan/acta/internal/acta"
	"github.com/hpungsan/acta/internal/errors"
	"github.com/hpungsan/acta/internal/pdfformat"
)

// ViewModel is the terminal record rendered into the document.
type ViewModel struct {
	Language      acta.Language `json:"idioma"`
	Title         string        `json:"titulo"`
	PageTitle     string        `json:"page_title"`
	Date          string        `json:"fecha"`
	Place         string        `json:"lugar"`
	StartTime     string        `json:"hora_inicio"`
	EndTime       string        `json:"hora_fin"`
	CommunityName string        `json:"nombre_comunidad"`
	Address       string        `json:"direccion"`
	TaxID         string        `json:"nif"`
	Chair         string        `json:"presidente"`
	Secretary     string        `json:"secretario"`

	Agenda      []AgendaRow     `json:"orden_dia"`
	Attendees   []AttendeeRow   `json:"asistentes"`
	Resolutions []ResolutionRow `json:"acuerdos"`
	Funds       []FundRow       `json:"fondos"`

	ChairSignature     string `json:"presidente_firma"`
	SecretarySignature string `json:"secretario_firma"`

	AgendaLabel      string    `json:"label_orden_dia"`
	AttendeesLabel   string    `json:"label_asistentes"`
	ResolutionsLabel string    `json:"label_acuerdos"`
	FundsLabel       string    `json:"label_fondos"`
	ChairLabel       string    `json:"label_presidente"`
	SecretaryLabel   string    `json:"label_secretario"`
	AttendeesIntro   string    `json:"asistentes_intro"`
	Quorum           string    `json:"quorum"`
	Closing          string    `json:"closing"`
	AttendeeHeaders  [4]string `json:"table_asistentes_headers"`
	FundHeaders      [5]string `json:"table_fondos_headers"`
}

// AgendaRow is one captioned point of the order of the day.
type AgendaRow struct {
	PointID int    `json:"punto_id"`
	Ordinal string `json:"ordinal"`
	Title   string `json:"titulo"`
}

// AttendeeRow is one printed attendance line.
type AttendeeRow struct {
	Unit           string `json:"departamento"`
	Coefficient    string `json:"coeficiente"`
	Owner          string `json:"propietario"`
	Representative string `json:"representante"`
}

// ResolutionRow is one captioned resolution.
type ResolutionRow struct {
	PointID   int    `json:"punto_id"`
	Ordinal   string `json:"ordinal"`
	Summary   string `json:"resumen"`
	Decisions string `json:"decisiones"`
	Result    string `json:"resultado"`
}

// FundRow is one line of the funds table.
type FundRow struct {
	Name            string `json:"nombre"`
	PreviousBalance string `json:"saldo_anterior"`
	Income          string `json:"ingresos"`
	Expenses        string `json:"gastos"`
	CurrentBalance  string `json:"saldo_actual"`
}

// Project builds the view model. It is the only stage that rejects its
// input outright: a nil Format is an INVALID_INPUT error.
func Project(f *pdfformat.Format) (*ViewModel, error) {
	if f == nil {
		return nil, errors.NewInvalidInput("view model requires a non-null document record")
	}

	lang := acta.ParseLanguage(string(f.Language))
	t := textsFor(lang)
	endTime := safe(f.Closing.EndTime)

	vm := &ViewModel{
		Language:      lang,
		Title:         t.title,
		PageTitle:     t.pageTitle,
		Date:          t.formatDate(f.Header.Date),
		Place:         safe(f.Community.City),
		StartTime:     safe(f.Header.StartTime),
		EndTime:       endTime,
		CommunityName: safe(f.Community.Name),
		Address:       safe(f.Community.Address),
		TaxID:         safe(f.Community.TaxID),
		Chair:         safe(f.Header.Chair),
		Secretary:     safe(f.Header.Secretary),

		Agenda:      make([]AgendaRow, 0, len(f.Agenda)),
		Attendees:   make([]AttendeeRow, 0, len(f.Attendees)),
		Resolutions: make([]ResolutionRow, 0, len(f.Resolutions)),
		Funds:       make([]FundRow, 0, len(f.Funds)),

		ChairSignature:     safe(f.Officers.Chair),
		SecretarySignature: safe(f.Officers.SecretaryAdmin),

		AgendaLabel:      t.agendaTitle,
		AttendeesLabel:   t.attendeesTitle,
		ResolutionsLabel: t.resolutionsTitle,
		FundsLabel:       t.fundsTitle,
		ChairLabel:       t.chairLabel,
		SecretaryLabel:   t.secretaryLabel,
		AttendeesIntro:   t.attendeesIntro,
		Quorum:           t.quorum,
		Closing:          t.closingText(endTime),
		AttendeeHeaders:  t.attendeeHeaders,
		FundHeaders:      t.fundHeaders,
	}

	for i, p := range f.Agenda {
		id := position(p.PointID, i)
		vm.Agenda = append(vm.Agenda, AgendaRow{
			PointID: id,
			Ordinal: t.ordinal(id),
			Title:   safe(p.Title),
		})
	}

	for _, a := range f.Attendees {
		vm.Attendees = append(vm.Attendees, AttendeeRow{
			Unit:           safe(a.Unit),
			Coefficient:    safe(a.Coefficient),
			Owner:          safe(a.Owner),
			Representative: safe(a.Representative),
		})
	}

	for i, r := range f.Resolutions {
		id := position(r.PointID, i)
		vm.Resolutions = append(vm.Resolutions, ResolutionRow{
			PointID:   id,
			Ordinal:   t.ordinal(id),
			Summary:   safe(r.Summary),
			Decisions: joinDecisions(r.Decisions),
			Result:    t.narrative(r.Result) + ".",
		})
	}

	for _, entry := range f.Funds {
		vm.Funds = append(vm.Funds, fundRow(entry))
	}

	return vm, nil
}

// ProjectJSON decodes a pre-mapped document record and projects it.
func ProjectJSON(data []byte) (*ViewModel, error) {
	f, err := pdfformat.Decode(data)
	if err != nil {
		return nil, err
	}
	return Project(f)
}

func position(id, i int) int {
	if id > 0 {
		return id
	}
	return i + 1
}

func fundRow(entry any) FundRow {
	m, ok := entry.(map[string]any)
	if !ok {
		return FundRow{
			Name:            Placeholder,
			PreviousBalance: Placeholder,
			Income:          Placeholder,
			Expenses:        Placeholder,
			CurrentBalance:  Placeholder,
		}
	}
	return FundRow{
		Name:            safeValue(m["nombre"]),
		PreviousBalance: safeValue(m["saldo_anterior"]),
		Income:          safeValue(m["ingresos"]),
		Expenses:        safeValue(m["gastos"]),
		CurrentBalance:  safeValue(m["saldo_actual"]),
	}
}
