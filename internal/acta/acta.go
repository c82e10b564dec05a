package acta

// Language selects the locale an acta is written in.
type Language string

const (
	Spanish Language = "es"
	Catalan Language = "ca"
)

// ParseLanguage collapses any value other than the exact literal "ca" to Spanish.
func ParseLanguage(v any) Language {
	if s, ok := v.(string); ok && s == string(Catalan) {
		return Catalan
	}
	return Spanish
}

// Acta is the validated extraction-stage record of a meeting.
// After Validate, every collection is non-nil and every absent scalar is nil.
type Acta struct {
	Metadata     Metadata     `json:"metadata"`
	Participants Participants `json:"participantes"`
	Agenda       []AgendaItem `json:"orden_del_dia"`
	Discussion   []Discussion `json:"desarrollo"`
	Resolutions  []Resolution `json:"acuerdos"`
	Tasks        []Task       `json:"tareas"`
	Incidents    []Incident   `json:"incidencias"`
	Closing      Closing      `json:"cierre"`
	Signatures   Signatures   `json:"firmas"`
}

// Metadata describes the meeting itself.
type Metadata struct {
	MeetingType *string  `json:"tipo_reunion"`
	Community   *string  `json:"comunidad"`
	Address     *string  `json:"direccion"`
	Date        *string  `json:"fecha_reunion"` // YYYY-MM-DD
	StartTime   *string  `json:"hora_inicio"`   // HH:MM
	EndTime     *string  `json:"hora_fin"`
	Location    *string  `json:"lugar"`
	Language    Language `json:"idioma_acta"`
}

// Participants lists the office holders and attendance of the meeting.
type Participants struct {
	Chair         *string       `json:"presidente"`
	Secretary     *string       `json:"secretario"`
	Administrator *string       `json:"administrador"`
	Attendees     []Attendee    `json:"asistentes"`
	Represented   []Represented `json:"representados"`
}

// Attendee is an owner present at the meeting.
type Attendee struct {
	Name              *string `json:"nombre"`
	UnitOrCoefficient *string `json:"vivienda_o_coeficiente"`
	Present           bool    `json:"presente"`
}

// Represented is an owner who attended through a proxy.
type Represented struct {
	Name          *string `json:"nombre"`
	RepresentedBy *string `json:"representado_por"`
}

// AgendaItem is one point of the order of the day.
type AgendaItem struct {
	Point       *string `json:"punto"`
	Description *string `json:"descripcion"`
}

// Discussion summarizes the debate on one agenda point.
type Discussion struct {
	Point   *string `json:"punto"`
	Summary *string `json:"resumen_discusion"`
}

// Resolution is a resolution adopted (or rejected) by the meeting.
type Resolution struct {
	Point               *string  `json:"punto"`
	Text                *string  `json:"acuerdo"`
	VoteResult          *string  `json:"resultado_votacion"`
	VotesFor            *float64 `json:"votos_a_favor"`
	VotesAgainst        *float64 `json:"votos_en_contra"`
	Abstentions         *float64 `json:"abstenciones"`
	ApprovalCoefficient *string  `json:"coeficiente_aprobacion"`
	Approved            *bool    `json:"aprobado"`
}

// Task is a follow-up action assigned during the meeting.
type Task struct {
	Description *string `json:"descripcion"`
	Owner       *string `json:"responsable"`
	Deadline    *string `json:"fecha_limite"`
	Notes       *string `json:"observaciones"`
}

// Incident is an issue raised during the meeting.
type Incident struct {
	Description   *string `json:"descripcion"`
	NeedsFollowUp *bool   `json:"requiere_seguimiento"`
}

// Closing records how the meeting ended.
type Closing struct {
	Time         *string `json:"hora_cierre"`
	FinalRemarks *string `json:"observaciones_finales"`
}

// Signatures names the signatories of the minutes.
type Signatures struct {
	Chair     *string `json:"presidente"`
	Secretary *string `json:"secretario"`
}
