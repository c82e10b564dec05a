package acta

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// coerce turns a schema-checked document into an Acta. Every lookup is
// tolerant of missing keys and mistyped values.
func coerce(doc map[string]any) *Acta {
	meta := object(doc["metadata"])
	parts := object(doc["participantes"])
	closing := object(doc["cierre"])
	sigs := object(doc["firmas"])

	a := &Acta{
		Metadata: Metadata{
			MeetingType: text(meta["tipo_reunion"]),
			Community:   text(meta["comunidad"]),
			Address:     text(meta["direccion"]),
			Date:        text(meta["fecha_reunion"]),
			StartTime:   text(meta["hora_inicio"]),
			EndTime:     text(meta["hora_fin"]),
			Location:    text(meta["lugar"]),
			Language:    ParseLanguage(meta["idioma_acta"]),
		},
		Participants: Participants{
			Chair:         text(parts["presidente"]),
			Secretary:     text(parts["secretario"]),
			Administrator: text(parts["administrador"]),
			Attendees:     []Attendee{},
			Represented:   []Represented{},
		},
		Agenda:      []AgendaItem{},
		Discussion:  []Discussion{},
		Resolutions: []Resolution{},
		Tasks:       []Task{},
		Incidents:   []Incident{},
		Closing: Closing{
			Time:         text(closing["hora_cierre"]),
			FinalRemarks: text(closing["observaciones_finales"]),
		},
		Signatures: Signatures{
			Chair:     text(sigs["presidente"]),
			Secretary: text(sigs["secretario"]),
		},
	}

	for _, m := range objects(parts["asistentes"]) {
		present := true
		if p := flag(m["presente"]); p != nil {
			present = *p
		}
		a.Participants.Attendees = append(a.Participants.Attendees, Attendee{
			Name:              text(m["nombre"]),
			UnitOrCoefficient: label(m["vivienda_o_coeficiente"]),
			Present:           present,
		})
	}
	for _, m := range objects(parts["representados"]) {
		a.Participants.Represented = append(a.Participants.Represented, Represented{
			Name:          text(m["nombre"]),
			RepresentedBy: text(m["representado_por"]),
		})
	}
	for _, m := range objects(doc["orden_del_dia"]) {
		a.Agenda = append(a.Agenda, AgendaItem{
			Point:       label(m["punto"]),
			Description: text(m["descripcion"]),
		})
	}
	for _, m := range objects(doc["desarrollo"]) {
		a.Discussion = append(a.Discussion, Discussion{
			Point:   label(m["punto"]),
			Summary: text(m["resumen_discusion"]),
		})
	}
	for _, m := range objects(doc["acuerdos"]) {
		a.Resolutions = append(a.Resolutions, Resolution{
			Point:               label(m["punto"]),
			Text:                text(m["acuerdo"]),
			VoteResult:          text(m["resultado_votacion"]),
			VotesFor:            number(m["votos_a_favor"]),
			VotesAgainst:        number(m["votos_en_contra"]),
			Abstentions:         number(m["abstenciones"]),
			ApprovalCoefficient: label(m["coeficiente_aprobacion"]),
			Approved:            flag(m["aprobado"]),
		})
	}
	for _, m := range objects(doc["tareas"]) {
		a.Tasks = append(a.Tasks, Task{
			Description: text(m["descripcion"]),
			Owner:       text(m["responsable"]),
			Deadline:    text(m["fecha_limite"]),
			Notes:       text(m["observaciones"]),
		})
	}
	for _, m := range objects(doc["incidencias"]) {
		a.Incidents = append(a.Incidents, Incident{
			Description:   text(m["descripcion"]),
			NeedsFollowUp: flag(m["requiere_seguimiento"]),
		})
	}

	return a
}

func object(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func objects(v any) []map[string]any {
	arr, _ := v.([]any)
	out := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func text(v any) *string {
	if s, ok := v.(string); ok {
		return &s
	}
	return nil
}

// label accepts a string or a number and always yields a string.
func label(v any) *string {
	switch x := v.(type) {
	case string:
		return &x
	case json.Number:
		if f, err := x.Float64(); err == nil {
			s := strconv.FormatFloat(f, 'f', -1, 64)
			return &s
		}
		s := x.String()
		return &s
	case float64:
		s := strconv.FormatFloat(x, 'f', -1, 64)
		return &s
	}
	return nil
}

// number parses numeric-looking values and never fails: anything that is
// not a finite number becomes nil.
func number(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case float64:
		f = x
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func flag(v any) *bool {
	if b, ok := v.(bool); ok {
		return &b
	}
	return nil
}
