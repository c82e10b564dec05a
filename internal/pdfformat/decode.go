package pdfformat

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/hpungsan/acta/internal/acta"
	"github.com/hpungsan/acta/internal/errors"
)

// Decode reads a pre-mapped Format from JSON supplied by a caller.
//
// Decoding is tolerant: mistyped scalars are stringified or dropped,
// non-object rows become empty rows, and a missing or unusable punto_id
// is replaced by the row position. Only a document that is not a JSON
// object is rejected.
func Decode(data []byte) (*Format, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.NewInvalidRequest("invalid JSON: " + err.Error())
	}
	return FromValue(v)
}

// FromValue is Decode for an already decoded JSON value.
func FromValue(v any) (*Format, error) {
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, errors.NewInvalidInput("pre-mapped acta must be a non-null JSON object")
	}

	comunidad := object(doc["comunidad"])
	cabecera := object(doc["cabecera"])
	cargos := object(doc["cargos"])
	cierre := object(doc["cierre"])

	f := &Format{
		Language: acta.ParseLanguage(doc["idioma"]),
		Community: Community{
			Name:    str(comunidad["nombre"]),
			Address: str(comunidad["direccion"]),
			TaxID:   str(comunidad["nif"]),
			City:    str(comunidad["ciudad"]),
		},
		Header: Header{
			Date:      str(cabecera["fecha"]),
			StartTime: str(cabecera["hora_inicio"]),
			Chair:     str(cabecera["presidente"]),
			Secretary: str(cabecera["secretario"]),
		},
		Agenda:      []AgendaItem{},
		Attendees:   []Attendee{},
		Resolutions: []Resolution{},
		Funds:       []any{},
		Officers: Officers{
			Chair:          str(cargos["presidente"]),
			ViceChair:      str(cargos["vicepresidente"]),
			SecretaryAdmin: str(cargos["secretario_admin"]),
		},
		Closing: Closing{
			EndTime: str(cierre["hora_fin"]),
		},
	}

	for i, item := range array(doc["orden_dia"]) {
		m := object(item)
		f.Agenda = append(f.Agenda, AgendaItem{
			PointID: pointID(m["punto_id"], i),
			Title:   str(m["titulo"]),
		})
	}
	for _, item := range array(doc["asistentes"]) {
		m := object(item)
		f.Attendees = append(f.Attendees, Attendee{
			Unit:           str(m["departamento"]),
			Coefficient:    str(m["coeficiente"]),
			Owner:          str(m["propietario"]),
			Representative: str(m["representante"]),
		})
	}
	for i, item := range array(doc["acuerdos"]) {
		m := object(item)
		decisions := []string{}
		for _, d := range array(m["decisiones"]) {
			if s := str(d); s != nil {
				decisions = append(decisions, *s)
			}
		}
		f.Resolutions = append(f.Resolutions, Resolution{
			PointID:   pointID(m["punto_id"], i),
			Summary:   str(m["resumen"]),
			Decisions: decisions,
			Result:    str(m["resultado"]),
		})
	}
	for _, item := range array(doc["fondos"]) {
		f.Funds = append(f.Funds, item)
	}

	return f, nil
}

func object(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func array(v any) []any {
	arr, _ := v.([]any)
	return arr
}

// str stringifies scalars. Objects, arrays and null yield nil.
func str(v any) *string {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	case json.Number:
		s = formatNumber(x)
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		s = strconv.FormatBool(x)
	default:
		return nil
	}
	return &s
}

func formatNumber(n json.Number) string {
	if f, err := n.Float64(); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return n.String()
}

// pointID accepts positive whole numbers; anything else falls back to
// the 1-based position.
func pointID(v any, i int) int {
	var f float64
	switch x := v.(type) {
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return i + 1
		}
		f = parsed
	case float64:
		f = x
	default:
		return i + 1
	}
	if f < 1 || f != math.Trunc(f) || f > math.MaxInt32 {
		return i + 1
	}
	return int(f)
}
