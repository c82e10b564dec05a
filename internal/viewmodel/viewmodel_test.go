package viewmodel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hpungsan/acta/internal/acta"
	"github.com/hpungsan/acta/internal/errors"
	"github.com/hpungsan/acta/internal/pdfformat"
)

func sp(s string) *string { return &s }

func TestProject_Nil(t *testing.T) {
	_, err := Project(nil)
	require.True(t, errors.Is(err, errors.ErrInvalidInput))

	_, err = ProjectJSON([]byte("null"))
	require.True(t, errors.Is(err, errors.ErrInvalidInput))
}

func TestSafe(t *testing.T) {
	tests := []struct {
		in   *string
		want string
	}{
		{nil, "-"},
		{sp(""), "-"},
		{sp("   "), "-"},
		{sp("  Maria  "), "Maria"},
		{sp("0"), "0"},
	}
	for _, tt := range tests {
		if got := safe(tt.in); got != tt.want {
			t.Errorf("safe(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProject_SafeStrings(t *testing.T) {
	vm, err := Project(&pdfformat.Format{
		Header: pdfformat.Header{Chair: sp("  Maria  "), Secretary: sp("")},
		Attendees: []pdfformat.Attendee{
			{Owner: sp("Ana"), Representative: sp("")},
		},
	})
	require.NoError(t, err)

	require.Equal(t, "Maria", vm.Chair)
	require.Equal(t, "-", vm.Secretary)
	require.Equal(t, "-", vm.CommunityName)
	require.Equal(t, "-", vm.TaxID)
	require.Equal(t, AttendeeRow{Unit: "-", Coefficient: "-", Owner: "Ana", Representative: "-"}, vm.Attendees[0])
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		lang acta.Language
		in   *string
		want string
	}{
		{acta.Spanish, sp("2024-03-05"), "5 de marzo de 2024"},
		{acta.Catalan, sp("2024-03-05"), "5 de març de 2024"},
		{acta.Spanish, sp("2023-12-31"), "31 de diciembre de 2023"},
		{acta.Catalan, sp(" 2025-01-01 "), "1 de gener de 2025"},
		{acta.Spanish, nil, "-"},
		{acta.Spanish, sp(""), "-"},
		{acta.Spanish, sp("05/03/2024"), ""},
		{acta.Spanish, sp("2024-02-30"), ""},
		{acta.Catalan, sp("ayer"), ""},
	}
	for _, tt := range tests {
		if got := textsFor(tt.lang).formatDate(tt.in); got != tt.want {
			t.Errorf("formatDate(%s, %v) = %q, want %q", tt.lang, tt.in, got, tt.want)
		}
	}
}

func TestOrdinal(t *testing.T) {
	tests := []struct {
		lang acta.Language
		n    int
		want string
	}{
		{acta.Spanish, 1, "PRIMERO"},
		{acta.Catalan, 1, "PRIMER"},
		{acta.Spanish, 2, "SEGUNDO"},
		{acta.Catalan, 2, "SEGON"},
		{acta.Spanish, 13, "DECIMOTERCERO"},
		{acta.Spanish, 20, "VIGÉSIMO"},
		{acta.Catalan, 20, "VINTÈ"},
		{acta.Spanish, 21, "NÚMERO 21"},
		{acta.Catalan, 21, "NÚMERO 21"},
		{acta.Spanish, 0, "NÚMERO 0"},
	}
	for _, tt := range tests {
		if got := textsFor(tt.lang).ordinal(tt.n); got != tt.want {
			t.Errorf("ordinal(%s, %d) = %q, want %q", tt.lang, tt.n, got, tt.want)
		}
	}
}

func TestNarrative(t *testing.T) {
	tests := []struct {
		lang acta.Language
		in   *string
		want string
	}{
		{acta.Spanish, sp("Unanimidad"), "se acuerda por unanimidad"},
		{acta.Catalan, sp("Unanimidad"), "s'acorda per unanimitat"},
		{acta.Catalan, sp("per unanimitat"), "s'acorda per unanimitat"},
		{acta.Spanish, sp("Aprobado por mayoría absoluta"), "se acuerda por mayoría absoluta"},
		{acta.Spanish, sp("MAYORIA SIMPLE"), "se acuerda por mayoría simple"},
		{acta.Catalan, sp("majoria absoluta"), "s'acorda per majoria absoluta"},
		{acta.Spanish, sp("Mayoría"), "se acuerda por mayoría"},
		{acta.Catalan, sp("mayoría"), "s'acorda per majoria"},
		{acta.Spanish, sp("  12 votos a favor  "), "se acuerda (12 votos a favor)"},
		{acta.Catalan, sp("aprovat"), "s'acorda (aprovat)"},
		{acta.Spanish, sp("   "), "se acuerda"},
		{acta.Spanish, nil, "se acuerda"},
		{acta.Catalan, nil, "s'acorda"},
	}
	for _, tt := range tests {
		if got := textsFor(tt.lang).narrative(tt.in); got != tt.want {
			t.Errorf("narrative(%s, %v) = %q, want %q", tt.lang, tt.in, got, tt.want)
		}
	}
}

func TestJoinDecisions(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{nil, ""},
		{[]string{"Aprobado"}, "Aprobado."},
		{[]string{" Aprobado. ", "", "  ", "Se encarga presupuesto"}, "Aprobado. Se encarga presupuesto."},
	}
	for _, tt := range tests {
		if got := joinDecisions(tt.in); got != tt.want {
			t.Errorf("joinDecisions(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestProject_Resolutions(t *testing.T) {
	f := &pdfformat.Format{Language: acta.Catalan}
	for i := 0; i < 21; i++ {
		f.Resolutions = append(f.Resolutions, pdfformat.Resolution{PointID: i + 1})
	}
	f.Resolutions[0].Result = sp("Unanimidad")
	f.Resolutions[0].Decisions = []string{"Unanimidad"}

	vm, err := Project(f)
	require.NoError(t, err)
	require.Len(t, vm.Resolutions, 21)

	require.Equal(t, "PRIMER", vm.Resolutions[0].Ordinal)
	require.Equal(t, "s'acorda per unanimitat.", vm.Resolutions[0].Result)
	require.Equal(t, "Unanimidad.", vm.Resolutions[0].Decisions)
	require.Equal(t, "VINTÈ", vm.Resolutions[19].Ordinal)
	require.Equal(t, "NÚMERO 21", vm.Resolutions[20].Ordinal)
	require.Equal(t, "s'acorda.", vm.Resolutions[20].Result)
	require.Equal(t, "-", vm.Resolutions[20].Summary)
}

func TestProject_MissingPointIDUsesPosition(t *testing.T) {
	vm, err := Project(&pdfformat.Format{
		Agenda: []pdfformat.AgendaItem{{Title: sp("Obras")}, {PointID: 7, Title: sp("Cuotas")}},
	})
	require.NoError(t, err)
	require.Equal(t, AgendaRow{PointID: 1, Ordinal: "PRIMERO", Title: "Obras"}, vm.Agenda[0])
	require.Equal(t, AgendaRow{PointID: 7, Ordinal: "SÉPTIMO", Title: "Cuotas"}, vm.Agenda[1])
}

func TestProject_Locale(t *testing.T) {
	es, err := Project(&pdfformat.Format{Language: "fr", Closing: pdfformat.Closing{EndTime: sp("20:30")}})
	require.NoError(t, err)
	require.Equal(t, acta.Spanish, es.Language)
	require.Equal(t, "ACTA DE REUNIÓN", es.Title)
	require.Equal(t, "ORDEN DEL DÍA", es.AgendaLabel)
	require.Equal(t, [4]string{"Departamento", "Coeficiente", "Propietario", "Representante"}, es.AttendeeHeaders)
	require.True(t, strings.HasPrefix(es.Closing, "Y no habiendo más asuntos que tratar, se levanta la sesión a las 20:30 horas"))
	require.Contains(t, es.Closing, "artículo 553-27 del C.C.C.")

	ca, err := Project(&pdfformat.Format{Language: acta.Catalan})
	require.NoError(t, err)
	require.Equal(t, "ACTA DE REUNIÓ", ca.Title)
	require.Equal(t, "ORDRE DEL DIA", ca.AgendaLabel)
	require.Equal(t, [5]string{"Fons", "Saldo anterior", "Ingressos", "Despeses", "Saldo actual"}, ca.FundHeaders)
	require.Contains(t, ca.Closing, "es lleva la sessió a les - hores")
	require.Equal(t, "-", ca.Date)
}

func TestProject_Funds(t *testing.T) {
	f, err := pdfformat.Decode([]byte(`{
		"fondos": [
			{"nombre": " Reserva ", "saldo_anterior": 1200.5, "ingresos": "300", "gastos": null},
			"not-an-object",
			null
		]
	}`))
	require.NoError(t, err)

	vm, err := Project(f)
	require.NoError(t, err)
	require.Len(t, vm.Funds, 3)
	require.Equal(t, FundRow{Name: "Reserva", PreviousBalance: "1200.5", Income: "300", Expenses: "-", CurrentBalance: "-"}, vm.Funds[0])
	require.Equal(t, FundRow{Name: "-", PreviousBalance: "-", Income: "-", Expenses: "-", CurrentBalance: "-"}, vm.Funds[1])
	require.Equal(t, vm.Funds[1], vm.Funds[2])
}

func TestProject_EndToEndFromActa(t *testing.T) {
	a, err := acta.ValidateJSON([]byte(`{
		"metadata": {"comunidad": "CP Sol", "fecha_reunion": "2024-06-15", "hora_inicio": "18:00", "idioma_acta": "es"},
		"participantes": {
			"presidente": "Laura",
			"asistentes": [{"nombre": "Ana", "vivienda_o_coeficiente": "2B"}, {"nombre": "Luis"}],
			"representados": [{"nombre": "Marta", "representado_por": "Ana"}]
		},
		"orden_del_dia": [{"punto": "7b", "descripcion": "Derramas"}],
		"acuerdos": [{"acuerdo": "Aprobar derrama", "resultado_votacion": "Unanimidad"}],
		"cierre": {"hora_cierre": "19:45"}
	}`))
	require.NoError(t, err)

	vm, err := Project(pdfformat.Map(a))
	require.NoError(t, err)

	require.Equal(t, "15 de junio de 2024", vm.Date)
	require.Equal(t, "Laura", vm.Chair)
	require.Equal(t, "Laura", vm.ChairSignature)
	require.Equal(t, "-", vm.Secretary)
	require.Equal(t, []AgendaRow{{PointID: 1, Ordinal: "PRIMERO", Title: "Derramas"}}, vm.Agenda)
	require.Len(t, vm.Attendees, 3)
	require.Equal(t, "Marta", vm.Attendees[2].Owner)
	require.Equal(t, "se acuerda por unanimidad.", vm.Resolutions[0].Result)
	require.Equal(t, "Unanimidad.", vm.Resolutions[0].Decisions)
	require.Empty(t, vm.Funds)
	require.Equal(t, "19:45", vm.EndTime)
}
