package viewmodel

import (
	"fmt"

	"github.com/hpungsan/acta/internal/acta"
)

// texts is the fixed per-locale text of the document.
type texts struct {
	title            string
	pageTitle        string
	agendaTitle      string
	attendeesTitle   string
	resolutionsTitle string
	fundsTitle       string
	chairLabel       string
	secretaryLabel   string
	attendeesIntro   string
	quorum           string
	closing          string // %s is the closing time
	attendeeHeaders  [4]string
	fundHeaders      [5]string
	months           [12]string
	ordinals         [20]string

	agreed      string
	byUnanimity string
	byMajority  string
	byAbsolute  string
	bySimple    string
}

var spanish = texts{
	title:            "ACTA DE REUNIÓN",
	pageTitle:        "Acta de reunión",
	agendaTitle:      "ORDEN DEL DÍA",
	attendeesTitle:   "ASISTENTES",
	resolutionsTitle: "ACUERDOS",
	fundsTitle:       "FONDOS",
	chairLabel:       "El Presidente",
	secretaryLabel:   "El Secretario",
	attendeesIntro:   "Asisten a la reunión las siguientes entidades:",
	quorum:           "Se constata que concurren propietarios que representan suficiente coeficiente de participación para la válida constitución de la Junta, quedando ésta válidamente constituida.",
	closing: "Y no habiendo más asuntos que tratar, se levanta la sesión a las %s horas, " +
		"extendiéndose la presente acta que, leída y aprobada, es firmada por el Presidente y el Secretario en prueba de conformidad, conforme a lo previsto en el artículo 553-27 del C.C.C.",
	attendeeHeaders: [4]string{"Departamento", "Coeficiente", "Propietario", "Representante"},
	fundHeaders:     [5]string{"Fondo", "Saldo anterior", "Ingresos", "Gastos", "Saldo actual"},
	months: [12]string{
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
	},
	ordinals: [20]string{
		"PRIMERO", "SEGUNDO", "TERCERO", "CUARTO", "QUINTO", "SEXTO",
		"SÉPTIMO", "OCTAVO", "NOVENO", "DÉCIMO", "UNDÉCIMO", "DUODÉCIMO",
		"DECIMOTERCERO", "DECIMOCUARTO", "DECIMOQUINTO", "DECIMOSEXTO",
		"DECIMOSÉPTIMO", "DECIMOCTAVO", "DECIMONOVENO", "VIGÉSIMO",
	},
	agreed:      "se acuerda",
	byUnanimity: "se acuerda por unanimidad",
	byMajority:  "se acuerda por mayoría",
	byAbsolute:  "se acuerda por mayoría absoluta",
	bySimple:    "se acuerda por mayoría simple",
}

var catalan = texts{
	title:            "ACTA DE REUNIÓ",
	pageTitle:        "Acta de reunió",
	agendaTitle:      "ORDRE DEL DIA",
	attendeesTitle:   "ASSISTENTS",
	resolutionsTitle: "ACORDS",
	fundsTitle:       "FONS",
	chairLabel:       "El President",
	secretaryLabel:   "El Secretari",
	attendeesIntro:   "Assisteixen a la reunió les següents entitats:",
	quorum:           "Es constata que concorren propietaris que representen suficient coeficient de participació per a la vàlida constitució de la Junta, quedant aquesta vàlidament constituïda.",
	closing: "I no havent-hi més assumptes a tractar, es lleva la sessió a les %s hores, " +
		"estenent-se la present acta que, llegida i aprovada, és signada pel President i el Secretari en prova de conformitat, d'acord amb el previst a l'article 553-27 del C.C.C.",
	attendeeHeaders: [4]string{"Departament", "Coeficient", "Propietari", "Representant"},
	fundHeaders:     [5]string{"Fons", "Saldo anterior", "Ingressos", "Despeses", "Saldo actual"},
	months: [12]string{
		"gener", "febrer", "març", "abril", "maig", "juny",
		"juliol", "agost", "setembre", "octubre", "novembre", "desembre",
	},
	ordinals: [20]string{
		"PRIMER", "SEGON", "TERCER", "QUART", "CINQUÈ", "SISÈ",
		"SETÈ", "VUITÈ", "NOUÈ", "DÈCIM", "ONZÈ", "DOTZÈ",
		"TRENZÈ", "CATORZÈ", "QUINZÈ", "SETZÈ", "DISSETÈ", "DIVUITÈ",
		"DINOVÈ", "VINTÈ",
	},
	agreed:      "s'acorda",
	byUnanimity: "s'acorda per unanimitat",
	byMajority:  "s'acorda per majoria",
	byAbsolute:  "s'acorda per majoria absoluta",
	bySimple:    "s'acorda per majoria simple",
}

func textsFor(lang acta.Language) *texts {
	if lang == acta.Catalan {
		return &catalan
	}
	return &spanish
}

func (c *texts) closingText(endTime string) string {
	return fmt.Sprintf(c.closing, endTime)
}
