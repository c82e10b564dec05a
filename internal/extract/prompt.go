package extract

import (
	"strings"

	"github.com/hpungsan/acta/internal/acta"
)

const promptHeader = `Eres un asistente experto en gestión de comunidades de propietarios e inmobiliarias.
Tu tarea es analizar una TRANSCRIPCIÓN DE UNA REUNIÓN y generar EXCLUSIVAMENTE
un objeto JSON que siga EXACTAMENTE el template proporcionado.

REGLAS OBLIGATORIAS:
1. Devuelve SOLO JSON válido, sin texto antes ni después.
2. No inventes información. Usa null si no aparece.
3. Fechas: YYYY-MM-DD | Horas: HH:MM
4. Lenguaje formal administrativo.
5. Resume discusiones, no transcribas literal.
6. No añadas campos.
7. Respeta exactamente los nombres de los campos.
8. INCLUYE SIEMPRE todos los campos del template: metadata, participantes, orden_del_dia, desarrollo, acuerdos, tareas, incidencias, cierre, firmas. Usa [] o null si no aplica.
`

// Prompt builds the extraction instruction for a transcript.
func Prompt(transcript string) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	b.WriteString("\nTEMPLATE JSON:\n")
	b.WriteString(acta.Template)
	b.WriteString("\n\nTRANSCRIPCIÓN:\n\"\"\"\n")
	b.WriteString(transcript)
	b.WriteString("\n\"\"\"\n")
	return b.String()
}
