package acta

import _ "embed"

// Template is the JSON skeleton the extraction service is asked to fill.
// Every leaf is null and every list holds a single example item.
const Template = `{
  "metadata": {
    "tipo_reunion": null,
    "comunidad": null,
    "direccion": null,
    "fecha_reunion": null,
    "hora_inicio": null,
    "hora_fin": null,
    "lugar": null,
    "idioma_acta": "es"
  },
  "participantes": {
    "presidente": null,
    "secretario": null,
    "administrador": null,
    "asistentes": [
      {
        "nombre": null,
        "vivienda_o_coeficiente": null,
        "presente": true
      }
    ],
    "representados": [
      {
        "nombre": null,
        "representado_por": null
      }
    ]
  },
  "orden_del_dia": [
    {
      "punto": null,
      "descripcion": null
    }
  ],
  "desarrollo": [
    {
      "punto": null,
      "resumen_discusion": null
    }
  ],
  "acuerdos": [
    {
      "punto": null,
      "acuerdo": null,
      "resultado_votacion": null,
      "votos_a_favor": null,
      "votos_en_contra": null,
      "abstenciones": null,
      "coeficiente_aprobacion": null,
      "aprobado": null
    }
  ],
  "tareas": [
    {
      "descripcion": null,
      "responsable": null,
      "fecha_limite": null,
      "observaciones": null
    }
  ],
  "incidencias": [
    {
      "descripcion": null,
      "requiere_seguimiento": null
    }
  ],
  "cierre": {
    "hora_cierre": null,
    "observaciones_finales": null
  },
  "firmas": {
    "presidente": null,
    "secretario": null
  }
}`

// schemaJSON is the structural contract checked before coercion.
//
//go:embed acta.schema.json
var schemaJSON string
