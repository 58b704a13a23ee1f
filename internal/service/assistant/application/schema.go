package application

import "mycelium/internal/service/assistant/domain"

func str(desc string) *domain.Schema {
	return &domain.Schema{Type: domain.TypeString, Description: desc}
}

func strList(desc string) *domain.Schema {
	return &domain.Schema{Type: domain.TypeArray, Description: desc, Items: &domain.Schema{Type: domain.TypeString}}
}

var summarySchema = &domain.Schema{
	Type: domain.TypeObject,
	Properties: map[string]*domain.Schema{
		"summary":    str("Resumen breve del estado de la producción"),
		"highlights": strList("Puntos positivos"),
		"risks":      strList("Riesgos o lotes que requieren atención"),
	},
	Required: []string{"summary", "highlights", "risks"},
}

var formulationSchema = &domain.Schema{
	Type: domain.TypeObject,
	Properties: map[string]*domain.Schema{
		"ingredients": {
			Type: domain.TypeArray,
			Items: &domain.Schema{
				Type: domain.TypeObject,
				Properties: map[string]*domain.Schema{
					"name":  str("Ingrediente"),
					"grams": {Type: domain.TypeInteger, Description: "Peso seco en gramos"},
				},
				Required: []string{"name", "grams"},
			},
		},
		"waterGrams": {Type: domain.TypeInteger, Description: "Agua a agregar en gramos"},
		"notes":      str("Indicaciones de preparación"),
	},
	Required: []string{"ingredients", "waterGrams", "notes"},
}

var diagnosisSchema = &domain.Schema{
	Type: domain.TypeObject,
	Properties: map[string]*domain.Schema{
		"contaminated": {Type: domain.TypeBoolean},
		"contaminant":  str("Nombre común del contaminante, vacío si no hay"),
		"confidence":   {Type: domain.TypeNumber, Description: "Entre 0 y 1"},
		"advice":       str("Qué hacer con el lote"),
	},
	Required: []string{"contaminated", "contaminant", "confidence", "advice"},
}
