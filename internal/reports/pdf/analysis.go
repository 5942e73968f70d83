package pdf

import (
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type CategoryAnalysis struct {
	From        string
	To          string
	GeneratedAt string
	Total       string
	Categories  []CategoryRow
}

type CategoryRow struct {
	Name           string
	Description    string
	Workload       string
	Revenue        string
	Configurations []NameRevenue
}

type NameRevenue struct {
	Name    string
	Revenue string
}

type ResourceAnalysis struct {
	From        string
	To          string
	GeneratedAt string
	Total       string
	Resources   []ResourceAnalysisRow
}

type ResourceAnalysisRow struct {
	Name         string
	Kind         string
	UnitMetric   string
	PricePerHour string
	Revenue      string
}

// RenderCategoryAnalysis lays out revenue per category, each with its
// per-configuration breakdown, highest earners first.
func (r *Renderer) RenderCategoryAnalysis(a CategoryAnalysis) ([]byte, error) {
	m := r.build()

	m.AddRow(12,
		text.NewCol(12, "Análisis de Ventas por Categorías", props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, "Período: "+a.From+" - "+a.To, props.Text{
			Size:  10,
			Align: align.Center,
		}),
	)

	for _, category := range a.Categories {
		m.AddRow(20,
			col.New(12).Add(
				text.New(category.Name, props.Text{Style: fontstyle.Bold, Size: 11}),
				text.New(category.Description, props.Text{Top: 5, Size: 9}),
				text.New("Carga de Trabajo: "+category.Workload, props.Text{Top: 10, Size: 9}),
				text.New("Ingresos: "+category.Revenue, props.Text{Top: 15, Size: 10, Style: fontstyle.Bold}),
			),
		)

		if len(category.Configurations) > 0 {
			m.AddRow(8,
				text.NewCol(8, "Configuración", props.Text{Style: fontstyle.Bold, Size: 9}),
				text.NewCol(4, "Ingresos", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			)
			for _, cfg := range category.Configurations {
				m.AddRow(7,
					text.NewCol(8, cfg.Name, props.Text{Size: 9}),
					text.NewCol(4, cfg.Revenue, props.Text{Size: 9, Align: align.Right}),
				)
			}
		}
	}

	m.AddRow(12,
		text.NewCol(12, "Total de Ingresos: "+a.Total, props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)
	generatedRow(m, a.GeneratedAt)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}

// RenderResourceAnalysis lays out revenue per resource, highest earners first.
func (r *Renderer) RenderResourceAnalysis(a ResourceAnalysis) ([]byte, error) {
	m := r.build()

	m.AddRow(12,
		text.NewCol(12, "Análisis de Ventas por Recursos", props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)
	m.AddRow(8,
		text.NewCol(12, "Período: "+a.From+" - "+a.To, props.Text{
			Size:  10,
			Align: align.Center,
		}),
	)

	m.AddRow(8,
		text.NewCol(4, "Recurso", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Tipo", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Métrica", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(2, "Valor x Hora", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		text.NewCol(2, "Ingresos", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)
	for _, res := range a.Resources {
		m.AddRow(7,
			text.NewCol(4, res.Name, props.Text{Size: 9}),
			text.NewCol(2, res.Kind, props.Text{Size: 9}),
			text.NewCol(2, res.UnitMetric, props.Text{Size: 9}),
			text.NewCol(2, res.PricePerHour, props.Text{Size: 9, Align: align.Right}),
			text.NewCol(2, res.Revenue, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(12,
		text.NewCol(12, "Total de Ingresos: "+a.Total, props.Text{
			Size:  12,
			Style: fontstyle.Bold,
			Align: align.Right,
		}),
	)
	generatedRow(m, a.GeneratedAt)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
