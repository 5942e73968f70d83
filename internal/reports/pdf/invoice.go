// Package pdf renders the billing reports with maroto.
package pdf

import (
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

const companyName = "Tecnologías Chapinas, S.A."
const companyTagline = "Servicios de Infraestructura en la Nube"

type InvoiceDetail struct {
	Number        string
	IssuedAt      string
	GeneratedAt   string
	ClientNIT     string
	ClientName    string
	ClientAddress string
	ClientEmail   string
	Total         string

	Lines []InvoiceLine
}

type InvoiceLine struct {
	InstanceID   string
	InstanceName string
	Hours        string
	Amount       string
	Resources    []ResourceRow
}

type ResourceRow struct {
	Name         string
	Quantity     string
	PricePerHour string
	Hours        string
	Cost         string
}

// Renderer builds the PDF documents. LogoPath is optional; when empty the
// documents carry text-only headers.
type Renderer struct {
	LogoPath string
}

func (r *Renderer) build() core.Maroto {
	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	if r.LogoPath != "" {
		m.AddRow(30,
			image.NewFromFileCol(3, r.LogoPath, props.Rect{
				Center:  false,
				Percent: 80,
			}),
			col.New(9),
		)
	}
	m.AddRow(12,
		text.NewCol(12, companyName, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)
	return m
}

// generatedRow stamps the document with the moment it was produced.
func generatedRow(m core.Maroto, generatedAt string) {
	if generatedAt == "" {
		return
	}
	m.AddRow(8,
		text.NewCol(12, "Generado: "+generatedAt, props.Text{
			Size:  8,
			Align: align.Right,
		}),
	)
}

// RenderInvoiceDetail lays out an archived invoice: header, client block,
// and one instance section per line item with its resource breakdown.
func (r *Renderer) RenderInvoiceDetail(d InvoiceDetail) ([]byte, error) {
	m := r.build()

	m.AddRow(12,
		text.NewCol(12, "Detalle de Factura", props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)

	m.AddRow(30,
		col.New(6).Add(
			text.New("Número de Factura: "+d.Number, props.Text{Top: 0}),
			text.New("Fecha de Emisión: "+d.IssuedAt, props.Text{Top: 5}),
			text.New("NIT del Cliente: "+d.ClientNIT, props.Text{Top: 10}),
			text.New("Monto Total: "+d.Total, props.Text{Top: 15, Style: fontstyle.Bold}),
		),
		col.New(6).Add(
			text.New("Cliente: "+d.ClientName, props.Text{Top: 0}),
			text.New("Dirección: "+d.ClientAddress, props.Text{Top: 5}),
			text.New("Correo: "+d.ClientEmail, props.Text{Top: 10}),
		),
	)

	m.AddRow(10,
		text.NewCol(12, "Detalle por Instancias", props.Text{
			Size:  12,
			Style: fontstyle.Bold,
		}),
	)

	for _, line := range d.Lines {
		m.AddRow(16,
			col.New(12).Add(
				text.New("Instancia: "+line.InstanceName+" (ID "+line.InstanceID+")", props.Text{Style: fontstyle.Bold}),
				text.New("Tiempo Consumido: "+line.Hours+" horas", props.Text{Top: 5}),
				text.New("Monto de Instancia: "+line.Amount, props.Text{Top: 10}),
			),
		)

		m.AddRow(8,
			text.NewCol(4, "Recurso", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.NewCol(2, "Cantidad", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Valor x Hora", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Tiempo (h)", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
			text.NewCol(2, "Costo", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
		)
		for _, res := range line.Resources {
			m.AddRow(7,
				text.NewCol(4, res.Name, props.Text{Size: 9}),
				text.NewCol(2, res.Quantity, props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, res.PricePerHour, props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, res.Hours, props.Text{Size: 9, Align: align.Right}),
				text.NewCol(2, res.Cost, props.Text{Size: 9, Align: align.Right}),
			)
		}
	}

	m.AddRow(14,
		col.New(12).Add(
			text.New("Gracias por su confianza", props.Text{Top: 4, Size: 9}),
			text.New(companyName+" - "+companyTagline, props.Text{Top: 9, Size: 9}),
		),
	)
	generatedRow(m, d.GeneratedAt)

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
