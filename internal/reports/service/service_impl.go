package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/chapinas/facturacloud/internal/config"
	invoicedomain "github.com/chapinas/facturacloud/internal/invoice/domain"
	registrydomain "github.com/chapinas/facturacloud/internal/registry/domain"
	"github.com/chapinas/facturacloud/internal/reports/domain"
	"github.com/chapinas/facturacloud/internal/reports/pdf"
	"github.com/chapinas/facturacloud/internal/validate"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Config   config.Config
	Invoices invoicedomain.Service
	Registry registrydomain.Service
	Log      *zap.Logger
}

type Service struct {
	renderer *pdf.Renderer
	invoices invoicedomain.Service
	registry registrydomain.Service
	log      *zap.Logger
}

func New(p Params) domain.Service {
	return &Service{
		renderer: &pdf.Renderer{LogoPath: p.Config.ReportLogoPath},
		invoices: p.Invoices,
		registry: p.Registry,
		log:      p.Log.Named("reports.service"),
	}
}

func (s *Service) InvoiceDetail(ctx context.Context, number string) ([]byte, error) {
	invoice, err := s.invoices.ByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	detail := pdf.InvoiceDetail{
		Number:        invoice.Number,
		IssuedAt:      validate.FormatDate(invoice.IssuedAt),
		GeneratedAt:   validate.FormatDateTime(time.Now()),
		ClientNIT:     invoice.ClientNIT,
		ClientName:    "N/A",
		ClientAddress: "N/A",
		ClientEmail:   "N/A",
		Total:         money(invoice.Total),
	}
	// The client may have been deleted since the invoice was issued; the
	// report still renders from the archived amounts.
	if client, err := s.registry.ClientByNIT(ctx, invoice.ClientNIT); err == nil {
		detail.ClientName = client.Name
		detail.ClientAddress = client.Address
		detail.ClientEmail = client.Email
	}

	for _, line := range invoice.Lines {
		row := pdf.InvoiceLine{
			InstanceID:   strconv.Itoa(line.InstanceID),
			InstanceName: line.InstanceName,
			Hours:        line.Hours.String(),
			Amount:       money(line.Amount),
		}
		for _, charge := range line.Resources {
			row.Resources = append(row.Resources, pdf.ResourceRow{
				Name:         charge.ResourceName,
				Quantity:     charge.Quantity.String(),
				PricePerHour: money(charge.PricePerHour),
				Hours:        line.Hours.String(),
				Cost:         money(charge.Cost),
			})
		}
		detail.Lines = append(detail.Lines, row)
	}

	return s.renderer.RenderInvoiceDetail(detail)
}

func (s *Service) SalesAnalysis(ctx context.Context, kind domain.AnalysisKind, from, to time.Time) ([]byte, error) {
	switch kind {
	case domain.AnalysisCategories:
		return s.categoryAnalysis(ctx, from, to)
	case domain.AnalysisResources:
		return s.resourceAnalysis(ctx, from, to)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAnalysis, kind)
	}
}

func (s *Service) categoryAnalysis(ctx context.Context, from, to time.Time) ([]byte, error) {
	revenue, err := s.invoices.RevenueByCategory(ctx, from, to)
	if err != nil {
		return nil, err
	}

	analysis := pdf.CategoryAnalysis{
		From:        validate.FormatDate(from),
		To:          validate.FormatDate(to),
		GeneratedAt: validate.FormatDateTime(time.Now()),
	}
	total := decimal.Zero
	for _, category := range revenue {
		row := pdf.CategoryRow{
			Name:        category.Name,
			Description: category.Description,
			Workload:    category.Workload,
			Revenue:     money(category.Revenue),
		}
		for _, cfg := range category.Configurations {
			row.Configurations = append(row.Configurations, pdf.NameRevenue{
				Name:    cfg.Name,
				Revenue: money(cfg.Revenue),
			})
		}
		analysis.Categories = append(analysis.Categories, row)
		total = total.Add(category.Revenue)
	}
	analysis.Total = money(total)

	return s.renderer.RenderCategoryAnalysis(analysis)
}

func (s *Service) resourceAnalysis(ctx context.Context, from, to time.Time) ([]byte, error) {
	revenue, err := s.invoices.RevenueByResource(ctx, from, to)
	if err != nil {
		return nil, err
	}

	analysis := pdf.ResourceAnalysis{
		From:        validate.FormatDate(from),
		To:          validate.FormatDate(to),
		GeneratedAt: validate.FormatDateTime(time.Now()),
	}
	total := decimal.Zero
	for _, resource := range revenue {
		analysis.Resources = append(analysis.Resources, pdf.ResourceAnalysisRow{
			Name:         resource.Name,
			Kind:         resource.Kind,
			UnitMetric:   resource.UnitMetric,
			PricePerHour: money(resource.PricePerHour),
			Revenue:      money(resource.Revenue),
		})
		total = total.Add(resource.Revenue)
	}
	analysis.Total = money(total)

	return s.renderer.RenderResourceAnalysis(analysis)
}

func money(d decimal.Decimal) string {
	return "Q " + d.StringFixed(2)
}
