// Package domain declares the PDF reporting contract.
package domain

import (
	"context"
	"errors"
	"time"
)

// AnalysisKind selects which axis a sales analysis aggregates on.
type AnalysisKind string

const (
	AnalysisCategories AnalysisKind = "categories"
	AnalysisResources  AnalysisKind = "resources"
)

type Service interface {
	// InvoiceDetail renders one archived invoice as a PDF document.
	InvoiceDetail(ctx context.Context, number string) ([]byte, error)
	// SalesAnalysis renders a revenue analysis over [from, to] as a PDF.
	SalesAnalysis(ctx context.Context, kind AnalysisKind, from, to time.Time) ([]byte, error)
}

var ErrUnknownAnalysis = errors.New("unknown_analysis_kind")
