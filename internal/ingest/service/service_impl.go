package service

import (
	"context"
	"fmt"
	"strconv"

	catalogdomain "github.com/chapinas/facturacloud/internal/catalog/domain"
	"github.com/chapinas/facturacloud/internal/ingest/domain"
	ledgerdomain "github.com/chapinas/facturacloud/internal/ledger/domain"
	registrydomain "github.com/chapinas/facturacloud/internal/registry/domain"
	"github.com/chapinas/facturacloud/internal/validate"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Catalog  catalogdomain.Service
	Registry registrydomain.Service
	Ledger   ledgerdomain.Service
	Log      *zap.Logger
}

type Service struct {
	catalog  catalogdomain.Service
	registry registrydomain.Service
	ledger   ledgerdomain.Service
	log      *zap.Logger
}

func New(p Params) domain.Service {
	return &Service{
		catalog:  p.Catalog,
		registry: p.Registry,
		ledger:   p.Ledger,
		log:      p.Log.Named("ingest.service"),
	}
}

// Configuration ingests a full configuration feed: resources, categories
// with nested configurations, and clients with nested instances. Entities
// already registered under the same id are skipped so feeds can be replayed.
func (s *Service) Configuration(ctx context.Context, data []byte) (domain.ConfigurationResult, error) {
	var result domain.ConfigurationResult
	if len(data) == 0 {
		return result, fmt.Errorf("%w: empty body", domain.ErrMalformedXML)
	}
	root, err := parseXML(data)
	if err != nil {
		return result, fmt.Errorf("%w: %v", domain.ErrMalformedXML, err)
	}

	if err := s.ingestResources(ctx, root, &result); err != nil {
		return result, err
	}
	if err := s.ingestCategories(ctx, root, &result); err != nil {
		return result, err
	}
	if err := s.ingestClients(ctx, root, &result); err != nil {
		return result, err
	}

	s.log.Info("configuration feed processed",
		zap.Int("resources", result.ResourcesCreated),
		zap.Int("categories", result.CategoriesCreated),
		zap.Int("clients", result.ClientsCreated),
		zap.Int("instances", result.InstancesCreated),
	)
	return result, nil
}

func (s *Service) ingestResources(ctx context.Context, root *node, result *domain.ConfigurationResult) error {
	list := root.descendant("listaRecursos")
	if list == nil {
		return nil
	}
	for _, elem := range list.childAll("recurso") {
		id, err := intAttr(elem, "id")
		if err != nil {
			return err
		}
		price, err := decimalText(elem, "valorXhora")
		if err != nil {
			return err
		}
		created, err := s.catalog.ImportResource(ctx, catalogdomain.Resource{
			ID:           id,
			Name:         elem.childText("nombre"),
			Abbreviation: elem.childText("abreviatura"),
			UnitMetric:   elem.childText("metrica"),
			Kind:         catalogdomain.ResourceKind(elem.childText("tipo")),
			PricePerHour: price,
		})
		if err != nil {
			return err
		}
		if created {
			result.ResourcesCreated++
		}
	}
	return nil
}

func (s *Service) ingestCategories(ctx context.Context, root *node, result *domain.ConfigurationResult) error {
	list := root.descendant("listaCategoria", "listaCategorias")
	if list == nil {
		return nil
	}
	for _, elem := range list.childAll("categoria") {
		id, err := intAttr(elem, "id")
		if err != nil {
			return err
		}
		category := catalogdomain.Category{
			ID:          id,
			Name:        elem.childText("nombre"),
			Description: elem.childText("description", "descripcion"),
			Workload:    elem.childText("cargaTrabajo"),
		}

		if configs := elem.descendant("listaConfigurationes", "listaConfiguraciones"); configs != nil {
			for _, cfgElem := range configs.childAll("configuration") {
				cfgID, err := intAttr(cfgElem, "id")
				if err != nil {
					return err
				}
				configuration := &catalogdomain.Configuration{
					ID:          cfgID,
					Name:        cfgElem.childText("nombre"),
					Description: cfgElem.childText("description", "descripcion"),
				}
				if resources := cfgElem.descendant("recursosConfiguracion", "recursosConfiguration"); resources != nil {
					for _, rcElem := range resources.childAll("recurso") {
						resourceID, err := intAttr(rcElem, "id")
						if err != nil {
							return err
						}
						quantity, err := decimal.NewFromString(rcElem.text())
						if err != nil {
							return fmt.Errorf("%w: resource quantity %q", domain.ErrMalformedXML, rcElem.text())
						}
						configuration.SetResource(resourceID, quantity)
					}
				}
				category.Configurations = append(category.Configurations, configuration)
			}
		}

		created, err := s.catalog.ImportCategory(ctx, category)
		if err != nil {
			return err
		}
		if created {
			result.CategoriesCreated++
		}
	}
	return nil
}

func (s *Service) ingestClients(ctx context.Context, root *node, result *domain.ConfigurationResult) error {
	list := root.descendant("listaClientes")
	if list == nil {
		return nil
	}
	for _, elem := range list.childAll("cliente") {
		// Some feeds misspell the attribute as "nlt".
		nit, ok := elem.attr("nlt", "nit")
		if !ok || !validate.NIT(nit) {
			return fmt.Errorf("%w: %q", registrydomain.ErrInvalidNIT, nit)
		}

		instances, count, err := s.parseInstances(elem)
		if err != nil {
			return err
		}
		created, err := s.registry.ImportClient(ctx, registrydomain.ImportClientRequest{
			NIT:       nit,
			Name:      elem.childText("nombre"),
			Username:  elem.childText("usuario"),
			AccessKey: elem.childText("clave"),
			Address:   elem.childText("direccion"),
			Email:     elem.childText("correoElectronico"),
			Instances: instances,
		})
		if err != nil {
			return err
		}
		if created {
			result.ClientsCreated++
			result.InstancesCreated += count
		}
	}
	return nil
}

func (s *Service) parseInstances(clientElem *node) ([]*registrydomain.Instance, int, error) {
	list := clientElem.descendant("listaInstancia", "listaInstancias")
	if list == nil {
		return nil, 0, nil
	}
	var out []*registrydomain.Instance
	for _, elem := range list.childAll("instancia") {
		id, err := intAttr(elem, "id")
		if err != nil {
			return nil, 0, err
		}
		startText := elem.childText("fechaInicio")
		startDate, ok := validate.ExtractDate(startText)
		if !ok {
			return nil, 0, fmt.Errorf("%w: start date %q", domain.ErrInvalidDate, startText)
		}
		state, err := normalizeState(elem.childText("estado"))
		if err != nil {
			return nil, 0, err
		}
		configurationID, err := strconv.Atoi(elem.childText("idConfiguration", "idConfiguracion"))
		if err != nil {
			return nil, 0, fmt.Errorf("%w: configuration id %q", domain.ErrMalformedXML, elem.childText("idConfiguration", "idConfiguracion"))
		}

		instance := &registrydomain.Instance{
			ID:              id,
			ConfigurationID: configurationID,
			Name:            elem.childText("nombre"),
			StartDate:       startDate,
			State:           state,
		}
		if endText := elem.childText("fechaFinal"); endText != "" {
			if endDate, ok := validate.ExtractDate(endText); ok {
				instance.EndDate = &endDate
			}
		}
		out = append(out, instance)
	}
	return out, len(out), nil
}

// Consumption ingests a usage feed. Each entry is validated against the
// registry before a ledger record is created; the count of records created
// so far is returned alongside the first error.
func (s *Service) Consumption(ctx context.Context, data []byte) (int, error) {
	if len(data) == 0 {
		return 0, fmt.Errorf("%w: empty body", domain.ErrMalformedXML)
	}
	root, err := parseXML(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrMalformedXML, err)
	}

	processed := 0
	entries := root.descendants("consumo")
	for _, elem := range entries {
		nit, ok := elem.attr("nicClientes", "nitCliente")
		if !ok {
			return processed, fmt.Errorf("%w: consumption entry without client NIT", domain.ErrMalformedXML)
		}
		instanceID, err := intAttr(elem, "idInstanceia", "idInstancia")
		if err != nil {
			return processed, err
		}
		hours, err := decimalText(elem, "tiempo")
		if err != nil {
			return processed, err
		}
		timeText := elem.childText("fechahora", "fechaHora")
		recordedAt, ok := validate.ExtractDateTime(timeText)
		if !ok {
			return processed, fmt.Errorf("%w: timestamp %q", domain.ErrInvalidDate, timeText)
		}

		if _, err := s.ledger.Record(ctx, ledgerdomain.RecordRequest{
			ClientNIT:  nit,
			InstanceID: instanceID,
			Hours:      hours,
			RecordedAt: recordedAt,
		}); err != nil {
			return processed, err
		}
		processed++
	}

	s.log.Info("consumption feed processed", zap.Int("records", processed))
	return processed, nil
}

func intAttr(n *node, names ...string) (int, error) {
	raw, ok := n.attr(names...)
	if !ok {
		return 0, fmt.Errorf("%w: missing %s attribute", domain.ErrMalformedXML, names[0])
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: attribute %s=%q", domain.ErrMalformedXML, names[0], raw)
	}
	return v, nil
}

func decimalText(n *node, names ...string) (decimal.Decimal, error) {
	raw := n.childText(names...)
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: element %s=%q", domain.ErrMalformedXML, names[0], raw)
	}
	return v, nil
}

// normalizeState maps feed instance states onto the registry's canonical
// spellings. An absent state means the instance is active.
func normalizeState(raw string) (registrydomain.InstanceState, error) {
	if raw == "" {
		return registrydomain.StateActive, nil
	}
	state, ok := validate.NormalizeEnum(raw,
		string(registrydomain.StateActive), string(registrydomain.StateCancelled))
	if !ok {
		return "", fmt.Errorf("%w: %q", registrydomain.ErrInvalidState, raw)
	}
	return registrydomain.InstanceState(state), nil
}
