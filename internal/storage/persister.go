package storage

import (
	"context"

	catalogdomain "github.com/chapinas/facturacloud/internal/catalog/domain"
	"github.com/chapinas/facturacloud/internal/config"
	invoicedomain "github.com/chapinas/facturacloud/internal/invoice/domain"
	ledgerdomain "github.com/chapinas/facturacloud/internal/ledger/domain"
	registrydomain "github.com/chapinas/facturacloud/internal/registry/domain"
	"github.com/chapinas/facturacloud/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Params struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
}

// Persister stores snapshots in a relational database.
type Persister struct {
	db  *gorm.DB
	log *zap.Logger
}

var tables = []interface{}{
	&resourceRow{},
	&categoryRow{},
	&configurationRow{},
	&configurationResourceRow{},
	&clientRow{},
	&instanceRow{},
	&consumptionRow{},
	&invoiceRow{},
	&invoiceLineRow{},
	&invoiceChargeRow{},
	&counterRow{},
}

// New opens the configured database and migrates the snapshot schema.
func New(p Params) (store.Persister, error) {
	dial, err := dialect(p.Cfg)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dial, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(tables...); err != nil {
		return nil, err
	}
	return &Persister{db: db, log: p.Log.Named("storage")}, nil
}

// NewWithDB builds a persister around an existing gorm handle. Used by tests.
func NewWithDB(db *gorm.DB, log *zap.Logger) (*Persister, error) {
	if err := db.AutoMigrate(tables...); err != nil {
		return nil, err
	}
	return &Persister{db: db, log: log.Named("storage")}, nil
}

// Save rewrites the full snapshot in one transaction.
func (p *Persister) Save(ctx context.Context, snap *store.Snapshot) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, table := range tables {
			if err := wipe.Delete(table).Error; err != nil {
				return err
			}
		}

		for i, r := range snap.Resources {
			row := resourceRow{
				Position:     i,
				ID:           r.ID,
				Name:         r.Name,
				Abbreviation: r.Abbreviation,
				UnitMetric:   r.UnitMetric,
				Kind:         string(r.Kind),
				PricePerHour: r.PricePerHour,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		for i, c := range snap.Categories {
			row := categoryRow{Position: i, ID: c.ID, Name: c.Name, Description: c.Description, Workload: c.Workload}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			for j, cfg := range c.Configurations {
				cfgRow := configurationRow{Position: j, ID: cfg.ID, CategoryID: c.ID, Name: cfg.Name, Description: cfg.Description}
				if err := tx.Create(&cfgRow).Error; err != nil {
					return err
				}
				for k, rq := range cfg.Resources {
					rqRow := configurationResourceRow{
						ConfigurationID: cfg.ID,
						Position:        k,
						ResourceID:      rq.ResourceID,
						Quantity:        rq.Quantity,
					}
					if err := tx.Create(&rqRow).Error; err != nil {
						return err
					}
				}
			}
		}

		for i, c := range snap.Clients {
			row := clientRow{
				Position:      i,
				NIT:           c.NIT,
				Name:          c.Name,
				Username:      c.Username,
				AccessKeyHash: c.AccessKeyHash,
				Address:       c.Address,
				Email:         c.Email,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			for j, inst := range c.Instances {
				instRow := instanceRow{
					Position:        j,
					ID:              inst.ID,
					ClientNIT:       c.NIT,
					ConfigurationID: inst.ConfigurationID,
					Name:            inst.Name,
					StartDate:       inst.StartDate,
					State:           string(inst.State),
					EndDate:         inst.EndDate,
				}
				if err := tx.Create(&instRow).Error; err != nil {
					return err
				}
			}
		}

		for _, r := range snap.Records {
			row := consumptionRow{
				ID:         r.ID,
				ClientNIT:  r.ClientNIT,
				InstanceID: r.InstanceID,
				Hours:      r.Hours,
				RecordedAt: r.RecordedAt,
				Billed:     r.Billed,
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}

		for i, inv := range snap.Invoices {
			row := invoiceRow{Position: i, Number: inv.Number, ClientNIT: inv.ClientNIT, IssuedAt: inv.IssuedAt, Total: inv.Total}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			for j, line := range inv.Lines {
				lineRow := invoiceLineRow{
					InvoiceNumber: inv.Number,
					Position:      j,
					InstanceID:    line.InstanceID,
					InstanceName:  line.InstanceName,
					Hours:         line.Hours,
					Amount:        line.Amount,
				}
				if err := tx.Create(&lineRow).Error; err != nil {
					return err
				}
				for k, charge := range line.Resources {
					chargeRow := invoiceChargeRow{
						InvoiceNumber: inv.Number,
						LinePosition:  j,
						Position:      k,
						ResourceID:    charge.ResourceID,
						ResourceName:  charge.ResourceName,
						Quantity:      charge.Quantity,
						PricePerHour:  charge.PricePerHour,
						Cost:          charge.Cost,
					}
					if err := tx.Create(&chargeRow).Error; err != nil {
						return err
					}
				}
			}
		}

		counters := []counterRow{
			{Name: counterInvoiceSeq, Value: snap.NextInvoiceSeq},
			{Name: counterConsumptionID, Value: snap.NextConsumptionID},
		}
		for _, row := range counters {
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Load reassembles the last saved snapshot.
func (p *Persister) Load(ctx context.Context) (*store.Snapshot, error) {
	db := p.db.WithContext(ctx)
	snap := &store.Snapshot{NextInvoiceSeq: 1, NextConsumptionID: 1}

	var resources []resourceRow
	if err := db.Order("position").Find(&resources).Error; err != nil {
		return nil, err
	}
	for _, row := range resources {
		snap.Resources = append(snap.Resources, catalogdomain.Resource{
			ID:           row.ID,
			Name:         row.Name,
			Abbreviation: row.Abbreviation,
			UnitMetric:   row.UnitMetric,
			Kind:         catalogdomain.ResourceKind(row.Kind),
			PricePerHour: row.PricePerHour,
		})
	}

	var categories []categoryRow
	if err := db.Order("position").Find(&categories).Error; err != nil {
		return nil, err
	}
	var configurations []configurationRow
	if err := db.Order("category_id, position").Find(&configurations).Error; err != nil {
		return nil, err
	}
	var configResources []configurationResourceRow
	if err := db.Order("configuration_id, position").Find(&configResources).Error; err != nil {
		return nil, err
	}
	for _, row := range categories {
		cat := catalogdomain.Category{ID: row.ID, Name: row.Name, Description: row.Description, Workload: row.Workload}
		for _, cfgRow := range configurations {
			if cfgRow.CategoryID != row.ID {
				continue
			}
			cfg := &catalogdomain.Configuration{ID: cfgRow.ID, Name: cfgRow.Name, Description: cfgRow.Description}
			for _, rq := range configResources {
				if rq.ConfigurationID == cfgRow.ID {
					cfg.Resources = append(cfg.Resources, catalogdomain.ResourceQuantity{
						ResourceID: rq.ResourceID,
						Quantity:   rq.Quantity,
					})
				}
			}
			cat.Configurations = append(cat.Configurations, cfg)
		}
		snap.Categories = append(snap.Categories, cat)
	}

	var clients []clientRow
	if err := db.Order("position").Find(&clients).Error; err != nil {
		return nil, err
	}
	var instances []instanceRow
	if err := db.Order("client_nit, position").Find(&instances).Error; err != nil {
		return nil, err
	}
	for _, row := range clients {
		client := registrydomain.Client{
			NIT:           row.NIT,
			Name:          row.Name,
			Username:      row.Username,
			AccessKeyHash: row.AccessKeyHash,
			Address:       row.Address,
			Email:         row.Email,
		}
		for _, instRow := range instances {
			if instRow.ClientNIT != row.NIT {
				continue
			}
			client.Instances = append(client.Instances, &registrydomain.Instance{
				ID:              instRow.ID,
				ConfigurationID: instRow.ConfigurationID,
				Name:            instRow.Name,
				StartDate:       instRow.StartDate,
				State:           registrydomain.InstanceState(instRow.State),
				EndDate:         instRow.EndDate,
			})
		}
		snap.Clients = append(snap.Clients, client)
	}

	var records []consumptionRow
	if err := db.Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	for _, row := range records {
		snap.Records = append(snap.Records, ledgerdomain.Record{
			ID:         row.ID,
			ClientNIT:  row.ClientNIT,
			InstanceID: row.InstanceID,
			Hours:      row.Hours,
			RecordedAt: row.RecordedAt,
			Billed:     row.Billed,
		})
	}

	var invoices []invoiceRow
	if err := db.Order("position").Find(&invoices).Error; err != nil {
		return nil, err
	}
	var lines []invoiceLineRow
	if err := db.Order("invoice_number, position").Find(&lines).Error; err != nil {
		return nil, err
	}
	var charges []invoiceChargeRow
	if err := db.Order("invoice_number, line_position, position").Find(&charges).Error; err != nil {
		return nil, err
	}
	for _, row := range invoices {
		inv := invoicedomain.Invoice{Number: row.Number, ClientNIT: row.ClientNIT, IssuedAt: row.IssuedAt, Total: row.Total}
		for _, lineRow := range lines {
			if lineRow.InvoiceNumber != row.Number {
				continue
			}
			line := invoicedomain.LineItem{
				InstanceID:   lineRow.InstanceID,
				InstanceName: lineRow.InstanceName,
				Hours:        lineRow.Hours,
				Amount:       lineRow.Amount,
			}
			for _, chargeRow := range charges {
				if chargeRow.InvoiceNumber == row.Number && chargeRow.LinePosition == lineRow.Position {
					line.Resources = append(line.Resources, invoicedomain.ResourceCharge{
						ResourceID:   chargeRow.ResourceID,
						ResourceName: chargeRow.ResourceName,
						Quantity:     chargeRow.Quantity,
						PricePerHour: chargeRow.PricePerHour,
						Cost:         chargeRow.Cost,
					})
				}
			}
			inv.Lines = append(inv.Lines, line)
		}
		snap.Invoices = append(snap.Invoices, inv)
	}

	var counters []counterRow
	if err := db.Find(&counters).Error; err != nil {
		return nil, err
	}
	for _, row := range counters {
		switch row.Name {
		case counterInvoiceSeq:
			snap.NextInvoiceSeq = row.Value
		case counterConsumptionID:
			snap.NextConsumptionID = row.Value
		}
	}

	return snap, nil
}

// Module wires the database-backed persister.
var Module = fx.Module("storage",
	fx.Provide(New),
)
