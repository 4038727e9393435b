package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"cutine-backend/config"
)

// Backend is the slot chosen by configuration plus the bus that carries its
// change notifications.
type Backend struct {
	Slot    *Broadcast
	Bus     Bus
	closers []func() error
}

// Open builds the slot driver and bus named in cfg. The returned slot
// already publishes its writes on the bus.
func Open(ctx context.Context, cfg config.StorageConfig, log *config.Logger) (*Backend, error) {
	if log == nil {
		log = config.NopLogger()
	}
	b := &Backend{}

	slot, err := b.openSlot(ctx, cfg)
	if err != nil {
		_ = b.Close()
		return nil, err
	}

	switch cfg.BusDriver {
	case "", "memory":
		b.Bus = NewMemoryBus()
	case "none":
		b.Bus = NopBus{}
	case "redis":
		rb, err := NewRedisBus(ctx, log, cfg.RedisAddr, cfg.RedisChannel)
		if err != nil {
			_ = b.Close()
			return nil, err
		}
		b.Bus = rb
	default:
		_ = b.Close()
		return nil, fmt.Errorf("unknown bus driver %q", cfg.BusDriver)
	}
	b.closers = append(b.closers, b.Bus.Close)

	if err := checkSharing(cfg, slot); err != nil {
		_ = b.Close()
		return nil, err
	}

	b.Slot = NewBroadcast(slot, b.Bus)
	log.Info("storage opened", "driver", string(slot.Driver()), "bus", cfg.BusDriver)
	return b, nil
}

// checkSharing refuses a shared slot that cannot report other instances'
// writes: sqlite, postgres and s3 need the redis bus unless the deployment
// declares a single instance.
func checkSharing(cfg config.StorageConfig, slot Slot) error {
	if cfg.BusDriver == "redis" || cfg.SingleInstance || slot.Driver() == DriverMemory {
		return nil
	}
	if _, ok := slot.(Watcher); ok {
		return nil
	}
	return fmt.Errorf("storage driver %q cannot see other instances' writes without BUS_DRIVER=redis; set STORAGE_SINGLE_INSTANCE=true to run alone", slot.Driver())
}

func (b *Backend) openSlot(ctx context.Context, cfg config.StorageConfig) (Slot, error) {
	switch Driver(cfg.Driver) {
	case DriverMemory:
		return NewMemorySlot(), nil
	case "", DriverFS:
		return NewFSSlot(cfg.FSRoot)
	case DriverSQLite:
		db, err := config.OpenDB("sqlite", cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		b.closeDB(db)
		return NewSQLSlot(db, DriverSQLite)
	case DriverPostgres:
		db, err := config.OpenDB("postgres", cfg.DBURL)
		if err != nil {
			return nil, err
		}
		b.closeDB(db)
		return NewSQLSlot(db, DriverPostgres)
	case DriverS3:
		return NewS3Slot(ctx, S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

func (b *Backend) closeDB(db *gorm.DB) {
	b.closers = append(b.closers, func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	})
}

// Close releases the bus and any database handle, in reverse order.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
