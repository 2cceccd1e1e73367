package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fekuna/stroymaterials/internal/logger"
	"go.uber.org/zap"
)

const timestampLayout = "20060102_150405"

func CSVFileName(t time.Time) string {
	return "stroymaterials_export_" + t.Format(timestampLayout) + ".csv"
}

func XLSXFileName(t time.Time) string {
	return "stroymaterials_export_" + t.Format(timestampLayout) + ".xlsx"
}

func BackupFileName(t time.Time) string {
	return "stroymaterials_backup_" + t.Format(timestampLayout) + ".db"
}

// Backuper writes a consistent copy of the store to a file.
type Backuper interface {
	Backup(ctx context.Context, dst string) error
}

type Service struct {
	materials  MaterialSource
	suppliers  SupplierSource
	deliveries DeliverySource
	store      Backuper
	dir        string
	loc        *time.Location
	logger     logger.ZapLogger
	now        func() time.Time
}

func NewService(m MaterialSource, s SupplierSource, d DeliverySource, store Backuper, dir string, log logger.ZapLogger) *Service {
	return &Service{
		materials:  m,
		suppliers:  s,
		deliveries: d,
		store:      store,
		dir:        dir,
		loc:        time.Local,
		logger:     log,
		now:        time.Now,
	}
}

// ExportCSV writes the full inventory to a new timestamped CSV file in the
// export directory and returns its path.
func (s *Service) ExportCSV(ctx context.Context) (string, error) {
	return s.export(ctx, CSVFileName(s.now()), WriteCSV)
}

func (s *Service) ExportXLSX(ctx context.Context) (string, error) {
	return s.export(ctx, XLSXFileName(s.now()), WriteXLSX)
}

func (s *Service) export(ctx context.Context, name string, write func(io.Writer, *Data, *time.Location) error) (string, error) {
	data, err := Load(ctx, s.materials, s.suppliers, s.deliveries)
	if err != nil {
		s.logger.Error("failed to load export data", zap.Error(err))
		return "", err
	}

	path, err := s.create(name, func(f *os.File) error { return write(f, data, s.loc) })
	if err != nil {
		s.logger.Error("failed to write export", zap.String("path", path), zap.Error(err))
		return "", err
	}

	s.logger.Info("export written",
		zap.String("path", path),
		zap.Int("materials", len(data.Materials)),
		zap.Int("suppliers", len(data.Suppliers)),
		zap.Int("deliveries", len(data.Deliveries)),
	)
	return path, nil
}

// create writes into a temporary file and renames it into place, so a
// failed write never leaves a partial export behind.
func (s *Service) create(name string, write func(*os.File) error) (string, error) {
	path := filepath.Join(s.dir, name)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return path, fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return path, err
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return path, err
	}
	if err := tmp.Close(); err != nil {
		return path, err
	}
	return path, os.Rename(tmp.Name(), path)
}

// Backup copies the database into a new timestamped file in the export
// directory and returns its path.
func (s *Service) Backup(ctx context.Context) (string, error) {
	path := filepath.Join(s.dir, BackupFileName(s.now()))
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}
	if err := s.store.Backup(ctx, path); err != nil {
		s.logger.Error("failed to back up database", zap.String("path", path), zap.Error(err))
		return "", err
	}
	s.logger.Info("backup written", zap.String("path", path))
	return path, nil
}
