package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/wadjakorntonsri/go-portfolio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-portfolio/pkg/config"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/analytics"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/go-portfolio/pkg/core/services"
	"github.com/wadjakorntonsri/go-portfolio/pkg/logging"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type cli struct {
	cfg    *config.Config
	logger *zap.Logger
	repo   *sqlite.SQLiteRepository
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:          "portfolio",
		Short:        "Maintenance commands for the portfolio database",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.cfg = config.Load()
			logger, err := logging.New(c.cfg)
			if err != nil {
				return err
			}
			c.logger = logger
			repo, err := sqlite.NewSQLiteRepository(c.cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to db: %w", err)
			}
			c.repo = repo
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			_ = c.logger.Sync()
			return c.repo.Close()
		},
	}
	root.AddCommand(c.exportCmd(), c.importCmd(), c.analyticsCmd())
	return root
}

func (c *cli) exportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Dump every record to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := c.repo.Dump(cmd.Context())
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			return encodeRecords(cmd.OutOrStdout(), format, records)
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load records from a JSON or YAML export, skipping ids that already exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer f.Close()

			records, err := decodeRecords(f, formatOf(file))
			if err != nil {
				return err
			}
			n, err := importRecords(cmd.Context(), c.repo, records, c.logger)
			if err != nil {
				return err
			}
			c.logger.Info("import finished", zap.Int("imported", n), zap.Int("total", len(records)))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "export file to import (.json, .yaml or .yml)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func (c *cli) analyticsCmd() *cobra.Command {
	var days int
	summary := &cobra.Command{
		Use:   "summary",
		Short: "Print the analytics summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := services.NewAnalyticsService(c.repo, c.logger)
			s := svc.Summary(cmd.Context(), analytics.LastDays(time.Now(), days))
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		},
	}
	summary.Flags().IntVar(&days, "days", 0, "only count the last N days (0 = all time)")

	cmd := &cobra.Command{Use: "analytics", Short: "Analytics reports"}
	cmd.AddCommand(summary)
	return cmd
}

func formatOf(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func encodeRecords(w io.Writer, format string, records []domain.StoredRecord) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(records)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func decodeRecords(r io.Reader, format string) ([]domain.StoredRecord, error) {
	var records []domain.StoredRecord
	var err error
	if format == "yaml" {
		err = yaml.NewDecoder(r).Decode(&records)
	} else {
		err = json.NewDecoder(r).Decode(&records)
	}
	if err != nil {
		return nil, fmt.Errorf("decode failed: %w", err)
	}
	return records, nil
}

type importStore interface {
	Get(ctx context.Context, collection, id string) (*domain.StoredRecord, error)
	Create(ctx context.Context, rec *domain.StoredRecord) error
}

// importRecords keeps ids so references between records survive the move.
func importRecords(ctx context.Context, repo importStore, records []domain.StoredRecord, logger *zap.Logger) (int, error) {
	count := 0
	for i := range records {
		rec := &records[i]
		if !domain.IsKnownCollection(rec.Collection) || rec.ID == "" {
			logger.Warn("skipping malformed record", zap.String("collection", rec.Collection), zap.String("id", rec.ID))
			continue
		}
		existing, err := repo.Get(ctx, rec.Collection, rec.ID)
		if err != nil {
			return count, fmt.Errorf("lookup %s/%s: %w", rec.Collection, rec.ID, err)
		}
		if existing != nil {
			logger.Info("skipping existing record", zap.String("collection", rec.Collection), zap.String("id", rec.ID))
			continue
		}
		if rec.Created.IsZero() {
			rec.Created = time.Now().UTC()
		}
		if rec.Updated.IsZero() {
			rec.Updated = rec.Created
		}
		if rec.Data == nil {
			rec.Data = domain.Record{}
		}
		if err := repo.Create(ctx, rec); err != nil {
			logger.Warn("failed to import record", zap.String("id", rec.ID), zap.Error(err))
			continue
		}
		count++
	}
	return count, nil
}
