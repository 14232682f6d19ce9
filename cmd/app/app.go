package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zumnet/numeros-sorte/internal/api"
	"github.com/zumnet/numeros-sorte/internal/api/handler/v1/request"
	"github.com/zumnet/numeros-sorte/internal/config"
	"github.com/zumnet/numeros-sorte/internal/db"
	"github.com/zumnet/numeros-sorte/internal/domain"
	"github.com/zumnet/numeros-sorte/internal/logger"
	"github.com/zumnet/numeros-sorte/internal/pkg/luckynumber"
	"github.com/zumnet/numeros-sorte/internal/repository/dao"
	"github.com/zumnet/numeros-sorte/internal/service"
)

const (
	defaultConfigPath = "./cmd/app/config.yml"
	shutdownTimeout   = 10 * time.Second
)

func Start() error {
	return newRootCmd().ExecuteContext(context.Background())
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "numeros-sorte",
		Short:        "Lucky numbers campaign API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path of the yaml config file")

	root.AddCommand(serveCmd(&configPath))
	root.AddCommand(migrateCmd(&configPath))
	root.AddCommand(gerarCmd(&configPath))

	return root
}

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default command)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *configPath)
		},
	}
}

func migrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, database, err := bootstrap(*configPath)
			if err != nil {
				return err
			}

			if err = dao.InitTables(database); err != nil {
				return fmt.Errorf("failed to migrate tables -> %w", err)
			}

			zap.L().Info("tables migrated")

			return nil
		},
	}
}

func gerarCmd(configPath *string) *cobra.Command {
	var (
		documento  string
		quantidade int
		obs        string
	)

	cmd := &cobra.Command{
		Use:   "gerar",
		Short: "Issue lucky numbers to a participant from the command line",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, database, err := bootstrap(*configPath)
			if err != nil {
				return err
			}

			if err = dao.InitTables(database); err != nil {
				return fmt.Errorf("failed to migrate tables -> %w", err)
			}

			svc := api.NewNumberService(conf.Campaign, database, service.NewMetrics(prometheus.NewRegistry()))
			alloc, err := svc.Generate(cmd.Context(), service.GenerateRequest{
				Documento: request.NormalizeDocumento(documento),
				Quantity:  quantidade,
				Obs:       obs,
			})
			if err != nil {
				return fmt.Errorf("failed to issue numbers -> %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "lote %s: %s\n", alloc.Lote, strings.Join(luckynumber.FormatAll(alloc.Numbers), " "))

			return nil
		},
	}

	cmd.Flags().StringVarP(&documento, "documento", "d", "", "participant CPF or CNPJ")
	cmd.Flags().IntVarP(&quantidade, "quantidade", "q", 1, "amount of numbers to issue")
	cmd.Flags().StringVar(&obs, "obs", domain.ObsManualIssue, "observation stored with every number")
	_ = cmd.MarkFlagRequired("documento")

	return cmd
}

func bootstrap(configPath string) (*config.AppConfig, *gorm.DB, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger -> %w", err)
	}

	database, err := db.Open(conf, os.Getenv("DATABASE_URL"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database -> %w", err)
	}

	return conf, database, nil
}

func serve(ctx context.Context, configPath string) error {
	conf, database, err := bootstrap(configPath)
	if err != nil {
		return err
	}

	if err = dao.InitTables(database); err != nil {
		return fmt.Errorf("failed to migrate tables -> %w", err)
	}

	s := api.NewServer(conf, database)

	monitor, err := service.NewCapacityMonitor(s.Campaign, s.Metrics,
		conf.Campaign.CapacityCheckInterval, conf.Campaign.CapacityWarnRatio)
	if err != nil {
		return fmt.Errorf("failed to initialize capacity monitor -> %w", err)
	}
	monitor.Start()
	defer func() {
		if err := monitor.Stop(); err != nil {
			zap.L().Warn("capacity monitor did not stop cleanly", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := ":" + s.Config.API.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err = <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server -> %w", err)
	}

	return nil
}
