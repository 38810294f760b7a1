package app

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hitoshi/botcatalog/internal/database"
)

const healthcheckTimeout = 5 * time.Second

// NewRootCommand はbotcatalogのコマンドツリーを構築する。
//
//	botcatalog [serve]            APIサーバーを起動する
//	botcatalog migrate [up]       未適用のマイグレーションを適用する
//	botcatalog migrate down -n N  直近N件のマイグレーションを戻す
//	botcatalog migrate version    現在のスキーマバージョンを表示する
//	botcatalog healthcheck        起動中のサーバーの/healthを確認する
func NewRootCommand(w io.Writer, v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "botcatalog",
		Short:         "Bot catalog landing page API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(w)

	root.PersistentFlags().String("port", "", "HTTP listen port (SERVER_PORT)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (LOG_LEVEL)")
	v.BindPFlag("server_port", root.PersistentFlags().Lookup("port"))
	v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := Init(w, v)
			if err != nil {
				return fmt.Errorf("initialization failed: %w", err)
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	root.RunE = serve.RunE

	root.AddCommand(serve, newMigrateCommand(w, v), newHealthcheckCommand(v))
	return root
}

func newMigrateCommand(w io.Writer, v *viper.Viper) *cobra.Command {
	up := func(cmd *cobra.Command, args []string) error {
		cfg, err := Init(w, v)
		if err != nil {
			return fmt.Errorf("initialization failed: %w", err)
		}
		slog.Info("running database migrations",
			slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
		)
		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		slog.Info("database migrations completed successfully")
		return nil
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE:  up,
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("steps must be at least 1, got %d", steps)
			}
			cfg, err := Init(w, v)
			if err != nil {
				return fmt.Errorf("initialization failed: %w", err)
			}
			slog.Info("rolling back database migrations", slog.Int("steps", steps))
			if err := database.RollbackMigrations(cfg.DatabaseURL, steps); err != nil {
				return fmt.Errorf("rollback failed: %w", err)
			}
			slog.Info("database rollback completed")
			return nil
		},
	}
	down.Flags().IntVarP(&steps, "steps", "n", 1, "number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := Init(w, v)
			if err != nil {
				return fmt.Errorf("initialization failed: %w", err)
			}
			ver, dirty, err := database.Version(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to read schema version: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", ver, dirty)
			return nil
		},
	}

	migrate.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending migrations", RunE: up},
		down,
		version,
	)
	return migrate
}

// newHealthcheckCommand はdistroless環境でのDockerヘルスチェック用サブコマンドを返す。
// 設定全体は読み込まず、ポートのみを使用する。
func newHealthcheckCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "healthcheck",
		Short: "Check the /health endpoint of a running server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealthcheck(fmt.Sprintf("http://localhost:%s/health", v.GetString("server_port")))
		},
	}
}

// runHealthcheck は/healthにHTTPリクエストを送り、200以外ならエラーを返す。
func runHealthcheck(url string) error {
	client := &http.Client{Timeout: healthcheckTimeout}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}
