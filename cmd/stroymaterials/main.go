package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fekuna/stroymaterials/config"
	"github.com/fekuna/stroymaterials/internal/analytics"
	"github.com/fekuna/stroymaterials/internal/auth"
	"github.com/fekuna/stroymaterials/internal/cli"
	"github.com/fekuna/stroymaterials/internal/database"
	"github.com/fekuna/stroymaterials/internal/export"
	"github.com/fekuna/stroymaterials/internal/logger"
	"github.com/fekuna/stroymaterials/internal/seed"

	delH "github.com/fekuna/stroymaterials/internal/delivery/handler"
	delRepoPkg "github.com/fekuna/stroymaterials/internal/delivery/repository"
	delUCPkg "github.com/fekuna/stroymaterials/internal/delivery/usecase"

	matH "github.com/fekuna/stroymaterials/internal/material/handler"
	matRepoPkg "github.com/fekuna/stroymaterials/internal/material/repository"
	matUCPkg "github.com/fekuna/stroymaterials/internal/material/usecase"

	supH "github.com/fekuna/stroymaterials/internal/supplier/handler"
	supRepoPkg "github.com/fekuna/stroymaterials/internal/supplier/repository"
	supUCPkg "github.com/fekuna/stroymaterials/internal/supplier/usecase"

	userH "github.com/fekuna/stroymaterials/internal/user/handler"
	userRepoPkg "github.com/fekuna/stroymaterials/internal/user/repository"
	userUCPkg "github.com/fekuna/stroymaterials/internal/user/usecase"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	// 1. Load Configuration
	_ = godotenv.Load()
	cfg := config.LoadEnv()

	fs := flag.NewFlagSet("stroymaterials", flag.ContinueOnError)
	fs.SetOutput(stderr)
	username := fs.String("user", cfg.Auth.Username, "sign in as this user")
	password := fs.String("password", cfg.Auth.Password, "password for -user")
	dbPath := fs.String("db", cfg.Database.Path, "sqlite database file")
	fs.Usage = func() { usage(fs, stderr) }
	if err := fs.Parse(args); err != nil {
		return cli.ExitUsage
	}
	cfg.Database.Path = *dbPath

	// 2. Initialize Logger
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     cfg.Server.AppEnv == "development",
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	appLogger := logger.NewZapLogger(logConfig)
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open Store
	db, err := database.Open(ctx, &database.Config{
		Driver:          cfg.Database.Driver,
		Path:            cfg.Database.Path,
		Host:            cfg.Database.Postgres.Host,
		Port:            cfg.Database.Postgres.Port,
		User:            cfg.Database.Postgres.User,
		Password:        cfg.Database.Postgres.Password,
		DBName:          cfg.Database.Postgres.DBName,
		SSLMode:         cfg.Database.Postgres.SSLMode,
		MaxOpenConns:    cfg.Database.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Database.Postgres.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.Postgres.ConnMaxLifetime) * time.Second,
		ConnMaxIdleTime: time.Duration(cfg.Database.Postgres.ConnMaxIdleTime) * time.Second,
	})
	if err != nil {
		appLogger.Error("could not open database", zap.String("driver", cfg.Database.Driver), zap.Error(err))
		fmt.Fprintln(stderr, "error:", err)
		return cli.ExitFailure
	}
	defer db.Close()
	appLogger.Debug("database opened", zap.String("driver", db.Dialect.Driver), zap.String("path", db.Path()))

	// 4. Initialize Repositories
	matRepo := matRepoPkg.NewSQLRepository(db)
	supRepo := supRepoPkg.NewSQLRepository(db)
	delRepo := delRepoPkg.NewSQLRepository(db)
	userRepo := userRepoPkg.NewSQLRepository(db)

	// 5. Initialize UseCases
	matUC := matUCPkg.NewMaterialUseCase(matRepo, db.Hub, appLogger)
	supUC := supUCPkg.NewSupplierUseCase(supRepo, db.Hub, appLogger)
	delUC := delUCPkg.NewDeliveryUseCase(delRepo, db.Hub, appLogger)
	userUC := userUCPkg.NewUserUseCase(userRepo, db.Hub, appLogger)

	a := &app{
		out:        stdout,
		in:         stdin,
		logger:     appLogger,
		grace:      cfg.Live.GracePeriod,
		session:    auth.NewSession(userUC),
		users:      userUC,
		seeder:     seed.NewSeeder(matRepo, supRepo, delRepo, userUC, appLogger),
		analytics:  analytics.NewService(matUC, supUC, delUC, appLogger),
		exporter:   export.NewService(matUC, supUC, delUC, db, cfg.Export.Dir, appLogger),
		materialUC: matUC,
		supplierUC: supUC,
		deliveryUC: delUC,

		// 6. Initialize Handlers
		materials:  matH.NewMaterialHandler(matUC, stdout, appLogger),
		suppliers:  supH.NewSupplierHandler(supUC, stdout, appLogger),
		deliveries: delH.NewDeliveryHandler(delUC, stdout, appLogger),
		accounts:   userH.NewUserHandler(userUC, stdout, appLogger),
	}

	// 7. Sign In and Run
	err = a.signIn(ctx, *username, *password)
	if err == nil {
		err = a.dispatch(ctx, fs.Args())
	}
	if err != nil {
		if cli.ExitCode(err) == cli.ExitFailure {
			appLogger.Error("command failed", zap.Strings("args", fs.Args()), zap.Error(err))
		}
		fmt.Fprintln(stderr, "error:", err)
		if cli.ExitCode(err) == cli.ExitUsage {
			usage(fs, stderr)
		}
	}
	return cli.ExitCode(err)
}

func usage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "usage: stroymaterials [-user U -password P] [-db FILE] <command> [args]")
	fmt.Fprintln(w, "\ncommands:")
	tw := cli.NewTable(w)
	for _, c := range (&app{}).commands() {
		fmt.Fprintf(tw, "  %s\t%s\n", c.Name, c.Usage)
	}
	tw.Flush()
	fmt.Fprintln(w, "\nflags:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
