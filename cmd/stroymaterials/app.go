package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fekuna/stroymaterials/internal/analytics"
	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/fekuna/stroymaterials/internal/auth"
	"github.com/fekuna/stroymaterials/internal/cli"
	"github.com/fekuna/stroymaterials/internal/delivery"
	"github.com/fekuna/stroymaterials/internal/export"
	"github.com/fekuna/stroymaterials/internal/logger"
	"github.com/fekuna/stroymaterials/internal/material"
	"github.com/fekuna/stroymaterials/internal/model"
	"github.com/fekuna/stroymaterials/internal/seed"
	"github.com/fekuna/stroymaterials/internal/supplier"
	"github.com/fekuna/stroymaterials/internal/user"
	"github.com/fekuna/stroymaterials/internal/viewstate"
	"go.uber.org/zap"

	delH "github.com/fekuna/stroymaterials/internal/delivery/handler"
	matH "github.com/fekuna/stroymaterials/internal/material/handler"
	supH "github.com/fekuna/stroymaterials/internal/supplier/handler"
	userH "github.com/fekuna/stroymaterials/internal/user/handler"
)

type app struct {
	out    io.Writer
	in     io.Reader
	logger logger.ZapLogger
	grace  time.Duration

	session    *auth.Session
	users      user.UseCase
	seeder     *seed.Seeder
	analytics  *analytics.Service
	exporter   *export.Service
	materialUC material.UseCase
	supplierUC supplier.UseCase
	deliveryUC delivery.UseCase

	materials  *matH.MaterialHandler
	suppliers  *supH.SupplierHandler
	deliveries *delH.DeliveryHandler
	accounts   *userH.UserHandler
}

func (a *app) commands() []cli.Command {
	return []cli.Command{
		{Name: "init-users", Usage: "create the admin and guest accounts, reset the admin password", Run: a.initUsers},
		{Name: "seed", Usage: "replace all data with the demo set (admin, or an empty user table)", Run: a.seed},
		{Name: "login", Usage: "check the -user/-password credentials", Run: a.login},
		{Name: "materials", Usage: "list|types|show|create|update|delete|adjust|stats", Run: a.signedIn(a.runMaterials)},
		{Name: "suppliers", Usage: "list|show|create|update|toggle|delete|stats", Run: a.signedIn(a.runSuppliers)},
		{Name: "deliveries", Usage: "list|show|create|update|status|delete|stats", Run: a.signedIn(a.runDeliveries)},
		{Name: "users", Usage: "list|create|passwd|enable|disable|delete (admin)", Run: a.runUsers},
		{Name: "stats", Usage: "dashboard totals", Run: a.signedIn(a.stats)},
		{Name: "export", Usage: "[-format csv|xlsx] write all tables to the export directory", Run: a.signedIn(a.export)},
		{Name: "backup", Usage: "copy the database into the export directory (admin)", Run: a.backup},
		{Name: "watch", Usage: "materials|suppliers|deliveries; stdin lines change the search", Run: a.signedIn(a.watch)},
	}
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	return cli.Dispatch(ctx, "stroymaterials", a.commands(), args)
}

// signIn authenticates once per process. Without a username the session
// stays empty and only bootstrap commands are available.
func (a *app) signIn(ctx context.Context, username, password string) error {
	if username == "" {
		return nil
	}
	ok, err := a.session.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if !ok {
		a.logger.Warn("sign in rejected", zap.String("username", username))
		return fmt.Errorf("%w: invalid username or password", apperr.ErrUnauthenticated)
	}
	a.logger.Debug("signed in", zap.String("username", username), zap.String("role", a.session.Current().Role))
	return nil
}

func (a *app) signedIn(fn func(context.Context, []string) error) func(context.Context, []string) error {
	return func(ctx context.Context, args []string) error {
		ctx = a.session.Context(ctx)
		if _, err := auth.RequireUser(ctx); err != nil {
			return err
		}
		return fn(ctx, args)
	}
}

func (a *app) runMaterials(ctx context.Context, args []string) error {
	return a.materials.Run(ctx, args)
}

func (a *app) runSuppliers(ctx context.Context, args []string) error {
	return a.suppliers.Run(ctx, args)
}

func (a *app) runDeliveries(ctx context.Context, args []string) error {
	return a.deliveries.Run(ctx, args)
}

func (a *app) runUsers(ctx context.Context, args []string) error {
	return a.accounts.Run(a.session.Context(ctx), args)
}

func (a *app) initUsers(ctx context.Context, args []string) error {
	if err := a.seeder.InitializeUsers(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "default users ready")
	return nil
}

// seed is allowed without signing in only while no accounts exist.
func (a *app) seed(ctx context.Context, args []string) error {
	n, err := a.users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		if err := auth.RequireAdmin(a.session.Context(ctx)); err != nil {
			return err
		}
	}
	if err := a.seeder.Reseed(ctx, time.Now()); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "demo data loaded")
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	u, err := auth.RequireUser(a.session.Context(ctx))
	if err != nil {
		return err
	}
	role := "гость"
	if u.IsAdmin() {
		role = "администратор"
	}
	fmt.Fprintf(a.out, "signed in as %s (%s)\n", u.Username, role)
	return nil
}

func (a *app) stats(ctx context.Context, args []string) error {
	s, err := a.analytics.Snapshot(ctx)
	if err != nil {
		return err
	}
	tw := cli.NewTable(a.out)
	fmt.Fprintf(tw, "Материалов\t%d\n", s.MaterialCount)
	fmt.Fprintf(tw, "Поставщиков\t%d\n", s.SupplierCount)
	fmt.Fprintf(tw, "Поставок\t%d\n", s.DeliveryCount)
	fmt.Fprintf(tw, "Стоимость запасов\t%s\n", cli.Number(s.TotalInventoryValue))
	fmt.Fprintf(tw, "Ожидается поставок\t%d\n", s.PendingDeliveries)
	fmt.Fprintf(tw, "Доставлено\t%d\n", s.DeliveredDeliveries)
	fmt.Fprintf(tw, "Затраты за месяц\t%s\n", cli.Number(s.CostThisMonth))
	return tw.Flush()
}

func (a *app) export(ctx context.Context, args []string) error {
	fs := cli.NewFlagSet("export")
	format := fs.String("format", "csv", "csv or xlsx")
	if err := cli.Parse(fs, args); err != nil {
		return err
	}

	var (
		path string
		err  error
	)
	switch *format {
	case "csv":
		path, err = a.exporter.ExportCSV(ctx)
	case "xlsx":
		path, err = a.exporter.ExportXLSX(ctx)
	default:
		return cli.Usagef("export: unknown format %q", *format)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, path)
	return nil
}

func (a *app) backup(ctx context.Context, args []string) error {
	if err := auth.RequireAdmin(a.session.Context(ctx)); err != nil {
		return err
	}
	path, err := a.exporter.Backup(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, path)
	return nil
}

// watch renders a live list until interrupted. Each stdin line becomes the
// new search term; for deliveries "status:<s>" filters by status instead.
func (a *app) watch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return cli.Usagef("watch: expected materials, suppliers or deliveries")
	}
	opts := []viewstate.Option{viewstate.WithGracePeriod(a.grace), viewstate.WithLogger(a.logger)}

	switch args[0] {
	case "materials":
		l := viewstate.NewSearchList[model.Material](a.materialUC, opts...)
		defer l.Close()
		return watchList(ctx, a, l.List, l.Search, a.materials.PrintTable)
	case "suppliers":
		l := viewstate.NewSearchList[model.Supplier](a.supplierUC, opts...)
		defer l.Close()
		return watchList(ctx, a, l.List, l.Search, a.suppliers.PrintTable)
	case "deliveries":
		l := viewstate.NewDeliveryList(a.deliveryUC, opts...)
		defer l.Close()
		return watchList(ctx, a, l.List, func(line string) {
			if s, ok := strings.CutPrefix(line, "status:"); ok {
				l.SetStatus(model.DeliveryStatus(strings.TrimSpace(s)))
				return
			}
			l.Search(line)
		}, a.deliveries.PrintTable)
	}
	return cli.Usagef("watch: unknown list %q", args[0])
}

func watchList[K comparable, T any](ctx context.Context, a *app, l *viewstate.List[K, T], input func(string), render func([]T)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sc := bufio.NewScanner(a.in)
		for sc.Scan() {
			input(sc.Text())
		}
	}()

	for snap := range l.Observe(ctx) {
		if snap.Err != nil {
			a.logger.Error("live list failed", zap.Error(snap.Err))
			return snap.Err
		}
		if !snap.Loaded {
			continue
		}
		fmt.Fprintf(a.out, "--- %s  %v  (%d)\n", time.Now().Format("15:04:05"), snap.Key, len(snap.Items))
		render(snap.Items)
	}
	return nil
}
