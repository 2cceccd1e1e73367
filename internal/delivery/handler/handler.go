package handler

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/fekuna/stroymaterials/internal/auth"
	"github.com/fekuna/stroymaterials/internal/cli"
	"github.com/fekuna/stroymaterials/internal/delivery"
	"github.com/fekuna/stroymaterials/internal/delivery/dto"
	"github.com/fekuna/stroymaterials/internal/logger"
	"github.com/fekuna/stroymaterials/internal/model"
	"github.com/fekuna/stroymaterials/internal/validate"
	"go.uber.org/zap"
)

type DeliveryHandler struct {
	uc     delivery.UseCase
	out    io.Writer
	logger logger.ZapLogger
}

func NewDeliveryHandler(uc delivery.UseCase, out io.Writer, log logger.ZapLogger) *DeliveryHandler {
	return &DeliveryHandler{
		uc:     uc,
		out:    out,
		logger: log,
	}
}

func (h *DeliveryHandler) Commands() []cli.Command {
	return []cli.Command{
		{Name: "list", Usage: "[-q term] [-status S] [-pending] [-delivered] [-material ID] [-supplier ID] [-from D -to D]", Run: h.List},
		{Name: "show", Usage: "ID", Run: h.Show},
		{Name: "create", Usage: "-material ID -supplier ID -qty Q -invoice N -date dd.mm.yyyy -expected dd.mm.yyyy [-cost C] [-status S]", Run: h.Create},
		{Name: "update", Usage: "ID [same flags as create]", Run: h.Update},
		{Name: "status", Usage: "ID -set pending|in_transit|delivered|cancelled", Run: h.SetStatus},
		{Name: "delete", Usage: "ID", Run: h.Delete},
		{Name: "stats", Usage: "pending, delivered, total, cost this month", Run: h.Stats},
	}
}

func (h *DeliveryHandler) Run(ctx context.Context, args []string) error {
	return cli.Dispatch(ctx, "deliveries", h.Commands(), args)
}

func (h *DeliveryHandler) List(ctx context.Context, args []string) error {
	fs := cli.NewFlagSet("deliveries list")
	term := fs.String("q", "", "search invoice number, status and notes")
	status := fs.String("status", "", "exact status, ordered by expected date")
	pending := fs.Bool("pending", false, "only pending deliveries")
	delivered := fs.Bool("delivered", false, "only delivered deliveries")
	materialID := fs.Int64("material", 0, "deliveries of one material")
	supplierID := fs.Int64("supplier", 0, "deliveries from one supplier")
	from := fs.String("from", "", "delivery date from, dd.mm.yyyy")
	to := fs.String("to", "", "delivery date to, dd.mm.yyyy, inclusive")
	if err := cli.Parse(fs, args); err != nil {
		return err
	}

	q := h.uc.WatchAll()
	switch {
	case *term != "":
		q = h.uc.WatchSearch(*term)
	case *status != "":
		q = h.uc.WatchByStatus(model.DeliveryStatus(*status))
	case *pending:
		q = h.uc.WatchPending()
	case *delivered:
		q = h.uc.WatchDelivered()
	case *materialID > 0:
		q = h.uc.WatchByMaterial(*materialID)
	case *supplierID > 0:
		q = h.uc.WatchBySupplier(*supplierID)
	case *from != "" || *to != "":
		lo, hi, err := dateRange(*from, *to)
		if err != nil {
			return err
		}
		q = h.uc.WatchByDateRange(lo, hi)
	}

	items, err := q.Get(ctx)
	if err != nil {
		h.logger.Error("failed to list deliveries", zap.Error(err))
		return err
	}
	h.PrintTable(items)
	return nil
}

// dateRange turns two calendar days into an inclusive instant range. A
// missing bound is open.
func dateRange(from, to string) (time.Time, time.Time, error) {
	lo := time.Unix(0, 0)
	hi := time.Date(9999, 12, 31, 0, 0, 0, 0, time.Local)
	var err error
	if from != "" {
		if lo, err = cli.ParseDate(from); err != nil {
			return lo, hi, cli.Usagef("-from: %v", err)
		}
	}
	if to != "" {
		if hi, err = cli.ParseDate(to); err != nil {
			return lo, hi, cli.Usagef("-to: %v", err)
		}
	}
	return lo, hi.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
}

func (h *DeliveryHandler) Show(ctx context.Context, args []string) error {
	fs := cli.NewFlagSet("deliveries show")
	if err := cli.Parse(fs, args); err != nil {
		return err
	}
	id, err := cli.ArgID(fs)
	if err != nil {
		return err
	}

	d, err := h.uc.GetDelivery(ctx, id)
	if err != nil {
		return err
	}
	if d == nil {
		return apperr.NotFound("delivery", id)
	}

	tw := cli.NewTable(h.out)
	fmt.Fprintf(tw, "ID\t%d\n", d.ID)
	fmt.Fprintf(tw, "Накладная\t%s\n", d.InvoiceNumber)
	fmt.Fprintf(tw, "Материал ID\t%d\n", d.MaterialID)
	fmt.Fprintf(tw, "Поставщик ID\t%d\n", d.SupplierID)
	fmt.Fprintf(tw, "Количество\t%s\n", cli.Number(d.Quantity))
	fmt.Fprintf(tw, "Статус\t%s\n", d.Status.Label())
	fmt.Fprintf(tw, "Дата доставки\t%s\n", d.DeliveryDate.Local().Format(cli.DateLayout))
	fmt.Fprintf(tw, "Ожидаемая дата\t%s\n", d.ExpectedDate.Local().Format(cli.DateLayout))
	fmt.Fprintf(tw, "Стоимость\t%s\n", cli.Number(d.TotalCost))
	fmt.Fprintf(tw, "Примечания\t%s\n", cli.Opt(d.Notes))
	return tw.Flush()
}

type deliveryFlags struct {
	material, supplier     *int64
	qty, cost              *string
	date, expected         *string
	status, invoice, notes *string
}

func bindDeliveryFlags(fs *flag.FlagSet) *deliveryFlags {
	return &deliveryFlags{
		material: fs.Int64("material", 0, "material id"),
		supplier: fs.Int64("supplier", 0, "supplier id"),
		qty:      fs.String("qty", "", "delivered quantity"),
		cost:     fs.String("cost", "0", "total cost"),
		date:     fs.String("date", "", "delivery date, dd.mm.yyyy"),
		expected: fs.String("expected", "", "expected date, dd.mm.yyyy"),
		status:   fs.String("status", "", "pending, in_transit, delivered or cancelled"),
		invoice:  fs.String("invoice", "", "invoice number"),
		notes:    fs.String("notes", "", "notes"),
	}
}

func parseDay(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := cli.ParseDate(s)
	if err != nil {
		return t, apperr.NewValidation(map[string]string{field: "expected dd.mm.yyyy"})
	}
	return t, nil
}

func (h *DeliveryHandler) Create(ctx context.Context, args []string) error {
	if err := auth.RequireAdmin(ctx); err != nil {
		return err
	}

	fs := cli.NewFlagSet("deliveries create")
	f := bindDeliveryFlags(fs)
	if err := cli.Parse(fs, args); err != nil {
		return err
	}

	qty, err := validate.ParseQuantity(*f.qty)
	if err != nil {
		return err
	}
	cost, err := validate.ParsePrice(*f.cost)
	if err != nil {
		return err
	}
	deliveredOn, err := parseDay("DeliveryDate", *f.date)
	if err != nil {
		return err
	}
	expectedOn, err := parseDay("ExpectedDate", *f.expected)
	if err != nil {
		return err
	}

	d, err := h.uc.CreateDelivery(ctx, &dto.CreateDeliveryInput{
		MaterialID:    *f.material,
		SupplierID:    *f.supplier,
		Quantity:      qty,
		DeliveryDate:  deliveredOn,
		ExpectedDate:  expectedOn,
		Status:        *f.status,
		InvoiceNumber: *f.invoice,
		TotalCost:     cost,
		Notes:         *f.notes,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(h.out, "created delivery %d\n", d.ID)
	return nil
}

// Update starts from the stored row and applies only the flags given.
func (h *DeliveryHandler) Update(ctx context.Context, args []string) error {
	if err := auth.RequireAdmin(ctx); err != nil {
		return err
	}

	fs := cli.NewFlagSet("deliveries update")
	f := bindDeliveryFlags(fs)
	if err := cli.Parse(fs, args); err != nil {
		return err
	}
	id, err := cli.ArgID(fs)
	if err != nil {
		return err
	}

	d, err := h.uc.GetDelivery(ctx, id)
	if err != nil {
		return err
	}
	if d == nil {
		return apperr.NotFound("delivery", id)
	}

	input := &dto.UpdateDeliveryInput{
		ID:            d.ID,
		MaterialID:    d.MaterialID,
		SupplierID:    d.SupplierID,
		Quantity:      d.Quantity,
		DeliveryDate:  d.DeliveryDate,
		ExpectedDate:  d.ExpectedDate,
		Status:        string(d.Status),
		InvoiceNumber: d.InvoiceNumber,
		TotalCost:     d.TotalCost,
	}
	if d.Notes != nil {
		input.Notes = *d.Notes
	}

	var parseErr error
	fs.Visit(func(fl *flag.Flag) {
		if parseErr != nil {
			return
		}
		switch fl.Name {
		case "material":
			input.MaterialID = *f.material
		case "supplier":
			input.SupplierID = *f.supplier
		case "qty":
			input.Quantity, parseErr = validate.ParseQuantity(*f.qty)
		case "cost":
			input.TotalCost, parseErr = validate.ParsePrice(*f.cost)
		case "date":
			input.DeliveryDate, parseErr = parseDay("DeliveryDate", *f.date)
		case "expected":
			input.ExpectedDate, parseErr = parseDay("ExpectedDate", *f.expected)
		case "status":
			input.Status = *f.status
		case "invoice":
			input.InvoiceNumber = *f.invoice
		case "notes":
			input.Notes = *f.notes
		}
	})
	if parseErr != nil {
		return parseErr
	}

	if _, err := h.uc.UpdateDelivery(ctx, input); err != nil {
		return err
	}
	fmt.Fprintf(h.out, "updated delivery %d\n", id)
	return nil
}

func (h *DeliveryHandler) SetStatus(ctx context.Context, args []string) error {
	if err := auth.RequireAdmin(ctx); err != nil {
		return err
	}

	fs := cli.NewFlagSet("deliveries status")
	set := fs.String("set", "", "new status")
	if err := cli.Parse(fs, args); err != nil {
		return err
	}
	id, err := cli.ArgID(fs)
	if err != nil {
		return err
	}

	status := model.DeliveryStatus(*set)
	if err := h.uc.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	fmt.Fprintf(h.out, "delivery %d: %s\n", id, status.Label())
	return nil
}

func (h *DeliveryHandler) Delete(ctx context.Context, args []string) error {
	if err := auth.RequireAdmin(ctx); err != nil {
		return err
	}

	fs := cli.NewFlagSet("deliveries delete")
	if err := cli.Parse(fs, args); err != nil {
		return err
	}
	id, err := cli.ArgID(fs)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteDelivery(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(h.out, "deleted delivery %d\n", id)
	return nil
}

func (h *DeliveryHandler) Stats(ctx context.Context, args []string) error {
	s, err := h.uc.Statistics(ctx)
	if err != nil {
		return err
	}
	tw := cli.NewTable(h.out)
	fmt.Fprintf(tw, "Ожидается\t%d\n", s.PendingCount)
	fmt.Fprintf(tw, "Доставлено\t%d\n", s.DeliveredCount)
	fmt.Fprintf(tw, "Всего\t%d\n", s.TotalCount)
	fmt.Fprintf(tw, "Затраты за месяц\t%s\n", cli.Number(s.TotalCostThisMonth))
	return tw.Flush()
}

// PrintTable renders deliveries in list order.
func (h *DeliveryHandler) PrintTable(items []model.Delivery) {
	tw := cli.NewTable(h.out)
	fmt.Fprintln(tw, "ID\tНАКЛАДНАЯ\tМАТЕРИАЛ\tПОСТАВЩИК\tКОЛ-ВО\tСТАТУС\tДАТА\tОЖИДАЕТСЯ\tСТОИМОСТЬ")
	for _, d := range items {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.InvoiceNumber, d.MaterialID, d.SupplierID, cli.Number(d.Quantity), d.Status.Label(),
			d.DeliveryDate.Local().Format(cli.DateLayout), d.ExpectedDate.Local().Format(cli.DateLayout),
			cli.Number(d.TotalCost))
	}
	tw.Flush()
}
