package handler

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/fekuna/stroymaterials/internal/auth"
	"github.com/fekuna/stroymaterials/internal/cli"
	"github.com/fekuna/stroymaterials/internal/logger"
	"github.com/fekuna/stroymaterials/internal/model"
	"github.com/fekuna/stroymaterials/internal/supplier"
	"github.com/fekuna/stroymaterials/internal/supplier/dto"
	"go.uber.org/zap"
)

type SupplierHandler struct {
	uc     supplier.UseCase
	out    io.Writer
	logger logger.ZapLogger
}

func NewSupplierHandler(uc supplier.UseCase, out io.Writer, log logger.ZapLogger) *SupplierHandler {
	return &SupplierHandler{
		uc:     uc,
		out:    out,
		logger: log,
	}
}

func (h *SupplierHandler) Commands() []cli.Command {
	return []cli.Command{
		{Name: "list", Usage: "[-q term] [-active] [-top N]", Run: h.List},
		{Name: "show", Usage: "ID", Run: h.Show},
		{Name: "create", Usage: "-name N [-contact C] [-phone P] [-email E] [-rating 1..5] [-days D]", Run: h.Create},
		{Name: "update", Usage: "ID [same flags as create]", Run: h.Update},
		{Name: "toggle", Usage: "ID (flip the active flag)", Run: h.Toggle},
		{Name: "delete", Usage: "ID (also removes its deliveries)", Run: h.Delete},
		{Name: "stats", Usage: "total, active, inactive", Run: h.Stats},
	}
}

func (h *SupplierHandler) Run(ctx context.Context, args []string) error {
	return cli.Dispatch(ctx, "suppliers", h.Commands(), args)
}

func (h *SupplierHandler) List(ctx context.Context, args []string) error {
	fs := cli.NewFlagSet("suppliers list")
	term := fs.String("q", "", "search name, contact, phone and email")
	active := fs.Bool("active", false, "only active suppliers")
	top := fs.Int("top", 0, "best rated active suppliers")
	if err := cli.Parse(fs, args); err != nil {
		return err
	}

	q := h.uc.WatchAll()
	switch {
	case *term != "":
		q = h.uc.WatchSearch(*term)
	case *top > 0:
		q = h.uc.WatchTop(*top)
	case *active:
		q = h.uc.WatchActive()
	}

	items, err := q.Get(ctx)
	if err != nil {
		h.logger.Error("failed to list suppliers", zap.Error(err))
		return err
	}
	h.PrintTable(items)
	return nil
}

func (h *SupplierHandler) Show(ctx context.Context, args []string) error {
	fs := cli.NewFlagSet("suppliers show")
	if err := cli.Parse(fs, args); err != nil {
		return err
	}
	id, err := cli.ArgID(fs)
	if err != nil {
		return err
	}

	s, err := h.uc.GetSupplier(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return apperr.NotFound("supplier", id)
	}

	tw := cli.NewTable(h.out)
	fmt.Fprintf(tw, "ID\t%d\n", s.ID)
	fmt.Fprintf(tw, "Название\t%s\n", s.Name)
	fmt.Fprintf(tw, "Контактное лицо\t%s\n", s.ContactPerson)
	fmt.Fprintf(tw, "Телефон\t%s\n", s.Phone)
	fmt.Fprintf(tw, "Email\t%s\n", cli.Opt(s.Email))
	fmt.Fprintf(tw, "Адрес\t%s\n", s.Address)
	fmt.Fprintf(tw, "Город\t%s\n", cli.Opt(s.City))
	fmt.Fprintf(tw, "Рейтинг\t%s\n", stars(s.Rating))
	fmt.Fprintf(tw, "Срок доставки\t%d дн.\n", s.DeliveryTimeDays)
	fmt.Fprintf(tw, "Условия оплаты\t%s\n", cli.Opt(s.PaymentTerms))
	fmt.Fprintf(tw, "Примечания\t%s\n", cli.Opt(s.Notes))
	fmt.Fprintf(tw, "Активен\t%s\n", cli.YesNo(s.IsActive))
	return tw.Flush()
}

type supplierFlags struct {
	name, contact, phone, email *string
	address, city, terms, notes *string
	rating, days                *int
	active                      *bool
}

func bindSupplierFlags(fs *flag.FlagSet) *supplierFlags {
	return &supplierFlags{
		name:    fs.String("name", "", "name"),
		contact: fs.String("contact", "", "contact person"),
		phone:   fs.String("phone", "", "phone, 10 to 15 digits with optional +"),
		email:   fs.String("email", "", "email"),
		address: fs.String("address", "", "address"),
		city:    fs.String("city", "", "city"),
		terms:   fs.String("terms", "", "payment terms"),
		notes:   fs.String("notes", "", "notes"),
		rating:  fs.Int("rating", model.MaxRating, "rating, clamped to 1..5"),
		days:    fs.Int("days", 7, "average delivery time in days"),
		active:  fs.Bool("active", true, "active flag"),
	}
}

func (h *SupplierHandler) Create(ctx context.Context, args []string) error {
	if err := auth.RequireAdmin(ctx); err != nil {
		return err
	}

	fs := cli.NewFlagSet("suppliers create")
	f := bindSupplierFlags(fs)
	if err := cli.Parse(fs, args); err != nil {
		return err
	}

	s, err := h.uc.CreateSupplier(ctx, &dto.CreateSupplierInput{
		Name:             *f.name,
		ContactPerson:    *f.contact,
		Phone:            *f.phone,
		Email:            *f.email,
		Address:          *f.address,
		City:             *f.city,
		Rating:           *f.rating,
		DeliveryTimeDays: *f.days,
		PaymentTerms:     *f.terms,
		Notes:            *f.notes,
	})
	if err != nil {
		return err
	}
	if !*f.active {
		if _, err := h.uc.ToggleActive(ctx, s.ID); err != nil {
			return err
		}
	}
	fmt.Fprintf(h.out, "created supplier %d\n", s.ID)
	return nil
}

// Update starts from the stored row and applies only the flags given.
func (h *SupplierHandler) Update(ctx context.Context, args []string) error {
	if err := auth.RequireAdmin(ctx); err != nil {
		return err
	}

	fs := cli.NewFlagSet("suppliers update")
	f := bindSupplierFlags(fs)
	if err := cli.Parse(fs, args); err != nil {
		return err
	}
	id, err := cli.ArgID(fs)
	if err != nil {
		return err
	}

	s, err := h.uc.GetSupplier(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return apperr.NotFound("supplier", id)
	}

	input := &dto.UpdateSupplierInput{
		ID:               s.ID,
		Name:             s.Name,
		ContactPerson:    s.ContactPerson,
		Phone:            s.Phone,
		Email:            deref(s.Email),
		Address:          s.Address,
		City:             deref(s.City),
		Rating:           s.Rating,
		DeliveryTimeDays: s.DeliveryTimeDays,
		PaymentTerms:     deref(s.PaymentTerms),
		Notes:            deref(s.Notes),
		IsActive:         s.IsActive,
	}
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			input.Name = *f.name
		case "contact":
			input.ContactPerson = *f.contact
		case "phone":
			input.Phone = *f.phone
		case "email":
			input.Email = *f.email
		case "address":
			input.Address = *f.address
		case "city":
			input.City = *f.city
		case "terms":
			input.PaymentTerms = *f.terms
		case "notes":
			input.Notes = *f.notes
		case "rating":
			input.Rating = *f.rating
		case "days":
			input.DeliveryTimeDays = *f.days
		case "active":
			input.IsActive = *f.active
		}
	})

	if _, err := h.uc.UpdateSupplier(ctx, input); err != nil {
		return err
	}
	fmt.Fprintf(h.out, "updated supplier %d\n", id)
	return nil
}

func (h *SupplierHandler) Toggle(ctx context.Context, args []string) error {
	if err := auth.RequireAdmin(ctx); err != nil {
		return err
	}

	fs := cli.NewFlagSet("suppliers toggle")
	if err := cli.Parse(fs, args); err != nil {
		return err
	}
	id, err := cli.ArgID(fs)
	if err != nil {
		return err
	}

	s, err := h.uc.ToggleActive(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(h.out, "supplier %d active: %s\n", s.ID, cli.YesNo(s.IsActive))
	return nil
}

func (h *SupplierHandler) Delete(ctx context.Context, args []string) error {
	if err := auth.RequireAdmin(ctx); err != nil {
		return err
	}

	fs := cli.NewFlagSet("suppliers delete")
	if err := cli.Parse(fs, args); err != nil {
		return err
	}
	id, err := cli.ArgID(fs)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteSupplier(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(h.out, "deleted supplier %d\n", id)
	return nil
}

func (h *SupplierHandler) Stats(ctx context.Context, args []string) error {
	s, err := h.uc.Statistics(ctx)
	if err != nil {
		return err
	}
	tw := cli.NewTable(h.out)
	fmt.Fprintf(tw, "Поставщиков\t%d\n", s.Total)
	fmt.Fprintf(tw, "Активных\t%d\n", s.Active)
	fmt.Fprintf(tw, "Неактивных\t%d\n", s.Inactive)
	return tw.Flush()
}

// PrintTable renders suppliers in list order.
func (h *SupplierHandler) PrintTable(items []model.Supplier) {
	tw := cli.NewTable(h.out)
	fmt.Fprintln(tw, "ID\tНАЗВАНИЕ\tКОНТАКТ\tТЕЛЕФОН\tГОРОД\tРЕЙТИНГ\tСРОК\tАКТИВЕН")
	for _, s := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			s.ID, s.Name, s.ContactPerson, s.Phone, cli.Opt(s.City), stars(s.Rating), s.DeliveryTimeDays, cli.YesNo(s.IsActive))
	}
	tw.Flush()
}

func stars(rating int) string {
	r := model.ClampRating(rating)
	return strings.Repeat("★", r) + strings.Repeat("☆", model.MaxRating-r)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
