package handler

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/fekuna/stroymaterials/internal/apperr"
	"github.com/fekuna/stroymaterials/internal/auth"
	"github.com/fekuna/stroymaterials/internal/cli"
	"github.com/fekuna/stroymaterials/internal/logger"
	"github.com/fekuna/stroymaterials/internal/material"
	"github.com/fekuna/stroymaterials/internal/material/dto"
	"github.com/fekuna/stroymaterials/internal/model"
	"github.com/fekuna/stroymaterials/internal/validate"
	"go.uber.org/zap"
)

type MaterialHandler struct {
	uc     material.UseCase
	out    io.Writer
	logger logger.ZapLogger
}

func NewMaterialHandler(uc material.UseCase, out io.Writer, log logger.ZapLogger) *MaterialHandler {
	return &MaterialHandler{
		uc:     uc,
		out:    out,
		logger: log,
	}
}

func (h *MaterialHandler) Commands() []cli.Command {
	return []cli.Command{
		{Name: "list", Usage: "[-q term] [-type T] [-low] [-active]", Run: h.List},
		{Name: "types", Usage: "distinct material types", Run: h.Types},
		{Name: "show", Usage: "ID", Run: h.Show},
		{Name: "create", Usage: "-name N -type T -unit U -supplier ID [-qty Q] [-price P] [-min M] [-max M]", Run: h.Create},
		{Name: "update", Usage: "ID [same flags as create] [-active=false]", Run: h.Update},
		{Name: "delete", Usage: "ID", Run: h.Delete},
		{Name: "adjust", Usage: "ID -by AMOUNT", Run: h.Adjust},
		{Name: "stats", Usage: "count, inventory value, low stock", Run: h.Stats},
	}
}

func (h *MaterialHandler) Run(ctx context.Context, args []string) error {
	return cli.Dispatch(ctx, "materials", h.Commands(), args)
}

func (h *MaterialHandler) List(ctx context.Context, args []string) error {
	fs := cli.NewFlagSet("materials list")
	term := fs.String("q", "", "search name, type and description")
	typ := fs.String("type", "", "exact material type")
	low := fs.Bool("low", false, "only materials at or below the minimum level")
	active := fs.Bool("active", false, "only active materials")
	if err := cli.Parse(fs, args); err != nil {
		return err
	}

	q := h.uc.WatchAll()
	switch {
	case *term != "":
		q = h.uc.WatchSearch(*term)
	case *typ != "":
		q = h.uc.WatchByType(*typ)
	case *low:
		q = h.uc.WatchLowStock()
	case *active:
		q = h.uc.WatchActive()
	}

	items, err := q.Get(ctx)
	if err != nil {
		h.logger.Error("failed to list materials", zap.Error(err))
		return err
	}
	h.PrintTable(items)
	return nil
}

func (h *MaterialHandler) Types(ctx context.Context, args []string) error {
	types, err := h.uc.WatchTypes().Get(ctx)
	if err != nil {
		return err
	}
	for _, t := range types {
		fmt.Fprintln(h.out, t)
	}
	return nil
}

func (h *MaterialHandler) Show(ctx context.Context, args []string) error {
	fs := cli.NewFlagSet("materials show")
	if err := cli.Parse(fs, args); err != nil {
		return err
	}
	id, err := cli.ArgID(fs)
	if err != nil {
		return err
	}

	m, err := h.uc.GetMaterial(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return apperr.NotFound("material", id)
	}

	tw := cli.NewTable(h.out)
	fmt.Fprintf(tw, "ID\t%d\n", m.ID)
	fmt.Fprintf(tw, "Название\t%s\n", m.Name)
	fmt.Fprintf(tw, "Тип\t%s\n", m.Type)
	fmt.Fprintf(tw, "Количество\t%s %s\n", cli.Number(m.Quantity), m.Unit)
	fmt.Fprintf(tw, "Цена\t%s\n", cli.Number(m.Price))
	fmt.Fprintf(tw, "Стоимость\t%s\n", cli.Number(m.Value()))
	fmt.Fprintf(tw, "Поставщик ID\t%d\n", m.SupplierID)
	fmt.Fprintf(tw, "Мин. остаток\t%s\n", cli.Number(m.MinStockLevel))
	if m.MaxStockLevel != nil {
		fmt.Fprintf(tw, "Макс. остаток\t%s\n", cli.Number(*m.MaxStockLevel))
	}
	if m.LastDeliveryDate != nil {
		fmt.Fprintf(tw, "Последняя поставка\t%s\n", m.LastDeliveryDate.Local().Format(cli.DateLayout))
	}
	fmt.Fprintf(tw, "Склад\t%s\n", cli.Opt(m.WarehouseLocation))
	fmt.Fprintf(tw, "Описание\t%s\n", cli.Opt(m.Description))
	fmt.Fprintf(tw, "Активен\t%s\n", cli.YesNo(m.IsActive))
	fmt.Fprintf(tw, "Мало на складе\t%s\n", cli.YesNo(m.IsLowStock()))
	return tw.Flush()
}

// materialFlags binds the editable fields. Numbers are read as strings so
// that a comma decimal separator is accepted.
type materialFlags struct {
	name, typ, unit            *string
	qty, price, minLvl, maxLvl *string
	supplier                   *int64
	location, image, desc      *string
	active                     *bool
}

func bindMaterialFlags(fs *flag.FlagSet) *materialFlags {
	return &materialFlags{
		name:     fs.String("name", "", "name"),
		typ:      fs.String("type", "", "material type"),
		unit:     fs.String("unit", "", "unit of measure"),
		qty:      fs.String("qty", "0", "quantity on hand"),
		price:    fs.String("price", "0", "unit price"),
		minLvl:   fs.String("min", "0", "minimum stock level"),
		maxLvl:   fs.String("max", "", "maximum stock level"),
		supplier: fs.Int64("supplier", 0, "supplier id"),
		location: fs.String("location", "", "warehouse location"),
		image:    fs.String("image", "", "image reference"),
		desc:     fs.String("description", "", "description"),
		active:   fs.Bool("active", true, "active flag"),
	}
}

func (f *materialFlags) numbers() (qty, price, minLvl float64, maxLvl *float64, err error) {
	if qty, err = validate.ParsePrice(*f.qty); err != nil {
		return 0, 0, 0, nil, apperr.NewValidation(map[string]string{"Quantity": "must be a non-negative number"})
	}
	if price, err = validate.ParsePrice(*f.price); err != nil {
		return 0, 0, 0, nil, err
	}
	if minLvl, err = validate.ParseDecimal("MinStockLevel", *f.minLvl); err != nil {
		return 0, 0, 0, nil, err
	}
	if *f.maxLvl != "" {
		v, err := validate.ParseDecimal("MaxStockLevel", *f.maxLvl)
		if err != nil {
			return 0, 0, 0, nil, err
		}
		maxLvl = &v
	}
	return qty, price, minLvl, maxLvl, nil
}

func (h *MaterialHandler) Create(ctx context.Context, args []string) error {
	if err := auth.RequireAdmin(ctx); err != nil {
		return err
	}

	fs := cli.NewFlagSet("materials create")
	f := bindMaterialFlags(fs)
	if err := cli.Parse(fs, args); err != nil {
		return err
	}
	qty, price, minLvl, maxLvl, err := f.numbers()
	if err != nil {
		return err
	}

	m, err := h.uc.CreateMaterial(ctx, &dto.CreateMaterialInput{
		Name:              *f.name,
		Type:              *f.typ,
		Unit:              *f.unit,
		Quantity:          qty,
		Price:             price,
		SupplierID:        *f.supplier,
		MinStockLevel:     minLvl,
		MaxStockLevel:     maxLvl,
		WarehouseLocation: *f.location,
		ImageURI:          *f.image,
		Description:       *f.desc,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(h.out, "created material %d\n", m.ID)
	return nil
}

// Update starts from the stored row and applies only the flags given.
func (h *MaterialHandler) Update(ctx context.Context, args []string) error {
	if err := auth.RequireAdmin(ctx); err != nil {
		return err
	}

	fs := cli.NewFlagSet("materials update")
	f := bindMaterialFlags(fs)
	if err := cli.Parse(fs, args); err != nil {
		return err
	}
	id, err := cli.ArgID(fs)
	if err != nil {
		return err
	}

	m, err := h.uc.GetMaterial(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return apperr.NotFound("material", id)
	}

	input := &dto.UpdateMaterialInput{
		ID:                m.ID,
		Name:              m.Name,
		Type:              m.Type,
		Unit:              m.Unit,
		Quantity:          m.Quantity,
		Price:             m.Price,
		SupplierID:        m.SupplierID,
		LastDeliveryDate:  m.LastDeliveryDate,
		MinStockLevel:     m.MinStockLevel,
		MaxStockLevel:     m.MaxStockLevel,
		WarehouseLocation: deref(m.WarehouseLocation),
		ImageURI:          deref(m.ImageURI),
		Description:       deref(m.Description),
		IsActive:          m.IsActive,
	}

	var parseErr error
	fs.Visit(func(fl *flag.Flag) {
		if parseErr != nil {
			return
		}
		switch fl.Name {
		case "name":
			input.Name = *f.name
		case "type":
			input.Type = *f.typ
		case "unit":
			input.Unit = *f.unit
		case "qty":
			input.Quantity, parseErr = validate.ParsePrice(*f.qty)
			if parseErr != nil {
				parseErr = apperr.NewValidation(map[string]string{"Quantity": "must be a non-negative number"})
			}
		case "price":
			input.Price, parseErr = validate.ParsePrice(*f.price)
		case "min":
			input.MinStockLevel, parseErr = validate.ParseDecimal("MinStockLevel", *f.minLvl)
		case "max":
			if *f.maxLvl == "" {
				input.MaxStockLevel = nil
				return
			}
			var v float64
			v, parseErr = validate.ParseDecimal("MaxStockLevel", *f.maxLvl)
			input.MaxStockLevel = &v
		case "supplier":
			input.SupplierID = *f.supplier
		case "location":
			input.WarehouseLocation = *f.location
		case "image":
			input.ImageURI = *f.image
		case "description":
			input.Description = *f.desc
		case "active":
			input.IsActive = *f.active
		}
	})
	if parseErr != nil {
		return parseErr
	}

	if _, err := h.uc.UpdateMaterial(ctx, input); err != nil {
		return err
	}
	fmt.Fprintf(h.out, "updated material %d\n", id)
	return nil
}

func (h *MaterialHandler) Delete(ctx context.Context, args []string) error {
	if err := auth.RequireAdmin(ctx); err != nil {
		return err
	}

	fs := cli.NewFlagSet("materials delete")
	if err := cli.Parse(fs, args); err != nil {
		return err
	}
	id, err := cli.ArgID(fs)
	if err != nil {
		return err
	}

	if err := h.uc.DeleteMaterial(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(h.out, "deleted material %d\n", id)
	return nil
}

func (h *MaterialHandler) Adjust(ctx context.Context, args []string) error {
	if err := auth.RequireAdmin(ctx); err != nil {
		return err
	}

	fs := cli.NewFlagSet("materials adjust")
	by := fs.String("by", "", "signed quantity change")
	if err := cli.Parse(fs, args); err != nil {
		return err
	}
	id, err := cli.ArgID(fs)
	if err != nil {
		return err
	}
	amount, err := validate.ParseDecimal("Amount", *by)
	if err != nil {
		return err
	}

	if err := h.uc.AdjustQuantity(ctx, id, amount); err != nil {
		return err
	}
	fmt.Fprintf(h.out, "adjusted material %d by %s\n", id, cli.Number(amount))
	return nil
}

func (h *MaterialHandler) Stats(ctx context.Context, args []string) error {
	s, err := h.uc.Statistics(ctx)
	if err != nil {
		return err
	}
	tw := cli.NewTable(h.out)
	fmt.Fprintf(tw, "Материалов\t%d\n", s.TotalMaterials)
	fmt.Fprintf(tw, "Стоимость запасов\t%s\n", cli.Number(s.TotalInventoryValue))
	fmt.Fprintf(tw, "Мало на складе\t%d\n", s.LowStockCount)
	return tw.Flush()
}

// PrintTable renders materials in list order.
func (h *MaterialHandler) PrintTable(items []model.Material) {
	tw := cli.NewTable(h.out)
	fmt.Fprintln(tw, "ID\tНАЗВАНИЕ\tТИП\tКОЛ-ВО\tЕД.\tЦЕНА\tПОСТАВЩИК\tОСТАТОК")
	for _, m := range items {
		stock := "норма"
		switch {
		case m.IsLowStock():
			stock = "мало"
		case m.IsOverstock():
			stock = "избыток"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			m.ID, m.Name, m.Type, cli.Number(m.Quantity), m.Unit, cli.Number(m.Price), m.SupplierID, stock)
	}
	tw.Flush()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
