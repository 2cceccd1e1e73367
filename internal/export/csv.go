package export

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/stroymaterials/internal/model"
)

const (
	DateLayout = "02.01.2006"

	kindMaterial = "Материал"
	kindSupplier = "Поставщик"
	kindDelivery = "Поставка"
	headerKind   = "Тип"

	yes = "Да"
	no  = "Нет"
)

var (
	materialHeader = []string{"Тип", "ID", "Название", "Тип материала", "Единица измерения", "Количество", "Цена", "Поставщик ID", "Склад", "Описание", "Активен"}
	supplierHeader = []string{"Тип", "ID", "Название", "Контактное лицо", "Телефон", "Email", "Адрес", "Город", "Рейтинг", "Срок доставки", "Условия оплаты", "Активен"}
	deliveryHeader = []string{"Тип", "ID", "Номер накладной", "Материал ID", "Поставщик ID", "Количество", "Статус", "Дата доставки", "Ожидаемая дата", "Стоимость", "Примечания"}
)

// field is one CSV cell. Text cells are always quoted.
type field struct {
	value string
	text  bool
}

func text(s string) field { return field{value: s, text: true} }
func raw(s string) field  { return field{value: s} }

func optText(s *string) field {
	if s == nil {
		return text("")
	}
	return text(*s)
}

func num(f float64) field  { return raw(strconv.FormatFloat(f, 'f', -1, 64)) }
func id(v int64) field     { return raw(strconv.FormatInt(v, 10)) }
func integer(v int) field  { return raw(strconv.Itoa(v)) }
func boolean(b bool) field { return raw(yesNo(b)) }

type csvWriter struct {
	w   *bufio.Writer
	err error
}

func (c *csvWriter) line(fields ...field) {
	if c.err != nil {
		return
	}
	for i, f := range fields {
		if i > 0 {
			c.w.WriteByte(',')
		}
		if f.text {
			c.w.WriteByte('"')
			c.w.WriteString(strings.ReplaceAll(f.value, `"`, `""`))
			c.w.WriteByte('"')
		} else {
			c.w.WriteString(f.value)
		}
	}
	_, c.err = c.w.WriteString("\n")
}

func (c *csvWriter) header(cols []string) {
	fields := make([]field, len(cols))
	for i, col := range cols {
		fields[i] = raw(col)
	}
	c.line(fields...)
}

func (c *csvWriter) blank() {
	if c.err == nil {
		_, c.err = c.w.WriteString("\n")
	}
}

// WriteCSV writes materials, suppliers and deliveries as three sections,
// each with its own header, separated by an empty line. Delivery dates are
// rendered in loc.
func WriteCSV(w io.Writer, d *Data, loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}
	c := &csvWriter{w: bufio.NewWriter(w)}

	c.header(materialHeader)
	for _, m := range d.Materials {
		c.line(raw(kindMaterial), id(m.ID), text(m.Name), text(m.Type), text(m.Unit),
			num(m.Quantity), num(m.Price), id(m.SupplierID),
			optText(m.WarehouseLocation), optText(m.Description), boolean(m.IsActive))
	}

	c.blank()
	c.header(supplierHeader)
	for _, s := range d.Suppliers {
		c.line(raw(kindSupplier), id(s.ID), text(s.Name), text(s.ContactPerson), text(s.Phone),
			optText(s.Email), text(s.Address), optText(s.City),
			integer(s.Rating), integer(s.DeliveryTimeDays), optText(s.PaymentTerms), boolean(s.IsActive))
	}

	c.blank()
	c.header(deliveryHeader)
	for _, v := range d.Deliveries {
		c.line(raw(kindDelivery), id(v.ID), text(v.InvoiceNumber), id(v.MaterialID), id(v.SupplierID),
			num(v.Quantity), text(string(v.Status)),
			text(v.DeliveryDate.In(loc).Format(DateLayout)), text(v.ExpectedDate.In(loc).Format(DateLayout)),
			num(v.TotalCost), optText(v.Notes))
	}

	if c.err != nil {
		return c.err
	}
	return c.w.Flush()
}

// ParseCSV reads a file produced by WriteCSV. Columns that are not exported
// stay at their zero value; empty optional text becomes nil and dates are
// midnight in loc.
func ParseCSV(r io.Reader, loc *time.Location) (*Data, error) {
	if loc == nil {
		loc = time.Local
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	d := &Data{Materials: []model.Material{}, Suppliers: []model.Supplier{}, Deliveries: []model.Delivery{}}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)

		p := &parser{rec: rec, loc: loc}
		switch rec[0] {
		case headerKind:
			continue
		case kindMaterial:
			m := p.material()
			if p.err != nil {
				return nil, fmt.Errorf("line %d: %w", line, p.err)
			}
			d.Materials = append(d.Materials, m)
		case kindSupplier:
			s := p.supplier()
			if p.err != nil {
				return nil, fmt.Errorf("line %d: %w", line, p.err)
			}
			d.Suppliers = append(d.Suppliers, s)
		case kindDelivery:
			v := p.delivery()
			if p.err != nil {
				return nil, fmt.Errorf("line %d: %w", line, p.err)
			}
			d.Deliveries = append(d.Deliveries, v)
		default:
			return nil, fmt.Errorf("line %d: unknown row type %q", line, rec[0])
		}
	}
	return d, nil
}

type parser struct {
	rec []string
	loc *time.Location
	err error
}

func (p *parser) expect(n int) bool {
	if p.err == nil && len(p.rec) != n {
		p.err = fmt.Errorf("%s row has %d fields, want %d", p.rec[0], len(p.rec), n)
	}
	return p.err == nil
}

func (p *parser) str(i int) string { return p.rec[i] }

func (p *parser) opt(i int) *string {
	if p.rec[i] == "" {
		return nil
	}
	s := p.rec[i]
	return &s
}

func (p *parser) int64(i int) int64 {
	v, err := strconv.ParseInt(p.rec[i], 10, 64)
	p.fail(i, err)
	return v
}

func (p *parser) int(i int) int {
	v, err := strconv.Atoi(p.rec[i])
	p.fail(i, err)
	return v
}

func (p *parser) float(i int) float64 {
	v, err := strconv.ParseFloat(p.rec[i], 64)
	p.fail(i, err)
	return v
}

func (p *parser) bool(i int) bool {
	switch p.rec[i] {
	case yes:
		return true
	case no:
		return false
	}
	p.fail(i, fmt.Errorf("want %s or %s", yes, no))
	return false
}

func (p *parser) date(i int) time.Time {
	t, err := time.ParseInLocation(DateLayout, p.rec[i], p.loc)
	p.fail(i, err)
	return t
}

func (p *parser) fail(i int, err error) {
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("column %d %q: %w", i+1, p.rec[i], err)
	}
}

func (p *parser) material() model.Material {
	if !p.expect(len(materialHeader)) {
		return model.Material{}
	}
	return model.Material{
		ID:                p.int64(1),
		Name:              p.str(2),
		Type:              p.str(3),
		Unit:              p.str(4),
		Quantity:          p.float(5),
		Price:             p.float(6),
		SupplierID:        p.int64(7),
		WarehouseLocation: p.opt(8),
		Description:       p.opt(9),
		IsActive:          p.bool(10),
	}
}

func (p *parser) supplier() model.Supplier {
	if !p.expect(len(supplierHeader)) {
		return model.Supplier{}
	}
	return model.Supplier{
		ID:               p.int64(1),
		Name:             p.str(2),
		ContactPerson:    p.str(3),
		Phone:            p.str(4),
		Email:            p.opt(5),
		Address:          p.str(6),
		City:             p.opt(7),
		Rating:           p.int(8),
		DeliveryTimeDays: p.int(9),
		PaymentTerms:     p.opt(10),
		IsActive:         p.bool(11),
	}
}

func (p *parser) delivery() model.Delivery {
	if !p.expect(len(deliveryHeader)) {
		return model.Delivery{}
	}
	return model.Delivery{
		ID:            p.int64(1),
		InvoiceNumber: p.str(2),
		MaterialID:    p.int64(3),
		SupplierID:    p.int64(4),
		Quantity:      p.float(5),
		Status:        model.DeliveryStatus(p.str(6)),
		DeliveryDate:  p.date(7),
		ExpectedDate:  p.date(8),
		TotalCost:     p.float(9),
		Notes:         p.opt(10),
	}
}
