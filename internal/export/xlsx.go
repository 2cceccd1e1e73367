package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	SheetMaterials  = "Материалы"
	SheetSuppliers  = "Поставщики"
	SheetDeliveries = "Поставки"
)

// BuildXLSX lays the data out as one sheet per table. Header rows match the
// CSV sections without the leading row-type column.
func BuildXLSX(d *Data, loc *time.Location) (*excelize.File, error) {
	if loc == nil {
		loc = time.Local
	}
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetMaterials); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetSuppliers, SheetDeliveries} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})

	materials := make([][]interface{}, 0, len(d.Materials))
	for _, m := range d.Materials {
		materials = append(materials, []interface{}{
			m.ID, m.Name, m.Type, m.Unit, m.Quantity, m.Price, m.SupplierID,
			deref(m.WarehouseLocation), deref(m.Description), yesNo(m.IsActive),
		})
	}
	suppliers := make([][]interface{}, 0, len(d.Suppliers))
	for _, s := range d.Suppliers {
		suppliers = append(suppliers, []interface{}{
			s.ID, s.Name, s.ContactPerson, s.Phone, deref(s.Email), s.Address, deref(s.City),
			s.Rating, s.DeliveryTimeDays, deref(s.PaymentTerms), yesNo(s.IsActive),
		})
	}
	deliveries := make([][]interface{}, 0, len(d.Deliveries))
	for _, v := range d.Deliveries {
		deliveries = append(deliveries, []interface{}{
			v.ID, v.InvoiceNumber, v.MaterialID, v.SupplierID, v.Quantity, string(v.Status),
			v.DeliveryDate.In(loc).Format(DateLayout), v.ExpectedDate.In(loc).Format(DateLayout),
			v.TotalCost, deref(v.Notes),
		})
	}

	sheets := []struct {
		name   string
		header []string
		rows   [][]interface{}
		widths []float64
	}{
		{SheetMaterials, materialHeader[1:], materials, []float64{6, 30, 18, 12, 12, 12, 12, 16, 30, 8}},
		{SheetSuppliers, supplierHeader[1:], suppliers, []float64{6, 30, 22, 16, 24, 34, 16, 8, 12, 18, 8}},
		{SheetDeliveries, deliveryHeader[1:], deliveries, []float64{6, 18, 12, 12, 12, 14, 14, 14, 14, 30}},
	}
	for _, sh := range sheets {
		if err := writeSheet(f, sh.name, sh.header, sh.rows, boldStyle); err != nil {
			f.Close()
			return nil, err
		}
		for i, w := range sh.widths {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetColWidth(sh.name, col, col, w)
		}
	}
	return f, nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]interface{}, style int) error {
	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
	}
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, r+2, err)
		}
	}
	return nil
}

// WriteXLSX writes the workbook built by BuildXLSX to w.
func WriteXLSX(w io.Writer, d *Data, loc *time.Location) error {
	f, err := BuildXLSX(d, loc)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func yesNo(b bool) string {
	if b {
		return yes
	}
	return no
}
