// Package export writes list views out as spreadsheets.
package export

import (
	"io"
	"strconv"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"

	"stockdesk/m/domain"
	"stockdesk/m/internal/reports"
)

var productHeader = []string{"Code", "Name", "Category", "Buying Price", "Selling Price", "Stock", "Supplier", "Created At"}

// ProductsXLSX writes the product list as a single-sheet workbook.
func ProductsXLSX(w io.Writer, products []domain.Product) error {
	const sheet = "Products"
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheet)

	for i, h := range productHeader {
		f.SetCellValue(sheet, cell(i, 1), h)
	}
	for r, p := range products {
		row := r + 2
		values := []interface{}{p.Code, p.Name, p.Category, p.BuyingPrice, p.SellingPrice, p.Stock, p.Supplier, p.CreatedAt}
		for c, v := range values {
			f.SetCellValue(sheet, cell(c, row), v)
		}
	}
	return errors.Wrap(f.Write(w), "write xlsx")
}

func cell(col, row int) string {
	return excelize.ToAlphaString(col) + strconv.Itoa(row)
}

func ProductsCSV(w io.Writer, products []domain.Product) error {
	if products == nil {
		products = []domain.Product{}
	}
	return errors.Wrap(gocsv.Marshal(products, w), "write products csv")
}

type supplierRow struct {
	Name          string  `csv:"name"`
	BusinessName  string  `csv:"business_name"`
	Phone         string  `csv:"phone"`
	Address       string  `csv:"address"`
	Cost          float64 `csv:"cost"`
	TotalPayments float64 `csv:"total_payments"`
	AmountDue     float64 `csv:"amount_due"`
}

// SuppliersCSV writes suppliers with their derived balances.
func SuppliersCSV(w io.Writer, suppliers []domain.Supplier) error {
	rows := make([]supplierRow, 0, len(suppliers))
	for _, b := range reports.Balances(suppliers) {
		rows = append(rows, supplierRow{
			Name:          b.Name,
			BusinessName:  b.BusinessName,
			Phone:         b.Phone,
			Address:       b.Address,
			Cost:          b.Cost,
			TotalPayments: b.TotalPayments,
			AmountDue:     b.AmountDue,
		})
	}
	return errors.Wrap(gocsv.Marshal(rows, w), "write suppliers csv")
}

func MaintenanceCSV(w io.Writer, records []domain.MaintenanceRecord) error {
	if records == nil {
		records = []domain.MaintenanceRecord{}
	}
	return errors.Wrap(gocsv.Marshal(records, w), "write maintenance csv")
}
