package service

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ikkim/udonggeum-variants/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const variantSheetName = "Variants"

// 고정 컬럼 뒤에 속성 이름 컬럼이 이어진다
var variantSheetColumns = []string{"SKU", "Variant", "Price", "Stock", "Active"}

// SheetRow is one parsed data row of a variant sheet.
type SheetRow struct {
	Line        int
	SKU         string
	VariantName string
	Price       string
	Stock       string
	Active      string
	Values      map[string]string // attribute name -> value text
}

// ExportVariants renders every variant of the product as an xlsx workbook.
func (s *variantService) ExportVariants(productID uint) ([]byte, error) {
	variants, err := s.ListVariants(productID, false)
	if err != nil {
		return nil, err
	}

	// attribute columns in attribute id order
	names := make(map[uint]string)
	for _, v := range variants {
		for _, a := range v.Assignments {
			if a.AttributeValue != nil && a.AttributeValue.Attribute != nil {
				names[a.AttributeID] = a.AttributeValue.Attribute.Name
			}
		}
	}
	attributeIDs := make([]uint, 0, len(names))
	for id := range names {
		attributeIDs = append(attributeIDs, id)
	}
	sort.Slice(attributeIDs, func(i, j int) bool { return attributeIDs[i] < attributeIDs[j] })

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), variantSheetName); err != nil {
		return nil, err
	}

	header := make([]interface{}, 0, len(variantSheetColumns)+len(attributeIDs))
	for _, col := range variantSheetColumns {
		header = append(header, col)
	}
	for _, id := range attributeIDs {
		header = append(header, names[id])
	}
	if err := f.SetSheetRow(variantSheetName, "A1", &header); err != nil {
		return nil, err
	}

	for i, v := range variants {
		byAttribute := make(map[uint]string, len(v.Assignments))
		for _, a := range v.Assignments {
			if a.AttributeValue != nil {
				byAttribute[a.AttributeID] = a.AttributeValue.Value
			}
		}

		row := []interface{}{v.SKU, v.VariantName, v.Price.StringFixed(2), v.StockQuantity, v.IsActive}
		for _, id := range attributeIDs {
			row = append(row, byAttribute[id])
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(variantSheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to render variant sheet", err, map[string]interface{}{
			"product_id": productID,
		})
		return nil, err
	}

	logger.Info("Variant sheet exported", map[string]interface{}{
		"product_id": productID,
		"rows":       len(variants),
	})
	return buf.Bytes(), nil
}

// ReadVariantSheet parses the first sheet of a workbook in the export layout.
func ReadVariantSheet(r io.Reader) ([]SheetRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	header := rows[0]
	if len(header) < len(variantSheetColumns) {
		return nil, fmt.Errorf("header must start with %s", strings.Join(variantSheetColumns, ", "))
	}
	for i, col := range variantSheetColumns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), col) {
			return nil, fmt.Errorf("column %d must be %q, got %q", i+1, col, header[i])
		}
	}
	attributeNames := header[len(variantSheetColumns):]

	var parsed []SheetRow
	for i, row := range rows[1:] {
		cell := func(idx int) string {
			if idx < len(row) {
				return strings.TrimSpace(row[idx])
			}
			return ""
		}

		sr := SheetRow{
			Line:        i + 2,
			SKU:         cell(0),
			VariantName: cell(1),
			Price:       cell(2),
			Stock:       cell(3),
			Active:      cell(4),
			Values:      make(map[string]string),
		}
		for j, name := range attributeNames {
			name = strings.TrimSpace(name)
			if value := cell(len(variantSheetColumns) + j); name != "" && value != "" {
				sr.Values[name] = value
			}
		}

		// 완전히 빈 행은 건너뜀
		if sr.SKU == "" && sr.Price == "" && len(sr.Values) == 0 {
			continue
		}
		parsed = append(parsed, sr)
	}
	return parsed, nil
}

// toInput converts a row; attribute values are resolved by the caller.
func (r SheetRow) toInput() (CreateVariantInput, error) {
	input := CreateVariantInput{SKU: r.SKU, VariantName: r.VariantName}

	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return input, fmt.Errorf("%w: line %d: invalid price %q", ErrInvalidVariantInput, r.Line, r.Price)
	}
	input.Price = &price

	if r.Stock != "" {
		stock, err := strconv.Atoi(r.Stock)
		if err != nil {
			return input, fmt.Errorf("%w: line %d: invalid stock %q", ErrInvalidVariantInput, r.Line, r.Stock)
		}
		input.StockQuantity = &stock
	}

	if r.Active != "" {
		active, err := strconv.ParseBool(r.Active)
		if err != nil {
			return input, fmt.Errorf("%w: line %d: invalid active flag %q", ErrInvalidVariantInput, r.Line, r.Active)
		}
		input.IsActive = &active
	}
	return input, nil
}

// ImportProductSheet creates a product and one variant per sheet row with
// the same partial-success rules as CreateProductWithVariants.
func (s *variantService) ImportProductSheet(product CreateProductInput, sheet io.Reader) (*BulkCreateResult, error) {
	rows, err := ReadVariantSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVariantInput, err)
	}

	items := make([]preparedVariant, len(rows))
	for i, row := range rows {
		input, err := row.toInput()
		if err != nil {
			items[i] = preparedVariant{input: input, err: err}
			continue
		}

		attrNames := make([]string, 0, len(row.Values))
		for name := range row.Values {
			attrNames = append(attrNames, name)
		}
		sort.Strings(attrNames)

		for _, name := range attrNames {
			value, err := s.attributeRepo.FindValue(name, row.Values[name])
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					err = fmt.Errorf("%w: line %d: %s=%s", ErrAttributeValueNotFound, row.Line, name, row.Values[name])
				}
				items[i].err = err
				break
			}
			input.AttributeValueIDs = append(input.AttributeValueIDs, value.ID)
		}
		if items[i].err != nil {
			items[i].input = input
			continue
		}
		items[i] = s.prepare(input)
	}

	logger.Info("Variant sheet parsed", map[string]interface{}{
		"product": product.Name,
		"rows":    len(rows),
	})
	return s.createProductBatch(product, items)
}
