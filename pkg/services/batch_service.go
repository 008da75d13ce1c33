package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"sales-forecast-web/pkg/models"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// MaxBatchRows 一括予測で受け付ける最大行数
const MaxBatchRows = 500

// batchColumns はアップロードファイルの列名と別名です。
var batchColumns = []struct {
	field   string
	aliases []string
}{
	{"date", []string{"date"}},
	{"family", []string{"family", "product_family"}},
	{"state", []string{"state"}},
	{"city", []string{"city"}},
	{"type_x", []string{"type_x", "store_type"}},
	{"type_y", []string{"type_y", "day_type"}},
	{"onpromotion", []string{"onpromotion", "on_promotion"}},
	{"dcoilwtico", []string{"dcoilwtico", "oil_price"}},
	{"transactions", []string{"transactions"}},
	{"store_nbr", []string{"store_nbr", "store_number"}},
	{"cluster", []string{"cluster"}},
}

// BatchService runs every row of an uploaded spreadsheet through its own
// FormController and writes the outcomes back to a workbook.
type BatchService struct {
	predictor Predictor
	logger    *zap.Logger
}

// NewBatchService 一括予測サービスを作成
func NewBatchService(predictor Predictor, logger *zap.Logger) *BatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchService{predictor: predictor, logger: logger}
}

// ReadRows parses an .xlsx or .csv file into form inputs. The first row is a
// header; missing optional columns keep the form defaults. Blank rows are
// skipped, and every input keeps the sheet row it came from.
func (bs *BatchService) ReadRows(fileName string, r io.Reader) ([]models.BatchInput, error) {
	var rows [][]string
	lower := strings.ToLower(fileName)

	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
		defer f.Close()
		rows, err = f.GetRows(f.GetSheetName(0))
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet rows: %w", err)
		}
	case strings.HasSuffix(lower, ".csv"):
		reader := csv.NewReader(r)
		reader.FieldsPerRecord = -1
		var err error
		rows, err = reader.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported file type: upload a .xlsx or .csv file")
	}

	if len(rows) < 1 {
		return nil, fmt.Errorf("the file needs a header row and at least one data row")
	}

	header := rows[0]
	index := make(map[string]int, len(batchColumns))
	for _, col := range batchColumns {
		if i := findIndex(header, col.aliases...); i >= 0 {
			index[col.field] = i
		}
	}
	if _, ok := index["date"]; !ok {
		return nil, fmt.Errorf("missing required column: date")
	}

	inputs := make([]models.BatchInput, 0, len(rows)-1)
	for i, row := range rows {
		if i == 0 || isBlankRow(row) {
			continue
		}
		if len(inputs) == MaxBatchRows {
			return nil, fmt.Errorf("too many rows: more than %d (max %d)", MaxBatchRows, MaxBatchRows)
		}
		input := models.NewFormInput()
		for field, i := range index {
			if i >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[i])
			if value == "" && !isRequiredField(field) {
				continue
			}
			*fieldPointer(&input, field) = value
		}
		inputs = append(inputs, models.BatchInput{Row: i + 1, Input: input})
	}
	if len(inputs) == 0 {
		return nil, fmt.Errorf("the file needs a header row and at least one data row")
	}
	return inputs, nil
}

// Run submits each input in order, one request per row. Rows that fail keep
// their error message and do not stop the batch.
func (bs *BatchService) Run(ctx context.Context, inputs []models.BatchInput) []models.BatchRow {
	rows := make([]models.BatchRow, 0, len(inputs))
	for _, in := range inputs {
		if ctx.Err() != nil {
			rows = append(rows, models.BatchRow{Row: in.Row, Input: in.Input, Error: ctx.Err().Error()})
			continue
		}

		fc := NewFormController(bs.predictor, bs.logger)
		fc.Load(in.Input)
		fc.ResolveSelections()
		sub := fc.Submit(ctx)

		row := models.BatchRow{Row: in.Row, Input: in.Input, Request: sub.Request, Result: sub.Result}
		if sub.Err != nil {
			row.Error = fc.Error()
		}
		if sub.Result != nil {
			p := Present(sub.Result)
			row.Presentation = &p
		}
		rows = append(rows, row)
	}

	bs.logger.Info("batch prediction finished", zap.Int("rows", len(rows)))
	return rows
}

// WriteWorkbook は一括予測の結果をExcelファイルとして書き出します。
// サマリーと集計軸ごとの内訳は別シートに出力します。
func (bs *BatchService) WriteWorkbook(rows []models.BatchRow, summary BatchSummary) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Predictions"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, err
	}

	header := []interface{}{
		"row", "date", "family", "state", "city", "type_x", "type_y",
		"onpromotion", "dcoilwtico", "transactions", "store_nbr", "cluster",
		"status", "predicted_sales", "demand_level", "recommendation", "error",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, r := range rows {
		in := r.Input
		values := []interface{}{
			r.Row, in.Date, in.Family, in.State, in.City, in.StoreType, in.DayType,
			in.OnPromotion, in.OilPrice, in.Transactions, in.StoreNumber, in.Cluster,
			"", "", "", "", r.Error,
		}
		if r.Result != nil {
			values[12] = r.Result.Status
			values[13] = r.Result.PredictedSales
		}
		if r.Presentation != nil {
			if r.Presentation.State == models.PresentationSuccess {
				values[14] = string(r.Presentation.DemandLevel)
				values[15] = r.Presentation.Recommendation
			} else if r.Error == "" {
				values[16] = r.Presentation.Message
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, err
		}
	}

	if err := writeSummarySheet(f, summary); err != nil {
		return nil, err
	}
	for _, b := range summary.Breakdowns {
		if err := writeBreakdownSheet(f, b); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// writeSummarySheet はサマリーを2列（項目, 値）のシートに書き出します。
func writeSummarySheet(f *excelize.File, s BatchSummary) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	entries := [][]interface{}{
		{"rows", s.Rows},
		{"succeeded", s.Succeeded},
		{"failed", s.Failed},
		{"included", s.Included},
		{string(models.DemandHigh), s.DemandLevel[models.DemandHigh]},
		{string(models.DemandNormal), s.DemandLevel[models.DemandNormal]},
		{string(models.DemandLow), s.DemandLevel[models.DemandLow]},
		{"total_sales", s.Total},
		{"mean_sales", s.Mean},
		{"median_sales", s.Median},
		{"stddev_sales", s.StdDev},
		{"min_sales", s.Min},
		{"max_sales", s.Max},
	}
	for i, entry := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &entry); err != nil {
			return err
		}
	}
	return nil
}

// writeBreakdownSheet は集計軸ごとの内訳を "By <軸>" シートに書き出します。
func writeBreakdownSheet(f *excelize.File, b Breakdown) error {
	sheet := "By " + string(b.Dimension)
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	header := []interface{}{string(b.Dimension), "count", "total_sales", "mean_sales", "share_pct"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i, g := range b.Groups {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{g.Key, g.Count, g.Total, g.Mean, g.Share}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return nil
}

// findIndex finds the index of the first candidate in a slice
func findIndex(slice []string, candidates ...string) int {
	for _, candidate := range candidates {
		for i, item := range slice {
			if strings.EqualFold(strings.TrimSpace(item), candidate) {
				return i
			}
		}
	}
	return -1
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func isRequiredField(field string) bool {
	switch field {
	case "date", "family", "state", "city", "type_x":
		return true
	}
	return false
}
