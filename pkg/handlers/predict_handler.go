package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"sales-forecast-web/pkg/catalog"
	"sales-forecast-web/pkg/models"
	"sales-forecast-web/pkg/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PredictHandler 予測APIハンドラー
type PredictHandler struct {
	predictor    services.Predictor
	batchService *services.BatchService
	logger       *zap.Logger
}

// NewPredictHandler 新しい予測APIハンドラーを作成
func NewPredictHandler(predictor services.Predictor, logger *zap.Logger) *PredictHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictHandler{
		predictor:    predictor,
		batchService: services.NewBatchService(predictor, logger),
		logger:       logger,
	}
}

// Predict はJSONで受け取ったフォーム値で予測を実行します。
// 数値フィールドは数値・文字列のどちらでも受け付けます。
func (ph *PredictHandler) Predict(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, models.PredictResponse{
			Error: "リクエストの解析に失敗しました: " + err.Error(),
		})
		return
	}

	fc := services.NewFormController(ph.predictor, ph.logger)
	for name, raw := range body {
		value, err := stringify(raw)
		if err == nil {
			err = fc.SetField(name, value)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, models.PredictResponse{Error: err.Error()})
			return
		}
	}
	fc.ResolveSelections()

	sub := fc.Submit(c.Request.Context())
	resp := models.PredictResponse{
		Request:      sub.Request,
		Result:       sub.Result,
		Notification: sub.Notification,
	}
	if sub.Result != nil {
		p := services.Present(sub.Result)
		resp.Presentation = &p
		resp.Success = sub.Result.IsSuccess()
	}
	if sub.Err != nil {
		resp.Error = fc.Error()
	}
	c.JSON(statusFor(sub.Err), resp)
}

// Catalog returns the options of one selector filtered by the q parameter.
func (ph *PredictHandler) Catalog(c *gin.Context) {
	selector := catalog.Selector(c.Param("selector"))
	options, ok := catalog.Values(selector)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("unknown selector %q", selector),
		})
		return
	}

	query := c.Query("q")
	resp := gin.H{
		"selector": selector,
		"query":    query,
		"options":  catalog.Filter(options, query),
	}
	if selector == catalog.SelectorStoreType {
		resp["labels"] = catalog.StoreTypes
	}
	c.JSON(http.StatusOK, resp)
}

// PredictBatch はアップロードされた.xlsx/.csvの各行を予測し、結果を返します。
// format=json の場合はJSON、それ以外はExcelファイルで返します。
func (ph *PredictHandler) PredictBatch(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(10 << 20); err != nil { // 10MB limit
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse upload: " + err.Error()})
		return
	}

	file, fileHeader, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	opts, err := summaryOptions(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inputs, err := ph.batchService.ReadRows(fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows := ph.batchService.Run(c.Request.Context(), inputs)
	summary := services.Summarize(rows, opts)

	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"count":   len(rows),
			"rows":    rows,
			"summary": summary,
		})
		return
	}

	f, err := ph.batchService.WriteWorkbook(rows, summary)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build workbook: " + err.Error()})
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="predictions.xlsx"`)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		ph.logger.Error("failed to write workbook", zap.Error(err))
	}
}

// summaryOptions はクエリ (top, sort, promo_min, promo_max) から集計オプションを組み立てます。
func summaryOptions(c *gin.Context) (services.SummaryOptions, error) {
	opts := services.DefaultSummaryOptions()
	if v := c.Query("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("top must be an integer: %q", v)
		}
		opts.TopN = n
	}
	if v := c.Query("sort"); v != "" {
		opts.SortBy = v
	}
	for _, q := range []struct {
		name string
		dst  **int
	}{
		{"promo_min", &opts.PromotionMin},
		{"promo_max", &opts.PromotionMax},
	} {
		v := c.Query(q.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("%s must be an integer: %q", q.name, v)
		}
		*q.dst = &n
	}
	return opts, opts.Validate()
}

func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, services.ErrSubmissionInFlight):
		return http.StatusConflict
	case services.IsValidationError(err):
		return http.StatusBadRequest
	default:
		// 予測API側のエラー、または通信エラー
		return http.StatusBadGateway
	}
}

func stringify(raw interface{}) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("unsupported value type %T", raw)
	}
}
