package handlers

import (
	"html/template"
	"net/http"

	config "sales-forecast-web/configs"
	"sales-forecast-web/pkg/models"
	"sales-forecast-web/pkg/services"
	"sales-forecast-web/pkg/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PageHandler ランディングページのハンドラー
type PageHandler struct {
	predictor services.Predictor
	content   *config.PageContent
	tmpl      *template.Template
	logger    *zap.Logger
}

// NewPageHandler 新しいランディングページハンドラーを作成
func NewPageHandler(predictor services.Predictor, content *config.PageContent, tmpl *template.Template, logger *zap.Logger) *PageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageHandler{
		predictor: predictor,
		content:   content,
		tmpl:      tmpl,
		logger:    logger,
	}
}

// Index renders the page with an empty form.
func (ph *PageHandler) Index(c *gin.Context) {
	fc := services.NewFormController(ph.predictor, ph.logger)
	ph.render(c, web.BuildPage(ph.content, fc, c.Query("menu") == "open"))
}

// SubmitForm はHTMLフォームの送信を処理し、入力値と結果を含むページを返します。
func (ph *PageHandler) SubmitForm(c *gin.Context) {
	input := models.NewFormInput()
	if err := c.ShouldBind(&input); err != nil {
		c.String(http.StatusBadRequest, "invalid form submission: %v", err)
		return
	}

	fc := services.NewFormController(ph.predictor, ph.logger)
	fc.Load(input)
	fc.ResolveSelections()
	fc.Submit(c.Request.Context())

	ph.render(c, web.BuildPage(ph.content, fc, false))
}

// render はページ全体を組み立ててから送信します。テンプレートの失敗時は500を返します。
func (ph *PageHandler) render(c *gin.Context, view web.PageView) {
	body, err := web.RenderPage(ph.tmpl, view)
	if err != nil {
		ph.logger.Error("page rendering failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "page could not be rendered")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}
