package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"sales-forecast-web/pkg/catalog"
	"sales-forecast-web/pkg/models"

	"go.uber.org/zap"
)

// searchableSelectors are the selectors that offer free-text search.
var searchableSelectors = []catalog.Selector{
	catalog.SelectorFamily,
	catalog.SelectorCity,
	catalog.SelectorState,
}

// Submission は1回の送信の結果です。
type Submission struct {
	Request      *models.PredictionRequest
	Result       *models.PredictionResult
	Notification *models.Notification
	Err          error
}

// FormController owns the state of one prediction form: field values, the
// search text of each searchable selector and the outcome of the last submit.
type FormController struct {
	predictor Predictor
	logger    *zap.Logger

	busy atomic.Bool

	mu           sync.Mutex
	form         models.FormInput
	searches     map[catalog.Selector]string
	errMsg       string
	result       *models.PredictionResult
	notification *models.Notification
}

// NewFormController 初期値の入ったフォームでコントローラーを作成
func NewFormController(predictor Predictor, logger *zap.Logger) *FormController {
	if logger == nil {
		logger = zap.NewNop()
	}
	fc := &FormController{
		predictor: predictor,
		logger:    logger,
		form:      models.NewFormInput(),
		searches:  make(map[catalog.Selector]string, len(searchableSelectors)),
	}
	for _, s := range searchableSelectors {
		fc.searches[s] = ""
	}
	return fc
}

// Load replaces every field with input, e.g. the values of a posted form.
func (fc *FormController) Load(input models.FormInput) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.form = input
}

// Form returns a copy of the current field values.
func (fc *FormController) Form() models.FormInput {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.form
}

// SetField はJSON名で指定されたフィールドを更新します。
func (fc *FormController) SetField(name, value string) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	field := fieldPointer(&fc.form, name)
	if field == nil {
		return fmt.Errorf("unknown form field %q", name)
	}
	*field = value
	return nil
}

// Search sets the search text of a selector and returns the matching options.
func (fc *FormController) Search(selector catalog.Selector, text string) ([]string, error) {
	options, err := searchableOptions(selector)
	if err != nil {
		return nil, err
	}

	fc.mu.Lock()
	fc.searches[selector] = text
	fc.mu.Unlock()

	return catalog.Filter(options, text), nil
}

// Options returns the options of a selector filtered by its current search text.
func (fc *FormController) Options(selector catalog.Selector) ([]string, error) {
	options, err := searchableOptions(selector)
	if err != nil {
		return nil, err
	}

	fc.mu.Lock()
	text := fc.searches[selector]
	fc.mu.Unlock()

	return catalog.Filter(options, text), nil
}

// SearchText 検索欄の現在の文字列
func (fc *FormController) SearchText(selector catalog.Selector) string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.searches[selector]
}

// DisplayValue is what the selector's input box shows: the selected value,
// or the search text while nothing is selected.
func (fc *FormController) DisplayValue(selector catalog.Selector) string {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if field := fieldPointer(&fc.form, string(selector)); field != nil && *field != "" {
		return *field
	}
	return fc.searches[selector]
}

// Select sets the selector's field to option and clears only that selector's
// search text.
func (fc *FormController) Select(selector catalog.Selector, option string) error {
	options, err := searchableOptions(selector)
	if err != nil {
		return err
	}
	if !catalog.Contains(options, option) {
		return fmt.Errorf("%q is not a valid %s", option, selector)
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	*fieldPointer(&fc.form, string(selector)) = option
	fc.searches[selector] = ""
	return nil
}

// ResolveSelections treats the value of each searchable field as a selection
// only when it names a catalog option (ignoring case). Any other text becomes
// that selector's search text and the field is left empty, as if the user had
// typed without picking an option.
func (fc *FormController) ResolveSelections() {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	for _, selector := range searchableSelectors {
		field := fieldPointer(&fc.form, string(selector))
		value := strings.TrimSpace(*field)
		if value == "" {
			continue
		}
		options, _ := catalog.Values(selector)
		if i := findIndex(options, value); i >= 0 {
			*field = options[i]
			fc.searches[selector] = ""
			continue
		}
		*field = ""
		fc.searches[selector] = value
	}
}

// Busy reports whether a submission is in flight.
func (fc *FormController) Busy() bool {
	return fc.busy.Load()
}

// Error 直近の送信で表示するエラーメッセージ
func (fc *FormController) Error() string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.errMsg
}

// Result 直近の予測結果（未送信ならnil）
func (fc *FormController) Result() *models.PredictionResult {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.result
}

// Notification 直近の送信で出すトースト（なければnil）
func (fc *FormController) Notification() *models.Notification {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.notification
}

// Submit validates the form, posts it to the prediction API once and records
// the outcome. A call made while another Submit is running returns
// ErrSubmissionInFlight without touching the network or the stored outcome.
func (fc *FormController) Submit(ctx context.Context) *Submission {
	if !fc.busy.CompareAndSwap(false, true) {
		return &Submission{Err: ErrSubmissionInFlight}
	}
	defer fc.busy.Store(false)

	fc.mu.Lock()
	fc.errMsg = ""
	fc.result = nil
	fc.notification = nil
	form := fc.form
	fc.mu.Unlock()

	if missing := MissingRequiredFields(form); len(missing) > 0 {
		err := &ValidationError{Fields: missing, Message: MsgRequiredFields}
		fc.record(nil, nil, err)
		return &Submission{Err: err}
	}

	req, err := BuildPredictionRequest(form)
	if err != nil {
		n := fc.record(nil, nil, err)
		return &Submission{Notification: n, Err: err}
	}

	fc.logger.Debug("sending prediction request",
		zap.String("date", req.Date),
		zap.String("family", req.Family),
		zap.Int("store_nbr", req.StoreNumber))

	result, err := fc.predictor.Predict(ctx, req)
	if err != nil {
		fc.logger.Warn("prediction failed", zap.Error(err))
		n := fc.record(nil, nil, err)
		return &Submission{Request: &req, Notification: n, Err: err}
	}

	n := fc.record(result, SuccessNotification(result), nil)
	return &Submission{Request: &req, Result: result, Notification: n}
}

// record は送信結果を保存し、表示するトーストを返します。
// 必須項目エラーはインライン表示のみでトーストは出しません。
func (fc *FormController) record(result *models.PredictionResult, n *models.Notification, err error) *models.Notification {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	if err != nil {
		fc.errMsg = errorMessage(err)
		if ve, ok := err.(*ValidationError); !ok || ve.Message != MsgRequiredFields {
			n = ErrorNotification(fc.errMsg)
		}
	}
	fc.result = result
	fc.notification = n
	return n
}

func searchableOptions(selector catalog.Selector) ([]string, error) {
	for _, s := range searchableSelectors {
		if s == selector {
			options, _ := catalog.Values(selector)
			return options, nil
		}
	}
	return nil, fmt.Errorf("%q is not a searchable selector", selector)
}

func fieldPointer(form *models.FormInput, name string) *string {
	switch name {
	case "date":
		return &form.Date
	case "family":
		return &form.Family
	case "state":
		return &form.State
	case "city":
		return &form.City
	case "type_x":
		return &form.StoreType
	case "type_y":
		return &form.DayType
	case "onpromotion":
		return &form.OnPromotion
	case "dcoilwtico":
		return &form.OilPrice
	case "transactions":
		return &form.Transactions
	case "store_nbr":
		return &form.StoreNumber
	case "cluster":
		return &form.Cluster
	}
	return nil
}
