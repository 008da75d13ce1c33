package models

// PredictionRequest は予測APIへ送信するリクエストボディです。
// 日付は YYYY-MM-DD に正規化済み、数値フィールドは数値型に変換済みの状態を表します。
type PredictionRequest struct {
	Date         string  `json:"date"`
	Family       string  `json:"family"`
	State        string  `json:"state"`
	City         string  `json:"city"`
	StoreType    string  `json:"type_x"`
	DayType      string  `json:"type_y"`
	OnPromotion  int     `json:"onpromotion"`
	OilPrice     float64 `json:"dcoilwtico"`
	Transactions int     `json:"transactions"`
	StoreNumber  int     `json:"store_nbr"`
	Cluster      int     `json:"cluster"`
}

// PredictionResult represents the body returned by the prediction API.
type PredictionResult struct {
	Status         string  `json:"status"`
	PredictedSales float64 `json:"predicted_sales"`
	Message        string  `json:"message,omitempty"`
}

// IsSuccess reports whether the upstream marked the prediction as successful.
func (r *PredictionResult) IsSuccess() bool {
	return r != nil && r.Status == StatusSuccess
}

// StatusSuccess is the only status value treated as a successful prediction.
const StatusSuccess = "success"

// FormInput はユーザーが入力したままの（型変換前の）フォーム値です。
// HTMLフォーム、CLIフラグ、スプレッドシートのセルはすべてこの形で受け取ります。
type FormInput struct {
	Date         string `json:"date" form:"date"`
	Family       string `json:"family" form:"family"`
	State        string `json:"state" form:"state"`
	City         string `json:"city" form:"city"`
	StoreType    string `json:"type_x" form:"type_x"`
	DayType      string `json:"type_y" form:"type_y"`
	OnPromotion  string `json:"onpromotion" form:"onpromotion"`
	OilPrice     string `json:"dcoilwtico" form:"dcoilwtico"`
	Transactions string `json:"transactions" form:"transactions"`
	StoreNumber  string `json:"store_nbr" form:"store_nbr"`
	Cluster      string `json:"cluster" form:"cluster"`
}

// フォームの初期値
const (
	DefaultDayType      = "Regular Day"
	DefaultOnPromotion  = "0"
	DefaultOilPrice     = "50.0"
	DefaultTransactions = "1000"
	DefaultStoreNumber  = "1"
	DefaultCluster      = "1"
)

// NewFormInput returns the form as it looks when the page first loads.
func NewFormInput() FormInput {
	return FormInput{
		DayType:      DefaultDayType,
		OnPromotion:  DefaultOnPromotion,
		OilPrice:     DefaultOilPrice,
		Transactions: DefaultTransactions,
		StoreNumber:  DefaultStoreNumber,
		Cluster:      DefaultCluster,
	}
}

// DemandLevel 予測売上から導かれる需要区分
type DemandLevel string

const (
	DemandHigh   DemandLevel = "High Demand"
	DemandLow    DemandLevel = "Low Demand"
	DemandNormal DemandLevel = "Normal Demand"
)

// NotificationKind トースト通知の種類
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationWarning NotificationKind = "warning"
	NotificationInfo    NotificationKind = "info"
	NotificationError   NotificationKind = "error"
)

// Notification is a transient, auto-dismissing toast shown after a submission.
type Notification struct {
	Kind        NotificationKind `json:"kind"`
	Icon        string           `json:"icon,omitempty"`
	Headline    string           `json:"headline,omitempty"`
	Body        string           `json:"body"`
	AutoCloseMs int              `json:"auto_close_ms"`
}

// PresentationState 結果カードの表示状態
type PresentationState string

const (
	PresentationEmpty   PresentationState = "empty"
	PresentationError   PresentationState = "error"
	PresentationSuccess PresentationState = "success"
)

// Presentation is everything the result card needs to render one result.
type Presentation struct {
	State          PresentationState `json:"state"`
	DemandLevel    DemandLevel       `json:"demand_level,omitempty"`
	Recommendation string            `json:"recommendation,omitempty"`
	Icon           string            `json:"icon,omitempty"`
	Theme          string            `json:"theme,omitempty"`
	PredictedSales float64           `json:"predicted_sales,omitempty"`
	FormattedSales string            `json:"formatted_sales,omitempty"`
	Message        string            `json:"message,omitempty"`
}

// PredictResponse は /api/v1/predict のレスポンスです。
type PredictResponse struct {
	Success      bool               `json:"success"`
	Request      *PredictionRequest `json:"request,omitempty"`
	Result       *PredictionResult  `json:"result,omitempty"`
	Presentation *Presentation      `json:"presentation,omitempty"`
	Notification *Notification      `json:"notification,omitempty"`
	Error        string             `json:"error,omitempty"`
}

// BatchInput はアップロードされたファイルの1行分の入力です。
// Row はシート上の行番号（ヘッダーが1行目）です。
type BatchInput struct {
	Row   int       `json:"row"`
	Input FormInput `json:"input"`
}

// BatchRow is one spreadsheet row after it went through the form controller.
type BatchRow struct {
	Row          int                `json:"row"`
	Input        FormInput          `json:"input"`
	Request      *PredictionRequest `json:"request,omitempty"`
	Result       *PredictionResult  `json:"result,omitempty"`
	Presentation *Presentation      `json:"presentation,omitempty"`
	Error        string             `json:"error,omitempty"`
}
