package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"sales-forecast-web/pkg/models"
)

// Dimension is a request attribute predicted sales can be grouped by.
type Dimension string

// 集計軸
const (
	DimensionFamily    Dimension = "family"
	DimensionCity      Dimension = "city"
	DimensionState     Dimension = "state"
	DimensionStoreType Dimension = "type_x"
	DimensionDayType   Dimension = "type_y"
	DimensionCluster   Dimension = "cluster"
	DimensionMonth     Dimension = "month"
	DimensionWeekday   Dimension = "day_of_week"
)

// breakdownDimensions is the order breakdowns appear in.
var breakdownDimensions = []Dimension{
	DimensionFamily,
	DimensionCity,
	DimensionState,
	DimensionStoreType,
	DimensionDayType,
	DimensionCluster,
	DimensionMonth,
	DimensionWeekday,
}

// 並び替えの指標
const (
	SortByTotal = "total"
	SortByMean  = "mean"
)

// DefaultTopN 商品ファミリー・都市の上位件数
const DefaultTopN = 10

// SummaryOptions control how a batch is summarized.
type SummaryOptions struct {
	// TopN limits the family and city breakdowns; 0 keeps every group.
	TopN int `json:"top_n"`
	// SortBy orders the family, city, state, store type and day type
	// breakdowns by total or mean predicted sales.
	SortBy string `json:"sort_by"`
	// PromotionMin / PromotionMax restrict the aggregated rows to an
	// inclusive onpromotion range. nil leaves that side open.
	PromotionMin *int `json:"promotion_min,omitempty"`
	PromotionMax *int `json:"promotion_max,omitempty"`
}

// DefaultSummaryOptions 上位10件・合計順
func DefaultSummaryOptions() SummaryOptions {
	return SummaryOptions{TopN: DefaultTopN, SortBy: SortByTotal}
}

// Validate はオプションの値を検証します。
func (o SummaryOptions) Validate() error {
	if o.TopN < 0 {
		return fmt.Errorf("top must be 0 or greater")
	}
	if o.SortBy != SortByTotal && o.SortBy != SortByMean {
		return fmt.Errorf("sort must be %q or %q", SortByTotal, SortByMean)
	}
	if o.PromotionMin != nil && o.PromotionMax != nil && *o.PromotionMin > *o.PromotionMax {
		return fmt.Errorf("promo_min must not be greater than promo_max")
	}
	return nil
}

func (o SummaryOptions) inPromotionRange(onPromotion int) bool {
	if o.PromotionMin != nil && onPromotion < *o.PromotionMin {
		return false
	}
	if o.PromotionMax != nil && onPromotion > *o.PromotionMax {
		return false
	}
	return true
}

func (o SummaryOptions) hasPromotionRange() bool {
	return o.PromotionMin != nil || o.PromotionMax != nil
}

// GroupStat is the predicted sales of one group within a breakdown.
type GroupStat struct {
	Key   string  `json:"key"`
	Count int     `json:"count"`
	Total float64 `json:"total_sales"`
	Mean  float64 `json:"mean_sales"`
	// Share of the included total, in percent.
	Share float64 `json:"share_pct"`
}

// Breakdown 集計軸ごとの内訳
type Breakdown struct {
	Dimension Dimension   `json:"dimension"`
	Groups    []GroupStat `json:"groups"`
}

// BatchSummary 一括予測結果の統計サマリー
type BatchSummary struct {
	Options     SummaryOptions             `json:"options"`
	Rows        int                        `json:"rows"`
	Succeeded   int                        `json:"succeeded"`
	Failed      int                        `json:"failed"`
	Included    int                        `json:"included"`
	DemandLevel map[models.DemandLevel]int `json:"demand_levels"`
	Total       float64                    `json:"total_sales"`
	Mean        float64                    `json:"mean_sales"`
	Median      float64                    `json:"median_sales"`
	StdDev      float64                    `json:"stddev_sales"`
	Min         float64                    `json:"min_sales"`
	Max         float64                    `json:"max_sales"`
	Breakdowns  []Breakdown                `json:"breakdowns"`
}

// Summarize aggregates the successful predictions of a batch.
// Rows, Succeeded and Failed describe the whole batch; the sales statistics,
// demand levels and breakdowns cover the successful rows inside the
// promotion range (Included).
func Summarize(rows []models.BatchRow, opts SummaryOptions) BatchSummary {
	summary := BatchSummary{
		Options: opts,
		Rows:    len(rows),
		DemandLevel: map[models.DemandLevel]int{
			models.DemandHigh:   0,
			models.DemandNormal: 0,
			models.DemandLow:    0,
		},
		Breakdowns: make([]Breakdown, 0, len(breakdownDimensions)),
	}

	included := make([]models.BatchRow, 0, len(rows))
	for _, r := range rows {
		if !r.Result.IsSuccess() {
			summary.Failed++
			continue
		}
		summary.Succeeded++
		if opts.hasPromotionRange() && (r.Request == nil || !opts.inPromotionRange(r.Request.OnPromotion)) {
			continue
		}
		included = append(included, r)
	}
	summary.Included = len(included)
	if len(included) == 0 {
		return summary
	}

	sales := make([]float64, 0, len(included))
	summary.Min = math.MaxFloat64
	summary.Max = -math.MaxFloat64
	for _, r := range included {
		v := r.Result.PredictedSales
		sales = append(sales, v)
		summary.Total += v
		summary.Min = math.Min(summary.Min, v)
		summary.Max = math.Max(summary.Max, v)
		summary.DemandLevel[ClassifyDemand(v)]++
	}
	summary.Mean = calculateMean(sales)
	summary.StdDev = calculateStandardDeviation(sales)
	summary.Median = calculateMedian(sales)

	for _, dim := range breakdownDimensions {
		summary.Breakdowns = append(summary.Breakdowns, breakdown(included, dim, summary.Total, opts))
	}
	return summary
}

// breakdown は1つの集計軸で予測売上をグループ化します。
func breakdown(rows []models.BatchRow, dim Dimension, grandTotal float64, opts SummaryOptions) Breakdown {
	index := make(map[string]int)
	groups := make([]GroupStat, 0)
	for _, r := range rows {
		if r.Request == nil {
			continue
		}
		key, ok := dimensionKey(*r.Request, dim)
		if !ok {
			continue
		}
		i, seen := index[key]
		if !seen {
			i = len(groups)
			index[key] = i
			groups = append(groups, GroupStat{Key: key})
		}
		groups[i].Count++
		groups[i].Total += r.Result.PredictedSales
	}

	for i := range groups {
		groups[i].Mean = groups[i].Total / float64(groups[i].Count)
		if grandTotal > 0 {
			groups[i].Share = groups[i].Total / grandTotal * 100
		}
	}

	switch dim {
	case DimensionCluster:
		sort.Slice(groups, func(a, b int) bool {
			x, _ := strconv.Atoi(groups[a].Key)
			y, _ := strconv.Atoi(groups[b].Key)
			return x < y
		})
	case DimensionMonth:
		sort.Slice(groups, func(a, b int) bool { return groups[a].Key < groups[b].Key })
	case DimensionWeekday:
		sort.Slice(groups, func(a, b int) bool {
			return weekdayOrder(groups[a].Key) < weekdayOrder(groups[b].Key)
		})
	default:
		sort.SliceStable(groups, func(a, b int) bool {
			x, y := groups[a].Total, groups[b].Total
			if opts.SortBy == SortByMean {
				x, y = groups[a].Mean, groups[b].Mean
			}
			if x != y {
				return x > y
			}
			return groups[a].Key < groups[b].Key
		})
		if (dim == DimensionFamily || dim == DimensionCity) && opts.TopN > 0 && len(groups) > opts.TopN {
			groups = groups[:opts.TopN]
		}
	}
	return Breakdown{Dimension: dim, Groups: groups}
}

func dimensionKey(req models.PredictionRequest, dim Dimension) (string, bool) {
	switch dim {
	case DimensionFamily:
		return req.Family, true
	case DimensionCity:
		return req.City, true
	case DimensionState:
		return req.State, true
	case DimensionStoreType:
		return req.StoreType, true
	case DimensionDayType:
		return req.DayType, true
	case DimensionCluster:
		return strconv.Itoa(req.Cluster), true
	case DimensionMonth, DimensionWeekday:
		t, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return "", false
		}
		if dim == DimensionMonth {
			return t.Format("2006-01"), true
		}
		return t.Weekday().String(), true
	}
	return "", false
}

// weekdayOrder 月曜始まりの並び順
func weekdayOrder(name string) int {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String() == name {
			return (int(d) + 6) % 7
		}
	}
	return 7
}

// calculateMean パッケージ内部用のヘルパー関数：平均値を計算
func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// calculateStandardDeviation 母標準偏差を計算
func calculateStandardDeviation(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := calculateMean(values)
	sumSquaredDiff := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}
	return math.Sqrt(sumSquaredDiff / float64(len(values)))
}

func calculateMedian(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
