package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"sales-forecast-web/pkg/services"

	"github.com/gin-gonic/gin"
)

// defaultDashboardPeriod period 未指定時の集計期間
const defaultDashboardPeriod = "24h"

// dashboardPeriods maps the accepted period values to hours.
var dashboardPeriods = map[string]int{
	"1h":  1,
	"24h": 24,
	"7d":  24 * 7,
}

// MonitoringHandler serves the request log dashboard of this server.
type MonitoringHandler struct {
	monitor *services.MonitoringService
}

// NewMonitoringHandler はリクエストログ集計のハンドラーを作成します。
func NewMonitoringHandler(monitor *services.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{monitor: monitor}
}

// GetLogs は period (1h, 24h, 7d) のリクエストログ集計を返します。
func (mh *MonitoringHandler) GetLogs(c *gin.Context) {
	hours, err := periodHours(c.Query("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, mh.monitor.GetDashboardData(hours))
}

func periodHours(period string) (int, error) {
	if period == "" {
		period = defaultDashboardPeriod
	}
	if hours, ok := dashboardPeriods[period]; ok {
		return hours, nil
	}

	accepted := make([]string, 0, len(dashboardPeriods))
	for p := range dashboardPeriods {
		accepted = append(accepted, p)
	}
	sort.Strings(accepted)
	return 0, fmt.Errorf("unknown period %q: use one of %s", period, strings.Join(accepted, ", "))
}
