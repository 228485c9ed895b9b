package api

import (
	"net/http"
	"strconv"
	"strings"

	"DebateSync/internal/interfaces"
	"DebateSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DashboardHandler 提供给前端仪表盘的实时查询接口
type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *logrus.Logger
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(reader interfaces.DebateReader, logger *logrus.Logger) *DashboardHandler {
	svc := service.NewDashboardService(reader, logger)
	return &DashboardHandler{
		dashboardService: svc,
		logger:           logger,
	}
}

// GetPlatformStats 平台总览接口
// GET /api/platform/stats
func (h *DashboardHandler) GetPlatformStats(c *gin.Context) {
	result, err := h.dashboardService.PlatformOverview(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("PlatformOverview failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListDebates 辩论列表接口
// GET /api/debates?scope=all&page=1&page_size=20
func (h *DashboardHandler) ListDebates(c *gin.Context) {
	scope := c.DefaultQuery("scope", "all")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.dashboardService.ListDebates(c.Request.Context(), scope, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListDebates failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetDebateDetail 辩论详情 + 参与者名册
// GET /api/debates/:address
func (h *DashboardHandler) GetDebateDetail(c *gin.Context) {
	address := c.Param("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address is required"})
		return
	}

	result, err := h.dashboardService.DebateDetail(c.Request.Context(), address)
	if err != nil {
		h.logger.WithError(err).WithField("address", address).Error("GetDebateDetail failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListParticipants 全平台参与者名册
// GET /api/participants?max_results=100
func (h *DashboardHandler) ListParticipants(c *gin.Context) {
	maxResults, _ := strconv.Atoi(c.DefaultQuery("max_results", "0"))

	result, err := h.dashboardService.Participants(c.Request.Context(), maxResults)
	if err != nil {
		h.logger.WithError(err).Error("ListParticipants failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": result})
}

// ListCreators 全平台去重创建者
// GET /api/creators
func (h *DashboardHandler) ListCreators(c *gin.Context) {
	result, err := h.dashboardService.Creators(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("ListCreators failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": result})
}

// ListAgents 批量用户战绩
// GET /api/agents?addresses=0x..,0x..
func (h *DashboardHandler) ListAgents(c *gin.Context) {
	raw := c.Query("addresses")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "addresses is required"})
		return
	}
	var addresses []string
	for _, a := range strings.Split(raw, ",") {
		if a = strings.TrimSpace(a); a != "" {
			addresses = append(addresses, a)
		}
	}

	result, err := h.dashboardService.Agents(c.Request.Context(), addresses)
	if err != nil {
		h.logger.WithError(err).Error("ListAgents failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": result})
}
