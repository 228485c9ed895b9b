package api

import (
	"errors"
	"net/http"
	"strconv"

	"DebateSync/internal/interfaces"
	"DebateSync/internal/repository"
	"DebateSync/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SnapshotHandler 快照任务触发与查询接口
type SnapshotHandler struct {
	snapshotService *service.SnapshotService
	repo            repository.SnapshotRepository
	logger          *logrus.Logger
}

// NewSnapshotHandler 创建 SnapshotHandler
func NewSnapshotHandler(db *gorm.DB, reader interfaces.DebateReader, logger *logrus.Logger, maxDebates, topParticipants int) *SnapshotHandler {
	repo := repository.NewSnapshotRepository(db)
	return &SnapshotHandler{
		snapshotService: service.NewSnapshotService(reader, repo, logger, maxDebates, topParticipants),
		repo:            repo,
		logger:          logger,
	}
}

// RunSnapshot 手动触发一次快照（周期调度由部署方 cron 调用本接口）
// POST /sync/snapshot
func (h *SnapshotHandler) RunSnapshot(c *gin.Context) {
	batchID, err := h.snapshotService.Run(c.Request.Context())
	if err != nil {
		h.logger.Errorf("快照失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "快照成功",
		"batch_id": batchID,
	})
}

// GetLatestSnapshot 最近一次快照的平台聚合行 + 辩论/战绩行
// GET /api/snapshots/latest?page=1&page_size=20
func (h *SnapshotHandler) GetLatestSnapshot(c *gin.Context) {
	ctx := c.Request.Context()
	batchID, err := h.repo.LatestBatchID(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "暂无快照"})
			return
		}
		h.logger.WithError(err).Error("LatestBatchID failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	platform, err := h.repo.GetPlatformSnapshot(ctx, batchID)
	if err != nil {
		h.logger.WithError(err).Error("GetPlatformSnapshot failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	page, pageSize := parsePage(c)
	debates, debateTotal, err := h.repo.ListDebateSnapshots(ctx, batchID, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListDebateSnapshots failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	agents, agentTotal, err := h.repo.ListAgentSnapshots(ctx, batchID, page, pageSize)
	if err != nil {
		h.logger.WithError(err).Error("ListAgentSnapshots failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"batch_id":     batchID,
		"platform":     platform,
		"debates":      gin.H{"total": debateTotal, "items": debates},
		"agents":       gin.H{"total": agentTotal, "items": agents},
		"generated_at": platform.CreatedAt,
	})
}

// parsePage 从 query 解析分页参数
func parsePage(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}
