package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opengov-in/rti-sahayak/internal/application/classify"
	"github.com/opengov-in/rti-sahayak/internal/domain/request"
	"github.com/opengov-in/rti-sahayak/internal/domain/taxonomy"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/database/redis"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
)

// ClassifyHandler serves the dry-run classification endpoint. Results are
// cached since classification is deterministic for a given catalog.
type ClassifyHandler struct {
	catalog    *taxonomy.Store
	classifier *classify.Classifier
	cache      *redis.Cache
	logger     logging.Logger
}

// NewClassifyHandler builds the handler. cache may be nil.
func NewClassifyHandler(catalog *taxonomy.Store, classifier *classify.Classifier, cache *redis.Cache, logger logging.Logger) *ClassifyHandler {
	return &ClassifyHandler{catalog: catalog, classifier: classifier, cache: cache, logger: logger}
}

type classifyRequest struct {
	QueryText string `json:"query_text"`
}

type classifyResponse struct {
	Classification request.Classification `json:"classification"`
	OfficeID       string                 `json:"office_id,omitempty"`
	OfficeName     string                 `json:"office_name,omitempty"`
}

// Classify handles POST /classify. It runs the classification pipeline
// without creating a request, so citizens can preview the routing.
func (h *ClassifyHandler) Classify(c *gin.Context) {
	var in classifyRequest
	if err := c.ShouldBindJSON(&in); err != nil || strings.TrimSpace(in.QueryText) == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "COMMON_002", Message: "query_text is required"})
		return
	}

	snap := h.catalog.Snapshot()
	key := cacheKey(in.QueryText)

	if h.cache != nil {
		var cached classifyResponse
		if err := h.cache.Get(c.Request.Context(), key, &cached); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	cls := h.classifier.Classify(snap, in.QueryText)
	resp := classifyResponse{Classification: cls}
	if office := previewOffice(snap, cls); office != nil {
		resp.OfficeID = office.ID
		resp.OfficeName = office.Department
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), key, resp); err != nil {
			h.logger.Warn("failed to cache classification", logging.Err(err))
		}
	}
	c.JSON(http.StatusOK, resp)
}

// previewOffice mirrors the router's precedence without the advisory step.
func previewOffice(snap *taxonomy.Snapshot, cls request.Classification) *taxonomy.Office {
	cat := snap.CategoryByID(cls.CategoryID)
	if cat == nil {
		return nil
	}
	if cat.StateSubject && cls.Slots.Region != "" {
		if office := snap.RegionalOffice(cls.Slots.Region, cls.CategoryID); office != nil {
			return office
		}
	}
	return snap.OfficeByID(cat.CentralOfficeID)
}

func cacheKey(queryText string) string {
	sum := sha256.Sum256([]byte(classify.Fold(queryText)))
	return "classify:" + hex.EncodeToString(sum[:8])
}
