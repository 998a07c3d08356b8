package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orrn/printbridge/internal/db"
)

type SubmissionListResponse struct {
	Submissions []*db.Submission `json:"submissions"`
	Limit       int              `json:"limit"`
	Offset      int              `json:"offset"`
}

type SubmissionHandler struct {
	submissions *db.SubmissionOperations
}

func NewSubmissionHandler(submissions *db.SubmissionOperations) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// ListSubmissions accepts printer, kind, success, limit and offset query
// parameters.
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	filter := db.SubmissionFilter{
		Printer: c.Query("printer"),
		Kind:    c.Query("kind"),
		Limit:   50,
	}

	if s := c.Query("success"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			badRequest(c, "invalid_filter", "success must be true or false")
			return
		}
		filter.Success = &v
	}

	if s := c.Query("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 500 {
			badRequest(c, "invalid_filter", "limit must be between 1 and 500")
			return
		}
		filter.Limit = v
	}

	if s := c.Query("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			badRequest(c, "invalid_filter", "offset must be a non-negative integer")
			return
		}
		filter.Offset = v
	}

	subs, err := h.submissions.ListSubmissions(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to retrieve submissions",
		})
		return
	}
	if subs == nil {
		subs = []*db.Submission{}
	}

	c.JSON(http.StatusOK, SubmissionListResponse{
		Submissions: subs,
		Limit:       filter.Limit,
		Offset:      filter.Offset,
	})
}

func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	s, err := h.submissions.GetSubmission(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Error:   "not_found",
				Message: "Submission not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "database_error",
			Message: "Failed to retrieve submission",
		})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *SubmissionHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/submissions", h.ListSubmissions)
	r.GET("/submissions/:id", h.GetSubmission)
}
