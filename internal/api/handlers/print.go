package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orrn/printbridge/internal/core"
)

// PrintRawRequest carries either text or base64 bytes. DataBase64 wins when
// both are set.
type PrintRawRequest struct {
	Printer    string `json:"printer"`
	Text       string `json:"text"`
	DataBase64 string `json:"data_base64"`
	JobName    string `json:"job_name"`
}

type PrintFileRequest struct {
	Printer string `json:"printer"`
	Path    string `json:"path"`
	JobName string `json:"job_name"`
}

type PrintResponse struct {
	Printed      bool   `json:"printed"`
	Printer      string `json:"printer"`
	JobName      string `json:"job_name"`
	BytesWritten int    `json:"bytes_written"`
}

type PrintHandler struct {
	printers PrinterService
}

func NewPrintHandler(printers PrinterService) *PrintHandler {
	return &PrintHandler{printers: printers}
}

func (h *PrintHandler) respond(c *gin.Context, printer string, res core.Result, err error) {
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, PrintResponse{
		Printed:      res.Printed,
		Printer:      printer,
		JobName:      res.JobName,
		BytesWritten: res.BytesWritten,
	})
}

func (h *PrintHandler) PrintRaw(c *gin.Context) {
	var req PrintRawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "validation_error", err.Error())
		return
	}

	data := []byte(req.Text)
	if req.DataBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.DataBase64)
		if err != nil {
			badRequest(c, string(core.KindInvalidInput), "data_base64 is not valid base64")
			return
		}
		data = decoded
	}

	res, err := h.printers.Print(req.Printer, data, req.JobName)
	h.respond(c, req.Printer, res, err)
}

func (h *PrintHandler) PrintFile(c *gin.Context) {
	var req PrintFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "validation_error", err.Error())
		return
	}

	res, err := h.printers.PrintFile(req.Printer, req.Path, req.JobName)
	h.respond(c, req.Printer, res, err)
}

func (h *PrintHandler) PrintPDF(c *gin.Context) {
	var req PrintFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "validation_error", err.Error())
		return
	}

	res, err := h.printers.PrintPDF(req.Printer, req.Path, req.JobName)
	h.respond(c, req.Printer, res, err)
}

func (h *PrintHandler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/print")
	group.POST("/raw", h.PrintRaw)
	group.POST("/file", h.PrintFile)
	group.POST("/pdf", h.PrintPDF)
}
