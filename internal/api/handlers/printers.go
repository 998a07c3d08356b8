package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orrn/printbridge/internal/core"
	"github.com/orrn/printbridge/internal/directory"
)

// PrinterService is the lookup and submission surface handlers depend on.
type PrinterService interface {
	GetPrinter(name string) (*core.PrinterRecord, error)
	ListPrinters() ([]core.PrinterRecord, error)
	Print(name string, data []byte, jobName string) (core.Result, error)
	PrintFile(name, path, jobName string) (core.Result, error)
	PrintPDF(name, path, jobName string) (core.Result, error)
}

type PrinterRegistry interface {
	Register(ctx context.Context, p core.PrinterRecord) error
	Remove(ctx context.Context, name string) error
}

type RegisterPrinterRequest struct {
	Name       string            `json:"name" binding:"required"`
	SystemName string            `json:"system_name"`
	DriverName string            `json:"driver_name"`
	URI        string            `json:"uri"`
	Location   string            `json:"location"`
	IsDefault  bool              `json:"is_default"`
	IsShared   bool              `json:"is_shared"`
	State      core.PrinterState `json:"state"`
}

type PrinterHandler struct {
	printers PrinterService
	registry PrinterRegistry
}

func NewPrinterHandler(printers PrinterService, registry PrinterRegistry) *PrinterHandler {
	return &PrinterHandler{
		printers: printers,
		registry: registry,
	}
}

func (h *PrinterHandler) ListPrinters(c *gin.Context) {
	printers, err := h.printers.ListPrinters()
	if err != nil {
		respondFailure(c, err)
		return
	}
	if printers == nil {
		printers = []core.PrinterRecord{}
	}
	c.JSON(http.StatusOK, printers)
}

func (h *PrinterHandler) GetPrinter(c *gin.Context) {
	p, err := h.printers.GetPrinter(c.Param("name"))
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PrinterHandler) RegisterPrinter(c *gin.Context) {
	var req RegisterPrinterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "validation_error", err.Error())
		return
	}

	record := core.PrinterRecord(req)
	if err := h.registry.Register(c.Request.Context(), record); err != nil {
		respondFailure(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (h *PrinterHandler) RemovePrinter(c *gin.Context) {
	err := h.registry.Remove(c.Request.Context(), c.Param("name"))
	if errors.Is(err, directory.ErrNotRegistered) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   string(core.KindNotFound),
			Message: "Printer is not registered",
		})
		return
	}
	if err != nil {
		respondFailure(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PrinterHandler) RegisterRoutes(r *gin.RouterGroup) {
	printers := r.Group("/printers")
	printers.GET("", h.ListPrinters)
	printers.GET("/:name", h.GetPrinter)
	printers.POST("", h.RegisterPrinter)
	printers.DELETE("/:name", h.RemovePrinter)
}
