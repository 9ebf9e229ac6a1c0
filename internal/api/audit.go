package api

import (
	"errors"
	"net/http"

	"cmvboard/internal/audit"
	"cmvboard/internal/models"

	"github.com/gin-gonic/gin"
)

// GetAudit returns the audit session and, while counting, its variances
func (a *DashboardAPI) GetAudit(c *gin.Context) {
	session := a.audit.Session()
	variances, err := a.audit.Variances()
	if err != nil && !errors.Is(err, models.ErrAuditNotStarted) {
		respondError(c, err)
		return
	}
	if variances == nil {
		variances = []audit.Variance{}
	}
	c.JSON(http.StatusOK, gin.H{"session": session, "variances": variances})
}

// StartAudit opens a counting session
func (a *DashboardAPI) StartAudit(c *gin.Context) {
	if err := a.audit.Start(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": a.audit.Session()})
}

// CountRequest carries one physical count
type CountRequest struct {
	Counted *float64 `json:"counted" binding:"required"`
}

// SetAuditCount stores the counted quantity of one ingredient
func (a *DashboardAPI) SetAuditCount(c *gin.Context) {
	var req CountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id := c.Param("ingredientId")
	if err := a.audit.SetCount(id, *req.Counted); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredientId": id, "counted": *req.Counted})
}

// CancelAudit discards the counting session
func (a *DashboardAPI) CancelAudit(c *gin.Context) {
	if err := a.audit.Cancel(); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "audit cancelled"})
}

// FinalizeAudit applies the counts and stores the inventory record
func (a *DashboardAPI) FinalizeAudit(c *gin.Context) {
	record, err := a.audit.Finalize()
	if err != nil {
		respondError(c, err)
		return
	}
	a.events.Publish(EventAuditFinalized, record)
	c.JSON(http.StatusCreated, record)
}
