package handler

import (
	"net/http"

	"studio8/internal/models"
	"studio8/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CatalogHandler is the back-office catalog editor. Edits never touch existing bookings,
// which hold their own snapshots.
type CatalogHandler struct {
	repo  *repository.CatalogRepository
	audit auditor
	log   *logrus.Entry
}

func NewCatalogHandler(repo *repository.CatalogRepository, auditRepo *repository.AuditLogRepository, logger *logrus.Logger) *CatalogHandler {
	log := logger.WithField("component", "catalog")
	return &CatalogHandler{repo: repo, audit: auditor{repo: auditRepo, log: log}, log: log}
}

type subPackageInput struct {
	ID          string `json:"id"`
	Name        string `json:"name" binding:"required,max=150"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"gte=0"`
}

type packageRequest struct {
	Name           string            `json:"name" binding:"required,max=150"`
	Description    string            `json:"description"`
	IsGroupPackage bool              `json:"is_group_package"`
	IsActive       *bool             `json:"is_active"`
	ImageURL       string            `json:"image_url" binding:"max=512"`
	SubPackages    []subPackageInput `json:"sub_packages" binding:"required,min=1,dive"`
}

type subAddOnInput struct {
	ID    string `json:"id"`
	Name  string `json:"name" binding:"required,max=150"`
	Price int64  `json:"price" binding:"gte=0"`
}

type addOnRequest struct {
	Name      string          `json:"name" binding:"required,max=150"`
	IsActive  *bool           `json:"is_active"`
	SubAddOns []subAddOnInput `json:"sub_add_ons" binding:"required,min=1,dive"`
}

func (h *CatalogHandler) ListPackages(c *gin.Context) {
	list, err := h.repo.ListPackages(c.Request.Context(), true)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"packages": list})
}

func (h *CatalogHandler) CreatePackage(c *gin.Context) { h.savePackage(c, "", http.StatusCreated) }

func (h *CatalogHandler) UpdatePackage(c *gin.Context) { h.savePackage(c, c.Param("id"), http.StatusOK) }

func (h *CatalogHandler) savePackage(c *gin.Context, id string, status int) {
	var req packageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p := &models.Package{
		ID:             id,
		Name:           req.Name,
		Description:    req.Description,
		IsGroupPackage: req.IsGroupPackage,
		IsActive:       req.IsActive == nil || *req.IsActive,
		ImageURL:       req.ImageURL,
	}
	for _, s := range req.SubPackages {
		p.SubPackages = append(p.SubPackages, models.SubPackage{ID: s.ID, Name: s.Name, Description: s.Description, Price: s.Price})
	}
	if err := h.repo.SavePackage(c.Request.Context(), p); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.audit.record(c, "package_save", "package", p.ID, nil)
	c.JSON(status, gin.H{"package": p})
}

func (h *CatalogHandler) DeletePackage(c *gin.Context) {
	id := c.Param("id")
	if err := h.repo.DeletePackage(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.audit.record(c, "package_delete", "package", id, nil)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *CatalogHandler) ListAddOns(c *gin.Context) {
	list, err := h.repo.ListAllAddOns(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"add_ons": list})
}

func (h *CatalogHandler) CreateAddOn(c *gin.Context) { h.saveAddOn(c, "", http.StatusCreated) }

func (h *CatalogHandler) UpdateAddOn(c *gin.Context) { h.saveAddOn(c, c.Param("id"), http.StatusOK) }

func (h *CatalogHandler) saveAddOn(c *gin.Context, id string, status int) {
	var req addOnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	a := &models.AddOn{ID: id, Name: req.Name, IsActive: req.IsActive == nil || *req.IsActive}
	for _, s := range req.SubAddOns {
		a.SubAddOns = append(a.SubAddOns, models.SubAddOn{ID: s.ID, Name: s.Name, Price: s.Price})
	}
	if err := h.repo.SaveAddOn(c.Request.Context(), a); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.audit.record(c, "add_on_save", "add_on", a.ID, nil)
	c.JSON(status, gin.H{"add_on": a})
}

func (h *CatalogHandler) DeleteAddOn(c *gin.Context) {
	id := c.Param("id")
	if err := h.repo.DeleteAddOn(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.audit.record(c, "add_on_delete", "add_on", id, nil)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
