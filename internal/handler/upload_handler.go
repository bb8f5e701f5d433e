package handler

import (
	"net/http"
	"strings"

	"studio8/internal/booking"
	"studio8/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxUploadBytes = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// UploadHandler stores images on Cloudinary. A nil uploader means Cloudinary credentials
// are missing, which is reported as a configuration error.
type UploadHandler struct {
	cloud  cloudinary.Uploader
	folder string
	log    *logrus.Entry
}

func NewUploadHandler(cloud cloudinary.Uploader, folder string, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{cloud: cloud, folder: folder, log: logger.WithField("component", "upload")}
}

// UploadPaymentProof accepts the transfer receipt attached to a booking submission.
func (h *UploadHandler) UploadPaymentProof(c *gin.Context) {
	h.upload(c, "payment-proofs", "proof_")
}

// UploadCatalogImage accepts a package photo from the back office.
func (h *UploadHandler) UploadCatalogImage(c *gin.Context) {
	h.upload(c, "catalog", "pkg_")
}

func (h *UploadHandler) upload(c *gin.Context, sub, prefix string) {
	if h.cloud == nil {
		respondError(c, h.log, booking.ErrConfiguration)
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required", "field": "file"})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be at most 5MB", "field": "file"})
		return
	}
	if !allowedImageTypes[file.Header.Get("Content-Type")] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file must be a JPEG, PNG or WebP image", "field": "file"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	publicID := prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	res, err := h.cloud.UploadImage(c.Request.Context(), f, h.folder+"/"+sub, publicID)
	if err != nil {
		h.log.WithError(err).Warn("upload failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": res.URL, "thumbnail_url": res.ThumbnailURL})
}
