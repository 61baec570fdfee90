package admin

import (
	"github.com/webmastershop/internal/http/response"

	"github.com/gin-gonic/gin"
)

// UploadFile 上传文件
func (h *Handler) UploadFile(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "file required", err)
		return
	}
	scene := c.DefaultPostForm("scene", "common")

	path, err := h.UploadService.SaveFile(file, scene)
	if err != nil {
		respondWithMappedError(c, err, adminUploadErrorRules, response.CodeInternal, "upload failed")
		return
	}
	response.Success(c, gin.H{"path": path})
}
