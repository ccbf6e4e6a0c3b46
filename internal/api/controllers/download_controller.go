package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"songdrop/internal/services"
	"songdrop/pkg/utils"
)

type DownloadController struct {
	downloadService services.DownloadService
}

func NewDownloadController(downloadService services.DownloadService) *DownloadController {
	return &DownloadController{
		downloadService: downloadService,
	}
}

// SecureDownload godoc
// @Summary Redeem a download token for a signed URL
// @Description Consumes one use of the token and returns a short-lived signed URL for the song file
// @Tags Downloads
// @Produce json
// @Param token query string true "Download token"
// @Success 200 {object} response_models.DownloadLinkResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 500 {object} utils.APIResponse
// @Router /secure-download [get]
func (d *DownloadController) SecureDownload(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.RespondError(c, http.StatusBadRequest, "Missing download token")
		return
	}

	link, err := d.downloadService.IssueDownloadLink(c.Request.Context(), token)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}
