package cabinet

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"VPN-Shop-bot/internal/db"
)

// Apps возвращает каталог клиентских приложений, сгруппированный по платформам.
func (h *Handlers) Apps(c *gin.Context) {
	apps, err := db.GetApps(false)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}
	platforms := make(map[string][]gin.H)
	for _, a := range apps {
		platforms[a.Platform] = append(platforms[a.Platform], gin.H{
			"id":           a.ID,
			"name":         a.Name,
			"download_url": a.DownloadURL,
			"url_scheme":   a.URLScheme,
		})
	}
	c.JSON(http.StatusOK, gin.H{"platforms": platforms})
}
