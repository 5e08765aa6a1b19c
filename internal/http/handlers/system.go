package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	intdb "tiketku/internal/db"
)

func (a *API) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "backend tiket berjalan"})
}

func (a *API) DBCheck(c *gin.Context) {
	if a.DB == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database belum terhubung"})
		return
	}
	if !intdb.HasTable(a.DB, "schedules") {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "tabel schedules belum ada, jalankan migrasi"})
		return
	}
	var count int
	err := a.DB.QueryRowContext(c.Request.Context(), "SELECT COUNT(*) FROM schedules").Scan(&count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "gagal query ke database: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "koneksi database OK", "schedules_in_db": count})
}

func (a *API) ListRoutesInfo(c *gin.Context) {
	a.routerMu.RLock()
	r := a.router
	a.routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router belum siap"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
