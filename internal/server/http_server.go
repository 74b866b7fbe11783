package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Run(router *gin.Engine, port string) {
	addr := ":3000"
	if port != "" {
		addr = ":" + port
	}
	if err := router.Run(addr); err != nil && err != http.ErrServerClosed {
		panic(err)
	}
}
