package interfaces

import (
	"github.com/gin-gonic/gin"

	transporthttp "Settlers/internal/shared/transport/http"
	"Settlers/internal/world/interfaces/http"
	"Settlers/modules/kit/logx"
)

type Module struct {
	httpHandler *http.HttpHandler
}

func New(s http.Session, stager http.Stager, log logx.Logger) *Module {
	return &Module{httpHandler: http.NewHttpHandler(s, stager, log)}
}

func (m *Module) HttpRegister(g *gin.RouterGroup) {
	m.httpHandler.RegisterRoutes(g)
}

var _ transporthttp.Registrar = (*Module)(nil)
