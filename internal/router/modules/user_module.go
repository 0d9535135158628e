package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-account-service/internal/interface/http"
	"github.com/oksasatya/go-account-service/internal/interface/middleware"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

// UserModule mounts the account routes under /users. Every route runs the
// optional bearer auth; the policy engine decides what an anonymous or
// non-admin caller may do.
type UserModule struct {
	Handler *handlers.UserHandler
	JWT     *helpers.JWTManager
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager) *UserModule {
	return &UserModule{Handler: h, JWT: jwt}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.Auth(m.JWT))
	{
		users.POST("/register", m.Handler.Register)
		users.POST("/login", m.Handler.Login)

		users.GET("", m.Handler.ListOlderThan)
		users.GET("/activeUsers", m.Handler.ListActive)
		users.GET("/search", m.Handler.Search)
		users.GET("/:login", m.Handler.GetByLogin)
		users.DELETE("/:login", m.Handler.Delete)
		users.PUT("/unblock/:login", m.Handler.Unrevoke)

		users.PUT("/update", m.Handler.UpdateProfile)
		users.PUT("/updatePassword", m.Handler.UpdatePassword)
		users.PUT("/updateLogin", m.Handler.UpdateLogin)
	}
}
