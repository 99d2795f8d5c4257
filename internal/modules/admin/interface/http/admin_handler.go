package handler

import (
	"MindLink/internal/config"
	"MindLink/pkg/back"
	"MindLink/pkg/util/myjwt"
	"MindLink/pkg/xerr"
	"MindLink/pkg/zlog"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminHandler struct{}

func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

// Login 管理端登录，凭据来自配置文件
func (h *AdminHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.BindJSON(&req); err != nil {
		zlog.Error(err.Error())
		back.Error(c, xerr.BadRequest, xerr.ErrParam.Message)
		return
	}

	conf := config.GetConfig()
	if conf.AdminConfig.Username == "" ||
		req.Username != conf.AdminConfig.Username ||
		req.Password != conf.AdminConfig.Password {
		back.Error(c, xerr.Unauthorized, "用户名或密码错误")
		return
	}

	token, err := myjwt.GenerateToken(req.Username, "admin")
	if err != nil {
		zlog.Error("生成token失败: " + err.Error())
		back.Error(c, xerr.InternalServerError, xerr.ErrServerError.Message)
		return
	}

	back.Success(c, gin.H{"token": token, "username": req.Username, "role": "admin"})
}
