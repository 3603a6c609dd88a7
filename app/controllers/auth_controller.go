package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/velocart/app/services"
	"github.com/shashiranjanraj/velocart/pkg/ctx"
	"github.com/shashiranjanraj/velocart/pkg/logger"
)

type AuthController struct {
	service *services.AuthService
}

func NewAuthController(service *services.AuthService) *AuthController {
	return &AuthController{service: service}
}

func (ac *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}

	token, err := ac.service.Login(in)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		logger.WithCtx(c.Context()).Warn("admin login rejected", "ip", c.ClientIP())
		c.Error(http.StatusUnauthorized, "Invalid credentials")
	case err != nil:
		fail(c, err)
	default:
		c.Success(token)
	}
}
