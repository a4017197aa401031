package handler

import (
	"log"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/user/movielist/internal/model"
)

// RegisterValidators 注册自定义校验规则
func RegisterValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	if err := v.RegisterValidation("watchstatus", validateWatchStatus); err != nil {
		log.Printf("[Validator] 注册 watchstatus 失败: %v", err)
	}
	if err := v.RegisterValidation("mediatype", validateMediaType); err != nil {
		log.Printf("[Validator] 注册 mediatype 失败: %v", err)
	}
}

func validateWatchStatus(fl validator.FieldLevel) bool {
	_, err := model.ParseWatchStatus(fl.Field().String())
	return err == nil
}

func validateMediaType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "movie", "series", "episode":
		return true
	}
	return false
}
