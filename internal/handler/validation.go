package handler

import (
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

var customTranslations = map[string]string{
	"weekday": "{0}必须是有效的星期",
	"hhmm":    "{0}必须是 HH:MM 格式的时间",
}

func registerValidations(v *validator.Validate, trans ut.Translator) error {
	if err := v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		return domain.IsWeekday(fl.Field().String())
	}); err != nil {
		return err
	}

	if err := v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}

	for tag, text := range customTranslations {
		register := func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		}
		translate := func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(fe.Tag(), fe.Field())
			return t
		}
		if err := v.RegisterTranslation(tag, trans, register, translate); err != nil {
			return err
		}
	}

	return nil
}
