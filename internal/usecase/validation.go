package usecase

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/GoArmGo/FoodDiary/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// finite: NaN и ±Inf нельзя сохранить и отдать в JSON
	if err := v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		return isFinite(fl.Field().Float())
	}); err != nil {
		panic(err)
	}
	return v
}

func isFinite(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// fieldMessages сопоставляет "Поле" или "Поле.тег" с сообщением для клиента.
type fieldMessages map[string]string

// validateInput проверяет структуру по тегам validate и возвращает
// domain.ErrValidation с сообщением для первого непрошедшего поля.
func validateInput(in any, msgs fieldMessages) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.NewValidationError(err.Error())
	}

	fe := verrs[0]
	if msg, ok := msgs[fe.StructField()+"."+fe.Tag()]; ok {
		return domain.NewValidationError(msg)
	}
	if msg, ok := msgs[fe.StructField()]; ok {
		return domain.NewValidationError(msg)
	}
	return domain.NewValidationError(fmt.Sprintf("%s is invalid", fe.Field()))
}

// Amount - числовое поле, которое принимает как JSON-число, так и строку с числом ("95").
type Amount float64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*a = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || !isFinite(f) {
			return fmt.Errorf("%q is not a number", s)
		}
		*a = Amount(f)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*a = Amount(f)
	return nil
}
