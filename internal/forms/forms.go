package forms

import (
	"errors"
	"log"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shopspring/decimal"
)

// LoginForm is the staff sign-in form.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type AddBalanceForm struct {
	UserID string `form:"user_id" validate:"required"`
	Amount string `form:"amount" validate:"required,numeric"`
}

type CreateUserForm struct {
	Email         string `form:"email" validate:"required,email"`
	Password      string `form:"password" validate:"required"`
	Name          string `form:"name" validate:"required"`
	PricingTier   string `form:"pricing_tier" validate:"required,numeric"`
	WabaID        string `form:"waba_id" validate:"required"`
	PhoneNumberID string `form:"phone_number_id" validate:"required"`
}

type SearchForm struct {
	UserID string `form:"user" validate:"required"`
	Phone  string `form:"phone" validate:"required"`
}

// ValidationError lists translated field messages. Missing is set when
// at least one required field was left empty.
type ValidationError struct {
	Messages []string
	Missing  bool
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

var (
	validate   *validator.Validate
	translator ut.Translator
)

func init() {
	validate = validator.New()
	eng := en.New()
	uni := ut.New(eng, eng)

	var found bool
	translator, found = uni.GetTranslator("en")
	if !found {
		log.Fatal("translator not found")
	}
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		log.Fatal(err)
	}
}

// Validate checks a form struct and translates every failed rule.
func Validate(form interface{}) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range errs {
		out.Messages = append(out.Messages, fe.Translate(translator))
		if fe.Tag() == "required" {
			out.Missing = true
		}
	}
	return out
}

// ParseAmount validates the form and returns a strictly positive amount.
func (f AddBalanceForm) ParseAmount() (decimal.Decimal, error) {
	if err := Validate(f); err != nil {
		return decimal.Zero, err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(f.Amount))
	if err != nil || !amount.IsPositive() {
		return decimal.Zero, &ValidationError{Messages: []string{"Amount must be greater than 0"}}
	}
	return amount, nil
}
