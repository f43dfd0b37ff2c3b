// Package validate is the input validation and transformation layer. Inputs
// declare their schema with `validate` struct tags; failures come back as a
// domain validation error listing every offending field by its JSON name.
package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"mcommerce/internal/core/domain"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// Validator returns the shared, fully registered validator.
func Validator() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("content_type", oneOfFunc(
			domain.ContentBlog, domain.ContentEmail, domain.ContentSocial,
			domain.ContentPush, domain.ContentBanner, domain.ContentProductDescription,
		))
		_ = v.RegisterValidation("campaign_type", oneOfFunc(
			domain.CampaignSeasonal, domain.CampaignPromotional, domain.CampaignClearance,
			domain.CampaignNewProduct, domain.CampaignFlashSale, domain.CampaignHoliday,
		))
		_ = v.RegisterValidation("discount_type", oneOfFunc(
			domain.DiscountPercentage, domain.DiscountFixed, domain.DiscountTiered,
		))
		_ = v.RegisterValidation("metric_type", oneOfFunc(
			domain.MetricViews, domain.MetricClicks, domain.MetricConversions, domain.MetricRevenue,
		))
		instance = v
	})
	return instance
}

// Struct validates s against its tags.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.ValidationFailed(err.Error())
	}
	fields := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, domain.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: describe(fe),
		})
	}
	return domain.ValidationFailed("invalid input", fields...)
}

// Decode parses a raw JSON document into T. Unknown fields are rejected; tag
// validation is left to the service receiving the value.
func Decode[T any](raw []byte) (T, error) {
	var out T
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, domain.ValidationFailed("malformed JSON", domain.FieldError{Field: "body", Message: "is required"})
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return out, domain.ValidationFailed("malformed JSON", domain.FieldError{Field: "body", Message: err.Error()})
	}
	return out, nil
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "iso4217":
		return "must be an ISO 4217 currency code"
	case "dive", "unique":
		return "contains duplicate or invalid entries"
	case "content_type", "campaign_type", "discount_type", "metric_type":
		return "has an unknown value"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func oneOfFunc[T ~string](allowed ...T) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := T(fl.Field().String())
		for _, a := range allowed {
			if v == a {
				return true
			}
		}
		return false
	}
}
