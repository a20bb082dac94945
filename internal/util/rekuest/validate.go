package rekuest

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	esTranslations "github.com/go-playground/validator/v10/translations/es"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"poligrama.dev/backend/internal/pkg/pgerr"
	"poligrama.dev/backend/internal/util"
	"poligrama.dev/backend/internal/util/i18n"
)

var Validate = util.NewValidator()

// customMessages holds the text of the validations registered by
// util.NewValidator, per locale.
var customMessages = map[string]map[string]string{
	"es": {
		"charttype": "{0} debe ser un tipo de gráfica disponible",
		"inputmode": "{0} debe ser raw o summary",
		"canvas":    "{0} debe ser wide o tall",
		"cellref":   "{0} debe ser una celda como B2",
		"cellrange": "{0} debe ser un rango como B7:C15",
	},
	"en": {
		"charttype": "{0} must be an available chart type",
		"inputmode": "{0} must be one of raw or summary",
		"canvas":    "{0} must be one of wide or tall",
		"cellref":   "{0} must be a cell reference such as B2",
		"cellrange": "{0} must be a range such as B7:C15",
	},
}

func init() {
	var err error
	estr, _ := i18n.UT.GetTranslator("es")
	err = esTranslations.RegisterDefaultTranslations(Validate, estr)
	if err != nil {
		log.Warn().Err(err).Str("locale", "es").Msg("could not register translation")
	}

	entr, _ := i18n.UT.GetTranslator("en")
	err = enTranslations.RegisterDefaultTranslations(Validate, entr)
	if err != nil {
		log.Warn().Err(err).Str("locale", "en").Msg("could not register translation")
	}

	translators := map[string]ut.Translator{
		"es": estr,
		"en": entr,
	}

	for l, t := range translators {
		err = Validate.RegisterTranslation("caseinsensitiveoneof", t, func(ut ut.Translator) error {
			return nil
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("oneof", fe.Field(), fe.Param())
			return t
		})
		if err != nil {
			log.Warn().Err(err).Str("locale", l).Msg("could not register translation for function caseinsensitiveoneof")
		}

		for tag, text := range customMessages[l] {
			tag, text := tag, text
			err = Validate.RegisterTranslation(tag, t, func(ut ut.Translator) error {
				return ut.Add(tag, text, true)
			}, func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T(tag, fe.Field())
				return t
			})
			if err != nil {
				log.Warn().Err(err).Str("locale", l).Str("tag", tag).Msg("could not register translation")
			}
		}
	}
}

type ErrorResponse struct {
	Field     string `json:"field,omitempty"`
	Violation string `json:"violation"`
	Message   string `json:"message"`
}

// translate turns validation errors into ErrorResponses
func translate(utt ut.Translator, ve validator.ValidationErrors) []*ErrorResponse {
	trans := []*ErrorResponse{}

	for _, fe := range ve {
		trans = append(trans, &ErrorResponse{
			Field:     fe.Namespace(),
			Violation: fe.Tag(),
			Message:   fe.Translate(utt),
		})
	}

	return trans
}

func validateVar(tr ut.Translator, s any, tag string) []*ErrorResponse {
	err := Validate.Var(s, tag)
	if err != nil {
		errs := err.(validator.ValidationErrors)
		return translate(tr, errs)
	}
	return nil
}

func validateStruct(tr ut.Translator, s any) []*ErrorResponse {
	err := Validate.Struct(s)
	if err != nil {
		errs, ok := err.(validator.ValidationErrors)
		if !ok {
			panic(err)
		}
		return translate(tr, errs)
	}
	return nil
}

// ValidBody will get the body from *fiber.Ctx using fiber#BodyParser(),
// and validate it using the validator singleton. If the validation passed it will write the unmarshalled body
// to dest and return a nil, otherwise it will return an error. Notice that dest shall
// always be a pointer.
func ValidBody(ctx *fiber.Ctx, dest any) error {
	if err := ctx.BodyParser(dest); err != nil {
		return pgerr.ErrInvalidReq.Msg("invalid request: %s", err)
	}

	if err := validateStruct(TranslatorFromCtx(ctx), dest); err != nil {
		return pgerr.NewInvalidViolations(err)
	}

	return nil
}

func ValidStruct(ctx *fiber.Ctx, dest any) error {
	return Struct(TranslatorFromCtx(ctx), dest)
}

// Struct validates dest outside of a request, e.g. for CLI input.
func Struct(tr ut.Translator, dest any) error {
	if err := validateStruct(tr, dest); err != nil {
		return pgerr.NewInvalidViolations(err)
	}

	return nil
}

func ValidVar(ctx *fiber.Ctx, field any, tag string) error {
	if err := validateVar(TranslatorFromCtx(ctx), field, tag); err != nil {
		return pgerr.NewInvalidViolations(err)
	}

	return nil
}
