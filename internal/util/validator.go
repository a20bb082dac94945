package util

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"poligrama.dev/backend/internal/model"
	"poligrama.dev/backend/internal/pkg/coord"
	"poligrama.dev/backend/internal/render"
)

func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterValidation("caseinsensitiveoneof", caseInsensitiveOneOf)
	validate.RegisterValidation("charttype", chartType)
	validate.RegisterValidation("inputmode", inputMode)
	validate.RegisterValidation("canvas", canvas)
	validate.RegisterValidation("cellref", cellRef)
	validate.RegisterValidation("cellrange", cellRange)
	validate.RegisterStructValidation(renderRequestLevel, model.RenderRequest{})

	return validate
}

func caseInsensitiveOneOf(fl validator.FieldLevel) bool {
	val := strings.ToLower(fl.Field().String())
	candidates := strings.Split(strings.ToLower(fl.Param()), " ")
	for _, v := range candidates {
		if val == v {
			return true
		}
	}
	return false
}

func chartType(fl validator.FieldLevel) bool {
	_, ok := render.Lookup(model.ChartType(fl.Field().String()))
	return ok
}

func inputMode(fl validator.FieldLevel) bool {
	val := model.InputMode(fl.Field().String())
	return val == model.InputModeRaw || val == model.InputModeSummary
}

func canvas(fl validator.FieldLevel) bool {
	val := strings.TrimSpace(fl.Field().String())
	for _, c := range render.Canvases {
		if strings.EqualFold(val, c.Name) {
			return true
		}
	}
	return false
}

func cellRef(fl validator.FieldLevel) bool {
	_, err := coord.Parse(fl.Field().String())
	return err == nil
}

func cellRange(fl validator.FieldLevel) bool {
	_, err := coord.ParseRange(fl.Field().String())
	return err == nil
}

// renderRequestLevel enforces the inputs each mode needs.
func renderRequestLevel(sl validator.StructLevel) {
	req := sl.Current().Interface().(model.RenderRequest)

	if req.NeedsColumn() && strings.TrimSpace(req.Column) == "" {
		sl.ReportError(req.Column, "Column", "Column", "required", "")
	}
	if req.NeedsRange() && strings.TrimSpace(req.Range) == "" {
		sl.ReportError(req.Range, "Range", "Range", "required", "")
	}
	if req.ChartType == model.ChartTypeStacked {
		if req.InputMode().IsSummary() && strings.TrimSpace(req.StackedRanges) == "" {
			sl.ReportError(req.StackedRanges, "StackedRanges", "StackedRanges", "required", "")
		}
		if !req.InputMode().IsSummary() && len(req.StackedColumns) == 0 {
			sl.ReportError(req.StackedColumns, "StackedColumns", "StackedColumns", "required", "")
		}
	}
}
