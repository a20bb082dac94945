package i18n

import (
	ut "github.com/go-playground/universal-translator"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
)

var UT = ut.New(es.New(), es.New(), en.New())
