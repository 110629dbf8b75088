package quiz

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/ajira/core"
)

var (
	difficultyTag  = "difficulty"
	difficultyText = "difficulty must be one of easy, medium or hard"
)

// InitValidators registers the quiz package's custom validators and translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(difficultyTag, difficultyValidation)
	core.RegisterCustomTranslation(validate, translator, difficultyTag, difficultyText)
}

func difficultyValidation(fl validator.FieldLevel) bool {
	return difficultyIsValid(fl.Field().String())
}
