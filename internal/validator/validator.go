// Package validator registers custom request validations.
package validator

import (
	"strings"

	"krushak/internal/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var categories = map[models.Category]bool{
	models.CategoryTractor:    true,
	models.CategoryHarvester:  true,
	models.CategoryPlough:     true,
	models.CategorySeeder:     true,
	models.CategorySprayer:    true,
	models.CategoryIrrigation: true,
	models.CategoryTrailer:    true,
	models.CategoryOther:      true,
}

var conditions = map[models.Condition]bool{
	models.ConditionNew:        true,
	models.ConditionLikeNew:    true,
	models.ConditionGood:       true,
	models.ConditionServicable: true,
}

var pricingUnits = map[models.PricingUnit]bool{
	models.UnitPerHour:    true,
	models.UnitPerDay:     true,
	models.UnitPerWeek:    true,
	models.UnitPerHectare: true,
}

// knownCrops is the crop vocabulary accepted in usedForCrops and filters.
var knownCrops = map[string]bool{
	"wheat": true, "rice": true, "cotton": true, "sugarcane": true,
	"maize": true, "groundnut": true, "castor": true, "cumin": true,
	"mustard": true, "bajra": true, "jowar": true, "soybean": true,
	"potato": true, "onion": true, "tomato": true,
}

// Register wires the custom validations into Gin's binding engine. Must be
// called before any request binding happens.
func Register() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return categories[models.Category(fl.Field().String())]
	})
	_ = v.RegisterValidation("condition", func(fl validator.FieldLevel) bool {
		return conditions[models.Condition(fl.Field().String())]
	})
	_ = v.RegisterValidation("pricingunit", func(fl validator.FieldLevel) bool {
		return pricingUnits[models.PricingUnit(fl.Field().String())]
	})
	_ = v.RegisterValidation("crop", func(fl validator.FieldLevel) bool {
		return knownCrops[strings.ToLower(fl.Field().String())]
	})
}
