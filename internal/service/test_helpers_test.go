package service_test

import (
	"github.com/saadjs/mealplan-cli/internal/model"
)

func floatPtr(v float64) *float64 {
	return &v
}

func planWith(id, date string, meals []model.Meal, exercises ...model.Exercise) model.DayPlan {
	p := model.DayPlan{ID: id, Date: date, Meals: model.NewMeals(), Exercises: []model.Exercise{}}
	for _, m := range meals {
		p = p.WithMeal(m)
	}
	for _, ex := range exercises {
		p = p.WithExercise(ex)
	}
	return p
}

func meal(id, name string, slot model.MealSlot, calories float64) model.Meal {
	return model.Meal{ID: id, Name: name, Type: slot, Calories: floatPtr(calories)}
}
