package main

import (
	"github.com/saadjs/mealplan-cli/cmd/mealplan"
	"github.com/saadjs/mealplan-cli/internal/config"
)

func main() {
	config.LoadDotEnv()
	mealplan.Execute()
}
