package main

import (
	"github.com/abhi1580/coaching-center-sub003/app"
	"github.com/gofiber/fiber/v2/log"
)

func main() {
	if err := app.SetupAndRunServer(); err != nil {
		log.Fatal(err)
	}
}
