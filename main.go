package main

import (
	"poligrama.dev/backend/cmd/app"
)

func main() {
	app.Run()
}
