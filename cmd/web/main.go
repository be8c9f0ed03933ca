package main

import "becreative_backend/internal/app"

func main() {
	app.Run()
}
