package main

import "payalert_backend/internal/app"

func main() {
	app.Run()
}
