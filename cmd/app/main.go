package main

import (
	"go.uber.org/fx"

	"github.com/bhhshwXD/HDTokster/internal/app"
)

func main() {
	fx.New(app.CreateApp()).Run()
}
