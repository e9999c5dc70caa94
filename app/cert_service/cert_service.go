package main

import (
	formatter "github.com/bluexlab/logrus-formatter"
	"github.com/certlane/certlane/pkg/cert_service/cli"
)

func main() {
	formatter.InitLogger()
	app := cli.NewCobraApp()
	app.Run()
}
