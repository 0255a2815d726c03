package main

import (
	"github.com/geoplatform/arcrest/internal/cli"
	"github.com/geoplatform/arcrest/internal/common/logtrace"
)

func init() {
	logtrace.InitLogger()
}

func main() {
	cli.Execute()
}
