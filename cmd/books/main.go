package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/jayambe/books/internal/clock"
	"github.com/jayambe/books/internal/config"
	"github.com/jayambe/books/internal/migration"
	"github.com/jayambe/books/internal/server"
	"github.com/jayambe/books/pkg/db"
	"github.com/jayambe/books/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
