package main

import (
	"context"
	"os/signal"
	"syscall"

	"rankwatch/cmd/rankctl/commands"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	commands.ExecuteContext(ctx)
}
