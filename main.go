package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/duynguyendang/llm-playbook/internal/cli"
	apperrors "github.com/duynguyendang/llm-playbook/pkg/common/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.RootCmd().ExecuteContext(ctx); err != nil {
		buildErr := apperrors.MapError(err)
		fmt.Fprintln(os.Stderr, color.RedString("✗"), buildErr.Error())
		stop()
		os.Exit(buildErr.Code)
	}
}
