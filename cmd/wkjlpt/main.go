package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/japaniel/wkjlpt/pkg/wanikani"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := newApp(os.Stdin, os.Stdout)
	err := newRootCmd(a).ExecuteContext(ctx)
	if err == nil {
		return
	}
	if a.logger == nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	a.logger.Error("command failed", errorFields(err)...)
	_ = a.logger.Sync()
	os.Exit(1)
}

// errorFields expands service errors into structured fields.
func errorFields(err error) []zap.Field {
	fields := []zap.Field{zap.Error(err)}
	var apiErr *wanikani.APIError
	if errors.As(err, &apiErr) {
		fields = append(fields,
			zap.String("method", apiErr.Method),
			zap.String("url", apiErr.URL),
			zap.Int("status", apiErr.StatusCode),
			zap.String("body", apiErr.Body))
	}
	return fields
}
