package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestLogger(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Logger Suite")
}

var _ = ginkgo.Describe("Init", func() {
	ctx := context.Background()

	ginkgo.It("should honor the configured level", func() {
		Init(Options{Level: "warn", Format: "text"})

		gomega.Expect(LoggerWrapper().Enabled(ctx, slog.LevelInfo)).To(gomega.BeFalse())
		gomega.Expect(LoggerWrapper().Enabled(ctx, slog.LevelWarn)).To(gomega.BeTrue())
	})

	ginkgo.It("should default unknown levels to info", func() {
		Init(Options{Level: "verbose", Format: "json"})

		gomega.Expect(LoggerWrapper().Enabled(ctx, slog.LevelDebug)).To(gomega.BeFalse())
		gomega.Expect(LoggerWrapper().Enabled(ctx, slog.LevelInfo)).To(gomega.BeTrue())
	})

	ginkgo.It("should lazily fall back to a debug text logger", func() {
		defaultLogger = nil

		gomega.Expect(LoggerWrapper()).NotTo(gomega.BeNil())
		gomega.Expect(LoggerWrapper().Enabled(ctx, slog.LevelDebug)).To(gomega.BeTrue())
	})
})
