// Package tracing 配置 OpenTelemetry 追踪导出。
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/iabetor/hatenaexport/internal/logger"
)

// Config 追踪配置。
type Config struct {
	Endpoint    string // OTLP gRPC 地址，为空则不导出
	ServiceName string
}

// ShutdownFunc 刷新并关闭导出器。
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// Init 安装全局 TracerProvider。未配置 Endpoint 时保留默认的空实现。
func Init(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if cfg.Endpoint == "" {
		return noopShutdown, nil
	}

	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("创建 OTLP 导出器失败: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", cfg.ServiceName),
		)),
	)
	otel.SetTracerProvider(tp)
	logger.Infof("[tracing] 追踪数据将发送到 %s", cfg.Endpoint)
	return tp.Shutdown, nil
}
