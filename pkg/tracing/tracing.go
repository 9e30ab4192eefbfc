package tracing

import (
	"fmt"

	"signal_bot/pkg/logger"

	"github.com/opentracing/opentracing-go"
	jCfg "github.com/uber/jaeger-client-go/config"
	"github.com/uber/jaeger-lib/metrics"
)

// Config: агент jaeger и имя сервиса в трейсах.
type Config struct {
	Service string
	Host    string
	Port    int
}

// InitTracer ставит глобальный трейсер jaeger. Возвращённая функция сбрасывает спаны и закрывает репортер.
func InitTracer(conf Config) (func(), error) {
	cfg := &jCfg.Configuration{
		ServiceName: conf.Service,
		Sampler: &jCfg.SamplerConfig{
			Type:  "const",
			Param: 1,
		},
		Reporter: &jCfg.ReporterConfig{
			LocalAgentHostPort: fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		},
	}

	tracer, closer, err := cfg.NewTracer(jCfg.Metrics(metrics.NullFactory))
	if err != nil {
		return nil, fmt.Errorf("jaeger tracer: %w", err)
	}

	prev := opentracing.GlobalTracer()
	opentracing.SetGlobalTracer(tracer)
	return func() {
		opentracing.SetGlobalTracer(prev)
		if err := closer.Close(); err != nil {
			logger.Error("[TRACING] close jaeger: %v", err)
		}
	}, nil
}
