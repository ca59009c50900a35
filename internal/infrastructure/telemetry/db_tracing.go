package telemetry

import (
	"github.com/fieldcollect/backend/internal/infrastructure/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled        bool
	LogFullSQL     bool // include bound variables in db.statement; never in production
	DBName         string
	TracerProvider trace.TracerProvider // nil uses the global provider
}

// RegisterDBTracing installs the otelgorm plugin on db and tags each span
// with the requesting user when the context carries one.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, log *zap.Logger) error {
	if !cfg.Enabled {
		log.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithoutMetrics(),
	}
	if cfg.DBName != "" {
		opts = append(opts, otelgorm.WithDBName(cfg.DBName))
	}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}
	if err := registerSpanAnnotations(db); err != nil {
		return err
	}

	log.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.String("dialect", db.Dialector.Name()))
	return nil
}

// registerSpanAnnotations runs just before otelgorm ends each span.
func registerSpanAnnotations(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		register interface {
			Register(name string, fn func(*gorm.DB)) error
		}
		name string
	}{
		{cb.Create().Before("otel:after:create"), "fieldcollect:span:create"},
		{cb.Query().Before("otel:after:select"), "fieldcollect:span:select"},
		{cb.Update().Before("otel:after:update"), "fieldcollect:span:update"},
		{cb.Delete().Before("otel:after:delete"), "fieldcollect:span:delete"},
		{cb.Row().Before("otel:after:row"), "fieldcollect:span:row"},
		{cb.Raw().Before("otel:after:raw"), "fieldcollect:span:raw"},
	}
	for _, h := range hooks {
		if err := h.register.Register(h.name, annotateSpan); err != nil {
			return err
		}
	}
	return nil
}

func annotateSpan(tx *gorm.DB) {
	span := trace.SpanFromContext(tx.Statement.Context)
	if !span.IsRecording() {
		return
	}
	if userID := logger.GetUserID(tx.Statement.Context); userID != "" {
		span.SetAttributes(attribute.String("enduser.id", userID))
	}
}
