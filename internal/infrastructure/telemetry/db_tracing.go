package telemetry

import (
	"fmt"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnableDBTracing instruments a GORM connection with OpenTelemetry spans.
// Query parameters are excluded from spans so stock notes and actor IDs never
// leak into traces.
func EnableDBTracing(db *gorm.DB, dbName string, logger *zap.Logger) error {
	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName(dbName),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		return fmt.Errorf("failed to enable database tracing: %w", err)
	}

	logger.Info("Database tracing enabled", zap.String("db_name", dbName))
	return nil
}
