package core

import (
	"context"
	"log/slog"

	sm "github.com/martinozimek/india-etf/service/models"
)

type ReportContext struct {
	Context  context.Context
	Logger   *slog.Logger
	Settings sm.AnalysisSettings
}

func (rc *ReportContext) logger() *slog.Logger {
	if rc.Logger == nil {
		return slog.Default()
	}
	return rc.Logger
}

func (rc *ReportContext) ctx() context.Context {
	if rc.Context == nil {
		return context.Background()
	}
	return rc.Context
}
