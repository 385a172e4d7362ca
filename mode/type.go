package mode

import (
	"context"
	"log/slog"

	"github.com/khaledhikmat/vs-activity/pipeline"
	"github.com/khaledhikmat/vs-activity/service/data"
	"github.com/khaledhikmat/vs-activity/service/lgr"
)

type Processor func(canxCtx context.Context, svcs pipeline.ServicesFactory, args []string) error

func procError(datasvc data.IService, err interface{}) {
	errTemp := datasvc.NewError(err)
	if errTemp != nil {
		lgr.Logger.Error(
			"failed to store error",
			slog.Any("error", errTemp),
		)
	}
}
