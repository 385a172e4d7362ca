package pipeline

import (
	"github.com/khaledhikmat/vs-activity/service/classifier"
	"github.com/khaledhikmat/vs-activity/service/config"
	"github.com/khaledhikmat/vs-activity/service/data"
	"github.com/khaledhikmat/vs-activity/service/storage"
	"github.com/khaledhikmat/vs-activity/service/video"
	"go.opentelemetry.io/otel"
)

type ServicesFactory struct {
	CfgSvc        config.IService
	DataSvc       data.IService
	StorageSvc    storage.IService
	VideoSvc      video.IService
	ClassifierSvc classifier.IService
}

var tracer = otel.Tracer("github.com/khaledhikmat/vs-activity/pipeline")
