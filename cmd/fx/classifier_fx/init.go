package classifier_fx

import (
	"context"

	"go.uber.org/fx"
	"xplore/internal/classifier"
	"xplore/internal/config"
	"xplore/pkg/logger"
)

var Module = fx.Provide(provideClassifier)

func provideClassifier(lc fx.Lifecycle, cfg *config.Config, log *logger.Logger) (classifier.Classifier, error) {
	var c classifier.Classifier
	switch cfg.ClassifierKind {
	case config.ClassifierGCPVision:
		v, err := classifier.NewVisionClient(context.Background(), cfg.Roboflow.Timeout, cfg.Confidence, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(context.Context) error {
				return v.Close()
			},
		})
		c = v
	default:
		r, err := classifier.NewRoboflowClient(cfg.Roboflow, cfg.Confidence, log)
		if err != nil {
			return nil, err
		}
		c = r
	}
	log.Info("classifier ready", "provider", c.Name())
	return classifier.Instrument(c, log), nil
}
