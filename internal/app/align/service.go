package align

import (
	"context"
	"path/filepath"

	"github.com/airenas/ibm1/internal/pkg/cmdapp"
	"github.com/airenas/ibm1/internal/pkg/corpus"
	"github.com/airenas/ibm1/internal/pkg/em"
	"github.com/airenas/ibm1/internal/pkg/export"
	"github.com/airenas/ibm1/internal/pkg/metrics"
	"github.com/airenas/ibm1/internal/pkg/progress"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// ServiceData keeps settings of one estimation run
type ServiceData struct {
	EnglishFile  string
	ForeignFile  string
	MaxLineBytes int
	EM           em.Config

	OutDir       string
	Translations string
	Viterbi      string
	Table        string
	Top          int

	// MetricsFile is prometheus textfile to write after the run, skipped if empty
	MetricsFile string
	// Port of the status service, no service if 0
	Port int

	log *logrus.Entry
}

// Run loads the corpus, estimates t(e|f) and writes the reports.
// No report is written if any step fails
func Run(ctx context.Context, data *ServiceData) error {
	if data.log == nil {
		data.log = logrus.NewEntry(cmdapp.Log)
	}
	loader, err := corpus.NewLoader(data.MaxLineBytes)
	if err != nil {
		return errors.Wrap(err, "can't init loader")
	}
	c, err := loader.Load(data.EnglishFile, data.ForeignFile)
	if err != nil {
		return errors.Wrap(err, "can't load corpus")
	}

	registry := prometheus.NewRegistry()
	mo, err := metrics.NewObserver(registry)
	if err != nil {
		return errors.Wrap(err, "can't init metrics")
	}
	engine, err := em.NewEngine(c, data.EM, em.Observers{progress.NewLogObserver(data.log, 10), mo})
	if err != nil {
		return err
	}
	if data.Port > 0 {
		srv, err := startStatusServer(&statusData{port: data.Port, status: engine, gatherer: registry})
		if err != nil {
			return err
		}
		defer srv.Close()
	}

	data.log.Infof("Initializing t(e|f) uniformly")
	if err := engine.Initialize(); err != nil {
		return err
	}
	data.log.Infof("Running EM: %d iterations, %d workers", data.EM.Iterations, data.EM.Workers)
	if err := engine.Run(ctx); err != nil {
		return err
	}

	saver, err := export.NewLocalFileSaver(data.OutDir)
	if err != nil {
		return err
	}
	exporter, err := export.NewFileExporter(saver)
	if err != nil {
		return err
	}
	exporter.Translations, exporter.Viterbi, exporter.Table = data.Translations, data.Viterbi, data.Table
	if data.Top > 0 {
		exporter.Top = data.Top
	}
	data.log.Infof("Writing results to %s", data.OutDir)
	if err := engine.Export(exporter); err != nil {
		return err
	}

	if data.MetricsFile != "" {
		f := data.MetricsFile
		if !filepath.IsAbs(f) {
			f = filepath.Join(data.OutDir, f)
		}
		if err := metrics.WriteFile(registry, f); err != nil {
			return errors.Wrapf(err, "can't write metrics to %s", f)
		}
	}
	return nil
}
