package align

import (
	"context"

	"github.com/airenas/ibm1/internal/pkg/apperr"
	"github.com/airenas/ibm1/internal/pkg/cmdapp"
	"github.com/airenas/ibm1/internal/pkg/corpus"
	"github.com/airenas/ibm1/internal/pkg/em"
	"github.com/airenas/ibm1/internal/pkg/export"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var appName = "IBM Model 1 Translation Table Estimator"

var rootCmd = &cobra.Command{
	Use:   "ibm1 <english-file> <foreign-file>",
	Short: appName,
	Long: `Estimates word translation probabilities t(e|f) from a sentence aligned corpus with EM (IBM Model 1).
Writes the top translations of every foreign word and the best (viterbi) translation.`,
	Args: checkArgs,
	Run:  run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	fl := rootCmd.Flags()
	fl.IntP("iterations", "k", em.DefaultIterations, "EM iterations")
	cmdapp.Config.BindPFlag("em.iterations", fl.Lookup("iterations"))
	cmdapp.Config.SetDefault("em.iterations", em.DefaultIterations)
	fl.IntP("workers", "w", 1, "Parallel E-step workers")
	cmdapp.Config.BindPFlag("em.workers", fl.Lookup("workers"))
	cmdapp.Config.SetDefault("em.workers", 1)
	fl.Float64P("epsilon", "", 0, "Stop when max change of t(e|f) is not larger, 0 - run all iterations")
	cmdapp.Config.BindPFlag("em.epsilon", fl.Lookup("epsilon"))
	fl.IntP("progress-every", "", em.DefaultProgressEvery, "Sentence pairs between progress events")
	cmdapp.Config.BindPFlag("progress.every", fl.Lookup("progress-every"))
	cmdapp.Config.SetDefault("progress.every", em.DefaultProgressEvery)
	fl.StringP("out-dir", "o", ".", "Output directory")
	cmdapp.Config.BindPFlag("output.dir", fl.Lookup("out-dir"))
	cmdapp.Config.SetDefault("output.dir", ".")
	fl.IntP("port", "", 0, "Status service port, 0 - no service")
	cmdapp.Config.BindPFlag("port", fl.Lookup("port"))
	cmdapp.Config.SetDefault("port", 0)

	cmdapp.Config.SetDefault("output.translations", export.DefaultTranslationsFile)
	cmdapp.Config.SetDefault("output.viterbi", export.DefaultViterbiFile)
	cmdapp.Config.SetDefault("output.top", export.DefaultTop)
	cmdapp.Config.SetDefault("corpus.maxLineBytes", corpus.DefaultMaxLineBytes)
}

// Execute runs the estimation
func Execute() {
	cmdapp.Execute(rootCmd)
}

func checkArgs(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return apperr.New(apperr.Usage, "english and foreign files missing")
	}
	if len(args) < 2 {
		return apperr.New(apperr.Usage, "second (foreign) file missing")
	}
	if len(args) > 2 {
		return apperr.Newf(apperr.Usage, "expected 2 files, got %d", len(args))
	}
	return nil
}

func run(cmd *cobra.Command, args []string) {
	data := newServiceData(args[0], args[1])
	data.log.Info("Starting " + appName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sc := cmdapp.NewSignalChannel()
	go func() {
		select {
		case <-sc:
			data.log.Warn("Interrupted, stopping")
			cancel()
		case <-ctx.Done():
		}
	}()

	err := Run(ctx, data)
	cmdapp.CheckOrPanic(err, "")
	data.log.Info("Done")
}

func newServiceData(englishFile, foreignFile string) *ServiceData {
	c := cmdapp.Config
	res := &ServiceData{EnglishFile: englishFile, ForeignFile: foreignFile}
	res.MaxLineBytes = c.GetInt("corpus.maxLineBytes")
	res.EM = em.Config{Iterations: c.GetInt("em.iterations"), Workers: c.GetInt("em.workers"),
		Epsilon: c.GetFloat64("em.epsilon"), ProgressEvery: c.GetInt("progress.every")}
	res.OutDir = c.GetString("output.dir")
	res.Translations = c.GetString("output.translations")
	res.Viterbi = c.GetString("output.viterbi")
	res.Table = c.GetString("output.table")
	res.Top = c.GetInt("output.top")
	res.MetricsFile = c.GetString("metrics.file")
	res.Port = c.GetInt("port")
	res.log = cmdapp.Log.WithField("run", uuid.New().String())
	return res
}
