// Command bottlemessage runs a classroom round from the terminal: a
// teacher session is created, simulated students drop bottles into the
// ocean, and the review screen reads them back and exports a CSV
// transcript.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Boltio1992/BottleMessage/internal/app"
	"github.com/Boltio1992/BottleMessage/internal/config"
	"github.com/Boltio1992/BottleMessage/internal/countdown"
	"github.com/Boltio1992/BottleMessage/internal/router"
	"github.com/Boltio1992/BottleMessage/internal/sim"
	"github.com/Boltio1992/BottleMessage/internal/store"
	"github.com/Boltio1992/BottleMessage/internal/views"
	"github.com/Boltio1992/BottleMessage/pkg/types"
)

var (
	configPath   string
	logLevel     string
	mode         string
	prompt       string
	optionA      string
	optionB      string
	timeoutSecs  int
	participants int
	csvOut       string
)

var rootCmd = &cobra.Command{
	Use:   "bottlemessage",
	Short: "Message in a Bottle classroom rounds",
	Long: `bottlemessage runs an anonymous classroom feedback round:
students drop messages as bottles into a shared ocean, the teacher
watches them accumulate, then reads each one after time runs out.`,
	RunE: runRound,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to JSON config file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level override (trace|debug|info|warn|error)")
	rootCmd.Flags().StringVar(&mode, "mode", string(types.ModeFree), "session mode (free|question)")
	rootCmd.Flags().StringVar(&prompt, "prompt", "", "question prompt (question mode)")
	rootCmd.Flags().StringVar(&optionA, "option-a", "", "label for option A (question mode)")
	rootCmd.Flags().StringVar(&optionB, "option-b", "", "label for option B (question mode)")
	rootCmd.Flags().IntVar(&timeoutSecs, "timeout", 300, "session timeout in seconds")
	rootCmd.Flags().IntVar(&participants, "participants", 8, "number of simulated students")
	rootCmd.Flags().StringVar(&csvOut, "csv-out", "", "write the transcript CSV to this file (default stdout)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRound(cmd *cobra.Command, args []string) error {
	godotenv.Load()

	cfg := config.LoadConfigWithPrecedence(configPath)
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApplication(cfg)
	if err != nil {
		return err
	}
	if err := application.Start(ctx); err != nil {
		return err
	}
	defer application.Stop()

	return classroomRound(ctx, application)
}

// classroomRound walks the teacher and student screens the way the
// browser would, navigating between them through router fragments.
func classroomRound(ctx context.Context, application *app.Application) error {
	st := application.Store()
	out := os.Stdout

	navigate(out, router.Fragment(router.ViewLanding, ""), st, application)
	navigate(out, router.Fragment(router.ViewDashboard, ""), st, application)

	session, err := views.HandleCreate(st, views.CreateForm{
		Mode:           mode,
		Prompt:         prompt,
		OptionA:        optionA,
		OptionB:        optionB,
		TimeoutSeconds: timeoutSecs,
	})
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	log.Info().Str("code", session.Code).Str("mode", string(session.Mode)).Msg("session created")

	monitor, err := views.NewMonitor(st, application.Bus(), out, session.Code)
	if err != nil {
		return err
	}
	monitor.Scene().SetFrameInterval(application.Config().Ocean.FrameInterval)
	monitor.Mount()
	if err := monitor.Scene().Start(ctx); err != nil {
		return err
	}

	timer := countdown.New(st, session.Code, application.Config().Countdown.CheckInterval)
	timer.OnPhase = monitor.ObservePhase
	timer.OnExpired = func() {
		log.Info().Str("code", session.Code).Msg("time is up")
	}
	if err := timer.Start(ctx); err != nil {
		return err
	}

	roster := sim.NewRoster(participants)
	driver := sim.NewDriver(st, session.Code, roster, 400*time.Millisecond)
	accepted, err := driver.Run(ctx)
	if err != nil {
		timer.Stop()
		monitor.Scene().Stop()
		monitor.Unmount()
		return fmt.Errorf("simulated submissions failed: %w", err)
	}
	log.Info().Int("accepted", accepted).Msg("all students submitted")

	timer.Stop()
	monitor.Scene().Stop()
	monitor.Unmount()

	if err := st.CloseSession(session.Code); err != nil {
		return err
	}

	navigate(out, router.Fragment(router.ViewReview, session.Code), st, application)

	review, err := views.NewReview(st, application.Bus(), out, session.Code)
	if err != nil {
		return err
	}
	review.Scene().SetFrameInterval(application.Config().Ocean.FrameInterval)
	review.Scene().SetSinkDuration(application.Config().Ocean.SinkDuration)
	review.Mount()
	if err := review.Scene().Start(ctx); err != nil {
		return err
	}
	defer review.Scene().Stop()
	defer review.Unmount()

	// Re-read: the creation-time snapshot predates the submissions.
	closed, err := st.GetSession(session.Code)
	if err != nil {
		return err
	}
	for _, msg := range closed.Messages {
		review.ReadBottleAt(msg.Placement.X/60, msg.Placement.Z/60)
	}
	if final, err := st.GetSession(session.Code); err == nil {
		log.Info().Int("read", len(final.Messages)-final.UnreadCount()).Msg("bottles read")
	}

	var csvWriter io.Writer = out
	if csvOut != "" {
		f, err := os.Create(csvOut)
		if err != nil {
			return fmt.Errorf("failed to create transcript file: %w", err)
		}
		defer f.Close()
		csvWriter = f
	}
	if err := review.ExportCSV(csvWriter); err != nil {
		return fmt.Errorf("failed to export transcript: %w", err)
	}
	if csvOut != "" {
		log.Info().Str("path", csvOut).Msg("transcript written")
	}
	return nil
}

// navigate resolves a URL fragment and renders the matched screen,
// mirroring the hash-based navigation of the browser client.
func navigate(out io.Writer, fragment string, st *store.Store, application *app.Application) {
	match, err := router.Resolve(fragment)
	if err != nil {
		views.RenderNotFound(out, fragment)
		return
	}

	switch match.View {
	case router.ViewLanding:
		views.RenderLanding(out)
	case router.ViewDashboard:
		dashboard := views.NewDashboard(st, application.Bus(), out)
		dashboard.Render()
		dashboard.Unmount()
	case router.ViewReview:
		// The caller mounts the review screen itself; rendering here
		// would double-subscribe.
	default:
	}
}
