package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/felipe-codebit/prototipo-zap/internal/config"
	"github.com/felipe-codebit/prototipo-zap/internal/dialogue"
	"github.com/felipe-codebit/prototipo-zap/internal/llm"
	"github.com/felipe-codebit/prototipo-zap/internal/logging"
	"github.com/felipe-codebit/prototipo-zap/internal/media"
	"github.com/felipe-codebit/prototipo-zap/internal/pdf"
	"github.com/felipe-codebit/prototipo-zap/internal/server"
	"github.com/felipe-codebit/prototipo-zap/internal/session"
	"github.com/felipe-codebit/prototipo-zap/internal/voice"
)

var serverPort int

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API",
	Long:  `Starts the chat, context, audio, TTS, PDF and video endpoints together with the idle session sweeper.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = serverPort
		}

		logger, err := newLogger(cfg, false)
		if err != nil {
			return err
		}
		defer logger.Sync()

		a, err := buildAssistant(cfg, logger.Logger)
		if err != nil {
			return err
		}
		defer a.close()

		srv := server.New(server.Config{
			Port:           cfg.Server.Port,
			AllowAll:       cfg.Server.AllowAllOrigins,
			RequestTimeout: time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second,
		}, logger.Logger)

		registerAllRoutes(srv, cfg, a, logger)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sweeper := session.NewSweeper(a.store,
			time.Duration(cfg.Session.SweepIntervalMinutes)*time.Minute,
			time.Duration(cfg.Session.TTLMinutes)*time.Minute,
			logger.Logger,
		)

		fmt.Fprintf(os.Stderr, "ane server %s starting on port %d\n", Version, cfg.Server.Port)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return srv.Run(gctx) })
		g.Go(func() error { return sweeper.Run(gctx) })
		return g.Wait()
	},
}

// registerAllRoutes wires every feature onto the server.
func registerAllRoutes(srv *server.Server, cfg *config.Config, a *assistant, logger *logging.Logger) {
	log := logger.Logger
	api := srv.API()

	var speaker dialogue.Speaker
	if cfg.Voice.Enabled {
		if svc := buildVoice(cfg, a, log); svc != nil {
			voice.RegisterRoutes(api, svc)
			speaker = svc
		}
	}

	// The websocket must outlive the request timeout.
	dialogue.RegisterRoutes(srv.Router(), a.controller, speaker)

	renderer := pdf.NewRodRenderer(cfg.PDF.ChromeBin)
	renderer.Headless = cfg.PDF.Headless
	if cfg.PDF.TimeoutSeconds > 0 {
		renderer.Timeout = time.Duration(cfg.PDF.TimeoutSeconds) * time.Second
	}
	pdf.RegisterRoutes(api, pdf.NewService(renderer, a.controller, log))

	media.RegisterRoutes(api, cfg.Media.VideoDir, log)
	logging.RegisterRoutes(api, logger)
}

func buildVoice(cfg *config.Config, a *assistant, log *zap.Logger) *voice.Service {
	speech, err := llm.NewSpeechProvider()
	if err != nil {
		log.Warn("voice disabled", zap.Error(err))
		return nil
	}
	return voice.NewService(speech, speech, a.controller,
		voice.WithLimits(int64(cfg.Voice.MaxAudioMB)<<20, cfg.Voice.MaxTTSChars),
		voice.WithDefaultVoice(cfg.Voice.DefaultVoice),
		voice.WithLogger(log),
	)
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 3000, "Port to listen on (overrides server.port)")
	rootCmd.AddCommand(serverCmd)
}
