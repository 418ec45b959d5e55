package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"MandelbrotMovie/coordinator"
	"MandelbrotMovie/misc"
	"MandelbrotMovie/process"
	"MandelbrotMovie/rpc"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	configFile    string
	flagSettings  = coordinator.DefaultSettings()
	helpShown     bool
	ordinal       int
	reportAddress string
)

func main() {
	rootCmd := newRootCommand()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	// Asking for help never renders and exits non-zero
	if helpShown {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mandelmovie",
		Short: "render 50 Mandelbrot frames at widening scale for a movie",
		Long: "mandelmovie renders mandel1.jpg through mandel50.jpg, each frame a little wider than the last.\n" +
			"The frames are split across --processes OS processes and the rows of each frame across --threads workers.",
		Example: "  mandelmovie -x -0.5 -y -0.5 -s 0.2\n" +
			"  mandelmovie -x -.38 -y -.665 -s .05 -m 100\n" +
			"  mandelmovie -x 0.286932 -y 0.014287 -s .0005 -m 1000 -n 4 -t 8",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runBatch,
	}

	flags := rootCmd.Flags()
	flags.Float64VarP(&flagSettings.CenterX, "xcenter", "x", flagSettings.CenterX, "X coordinate of image center point")
	flags.Float64VarP(&flagSettings.CenterY, "ycenter", "y", flagSettings.CenterY, "Y coordinate of image center point")
	flags.Float64VarP(&flagSettings.Scale, "scale", "s", flagSettings.Scale, "Scale of the first image in Mandelbrot coordinates (X-axis)")
	flags.IntVarP(&flagSettings.Width, "width", "W", flagSettings.Width, "Width of each image in pixels")
	flags.IntVarP(&flagSettings.Height, "height", "H", flagSettings.Height, "Height of each image in pixels")
	flags.UintVarP(&flagSettings.MaxIterations, "max", "m", flagSettings.MaxIterations, "The maximum number of iterations per point")
	flags.StringVarP(&flagSettings.OutputFile, "output", "o", flagSettings.OutputFile, "Output file (ignored; frames are named mandel<N>)")
	flags.IntVarP(&flagSettings.Processes, "processes", "n", flagSettings.Processes, "Number of processes the batch is split across")
	flags.IntVarP(&flagSettings.Threads, "threads", "t", flagSettings.Threads, "Number of workers each image is split across")
	flags.StringVar(&flagSettings.Format, "format", flagSettings.Format, "Image format: jpeg, png, bmp or tiff")
	flags.IntVar(&flagSettings.Quality, "quality", flagSettings.Quality, "JPEG quality [1, 100]")
	flags.StringVar(&flagSettings.SavePath, "dir", flagSettings.SavePath, "Directory the frames are written to")
	flags.StringVar(&flagSettings.LogFile, "log-file", flagSettings.LogFile, "Also append log output to this file")
	flags.StringVarP(&configFile, "config", "c", "", "Settings file (json, or yaml by extension); flags override it")

	flags.IntVar(&ordinal, process.OrdinalFlag, 0, "Process ordinal of a spawned child")
	flags.StringVar(&reportAddress, process.ReportFlag, "", "Progress server of the originating process")
	misc.CheckError(flags.MarkHidden(process.OrdinalFlag), bslogger.NewLogger("Main", bslogger.Normal, nil), misc.Fatal)
	misc.CheckError(flags.MarkHidden(process.ReportFlag), bslogger.NewLogger("Main", bslogger.Normal, nil), misc.Fatal)

	defaultHelp := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		defaultHelp(cmd, args)
		helpShown = true
	})

	return rootCmd
}

// resolveSettings layers the settings file, when given, under the flags that were set explicitly
func resolveSettings(flags *pflag.FlagSet) (coordinator.Settings, error) {
	if configFile == "" {
		return flagSettings, nil
	}

	settings, err := coordinator.LoadSettings(configFile)
	if err != nil {
		return settings, err
	}
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "xcenter":
			settings.CenterX = flagSettings.CenterX
		case "ycenter":
			settings.CenterY = flagSettings.CenterY
		case "scale":
			settings.Scale = flagSettings.Scale
		case "width":
			settings.Width = flagSettings.Width
		case "height":
			settings.Height = flagSettings.Height
		case "max":
			settings.MaxIterations = flagSettings.MaxIterations
		case "output":
			settings.OutputFile = flagSettings.OutputFile
		case "processes":
			settings.Processes = flagSettings.Processes
		case "threads":
			settings.Threads = flagSettings.Threads
		case "format":
			settings.Format = flagSettings.Format
		case "quality":
			settings.Quality = flagSettings.Quality
		case "dir":
			settings.SavePath = flagSettings.SavePath
		case "log-file":
			settings.LogFile = flagSettings.LogFile
		}
	})
	return settings, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	settings, err := resolveSettings(cmd.Flags())
	if err != nil {
		return err
	}

	logFile, err := misc.OpenLogFile(settings.LogFile)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger := bslogger.NewLogger(fmt.Sprintf("Coordinator %d", ordinal), bslogger.Normal, logFile)

	if err := settings.Verify(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if ordinal > 0 {
		return runChild(ctx, settings, logger, logFile)
	}
	return runOriginating(ctx, cmd, settings, logger, logFile)
}

// runChild renders the images of a spawned ordinal and reports each one back to the originating process
func runChild(ctx context.Context, settings coordinator.Settings, logger bslogger.Logger, logFile *os.File) error {
	var reporter rpc.Reporter = rpc.NopReporter{}
	if reportAddress != "" {
		client := rpc.NewProgressClient(reportAddress, bslogger.NewLogger(fmt.Sprintf("ProgressClient %d", ordinal), bslogger.Normal, logFile))
		if err := client.Connect(); err != nil {
			logger.Warningf("Rendering without progress reports: %s", err)
		} else {
			defer func() {
				misc.CheckError(client.Disconnect(), logger, misc.Warning)
			}()
			reporter = client
		}
	}

	return renderOrdinals(ctx, settings, []int{ordinal}, reporter, logger)
}

// renderOrdinals renders the image blocks of the given ordinals one after another in this process. It stops at the
// first ordinal that fails.
func renderOrdinals(ctx context.Context, settings coordinator.Settings, ordinals []int, reporter rpc.Reporter, logger bslogger.Logger) error {
	for _, o := range ordinals {
		c, err := coordinator.NewCoordinator(settings, o, reporter, logger)
		if err != nil {
			return err
		}
		if _, err := c.Run(ctx); err != nil {
			return fmt.Errorf("ordinal %d - %w", o, err)
		}
	}
	return nil
}

func runOriginating(ctx context.Context, cmd *cobra.Command, settings coordinator.Settings, logger bslogger.Logger, logFile *os.File) error {
	logger.Infof("mandel: x=%f y=%f xscale=%f yscale=%f max=%d", settings.CenterX, settings.CenterY, settings.Scale, settings.Scale/float64(settings.Width)*float64(settings.Height), settings.MaxIterations)
	logger.Debug(settings.String())
	if cmd.Flags().Changed("output") {
		logger.Infof("Ignoring output file %s, frames are named mandel<N>", settings.OutputFile)
	}
	if uint(settings.Processes) > coordinator.ImagesToGenerate {
		logger.Warningf("%d processes for %d images, some processes will render nothing", settings.Processes, coordinator.ImagesToGenerate)
	}

	monitor := rpc.NewMonitor(coordinator.ImagesToGenerate, logger)

	// Children are started before the originating process renders its own block
	var spawner *process.Spawner
	var failed []int
	if settings.Processes > 1 {
		address := ""
		server := rpc.NewProgressServer(monitor, "127.0.0.1:0", bslogger.NewLogger("ProgressServer", bslogger.Normal, logFile))
		if err := server.Run(); err != nil {
			logger.Warningf("Progress reporting disabled: %s", err)
		} else {
			defer func() {
				misc.CheckError(server.Stop(), logger, misc.Warning)
			}()
			address = server.Address()
		}

		command, err := process.SelfCommand(os.Args[1:], address)
		if err != nil {
			return err
		}
		spawner = process.NewSpawner(command, logger)
		failed = spawner.Start(settings.Processes)
	}

	// Ordinal 0 first, then any ordinal whose process could not be started
	runErr := renderOrdinals(ctx, settings, append([]int{0}, failed...), monitor, logger)

	// Reap every child even when this process failed so none outlives the batch
	if spawner != nil {
		if err := spawner.Wait(); err != nil && runErr == nil {
			runErr = err
		}
	}
	if runErr != nil {
		return runErr
	}

	if missing := monitor.Missing(); len(missing) > 0 {
		logger.Warningf("No progress report for images %v", missing)
	}
	logger.Info("Creation Completed")
	return nil
}
