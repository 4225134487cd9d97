package tracker

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/briangreenhill/mapty/internal/form"
	"github.com/briangreenhill/mapty/internal/gpxio"
	"github.com/briangreenhill/mapty/internal/workout"
)

var ErrUsage = errors.New("invalid usage")

type CLI struct {
	writer io.Writer
	reader io.Reader
	app    *App
	addr   string
	logger *slog.Logger
}

// NewCLI returns a CLI writing to w and reading confirmations from r. addr
// is where the api command listens.
func NewCLI(w io.Writer, r io.Reader, logger *slog.Logger, app *App, addr string) *CLI {
	return &CLI{
		writer: w,
		reader: r,
		app:    app,
		addr:   addr,
		logger: logger,
	}
}

func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.Usage()
		return nil
	}

	var cmd func(context.Context, []string) error
	switch args[0] {
	case "add":
		cmd = c.Add
	case "list":
		cmd = c.List
	case "select":
		cmd = c.Select
	case "delete":
		cmd = c.Delete
	case "import":
		cmd = c.Import
	case "export":
		cmd = c.Export
	case "api":
		cmd = func(ctx context.Context, _ []string) error { return c.RunAPI(ctx) }
	default:
		c.Usage()
		return nil
	}

	if err := c.app.Start(ctx); err != nil {
		return err
	}
	return cmd(ctx, args[1:])
}

func (c *CLI) Usage() {
	fmt.Fprintf(c.writer, `Usage: mapty [command] [flags]
--help show this message

	add --type running|cycling --lat --lng --distance --duration [--cadence|--elevation]
	list
	select <id>     (click counts are saved with the next add or delete)
	delete [--yes] <id>
	import --gpx <file> [--type running|cycling] [--cadence]
	export --gpx <file|->
	api
`)
}

func (c *CLI) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("mapty "+name, flag.ContinueOnError)
	fs.SetOutput(c.writer)
	return fs
}

// Add records a workout at --lat/--lng as if the map had been clicked there.
func (c *CLI) Add(ctx context.Context, args []string) error {
	fs := c.flagSet("add")
	kind := fs.String("type", string(workout.KindRunning), "running or cycling")
	lat := fs.Float64("lat", 0, "latitude")
	lng := fs.Float64("lng", 0, "longitude")
	var v form.Values
	fs.StringVar(&v.Distance, "distance", "", "distance in km")
	fs.StringVar(&v.Duration, "duration", "", "duration in min")
	fs.StringVar(&v.Cadence, "cadence", "", "cadence in steps/min (running)")
	fs.StringVar(&v.Elevation, "elevation", "", "elevation gain in m (cycling)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	k, err := workout.ParseKind(*kind)
	if err != nil {
		return err
	}
	v.Type = k

	click, err := c.app.ClickMap(workout.Coords{*lat, *lng})
	if err != nil {
		return fmt.Errorf("add workout: %w", err)
	}
	w, err := c.app.Create(ctx, click.ID, v)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.writer, "Added %s (%s)\n", w.Common().Description, w.Common().ID)
	return nil
}

// Import adds the workout recorded in a GPX track, placed at its first point.
// Elevation gain comes from the track; running needs --cadence.
func (c *CLI) Import(ctx context.Context, args []string) error {
	fs := c.flagSet("import")
	var gpxFile, cadence string
	fs.StringVar(&gpxFile, "gpx", "", "path to gpx file")
	kind := fs.String("type", string(workout.KindCycling), "running or cycling")
	fs.StringVar(&cadence, "cadence", "", "cadence in steps/min (running)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if gpxFile == "" {
		c.Usage()
		return ErrUsage
	}

	k, err := workout.ParseKind(*kind)
	if err != nil {
		return err
	}

	c.logger.Info("Importing gpx file", slog.String("gpx_file", gpxFile))
	data, err := gpxio.ReadFile(gpxFile)
	if err != nil {
		return err
	}
	track, err := gpxio.ParseTrack(data)
	if err != nil {
		return err
	}

	click, err := c.app.ClickMap(track.Start)
	if err != nil {
		return fmt.Errorf("import workout: %w", err)
	}
	w, err := c.app.Create(ctx, click.ID, form.Values{
		Type:      k,
		Distance:  formatNumber(track.Distance),
		Duration:  formatNumber(track.Duration),
		Cadence:   cadence,
		Elevation: formatNumber(track.ElevationGain),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.writer, "Imported %s (%s): %s\n", w.Common().Description, w.Common().ID, gpxio.Summary(w))
	return nil
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// List prints the workouts newest first, the way the sidebar shows them.
func (c *CLI) List(_ context.Context, _ []string) error {
	workouts := c.app.Workouts()
	if len(workouts) == 0 {
		fmt.Fprintln(c.writer, "No workouts yet")
		return nil
	}

	tw := tabwriter.NewWriter(c.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWORKOUT\tDETAILS\tCLICKS")
	for i := len(workouts) - 1; i >= 0; i-- {
		w := workouts[i]
		b := w.Common()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", b.ID, b.Description, gpxio.Summary(w), b.Clicks)
	}
	return tw.Flush()
}

func (c *CLI) Select(_ context.Context, args []string) error {
	if len(args) != 1 {
		c.Usage()
		return ErrUsage
	}
	w, err := c.app.Select(args[0])
	if err != nil {
		return err
	}
	b := w.Common()
	fmt.Fprintf(c.writer, "%s at %.4f,%.4f\n", b.Description, b.Coords.Lat(), b.Coords.Lng())
	return nil
}

// Delete asks for confirmation on the reader unless --yes is given.
func (c *CLI) Delete(ctx context.Context, args []string) error {
	fs := c.flagSet("delete")
	yes := fs.Bool("yes", false, "delete without asking")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		c.Usage()
		return ErrUsage
	}

	if err := c.app.RequestDelete(fs.Arg(0)); err != nil {
		return err
	}

	if !*yes && !c.confirm("Delete this workout? [y/N] ") {
		fmt.Fprintln(c.writer, "Cancelled")
		return c.app.CancelDelete()
	}

	w, err := c.app.ConfirmDelete(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.writer, "Deleted %s\n", w.Common().Description)
	return nil
}

func (c *CLI) confirm(prompt string) bool {
	fmt.Fprint(c.writer, prompt)
	answer, err := bufio.NewReader(c.reader).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

func (c *CLI) Export(_ context.Context, args []string) error {
	fs := c.flagSet("export")
	var path string
	fs.StringVar(&path, "gpx", "", "output file, - for stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if path == "" {
		c.Usage()
		return ErrUsage
	}

	workouts := c.app.Workouts()
	if path == "-" {
		return gpxio.Write(c.writer, workouts)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating gpx file: %w", err)
	}
	defer file.Close()

	if err := gpxio.Write(file, workouts); err != nil {
		return err
	}
	c.logger.Info("Exported workouts", slog.String("gpx_file", path), slog.Int("count", len(workouts)))
	return file.Close()
}

func (c *CLI) RunAPI(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt)
	defer cancel()

	server := &http.Server{
		Addr:    c.addr,
		Handler: NewAPI(c.logger, c.app),
	}

	go func() {
		<-ctx.Done()
		c.logger.Info("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			c.logger.Error("Error shutting down server", slog.Any("error", err))
		}
	}()

	c.logger.Info("Starting server", slog.String("address", c.addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		c.logger.Error("Error starting server", slog.Any("error", err))
		return err
	}

	return nil
}
