package monitor

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	apperrors "github.com/And-Hobbes/EnviroHardwareCode/internal/errors"
	"github.com/And-Hobbes/EnviroHardwareCode/internal/logger"
)

// DefaultLightProximityGate is the proximity below which the light sensor is
// trusted. Anything closer shadows it.
const DefaultLightProximityGate = 10

// Options configures an App. Zero sizes, delays and thresholds take the
// defaults.
type Options struct {
	Width  int
	Height int

	HistoryLength int
	HistoryFill   float64

	SmoothingWindow int
	SmoothingFactor float64

	ProximityThreshold float64
	PageDelay          time.Duration
	LightProximityGate float64

	Backlight BacklightConfig

	// Limits overrides the warning limits of variables by name.
	Limits map[string][4]float64

	// Interval is a pause between ticks. Zero runs ticks back to back.
	Interval time.Duration

	Logger logger.Logger
	Now    func() time.Time
}

// DefaultOptions returns the stock settings for the 160x80 Enviro+ LCD.
func DefaultOptions() Options {
	return Options{
		Width:              160,
		Height:             80,
		HistoryLength:      160,
		HistoryFill:        DefaultHistoryFill,
		SmoothingWindow:    DefaultSmoothingWindow,
		SmoothingFactor:    DefaultCompensationFactor,
		ProximityThreshold: DefaultProximityThreshold,
		PageDelay:          DefaultPageDelay,
		LightProximityGate: DefaultLightProximityGate,
		Backlight:          DefaultBacklightConfig(),
	}
}

// App owns all monitor state and runs the main loop.
type App struct {
	gateway SensorGateway
	sink    DisplaySink
	log     logger.Logger
	now     func() time.Time

	vars      [NumVariables]Variable
	smoother  *Smoother
	history   *History
	renderer  *Renderer
	backlight *Backlight
	pager     *Pager

	factor    float64
	lightGate float64
	interval  time.Duration

	// proximity is the reading taken at the start of the current tick.
	proximity float64
}

// New creates an App reading from gateway and drawing to sink.
func New(gateway SensorGateway, sink DisplaySink, opts Options) (*App, error) {
	def := DefaultOptions()
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = def.Width, def.Height
	}
	if opts.HistoryLength <= 0 {
		opts.HistoryLength = opts.Width
	}
	if opts.SmoothingFactor == 0 {
		opts.SmoothingFactor = def.SmoothingFactor
	}
	if opts.ProximityThreshold <= 0 {
		opts.ProximityThreshold = def.ProximityThreshold
	}
	if opts.LightProximityGate <= 0 {
		opts.LightProximityGate = def.LightProximityGate
	}
	if opts.PageDelay <= 0 {
		opts.PageDelay = def.PageDelay
	}
	if opts.Backlight == (BacklightConfig{}) {
		opts.Backlight = def.Backlight
	}
	if opts.Logger == nil {
		opts.Logger = logger.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	a := &App{
		gateway:   gateway,
		sink:      sink,
		log:       opts.Logger,
		now:       opts.Now,
		vars:      Variables,
		smoother:  NewSmoother(opts.SmoothingWindow),
		history:   NewHistory(NumVariables, opts.HistoryLength, opts.HistoryFill),
		renderer:  NewRenderer(opts.Width, opts.Height),
		backlight: NewBacklight(sink, opts.Backlight),
		pager:     NewPager(opts.ProximityThreshold, opts.PageDelay, opts.Now()),
		factor:    opts.SmoothingFactor,
		lightGate: opts.LightProximityGate,
		interval:  opts.Interval,
	}

	for name, limits := range opts.Limits {
		i, ok := VariableIndex(name)
		if !ok {
			return nil, apperrors.New(apperrors.ErrConfig,
				fmt.Sprintf("Unknown variable %q in thresholds", name),
				"Use one of: temperature, pressure, humidity, light, oxidised, reduced, nh3, pm1, pm25, pm10")
		}
		a.vars[i].Limits = limits
	}

	return a, nil
}

// Page returns the page currently shown.
func (a *App) Page() Page {
	return a.pager.Page()
}

// BacklightState returns the current backlight state.
func (a *App) BacklightState() BacklightState {
	return a.backlight.State()
}

// History returns the recorded values.
func (a *App) History() *History {
	return a.history
}

// Run ticks until ctx is cancelled. Cancellation is only observed between
// ticks; a tick in progress always completes. Failed ticks are logged and the
// loop carries on.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("Enviro+ monitor running, wave a hand over the sensor to change page")

	for {
		select {
		case <-ctx.Done():
			a.log.Info("Stopping")
			return nil
		default:
		}

		if err := a.Tick(); err != nil {
			a.log.Error("%v", err)
		}

		if a.interval > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(a.interval):
			}
		}
	}
}

// Tick runs one iteration: read the gesture sensor, update the backlight and
// page, then run the active page's handler.
func (a *App) Tick() error {
	proximity, err := a.gateway.Proximity()
	if err != nil {
		return fmt.Errorf("read proximity: %w", err)
	}
	lux, err := a.gateway.Lux()
	if err != nil {
		return fmt.Errorf("read lux: %w", err)
	}
	a.proximity = proximity

	now := a.now()
	if err := a.backlight.Update(lux, now); err != nil {
		a.log.Error("%v", err)
	}
	if a.pager.Update(proximity, now) {
		a.log.Debug("page changed to %s", a.pager.Page())
	}

	return pageHandlers[a.pager.Page()](a)
}

// pageHandler runs one tick's work for a page.
type pageHandler func(a *App) error

var pageHandlers = [...]pageHandler{
	PageTemperature: showOne(PageTemperature, (*App).readTemperature),
	PagePressure:    showOne(PagePressure, func(a *App) (float64, error) { return a.gateway.Pressure() }),
	PageHumidity:    showOne(PageHumidity, func(a *App) (float64, error) { return a.gateway.Humidity() }),
	PageLight:       showOne(PageLight, (*App).readLight),
	PageOxidised:    showOne(PageOxidised, gasChannel(func(g Gas) float64 { return g.Oxidising })),
	PageReduced:     showOne(PageReduced, gasChannel(func(g Gas) float64 { return g.Reducing })),
	PageNH3:         showOne(PageNH3, gasChannel(func(g Gas) float64 { return g.NH3 })),
	PagePM1:         showOne(PagePM1, pmChannel(func(p Particulates) float64 { return p.PM1 })),
	PagePM25:        showOne(PagePM25, pmChannel(func(p Particulates) float64 { return p.PM25 })),
	PagePM10:        showOne(PagePM10, pmChannel(func(p Particulates) float64 { return p.PM10 })),
	PageAll:         (*App).showAll,
}

// Every page needs a handler: either line fails to compile when the table and
// the Page constants disagree in length.
var _ [len(pageHandlers) - int(pageCount)]struct{}
var _ [int(pageCount) - len(pageHandlers)]struct{}

// showOne builds the handler of a single-variable page.
func showOne(page Page, read func(a *App) (float64, error)) pageHandler {
	return func(a *App) error {
		value, err := read(a)
		if err != nil {
			return a.readFailed(page, err)
		}
		i, _ := page.Variable()
		a.record(i, value)
		return a.push(a.renderer.Single(a.vars[i], value, a.history.Normalized(i)))
	}
}

// readingGroup is a set of consecutive variables read together on the
// all-variables page. The grid is redrawn after each group.
type readingGroup struct {
	first Page
	read  func(a *App) ([]float64, error)
}

var allPageGroups = []readingGroup{
	{PageTemperature, one((*App).readTemperature)},
	{PagePressure, one(func(a *App) (float64, error) { return a.gateway.Pressure() })},
	{PageHumidity, one(func(a *App) (float64, error) { return a.gateway.Humidity() })},
	{PageLight, one((*App).readLight)},
	{PageOxidised, (*App).readGases},
	{PagePM1, (*App).readParticulates},
}

func (a *App) showAll() error {
	var errs []error
	for _, g := range allPageGroups {
		values, err := g.read(a)
		if err != nil {
			if err := a.readFailed(g.first, err); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		for i, v := range values {
			a.record(int(g.first)+i, v)
		}
		if err := a.push(a.renderer.Grid(a.vars[:], a.latest())); err != nil {
			return err
		}
	}
	return errors.Join(errs...)
}

func one(read func(a *App) (float64, error)) func(a *App) ([]float64, error) {
	return func(a *App) ([]float64, error) {
		v, err := read(a)
		if err != nil {
			return nil, err
		}
		return []float64{v}, nil
	}
}

func gasChannel(pick func(Gas) float64) func(a *App) (float64, error) {
	return func(a *App) (float64, error) {
		g, err := a.gateway.Gas()
		if err != nil {
			return 0, err
		}
		return pick(g) / 1000, nil
	}
}

func pmChannel(pick func(Particulates) float64) func(a *App) (float64, error) {
	return func(a *App) (float64, error) {
		p, err := a.gateway.Particulates()
		if err != nil {
			return 0, err
		}
		return pick(p), nil
	}
}

// readTemperature returns the sensor temperature compensated for CPU heat.
// Both the temperature page and the all page feed the same smoother.
func (a *App) readTemperature() (float64, error) {
	cpu, err := a.gateway.CPUTemperature()
	if err != nil {
		return 0, err
	}
	avg := a.smoother.Observe(cpu)
	raw, err := a.gateway.Temperature()
	if err != nil {
		return 0, err
	}
	return Compensate(raw, avg, a.factor), nil
}

func (a *App) readLight() (float64, error) {
	if a.proximity < a.lightGate {
		return a.gateway.Lux()
	}
	return 1, nil
}

func (a *App) readGases() ([]float64, error) {
	g, err := a.gateway.Gas()
	if err != nil {
		return nil, err
	}
	return []float64{g.Oxidising / 1000, g.Reducing / 1000, g.NH3 / 1000}, nil
}

func (a *App) readParticulates() ([]float64, error) {
	p, err := a.gateway.Particulates()
	if err != nil {
		return nil, err
	}
	return []float64{p.PM1, p.PM25, p.PM10}, nil
}

// readFailed logs a timed out read as a warning and drops it. Other failures
// are returned to the loop.
func (a *App) readFailed(page Page, err error) error {
	if errors.Is(err, ErrSensorTimeout) {
		if page >= PagePM1 && page <= PagePM10 {
			a.log.Warn("Failed to read PMS5003")
		} else {
			a.log.Warn("Failed to read %s: %v", page, err)
		}
		return nil
	}
	return fmt.Errorf("read %s: %w", page, err)
}

func (a *App) record(i int, value float64) {
	a.history.Record(i, value)
	a.log.Info("%s", a.vars[i].Label(value))
}

func (a *App) latest() []float64 {
	out := make([]float64, NumVariables)
	for i := range out {
		out[i] = a.history.Latest(i)
	}
	return out
}

func (a *App) push(frame image.Image) error {
	if err := a.sink.PushFrame(frame); err != nil {
		return fmt.Errorf("push frame: %w", err)
	}
	return nil
}
