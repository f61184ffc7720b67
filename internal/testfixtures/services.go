package testfixtures

import (
	"log/slog"
	"time"

	"github.com/brandportal/growthhub/internal/application"
	"github.com/brandportal/growthhub/internal/assetstore"
	"github.com/brandportal/growthhub/internal/persistence"
)

// ServiceFactory assists tests with constructing stores and services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Location    *time.Location
	Logger      *slog.Logger
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	if factory.Location == nil {
		factory.Location = time.UTC
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WithLocation overrides the calendar location used by planners.
func WithLocation(loc *time.Location) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Location = loc
	}
}

// WithLogger sets the logger handed to stores and services.
func WithLogger(logger *slog.Logger) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Logger = logger
	}
}

// NewStore builds a store over opener using the factory clock. Zero timeouts
// in opts select the store defaults.
func (f *ServiceFactory) NewStore(opener persistence.Opener, opts assetstore.Options) *assetstore.Store {
	if opts.Now == nil {
		opts.Now = f.Clock.NowFunc()
	}
	if opts.Logger == nil {
		opts.Logger = f.Logger
	}
	return assetstore.New(opener, opts)
}

// NewPlannerService builds a planner over store with the factory defaults.
func (f *ServiceFactory) NewPlannerService(store application.StateStore, horizon int) *application.PlannerService {
	return application.NewPlannerServiceWithLogger(
		store,
		f.IDGenerator.NextFunc(),
		f.Clock.NowFunc(),
		application.PlannerConfig{Location: f.Location, Horizon: horizon},
		f.Logger,
	)
}

// Drafts returns n LinkedIn drafts with predictable identifiers and content.
func Drafts(n int) []application.Draft {
	out := make([]application.Draft, n)
	for i := range out {
		out[i] = application.Draft{
			ID:       IDFor("draft", uint64(i+1)),
			Platform: application.PlatformLinkedIn,
			Content:  "Draft post " + string(rune('A'+i%26)),
		}
	}
	return out
}
