package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/mentorloop/mentorship-service/internal/events"
	"github.com/mentorloop/mentorship-service/internal/meetings"
	"github.com/mentorloop/mentorship-service/internal/repositories"
	"github.com/mentorloop/mentorship-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// Logging configuration
	EnableDebugLogging bool
	LogLevel           slog.Level

	// Sweeper settings
	SweeperInterval  time.Duration
	SweeperThreshold time.Duration

	// Global settings
	DefaultTimeout time.Duration
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	db             *gorm.DB
	repo           repositories.Repository
	logger         *slog.Logger
	validator      *validator.Validator
	eventPublisher events.EventPublisher
	meetings       meetings.Provider
	config         ServiceManagerConfig

	// Service instances
	matcherService   MatcherService
	requestService   RequestService
	schedulerService SchedulerService
	sweeperService   SweeperService
	slotService      SlotService
	sessionService   SessionService
	profileService   ProfileService
	notifierService  NotificationEventService
	exportService    ExportService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher, meetingProvider meetings.Provider, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:             db,
		repo:           repo,
		logger:         logger,
		validator:      validator,
		eventPublisher: eventPublisher,
		meetings:       meetingProvider,
		config:         config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, eventPublisher events.EventPublisher, meetingProvider meetings.Provider) ServiceManager {
	config := ServiceManagerConfig{
		EnableDebugLogging: false,
		LogLevel:           slog.LevelInfo,
		SweeperInterval:    time.Hour,
		SweeperThreshold:   48 * time.Hour,
		DefaultTimeout:     30 * time.Second,
	}

	return NewServiceManager(db, repo, logger, validator, eventPublisher, meetingProvider, config)
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.notifierService = NewNotificationEventService(sm.repo, sm.eventPublisher, sm.logger, sm.validator)
	sm.matcherService = NewMatcherService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.profileService = NewProfileService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.slotService = NewSlotService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.sessionService = NewSessionService(sm.repo, sm.db, sm.logger, sm.validator, sm.notifierService)
	sm.exportService = NewExportService(sm.repo, sm.db, sm.logger)

	// Scheduler and request service share the booking transaction
	sm.schedulerService = NewSchedulerService(sm.repo, sm.db, sm.logger, sm.validator, sm.meetings, sm.notifierService)
	sm.requestService = NewRequestService(sm.repo, sm.db, sm.logger, sm.validator, sm.schedulerService, sm.notifierService)
	sm.sweeperService = NewSweeperService(sm.repo, sm.db, sm.logger, sm.requestService, sm.notifierService, sm.config.SweeperInterval, sm.config.SweeperThreshold)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters

func (sm *serviceManager) Matcher() MatcherService {
	return sm.mustGet(sm.matcherService, "matcher").(MatcherService)
}

func (sm *serviceManager) Request() RequestService {
	return sm.mustGet(sm.requestService, "request").(RequestService)
}

func (sm *serviceManager) Scheduler() SchedulerService {
	return sm.mustGet(sm.schedulerService, "scheduler").(SchedulerService)
}

func (sm *serviceManager) Sweeper() SweeperService {
	return sm.mustGet(sm.sweeperService, "sweeper").(SweeperService)
}

func (sm *serviceManager) Slot() SlotService {
	return sm.mustGet(sm.slotService, "slot").(SlotService)
}

func (sm *serviceManager) Session() SessionService {
	return sm.mustGet(sm.sessionService, "session").(SessionService)
}

func (sm *serviceManager) Profile() ProfileService {
	return sm.mustGet(sm.profileService, "profile").(ProfileService)
}

func (sm *serviceManager) NotificationEvent() NotificationEventService {
	return sm.mustGet(sm.notifierService, "notification event").(NotificationEventService)
}

func (sm *serviceManager) Export() ExportService {
	return sm.mustGet(sm.exportService, "export").(ExportService)
}

func (sm *serviceManager) mustGet(service interface{}, name string) interface{} {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	if service == nil {
		panic(name + " service not initialized")
	}
	return service
}

// Health and lifecycle

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.eventPublisher != nil {
		if err := sm.eventPublisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}

// WithTimeout creates a context with the default timeout
func (sm *serviceManager) WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, sm.config.DefaultTimeout)
}
