package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Application wires the client, local history, logger, and the refresh
// broadcast together. One instance lives for the process; session
// engines are created per review session and discarded after.
type Application struct {
	Config    Config
	Logger    *zap.Logger
	Client    *Client
	History   *HistoryStore
	Broadcast *Broadcaster
}

func NewApplication(cfg Config, mockMode bool) (*Application, error) {
	logger := NewLogger(cfg.DataDir)

	var client *Client
	if mockMode {
		client = NewClient("mock://", "mock")
	} else {
		client = NewClient(cfg.APIBaseURL, cfg.APIToken)
	}

	history, err := NewHistoryStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	return &Application{
		Config:    cfg,
		Logger:    logger,
		Client:    client,
		History:   history,
		Broadcast: NewBroadcaster(),
	}, nil
}

// PollInterval is the configured session-status poll cadence.
func (a *Application) PollInterval() time.Duration {
	return time.Duration(a.Config.PollIntervalSeconds) * time.Second
}

// StartSession creates a server-side review session and wraps it in an
// engine.
func (a *Application) StartSession(ctx context.Context, size int) (*SessionEngine, error) {
	if size <= 0 {
		size = a.Config.SessionSize
	}
	sess, err := a.Client.StartSession(ctx, size)
	if err != nil {
		return nil, err
	}
	return a.newEngine(sess), nil
}

// StartSmartSession creates a query-driven session.
func (a *Application) StartSmartSession(ctx context.Context, query string) (*SessionEngine, error) {
	sess, err := a.Client.CreateSmartSession(ctx, query)
	if err != nil {
		return nil, err
	}
	return a.newEngine(sess), nil
}

// StartSingleSession reviews one already-loaded nugget without a server
// session.
func (a *Application) StartSingleSession(n Nugget) *SessionEngine {
	return a.newEngine(NewSingleSession(n))
}

func (a *Application) newEngine(sess *Session) *SessionEngine {
	engine := NewSessionEngine(sess, a.Client, a.History, a.Broadcast, a.Logger)
	engine.StartPolling(a.Client, a.PollInterval())
	return engine
}

// Stats loads local history and folds it into dashboard numbers.
func (a *Application) Stats() (Stats, error) {
	records, err := a.History.List()
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(records, time.Now()), nil
}

func (a *Application) Close() {
	if a.History != nil {
		_ = a.History.Close()
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}
