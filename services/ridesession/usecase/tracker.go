package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/piresc/ridetracker/internal/pkg/constants"
	"github.com/piresc/ridetracker/internal/pkg/countdown"
	"github.com/piresc/ridetracker/internal/pkg/logger"
	"github.com/piresc/ridetracker/internal/pkg/models"
	"github.com/piresc/ridetracker/internal/pkg/observability"
	"github.com/piresc/ridetracker/internal/pkg/poller"
	"github.com/piresc/ridetracker/internal/pkg/realtime"
	"github.com/piresc/ridetracker/internal/pkg/requestcontext"
	"github.com/piresc/ridetracker/internal/pkg/retry"
	"github.com/piresc/ridetracker/services/ridesession"
)

const repoTimeout = 2 * time.Second

// resumeRetry covers a rides API that is briefly unreachable at startup
var resumeRetry = retry.Config{
	MaxRetries: 2,
	BaseDelay:  500 * time.Millisecond,
	MaxDelay:   2 * time.Second,
	Multiplier: 2,
	Jitter:     0.2,
}

// Option customizes a tracker
type Option func(*trackerUC)

// WithTicker replaces the wall-clock countdown ticker
func WithTicker(f countdown.TickerFunc) Option {
	return func(uc *trackerUC) { uc.newTicker = f }
}

// WithMetrics records tracker metrics on m
func WithMetrics(m *observability.Metrics) Option {
	return func(uc *trackerUC) { uc.metrics = m }
}

// WithTracer traces actions and polls
func WithTracer(t observability.Tracer) Option {
	return func(uc *trackerUC) { uc.tracer = t }
}

// WithResumeRetry replaces the backoff used when Resume fetches the recorded
// ride. Only network failures and 5xx/429 responses are retried.
func WithResumeRetry(cfg retry.Config) Option {
	return func(uc *trackerUC) { uc.resumeRetry = cfg }
}

// WithClock replaces the time source used to stamp updates
func WithClock(now func() time.Time) Option {
	return func(uc *trackerUC) { uc.now = now }
}

type listenerEntry struct {
	id realtime.SubscriptionID
	fn ridesession.Listener
}

type trackerUC struct {
	cfg        *models.Config
	role       models.Role
	transport  ridesession.Transport
	ridesGW    ridesession.RideGW
	activeRepo ridesession.ActiveRideRepo
	alert      ridesession.Alert
	metrics    *observability.Metrics
	tracer     observability.Tracer
	newTicker  countdown.TickerFunc
	now        func() time.Time
	visible    atomic.Bool

	resumeRetry retry.Config
	resumer     *retry.Retrier

	// persistMu orders writes to the active ride pointer. It is never held
	// together with mu across repository I/O.
	persistMu sync.Mutex

	mu       sync.Mutex
	sessions map[string]*tracked
	offers   []models.RideOffer

	listenersMu sync.RWMutex
	listeners   []listenerEntry
}

// tracked bundles everything owned by one followed ride
type tracked struct {
	rideID       string
	session      *Session
	poller       *poller.Scheduler
	countdown    *countdown.Controller // rider only
	subs         []realtime.Subscription
	pollFailures atomic.Int32
}

// NewTrackerUC creates the ride session tracker for the configured role
func NewTrackerUC(
	cfg *models.Config,
	transport ridesession.Transport,
	ridesGW ridesession.RideGW,
	activeRepo ridesession.ActiveRideRepo,
	alert ridesession.Alert,
	opts ...Option,
) (ridesession.TrackerUC, error) {
	if !cfg.App.Role.Valid() {
		return nil, fmt.Errorf("invalid app role %q", cfg.App.Role)
	}

	uc := &trackerUC{
		cfg:        cfg,
		role:       cfg.App.Role,
		transport:  transport,
		ridesGW:    ridesGW,
		activeRepo: activeRepo,
		alert:      alert,
		tracer:     observability.NewNoOpTracer(),
		newTicker:  countdown.RealTicker,
		now:        models.Now,
		sessions:   make(map[string]*tracked),

		resumeRetry: resumeRetry,
	}
	for _, opt := range opts {
		opt(uc)
	}
	uc.resumeRetry.RetryableFunc = retryableFetch
	uc.resumer = retry.New(uc.resumeRetry, nil)
	uc.visible.Store(true)
	return uc, nil
}

// Track starts following a ride the local rider just requested
func (uc *trackerUC) Track(ctx context.Context, rideID string) (models.SessionView, error) {
	if rideID == "" {
		return models.SessionView{}, fmt.Errorf("%w: ride id is required", models.ErrInvalidStatus)
	}
	return uc.track(ctx, models.NewRideSession(rideID, uc.role, models.RideStatusRequesting), nil, models.SourceAction)
}

// Resume restores the ride recorded in the active ride pointer if the
// server still reports it in progress
func (uc *trackerUC) Resume(ctx context.Context) (models.SessionView, error) {
	active, err := uc.activeRepo.Get(ctx)
	if err != nil {
		return models.SessionView{}, err
	}

	var snap *models.RideSnapshot
	err = uc.resumer.Execute(ctx, func(ctx context.Context) error {
		var err error
		snap, err = uc.ridesGW.FetchRide(ctx, active.RideID)
		return err
	})
	if err != nil {
		if models.StatusCodeOf(err) == http.StatusNotFound {
			uc.clearPointer(active.RideID)
			return models.SessionView{}, fmt.Errorf("%w: %v", models.ErrNoActiveRide, err)
		}
		return models.SessionView{}, &models.PollError{RideID: active.RideID, StatusCode: models.StatusCodeOf(err), Err: err}
	}

	update := SnapshotUpdate(snap, uc.role, models.SourcePoll, uc.now())
	if update.Status.IsTerminal() {
		logger.Info("Recorded ride already finished",
			logger.RideID(active.RideID),
			logger.String("status", string(update.Status)))
		uc.clearPointer(active.RideID)
		return models.SessionView{}, models.ErrNoActiveRide
	}

	return uc.track(ctx, models.NewRideSession(active.RideID, uc.role, models.RideStatusRequesting), snap, models.SourcePoll)
}

// retryableFetch accepts transport failures and server side errors. Any
// other answer from the rides API is final.
func retryableFetch(err error) bool {
	code := models.StatusCodeOf(err)
	return code == 0 || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func (uc *trackerUC) track(ctx context.Context, initial models.RideSession, snap *models.RideSnapshot, source models.UpdateSource) (models.SessionView, error) {
	uc.mu.Lock()
	if t, ok := uc.sessions[initial.RideID]; ok {
		uc.mu.Unlock()
		return NewSessionView(t.session.Current()), nil
	}
	t := uc.newTracked(initial)
	uc.sessions[t.rideID] = t
	uc.mu.Unlock()
	uc.metrics.SessionsChanged(1)

	if snap != nil {
		uc.apply(t, SnapshotUpdate(snap, uc.role, source, uc.now()))
	}

	cur := t.session.Current()
	if !cur.IsTerminal() {
		t.poller.Start(t.rideID, uc.fetch, &pollSink{uc: uc, t: t})
		if t.countdown != nil && cur.Status == models.RideStatusRequesting {
			t.countdown.Start(uc.countdownSeconds())
		}
	}
	uc.persist(ctx, t)

	logger.Info("Tracking ride",
		logger.RideID(t.rideID),
		logger.String("role", string(uc.role)),
		logger.String("status", string(cur.Status)))

	view := NewSessionView(cur)
	uc.emit(ridesession.Event{Name: constants.EventSessionState, RideID: t.rideID, Data: view})
	return view, nil
}

func (uc *trackerUC) newTracked(initial models.RideSession) *tracked {
	t := &tracked{rideID: initial.RideID}
	t.poller = poller.New(poller.Config{
		InitialDelay: uc.cfg.Tracking.PollInitialDelay,
		Interval:     uc.cfg.Tracking.PollInterval,
		FetchTimeout: uc.cfg.Rides.Timeout,
	})
	if uc.role == models.RoleRider {
		t.countdown = countdown.New(uc.newTicker, uc.visible.Load, uc.countdownCallbacks(t))
	}
	t.session = NewSession(initial, uc.onChange(t), uc.onResult)

	for _, event := range constants.RideEvents {
		t.subs = append(t.subs, uc.transport.Subscribe(event, uc.pushHandler(t, event)))
	}
	return t
}

// StopTracking tears down everything held for rideID and clears the active
// ride pointer. The shared transport stays connected.
func (uc *trackerUC) StopTracking(rideID string) error {
	uc.mu.Lock()
	t, ok := uc.sessions[rideID]
	if !ok {
		uc.mu.Unlock()
		return models.ErrSessionNotFound
	}
	delete(uc.sessions, rideID)
	uc.teardown(t)
	uc.mu.Unlock()
	uc.clearPointer(rideID)

	uc.metrics.SessionsChanged(-1)
	logger.Info("Stopped tracking ride", logger.RideID(rideID))
	uc.emit(ridesession.Event{
		Name:   constants.EventSessionClosed,
		RideID: rideID,
		Data:   map[string]string{"ride_id": rideID},
	})
	return nil
}

// Acknowledge ends a session the user has seen finish
func (uc *trackerUC) Acknowledge(rideID string) error {
	t, err := uc.get(rideID)
	if err != nil {
		return err
	}
	if !t.session.Terminal() {
		return models.ErrRideActive
	}
	return uc.StopTracking(rideID)
}

// Close stops every session but leaves the active ride pointer so the next
// start can resume
func (uc *trackerUC) Close() {
	uc.mu.Lock()
	closed := len(uc.sessions)
	for id, t := range uc.sessions {
		uc.teardown(t)
		delete(uc.sessions, id)
	}
	uc.mu.Unlock()

	uc.metrics.SessionsChanged(-float64(closed))
	if uc.alert != nil {
		uc.alert.Stop()
	}
}

// teardown releases timers and handlers. Callers hold uc.mu.
func (uc *trackerUC) teardown(t *tracked) {
	if t.countdown != nil {
		t.countdown.Stop()
	}
	t.poller.Stop()
	uc.transport.UnsubscribeAll(t.subs)
	t.subs = nil
}

func (uc *trackerUC) Session(rideID string) (models.SessionView, error) {
	t, err := uc.get(rideID)
	if err != nil {
		return models.SessionView{}, err
	}
	return NewSessionView(t.session.Current()), nil
}

func (uc *trackerUC) Sessions() []models.SessionView {
	uc.mu.Lock()
	views := make([]models.SessionView, 0, len(uc.sessions))
	for _, t := range uc.sessions {
		views = append(views, NewSessionView(t.session.Current()))
	}
	uc.mu.Unlock()

	sort.Slice(views, func(i, j int) bool { return views[i].RideID < views[j].RideID })
	return views
}

// Cancel asks the rides API to cancel and applies the cancellation once it
// succeeded
func (uc *trackerUC) Cancel(ctx context.Context, rideID, reason string) (models.SessionView, error) {
	const action = "cancel"
	if uc.role != models.RoleRider {
		return models.SessionView{}, &models.ActionError{Action: action, RideID: rideID, Err: models.ErrRoleForbidden}
	}
	t, err := uc.getActive(action, rideID)
	if err != nil {
		return models.SessionView{}, err
	}

	err = uc.runAction(ctx, action, rideID, func(ctx context.Context) error {
		_, err := uc.ridesGW.RequestCancel(ctx, rideID, reason)
		return err
	})
	if err != nil {
		return models.SessionView{}, err
	}

	now := uc.now()
	uc.apply(t, models.Update{
		Source: models.SourceAction,
		Kind:   models.UpdateCancellation,
		RideID: rideID,
		Cancellation: &models.Cancellation{
			CancelledBy: models.CancelledBy(uc.role),
			Reason:      reason,
			CancelledAt: now,
		},
		ReceivedAt: now,
	})
	return NewSessionView(t.session.Current()), nil
}

// Accept claims an offered ride for the local driver and starts tracking it
func (uc *trackerUC) Accept(ctx context.Context, rideID string) (models.SessionView, error) {
	const action = "accept"
	if uc.role != models.RoleDriver {
		return models.SessionView{}, &models.ActionError{Action: action, RideID: rideID, Err: models.ErrRoleForbidden}
	}

	uc.mu.Lock()
	if t, ok := uc.sessions[rideID]; ok {
		uc.mu.Unlock()
		return NewSessionView(t.session.Current()), nil
	}
	offer, hadOffer := uc.findOfferLocked(rideID)
	uc.mu.Unlock()

	var snap *models.RideSnapshot
	err := uc.runAction(ctx, action, rideID, func(ctx context.Context) error {
		var err error
		snap, err = uc.ridesGW.DriverAccept(ctx, rideID)
		return err
	})
	if err != nil {
		return models.SessionView{}, err
	}
	uc.RetractOffer(rideID)

	initial := models.NewRideSession(rideID, uc.role, models.RideStatusMatched)
	if hadOffer {
		initial.Pickup = offer.Pickup
		initial.Dropoff = offer.Dropoff
		if offer.Fare != nil {
			fare := *offer.Fare
			initial.Fare = &fare
		}
	}
	return uc.track(ctx, initial, snap, models.SourceAction)
}

// Reject declines an offered ride
func (uc *trackerUC) Reject(ctx context.Context, rideID, reason string) error {
	const action = "reject"
	if uc.role != models.RoleDriver {
		return &models.ActionError{Action: action, RideID: rideID, Err: models.ErrRoleForbidden}
	}

	err := uc.runAction(ctx, action, rideID, func(ctx context.Context) error {
		return uc.ridesGW.DriverReject(ctx, rideID, reason)
	})
	if err != nil {
		return err
	}
	uc.RetractOffer(rideID)
	return nil
}

// AdvanceStatus moves a driver's ride to arrived, in_transit or completed.
// The session follows the server's response.
func (uc *trackerUC) AdvanceStatus(ctx context.Context, rideID string, next models.RideStatus) (models.SessionView, error) {
	const action = "advance_status"
	if uc.role != models.RoleDriver {
		return models.SessionView{}, &models.ActionError{Action: action, RideID: rideID, Err: models.ErrRoleForbidden}
	}
	switch next {
	case models.RideStatusArrived, models.RideStatusInTransit, models.RideStatusCompleted:
	default:
		return models.SessionView{}, &models.ActionError{Action: action, RideID: rideID, Err: models.ErrInvalidStatus}
	}

	t, err := uc.getActive(action, rideID)
	if err != nil {
		return models.SessionView{}, err
	}
	if cur := t.session.Current(); !cur.Status.Advances(next) {
		return models.SessionView{}, &models.ActionError{
			Action: action,
			RideID: rideID,
			Err:    fmt.Errorf("%w: %s to %s", models.ErrInvalidStatus, cur.Status, next),
		}
	}

	var snap *models.RideSnapshot
	err = uc.runAction(ctx, action, rideID, func(ctx context.Context) error {
		var err error
		snap, err = uc.ridesGW.DriverAdvanceStatus(ctx, rideID, next)
		return err
	})
	if err != nil {
		return models.SessionView{}, err
	}

	now := uc.now()
	if snap != nil {
		uc.apply(t, SnapshotUpdate(snap, uc.role, models.SourceAction, now))
	} else {
		uc.apply(t, models.Update{
			Source:     models.SourceAction,
			Kind:       models.UpdateStatus,
			RideID:     rideID,
			Status:     next,
			ReceivedAt: now,
		})
	}
	return NewSessionView(t.session.Current()), nil
}

// RestartSearch runs the search countdown again after a timeout
func (uc *trackerUC) RestartSearch(rideID string) error {
	if uc.role != models.RoleRider {
		return models.ErrRoleForbidden
	}
	t, err := uc.get(rideID)
	if err != nil {
		return err
	}
	cur := t.session.Current()
	if cur.IsTerminal() {
		return models.ErrTerminal
	}
	if cur.Status != models.RideStatusRequesting {
		return fmt.Errorf("%w: search is over once %s", models.ErrInvalidStatus, cur.Status)
	}

	logger.Info("Restarting search countdown", logger.RideID(rideID))
	t.countdown.Start(uc.countdownSeconds())
	return nil
}

// SetVisible pauses or resumes countdown ticking
func (uc *trackerUC) SetVisible(visible bool) {
	uc.visible.Store(visible)
}

// AddOffer shows a new ride request to the local driver and starts the alert
func (uc *trackerUC) AddOffer(offer models.RideOffer) {
	if uc.role != models.RoleDriver || offer.RideID == "" {
		return
	}
	if offer.ReceivedAt.IsZero() {
		offer.ReceivedAt = uc.now()
	}

	uc.mu.Lock()
	replaced := false
	for i := range uc.offers {
		if uc.offers[i].RideID == offer.RideID {
			uc.offers[i] = offer
			replaced = true
		}
	}
	if !replaced {
		uc.offers = append(uc.offers, offer)
	}
	offers := append([]models.RideOffer(nil), uc.offers...)
	uc.mu.Unlock()

	logger.Info("Ride offer received", logger.RideID(offer.RideID), logger.Int("open_offers", len(offers)))
	if uc.alert != nil {
		uc.alert.Start()
	}
	uc.emit(ridesession.Event{Name: constants.EventOffersUpdated, Data: offers})
}

// RetractOffer removes an offer and stops the alert once none remain
func (uc *trackerUC) RetractOffer(rideID string) {
	uc.mu.Lock()
	removed := false
	kept := uc.offers[:0]
	for _, o := range uc.offers {
		if o.RideID == rideID {
			removed = true
			continue
		}
		kept = append(kept, o)
	}
	uc.offers = kept
	offers := append([]models.RideOffer(nil), uc.offers...)
	uc.mu.Unlock()

	if !removed {
		return
	}
	if len(offers) == 0 && uc.alert != nil {
		uc.alert.Stop()
	}
	uc.emit(ridesession.Event{Name: constants.EventOffersUpdated, Data: offers})
}

func (uc *trackerUC) Offers() []models.RideOffer {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return append([]models.RideOffer(nil), uc.offers...)
}

func (uc *trackerUC) findOfferLocked(rideID string) (models.RideOffer, bool) {
	for _, o := range uc.offers {
		if o.RideID == rideID {
			return o, true
		}
	}
	return models.RideOffer{}, false
}

// TransportStateChanged re-evaluates the connection problem signal of every
// session
func (uc *trackerUC) TransportStateChanged(state realtime.State) {
	uc.mu.Lock()
	all := make([]*tracked, 0, len(uc.sessions))
	for _, t := range uc.sessions {
		all = append(all, t)
	}
	uc.mu.Unlock()

	for _, t := range all {
		uc.refreshConnection(t)
	}
	uc.emit(ridesession.Event{Name: constants.EventConnection, Data: map[string]string{"state": string(state)}})
}

func (uc *trackerUC) AddListener(l ridesession.Listener) realtime.SubscriptionID {
	id := realtime.SubscriptionID(uuid.New().String())
	uc.listenersMu.Lock()
	uc.listeners = append(uc.listeners, listenerEntry{id: id, fn: l})
	uc.listenersMu.Unlock()
	return id
}

func (uc *trackerUC) RemoveListener(id realtime.SubscriptionID) {
	uc.listenersMu.Lock()
	defer uc.listenersMu.Unlock()
	for i, l := range uc.listeners {
		if l.id == id {
			uc.listeners = append(uc.listeners[:i], uc.listeners[i+1:]...)
			return
		}
	}
}

func (uc *trackerUC) emit(ev ridesession.Event) {
	uc.listenersMu.RLock()
	listeners := append([]listenerEntry(nil), uc.listeners...)
	uc.listenersMu.RUnlock()

	for _, l := range listeners {
		l.fn(ev)
	}
}

// apply runs u through the session and persists status changes
func (uc *trackerUC) apply(t *tracked, u models.Update) models.UpdateOutcome {
	outcome := t.session.Apply(u)
	if outcome.StatusChanged {
		uc.persist(context.Background(), t)
	}
	return outcome
}

// onChange runs under the session lock for every applied update
func (uc *trackerUC) onChange(t *tracked) ChangeFunc {
	return func(ch Change) {
		if t.countdown != nil && ch.Next.Status != models.RideStatusRequesting {
			t.countdown.Stop()
		}
		if ch.Next.IsTerminal() {
			t.poller.Stop()
		}
		if ch.Outcome.StatusChanged {
			logger.Info("Ride status changed",
				logger.RideID(t.rideID),
				logger.String("from", string(ch.Prev.Status)),
				logger.String("to", string(ch.Next.Status)),
				logger.String("source", string(ch.Update.Source)))
		}
		uc.emit(ridesession.Event{Name: constants.EventSessionState, RideID: t.rideID, Data: NewSessionView(ch.Next)})
	}
}

func (uc *trackerUC) onResult(u models.Update, outcome models.UpdateOutcome) {
	label := "applied"
	if !outcome.Applied {
		label = outcome.Reason
		logger.Debug("Session update discarded",
			logger.RideID(u.RideID),
			logger.String("source", string(u.Source)),
			logger.String("kind", string(u.Kind)),
			logger.String("reason", outcome.Reason))
	}
	uc.metrics.Update(string(u.Source), string(u.Kind), label)
}

func (uc *trackerUC) pushHandler(t *tracked, event string) realtime.Handler {
	return func(data json.RawMessage) {
		u, err := PushUpdate(event, data, uc.role, uc.now())
		if err != nil {
			logger.Warn("Dropping malformed ride event",
				logger.String("event", event),
				logger.Err(err))
			return
		}
		// Every session sees every ride event
		if u.RideID != t.rideID {
			return
		}
		uc.apply(t, u)
	}
}

func (uc *trackerUC) countdownCallbacks(t *tracked) countdown.Callbacks {
	return countdown.Callbacks{
		OnTick: func(remaining int) {
			if t.session.Current().Status != models.RideStatusRequesting {
				return
			}
			uc.emit(ridesession.Event{
				Name:   constants.EventSearchCountdown,
				RideID: t.rideID,
				Data:   map[string]int{"remaining": remaining},
			})
		},
		OnTimeout: func() {
			if t.session.Current().Status != models.RideStatusRequesting {
				return
			}
			logger.Info("Search timed out", logger.RideID(t.rideID))
			uc.emit(ridesession.Event{
				Name:   constants.EventSearchTimeout,
				RideID: t.rideID,
				Data:   map[string]string{"ride_id": t.rideID},
			})
		},
	}
}

func (uc *trackerUC) fetch(ctx context.Context, rideID string) (*models.RideSnapshot, error) {
	ctx = requestcontext.WithRequestContext(ctx, requestcontext.New(uc.cfg.App.Name))
	ctx, txn := uc.tracer.StartTransaction(ctx, "RideSession.Poll")
	defer txn.End()
	txn.AddAttribute("ride.id", rideID)

	snap, err := uc.ridesGW.FetchRide(ctx, rideID)
	if err != nil {
		txn.NoticeError(err)
		return nil, &models.PollError{RideID: rideID, StatusCode: models.StatusCodeOf(err), Err: err}
	}
	return snap, nil
}

func (uc *trackerUC) runAction(ctx context.Context, action, rideID string, fn func(context.Context) error) error {
	ctx, txn := uc.tracer.StartTransaction(ctx, "RideSession."+action)
	defer txn.End()
	txn.AddAttribute("ride.id", rideID)

	start := time.Now()
	err := fn(ctx)
	result := "success"
	if err != nil {
		result = "error"
		txn.NoticeError(err)
	}
	uc.metrics.Action(action, result, time.Since(start).Seconds())

	if err != nil {
		logger.Warn("Ride action failed",
			logger.String("action", action),
			logger.RideID(rideID),
			logger.Err(err))
		return newActionError(action, rideID, err)
	}
	return nil
}

func newActionError(action, rideID string, err error) *models.ActionError {
	code := models.StatusCodeOf(err)
	if code == http.StatusNotFound {
		err = fmt.Errorf("%w: %v", models.ErrRideNotFound, err)
	}
	return &models.ActionError{Action: action, RideID: rideID, StatusCode: code, Err: err}
}

func (uc *trackerUC) get(rideID string) (*tracked, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	t, ok := uc.sessions[rideID]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	return t, nil
}

// getActive returns the tracked ride for an action, refusing terminal ones
func (uc *trackerUC) getActive(action, rideID string) (*tracked, error) {
	t, err := uc.get(rideID)
	if err != nil {
		return nil, &models.ActionError{Action: action, RideID: rideID, Err: err}
	}
	if t.session.Terminal() {
		return nil, &models.ActionError{Action: action, RideID: rideID, Err: models.ErrTerminal}
	}
	return t, nil
}

// persist records the current status in the active ride pointer unless the
// ride stopped being tracked meanwhile. A StopTracking racing with it clears
// the pointer only after this write landed.
func (uc *trackerUC) persist(ctx context.Context, t *tracked) {
	uc.persistMu.Lock()
	defer uc.persistMu.Unlock()

	uc.mu.Lock()
	if uc.sessions[t.rideID] != t {
		uc.mu.Unlock()
		return
	}
	cur := t.session.Current()
	uc.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), repoTimeout)
	defer cancel()
	err := uc.activeRepo.Save(ctx, models.ActiveRide{
		RideID:    cur.RideID,
		Role:      cur.Role,
		Status:    cur.Status,
		UpdatedAt: uc.now(),
	})
	if err != nil {
		logger.Warn("Failed to save active ride", logger.RideID(t.rideID), logger.Err(err))
	}
}

// clearPointer drops the active ride pointer for a ride that is no longer
// tracked. A ride tracked again in the meantime keeps its pointer.
func (uc *trackerUC) clearPointer(rideID string) {
	uc.persistMu.Lock()
	defer uc.persistMu.Unlock()

	uc.mu.Lock()
	_, tracked := uc.sessions[rideID]
	uc.mu.Unlock()
	if tracked {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), repoTimeout)
	defer cancel()
	if err := uc.activeRepo.Clear(ctx, rideID); err != nil {
		logger.Warn("Failed to clear active ride", logger.RideID(rideID), logger.Err(err))
	}
}

func (uc *trackerUC) refreshConnection(t *tracked) {
	threshold := uc.cfg.Tracking.PollFailureThreshold
	if threshold <= 0 {
		threshold = 3
	}
	state := models.ConnectionOK
	if uc.transport.State() == realtime.StateOffline && int(t.pollFailures.Load()) >= threshold {
		state = models.ConnectionProblem
	}
	if t.session.SetConnection(state) {
		logger.Info("Connection state changed", logger.RideID(t.rideID), logger.String("connection", string(state)))
	}
}

func (uc *trackerUC) countdownSeconds() int {
	if uc.cfg.Tracking.CountdownSeconds > 0 {
		return uc.cfg.Tracking.CountdownSeconds
	}
	return 30
}

// pollSink feeds reconciliation results into one tracked ride
type pollSink struct {
	uc *trackerUC
	t  *tracked
}

func (s *pollSink) ApplySnapshot(snap *models.RideSnapshot) {
	s.t.pollFailures.Store(0)
	s.uc.apply(s.t, SnapshotUpdate(snap, s.uc.role, models.SourcePoll, s.uc.now()))
	s.uc.refreshConnection(s.t)
}

func (s *pollSink) PollFailed(err error) {
	s.t.pollFailures.Add(1)
	s.uc.metrics.PollFailed()
	s.uc.refreshConnection(s.t)
}

func (s *pollSink) Terminal() bool {
	return s.t.session.Terminal()
}
