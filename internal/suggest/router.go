package suggest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stuapp/suggest-api/internal/models"
	"github.com/stuapp/suggest-api/internal/services/ai"
	"go.uber.org/zap"
)

// Stage timeouts. Collaborator calls are bounded; on expiry the stage fails
// closed as an internal error, never as a silent allow.
const (
	tierLookupTimeout = 5 * time.Second
	ledgerTimeout     = 5 * time.Second
	dispatchTimeout   = 60 * time.Second
)

// AuditPublisher emits security events fire-and-forget. Implementations must
// never block the request path on broker trouble; publish failures are
// logged and dropped.
type AuditPublisher interface {
	Publish(ctx context.Context, event *models.AuditEvent)
}

// Caller identifies the authenticated requester. A nil Caller means the
// identity stage could not resolve one.
type Caller struct {
	ID       uuid.UUID
	ClientIP string
}

// UsageInfo is the quota snapshot carried in the response envelope.
// RequestsRemaining is -1 for unlimited tiers.
type UsageInfo struct {
	RequestsUsed      int  `json:"requests_used"`
	RequestsRemaining int  `json:"requests_remaining"`
	FeatureAvailable  bool `json:"feature_available"`
}

// Envelope is the uniform response for every outcome of the pipeline. It
// always has Success, and either Data or Error/FieldErrors; Tier and Usage
// are filled in as far as the pipeline got.
type Envelope struct {
	// Kind is the failure classification for transport status mapping; it
	// is empty on success and never serialized.
	Kind FailureKind `json:"-"`

	Success         bool                    `json:"success"`
	Data            []models.Suggestion     `json:"data"`
	Tier            models.SubscriptionTier `json:"tier,omitempty"`
	Usage           *UsageInfo              `json:"usage,omitempty"`
	UpgradeRequired bool                    `json:"upgrade_required"`
	Error           string                  `json:"error,omitempty"`
	FieldErrors     map[string][]string     `json:"field_errors,omitempty"`
}

// Router runs the suggestion request pipeline: identity, validation, access,
// quota check, dispatch, usage commit, response assembly. Stages run strictly
// in that order and any stage may terminate the pipeline with a typed
// failure.
type Router struct {
	tiers  TierResolver
	ledger *Ledger
	engine ai.Engine
	audit  AuditPublisher
	logger *zap.Logger
}

// NewRouter creates a request router. audit may be nil when no audit queue
// is configured.
func NewRouter(tiers TierResolver, ledger *Ledger, engine ai.Engine, audit AuditPublisher, logger *zap.Logger) *Router {
	return &Router{
		tiers:  tiers,
		ledger: ledger,
		engine: engine,
		audit:  audit,
		logger: logger,
	}
}

// Route processes one suggestion request end to end and always returns an
// envelope; no error escapes this boundary.
func (rt *Router) Route(ctx context.Context, caller *Caller, raw []byte) *Envelope {
	if caller == nil {
		rt.emitAudit(ctx, nil, "", models.AuditKindAuthentication, models.AuditSeverityMedium,
			"suggestion request without caller identity")
		return failureEnvelope(errUnauthenticated(), "", nil)
	}

	req, perr := ParseRequest(raw)
	if perr != nil {
		rt.logFailure(caller, "", perr)
		return failureEnvelope(perr, "", nil)
	}

	tierCtx, cancel := context.WithTimeout(ctx, tierLookupTimeout)
	tier, err := rt.tiers.ResolveTier(tierCtx, caller.ID)
	cancel()
	if err != nil {
		perr = errInternal(err)
		rt.logFailure(caller, req.Feature, perr)
		return failureEnvelope(perr, "", nil)
	}

	if perr := CheckAccess(models.Feature(req.Feature), tier); perr != nil {
		rt.emitAudit(ctx, &caller.ID, caller.ClientIP, models.AuditKindAccessDenied, models.AuditSeverityLow,
			"feature "+req.Feature+" denied for tier "+string(tier))
		rt.logFailure(caller, req.Feature, perr)
		return failureEnvelope(perr, tier, nil)
	}

	checkCtx, cancel := context.WithTimeout(ctx, ledgerTimeout)
	snap, err := rt.ledger.Check(checkCtx, caller.ID, tier, time.Now())
	cancel()
	if err != nil {
		perr = errInternal(err)
		rt.logFailure(caller, req.Feature, perr)
		return failureEnvelope(perr, tier, nil)
	}
	if !snap.Permitted {
		rt.emitAudit(ctx, &caller.ID, caller.ClientIP, models.AuditKindQuotaExceeded, models.AuditSeverityLow,
			"daily quota exhausted for tier "+string(tier))
		perr = errQuotaExceeded()
		rt.logFailure(caller, req.Feature, perr)
		return failureEnvelope(perr, tier, usageFrom(snap, true))
	}

	in := &ai.Input{
		UserID:      caller.ID,
		Tier:        tier,
		Tasks:       req.Tasks,
		CurrentTime: req.CurrentTime(),
		Upcoming:    req.Context.Upcoming,
		Recent:      req.Context.Recent,
		Preferences: req.Context.Preferences,
	}

	dispatchCtx, cancel := context.WithTimeout(ctx, dispatchTimeout)
	suggestions, perr := Dispatch(dispatchCtx, rt.engine, req, in)
	cancel()
	if perr != nil {
		// Dispatch did not succeed, so nothing is committed and the quota
		// snapshot from the check still holds.
		rt.logFailure(caller, req.Feature, perr)
		return failureEnvelope(perr, tier, usageFrom(snap, true))
	}

	commitCtx, cancel := context.WithTimeout(ctx, ledgerTimeout)
	committed, err := rt.ledger.Commit(commitCtx, caller.ID, tier, time.Now())
	cancel()
	if err != nil {
		perr = errInternal(err)
		rt.logFailure(caller, req.Feature, perr)
		return failureEnvelope(perr, tier, usageFrom(snap, true))
	}

	if rt.logger != nil {
		rt.logger.Info("suggestion_request_completed",
			zap.String("user_id", caller.ID.String()),
			zap.String("feature", req.Feature),
			zap.String("tier", string(tier)),
			zap.Int("suggestions", len(suggestions)),
			zap.Int("requests_used", committed.Used),
		)
	}

	return &Envelope{
		Success: true,
		Data:    suggestions,
		Tier:    models.NormalizeTier(tier),
		Usage:   usageFrom(committed, true),
	}
}

// Usage is the read-only variant: it reports the caller's tier and current
// quota without dispatching or mutating anything. feature may be empty, in
// which case availability is reported for basic suggestions.
func (rt *Router) Usage(ctx context.Context, caller *Caller, feature string) *Envelope {
	if caller == nil {
		return failureEnvelope(errUnauthenticated(), "", nil)
	}
	if feature == "" {
		feature = string(models.FeatureBasicSuggestions)
	}

	tierCtx, cancel := context.WithTimeout(ctx, tierLookupTimeout)
	tier, err := rt.tiers.ResolveTier(tierCtx, caller.ID)
	cancel()
	if err != nil {
		return failureEnvelope(errInternal(err), "", nil)
	}

	checkCtx, cancel := context.WithTimeout(ctx, ledgerTimeout)
	snap, err := rt.ledger.Check(checkCtx, caller.ID, tier, time.Now())
	cancel()
	if err != nil {
		return failureEnvelope(errInternal(err), tier, nil)
	}

	return &Envelope{
		Success: true,
		Tier:    models.NormalizeTier(tier),
		Usage:   usageFrom(snap, models.FeatureAvailable(models.Feature(feature), tier)),
	}
}

func usageFrom(snap QuotaSnapshot, featureAvailable bool) *UsageInfo {
	return &UsageInfo{
		RequestsUsed:      snap.Used,
		RequestsRemaining: snap.Remaining(),
		FeatureAvailable:  featureAvailable,
	}
}

func failureEnvelope(perr *PipelineError, tier models.SubscriptionTier, usage *UsageInfo) *Envelope {
	env := &Envelope{
		Kind:            perr.Kind,
		Success:         false,
		UpgradeRequired: perr.UpgradeRequired(),
		Error:           perr.Message,
		FieldErrors:     perr.FieldErrors,
		Usage:           usage,
	}
	if tier != "" {
		env.Tier = models.NormalizeTier(tier)
	}
	return env
}

func (rt *Router) emitAudit(ctx context.Context, userID *uuid.UUID, clientIP string, kind models.AuditKind, severity models.AuditSeverity, detail string) {
	if rt.audit == nil {
		return
	}
	event := models.NewAuditEvent(kind, severity, detail)
	event.UserID = userID
	event.ClientIP = clientIP
	rt.audit.Publish(ctx, event)
}

func (rt *Router) logFailure(caller *Caller, feature string, perr *PipelineError) {
	if rt.logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("kind", string(perr.Kind)),
		zap.String("feature", feature),
	}
	if caller != nil {
		fields = append(fields, zap.String("user_id", caller.ID.String()))
	}
	if perr.Err != nil {
		fields = append(fields, zap.Error(perr.Err))
	}
	switch perr.Kind {
	case FailureInternal, FailureHandlerUnavailable:
		rt.logger.Error("suggestion_request_failed", fields...)
	default:
		rt.logger.Info("suggestion_request_rejected", fields...)
	}
}
