package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stockdesk/stockdesk/internal/api"
	"github.com/stockdesk/stockdesk/internal/logging"
)

// Action is a workflow transition on a receipt or inventory check.
type Action string

// Workflow actions, each mapped to POST {path}/{id}/{action}.
const (
	ActionConfirm Action = "confirm"
	ActionApprove Action = "approve"
	ActionCancel  Action = "cancel"
	ActionReject  Action = "reject"
)

// ErrInvalidAction is returned for a transition the resource does not offer.
var ErrInvalidAction = errors.New("invalid workflow action")

// ErrReasonRequired is returned when rejecting an inventory check without a reason.
var ErrReasonRequired = errors.New("a reason is required to reject an inventory check")

// ParseAction accepts an action name in any case.
func ParseAction(s string) (Action, error) {
	a := Action(strings.ToLower(strings.TrimSpace(s)))
	switch a {
	case ActionConfirm, ActionApprove, ActionCancel, ActionReject:
		return a, nil
	default:
		return "", fmt.Errorf("%w %q (want confirm, approve, cancel or reject)", ErrInvalidAction, s)
	}
}

// Workflow is a Collection whose records move through PENDING -> APPROVED/IMPORTED/... states.
type Workflow[T Record, P any] struct {
	*Collection[T, P]
}

// NewWorkflow binds a workflow resource to a client.
func NewWorkflow[T Record, P any](client *api.Client, resource Resource) *Workflow[T, P] {
	return &Workflow[T, P]{Collection: NewCollection[T, P](client, resource)}
}

type rejectBody struct {
	Reason string `json:"reason"`
}

// Transition applies action to the record with id and returns the updated record.
// reason is sent as the reject body; inventory checks require it.
func (w *Workflow[T, P]) Transition(ctx context.Context, id int64, action Action, reason string) (T, error) {
	log := logging.FromContext(ctx)
	var out T

	if !w.resource.HasAction(action) {
		return out, fmt.Errorf("%w: %s does not support %s", ErrInvalidAction, w.resource.Name, action)
	}
	var body any
	if action == ActionReject {
		if reason == "" && w.resource.Name == ResourceChecks {
			return out, ErrReasonRequired
		}
		if reason != "" {
			body = rejectBody{Reason: reason}
		}
	}

	log.Info().
		Ctx(ctx).
		Str("component", "inventory").
		Str("operation", "transition").
		Str("resource", w.resource.Name).
		Int64("id", id).
		Str("action", string(action)).
		Msg("applying workflow action")

	if err := w.client.Post(ctx, fmt.Sprintf("%s/%s", w.itemPath(id), action), body, &out); err != nil {
		return out, fmt.Errorf("%s %s %d: %w", action, w.resource.Name, id, err)
	}
	return out, nil
}

// Transitioner is the type-erased workflow surface used by the receipt command.
type Transitioner interface {
	Browser
	TransitionRecord(ctx context.Context, id int64, action Action, reason string) (Record, error)
}

// TransitionRecord is Transition with the result widened to Record.
func (w *Workflow[T, P]) TransitionRecord(ctx context.Context, id int64, action Action, reason string) (Record, error) {
	r, err := w.Transition(ctx, id, action, reason)
	if err != nil {
		return nil, err
	}
	return r, nil
}
