// Package ingest feeds toast commands from a Kafka topic into a store.
package ingest

import (
	"errors"
	"fmt"

	"github.com/colonyops/toaster/internal/core/toast"
)

// Command types carried on the topic.
const (
	CmdNotify     = "notify"
	CmdUpdate     = "update"
	CmdDismiss    = "dismiss"
	CmdDismissAll = "dismiss_all"
	CmdRemove     = "remove"
	CmdRemoveAll  = "remove_all"
)

// Command is the JSON value of one Kafka message.
type Command struct {
	Type    string         `json:"type"`
	ID      string         `json:"id,omitempty"`
	Payload *toast.Payload `json:"payload,omitempty"`
	Patch   *toast.Patch   `json:"patch,omitempty"`
}

var errMissingID = errors.New("id is required")

// Apply runs cmd against s. Per-id commands reject an empty id so a
// malformed message can never address every toast. For notify the new
// toast id is returned.
func Apply(s *toast.Store, cmd Command) (string, error) {
	switch cmd.Type {
	case CmdNotify:
		if cmd.Payload == nil {
			return "", errors.New("notify requires a payload")
		}
		return s.Notify(*cmd.Payload).ID, nil

	case CmdUpdate:
		if cmd.ID == "" {
			return "", errMissingID
		}
		if cmd.Patch == nil {
			return "", errors.New("update requires a patch")
		}
		s.Update(cmd.ID, *cmd.Patch)

	case CmdDismiss:
		if cmd.ID == "" {
			return "", errMissingID
		}
		s.Dismiss(cmd.ID)

	case CmdRemove:
		if cmd.ID == "" {
			return "", errMissingID
		}
		s.Remove(cmd.ID)

	case CmdDismissAll:
		s.DismissAll()

	case CmdRemoveAll:
		s.RemoveAll()

	default:
		return "", fmt.Errorf("unknown command type %q", cmd.Type)
	}
	return cmd.ID, nil
}
