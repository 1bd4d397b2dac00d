package usecase

import (
	"fmt"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/domain/audit"
	idgen "github.com/riskibarqy/tournament-portal/internal/platform/id"
)

func newAuditEntry(
	idGen idgen.Generator,
	now time.Time,
	subjectID, actorID string,
	action audit.Action,
	oldValue, newValue, note string,
) (audit.Entry, error) {
	id, err := idGen.NewID()
	if err != nil {
		return audit.Entry{}, fmt.Errorf("generate history id: %w", err)
	}
	return audit.Entry{
		ID:        id,
		SubjectID: subjectID,
		Action:    action,
		ActorID:   actorID,
		OldValue:  oldValue,
		NewValue:  newValue,
		Note:      note,
		CreatedAt: now.UTC(),
	}, nil
}
