// Package flower models the symbolic reward a leader grants to a check-in.
package flower

import (
	"fmt"
	"strings"
	"time"

	"github.com/hongyangchun/QQClub-sub003/internal/domain/checkin"
	apperrors "github.com/hongyangchun/QQClub-sub003/internal/platform/errors"
	"github.com/hongyangchun/QQClub-sub003/internal/platform/id"
)

// Flower is one reward attached to one check-in. The CheckInID is unique at
// the storage boundary; a flower is immutable once granted and later window
// changes never invalidate it.
type Flower struct {
	ID              string
	CheckInID       string
	GiverUserID     string
	RecipientUserID string
	// ScheduleID is denormalized from the check-in for per-day queries.
	ScheduleID string
	Comment    string
	CreatedAt  time.Time
}

// Give builds a flower for a check-in. The authorization window check
// happens in the policy layer before this call; here only the structural
// guards apply.
func Give(c checkin.CheckIn, giverUserID, comment string, now func() time.Time, idGenerator func() (string, error)) (Flower, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}

	giverUserID = strings.TrimSpace(giverUserID)
	if giverUserID == "" || giverUserID == c.UserID {
		return Flower{}, apperrors.New(apperrors.CodeFlowerSelfGrant, "a leader cannot reward their own check-in")
	}
	if c.HasFlower {
		return Flower{}, apperrors.New(apperrors.CodeDuplicateSubmission, "check-in already has a flower")
	}

	flowerID, err := idGenerator()
	if err != nil {
		return Flower{}, fmt.Errorf("generate flower id: %w", err)
	}
	return Flower{
		ID:              flowerID,
		CheckInID:       c.ID,
		GiverUserID:     giverUserID,
		RecipientUserID: c.UserID,
		ScheduleID:      c.ScheduleID,
		Comment:         strings.TrimSpace(comment),
		CreatedAt:       now().UTC(),
	}, nil
}
