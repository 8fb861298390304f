package usecase

import (
	"context"
	"math/rand"
	"net/http"
	"regexp"
	"strconv"

	"farmily/internal/domain/entity"
	"farmily/internal/domain/repository"
	"farmily/pkg/errors"
)

const (
	minMeetingID = 100000
	maxMeetingID = 999999
)

var meetingIDPattern = regexp.MustCompile(`^[1-9][0-9]{5}$`)

type MeetingUseCase struct {
	userRepo repository.UserRepository
	appID    string
	token    string
	rand     func(n int) int
}

func NewMeetingUseCase(userRepo repository.UserRepository, appID, token string) *MeetingUseCase {
	return &MeetingUseCase{
		userRepo: userRepo,
		appID:    appID,
		token:    token,
		rand:     rand.Intn,
	}
}

// NewMeetingID returns a six digit room number.
func (uc *MeetingUseCase) NewMeetingID() string {
	return strconv.Itoa(minMeetingID + uc.rand(maxMeetingID-minMeetingID+1))
}

func (uc *MeetingUseCase) Join(ctx context.Context, uid, meetingID string) (*entity.MeetingJoinInfo, error) {
	if !meetingIDPattern.MatchString(meetingID) {
		return nil, errors.BadRequest("Meeting ID must be 6 digits", nil)
	}
	if uc.appID == "" {
		return nil, errors.New("MEETINGS_DISABLED", "Video calling is not configured", http.StatusServiceUnavailable, nil)
	}

	name := ""
	if user, err := uc.userRepo.GetByID(ctx, uid); err == nil {
		name = user.CallName()
	}
	return &entity.MeetingJoinInfo{
		AppID:       uc.appID,
		Channel:     meetingID,
		Token:       uc.token,
		UID:         uid,
		DisplayName: name,
	}, nil
}
