package handler

import (
	"github.com/labstack/echo/v4"

	"farmily/internal/usecase"
	"farmily/pkg/response"
)

type MeetingHandler struct {
	meetingUseCase *usecase.MeetingUseCase
}

func NewMeetingHandler(meetingUseCase *usecase.MeetingUseCase) *MeetingHandler {
	return &MeetingHandler{
		meetingUseCase: meetingUseCase,
	}
}

func (h *MeetingHandler) CreateMeeting(c echo.Context) error {
	return response.Created(c, map[string]string{
		"meeting_id": h.meetingUseCase.NewMeetingID(),
	})
}

func (h *MeetingHandler) JoinMeeting(c echo.Context) error {
	uid, err := currentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	info, err := h.meetingUseCase.Join(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, info)
}
